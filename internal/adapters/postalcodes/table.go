package postalcodes

import (
	"expert-directory-service/internal/domain"
	"sort"
	"strconv"
	"strings"
)

// Table is an immutable in-memory postal-code lookup table.
//
// Postal codes are matched exactly (after whitespace normalization and
// upper-casing). City names are matched case-insensitively; a city that spans
// several postal codes is represented by its numerically lowest code, with
// non-numeric codes ordered after numeric ones.
type Table struct {
	byCode map[string]domain.PostalCode
	byCity map[string]domain.PostalCode
}

// NewTable builds a table from entries. Entries with an empty code or invalid
// coordinates are ignored; a repeated code keeps the last entry.
func NewTable(entries []domain.PostalCode) *Table {
	t := &Table{
		byCode: make(map[string]domain.PostalCode, len(entries)),
		byCity: make(map[string]domain.PostalCode),
	}

	for _, e := range entries {
		code := normalizeCode(e.Code)
		if code == "" || !e.Coordinates.Valid() {
			continue
		}
		e.Code = code
		e.City = strings.Join(strings.Fields(e.City), " ")
		t.byCode[code] = e
	}

	for _, e := range t.byCode {
		city := normalizeCity(e.City)
		if city == "" {
			continue
		}
		cur, ok := t.byCity[city]
		if !ok || lessPostalCode(e.Code, cur.Code) {
			t.byCity[city] = e
		}
	}

	return t
}

func (t *Table) LookupPostalCode(code string) (domain.PostalCode, bool) {
	if t == nil {
		return domain.PostalCode{}, false
	}
	pc, ok := t.byCode[normalizeCode(code)]
	return pc, ok
}

func (t *Table) LookupCity(city string) (domain.PostalCode, bool) {
	if t == nil {
		return domain.PostalCode{}, false
	}
	pc, ok := t.byCity[normalizeCity(city)]
	return pc, ok
}

// Len returns the number of distinct postal codes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byCode)
}

// Entries returns all rows ordered by postal code.
func (t *Table) Entries() []domain.PostalCode {
	if t == nil {
		return nil
	}
	out := make([]domain.PostalCode, 0, len(t.byCode))
	for _, e := range t.byCode {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return lessPostalCode(out[i].Code, out[j].Code) })
	return out
}

func normalizeCode(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func normalizeCity(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// lessPostalCode orders numeric codes by value, then everything else lexically.
func lessPostalCode(a, b string) bool {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)

	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
