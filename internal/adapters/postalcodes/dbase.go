package postalcodes

import (
	"errors"
	"expert-directory-service/internal/domain"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/Valentin-Kaiser/go-dbase/dbase"
)

// DBFFields names the columns of a dBase postal-code table.
type DBFFields struct {
	Code string
	City string
	Lat  string
	Lon  string
}

// DefaultDBFFields matches the attribute tables shipped with the national
// postal-code shapefiles.
var DefaultDBFFields = DBFFields{
	Code: "POSTNR",
	City: "NAVN",
	Lat:  "LAT",
	Lon:  "LON",
}

// LoadDBF reads postal-code rows from a dBase (.dbf) file.
// Deleted and invalid rows are skipped; read errors fail the load.
// Shapefile attribute tables are usually dBase III rather than FoxPro, so the
// file version check is disabled and the code page is taken from the header.
func LoadDBF(path string, fields DBFFields) ([]domain.PostalCode, error) {
	table, err := dbase.OpenTable(&dbase.Config{
		Filename:   path,
		TrimSpaces: true,
		ReadOnly:   true,
		Untested:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("load postal codes dbf: open %q: %w", path, err)
	}
	defer table.Close()

	out := make([]domain.PostalCode, 0, 1024)
	for !table.EOF() {
		row, err := table.Next()
		if err != nil {
			return nil, fmt.Errorf("load postal codes dbf: read row: %w", err)
		}
		if row == nil || row.Deleted {
			continue
		}

		pc, err := dbfRow(row, fields)
		if err != nil {
			log.Printf("postal codes dbf: skip row=%d err=%v", row.Position, err)
			continue
		}
		out = append(out, pc)
	}

	return out, nil
}

func dbfRow(row *dbase.Row, fields DBFFields) (domain.PostalCode, error) {
	code := dbfString(fieldValue(row, fields.Code))
	if code == "" {
		return domain.PostalCode{}, errors.New("empty postal code")
	}

	lat, ok := dbfFloat(fieldValue(row, fields.Lat))
	if !ok {
		return domain.PostalCode{}, fmt.Errorf("postal code %q: invalid latitude", code)
	}

	lon, ok := dbfFloat(fieldValue(row, fields.Lon))
	if !ok {
		return domain.PostalCode{}, fmt.Errorf("postal code %q: invalid longitude", code)
	}

	coords := domain.Coordinates{Lat: lat, Lon: lon}
	if !coords.Valid() {
		return domain.PostalCode{}, fmt.Errorf("postal code %q: coordinates out of range", code)
	}

	return domain.PostalCode{
		Code:        code,
		City:        dbfString(fieldValue(row, fields.City)),
		Coordinates: coords,
	}, nil
}

func fieldValue(row *dbase.Row, name string) interface{} {
	if name == "" {
		return nil
	}
	field := row.FieldByName(name)
	if field == nil {
		return nil
	}
	return field.GetValue()
}

// dbfString renders character and numeric columns as text. Numeric postal
// codes lose leading zeros in dBase, so integers are printed without padding.
func dbfString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func dbfFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case string, []byte:
		f, err := strconv.ParseFloat(strings.ReplaceAll(dbfString(t), ",", "."), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
