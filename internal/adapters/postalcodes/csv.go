package postalcodes

import (
	"encoding/csv"
	"errors"
	"expert-directory-service/internal/domain"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
)

var (
	codeColumns = []string{"postal_code", "postalcode", "postnr", "zip", "zipcode", "code"}
	cityColumns = []string{"city", "bynavn", "name", "place"}
	latColumns  = []string{"lat", "latitude"}
	lonColumns  = []string{"lon", "lng", "long", "longitude"}
)

type columnIndex struct {
	code, city, lat, lon int
}

// LoadCSV reads postal-code rows from a CSV stream with a header row.
//
// Columns are located by header name (e.g. postal_code, city, lat, lon).
// Rows that cannot be read or carry invalid coordinates are logged and
// skipped; only a missing header or a missing required column fails the load.
func LoadCSV(r io.Reader) ([]domain.PostalCode, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("load postal codes csv: read header: %w", err)
	}

	idx, err := indexColumns(header)
	if err != nil {
		return nil, fmt.Errorf("load postal codes csv: %w", err)
	}

	out := make([]domain.PostalCode, 0, 1024)
	line := 1
	for {
		fields, err := cr.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("postal codes csv: skip unreadable line=%d err=%v", line, err)
			continue
		}

		pc, err := parseRow(fields, idx)
		if err != nil {
			log.Printf("postal codes csv: skip line=%d err=%v", line, err)
			continue
		}
		out = append(out, pc)
	}

	return out, nil
}

func indexColumns(header []string) (columnIndex, error) {
	find := func(aliases []string) int {
		for i, h := range header {
			h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
			for _, a := range aliases {
				if h == a {
					return i
				}
			}
		}
		return -1
	}

	idx := columnIndex{
		code: find(codeColumns),
		city: find(cityColumns),
		lat:  find(latColumns),
		lon:  find(lonColumns),
	}

	if idx.code < 0 || idx.lat < 0 || idx.lon < 0 {
		return idx, fmt.Errorf("header %v: postal code, latitude and longitude columns are required", header)
	}

	return idx, nil
}

func parseRow(fields []string, idx columnIndex) (domain.PostalCode, error) {
	get := func(i int) string {
		if i < 0 || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	code := get(idx.code)
	if code == "" {
		return domain.PostalCode{}, errors.New("empty postal code")
	}

	lat, err := strconv.ParseFloat(get(idx.lat), 64)
	if err != nil {
		return domain.PostalCode{}, fmt.Errorf("postal code %q: parse latitude: %w", code, err)
	}

	lon, err := strconv.ParseFloat(get(idx.lon), 64)
	if err != nil {
		return domain.PostalCode{}, fmt.Errorf("postal code %q: parse longitude: %w", code, err)
	}

	coords := domain.Coordinates{Lat: lat, Lon: lon}
	if !coords.Valid() {
		return domain.PostalCode{}, fmt.Errorf("postal code %q: coordinates out of range lat=%v lon=%v", code, lat, lon)
	}

	return domain.PostalCode{Code: code, City: get(idx.city), Coordinates: coords}, nil
}
