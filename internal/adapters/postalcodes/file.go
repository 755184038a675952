package postalcodes

import (
	"expert-directory-service/internal/domain"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile reads a postal-code file. format is "csv" or "dbf"; when empty it
// is taken from the file extension.
func LoadFile(path, format string) ([]domain.PostalCode, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	switch format {
	case "csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("load postal codes: open %q: %w", path, err)
		}
		defer f.Close()
		return LoadCSV(f)
	case "dbf":
		return LoadDBF(path, DefaultDBFFields)
	default:
		return nil, fmt.Errorf("load postal codes: unsupported format %q for %q", format, path)
	}
}
