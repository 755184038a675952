package ports

import "expert-directory-service/internal/domain"

// Port: an in-memory snapshot of the postal-code lookup table.
type PostalCodeTable interface {
	// Return the entry for an exact postal code.
	LookupPostalCode(code string) (domain.PostalCode, bool)
	// Return the representative entry for a city name, matched case-insensitively.
	LookupCity(city string) (domain.PostalCode, bool)
}
