package domain

// A single row of the postal-code lookup table.
// Several postal codes may share a city name.
type PostalCode struct {
	Code        string
	City        string
	Coordinates Coordinates
}
