package dto

type ResolveLocationResponse struct {
	Location    string              `json:"location"`
	Coordinates CoordinatesResponse `json:"coordinates"`
}
