// Package dto holds request and response shapes shared across services.
package dto

// LocationDTO is an addressed coordinate. Zero latitude or longitude is valid, so the
// coordinates are not marked required and are range-checked by the domain instead.
type LocationDTO struct {
	Address   string  `json:"address" binding:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PointDTO is a bare coordinate. Both fields must be present; zero is a valid value.
type PointDTO struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// NewPointDTO returns a PointDTO holding lat and lng.
func NewPointDTO(lat, lng float64) PointDTO {
	return PointDTO{Latitude: &lat, Longitude: &lng}
}
