package valueobjects

import (
	"errors"
	"math"
	"strings"
)

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// GeoPointType é o único tipo GeoJSON suportado
const GeoPointType = "Point"

// GeoPoint é uma localização no formato GeoJSON.
// A ordem das coordenadas é sempre [longitude, latitude].
type GeoPoint struct {
	longitude float64
	latitude  float64
	City      string
	Country   string
	Address   string
}

// NewGeoPoint cria um GeoPoint validado.
// [0, 0] é o sentinel de "sem localização" e é rejeitado.
func NewGeoPoint(longitude, latitude float64, city, country, address string) (*GeoPoint, error) {
	if !isFinite(longitude) || !isFinite(latitude) {
		return nil, ErrInvalidCoordinates
	}
	if longitude == 0 && latitude == 0 {
		return nil, ErrInvalidCoordinates
	}
	if longitude < -180 || longitude > 180 || latitude < -90 || latitude > 90 {
		return nil, ErrInvalidCoordinates
	}

	return &GeoPoint{
		longitude: longitude,
		latitude:  latitude,
		City:      strings.TrimSpace(city),
		Country:   strings.TrimSpace(country),
		Address:   strings.TrimSpace(address),
	}, nil
}

// Longitude retorna a longitude (primeira coordenada)
func (g GeoPoint) Longitude() float64 {
	return g.longitude
}

// Latitude retorna a latitude (segunda coordenada)
func (g GeoPoint) Latitude() float64 {
	return g.latitude
}

// Coordinates retorna [longitude, latitude]
func (g GeoPoint) Coordinates() [2]float64 {
	return [2]float64{g.longitude, g.latitude}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
