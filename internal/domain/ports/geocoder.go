package ports

import "context"

// Place é o resultado de um geocoding inverso
type Place struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Address string `json:"address"`
}

// Geocoder resolve coordenadas em um endereço legível
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (*Place, error)
}
