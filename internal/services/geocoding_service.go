package services

import (
	"context"

	"github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/domain/ports"
	"github.com/rafabene/revistete-backend/internal/domain/valueobjects"
)

// GeocodingService expõe o geocoding inverso para os clientes da API
type GeocodingService struct {
	geocoder ports.Geocoder
}

func NewGeocodingService(geocoder ports.Geocoder) *GeocodingService {
	return &GeocodingService{geocoder: geocoder}
}

// Reverse devolve cidade, país e endereço das coordenadas
func (s *GeocodingService) Reverse(ctx context.Context, lat, lng float64) (*ports.Place, error) {
	if _, err := valueobjects.NewGeoPoint(lng, lat, "", "", ""); err != nil {
		return nil, errors.ErrInvalidCoordinates
	}
	place, err := s.geocoder.Reverse(ctx, lat, lng)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return place, nil
}
