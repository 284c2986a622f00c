package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/domain/valueobjects"
)

var tracer = otel.Tracer("github.com/rafabene/revistete-backend/internal/services")

// startSpan abre um span para a operação. O end recebe o erro final.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := tracer.Start(ctx, name)
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// validateID rejeita identificadores que não são UUIDs
func validateID(field, id string) error {
	if err := uuid.Validate(id); err != nil {
		return errors.NewValidation(errors.ErrInvalidID.Message, fieldError(field, "uuid", "", id))
	}
	return nil
}

// LocationInput é uma localização recebida do cliente, já em [lng, lat]
type LocationInput struct {
	Longitude float64
	Latitude  float64
	City      string
	Country   string
	Address   string
}

// toGeoPoint converte a entrada. [0, 0] significa "sem localização" e
// devolve (nil, nil); coordenadas fora de faixa são erro de validação.
func (l *LocationInput) toGeoPoint() (*valueobjects.GeoPoint, error) {
	if l == nil || (l.Longitude == 0 && l.Latitude == 0) {
		return nil, nil
	}
	point, err := valueobjects.NewGeoPoint(l.Longitude, l.Latitude, l.City, l.Country, l.Address)
	if err != nil {
		return nil, errors.ErrInvalidCoordinates
	}
	return point, nil
}

// fieldError monta um erro de campo cuja mensagem é a chave validation.<tag>
func fieldError(field, tag, param, value string) errors.FieldError {
	return errors.FieldError{Field: field, Tag: tag, Param: param, Value: value, Message: "validation." + tag}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
