package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/revistete-backend/internal/handlers/dto"
	"github.com/rafabene/revistete-backend/internal/services"
)

// GeocodingHandler expõe o geocoding inverso
type GeocodingHandler struct {
	geocodingService *services.GeocodingService
	errs             *ErrorResponder
}

func NewGeocodingHandler(geocodingService *services.GeocodingService, errs *ErrorResponder) *GeocodingHandler {
	return &GeocodingHandler{geocodingService: geocodingService, errs: errs}
}

// Reverse resolve lat/lng em cidade, país e endereço
//
//	@Summary	Geocoding inverso
//	@Tags		geocode
//	@Produce	json
//	@Param		lat	query		number	true	"Latitude"
//	@Param		lng	query		number	true	"Longitude"
//	@Success	200	{object}	dto.PlaceResponse
//	@Failure	400	{object}	dto.ErrorResponse
//	@Router		/geocode/reverse [get]
func (h *GeocodingHandler) Reverse(c *gin.Context) {
	var query dto.ReverseGeocodeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.errs.RespondBinding(c, err)
		return
	}

	place, err := h.geocodingService.Reverse(c.Request.Context(), *query.Lat, *query.Lng)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PlaceResponse{
		Envelope: dto.Envelope{Success: true},
		City:     place.City,
		Country:  place.Country,
		Address:  place.Address,
	})
}
