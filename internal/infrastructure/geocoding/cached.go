package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rafabene/revistete-backend/internal/domain/ports"
	"github.com/rafabene/revistete-backend/internal/infrastructure/metrics"
)

// CachedGeocoder guarda os resultados de outro Geocoder no cache.
// Coordenadas são arredondadas a 4 casas (~11 m) para compor a chave.
type CachedGeocoder struct {
	next   ports.Geocoder
	cache  ports.Cache
	ttl    time.Duration
	logger ports.Logger
}

func NewCachedGeocoder(next ports.Geocoder, cache ports.Cache, ttl time.Duration, logger ports.Logger) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache, ttl: ttl, logger: logger}
}

func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("geocode:%.4f:%.4f", lat, lng)
}

func (g *CachedGeocoder) Reverse(ctx context.Context, lat, lng float64) (*ports.Place, error) {
	key := cacheKey(lat, lng)

	raw, err := g.cache.Get(ctx, key)
	switch {
	case err == nil:
		var place ports.Place
		if jsonErr := json.Unmarshal([]byte(raw), &place); jsonErr == nil {
			metrics.ObserveGeocoding("cache", "hit")
			return &place, nil
		}
		g.logger.Warn("discarding corrupt geocoding cache entry", "key", key)
	case errors.Is(err, ports.ErrCacheMiss):
		metrics.ObserveGeocoding("cache", "miss")
	default:
		// cache indisponível não impede a consulta
		g.logger.Warn("geocoding cache read failed", "key", key, "error", err)
	}

	place, err := g.next.Reverse(ctx, lat, lng)
	if err != nil {
		metrics.ObserveGeocoding("upstream", "error")
		return nil, err
	}
	metrics.ObserveGeocoding("upstream", "ok")

	if data, err := json.Marshal(place); err == nil {
		if err := g.cache.Set(ctx, key, string(data), g.ttl); err != nil {
			g.logger.Warn("geocoding cache write failed", "key", key, "error", err)
		}
	}
	return place, nil
}
