package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/domain/ports"
	"github.com/rafabene/revistete-backend/internal/infrastructure/cache"
	"github.com/rafabene/revistete-backend/internal/infrastructure/logging"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestNominatimClient_Reverse(t *testing.T) {
	ctx := context.Background()

	t.Run("envia parâmetros e cabeçalhos", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/reverse", r.URL.Path)
			assert.Equal(t, "40.4168", r.URL.Query().Get("lat"))
			assert.Equal(t, "-3.7038", r.URL.Query().Get("lon"))
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			assert.Equal(t, "ReVistete/1.0", r.Header.Get("User-Agent"))
			assert.Equal(t, "es", r.Header.Get("Accept-Language"))
			_, _ = w.Write([]byte(`{"display_name":"Puerta del Sol, Madrid, España","address":{"city":"Madrid","country":"España"}}`))
		})

		c := NewNominatimClient(srv.URL+"/", "ReVistete/1.0", "es", time.Second)
		place, err := c.Reverse(ctx, 40.4168, -3.7038)
		require.NoError(t, err)
		assert.Equal(t, "Madrid", place.City)
		assert.Equal(t, "España", place.Country)
		assert.Equal(t, "Puerta del Sol, Madrid, España", place.Address)
	})

	t.Run("cidade cai para town/village", func(t *testing.T) {
		tests := []struct {
			name    string
			payload string
			want    string
		}{
			{"town", `{"address":{"town":"Alcalá","county":"Madrid"}}`, "Alcalá"},
			{"village", `{"address":{"village":"Chinchón","state_district":"X"}}`, "Chinchón"},
			{"municipality", `{"address":{"municipality":"Mun"}}`, "Mun"},
			{"county", `{"address":{"county":"Condado"}}`, "Condado"},
			{"state_district", `{"address":{"state_district":"Distrito"}}`, "Distrito"},
			{"nenhum", `{"address":{"country":"España"}}`, ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
					_, _ = w.Write([]byte(tt.payload))
				})
				place, err := NewNominatimClient(srv.URL, "ua", "", time.Second).Reverse(ctx, 40, -3)
				require.NoError(t, err)
				assert.Equal(t, tt.want, place.City)
			})
		}
	})

	t.Run("ponto sem endereço devolve lugar vazio", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
		})
		place, err := NewNominatimClient(srv.URL, "ua", "", time.Second).Reverse(ctx, 10, 10)
		require.NoError(t, err)
		assert.Equal(t, &ports.Place{}, place)
	})

	t.Run("coordenadas inválidas", func(t *testing.T) {
		c := NewNominatimClient("http://127.0.0.1:1", "ua", "", time.Second)
		for _, p := range [][2]float64{{0, 0}, {91, 0}, {0, 181}} {
			_, err := c.Reverse(ctx, p[0], p[1])
			assert.True(t, errors.Is(err, domainerrors.ErrInvalidCoordinates))
		}
	})

	t.Run("timeout vira erro transitório", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		})
		_, err := NewNominatimClient(srv.URL, "ua", "", 50*time.Millisecond).Reverse(ctx, 40, -3)
		require.Error(t, err)
		assert.Equal(t, domainerrors.KindTransient, domainerrors.KindOf(err))
	})

	t.Run("upstream 503 é transitório", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		_, err := NewNominatimClient(srv.URL, "ua", "", time.Second).Reverse(ctx, 40, -3)
		assert.Equal(t, domainerrors.KindTransient, domainerrors.KindOf(err))
	})

	t.Run("upstream 400 é interno", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		})
		_, err := NewNominatimClient(srv.URL, "ua", "", time.Second).Reverse(ctx, 40, -3)
		assert.Equal(t, domainerrors.KindInternal, domainerrors.KindOf(err))
	})
}

type countingGeocoder struct {
	calls atomic.Int32
	place *ports.Place
	err   error
}

func (g *countingGeocoder) Reverse(context.Context, float64, float64) (*ports.Place, error) {
	g.calls.Add(1)
	if g.err != nil {
		return nil, g.err
	}
	p := *g.place
	return &p, nil
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func (failingCache) Set(context.Context, string, string, time.Duration) error {
	return errors.New("connection refused")
}

func TestCachedGeocoder(t *testing.T) {
	ctx := context.Background()
	log := logging.NewNopLogger()

	t.Run("segunda consulta vem do cache", func(t *testing.T) {
		next := &countingGeocoder{place: &ports.Place{City: "Madrid", Country: "España"}}
		g := NewCachedGeocoder(next, cache.NewMemoryCache(), time.Hour, log)

		p1, err := g.Reverse(ctx, 40.41681, -3.70379)
		require.NoError(t, err)
		p2, err := g.Reverse(ctx, 40.41679, -3.70381)
		require.NoError(t, err)

		assert.Equal(t, int32(1), next.calls.Load())
		assert.Equal(t, p1, p2)
	})

	t.Run("erro não é guardado", func(t *testing.T) {
		next := &countingGeocoder{err: domainerrors.ErrUpstreamTimeout}
		g := NewCachedGeocoder(next, cache.NewMemoryCache(), time.Hour, log)

		_, err := g.Reverse(ctx, 1, 1)
		require.Error(t, err)
		_, err = g.Reverse(ctx, 1, 1)
		require.Error(t, err)
		assert.Equal(t, int32(2), next.calls.Load())
	})

	t.Run("cache indisponível consulta o upstream", func(t *testing.T) {
		next := &countingGeocoder{place: &ports.Place{City: "Lisboa"}}
		g := NewCachedGeocoder(next, failingCache{}, time.Hour, log)

		p, err := g.Reverse(ctx, 38.7, -9.1)
		require.NoError(t, err)
		assert.Equal(t, "Lisboa", p.City)
	})

	t.Run("entrada corrompida é ignorada", func(t *testing.T) {
		mc := cache.NewMemoryCache()
		require.NoError(t, mc.Set(ctx, cacheKey(2, 2), "{not json", time.Hour))
		next := &countingGeocoder{place: &ports.Place{City: "X"}}
		g := NewCachedGeocoder(next, mc, time.Hour, log)

		p, err := g.Reverse(ctx, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, "X", p.City)
		assert.Equal(t, int32(1), next.calls.Load())
	})
}
