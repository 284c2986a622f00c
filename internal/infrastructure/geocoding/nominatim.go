package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainerrors "github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/domain/ports"
	"github.com/rafabene/revistete-backend/internal/domain/valueobjects"
)

// NominatimClient faz geocoding inverso contra uma API compatível com o Nominatim
type NominatimClient struct {
	baseURL   string
	userAgent string
	language  string
	timeout   time.Duration
	http      *http.Client
}

// NewNominatimClient cria o client. O timeout limita cada chamada externa.
func NewNominatimClient(baseURL, userAgent, language string, timeout time.Duration) *NominatimClient {
	return &NominatimClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		language:  language,
		timeout:   timeout,
		http:      &http.Client{},
	}
}

type nominatimResponse struct {
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
	Error       string            `json:"error"`
}

// ordem de preferência para o nome da cidade
var cityKeys = []string{"city", "town", "village", "municipality", "county", "state_district"}

func (c *NominatimClient) Reverse(ctx context.Context, lat, lng float64) (*ports.Place, error) {
	if _, err := valueobjects.NewGeoPoint(lng, lat, "", "", ""); err != nil {
		return nil, domainerrors.ErrInvalidCoordinates
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, domainerrors.Internal(err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, domainerrors.Wrap(domainerrors.ErrUpstreamTimeout, err)
		}
		return nil, domainerrors.Internal(fmt.Errorf("geocoding request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, domainerrors.Wrap(domainerrors.ErrUpstreamTimeout, fmt.Errorf("geocoding upstream status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domainerrors.Internal(fmt.Errorf("geocoding upstream status %d", resp.StatusCode))
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if isTimeout(err) {
			return nil, domainerrors.Wrap(domainerrors.ErrUpstreamTimeout, err)
		}
		return nil, domainerrors.Internal(fmt.Errorf("geocoding decode: %w", err))
	}
	if body.Error != "" {
		// Nominatim responde 200 com {"error": "Unable to geocode"} em pontos sem endereço
		return &ports.Place{}, nil
	}

	return &ports.Place{
		City:    pickCity(body.Address),
		Country: body.Address["country"],
		Address: body.DisplayName,
	}, nil
}

func pickCity(address map[string]string) string {
	for _, k := range cityKeys {
		if v := strings.TrimSpace(address[k]); v != "" {
			return v
		}
	}
	return ""
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
