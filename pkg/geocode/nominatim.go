package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// DefaultNominatimBaseURL is the public OSM Nominatim endpoint.
const DefaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

// nominatimPlace is one candidate in a Nominatim search response.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimProvider geocodes via OSM Nominatim. The usage policy requires an
// identifying User-Agent and at most one request per second, so the provider
// carries its own rate limiter.
type NominatimProvider struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// NewNominatimProvider creates a NominatimProvider. A nil limiter gets the
// policy default of 1 req/s.
func NewNominatimProvider(hc *http.Client, baseURL, userAgent string, limiter *rate.Limiter) *NominatimProvider {
	if baseURL == "" {
		baseURL = DefaultNominatimBaseURL
	}
	if limiter == nil {
		limiter = rate.NewLimiter(1, 1)
	}
	return &NominatimProvider{httpClient: hc, baseURL: baseURL, userAgent: userAgent, limiter: limiter}
}

// Name implements Provider.
func (p *NominatimProvider) Name() string { return SourceNominatim }

// Available implements Provider. Nominatim refuses anonymous clients, so the
// provider is only usable once a User-Agent is configured.
func (p *NominatimProvider) Available() bool { return p.userAgent != "" }

// Geocode implements Provider by taking the first search candidate.
func (p *NominatimProvider) Geocode(ctx context.Context, address string) (*Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim rate limit")
	}

	params := url.Values{
		"q":      {address},
		"format": {"json"},
		"limit":  {"1"},
	}

	reqURL := p.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim build request")
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: nominatim returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim read body")
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim parse response")
	}

	if len(places) == 0 {
		return nil, nil
	}

	first := places[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim parse lat")
	}
	lon, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim parse lon")
	}

	return &Result{
		Lat:     lat,
		Lon:     lon,
		Address: first.DisplayName,
		Source:  SourceNominatim,
	}, nil
}
