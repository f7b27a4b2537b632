package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
)

// DefaultBCBaseURL is the public BC Address Geocoder endpoint.
const DefaultBCBaseURL = "https://geocoder.api.gov.bc.ca"

// bcResponse is the GeoJSON response from the BC Address Geocoder.
type bcResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
		Properties struct {
			FullAddress   string  `json:"fullAddress"`
			AddressString string  `json:"addressString"`
			Score         float64 `json:"score"`
		} `json:"properties"`
	} `json:"features"`
}

// BCProvider geocodes via the BC Address Geocoder. An API key is optional;
// when set it is forwarded as the apikey query parameter.
type BCProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	minScore   int
}

// NewBCProvider creates a BCProvider with the given minimum match score.
func NewBCProvider(hc *http.Client, baseURL, apiKey string, minScore int) *BCProvider {
	if baseURL == "" {
		baseURL = DefaultBCBaseURL
	}
	return &BCProvider{httpClient: hc, baseURL: baseURL, apiKey: apiKey, minScore: minScore}
}

// Name implements Provider.
func (p *BCProvider) Name() string { return SourceBC }

// Available implements Provider. The BC geocoder works without a key.
func (p *BCProvider) Available() bool { return true }

// Geocode implements Provider using the addresses.json search endpoint.
func (p *BCProvider) Geocode(ctx context.Context, address string) (*Result, error) {
	params := url.Values{
		"addressString": {address},
		"maxResults":    {"1"},
		"minScore":      {fmt.Sprintf("%d", p.minScore)},
		"echo":          {"true"},
	}
	if p.apiKey != "" {
		params.Set("apikey", p.apiKey)
	}

	reqURL := p.baseURL + "/addresses.json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: bc build request")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: bc request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: bc returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: bc read body")
	}

	var bcResp bcResponse
	if err := json.Unmarshal(body, &bcResp); err != nil {
		return nil, eris.Wrap(err, "geocode: bc parse response")
	}

	if len(bcResp.Features) == 0 {
		return nil, nil
	}

	feat := bcResp.Features[0]
	coords := feat.Geometry.Coordinates
	if len(coords) < 2 {
		return nil, nil
	}

	addr := feat.Properties.FullAddress
	if addr == "" {
		addr = feat.Properties.AddressString
	}

	// GeoJSON coordinates are [lon, lat].
	return &Result{
		Lat:     coords[1],
		Lon:     coords[0],
		Address: addr,
		Score:   feat.Properties.Score,
		Source:  SourceBC,
	}, nil
}
