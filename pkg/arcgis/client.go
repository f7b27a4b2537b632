// Package arcgis issues point-in-polygon queries against ArcGIS REST
// feature services.
package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/rotisserie/eris"
)

// DefaultOutSRID is the canonical geographic reference every response is
// reprojected into, regardless of the layer's native reference.
const DefaultOutSRID = 4326

// QueryInput describes one point-in-polygon query.
type QueryInput struct {
	ServiceBase string    // MapServer/FeatureServer base URL, no trailing slash
	LayerID     int       // layer index under the service
	Point       orb.Point // X is longitude, Y is latitude
	OutFields   []string  // attribute fields to request
	SRID        int       // spatial reference of Point, defaults to 4326
}

// QueryResult holds the first matching feature's attributes plus the raw
// response body for debug echo.
type QueryResult struct {
	// Attributes is nil when no feature contains the point. That is a
	// valid answer, not an error.
	Attributes map[string]any
	Raw        json.RawMessage
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken forwards a static credential token on every query.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// Client queries ArcGIS feature services.
type Client struct {
	httpClient *http.Client
	token      string
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// esriPoint is the esriJSON encoding of a point geometry.
type esriPoint struct {
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
	SpatialReference struct {
		WKID int `json:"wkid"`
	} `json:"spatialReference"`
}

// queryResponse is the subset of the ArcGIS query response the client reads.
type queryResponse struct {
	Error    *remoteError `json:"error"`
	Features []struct {
		Attributes map[string]any `json:"attributes"`
	} `json:"features"`
}

type remoteError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Query runs an intersects query for the input point and returns the first
// matching feature's attributes. Which feature is first among overlapping
// polygons is the remote service's ordering; the client does not reorder.
func (c *Client) Query(ctx context.Context, in QueryInput) (*QueryResult, error) {
	srid := in.SRID
	if srid == 0 {
		srid = DefaultOutSRID
	}

	var geom esriPoint
	geom.X = in.Point.X()
	geom.Y = in.Point.Y()
	geom.SpatialReference.WKID = srid

	geomJSON, err := json.Marshal(geom)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: marshal geometry")
	}

	params := url.Values{
		"f":              {"json"},
		"geometry":       {string(geomJSON)},
		"geometryType":   {"esriGeometryPoint"},
		"inSR":           {fmt.Sprintf("%d", srid)},
		"spatialRel":     {"esriSpatialRelIntersects"},
		"outFields":      {strings.Join(in.OutFields, ",")},
		"returnGeometry": {"false"},
		"outSR":          {fmt.Sprintf("%d", DefaultOutSRID)},
	}
	if c.token != "" {
		params.Set("token", c.token)
	}

	reqURL := fmt.Sprintf("%s/%d/query?%s", in.ServiceBase, in.LayerID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: read body")
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, eris.Wrap(err, "arcgis: parse response")
	}

	// ArcGIS reports many failures inside a 200 body.
	if qr.Error != nil {
		return nil, &ServiceError{Code: qr.Error.Code, Message: qr.Error.Message}
	}

	result := &QueryResult{Raw: json.RawMessage(body)}
	if len(qr.Features) > 0 {
		result.Attributes = qr.Features[0].Attributes
	}
	return result, nil
}
