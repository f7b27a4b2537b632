package geocode

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

func TestNominatimGeocode_Success(t *testing.T) {
	var gotUA, gotQ string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQ = r.URL.Query().Get("q")
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `[{"lat": "49.1659", "lon": "-123.9401", "display_name": "Nanaimo, BC, Canada"}]`)
	}))
	defer srv.Close()

	p := NewNominatimProvider(srv.Client(), srv.URL, "landuse-api-test/1.0", newTestLimiter())
	result, err := p.Geocode(context.Background(), "Nanaimo")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.InDelta(t, 49.1659, result.Lat, 0.0001)
	assert.InDelta(t, -123.9401, result.Lon, 0.0001)
	assert.Equal(t, "Nanaimo, BC, Canada", result.Address)
	assert.Zero(t, result.Score)
	assert.Equal(t, SourceNominatim, result.Source)

	assert.Equal(t, "landuse-api-test/1.0", gotUA)
	assert.Equal(t, "Nanaimo", gotQ)
}

func TestNominatimGeocode_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	p := NewNominatimProvider(srv.Client(), srv.URL, "landuse-api-test/1.0", newTestLimiter())
	result, err := p.Geocode(context.Background(), "??invalid??")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestNominatimGeocode_BadCoordinateStrings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"lat": "not-a-number", "lon": "-123.9", "display_name": "x"}]`)
	}))
	defer srv.Close()

	p := NewNominatimProvider(srv.Client(), srv.URL, "landuse-api-test/1.0", newTestLimiter())
	_, err := p.Geocode(context.Background(), "somewhere")
	require.Error(t, err)
}

func TestNominatimGeocode_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewNominatimProvider(srv.Client(), srv.URL, "landuse-api-test/1.0", newTestLimiter())
	_, err := p.Geocode(context.Background(), "somewhere")
	require.Error(t, err)
}

func TestNominatimProvider_UnavailableWithoutUserAgent(t *testing.T) {
	p := NewNominatimProvider(http.DefaultClient, "", "", nil)
	assert.False(t, p.Available())

	p = NewNominatimProvider(http.DefaultClient, "", "landuse-api-test/1.0", nil)
	assert.True(t, p.Available())
}
