package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicgrid/landuse-api/internal/capability"
	"github.com/civicgrid/landuse-api/internal/observability"
	"github.com/civicgrid/landuse-api/internal/registry"
	"github.com/civicgrid/landuse-api/pkg/arcgis"
	"github.com/civicgrid/landuse-api/pkg/geocode"
)

// testApp wires a real catalog with an empty geocoder cascade so route
// tests never touch the network.
func testApp(t *testing.T) *app {
	t.Helper()

	registries, err := registry.Defaults()
	require.NoError(t, err)

	catalog, err := capability.Catalog(registries)
	require.NoError(t, err)

	metrics := observability.NewMetricsWith(prometheus.NewRegistry())
	return &app{
		registries: registries,
		catalog:    catalog,
		pipeline:   capability.NewPipeline(geocode.NewCascade(), arcgis.NewClient(), metrics),
		metrics:    metrics,
	}
}

func TestRouter_Health(t *testing.T) {
	router := newRouter(testApp(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var payload capability.Payload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload.OK)
	assert.Equal(t, "health", payload.Capability)
}

func TestRouter_Healthz(t *testing.T) {
	router := newRouter(testApp(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	router := newRouter(testApp(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ZoningBadRequest(t *testing.T) {
	router := newRouter(testApp(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/zoning", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var payload capability.Payload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.False(t, payload.OK)
	require.NotNil(t, payload.Error)
	assert.Equal(t, capability.CodeBadRequest, payload.Error.Code)
}

func TestRouter_GeocodeFailWithoutProviders(t *testing.T) {
	// The test app's cascade has no providers, so address lookups fail
	// with GEOCODE_FAIL before reaching any upstream.
	router := newRouter(testApp(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dpa4?address=123+Main+St", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var payload capability.Payload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotNil(t, payload.Error)
	assert.Equal(t, capability.CodeGeocodeFail, payload.Error.Code)
	assert.Equal(t, "dpa4", payload.Capability)
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newRouter(testApp(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
