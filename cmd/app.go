package main

import (
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/civicgrid/landuse-api/internal/capability"
	"github.com/civicgrid/landuse-api/internal/config"
	"github.com/civicgrid/landuse-api/internal/observability"
	"github.com/civicgrid/landuse-api/internal/registry"
	"github.com/civicgrid/landuse-api/pkg/arcgis"
	"github.com/civicgrid/landuse-api/pkg/geocode"
)

// app bundles the process-lifetime dependencies: loaded registries, the
// capability catalog, and one pipeline shared across requests.
type app struct {
	registries map[string]registry.Registry
	catalog    []capability.Capability
	pipeline   *capability.Pipeline
	metrics    *observability.Metrics
}

// initApp loads registries and wires the pipeline from config.
func initApp() (*app, error) {
	registries, err := loadRegistries(cfg)
	if err != nil {
		return nil, err
	}

	catalog, err := capability.Catalog(registries)
	if err != nil {
		return nil, err
	}

	geocodeClient := &http.Client{Timeout: time.Duration(cfg.Geocode.TimeoutSecs) * time.Second}
	resolver := geocode.NewCascade(
		geocode.NewBCProvider(geocodeClient, cfg.Geocode.BCBaseURL, cfg.Geocode.BCAPIKey, cfg.Geocode.BCMinScore),
		geocode.NewNominatimProvider(geocodeClient, cfg.Geocode.NominatimBaseURL, cfg.Geocode.UserAgent,
			rate.NewLimiter(rate.Limit(cfg.Geocode.NominatimRPS), 1)),
	)

	spatial := arcgis.NewClient(
		arcgis.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.ArcGIS.TimeoutSecs) * time.Second}),
		arcgis.WithToken(cfg.ArcGIS.Token),
	)

	metrics := observability.NewMetrics()

	return &app{
		registries: registries,
		catalog:    catalog,
		pipeline:   capability.NewPipeline(resolver, spatial, metrics),
		metrics:    metrics,
	}, nil
}

// loadRegistries loads adapter registries from the configured directory, or
// the embedded defaults when none is set. Loading validates each registry,
// so a misconfigured registry fails the process at startup.
func loadRegistries(cfg *config.Config) (map[string]registry.Registry, error) {
	if cfg.Registry.Dir != "" {
		registries, err := registry.LoadDir(cfg.Registry.Dir)
		if err != nil {
			return nil, eris.Wrap(err, "load registries")
		}
		return registries, nil
	}
	return registry.Defaults()
}

// findCapability returns the catalog entry with the given name, or nil.
func findCapability(catalog []capability.Capability, name string) *capability.Capability {
	for i := range catalog {
		if catalog[i].Name == name {
			return &catalog[i]
		}
	}
	return nil
}
