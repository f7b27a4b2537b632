// Package capability implements the generic lookup pipeline shared by every
// capability endpoint: resolve a point, select the active adapter, query the
// feature service, normalize attributes, and build the response envelope.
package capability

import (
	"github.com/rotisserie/eris"

	"github.com/civicgrid/landuse-api/internal/registry"
)

// Attribution identifies a data or geocoding provider used for a result.
type Attribution struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Capability describes one lookup endpoint: its adapter registry, the output
// keys substituted when no polygon matches, and its provenance metadata.
type Capability struct {
	Name        string
	Registry    registry.Registry
	DefaultKeys []string
	Version     string

	// SourceName labels the spatial data provider in attribution; the URL
	// comes from the active adapter at request time.
	SourceName string
}

// Catalog builds the capability set from loaded registries. Every known
// capability must have a registry present.
func Catalog(registries map[string]registry.Registry) ([]Capability, error) {
	zoning, ok := registries["zoning"]
	if !ok {
		return nil, eris.New("capability: no zoning registry")
	}
	dpa4, ok := registries["dpa4"]
	if !ok {
		return nil, eris.New("capability: no dpa4 registry")
	}

	return []Capability{
		{
			Name:        "zoning",
			Registry:    zoning,
			DefaultKeys: []string{"zoningDistrict", "zoningName", "category"},
			Version:     "0.2",
			SourceName:  "City of Nanaimo GIS",
		},
		{
			Name:        "dpa4",
			Registry:    dpa4,
			DefaultKeys: []string{"dpaCode", "dpaName", "notes"},
			Version:     "0.1",
			SourceName:  "City of Nanaimo GIS",
		},
	}, nil
}
