// Package registry holds the adapter descriptors that tell each capability
// which spatial data source to query and how to normalize its attributes.
package registry

import (
	"github.com/rotisserie/eris"
)

// Adapter describes one backing spatial data source for a capability.
type Adapter struct {
	Name        string `yaml:"name"`
	Active      bool   `yaml:"active"`
	ServiceBase string `yaml:"service_base"`
	LayerID     int    `yaml:"layer_id"`

	// OutFields are the attribute fields requested from the service.
	OutFields []string `yaml:"out_fields"`

	// FieldMap translates remote field names to stable output keys.
	FieldMap map[string]string `yaml:"field_map"`

	SRID  int    `yaml:"srid"`
	Notes string `yaml:"notes,omitempty"`
}

// Registry is an ordered set of adapters for one capability.
type Registry []Adapter

// SelectActive returns the first adapter flagged active, or nil when none
// is. First-wins matters only for registries that bypassed Validate; a
// validated registry has at most one active entry.
func (r Registry) SelectActive() *Adapter {
	for i := range r {
		if r[i].Active {
			return &r[i]
		}
	}
	return nil
}

// Validate checks registry invariants at load time. Zero active adapters is
// legal here (surfaced per request as a missing adapter); more than one is a
// configuration error rather than a silent first-wins pick.
func (r Registry) Validate() error {
	var active []string
	seen := make(map[string]struct{})

	for i := range r {
		a := &r[i]
		if a.Active {
			active = append(active, a.Name)
			if a.ServiceBase == "" {
				return eris.Errorf("registry: active adapter %q has no service_base", a.Name)
			}
		}
		if _, ok := seen[a.Name]; ok {
			return eris.Errorf("registry: duplicate adapter name %q", a.Name)
		}
		seen[a.Name] = struct{}{}

		outKeys := make(map[string]string, len(a.FieldMap))
		for field, key := range a.FieldMap {
			if prev, ok := outKeys[key]; ok {
				return eris.Errorf("registry: adapter %q maps both %q and %q to output key %q", a.Name, prev, field, key)
			}
			outKeys[key] = field
		}
	}

	if len(active) > 1 {
		return eris.Errorf("registry: %d adapters are active (%v), want at most one", len(active), active)
	}
	return nil
}
