package registry

import (
	"embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var defaultsFS embed.FS

const defaultSRID = 4326

// Parse decodes one registry document and validates it.
func Parse(data []byte) (Registry, error) {
	var r Registry
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrap(err, "registry: unmarshal")
	}
	for i := range r {
		if r[i].SRID == 0 {
			r[i].SRID = defaultSRID
		}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Load reads and validates a registry from a YAML file.
func Load(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: read %s", path)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: %s", path)
	}
	return r, nil
}

// LoadDir loads every *.yaml file in dir, keyed by capability name taken
// from the file's base name.
func LoadDir(dir string) (map[string]Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: read dir %s", dir)
	}

	registries := make(map[string]Registry)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		capability := strings.TrimSuffix(e.Name(), ".yaml")
		r, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		registries[capability] = r
	}
	return registries, nil
}

// Defaults returns the registries embedded in the binary, one per
// capability. Used when no registry directory is configured.
func Defaults() (map[string]Registry, error) {
	entries, err := defaultsFS.ReadDir("data")
	if err != nil {
		return nil, eris.Wrap(err, "registry: read embedded defaults")
	}

	registries := make(map[string]Registry)
	for _, e := range entries {
		capability := strings.TrimSuffix(e.Name(), ".yaml")
		data, err := defaultsFS.ReadFile("data/" + e.Name())
		if err != nil {
			return nil, eris.Wrapf(err, "registry: read embedded %s", e.Name())
		}
		r, err := Parse(data)
		if err != nil {
			return nil, eris.Wrapf(err, "registry: embedded %s", e.Name())
		}
		registries[capability] = r
	}
	return registries, nil
}
