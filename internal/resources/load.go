package resources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// directoryFile is the on-disk resource directory schema. A region
// listed in the file replaces the built-in entries for that region
// wholesale; regions not listed keep the built-ins.
type directoryFile struct {
	Regions   map[string][]Entry `yaml:"regions"`
	Universal []Entry            `yaml:"universal"`
}

// LoadResolver builds a resolver from the built-in directory overlaid
// with the given YAML file. An empty path returns the built-ins alone.
func LoadResolver(path string) (*Resolver, error) {
	r := NewResolver()
	if path == "" {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resources file: %w", err)
	}

	var file directoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse resources file: %w", err)
	}

	for code, entries := range file.Regions {
		if len(entries) == 0 {
			delete(r.regions, code)
			continue
		}
		r.regions[code] = entries
	}
	if len(file.Universal) > 0 {
		r.universal = file.Universal
	}
	return r, nil
}
