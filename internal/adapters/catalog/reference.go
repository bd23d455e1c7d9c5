// Package catalog provides the built-in reference hospital catalog and
// in-memory repositories backed by it.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/care4u/backend/internal/domain/entities"
)

//go:embed reference.yaml
var referenceYAML []byte

// Dataset is the on-disk shape of a catalog file
type Dataset struct {
	Hospitals []*entities.Hospital `yaml:"hospitals"`
	Doctors   []*entities.Doctor   `yaml:"doctors"`
}

// Reference returns a fresh copy of the built-in 9 hospital, 6 doctor dataset.
func Reference() (*Dataset, error) {
	return Parse(referenceYAML)
}

// MustReference is Reference for tests and seeding, panicking on a malformed embed.
func MustReference() *Dataset {
	ds, err := Reference()
	if err != nil {
		panic(err)
	}
	return ds
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]bool, len(ds.Hospitals))
	for i, h := range ds.Hospitals {
		if h == nil || h.ID == "" {
			return nil, fmt.Errorf("hospital %d: missing id", i)
		}
		if seen[h.ID] {
			return nil, fmt.Errorf("hospital %q: duplicate id", h.ID)
		}
		seen[h.ID] = true
		if h.Distance < 0 || h.EstimatedWaitTime < 0 {
			return nil, fmt.Errorf("hospital %q: distance and wait time must be non-negative", h.ID)
		}
	}
	for i, d := range ds.Doctors {
		if d == nil || d.ID == "" {
			return nil, fmt.Errorf("doctor %d: missing id", i)
		}
	}

	return &ds, nil
}
