package seeder

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is a set of raw record inputs keyed by collection. Each entry has
// the same shape as a REST create body.
type Fixture struct {
	Organizations []map[string]any `yaml:"organizations"`
	Contracts     []map[string]any `yaml:"contracts"`
	Relationships []map[string]any `yaml:"relationships"`
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return DecodeFixture(f)
}

// DecodeFixture parses a YAML fixture. Unquoted timestamps decode to
// time.Time, which the binders accept next to RFC 3339 strings.
func DecodeFixture(r io.Reader) (*Fixture, error) {
	var fx Fixture
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &fx, nil
}
