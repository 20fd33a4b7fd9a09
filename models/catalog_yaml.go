package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// CatalogFile is the on-disk catalog document
type CatalogFile struct {
	Backends Catalog `yaml:"backends"`
}

// UnmarshalYAML implements custom YAML unmarshaling for Backend.
// A bare string entry is shorthand for a timing backend with that id.
func (b *Backend) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		b.ID = BackendID(value.Value)
		b.Kind = KindTiming
		return nil
	}

	var temp struct {
		ID    string `yaml:"id"`
		Label string `yaml:"label"`
		Kind  string `yaml:"kind"`
	}
	if err := value.Decode(&temp); err != nil {
		return err
	}

	b.ID = BackendID(temp.ID)
	b.Label = temp.Label
	b.Kind = BackendKind(temp.Kind)
	if b.Kind == "" {
		b.Kind = KindTiming
	}
	return nil
}

// ParseCatalog decodes and validates a YAML catalog document
func ParseCatalog(data []byte) (Catalog, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := file.Backends.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return file.Backends, nil
}
