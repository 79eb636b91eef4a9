package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nidhogg/agentmatch/internal/taxonomy"
)

// file is the on-disk layout of a catalog YAML document.
type file struct {
	Agents []AgentProfile `yaml:"agents"`
}

// Load reads a catalog from a YAML file. An empty path yields the built-in
// catalog.
func Load(path string, tax *taxonomy.Taxonomy) (*Catalog, error) {
	if path == "" {
		return Default(tax)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data, tax)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog document and validates it.
func Parse(data []byte, tax *taxonomy.Taxonomy) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(f.Agents, tax)
}
