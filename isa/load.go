package isa

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed data/instructions.json
var defaultData []byte

// jsonSource decodes instruction records from a JSON array.
type jsonSource struct {
	name string
	data []byte
}

func (s jsonSource) Records() ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(s.data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.name, err)
	}
	return records, nil
}

// DefaultSource returns the embedded instruction dataset.
func DefaultSource() Source {
	return jsonSource{name: "embedded dataset", data: defaultData}
}

// FileSource reads instruction records from an external JSON file. The
// read happens when the catalog is built, not when the source is created.
type FileSource string

// Records implements Source.
func (p FileSource) Records() ([]Record, error) {
	data, err := os.ReadFile(string(p))
	if err != nil {
		return nil, fmt.Errorf("reading instruction data: %w", err)
	}
	return jsonSource{name: string(p), data: data}.Records()
}

// LoadDefault builds a catalog from the embedded dataset.
func LoadDefault() (*Catalog, error) {
	return Load(DefaultSource())
}

// LoadFile builds a catalog from an external JSON dataset.
func LoadFile(path string) (*Catalog, error) {
	return Load(FileSource(path))
}
