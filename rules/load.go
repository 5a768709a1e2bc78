package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// file is the on-disk layout of a rule file:
//
//	rules:
//	  - produces: building_bauxite_mine
//	    inputs: [building_lead_mine, building_sulfur_mine]
//	    op: sum
//	    scale: 0.5
//	    overrides:
//	      STATE_CALIFORNIA: 30
type file struct {
	Rules Set `yaml:"rules"`
}

// Load reads a YAML rule file from r and validates it.
// Unknown fields are rejected.
func Load(r io.Reader) (Set, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty rule file")
		}
		return nil, fmt.Errorf("decoding rules: %w", err)
	}
	if err := f.Rules.Validate(); err != nil {
		return nil, err
	}
	return f.Rules, nil
}

// LoadFile reads a YAML rule file from path.
func LoadFile(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	set, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Marshal renders s in the rule file layout accepted by Load.
func Marshal(s Set) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(file{Rules: s}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
