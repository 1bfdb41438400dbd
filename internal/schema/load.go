package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML schema document and checks its integrity.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load returns the questionnaire to serve: the YAML file at path when one
// is given, the built-in default otherwise. A broken schema file is fatal
// to the caller; there is no fallback from a named file to the default.
func Load(path string) (*Schema, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		s := Default()
		if err := s.Check(); err != nil {
			return nil, err
		}
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return Parse(data)
}
