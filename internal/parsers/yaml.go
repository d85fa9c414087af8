package parsers

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLParser parses scenario files written in YAML
type YAMLParser struct{}

// CanParse returns true for .yaml and .yml files
func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

// Parse decodes YAML content, rejecting unknown fields
func (p *YAMLParser) Parse(filepath string, content []byte) (*TableFile, error) {
	var file TableFile
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, err
	}
	return &file, nil
}
