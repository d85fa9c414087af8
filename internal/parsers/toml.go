package parsers

import (
	"strings"

	"github.com/BurntSushi/toml"
)

// TOMLParser parses scenario files written in TOML
type TOMLParser struct{}

// CanParse returns true for .toml files
func (p *TOMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".toml")
}

// Parse decodes TOML content
func (p *TOMLParser) Parse(filepath string, content []byte) (*TableFile, error) {
	var file TableFile
	if _, err := toml.Decode(string(content), &file); err != nil {
		return nil, err
	}
	return &file, nil
}
