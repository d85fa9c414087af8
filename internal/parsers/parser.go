package parsers

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/semver"
)

// SupportedMajor is the scenario file major version this build understands
const SupportedMajor = "v1"

// TableFile is the decoded form of a scenario override file
type TableFile struct {
	Version   string             `toml:"version" yaml:"version"`
	Scenarios []ScenarioOverride `toml:"scenario" yaml:"scenarios"`
}

// ScenarioOverride replaces setup values of one built-in scenario
type ScenarioOverride struct {
	Kind    string         `toml:"kind" yaml:"kind"`
	Ordinal int            `toml:"ordinal" yaml:"ordinal"`
	Name    string         `toml:"name" yaml:"name"`
	Setup   map[string]any `toml:"setup" yaml:"setup"`
}

// Parser is the interface for scenario file parsers
type Parser interface {
	// CanParse returns true if this parser can handle the given filename
	CanParse(filename string) bool

	// Parse decodes the file content
	Parse(filepath string, content []byte) (*TableFile, error)
}

// GetAllParsers returns all available parsers
func GetAllParsers() []Parser {
	return []Parser{
		&TOMLParser{},
		&YAMLParser{},
	}
}

// ParseFile reads path with the first parser that accepts its name and
// checks the table version
func ParseFile(path string) (*TableFile, error) {
	filename := filepath.Base(path)
	for _, parser := range GetAllParsers() {
		if !parser.CanParse(filename) {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		file, err := parser.Parse(path, content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if err := CheckVersion(file.Version); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return file, nil
	}
	return nil, fmt.Errorf("no parser for scenario file %s (want .toml, .yaml or .yml)", path)
}

// CheckVersion requires a valid semantic version with the supported major
func CheckVersion(version string) error {
	if !semver.IsValid(version) {
		return fmt.Errorf("invalid scenario table version %q", version)
	}
	if major := semver.Major(version); major != SupportedMajor {
		return fmt.Errorf("unsupported scenario table version %s (want %s.x)", version, SupportedMajor)
	}
	return nil
}
