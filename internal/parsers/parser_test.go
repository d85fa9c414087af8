package parsers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlTable = `
version = "v1.1.0"

[[scenario]]
kind = "reentrancy"
name = "deep reentry"

[scenario.setup]
reentries = 5

[[scenario]]
kind = "logic-error"
ordinal = 4

[scenario.setup]
claims = 3
`

const yamlTable = `
version: v1.0.3
scenarios:
  - kind: integer-overflow
    setup:
      balance: max
      deposit: 2
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseTOML(t *testing.T) {
	file, err := ParseFile(writeFile(t, "scenarios.toml", tomlTable))
	require.NoError(t, err)

	assert.Equal(t, "v1.1.0", file.Version)
	require.Len(t, file.Scenarios, 2)
	assert.Equal(t, "reentrancy", file.Scenarios[0].Kind)
	assert.Equal(t, "deep reentry", file.Scenarios[0].Name)
	assert.Equal(t, int64(5), file.Scenarios[0].Setup["reentries"])
	assert.Equal(t, 4, file.Scenarios[1].Ordinal)
}

func TestParseYAML(t *testing.T) {
	file, err := ParseFile(writeFile(t, "scenarios.yml", yamlTable))
	require.NoError(t, err)

	require.Len(t, file.Scenarios, 1)
	assert.Equal(t, "integer-overflow", file.Scenarios[0].Kind)
	assert.Equal(t, "max", file.Scenarios[0].Setup["balance"])
	assert.Equal(t, 2, file.Scenarios[0].Setup["deposit"])
}

func TestParseYAMLUnknownField(t *testing.T) {
	_, err := ParseFile(writeFile(t, "scenarios.yaml", "version: v1.0.0\nscenarioz: []\n"))
	assert.Error(t, err)
}

func TestParseFileErrors(t *testing.T) {
	_, err := ParseFile(writeFile(t, "scenarios.json", "{}"))
	assert.Error(t, err)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = ParseFile(writeFile(t, "bad.toml", "version = "))
	assert.Error(t, err)

	_, err = ParseFile(writeFile(t, "v2.toml", `version = "v2.0.0"`))
	assert.ErrorContains(t, err, "unsupported")
}

func TestCheckVersion(t *testing.T) {
	assert.NoError(t, CheckVersion("v1.0.0"))
	assert.NoError(t, CheckVersion("v1.4"))
	assert.Error(t, CheckVersion("1.0.0"))
	assert.Error(t, CheckVersion(""))
	assert.Error(t, CheckVersion("v0.9.0"))
}

func TestCanParse(t *testing.T) {
	assert.True(t, (&TOMLParser{}).CanParse("a.toml"))
	assert.False(t, (&TOMLParser{}).CanParse("a.yaml"))
	assert.True(t, (&YAMLParser{}).CanParse("a.yml"))
	assert.True(t, (&YAMLParser{}).CanParse("a.yaml"))
	assert.Len(t, GetAllParsers(), 2)
}
