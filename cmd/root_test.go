package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanolivertroy/exemplar-check/internal/exemplars"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "exemplar-check dev (scenario table v1.0.0)\n", out)
}

func TestList(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 16)
	assert.True(t, strings.HasPrefix(lines[0], "KIND"))
	assert.True(t, strings.HasPrefix(lines[1], "reentrancy"))
	assert.True(t, strings.HasPrefix(lines[15], "storage-management"))
	assert.Contains(t, lines[7], "authorization")
}

func TestShow(t *testing.T) {
	out, err := execute(t, "show", "IllicitFeeCollection")
	require.NoError(t, err)

	info := exemplars.NewIllicitFeeCollection().Info()
	assert.True(t, strings.HasPrefix(out, info.Name+"\n"+strings.Repeat("=", len(info.Name))+"\n"))
	for _, heading := range []string{
		"Description:", "Exploit Example:", "Affected Platforms:",
		"Detection Methods:", "Remediation:", "Contained Failures:", "Annotations:",
	} {
		assert.Contains(t, out, "\n"+heading+"\n")
	}
	assert.Contains(t, out, info.ExploitExample)
	assert.Contains(t, out, "  - "+info.Platforms[0]+"\n")
	assert.Contains(t, out, "  - "+info.Detection[0]+"\n")
	assert.Contains(t, out, "  - "+info.Remediation[0]+"\n")
	assert.Contains(t, out, "  - authorization\n")
	assert.Contains(t, out, "internal/exemplars/illicit_fee_collection.go source:")
}

func TestShowLogicErrorOrdinals(t *testing.T) {
	out, err := execute(t, "show", "logic-error")
	require.NoError(t, err)
	assert.Contains(t, out, "  - #1 internal/exemplars/logic_error.go source:")
	assert.Contains(t, out, "  - #6 internal/exemplars/logic_error.go source:")
	assert.Contains(t, out, "Contained Failures:\n  none\n")
}

func TestShowUnknownKind(t *testing.T) {
	_, err := execute(t, "show", "sql-injection")
	assert.ErrorContains(t, err, "unknown vulnerability kind")
}

func TestAnnotations(t *testing.T) {
	out, err := execute(t, "annotations")
	require.NoError(t, err)

	var entries []annotationEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 15)
	assert.Equal(t, "logic-error", entries[8].Kind)
	assert.Len(t, entries[8].Annotations, 6)
	assert.Equal(t, exemplars.NewFlashLoan().Annotations(), entries[7].Annotations)
}

func TestRunWritesJSONReport(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "report.json")
	cfgPath := filepath.Join(dir, "exemplar-check.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("no_cache = true\n"), 0o644))

	_, err := execute(t,
		"--config", cfgPath,
		"--format", "json",
		"--output", output,
		"--kind", "integer-overflow",
		"--kind", "logic-error",
		"--timeout", "2s",
	)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var report struct {
		Summary struct {
			Total  int `json:"total"`
			Passed int `json:"passed"`
		} `json:"summary"`
		Results []struct {
			Kind       string         `json:"kind"`
			Vulnerable models.Outcome `json:"vulnerable"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 7, report.Summary.Total)
	assert.Equal(t, 7, report.Summary.Passed)
	assert.Equal(t, "integer-overflow", report.Results[0].Kind)
	assert.Equal(t, models.OutcomeCompromised, report.Results[0].Vulnerable)
}

func TestRunRejectsBadFlags(t *testing.T) {
	_, err := execute(t, "--config=", "--format", "xml", "--kind", "reentrancy", "--no-cache")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrVerificationFailed)
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	_, err := execute(t, "--config=", "--format", "xml", "--kind", "reentrancy", "--kind", "flash-loan")
	require.Error(t, err)

	root := newRootCmd()
	assert.Empty(t, flagKinds)
	assert.Equal(t, "terminal", flagFormat)
	assert.False(t, root.Flags().Changed("kind"))

	require.NoError(t, root.ParseFlags([]string{"--kind", "access-control"}))
	assert.Equal(t, []string{"access-control"}, flagKinds)
}
