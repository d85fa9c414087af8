package cache

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	c, err := NewAt(t.TempDir(), time.Hour)
	require.NoError(t, err)

	_, ok := c.Get("k")
	assert.False(t, ok)

	require.NoError(t, c.Set("k", []byte("v")))
	data, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", string(data))
}

func TestExpiry(t *testing.T) {
	c, err := NewAt(t.TempDir(), time.Minute)
	require.NoError(t, err)
	require.NoError(t, c.Set("k", []byte("v")))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(c.Path("k"), old, old))
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDefaultTTL(t *testing.T) {
	c, err := NewAt(t.TempDir(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, c.TTL)
}

func TestClear(t *testing.T) {
	c, err := NewAt(t.TempDir(), time.Hour)
	require.NoError(t, err)
	require.NoError(t, c.Set("a", []byte("1")))
	require.NoError(t, c.Set("b", []byte("2")))
	require.NoError(t, c.Clear())

	entries, err := os.ReadDir(c.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBaselineRoundTrip(t *testing.T) {
	c, err := NewAt(t.TempDir(), time.Hour)
	require.NoError(t, err)

	_, ok := c.LoadBaseline("abc")
	assert.False(t, ok)

	want := &Baseline{
		Fingerprint: "abc",
		RunID:       "run-1",
		RecordedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Outcomes:    map[string]bool{"reentrancy#0": true, "logic-error#4": false},
	}
	require.NoError(t, c.SaveBaseline(want))

	got, ok := c.LoadBaseline("abc")
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, ok = c.LoadBaseline("other")
	assert.False(t, ok)
}

func TestCorruptBaselineIgnored(t *testing.T) {
	c, err := NewAt(t.TempDir(), time.Hour)
	require.NoError(t, err)
	require.NoError(t, c.Set(baselineKey("abc"), []byte("{not json")))

	_, ok := c.LoadBaseline("abc")
	assert.False(t, ok)
}
