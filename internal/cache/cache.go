// Package cache stores the outcome of previous verification runs on disk so
// a later run can report regressions.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache is a directory of TTL-bounded JSON files
type Cache struct {
	Dir string
	TTL time.Duration
}

// DefaultTTL is the default cache time-to-live
const DefaultTTL = 7 * 24 * time.Hour

// New creates a cache under the user's cache directory for appName
func New(appName string, ttl time.Duration) (*Cache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return NewAt(filepath.Join(base, appName), ttl)
}

// NewAt creates a cache rooted at dir
func NewAt(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Cache{Dir: dir, TTL: ttl}, nil
}

// keyToFilename converts a key to a safe filename
func (c *Cache) keyToFilename(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:16]) + ".json"
}

// Path returns the full path to the cache file for a key
func (c *Cache) Path(key string) string {
	return filepath.Join(c.Dir, c.keyToFilename(key))
}

// Get retrieves data from cache if it exists and is not expired
func (c *Cache) Get(key string) ([]byte, bool) {
	path := c.Path(key)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.TTL {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores data in the cache
func (c *Cache) Set(key string, data []byte) error {
	return os.WriteFile(c.Path(key), data, 0o644)
}

// Clear removes all cached files
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return err
	}

	var errs []error
	for _, entry := range entries {
		if !entry.IsDir() {
			if err := os.Remove(filepath.Join(c.Dir, entry.Name())); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Baseline is the stored outcome of a previous run against one catalog
// fingerprint
type Baseline struct {
	Fingerprint string          `json:"fingerprint"`
	RunID       string          `json:"run_id"`
	RecordedAt  time.Time       `json:"recorded_at"`
	Outcomes    map[string]bool `json:"outcomes"`
}

func baselineKey(fingerprint string) string {
	return "baseline:" + fingerprint
}

// LoadBaseline returns the baseline for fingerprint, if a fresh one exists
func (c *Cache) LoadBaseline(fingerprint string) (*Baseline, bool) {
	data, ok := c.Get(baselineKey(fingerprint))
	if !ok {
		return nil, false
	}
	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil || b.Fingerprint != fingerprint {
		return nil, false
	}
	return &b, true
}

// SaveBaseline stores b under its fingerprint
func (c *Cache) SaveBaseline(b *Baseline) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode baseline: %w", err)
	}
	return c.Set(baselineKey(b.Fingerprint), data)
}
