package gcal

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"taskcheck/pkg/interval"
)

// Cache stores fetched block sets as JSON files in the user cache dir so
// repeated runs within the expiration window skip the network entirely.
// Freshness is judged from the file's modification time.
type Cache struct {
	dir string
}

func NewCache() (*Cache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(base, "taskcheck")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// NewCacheAt pins the cache to a specific directory, which must exist.
func NewCacheAt(dir string) *Cache {
	return &Cache{dir: dir}
}

func (c *Cache) file(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, fmt.Sprintf("%x.json", sum))
}

// Get returns the cached block set for key if it is younger than maxAge.
func (c *Cache) Get(key string, maxAge time.Duration) (interval.Set, bool) {
	path := c.file(key)
	info, err := os.Stat(path)
	if err != nil || time.Since(info.ModTime()) >= maxAge {
		return nil, false
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var ivs []interval.Interval
	if err := json.NewDecoder(f).Decode(&ivs); err != nil {
		return nil, false
	}
	return interval.NewSet(ivs...), true
}

func (c *Cache) Put(key string, blocks interval.Set) error {
	f, err := os.Create(c.file(key))
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode([]interval.Interval(blocks))
}
