// Package imagecache lists listing-header images per state from a
// directory tree laid out as <dir>/<state>/<file>, with <dir>/default/ as
// the fallback bucket.
package imagecache

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultBucket is used when a state has no images of its own.
const DefaultBucket = "default"

// ErrBadState is returned for state names that cannot be a directory.
var ErrBadState = errors.New("invalid state name")

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

type entry struct {
	urls    []string
	expires time.Time
}

// Cache holds directory listings in memory for ttl.
type Cache struct {
	dir     string
	baseURL string
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// New returns a cache over dir. URLs are built as baseURL/<bucket>/<file>.
func New(dir, baseURL string, ttl time.Duration) *Cache {
	return &Cache{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Images returns the image URLs for state, or the default bucket's when
// the state has none.
func (c *Cache) Images(state string) ([]string, error) {
	state = strings.TrimSpace(state)
	if state == "" || strings.ContainsAny(state, `/\`) || strings.Contains(state, "..") {
		return nil, ErrBadState
	}

	urls, err := c.bucket(state)
	if err != nil {
		return nil, err
	}
	if len(urls) > 0 {
		return urls, nil
	}
	return c.bucket(DefaultBucket)
}

func (c *Cache) bucket(name string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, ok := c.entries[name]; ok && now.Before(e.expires) {
		return e.urls, nil
	}

	urls, err := c.scan(name)
	if err != nil {
		return nil, err
	}
	// Only buckets with images are kept, so unknown names from the public
	// route cannot grow the map.
	if len(urls) == 0 && name != DefaultBucket {
		delete(c.entries, name)
		return urls, nil
	}
	c.sweep(now)
	c.entries[name] = entry{urls: urls, expires: now.Add(c.ttl)}
	return urls, nil
}

// sweep drops expired entries. Callers hold c.mu.
func (c *Cache) sweep(now time.Time) {
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
}

func (c *Cache) scan(name string) ([]string, error) {
	des, err := os.ReadDir(filepath.Join(c.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(des))
	for _, de := range des {
		if de.IsDir() || !imageExts[strings.ToLower(filepath.Ext(de.Name()))] {
			continue
		}
		files = append(files, de.Name())
	}
	sort.Strings(files)

	urls := make([]string, len(files))
	for i, f := range files {
		urls[i] = c.baseURL + "/" + url.PathEscape(name) + "/" + url.PathEscape(f)
	}
	return urls, nil
}
