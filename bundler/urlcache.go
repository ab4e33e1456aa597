package bundler

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/VictoriaMetrics/fastcache"
	"golang.org/x/sync/singleflight"
)

// URLCache is the URL loader's write-through, never-evicting
// content-addressed cache (spec.md §4.1/§6). Its two-tier design
// mirrors air's coffer.go: an in-process fastcache.Cache in front of a
// flat on-disk directory, keyed identically on both tiers by the
// 40-hex-char lowercase SHA-1 digest of the URL text.
type URLCache struct {
	Dir string

	once  sync.Once
	mem   *fastcache.Cache
	group singleflight.Group

	Client *http.Client
}

// NewURLCache returns a cache rooted at dir. dir is created lazily on
// first write.
func NewURLCache(dir string) *URLCache {
	return &URLCache{Dir: dir, Client: http.DefaultClient}
}

// CacheDir returns ./.cache in dev mode, or <home>/.dino/cache in release
// mode (spec.md §4.1/§6).
func CacheDir(devMode bool) string {
	if devMode {
		return ".cache"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".dino", "cache")
}

// cacheKey is the 40-hex-char lowercase SHA-1 digest of the URL's full
// string (spec.md §4.1/§6).
func cacheKey(rawURL string) string {
	sum := sha1.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

func (c *URLCache) memCache() *fastcache.Cache {
	c.once.Do(func() {
		c.mem = fastcache.New(32 * 1024 * 1024)
	})
	return c.mem
}

// Get returns the cached bytes for rawURL, if present on either tier.
func (c *URLCache) Get(rawURL string) ([]byte, bool) {
	key := []byte(cacheKey(rawURL))

	if b := c.memCache().Get(nil, key); len(b) > 0 {
		return b, true
	}

	path := filepath.Join(c.Dir, cacheKey(rawURL))
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	c.memCache().Set(key, b)
	return b, true
}

// Put writes source to both cache tiers for rawURL.
func (c *URLCache) Put(rawURL string, source []byte) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(c.Dir, cacheKey(rawURL))
	if err := os.WriteFile(path, source, 0o644); err != nil {
		return err
	}
	c.memCache().Set([]byte(cacheKey(rawURL)), source)
	return nil
}

// Fetch performs the write-through load-or-download dance of spec.md
// §4.1's URL loader: a cache hit short-circuits the network; concurrent
// fetches of the same URL are collapsed into a single HTTP round-trip
// via singleflight, since the cache is content-addressed and duplicate
// writes are benign but still wasteful.
func (c *URLCache) Fetch(rawURL string, skipCache bool) ([]byte, error) {
	if !skipCache {
		if b, ok := c.Get(rawURL); ok {
			return b, nil
		}
	}

	v, err, _ := c.group.Do(rawURL, func() (interface{}, error) {
		client := c.Client
		if client == nil {
			client = http.DefaultClient
		}

		resp, err := client.Get(rawURL)
		if err != nil {
			return nil, fmt.Errorf("dino: GET %s: %w", rawURL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("dino: GET %s: status %d", rawURL, resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("dino: reading body of %s: %w", rawURL, err)
		}

		if err := c.Put(rawURL, body); err != nil {
			return nil, fmt.Errorf("dino: caching %s: %w", rawURL, err)
		}

		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
