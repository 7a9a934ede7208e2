// Package cache persists fetched pages on disk so repeat crawls of a domain
// can skip network calls. Layout: {root}/{domain}/{slug}.html and {slug}.txt.
package cache

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/types"
)

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Slugify derives a deterministic file slug from a URL path. The root path
// maps to "index"; a path with no alphanumeric content maps to "page".
func Slugify(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "page"
	}
	path := parsed.Path
	if path == "" || path == "/" {
		return "index"
	}
	slug := nonAlnum.ReplaceAllString(strings.Trim(path, "/"), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		return "page"
	}
	return slug
}

// PageCache writes page snapshots under a root directory. Writes to the same
// (domain, slug) pair are serialized so concurrent crawls do not race on
// cache files.
type PageCache struct {
	root string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a page cache rooted at dir. An unusable cache directory is a
// fatal configuration error: the crawl must not continue silently without
// persistence.
func New(dir string) (*PageCache, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	probe := filepath.Join(dir, ".probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return nil, fmt.Errorf("cache directory %s is not writable: %w", dir, err)
	}
	_ = os.Remove(probe)

	return &PageCache{root: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Root returns the cache root directory.
func (c *PageCache) Root() string { return c.root }

func (c *PageCache) slugLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[key] = lock
	}
	return lock
}

// Put writes the HTML and flattened text for a URL, overwriting any previous
// snapshot for the same slug.
func (c *PageCache) Put(domain, rawURL, html, text string) (*types.CachedPage, error) {
	slug := Slugify(rawURL)
	lock := c.slugLock(domain + "/" + slug)
	lock.Lock()
	defer lock.Unlock()

	dir := filepath.Join(c.root, domain)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	page := &types.CachedPage{
		Domain:   domain,
		Slug:     slug,
		HTMLPath: filepath.Join(dir, slug+".html"),
		TextPath: filepath.Join(dir, slug+".txt"),
	}
	if err := os.WriteFile(page.HTMLPath, []byte(html), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", page.HTMLPath, err)
	}
	if err := os.WriteFile(page.TextPath, []byte(text), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", page.TextPath, err)
	}
	return page, nil
}

// Get returns the cached HTML for a URL if a snapshot exists.
func (c *PageCache) Get(domain, rawURL string) (html string, ok bool) {
	slug := Slugify(rawURL)
	lock := c.slugLock(domain + "/" + slug)
	lock.Lock()
	defer lock.Unlock()

	data, err := os.ReadFile(filepath.Join(c.root, domain, slug+".html"))
	if err != nil {
		return "", false
	}
	return string(data), true
}
