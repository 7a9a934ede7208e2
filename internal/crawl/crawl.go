// Package crawl orchestrates the sitemap-driven discover-and-extract
// pipeline: sitemap discovery, URL prioritization, polite fetching, page
// caching, and executive extraction for a single crawl target.
package crawl

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/cache"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/extract"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/fetch"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/names"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/sitemap"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/types"
)

// BatchSize is the number of URLs per progress batch. Batching exists for
// progress reporting only; processing stays strictly sequential per domain.
const BatchSize = 20

// Config configures a Crawler.
type Config struct {
	// CacheDir is the page cache root. Required unless Pages is set.
	CacheDir string
	// Fetch options; nil uses polite-crawling defaults.
	Fetch *fetch.Options
	// Client, when set, is used instead of building a client from Fetch.
	// Crawlers sharing one client share its request pacing, which keeps
	// concurrent crawls of the same domain serialized.
	Client *fetch.Client
	// Pages, when set, is used instead of opening CacheDir. Crawlers sharing
	// one cache share its per-slug write locks.
	Pages *cache.PageCache
	// Validator gates extracted names; nil uses the default validator.
	Validator *names.Validator
	// UseBrowser enables headless-browser rendering for pages whose plain
	// HTTP response carries too little text.
	UseBrowser bool
	// Progress receives human-readable crawl progress lines; nil discards.
	Progress io.Writer
}

// Crawler runs discover-and-extract sessions. A single Crawler paces its
// requests through one fetch client, so crawls through it stay polite even
// when callers interleave targets.
type Crawler struct {
	client     *fetch.Client
	resolver   *sitemap.Resolver
	extractor  *extract.Extractor
	pages      *cache.PageCache
	useBrowser bool
	progress   io.Writer
}

// New creates a crawler. An unusable cache directory is a fatal configuration
// error.
func New(cfg *Config) (*Crawler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("crawl config is required")
	}
	pages := cfg.Pages
	if pages == nil {
		var err error
		pages, err = cache.New(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize page cache: %w", err)
		}
	}
	client := cfg.Client
	if client == nil {
		client = fetch.NewClient(cfg.Fetch)
	}
	progress := cfg.Progress
	if progress == nil {
		progress = io.Discard
	}
	return &Crawler{
		client:     client,
		resolver:   sitemap.NewResolver(client),
		extractor:  extract.NewExtractor(cfg.Validator),
		pages:      pages,
		useBrowser: cfg.UseBrowser,
		progress:   progress,
	}, nil
}

// DiscoverAndExtract crawls the target domain's sitemap-listed pages and
// returns every executive candidate found. A domain with no discoverable
// sitemap yields an empty result, not an error. On context cancellation the
// partial result gathered so far is returned alongside the context error.
func (c *Crawler) DiscoverAndExtract(ctx context.Context, target types.CrawlTarget) (*types.DiscoveryResult, error) {
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("invalid crawl target: %w", err)
	}

	pages, documents := c.resolver.Discover(ctx, target.Domain)
	candidates := sitemap.Prioritize(pages)

	result := &types.DiscoveryResult{
		Target:    target,
		PagesSeen: len(candidates),
		PDFLinks:  documents,
	}
	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	totalBatches := (len(candidates) + BatchSize - 1) / BatchSize
	for i := 0; i < len(candidates); i += BatchSize {
		fmt.Fprintf(c.progress, "Processing batch %d/%d\n", i/BatchSize+1, totalBatches)
		end := i + BatchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		for _, pageURL := range candidates[i:end] {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			fmt.Fprintf(c.progress, "Fetching %s\n", pageURL)
			doc, html := c.fetchPage(ctx, target.Domain, pageURL)
			if doc == nil {
				continue
			}
			text := fetch.FlattenText(doc)
			if _, err := c.pages.Put(cacheDomain(target.Domain), pageURL, html, text); err != nil {
				return result, fmt.Errorf("failed to cache %s: %w", pageURL, err)
			}
			for _, found := range c.extractor.Extract(doc) {
				result.Executives = append(result.Executives, types.ExecutiveCandidate{
					ID:             uuid.New(),
					Name:           found.Name,
					Title:          found.Title,
					SourceURL:      pageURL,
					NameConfidence: found.Confidence,
					DiscoveredAt:   time.Now().UTC(),
				})
			}
		}
	}

	fmt.Fprintf(c.progress, "Found %d executives across %d pages\n",
		len(result.Executives), len(candidates))
	return result, nil
}

// fetchPage returns a parsed document for the URL, preferring the on-disk
// cache, falling back to the network, and optionally re-rendering thin pages
// through a headless browser.
func (c *Crawler) fetchPage(ctx context.Context, domain, pageURL string) (*goquery.Document, string) {
	if html, ok := c.pages.Get(cacheDomain(domain), pageURL); ok {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
			return doc, html
		}
	}

	result := c.client.Fetch(ctx, pageURL)
	if result.Status != types.FetchOK {
		return nil, ""
	}
	doc, html := result.Doc, result.HTML

	if c.useBrowser && fetch.ShouldUseBrowser(fetch.FlattenText(doc)) {
		rendered, err := fetch.RenderWithBrowser(ctx, pageURL, 0)
		if err == nil {
			if renderedDoc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(rendered)); parseErr == nil {
				return renderedDoc, rendered
			}
		}
	}
	return doc, html
}

// cacheDomain maps a target domain to its cache subdirectory name. Domains
// carrying an explicit scheme (test servers) are reduced to their host part.
func cacheDomain(domain string) string {
	if i := strings.Index(domain, "://"); i >= 0 {
		domain = domain[i+3:]
	}
	return strings.ReplaceAll(strings.TrimSuffix(domain, "/"), ":", "_")
}
