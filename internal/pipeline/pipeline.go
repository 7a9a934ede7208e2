// Package pipeline provides the high-level orchestration for executive
// contact discovery: query building, domain validation, sitemap crawling,
// and email pattern generation per organization.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/cache"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/crawl"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/domains"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/email"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/fetch"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/names"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/search"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/types"
)

// DefaultWorkers bounds cross-organization concurrency. Fetching within one
// domain always stays serial; only distinct organizations run in parallel.
const DefaultWorkers = 4

// ProgressEvent represents a progress update during pipeline execution.
type ProgressEvent struct {
	Organization string `json:"organization"`
	Step         string `json:"step"`
	Message      string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs.
type ProgressCallback func(event ProgressEvent)

// Options holds configuration for running the discovery pipeline.
type Options struct {
	CacheDir        string
	Fetch           *fetch.Options
	Searcher        search.Searcher
	DomainValidator *domains.Validator
	NameValidator   *names.Validator
	Verifier        email.Verifier
	UseBrowser      bool
	Workers         int
	Progress        io.Writer
	OnProgress      ProgressCallback
}

// Organization identifies one discovery subject. A non-empty Domain is taken
// as the organization's known official site and skips search and domain
// validation entirely.
type Organization struct {
	Name    string
	DBAName string
	Domain  string
}

// Outcome pairs an organization with its discovery result or failure.
type Outcome struct {
	Organization Organization
	Result       *types.DiscoveryResult
	Err          error
}

func (o *Options) emit(org, step, message string) {
	if o.OnProgress != nil {
		o.OnProgress(ProgressEvent{Organization: org, Step: step, Message: message})
	}
}

func (o *Options) searcher() search.Searcher {
	if o.Searcher != nil {
		return o.Searcher
	}
	return search.NewStubSearcher(1)
}

func (o *Options) domainValidator() *domains.Validator {
	if o.DomainValidator != nil {
		return o.DomainValidator
	}
	return domains.NewValidator(nil)
}

// Runner executes discovery runs over shared crawl infrastructure: one page
// cache and one fetch client per domain. Organizations that resolve to the
// same domain therefore share request pacing and cache write locks even when
// they run on different workers.
type Runner struct {
	opts Options

	mu      sync.Mutex
	pages   *cache.PageCache
	clients map[string]*fetch.Client
}

// NewRunner creates a runner for the given options.
func NewRunner(opts Options) *Runner {
	return &Runner{opts: opts, clients: make(map[string]*fetch.Client)}
}

// pageCache lazily opens the shared page cache.
func (r *Runner) pageCache() (*cache.PageCache, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pages == nil {
		pages, err := cache.New(r.opts.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize page cache: %w", err)
		}
		r.pages = pages
	}
	return r.pages, nil
}

// clientFor returns the fetch client for a domain, creating it on first use.
// The key is the normalized domain, so the same host reached with different
// schemes or www prefixes still maps to one client.
func (r *Runner) clientFor(domain string) *fetch.Client {
	key := domains.NormalizeDomain(domain)
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[key]
	if !ok {
		client = fetch.NewClient(r.opts.Fetch)
		r.clients[key] = client
	}
	return client
}

// Run discovers executive contacts for a single organization: build queries,
// search, validate candidate domains, crawl the first valid one, and
// generate email patterns for every extracted executive. An organization
// with a known Domain skips the search and validation steps.
func (r *Runner) Run(ctx context.Context, org Organization) (*types.DiscoveryResult, error) {
	opts := r.opts

	domain, crawlBase, err := r.resolveDomain(ctx, org)
	if err != nil {
		return nil, err
	}

	pages, err := r.pageCache()
	if err != nil {
		return nil, err
	}
	crawler, err := crawl.New(&crawl.Config{
		Client:     r.clientFor(domain),
		Pages:      pages,
		Validator:  opts.NameValidator,
		UseBrowser: opts.UseBrowser,
		Progress:   opts.Progress,
	})
	if err != nil {
		return nil, err
	}

	opts.emit(org.Name, "crawl", "crawling "+domain)
	result, err := crawler.DiscoverAndExtract(ctx, types.CrawlTarget{
		OrganizationName: org.Name,
		Domain:           crawlBase,
	})
	if err != nil {
		return result, err
	}

	result.Emails = make(map[string][]string)
	for _, exec := range result.Executives {
		parts := strings.Fields(exec.Name)
		if len(parts) < 2 {
			continue
		}
		guesses := email.GeneratePatterns(parts[0], parts[len(parts)-1], domain)
		if opts.Verifier != nil {
			guesses = verified(ctx, opts.Verifier, guesses)
		}
		if len(guesses) > 0 {
			result.Emails[exec.Name] = guesses
		}
	}

	opts.emit(org.Name, "done",
		fmt.Sprintf("%d executives, %d pages", len(result.Executives), result.PagesSeen))
	return result, nil
}

// resolveDomain decides which domain to crawl. crawlBase keeps the scheme
// and port from the source URL so the crawler hits the same origin; the
// validator and email generation only ever see the bare domain.
func (r *Runner) resolveDomain(ctx context.Context, org Organization) (domain, crawlBase string, err error) {
	opts := r.opts

	if org.Domain != "" {
		opts.emit(org.Name, "validate-domain", "using known domain "+org.Domain)
		return domains.NormalizeDomain(org.Domain), originOf(org.Domain), nil
	}

	builder := search.NewQueryBuilder()
	searcher := opts.searcher()
	validator := opts.domainValidator()

	opts.emit(org.Name, "search", "building queries")
	queries := builder.PrimaryQueries(org.Name, org.DBAName)

	var candidates []string
	for _, q := range queries {
		urls, searchErr := searcher.Search(ctx, q)
		if searchErr != nil {
			if ctx.Err() != nil {
				return "", "", ctx.Err()
			}
			continue
		}
		candidates = append(candidates, urls...)
	}

	for _, u := range candidates {
		host := hostOf(u)
		score := validator.Validate(ctx, host, org.Name)
		opts.emit(org.Name, "validate-domain",
			fmt.Sprintf("%s -> %.2f (%v)", host, score.Confidence, score.IsValid))
		if score.IsValid {
			return domains.NormalizeDomain(host), originOf(u), nil
		}
	}
	return "", "", fmt.Errorf("no valid domains found for %q", org.Name)
}

// RunAll processes organizations with a bounded worker pool. All workers
// share the runner's per-domain clients and page cache, so two organizations
// resolving to the same domain are paced and write-locked as one.
// Per-organization failures are recorded, not propagated. Outcomes preserve
// input order.
func (r *Runner) RunAll(ctx context.Context, orgs []Organization) []Outcome {
	workers := r.opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	outcomes := make([]Outcome, len(orgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, org := range orgs {
		i, org := i, org
		g.Go(func() error {
			result, err := r.Run(gctx, org)
			outcomes[i] = Outcome{Organization: org, Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// Run discovers executive contacts for a single organization.
func Run(ctx context.Context, opts Options, org Organization) (*types.DiscoveryResult, error) {
	return NewRunner(opts).Run(ctx, org)
}

// RunAll processes organizations through one shared Runner.
func RunAll(ctx context.Context, opts Options, orgs []Organization) []Outcome {
	return NewRunner(opts).RunAll(ctx, orgs)
}

// verified filters candidate addresses through the verifier, keeping input
// order.
func verified(ctx context.Context, v email.Verifier, guesses []string) []string {
	var kept []string
	for _, g := range guesses {
		if v.Verify(ctx, g) {
			kept = append(kept, g)
		}
	}
	return kept
}

// hostOf extracts the host portion of a URL-ish string.
func hostOf(u string) string {
	s := u
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?"); i >= 0 {
		s = s[:i]
	}
	return s
}

// originOf trims a URL down to scheme and host. Bare hosts pass through
// unchanged.
func originOf(u string) string {
	i := strings.Index(u, "://")
	if i < 0 {
		return hostOf(u)
	}
	return u[:i+3] + hostOf(u)
}
