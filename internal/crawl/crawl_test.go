package crawl

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/fetch"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/names"
	"github.com/dhurleystratton/ocp-executive-discovery/internal/types"
)

// fakeSite serves a sitemap-driven site from a path map and counts requests.
type fakeSite struct {
	server *httptest.Server
	pages  map[string]string
	hits   int64
}

func newFakeSite(t *testing.T) *fakeSite {
	t.Helper()
	site := &fakeSite{pages: map[string]string{}}
	site.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&site.hits, 1)
		body, ok := site.pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if strings.HasSuffix(r.URL.Path, ".xml") || r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "application/xml")
		} else {
			w.Header().Set("Content-Type", "text/html")
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(site.server.Close)
	return site
}

func newTestCrawler(t *testing.T) (*Crawler, string) {
	t.Helper()
	dir := t.TempDir()
	opts := fetch.DefaultOptions()
	opts.Delay = 0
	crawler, err := New(&Config{
		CacheDir:  dir,
		Fetch:     opts,
		Validator: names.NewValidator(&names.ValidatorConfig{Classifier: names.HeuristicClassifier{}}),
	})
	require.NoError(t, err)
	return crawler, dir
}

func TestDiscoverAndExtract_EndToEnd(t *testing.T) {
	site := newFakeSite(t)
	site.pages["/sitemap.xml"] = `<urlset><url><loc>` + site.server.URL + `/leadership.html</loc></url></urlset>`
	site.pages["/leadership.html"] = `
	<html><body>
		<div class="leadership">
			<h3>Jane Doe</h3>
			<p>President</p>
		</div>
	</body></html>`

	crawler, cacheDir := newTestCrawler(t)
	result, err := crawler.DiscoverAndExtract(context.Background(), types.CrawlTarget{
		OrganizationName: "IBEW Local 123",
		Domain:           site.server.URL,
	})
	require.NoError(t, err)

	require.Len(t, result.Executives, 1)
	candidate := result.Executives[0]
	assert.Equal(t, "Jane Doe", candidate.Name)
	assert.Contains(t, candidate.Title, "President")
	assert.GreaterOrEqual(t, candidate.NameConfidence, 0.6)
	assert.Contains(t, candidate.SourceURL, "/leadership.html")
	assert.NotEqual(t, "", candidate.ID.String())

	// Snapshot written to {cache}/{host}/leadership_html.{html,txt}.
	host := strings.TrimPrefix(site.server.URL, "http://")
	host = strings.ReplaceAll(host, ":", "_")
	htmlPath := filepath.Join(cacheDir, host, "leadership_html.html")
	data, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Jane Doe")
}

func TestDiscoverAndExtract_NoSitemap(t *testing.T) {
	site := newFakeSite(t)

	crawler, _ := newTestCrawler(t)
	result, err := crawler.DiscoverAndExtract(context.Background(), types.CrawlTarget{
		OrganizationName: "IBEW Local 123",
		Domain:           site.server.URL,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Executives)
	assert.Zero(t, result.PagesSeen)
}

func TestDiscoverAndExtract_PDFsRecordedNotFetched(t *testing.T) {
	site := newFakeSite(t)
	site.pages["/sitemap.xml"] = `<urlset>` +
		`<url><loc>https://example.org/board-minutes.pdf</loc></url>` +
		`<url><loc>` + site.server.URL + `/about.html</loc></url></urlset>`
	site.pages["/about.html"] = `<html><body><p>nothing here</p></body></html>`

	crawler, _ := newTestCrawler(t)
	result, err := crawler.DiscoverAndExtract(context.Background(), types.CrawlTarget{
		OrganizationName: "Example Org",
		Domain:           site.server.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.org/board-minutes.pdf"}, result.PDFLinks)
	assert.Equal(t, 1, result.PagesSeen)
}

func TestDiscoverAndExtract_FiltersNonKeywordPages(t *testing.T) {
	site := newFakeSite(t)
	site.pages["/sitemap.xml"] = `<urlset>` +
		`<url><loc>` + site.server.URL + `/pricing.html</loc></url>` +
		`<url><loc>` + site.server.URL + `/team.html</loc></url></urlset>`
	site.pages["/team.html"] = `<html><body><div class="team"><h3>Bob Smith</h3><p>Director</p></div></body></html>`
	site.pages["/pricing.html"] = `<html><body><p>plans</p></body></html>`

	crawler, _ := newTestCrawler(t)
	result, err := crawler.DiscoverAndExtract(context.Background(), types.CrawlTarget{
		OrganizationName: "Example Org",
		Domain:           site.server.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.PagesSeen)
	require.Len(t, result.Executives, 1)
	assert.Equal(t, "Bob Smith", result.Executives[0].Name)
}

func TestDiscoverAndExtract_SecondRunUsesCache(t *testing.T) {
	site := newFakeSite(t)
	site.pages["/sitemap.xml"] = `<urlset><url><loc>` + site.server.URL + `/about.html</loc></url></urlset>`
	site.pages["/about.html"] = `<html><body><div class="about"><h3>Jane Doe</h3><p>President</p></div></body></html>`

	crawler, _ := newTestCrawler(t)
	target := types.CrawlTarget{OrganizationName: "Example Org", Domain: site.server.URL}

	_, err := crawler.DiscoverAndExtract(context.Background(), target)
	require.NoError(t, err)
	firstHits := atomic.LoadInt64(&site.hits)

	result, err := crawler.DiscoverAndExtract(context.Background(), target)
	require.NoError(t, err)
	require.Len(t, result.Executives, 1)

	// Sitemap discovery still fetches, but the page itself comes from cache.
	secondHits := atomic.LoadInt64(&site.hits) - firstHits
	assert.Less(t, secondHits, firstHits)
}

func TestDiscoverAndExtract_CancelledContext(t *testing.T) {
	site := newFakeSite(t)
	site.pages["/sitemap.xml"] = `<urlset><url><loc>` + site.server.URL + `/about.html</loc></url></urlset>`
	site.pages["/about.html"] = `<html><body></body></html>`

	crawler, _ := newTestCrawler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := crawler.DiscoverAndExtract(ctx, types.CrawlTarget{
		OrganizationName: "Example Org",
		Domain:           site.server.URL,
	})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Empty(t, result.Executives)
}

func TestDiscoverAndExtract_InvalidTarget(t *testing.T) {
	crawler, _ := newTestCrawler(t)
	_, err := crawler.DiscoverAndExtract(context.Background(), types.CrawlTarget{})
	require.Error(t, err)
}

func TestDiscoverAndExtract_ProgressOutput(t *testing.T) {
	site := newFakeSite(t)
	site.pages["/sitemap.xml"] = `<urlset><url><loc>` + site.server.URL + `/about.html</loc></url></urlset>`
	site.pages["/about.html"] = `<html><body></body></html>`

	var buf bytes.Buffer
	opts := fetch.DefaultOptions()
	opts.Delay = 0
	crawler, err := New(&Config{CacheDir: t.TempDir(), Fetch: opts, Progress: &buf})
	require.NoError(t, err)

	_, err = crawler.DiscoverAndExtract(context.Background(), types.CrawlTarget{
		OrganizationName: "Example Org",
		Domain:           site.server.URL,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Processing batch 1/1")
	assert.Contains(t, buf.String(), "Fetching ")
}
