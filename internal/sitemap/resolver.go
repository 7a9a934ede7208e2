// Package sitemap discovers and expands sitemap documents for a domain and
// orders the resulting page URLs for crawling.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/fetch"
)

// MaxDepth caps recursive sitemap-of-sitemaps expansion. Together with the
// visited set this guards against cyclic sitemap references.
const MaxDepth = 5

// Resolver discovers sitemap URLs for a domain and expands them into a flat
// list of page and document links.
type Resolver struct {
	client   *fetch.Client
	maxDepth int
}

// NewResolver creates a resolver using the given fetch client.
func NewResolver(client *fetch.Client) *Resolver {
	return &Resolver{client: client, maxDepth: MaxDepth}
}

// Discover returns the page URLs listed in the domain's sitemaps, plus a side
// list of document (PDF) links. A domain with no discoverable sitemap yields
// empty results, not an error.
func (r *Resolver) Discover(ctx context.Context, domain string) (pages, documents []string) {
	visited := make(map[string]bool)
	var flat []string
	for _, sm := range r.discoverSitemaps(ctx, domain) {
		content := r.client.FetchText(ctx, sm)
		if content == "" {
			continue
		}
		visited[sm] = true
		flat = append(flat, r.expand(ctx, content, visited, 0)...)
	}

	for _, u := range flat {
		if strings.HasSuffix(strings.ToLower(u), ".pdf") {
			documents = append(documents, u)
		} else {
			pages = append(pages, u)
		}
	}
	return pages, documents
}

// baseURL returns the root URL for a domain. Domains carrying an explicit
// scheme are used as-is so local test servers can stand in for real sites.
func baseURL(domain string) string {
	if strings.Contains(domain, "://") {
		return strings.TrimSuffix(domain, "/")
	}
	return "https://" + domain
}

// discoverSitemaps returns the sitemap URLs declared for a domain: robots.txt
// Sitemap directives first, then the conventional sitemap.xml and
// sitemap_index.xml locations as a fallback probe.
func (r *Resolver) discoverSitemaps(ctx context.Context, domain string) []string {
	var urls []string

	robots := r.client.FetchText(ctx, fmt.Sprintf("%s/robots.txt", baseURL(domain)))
	if robots != "" {
		for _, line := range strings.Split(robots, "\n") {
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "sitemap:") {
				continue
			}
			parts := strings.SplitN(line, ":", 2)
			if len(parts) != 2 {
				continue
			}
			if u := strings.TrimSpace(parts[1]); u != "" {
				urls = append(urls, u)
			}
		}
	}
	if len(urls) > 0 {
		return urls
	}

	for _, path := range []string{"sitemap.xml", "sitemap_index.xml"} {
		u := fmt.Sprintf("%s/%s", baseURL(domain), path)
		if r.client.FetchText(ctx, u) != "" {
			return []string{u}
		}
	}
	return nil
}

// expand parses sitemap XML and resolves its <loc> entries. Entries that are
// themselves sitemaps (.xml suffix) are fetched and expanded recursively;
// everything else is returned as-is.
func (r *Resolver) expand(ctx context.Context, content string, visited map[string]bool, depth int) []string {
	locs := parseLocs(content)

	var expanded []string
	for _, u := range locs {
		if !strings.HasSuffix(u, ".xml") {
			expanded = append(expanded, u)
			continue
		}
		if depth >= r.maxDepth || visited[u] {
			continue
		}
		visited[u] = true
		child := r.client.FetchText(ctx, u)
		if child == "" {
			continue
		}
		expanded = append(expanded, r.expand(ctx, child, visited, depth+1)...)
	}
	return expanded
}

// parseLocs extracts the text of every <loc> element, ignoring namespace
// prefixes. Malformed XML yields nil: the node degrades to an empty
// expansion without failing the crawl.
func parseLocs(content string) []string {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var locs []string
	var inLoc bool
	var text strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "loc" {
				inLoc = true
				text.Reset()
			}
		case xml.CharData:
			if inLoc {
				text.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "loc" {
				inLoc = false
				if u := strings.TrimSpace(text.String()); u != "" {
					locs = append(locs, u)
				}
			}
		}
	}
	return locs
}
