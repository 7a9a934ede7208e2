package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/types"
)

func newTestClient(delay time.Duration) *Client {
	opts := DefaultOptions()
	opts.Delay = delay
	return NewClient(opts)
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><h1>Leadership</h1></body></html>"))
	}))
	defer server.Close()

	result := newTestClient(0).Fetch(context.Background(), server.URL)
	require.NotNil(t, result)
	assert.Equal(t, types.FetchOK, result.Status)
	require.NotNil(t, result.Doc)
	assert.Equal(t, "Leadership", result.Doc.Find("h1").Text())
	assert.Contains(t, result.HTML, "<h1>Leadership</h1>")
}

func TestFetch_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result := newTestClient(0).Fetch(context.Background(), server.URL)
	assert.Equal(t, types.FetchNotFound, result.Status)
	assert.Nil(t, result.Doc)
}

func TestFetch_Blocked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	result := newTestClient(0).Fetch(context.Background(), server.URL)
	assert.Equal(t, types.FetchBlocked, result.Status)
	assert.Nil(t, result.Doc)
}

func TestFetch_NonHTMLContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	result := newTestClient(0).Fetch(context.Background(), server.URL)
	assert.Equal(t, types.FetchNonHTML, result.Status)
	assert.Nil(t, result.Doc)
}

func TestFetch_TransportFailure(t *testing.T) {
	// Closed server: connection refused must surface as a timeout-class
	// status, never an error or panic.
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	url := server.URL
	server.Close()

	result := newTestClient(0).Fetch(context.Background(), url)
	assert.Equal(t, types.FetchTimeout, result.Status)
	assert.Nil(t, result.Doc)
}

func TestFetch_SendsConfiguredHeaders(t *testing.T) {
	var gotAgent, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Delay = 0
	opts.Headers = map[string]string{"Accept-Language": "en-US"}
	client := NewClient(opts)
	client.Fetch(context.Background(), server.URL)

	assert.Equal(t, DefaultUserAgent, gotAgent)
	assert.Equal(t, "en-US", gotLang)
}

func TestFetch_RespectsDelayBetweenRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	client := newTestClient(150 * time.Millisecond)
	client.Fetch(context.Background(), server.URL)

	start := time.Now()
	client.Fetch(context.Background(), server.URL)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestFetch_DelayHoldsAfterFailedAttempt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(150 * time.Millisecond)
	client.Fetch(context.Background(), server.URL)

	start := time.Now()
	client.Fetch(context.Background(), server.URL)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestFetch_SerializesConcurrentCallers(t *testing.T) {
	const delay = 120 * time.Millisecond

	var mu sync.Mutex
	var arrivals []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		mu.Unlock()
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	client := newTestClient(delay)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.Fetch(context.Background(), server.URL)
		}()
	}
	wg.Wait()

	// Callers queue on the client: every request arrives a full delay after
	// the previous one finished, with no overlap.
	require.Len(t, arrivals, 4)
	for i := 1; i < len(arrivals); i++ {
		assert.GreaterOrEqual(t, arrivals[i].Sub(arrivals[i-1]), delay-20*time.Millisecond)
	}
}

func TestFetch_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	client := newTestClient(time.Hour)
	client.Fetch(context.Background(), server.URL) // prime the limiter

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := client.Fetch(ctx, server.URL)
	assert.Equal(t, types.FetchTimeout, result.Status)
}

func TestFetchText_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte("<urlset><url><loc>https://a.org/</loc></url></urlset>"))
	}))
	defer server.Close()

	body := newTestClient(0).FetchText(context.Background(), server.URL)
	assert.Contains(t, body, "<loc>https://a.org/</loc>")
}

func TestFetchText_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	assert.Empty(t, newTestClient(0).FetchText(context.Background(), server.URL))
}

func TestFlattenText(t *testing.T) {
	html := "<html><body><div>Jane   Doe</div>\n<p>President</p></body></html>"
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe President", FlattenText(doc))
	assert.Empty(t, FlattenText(nil))
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("   "))
	assert.True(t, ShouldUseBrowser("short"))
	assert.False(t, ShouldUseBrowser(strings.Repeat("executive board ", 64)))
}
