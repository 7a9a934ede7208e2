package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"root path", "https://example.org/", "index"},
		{"empty path", "https://example.org", "index"},
		{"simple page", "https://example.org/about", "about"},
		{"nested path", "https://example.org/about/our-team/", "about_our_team"},
		{"query ignored", "https://example.org/staff?page=2", "staff"},
		{"symbol-only path", "https://example.org/%2F%2F", "page"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.url))
		})
	}
}

func TestPageCache_PutAndGet(t *testing.T) {
	c, err := New(t.TempDir())
	require.NoError(t, err)

	page, err := c.Put("example.org", "https://example.org/leadership", "<html>x</html>", "x")
	require.NoError(t, err)
	assert.Equal(t, "leadership", page.Slug)

	data, err := os.ReadFile(page.HTMLPath)
	require.NoError(t, err)
	assert.Equal(t, "<html>x</html>", string(data))

	text, err := os.ReadFile(page.TextPath)
	require.NoError(t, err)
	assert.Equal(t, "x", string(text))

	html, ok := c.Get("example.org", "https://example.org/leadership")
	assert.True(t, ok)
	assert.Equal(t, "<html>x</html>", html)
}

func TestPageCache_GetMissing(t *testing.T) {
	c, err := New(t.TempDir())
	require.NoError(t, err)

	_, ok := c.Get("example.org", "https://example.org/nothing")
	assert.False(t, ok)
}

func TestPageCache_OverwriteOnRefetch(t *testing.T) {
	c, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = c.Put("example.org", "https://example.org/about", "old", "old")
	require.NoError(t, err)
	page, err := c.Put("example.org", "https://example.org/about", "new", "new")
	require.NoError(t, err)

	data, err := os.ReadFile(page.HTMLPath)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestNew_EmptyDir(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}

func TestNew_UnusableDir(t *testing.T) {
	base := t.TempDir()
	blocked := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	// A regular file cannot be a cache root.
	_, err := New(filepath.Join(blocked, "cache"))
	require.Error(t, err)
}
