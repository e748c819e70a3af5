package network

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoaderLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	if err := os.WriteFile(path, []byte("<p>hi</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader()

	for _, src := range []string{path, "file://" + path} {
		res, err := loader.Load(context.Background(), src)
		if err != nil {
			t.Fatalf("Load(%q) error = %v", src, err)
		}
		if string(res.Content) != "<p>hi</p>" {
			t.Errorf("Content = %q, want %q", res.Content, "<p>hi</p>")
		}
		if res.ContentType != "text/html" {
			t.Errorf("ContentType = %q, want text/html", res.ContentType)
		}
		if res.URL != src {
			t.Errorf("URL = %q, want %q", res.URL, src)
		}
	}
}

func TestLoaderLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.html"))
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoaderLoadHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/page", http.StatusFound)
			return
		}
		if r.URL.Path != "/page" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
		w.Write([]byte("<b>x</b>"))
	}))
	defer server.Close()

	loader := NewLoader(WithHTTPClient(server.Client()))

	res, err := loader.Load(context.Background(), server.URL+"/old")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(res.Content) != "<b>x</b>" {
		t.Errorf("Content = %q", res.Content)
	}
	if res.ContentType != "text/html" || res.Charset != "ISO-8859-1" {
		t.Errorf("ContentType = %q, Charset = %q", res.ContentType, res.Charset)
	}
	if res.URL != server.URL+"/page" {
		t.Errorf("URL = %q, want final URL after redirect", res.URL)
	}

	_, err = loader.Load(context.Background(), server.URL+"/missing")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("expected 404 error, got %v", err)
	}
}

func TestLoaderRejectsOversizedDocuments(t *testing.T) {
	body := strings.Repeat("a", 17)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body[:len(r.URL.Path)+15]))
	}))
	defer server.Close()
	loader := NewLoader(WithHTTPClient(server.Client()), WithMaxSize(16))

	// "/" gets 16 bytes, exactly the limit.
	res, err := loader.Load(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("Load() at the limit error = %v", err)
	}
	if len(res.Content) != 16 {
		t.Errorf("len(Content) = %d, want 16", len(res.Content))
	}

	// "/x" gets 17 bytes.
	if _, err := loader.Load(context.Background(), server.URL+"/x"); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge over HTTP, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "big.html")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loader.Load(context.Background(), path); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge for a file, got %v", err)
	}
}

func TestLoaderLoadHTTPCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(WithHTTPClient(server.Client())).Load(ctx, server.URL)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestLoaderLoadDataURL(t *testing.T) {
	tests := []struct {
		src         string
		content     string
		contentType string
	}{
		{"data:text/html,%3Cp%3Ehi%3C%2Fp%3E", "<p>hi</p>", "text/html"},
		{"data:text/html;base64,PGI+eDwvYj4=", "<b>x</b>", "text/html"},
		{"data:,plain", "plain", "text/plain"},
	}
	loader := NewLoader()
	for _, tt := range tests {
		res, err := loader.Load(context.Background(), tt.src)
		if err != nil {
			t.Fatalf("Load(%q) error = %v", tt.src, err)
		}
		if string(res.Content) != tt.content {
			t.Errorf("Load(%q) Content = %q, want %q", tt.src, res.Content, tt.content)
		}
		if res.ContentType != tt.contentType {
			t.Errorf("Load(%q) ContentType = %q, want %q", tt.src, res.ContentType, tt.contentType)
		}
	}

	if _, err := loader.Load(context.Background(), "data:text/html"); err == nil {
		t.Error("expected error for data URL without comma")
	}
	if _, err := loader.Load(context.Background(), "data:;base64,!!!"); err == nil {
		t.Error("expected error for bad base64")
	}
}

func TestLoaderUnsupportedScheme(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), "ftp://example.com/x.html")
	if err == nil || !strings.Contains(err.Error(), `unsupported scheme "ftp"`) {
		t.Errorf("got %v", err)
	}
}

func TestURLScheme(t *testing.T) {
	tests := map[string]string{
		"page.html":          "",
		"/tmp/page.html":     "",
		`C:\pages\page.html`: "",
		"HTTP://x":           "http",
		"data:,x":            "data",
		"dir/a:b.html":       "",
	}
	for src, want := range tests {
		if got := urlScheme(src); got != want {
			t.Errorf("urlScheme(%q) = %q, want %q", src, got, want)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"pages/index.html", "js/sel.js", filepath.Join("pages", "js", "sel.js")},
		{"/srv/index.html", "/abs/sel.js", "/abs/sel.js"},
		{"https://example.com/a/b.html", "c.js", "https://example.com/a/c.js"},
		{"https://example.com/a/b.html", "/c.js", "https://example.com/c.js"},
		{"file:///srv/a/index.html", "sel.js", "file:///srv/a/sel.js"},
		{"pages/index.html", "https://cdn.example.com/x.js", "https://cdn.example.com/x.js"},
		{"data:text/html,x", "sel.js", "sel.js"},
	}
	for _, tt := range tests {
		if got := Resolve(tt.base, tt.ref); got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
		}
	}
}
