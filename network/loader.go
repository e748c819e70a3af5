// Package network loads HTML documents from the local filesystem, file://,
// http(s) and data: URLs.
package network

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxDocumentSize is the default limit on a document's size.
const maxDocumentSize = 32 << 20

// ErrTooLarge is returned for documents over the loader's size limit.
var ErrTooLarge = errors.New("document exceeds size limit")

// Resource is a loaded document.
type Resource struct {
	URL         string
	Content     []byte
	ContentType string
	Charset     string
	StatusCode  int
}

// IsSuccess reports a 2xx or 3xx status.
func (r *Resource) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 400
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithLogger sets the loader's logger.
func WithLogger(log *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithMaxSize sets the largest document, in bytes, the loader accepts.
func WithMaxSize(n int64) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxSize = n
		}
	}
}

// Loader fetches documents.
type Loader struct {
	client  *http.Client
	logger  *zap.Logger
	maxSize int64
}

// NewLoader creates a loader with a 30 second HTTP timeout.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  zap.NewNop(),
		maxSize: maxDocumentSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads src, which is a file path or a file, http, https or data URL.
// Non-success HTTP statuses are errors.
func (l *Loader) Load(ctx context.Context, src string) (*Resource, error) {
	var (
		res *Resource
		err error
	)
	switch scheme := urlScheme(src); scheme {
	case "data":
		res, err = loadDataURL(src)
	case "http", "https":
		res, err = l.loadHTTP(ctx, src)
	case "file":
		u, perr := url.Parse(src)
		if perr != nil {
			return nil, fmt.Errorf("parse %s: %w", src, perr)
		}
		res, err = l.loadFile(src, u.Path)
	case "":
		res, err = l.loadFile(src, src)
	default:
		return nil, fmt.Errorf("unsupported scheme %q in %s", scheme, src)
	}
	if err != nil {
		return nil, err
	}
	l.logger.Debug("document loaded",
		zap.String("url", res.URL),
		zap.String("contentType", res.ContentType),
		zap.Int("bytes", len(res.Content)))
	return res, nil
}

// Resolve resolves ref against base. base is a file path or a URL; a ref
// that is already absolute is returned unchanged.
func Resolve(base, ref string) string {
	if urlScheme(ref) != "" {
		return ref
	}
	switch urlScheme(base) {
	case "":
		if filepath.IsAbs(ref) {
			return ref
		}
		return filepath.Join(filepath.Dir(base), ref)
	case "data":
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// urlScheme returns the lowercased scheme of src, or "" for plain paths.
// Single letters are treated as Windows drive letters.
func urlScheme(src string) string {
	i := strings.Index(src, ":")
	if i < 2 {
		return ""
	}
	scheme := src[:i]
	for _, c := range scheme {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.') {
			return ""
		}
	}
	return strings.ToLower(scheme)
}

func (l *Loader) loadFile(src, path string) (*Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := l.readAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	contentType := mime.TypeByExtension(fileExt(path))
	mediaType, charset := parseContentType(contentType)
	return &Resource{
		URL:         src,
		Content:     content,
		ContentType: mediaType,
		Charset:     charset,
		StatusCode:  http.StatusOK,
	}, nil
}

// readAll reads r up to the size limit. One byte past the limit is read so
// that an oversized document fails instead of being cut short.
func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxSize {
		return nil, fmt.Errorf("%w of %d bytes", ErrTooLarge, l.maxSize)
	}
	return data, nil
}

func fileExt(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 && !strings.ContainsAny(path[i:], `/\`) {
		return path[i:]
	}
	return ""
}

func (l *Loader) loadHTTP(ctx context.Context, src string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", src, err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	body, err := l.readAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}

	mediaType, charset := parseContentType(resp.Header.Get("Content-Type"))
	res := &Resource{
		URL:         resp.Request.URL.String(),
		Content:     body,
		ContentType: mediaType,
		Charset:     charset,
		StatusCode:  resp.StatusCode,
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("fetch %s: %s", src, resp.Status)
	}
	return res, nil
}

// loadDataURL decodes data:[<mediatype>][;base64],<data>.
func loadDataURL(src string) (*Resource, error) {
	meta, data, ok := strings.Cut(src[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL: missing comma")
	}

	isBase64 := false
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		isBase64 = true
		meta = meta[:len(meta)-len(";base64")]
	}
	if meta == "" {
		meta = "text/plain;charset=US-ASCII"
	}
	mediaType, charset := parseContentType(meta)

	var content []byte
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("invalid data URL: %w", err)
		}
		content = decoded
	} else {
		unescaped, err := url.PathUnescape(data)
		if err != nil {
			return nil, fmt.Errorf("invalid data URL: %w", err)
		}
		content = []byte(unescaped)
	}

	return &Resource{
		URL:         src,
		Content:     content,
		ContentType: mediaType,
		Charset:     charset,
		StatusCode:  http.StatusOK,
	}, nil
}

// parseContentType splits a Content-Type header into media type and charset.
func parseContentType(contentType string) (mediaType, charset string) {
	if contentType == "" {
		return "", ""
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(contentType, ";")
		return strings.ToLower(strings.TrimSpace(mediaType)), ""
	}
	return mediaType, params["charset"]
}
