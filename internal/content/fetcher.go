package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Sentinel errors for retrieval operations.
var (
	ErrRetrieval   = errors.New("document retrieval failed")
	ErrOutsideRoot = errors.New("source path escapes content root")
)

// Fetcher obtains the raw text of a document for a resolved path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// HTTPFetcher retrieves documents over HTTP with caching disabled.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher. A zero timeout means no client
// timeout; per-attempt deadlines come from the caller's context.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch performs a single GET with caching disabled. Any non-2xx status is a
// retrieval error.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d for %s", ErrRetrieval, resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrRetrieval, err)
	}
	return string(body), nil
}

// FileFetcher retrieves documents from a local content directory
// (the local-file context).
type FileFetcher struct {
	root string
}

// NewFileFetcher creates a FileFetcher rooted at dir.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{root: dir}
}

// Fetch reads a document relative to the content root. Paths that resolve
// outside the root are rejected.
func (f *FileFetcher) Fetch(_ context.Context, path string) (string, error) {
	full := filepath.Join(f.root, filepath.Clean("/"+path))
	if rel, err := filepath.Rel(f.root, full); err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	return string(data), nil
}
