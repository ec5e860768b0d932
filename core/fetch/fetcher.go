package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"modpack-manager/core/utils"
)

// Result describes the outcome of a single fetch.
type Result struct {
	// Path is the destination file path.
	Path string
	// Transferred reports whether bytes actually moved over the network.
	// It is false when an existing file with the expected size was reused.
	Transferred bool
	// Digests holds the SHA-1/SHA-512 digests and size of the content,
	// computed while streaming (or from the reused local file).
	Digests utils.Digests
}

// ProgressFunc receives transfer progress. total is -1 when the server did
// not report a content length.
type ProgressFunc func(written, total int64)

// Fetcher retrieves content from a URL into a directory.
type Fetcher interface {
	// Fetch downloads url into dir, naming the file after the last URL
	// path segment. When a file of the expected size already exists at
	// the destination the transfer is skipped and the local file is
	// hashed instead, so callers can still re-stamp metadata.
	// expectedSize <= 0 means the size is unknown.
	Fetch(ctx context.Context, url, dir string, expectedSize int64) (Result, error)
}

// HTTPFetcher is the production Fetcher. It streams the response body to
// disk while computing digests, never buffering the full file.
type HTTPFetcher struct {
	client   *http.Client
	progress ProgressFunc
}

// NewHTTPFetcher creates a fetcher with transfer timeouts from cfg.
func NewHTTPFetcher(cfg Config, progress ProgressFunc) *HTTPFetcher {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 120
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: time.Duration(timeout) * time.Second},
		progress: progress,
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, dir string, expectedSize int64) (Result, error) {
	destPath := filepath.Join(dir, utils.FileNameFromURL(url))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Reuse an existing file when its size matches (or no size is known).
	if info, err := os.Stat(destPath); err == nil {
		if expectedSize <= 0 || info.Size() == expectedSize {
			digests, err := utils.HashFile(destPath)
			if err != nil {
				return Result{}, err
			}
			return Result{Path: destPath, Transferred: false, Digests: digests}, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("failed to download %s: unexpected status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create %s: %w", destPath, err)
	}

	dw := utils.NewDigestWriter()
	if err := f.copyWithProgress(out, dw, resp.Body, resp.ContentLength); err != nil {
		out.Close()
		os.Remove(destPath)
		return Result{}, fmt.Errorf("failed to download %s: %w", url, err)
	}

	if err := out.Close(); err != nil {
		return Result{}, fmt.Errorf("failed to finish %s: %w", destPath, err)
	}

	return Result{Path: destPath, Transferred: true, Digests: dw.Sum()}, nil
}

func (f *HTTPFetcher) copyWithProgress(file io.Writer, dw *utils.DigestWriter, body io.Reader, total int64) error {
	w := io.MultiWriter(file, dw)
	buf := make([]byte, 8192)
	var written int64
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
			written += int64(n)
			if f.progress != nil {
				f.progress(written, total)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
