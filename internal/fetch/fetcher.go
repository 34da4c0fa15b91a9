// Package fetch downloads documents referenced by URL for the event entry point.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"docparse/internal/config"
	"docparse/internal/domain"
	"docparse/internal/port"
)

const (
	defaultTimeout  = 300 * time.Second
	defaultMaxBytes = 100 << 20
)

// Fetcher retrieves http(s) URLs directly and s3:// URLs through ObjectStorage.
type Fetcher struct {
	client   *http.Client
	storage  port.ObjectStorage
	maxBytes int64
	logger   *zap.Logger
}

// New creates a Fetcher. storage may be nil, in which case s3:// URLs are rejected.
func New(cfg *config.FetchConfig, storage port.ObjectStorage, logger *zap.Logger) *Fetcher {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		storage:  storage,
		maxBytes: maxBytes,
		logger:   logger.Named("fetch"),
	}
}

// Fetch returns the document bytes behind rawURL. Failures wrap domain.ErrFetch,
// domain.ErrFileTooLarge or domain.ErrUnsupportedSource.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url: %w", domain.ErrFetch, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return f.fetchHTTP(ctx, u.String())
	case "s3":
		return f.fetchS3(ctx, u)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedSource, u.Scheme)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", domain.ErrFetch, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redact(urlErr.URL)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrFetch, redact(rawURL), resp.StatusCode)
	}
	if resp.ContentLength > f.maxBytes {
		return nil, &domain.SizeLimitError{Size: resp.ContentLength, Limit: f.maxBytes}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", domain.ErrFetch, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, &domain.SizeLimitError{Size: int64(len(data)), Limit: f.maxBytes}
	}

	f.logger.Debug("fetched document", zap.String("url", redact(rawURL)), zap.Int("bytes", len(data)))
	return data, nil
}

func (f *Fetcher) fetchS3(ctx context.Context, u *url.URL) ([]byte, error) {
	if f.storage == nil {
		return nil, fmt.Errorf("%w: s3 storage not configured", domain.ErrUnsupportedSource)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("%w: s3 url needs bucket and key", domain.ErrFetch)
	}

	data, err := f.storage.Download(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, &domain.SizeLimitError{Size: int64(len(data)), Limit: f.maxBytes}
	}

	f.logger.Debug("fetched document", zap.String("bucket", bucket), zap.String("key", key), zap.Int("bytes", len(data)))
	return data, nil
}

// redact drops the query string, which commonly carries presigned credentials.
func redact(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
