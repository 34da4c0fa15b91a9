// Package tika implements port.Engine against a Tika compatible parser server.
package tika

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"docparse/internal/config"
	"docparse/internal/domain"
)

const (
	contentKey     = "X-TIKA:content"
	warningPrefix  = "X-TIKA:WARN"
	exceptionKey   = "X-TIKA:EXCEPTION:warn"
	embeddedKey    = "X-TIKA:embedded_resource_path"
	maxErrorBody   = 4 << 10
	defaultTimeout = 300 * time.Second
)

// Engine sends staged documents to the parser server's recursive metadata endpoint.
type Engine struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// New creates an Engine from config.
func New(cfg *config.EngineConfig, logger *zap.Logger) *Engine {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Engine{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("engine"),
	}
}

// Ingest parses the document at path. The server returns one metadata map per
// container and embedded resource; the first map describes the document itself.
func (e *Engine) Ingest(ctx context.Context, filename, path, mimeType string, opts domain.ParseOptions) (map[string]any, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening staged file: %w", err)
	}
	defer f.Close()

	endpoint := fmt.Sprintf("%s/rmeta/%s", e.baseURL, contentHandler(opts.RenderFormat))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, f)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if opts.ApplyOCR {
		req.Header.Set("X-Tika-PDFOcrStrategy", "ocr_and_text")
	} else {
		req.Header.Set("X-Tika-OCRskipOcr", "true")
	}

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("calling parser server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, nil, fmt.Errorf("parser server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var docs []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, nil, fmt.Errorf("decoding parser response: %w", err)
	}

	e.logger.Debug("parser server responded",
		zap.String("filename", filename),
		zap.Int("resources", len(docs)),
		zap.Duration("latency", time.Since(start)),
	)

	if len(docs) == 0 {
		return nil, nil, nil
	}
	result, warnings := buildResult(docs, opts)
	return result, warnings, nil
}

func buildResult(docs []map[string]any, opts domain.ParseOptions) (map[string]any, []string) {
	var warnings []string
	for _, d := range docs {
		warnings = append(warnings, collectWarnings(d)...)
	}

	root := docs[0]
	content, _ := root[contentKey].(string)
	metadata := make(map[string]any, len(root))
	for k, v := range root {
		if k == contentKey {
			continue
		}
		metadata[k] = v
	}

	embedded := make([]map[string]any, 0, len(docs)-1)
	for _, d := range docs[1:] {
		path, _ := d[embeddedKey].(string)
		text, _ := d[contentKey].(string)
		embedded = append(embedded, map[string]any{"path": path, "content": text})
	}

	return map[string]any{
		"render_format": string(opts.RenderFormat),
		"metadata":      metadata,
		"content":       content,
		"embedded":      embedded,
	}, warnings
}

func collectWarnings(d map[string]any) []string {
	var out []string
	for k, v := range d {
		if k != exceptionKey && !strings.HasPrefix(k, warningPrefix) {
			continue
		}
		switch val := v.(type) {
		case string:
			out = append(out, val)
		case []any:
			for _, item := range val {
				out = append(out, fmt.Sprint(item))
			}
		}
	}
	return out
}

// contentHandler maps a render format onto the server's content handler names.
func contentHandler(f domain.RenderFormat) string {
	switch f {
	case domain.RenderFormatHTML:
		return "html"
	case domain.RenderFormatText:
		return "text"
	default:
		return "xml"
	}
}
