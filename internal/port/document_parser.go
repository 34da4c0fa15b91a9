package port

import (
	"context"

	"docparse/internal/domain"
)

// Engine is the external layout-parsing collaborator. A nil result with a nil
// error means the engine had nothing to report.
type Engine interface {
	Ingest(ctx context.Context, filename, path, mimeType string, opts domain.ParseOptions) (result map[string]any, warnings []string, err error)
}

// PropertyInspector derives file properties (MIME type and friends) from a staged path.
type PropertyInspector interface {
	Inspect(ctx context.Context, path string) (*domain.FileProperties, error)
}
