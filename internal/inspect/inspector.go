// Package inspect derives file properties from a staged document.
package inspect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"docparse/internal/domain"
)

const mimePDF = "application/pdf"

// Inspector detects MIME types from file content and counts PDF pages.
// It implements port.PropertyInspector.
type Inspector struct {
	logger *zap.Logger
}

// New creates an Inspector.
func New(logger *zap.Logger) *Inspector {
	return &Inspector{logger: logger.Named("inspect")}
}

func (i *Inspector) Inspect(ctx context.Context, path string) (*domain.FileProperties, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detecting mime type: %w", err)
	}

	props := &domain.FileProperties{
		MIMEType:  baseMIME(mt.String()),
		Extension: strings.TrimPrefix(filepath.Ext(path), "."),
		Size:      info.Size(),
	}

	if props.MIMEType == mimePDF {
		// A page count is nice to have; malformed PDFs are still handed to the engine.
		pages, err := pageCount(path)
		if err != nil {
			i.logger.Warn("could not count pdf pages", zap.String("path", path), zap.Error(err))
		} else {
			props.Pages = pages
		}
	}

	return props, nil
}

func pageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return api.PageCount(f, nil)
}

// baseMIME drops parameters such as "; charset=utf-8".
func baseMIME(s string) string {
	if idx := strings.Index(s, ";"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}
