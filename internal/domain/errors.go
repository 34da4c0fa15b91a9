package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("invalid request")
	ErrMissingFile        = errors.New("file field is required")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrStaging            = errors.New("staging document failed")
	ErrInspection         = errors.New("inspecting document failed")
	ErrEngine             = errors.New("parse engine failed")
	ErrFetch              = errors.New("fetching document failed")
	ErrSupervisorTimeout  = errors.New("parser server did not become ready")
	ErrAlreadyStarted     = errors.New("parser server already started")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUnsupportedSource  = errors.New("unsupported document source")
	ErrInvalidRenderValue = errors.New("unsupported render format")
)

// SizeLimitError reports a staged document whose measured size exceeds the configured ceiling.
type SizeLimitError struct {
	Size  int64
	Limit int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("file size (%d bytes, %s) exceeds maximum allowed (%d bytes, %s)",
		e.Size, formatMB(e.Size), e.Limit, formatMB(e.Limit))
}

func (e *SizeLimitError) Unwrap() error {
	return ErrFileTooLarge
}

func formatMB(n int64) string {
	return fmt.Sprintf("%.2fMB", float64(n)/1024/1024)
}
