package domain

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// ParseOptions is the option bundle handed to the parse engine.
type ParseOptions struct {
	RenderFormat       RenderFormat `json:"render_format"`
	UseNewIndentParser bool         `json:"use_new_indent_parser"`
	ApplyOCR           bool         `json:"apply_ocr"`
	ParseAndRenderOnly bool         `json:"parse_and_render_only"`
	ParsePages         []int        `json:"parse_pages"`
}

// ParseRequest carries one document through the ingestion path.
// Content is streamed to the staging area; MaxBytes of 0 disables the size check.
type ParseRequest struct {
	Content  io.Reader
	Filename string
	Options  ParseOptions
	MaxBytes int64
	Source   ParseSource
}

// FileProperties describes a staged document.
type FileProperties struct {
	MIMEType  string `json:"mime_type"`
	Extension string `json:"extension"`
	Size      int64  `json:"size"`
	Pages     int    `json:"pages,omitempty"`
}

// ParseResult is either the engine's structured output or a failure record.
type ParseResult struct {
	Status   ParseStatus    `json:"status"`
	Data     map[string]any `json:"data,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Reason   string         `json:"reason,omitempty"`
	Err      error          `json:"-"`
}

// Succeeded builds a success result. A nil payload is reported as an empty dict.
func Succeeded(data map[string]any, warnings []string) *ParseResult {
	if data == nil {
		data = map[string]any{}
	}
	return &ParseResult{Status: ParseStatusOK, Data: data, Warnings: warnings}
}

// Failed builds a failure result carrying the error's message as the reason.
func Failed(err error) *ParseResult {
	return &ParseResult{Status: ParseStatusFail, Reason: err.Error(), Err: err}
}

// Failed reports whether the result is a failure record.
func (r *ParseResult) Failed() bool {
	return r.Status == ParseStatusFail
}

// FailureBody is the wire shape of a failure: {"status": "fail", "reason": ...}.
func (r *ParseResult) FailureBody() map[string]any {
	return map[string]any{"status": string(ParseStatusFail), "reason": r.Reason}
}

// Payload is the body returned to event callers: the dict on success, the failure record otherwise.
func (r *ParseResult) Payload() map[string]any {
	if r.Failed() {
		return r.FailureBody()
	}
	return r.Data
}

// ParseRecord is the audit row written for every ingestion attempt.
type ParseRecord struct {
	ID         uuid.UUID   `db:"id" json:"id"`
	Source     ParseSource `db:"source" json:"source"`
	Filename   string      `db:"filename" json:"filename"`
	MIMEType   string      `db:"mime_type" json:"mime_type"`
	SizeBytes  int64       `db:"size_bytes" json:"size_bytes"`
	Status     ParseStatus `db:"status" json:"status"`
	Reason     string      `db:"reason" json:"reason"`
	DurationMS int64       `db:"duration_ms" json:"duration_ms"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}
