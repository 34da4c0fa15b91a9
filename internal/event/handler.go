// Package event adapts API Gateway style invocation events to the ingestion service.
package event

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"path/filepath"

	"github.com/aws/aws-lambda-go/events"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"docparse/internal/domain"
	"docparse/internal/port"
	"docparse/internal/service"
	"docparse/internal/staging"
)

// DefaultFilename is used when neither the body nor the URL names the document.
const DefaultFilename = staging.FallbackStem + ".pdf"

//go:embed request.schema.json
var requestSchema []byte

// Response is the invocation result. Body is the parse payload on a completed
// parse, or {"message": ...} when the event was rejected before parsing.
type Response struct {
	StatusCode int `json:"statusCode"`
	Body       any `json:"body"`
}

// Handler serves parse events: validate, wait for the parser server, fetch, ingest.
type Handler struct {
	supervisor port.ProcessSupervisor
	fetcher    port.DocumentFetcher
	ingest     service.IngestService
	schema     *jsonschema.Schema
	logger     *zap.Logger
}

// NewHandler creates a Handler. It fails only if the request schema does not compile.
func NewHandler(
	supervisor port.ProcessSupervisor,
	fetcher port.DocumentFetcher,
	ingest service.IngestService,
	logger *zap.Logger,
) (*Handler, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("request.schema.json", bytes.NewReader(requestSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("request.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Handler{
		supervisor: supervisor,
		fetcher:    fetcher,
		ingest:     ingest,
		schema:     schema,
		logger:     logger.Named("event"),
	}, nil
}

func message(status int, msg string) Response {
	return Response{StatusCode: status, Body: map[string]string{"message": msg}}
}

// Handle processes one event. Validation happens before any network call. Once
// the document reaches the ingestion service the status is 200 whatever the
// parse outcome; the body carries the result or the failure record.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (Response, error) {
	raw := req.Body
	if raw == "" {
		return message(http.StatusBadRequest, "No data provided"), nil
	}
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return message(http.StatusBadRequest, "Body is not valid base64"), nil
		}
		raw = string(decoded)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(raw), &body); err != nil || body == nil {
		return message(http.StatusBadRequest, "Body must be a JSON object"), nil
	}
	if _, ok := body["url"]; !ok {
		return message(http.StatusBadRequest, "No url provided"), nil
	}
	if err := h.schema.Validate(body); err != nil {
		return message(http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err)), nil
	}
	docURL, _ := body["url"].(string)
	bodyFilename, _ := body["filename"].(string)

	params := req.QueryStringParameters
	opts, err := domain.BuildParseOptions(domain.OptionParams{
		RenderFormat:       params["render_format"],
		UseNewIndentParser: params["use_new_indent_parser"],
		ApplyOCR:           params["apply_ocr"],
	}, domain.EventOptionDefaults)
	if err != nil {
		return message(http.StatusBadRequest, fmt.Sprintf("%v: %q", err, params["render_format"])), nil
	}

	if err := h.supervisor.EnsureReady(ctx); err != nil {
		h.logger.Error("parser server not ready", zap.Error(err), zap.String("state", string(h.supervisor.State())))
		return message(http.StatusServiceUnavailable, err.Error()), nil
	}

	content, err := h.fetcher.Fetch(ctx, docURL)
	if err != nil {
		h.logger.Error("fetching document failed", zap.Error(err))
		return message(fetchStatus(err), err.Error()), nil
	}

	filename := InferFilename(bodyFilename, docURL)
	result := h.ingest.Ingest(ctx, content, filename, opts)
	if result.Failed() {
		h.logger.Warn("parse failed", zap.String("filename", filename), zap.String("reason", result.Reason))
	}

	return Response{StatusCode: http.StatusOK, Body: result.Payload()}, nil
}

func fetchStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrUnsupportedSource):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// InferFilename picks the document name: the explicit name when given, else the
// last URL path segment if it has an extension, else DefaultFilename.
func InferFilename(explicit, rawURL string) string {
	if name := staging.SafeFilename(explicit); name != "" {
		return name
	}
	if u, err := url.Parse(rawURL); err == nil {
		name := staging.SafeFilename(path.Base(u.Path))
		if filepath.Ext(name) != "" {
			return name
		}
	}
	return DefaultFilename
}
