package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docparse/internal/domain"
	"docparse/internal/service"
	"docparse/internal/staging"
)

const (
	defaultRecordsLimit = 20
	maxRecordsLimit     = 500
)

// ParseHandler handles document parse endpoints.
type ParseHandler struct {
	ingest   service.IngestService
	maxBytes int64
	logger   *zap.Logger
}

// NewParseHandler creates a new ParseHandler. maxBytes is the ceiling applied
// to the staged upload.
func NewParseHandler(ingest service.IngestService, maxBytes int64, logger *zap.Logger) *ParseHandler {
	return &ParseHandler{ingest: ingest, maxBytes: maxBytes, logger: logger.Named("parse_handler")}
}

// ParseDocument handles POST /api/parseDocument
// @Summary Parse a document
// @Description Upload a document and return the parser's structured output
// @Tags parse
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document to parse"
// @Param renderFormat query string false "Render format: all, html, text or json" default(all)
// @Param useNewIndentParser query string false "yes or no" default(no)
// @Param applyOcr query string false "yes or no" default(no)
// @Success 200 {object} ParseSuccessResponse "Parsed document"
// @Failure 400 {object} FailureResponse "Missing file or invalid parameter"
// @Failure 401 {object} FailureResponse "Unauthorized"
// @Failure 413 {object} FailureResponse "File too large"
// @Failure 500 {object} FailureResponse "Parse failed"
// @Security BearerAuth
// @Router /parseDocument [post]
func (h *ParseHandler) ParseDocument(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			RespondFail(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds maximum allowed (%d bytes)", h.maxBytes))
			return
		}
		RespondFail(c, http.StatusBadRequest, domain.ErrMissingFile.Error())
		return
	}
	defer func() { _ = file.Close() }()

	opts, err := domain.BuildParseOptions(domain.OptionParams{
		RenderFormat:       c.Query("renderFormat"),
		UseNewIndentParser: c.Query("useNewIndentParser"),
		ApplyOCR:           c.Query("applyOcr"),
	}, domain.HTTPOptionDefaults)
	if err != nil {
		RespondFail(c, http.StatusBadRequest, fmt.Sprintf("%v: %q", err, c.Query("renderFormat")))
		return
	}

	filename := staging.SafeFilename(header.Filename)
	if filename == "" {
		filename = staging.FallbackStem
	}

	result := h.ingest.IngestReader(c.Request.Context(), domain.ParseRequest{
		Content:  file,
		Filename: filename,
		Options:  opts,
		MaxBytes: h.maxBytes,
		Source:   domain.ParseSourceHTTP,
	})
	if result.Failed() {
		HandleResultError(c, h.logger, result)
		return
	}

	c.JSON(http.StatusOK, ParseSuccessResponse{Status: http.StatusOK, ReturnDict: result.Data})
}

// ListRecords handles GET /api/parseRecords
// @Summary List recent parse attempts
// @Description Returns the most recent parse attempts, newest first
// @Tags parse
// @Produce json
// @Param limit query int false "Maximum records to return (max 500)" default(20)
// @Success 200 {object} APIResponse{data=[]domain.ParseRecord,meta=PagMeta} "Recent parse attempts"
// @Failure 401 {object} FailureResponse "Unauthorized"
// @Failure 500 {object} APIResponse "Listing failed"
// @Security BearerAuth
// @Router /parseRecords [get]
func (h *ParseHandler) ListRecords(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultRecordsLimit)))
	if err != nil || limit <= 0 {
		limit = defaultRecordsLimit
	}
	if limit > maxRecordsLimit {
		limit = maxRecordsLimit
	}

	records, err := h.ingest.History(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("listing parse records failed", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not list parse records")
		return
	}

	RespondPaginated(c, records, PagMeta{Total: len(records), Limit: limit})
}
