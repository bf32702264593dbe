package analyses

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"finance-agent/internal/extract"
	"finance-agent/internal/shared/server/middleware"
	"finance-agent/internal/shared/server/respond"
)

const defaultMaxUploadBytes int64 = 10 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches analysis routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/analyze", h.analyze)
	r.POST("/analyze/document", h.analyzeDocument)
}

func (h *Handler) analyze(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Detail(c, http.StatusUnprocessableEntity, "validation", bindErrorDetail(err))
		return
	}
	h.run(c, req)
}

func (h *Handler) analyzeDocument(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			respond.Detail(c, http.StatusRequestEntityTooLarge, "validation", fmt.Sprintf("file exceeds %d bytes", h.MaxUploadBytes))
			return
		}
		respond.Detail(c, http.StatusUnprocessableEntity, "validation", "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Detail(c, http.StatusUnprocessableEntity, "validation", "file could not be read")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Detail(c, http.StatusUnprocessableEntity, "validation", "file could not be read")
		return
	}

	text, err := extract.Text(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		respond.Detail(c, http.StatusUnprocessableEntity, "validation", err.Error())
		return
	}

	var steer *string
	if values, ok := c.GetPostFormArray("context"); ok && len(values) > 0 {
		steer = &values[0]
	}
	h.run(c, NewRequest(text, steer))
}

func (h *Handler) run(c *gin.Context, req Request) {
	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))

	result, err := h.Svc.Analyze(ctx, req)
	if err != nil {
		kind := string(KindOf(err))
		c.Set(middleware.ErrorKindKey, kind)
		respond.Detail(c, http.StatusInternalServerError, kind, DetailMessage(err))
		return
	}

	respond.RawJSON(c, http.StatusOK, result)
}

func bindErrorDetail(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fieldName(fe))
		}
		return "field required: " + strings.Join(fields, ", ")
	}

	if errors.Is(err, ErrNullContext) {
		return ErrNullContext.Error()
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("invalid type for %s: expected %s", typeErr.Field, typeErr.Type.String())
	}
	if errors.Is(err, io.EOF) {
		return "request body is required"
	}
	return "invalid JSON body: " + err.Error()
}

func fieldName(fe validator.FieldError) string {
	switch fe.StructField() {
	case "UnstructuredText":
		return "unstructured_text"
	case "Context":
		return "context"
	default:
		return fe.Field()
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
