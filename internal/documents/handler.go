package documents

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"didattika-backend/internal/analyzer"
	"didattika-backend/internal/interactions"
	"didattika-backend/internal/shared/server/middleware"
	"didattika-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the documents service.
type Handler struct {
	Svc          *Service
	Interactions *interactions.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, ix *interactions.Service) *Handler {
	return &Handler{Svc: svc, Interactions: ix}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/upload", h.upload)
	rg.POST("/documents", h.create)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.PUT("/documents/:id", h.update)
	rg.DELETE("/documents/:id", h.remove)
	rg.GET("/documents/:id/tags", h.tags)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	file, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	body, err := file.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}
	defer body.Close()

	doc, err := h.Svc.Upload(c.Request.Context(), userID, UploadInput{
		Title:    c.PostForm("title"),
		FileName: file.Filename,
		FileSize: file.Size,
		Body:     body,
	})
	if err != nil {
		h.writeError(c, err, "failed to upload document")
		return
	}

	respond.Created(c, UploadResponse{
		DocumentID: doc.ID,
		Status:     doc.Status,
		Message:    "Document uploaded successfully and queued for processing",
	})
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	doc, err := h.Svc.Create(c.Request.Context(), userID, CreateInput{
		Title:       req.Title,
		FileType:    req.FileType,
		FileSize:    req.FileSize,
		ContentText: req.ContentText,
	})
	if err != nil {
		h.writeError(c, err, "failed to create document")
		return
	}

	respond.Created(c, ToResponse(doc))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.writeError(c, err, "failed to fetch document")
		return
	}

	h.Interactions.RecordInteraction(c.Request.Context(), doc.ID)
	respond.OK(c, ToResponse(doc))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Title == nil && req.Summary == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "no updatable fields provided", nil)
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "title cannot be empty", nil)
		return
	}

	doc, err := h.Svc.Update(c.Request.Context(), c.Param("id"), userID, Patch{
		Title:   req.Title,
		Summary: req.Summary,
	})
	if err != nil {
		h.writeError(c, err, "failed to update document")
		return
	}

	respond.OK(c, ToResponse(doc))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	doc, err := h.Svc.SoftDelete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.writeError(c, err, "failed to delete document")
		return
	}

	respond.OK(c, gin.H{
		"message":  "Document deleted successfully",
		"document": ToResponse(doc),
	})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	filters, applied, err := parseFilters(c)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	docs, total, err := h.Svc.List(c.Request.Context(), userID, filters)
	if err != nil {
		h.writeError(c, err, "failed to list documents")
		return
	}

	respond.OK(c, ListResponse{
		Documents:      toResponses(docs),
		Total:          total,
		Page:           filters.Page,
		Limit:          filters.Limit,
		FiltersApplied: applied,
	})
}

// tags runs on-demand tag extraction over the document's text. Only
// completed documents carry content, so anything else is a conflict.
func (h *Handler) tags(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.writeError(c, err, "failed to fetch document")
		return
	}
	if doc.Status != StatusCompleted || doc.ContentText == "" {
		respond.Error(c, http.StatusConflict, "document_not_ready", "Document has not finished processing", nil)
		return
	}

	tags, subject, language := analyzer.GenerateTags(doc.ContentText, "", doc.Metadata.Language)
	h.Interactions.RecordInteraction(c.Request.Context(), doc.ID)

	respond.OK(c, gin.H{
		"document_id": doc.ID,
		"subject":     subject,
		"language":    language,
		"tags":        tags,
	})
}

func parseFilters(c *gin.Context) (Filters, map[string]any, error) {
	f := Filters{Page: 1, Limit: 20}
	applied := map[string]any{}

	if v := strings.TrimSpace(c.Query("file_type")); v != "" {
		if !ValidFileType(v) {
			return f, nil, errors.New("file_type must be one of pdf, txt, docx")
		}
		f.FileType = v
		applied["file_type"] = v
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		f.Status = v
		applied["status"] = v
	}
	if v := strings.TrimSpace(c.Query("search_query")); v != "" {
		f.SearchQuery = v
		applied["search_query"] = v
	}
	if v := strings.TrimSpace(c.Query("date_start")); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return f, nil, errors.New("date_start must be an RFC 3339 timestamp or YYYY-MM-DD date")
		}
		f.DateStart = &t
		applied["date_start"] = v
	}
	if v := strings.TrimSpace(c.Query("date_end")); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return f, nil, errors.New("date_end must be an RFC 3339 timestamp or YYYY-MM-DD date")
		}
		f.DateEnd = &t
		applied["date_end"] = v
	}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, nil, errors.New("page must be a positive integer")
		}
		f.Page = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return f, nil, errors.New("limit must be between 1 and 100")
		}
		f.Limit = n
	}

	return f, applied, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]map[string]string, 0, len(verr.Reasons))
		for _, reason := range verr.Reasons {
			details = append(details, map[string]string{"issue": reason})
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", verr.Error(), details)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid input", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
