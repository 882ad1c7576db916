package teacherreview

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"didattika-backend/internal/documents"
	"didattika-backend/internal/shared/server/middleware"
	"didattika-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the review service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches teacher review routes to the router group. The
// group is expected to already require the teacher role.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/teacher/documents", h.list)
	rg.PUT("/teacher/documents/:id/approval", h.review)
	rg.GET("/teacher/documents/:id/audit", h.audit)
}

// DocumentResponse is the API shape of a reviewed document.
type DocumentResponse struct {
	documents.Response
	StudentID        string `json:"student_id"`
	StudentName      string `json:"student_name"`
	CourseID         string `json:"course_id,omitempty"`
	CourseName       string `json:"course_name,omitempty"`
	InteractionCount int    `json:"interaction_count"`
	AIQueriesCount   int    `json:"ai_queries_count"`
}

type reviewRequest struct {
	Action   string `json:"action"`
	Feedback string `json:"feedback"`
}

func (h *Handler) list(c *gin.Context) {
	f, srt, pg, applied, err := parseQuery(c)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	result, err := h.Svc.List(c.Request.Context(), f, srt, pg)
	if err != nil {
		h.writeError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"documents":         toDocumentResponses(result.Documents),
		"total":             result.Total,
		"page":              result.Page,
		"limit":             result.Limit,
		"filters_applied":   applied,
		"analytics_summary": result.Analytics,
	})
}

func (h *Handler) review(c *gin.Context) {
	teacherID := middleware.UserIDFromContext(c)

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	doc, rec, err := h.Svc.Review(c.Request.Context(), teacherID, c.Param("id"), ReviewInput{
		Action:   req.Action,
		Feedback: req.Feedback,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"success":  true,
		"document": toDocumentResponse(doc),
		"audit":    rec,
		"message":  "Approval decision recorded",
	})
}

func (h *Handler) audit(c *gin.Context) {
	recs, err := h.Svc.AuditTrail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"audit": recs, "total": len(recs)})
}

func parseQuery(c *gin.Context) (Filters, Sort, Page, map[string]any, error) {
	var f Filters
	applied := map[string]any{}

	if v := csvParam(c, "student_ids"); len(v) > 0 {
		f.StudentIDs = v
		applied["student_ids"] = v
	}
	if v := csvParam(c, "course_ids"); len(v) > 0 {
		f.CourseIDs = v
		applied["course_ids"] = v
	}
	if v := csvParam(c, "file_types"); len(v) > 0 {
		for _, ft := range v {
			if !documents.ValidFileType(ft) {
				return f, Sort{}, Page{}, nil, errors.New("file_types must contain only pdf, txt, docx")
			}
		}
		f.FileTypes = v
		applied["file_types"] = v
	}
	if v := csvParam(c, "approval_status"); len(v) > 0 {
		for _, st := range v {
			if !documents.ValidApprovalStatus(st) {
				return f, Sort{}, Page{}, nil, errors.New("approval_status must contain only pending, approved, flagged, rejected")
			}
		}
		f.ApprovalStatus = v
		applied["approval_status"] = v
	}
	if v := csvParam(c, "status"); len(v) > 0 {
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
			return f, Sort{}, Page{}, nil, errors.New("date_start must be an RFC 3339 timestamp or YYYY-MM-DD date")
		}
		f.DateStart = &t
		applied["date_start"] = v
	}
	if v := strings.TrimSpace(c.Query("date_end")); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return f, Sort{}, Page{}, nil, errors.New("date_end must be an RFC 3339 timestamp or YYYY-MM-DD date")
		}
		f.DateEnd = &t
		applied["date_end"] = v
	}

	srt := Sort{By: SortByDate, Order: "desc"}
	if v := c.Query("sort_by"); v != "" {
		switch v {
		case SortByDate, SortByStudent, SortByName, SortBySize, SortByInteractions:
			srt.By = v
		default:
			return f, Sort{}, Page{}, nil, errors.New("sort_by must be one of date, student, name, size, interactions")
		}
	}
	if v := c.Query("sort_order"); v != "" {
		if v != "asc" && v != "desc" {
			return f, Sort{}, Page{}, nil, errors.New("sort_order must be asc or desc")
		}
		srt.Order = v
	}

	pg := Page{Number: 1, Limit: 20}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, Sort{}, Page{}, nil, errors.New("page must be a positive integer")
		}
		pg.Number = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return f, Sort{}, Page{}, nil, errors.New("limit must be between 1 and 100")
		}
		pg.Limit = n
	}

	return f, srt, pg, applied, nil
}

func csvParam(c *gin.Context, name string) []string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

func toDocumentResponse(doc TeacherDocument) DocumentResponse {
	return DocumentResponse{
		Response:         documents.ToResponse(doc.Document),
		StudentID:        doc.StudentID,
		StudentName:      doc.StudentName,
		CourseID:         doc.CourseID,
		CourseName:       doc.CourseName,
		InteractionCount: doc.InteractionCount,
		AIQueriesCount:   doc.AIQueriesCount,
	}
}

func toDocumentResponses(docs []TeacherDocument) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDocumentResponse(doc))
	}
	return out
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidAction):
		respond.Error(c, http.StatusBadRequest, "validation_error", "action must be one of approve, flag, reject, modify", nil)
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "teacher review request failed", nil)
	}
}
