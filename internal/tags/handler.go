package tags

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"didattika-backend/internal/analyzer"
	"didattika-backend/internal/shared/server/middleware"
	"didattika-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the tags service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches tag routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.GET("/tags", h.list)
	rg.GET("/tags/:id", h.get)
	rg.GET("/tags/:id/explanation", h.explanation)
}

// RegisterTeacherRoutes attaches teacher-only tag routes.
func (h *Handler) RegisterTeacherRoutes(rg *gin.RouterGroup) {
	rg.PUT("/teacher/tags/:id/validate", h.validate)
	rg.GET("/teacher/tags/:id/validations", h.history)
}

type analyzeRequest struct {
	Content      string `json:"content"`
	SubjectHint  string `json:"subject_hint"`
	LanguageHint string `json:"language_hint"`
}

type validateRequest struct {
	Action          string `json:"action"`
	NewName         string `json:"newName"`
	NewDescription  string `json:"newDescription"`
	NewCategory     string `json:"newCategory"`
	Feedback        string `json:"feedback"`
	ReasonForChange string `json:"reasonForChange"`
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "content is required", nil)
		return
	}

	found, subject, language := analyzer.GenerateTags(req.Content, req.SubjectHint, req.LanguageHint)
	respond.OK(c, gin.H{
		"tags":     found,
		"subject":  subject,
		"language": language,
	})
}

func (h *Handler) list(c *gin.Context) {
	out, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"tags": out, "total": len(out)})
}

func (h *Handler) get(c *gin.Context) {
	tag, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, tag)
}

func (h *Handler) explanation(c *gin.Context) {
	tag, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	exp := analyzer.GenerateExplanation(tag.Name, c.Query("user_level"), c.Query("context"))
	respond.OK(c, exp)
}

func (h *Handler) validate(c *gin.Context) {
	teacherID := middleware.UserIDFromContext(c)

	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	result, err := h.Svc.Validate(c.Request.Context(), teacherID, c.Param("id"), ValidateInput{
		Action:          req.Action,
		NewName:         req.NewName,
		NewDescription:  req.NewDescription,
		NewCategory:     req.NewCategory,
		Feedback:        req.Feedback,
		ReasonForChange: req.ReasonForChange,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	payload := gin.H{
		"success":    true,
		"validation": result.Validation,
		"message":    "Tag validation recorded",
		"updatedTag": result.UpdatedTag,
	}
	if result.AIFeedback != "" {
		payload["aiFeedback"] = result.AIFeedback
	}
	respond.OK(c, payload)
}

func (h *Handler) history(c *gin.Context) {
	out, err := h.Svc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"validations": out, "total": len(out)})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Tag not found", nil)
	case errors.Is(err, ErrInvalidAction):
		respond.Error(c, http.StatusBadRequest, "validation_error", "action must be one of approve, reject, modify", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "tag request failed", nil)
	}
}
