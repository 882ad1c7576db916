package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"didattika-backend/internal/documents"
	"didattika-backend/internal/shared/server/middleware"
	"didattika-backend/internal/shared/server/respond"
	"didattika-backend/internal/synthesis"
)

// Handler wires HTTP handlers to the chat service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat", h.send)
	rg.POST("/chat/ask-document", h.askDocument)
	rg.GET("/chat/conversations", h.listConversations)
	rg.POST("/chat/conversations", h.createConversation)
	rg.GET("/chat/conversations/:id", h.getConversation)
	rg.PUT("/chat/conversations/:id", h.renameConversation)
	rg.DELETE("/chat/conversations/:id", h.deleteConversation)
}

func (h *Handler) send(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Message is required", nil)
		return
	}

	result, err := h.Svc.SendMessage(c.Request.Context(), userID, SendInput{
		Message:        req.Message,
		PersonaType:    req.Persona,
		ConversationID: req.ConversationID,
		DocumentIDs:    req.DocumentIDs,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	respond.OK(c, SendResponse{
		Message:        result.Reply.Content,
		ConversationID: result.ConversationID,
		Persona:        result.PersonaType,
		Timestamp:      result.Reply.CreatedAt,
	})
}

func (h *Handler) askDocument(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req askDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	result, err := h.Svc.AskDocument(c.Request.Context(), userID, AskInput{
		Message:        req.Message,
		DocumentIDs:    req.DocumentIDs,
		PersonaType:    req.Persona,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	respond.OK(c, SendResponse{
		Message:        result.Reply.Content,
		ConversationID: result.ConversationID,
		Persona:        result.PersonaType,
		Timestamp:      result.Reply.CreatedAt,
	})
}

func (h *Handler) createConversation(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	conv, err := h.Svc.CreateConversation(c.Request.Context(), userID, CreateInput{
		PersonaType: req.Persona,
		Title:       req.Title,
		DocumentIDs: req.DocumentIDs,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	respond.Created(c, toConversationResponse(conv, nil))
}

func (h *Handler) renameConversation(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req renameConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	conv, err := h.Svc.RenameConversation(c.Request.Context(), c.Param("id"), userID, req.Title)
	if err != nil {
		h.writeError(c, err)
		return
	}

	respond.OK(c, toConversationResponse(conv, nil))
}

func (h *Handler) listConversations(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	convs, err := h.Svc.ListConversations(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]ConversationResponse, 0, len(convs))
	for _, conv := range convs {
		out = append(out, toConversationResponse(conv, nil))
	}
	respond.OK(c, gin.H{"conversations": out, "total": len(out)})
}

func (h *Handler) getConversation(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	conv, msgs, err := h.Svc.GetConversation(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	respond.OK(c, toConversationResponse(conv, msgs))
}

func (h *Handler) deleteConversation(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.DeleteConversation(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.writeError(c, err)
		return
	}

	respond.OK(c, gin.H{"message": "Conversation deleted successfully"})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmptyMessage):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Message is required", nil)
	case errors.Is(err, ErrMessageTooLong):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Message exceeds the 1000 character limit", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid input", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Conversation not found", nil)
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
	case errors.Is(err, synthesis.ErrGeneration):
		respond.Error(c, http.StatusServiceUnavailable, "synthesis_unavailable", "AI service is temporarily unavailable", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "chat request failed", nil)
	}
}
