package personas

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"didattika-backend/internal/shared/server/respond"
)

// Handler serves the static persona catalog.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches persona routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/personas", h.list)
	rg.GET("/personas/:type/prompts", h.prompts)
}

func (h *Handler) list(c *gin.Context) {
	all := All()
	out := make([]gin.H, 0, len(all))
	for _, p := range all {
		out = append(out, gin.H{
			"type":            p.Type,
			"name":            p.Name,
			"description":     p.Description,
			"characteristics": p.Characteristics,
		})
	}
	respond.OK(c, gin.H{"personas": out})
}

func (h *Handler) prompts(c *gin.Context) {
	p, ok := Get(c.Param("type"))
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "Persona not found", nil)
		return
	}
	respond.OK(c, gin.H{
		"type":          p.Type,
		"system_prompt": p.SystemPrompt,
	})
}
