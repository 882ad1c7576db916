package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "didattika-backend/internal/auth"
	"didattika-backend/internal/chat"
	"didattika-backend/internal/documents"
	"didattika-backend/internal/personas"
	"didattika-backend/internal/services/health"
	"didattika-backend/internal/shared/config"
	"didattika-backend/internal/shared/metrics"
	"didattika-backend/internal/shared/server/middleware"
	"didattika-backend/internal/shared/server/respond"
	"didattika-backend/internal/tags"
	"didattika-backend/internal/teacherreview"
	"didattika-backend/internal/users"
)

// RouterDeps carries the handlers the router mounts. Handlers left nil are
// skipped, which keeps partial wiring usable in tests.
type RouterDeps struct {
	Config          config.Config
	DocumentHandler *documents.Handler
	ChatHandler     *chat.Handler
	PersonaHandler  *personas.Handler
	TagHandler      *tags.Handler
	ReviewHandler   *teacherreview.Handler
	UserHandler     *users.Handler
	GoogleAuth      *googleauth.GoogleService
	Health          *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{}),
		middleware.Auth(deps.Config.Env),
	)

	r.GET("/metrics", metrics.Handler())

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.ChatHandler != nil {
		deps.ChatHandler.RegisterRoutes(api)
	}
	if deps.PersonaHandler != nil {
		deps.PersonaHandler.RegisterRoutes(api)
	}
	if deps.TagHandler != nil {
		deps.TagHandler.RegisterRoutes(api)
	}

	teacher := api.Group("", middleware.RequireTeacher())
	if deps.ReviewHandler != nil {
		deps.ReviewHandler.RegisterRoutes(teacher)
	}
	if deps.TagHandler != nil {
		deps.TagHandler.RegisterTeacherRoutes(teacher)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
