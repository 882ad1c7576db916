package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "didattika-backend/internal/auth"
	"didattika-backend/internal/chat"
	"didattika-backend/internal/documents"
	"didattika-backend/internal/interactions"
	"didattika-backend/internal/personas"
	"didattika-backend/internal/queue"
	"didattika-backend/internal/services/health"
	"didattika-backend/internal/shared/config"
	"didattika-backend/internal/shared/server"
	"didattika-backend/internal/shared/storage/db"
	"didattika-backend/internal/shared/storage/object"
	localstore "didattika-backend/internal/shared/storage/object/local"
	s3store "didattika-backend/internal/shared/storage/object/s3"
	"didattika-backend/internal/synthesis"
	"didattika-backend/internal/tags"
	"didattika-backend/internal/teacherreview"
	"didattika-backend/internal/users"
)

// App holds shared dependencies for the API and worker processes.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client
	Synth  synthesis.Client

	DocumentsRepo documents.Repo
	ChatRepo      chat.Repo
	TagsRepo      tags.Repo
	UsersRepo     users.Repo

	InteractionsService *interactions.Service
	DocumentsService    *documents.Service
	ChatService         *chat.Service
	TagsService         *tags.Service
	ReviewService       *teacherreview.Service
	UsersService        *users.Service

	DocumentsHandler *documents.Handler
	ChatHandler      *chat.Handler
	PersonasHandler  *personas.Handler
	TagsHandler      *tags.Handler
	ReviewHandler    *teacherreview.Handler
	UsersHandler     *users.Handler
	GoogleAuth       *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DocumentHandler: app.DocumentsHandler,
		ChatHandler:     app.ChatHandler,
		PersonaHandler:  app.PersonasHandler,
		TagHandler:      app.TagsHandler,
		ReviewHandler:   app.ReviewHandler,
		UserHandler:     app.UsersHandler,
		GoogleAuth:      app.GoogleAuth,
		Health:          health.NewService(),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.Env == "dev" {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if cfg.Env == "dev" {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func buildSynth(cfg config.Config) synthesis.Client {
	switch cfg.SynthesisProvider {
	case "placeholder":
		return synthesis.PlaceholderClient{}
	default:
		return synthesis.NewTemplateClient(cfg.SimulateLatency)
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
		app.ChatRepo = chat.NewPGRepo(app.DB)
		app.TagsRepo = tags.NewPGRepo(app.DB)
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.InteractionsService = interactions.NewService(interactions.NewPGStore(app.DB))
	} else {
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.ChatRepo = chat.NewMemoryRepo()
		app.TagsRepo = tags.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
		app.InteractionsService = interactions.NewService(interactions.NewMemoryStore())
	}

	app.Synth = buildSynth(app.Config)

	app.DocumentsService = &documents.Service{
		Repo:              app.DocumentsRepo,
		Store:             app.Store,
		JobQueue:          app.Queue,
		MaxUploadBytes:    app.Config.MaxUploadBytes,
		ProcessingTimeout: app.Config.ProcessingTimeout,
	}
	app.ChatService = chat.NewService(app.ChatRepo, app.DocumentsRepo, app.Synth, app.InteractionsService)
	app.TagsService = tags.NewService(app.TagsRepo, app.Synth)

	var auditStore teacherreview.AuditStore
	if app.DB != nil {
		auditStore = teacherreview.NewPGAuditStore(app.DB)
	} else {
		auditStore = teacherreview.NewMemoryAuditStore()
	}
	app.ReviewService = teacherreview.NewService(app.DocumentsRepo, app.UsersRepo, app.InteractionsService, auditStore)

	app.UsersService = users.NewService(app.UsersRepo)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.UsersService,
	)

	app.DocumentsHandler = documents.NewHandler(app.DocumentsService, app.InteractionsService)
	app.ChatHandler = chat.NewHandler(app.ChatService)
	app.PersonasHandler = personas.NewHandler()
	app.TagsHandler = tags.NewHandler(app.TagsService)
	app.ReviewHandler = teacherreview.NewHandler(app.ReviewService)
	app.UsersHandler = users.NewHandler(app.UsersService)
}
