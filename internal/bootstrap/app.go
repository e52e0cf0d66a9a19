package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"onboard-backend/internal/clients"
	"onboard-backend/internal/documents"
	"onboard-backend/internal/links"
	"onboard-backend/internal/llm"
	openai "onboard-backend/internal/llm/openai"
	"onboard-backend/internal/notify"
	"onboard-backend/internal/shared/config"
	"onboard-backend/internal/shared/server"
	"onboard-backend/internal/shared/storage/db"
	"onboard-backend/internal/shared/storage/object"
	localstore "onboard-backend/internal/shared/storage/object/local"
	s3store "onboard-backend/internal/shared/storage/object/s3"
	"onboard-backend/internal/submissions"
	"onboard-backend/internal/tokens"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	LLM    llm.Client

	Notifier      notify.Notifier
	LinksRepo     links.LinksRepo
	ClientsRepo   clients.ClientsRepo
	DocumentsRepo documents.DocumentsRepo
	// TokenStore is set only in memory mode so dev seeding and tests can
	// register broker balances directly.
	TokenStore *tokens.MemoryStore

	TokensService      *tokens.Service
	Processor          *documents.Processor
	SubmissionsService *submissions.Service

	SubmissionsHandler *submissions.Handler
	LinksHandler       *links.Handler
	ClientsHandler     *clients.Handler
	TokensHandler      *tokens.Handler
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

	notifier, err := buildNotifier(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Notifier: notifier,
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}
	if app.DB == nil && isDevLike(cfg.Env) {
		seedDev(ctx, app)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             app.Config,
		SubmissionsHandler: app.SubmissionsHandler,
		LinksHandler:       app.LinksHandler,
		ClientsHandler:     app.ClientsHandler,
		TokensHandler:      app.TokensHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL), nil
	}
}

func buildNotifier(ctx context.Context, cfg config.Config) (notify.Notifier, error) {
	if strings.TrimSpace(cfg.NotifyQueueURL) == "" {
		return notify.LogNotifier{}, nil
	}
	return notify.NewSQSNotifier(ctx, cfg.AWSRegion, cfg.NotifyQueueURL)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// seedDev registers a broker and an open link so the submission flow can be
// exercised locally without a database.
func seedDev(ctx context.Context, app *App) {
	const brokerID = "broker-dev"
	const linkToken = "dev-onboarding-link"

	app.TokenStore.SetBalance(brokerID, 100)
	err := app.LinksRepo.Create(ctx, links.Link{
		Token:     linkToken,
		BrokerID:  brokerID,
		Status:    links.StatusActive,
		ExpiresAt: time.Now().UTC().Add(30 * 24 * time.Hour),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("bootstrap: dev seed failed: %v", err)
		return
	}
	log.Printf("bootstrap: seeded dev broker %q with link token %q", brokerID, linkToken)
}

func buildServices(app *App) error {
	var linksRepo links.LinksRepo
	var clientsRepo clients.ClientsRepo
	var docsRepo documents.DocumentsRepo
	var tokensSvc *tokens.Service

	if app.DB != nil {
		linksRepo = &links.PGRepo{DB: app.DB}
		clientsRepo = &clients.PGRepo{DB: app.DB}
		docsRepo = &documents.PGRepo{DB: app.DB}
		tokensSvc = tokens.NewServiceWithStore(tokens.NewPGStore(app.DB))
	} else {
		linksRepo = links.NewMemoryRepo()
		clientsRepo = clients.NewMemoryRepo()
		docsRepo = documents.NewMemoryRepo()
		app.TokenStore = tokens.NewMemoryStore()
		tokensSvc = tokens.NewServiceWithStore(app.TokenStore)
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if app.Config.LLMProvider == "openai" && strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) != "" {
		openaiClient, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), app.Config.LLMModel)
		if err != nil {
			return err
		}
		llmClient = openaiClient
	}

	processor := documents.NewProcessor(docsRepo, app.Store, llmClient)
	gateway := submissions.NewGateway(linksRepo, tokensSvc)
	submissionSvc := submissions.NewService(gateway, clientsRepo, linksRepo, processor, tokensSvc, app.Notifier)

	app.LLM = llmClient
	app.LinksRepo = linksRepo
	app.ClientsRepo = clientsRepo
	app.DocumentsRepo = docsRepo
	app.TokensService = tokensSvc
	app.Processor = processor
	app.SubmissionsService = submissionSvc
	app.SubmissionsHandler = submissions.NewHandler(submissionSvc, linksRepo)
	app.LinksHandler = links.NewHandler(linksRepo)
	app.ClientsHandler = clients.NewHandler(clientsRepo, docsRepo)
	app.TokensHandler = tokens.NewHandler(tokensSvc)

	return nil
}
