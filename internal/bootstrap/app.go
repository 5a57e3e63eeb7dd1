// Package bootstrap builds the application object graph in a fixed
// order: config, database, migrations, stores, token manager, services,
// handlers, router.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"portal-backend/internal/auth"
	"portal-backend/internal/billing"
	"portal-backend/internal/content"
	"portal-backend/internal/documents"
	"portal-backend/internal/profiles"
	"portal-backend/internal/questions"
	sharedauth "portal-backend/internal/shared/auth"
	"portal-backend/internal/shared/config"
	"portal-backend/internal/shared/server"
	"portal-backend/internal/shared/storage/db"
	"portal-backend/internal/shared/storage/object"
	localstore "portal-backend/internal/shared/storage/object/local"
	"portal-backend/internal/shared/storage/object/miniostore"
	s3store "portal-backend/internal/shared/storage/object/s3"
	"portal-backend/internal/shared/telemetry"
	"portal-backend/internal/tasks"
)

// App holds the shared dependencies behind the HTTP API.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.Store
	Tokens *sharedauth.TokenManager

	AuthService      *auth.Service
	ProfilesService  *profiles.Service
	DocumentsService *documents.Service
	QuestionsService *questions.Service
	TasksService     *tasks.Service
	BillingService   *billing.Service
}

// Build prepares all dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, localStore, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	revoker, err := buildRevoker(cfg)
	if err != nil {
		return nil, err
	}

	tokens := sharedauth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Tokens: tokens,
	}

	var (
		userRepo     auth.UserRepo
		sessionRepo  auth.SessionRepo
		profileRepo  profiles.Repo
		documentRepo documents.Repo
		questionRepo questions.Repo
		invoiceRepo  billing.Repo
		contactRepo  content.ContactRepo
	)
	if sqlDB != nil {
		userRepo = &auth.PGUserRepo{DB: sqlDB}
		sessionRepo = &auth.PGSessionRepo{DB: sqlDB}
		profileRepo = &profiles.PGRepo{DB: sqlDB}
		documentRepo = &documents.PGRepo{DB: sqlDB}
		questionRepo = &questions.PGRepo{DB: sqlDB}
		invoiceRepo = &billing.PGRepo{DB: sqlDB}
		contactRepo = &content.PGContactRepo{DB: sqlDB}
	} else {
		userRepo = auth.NewMemoryUserRepo()
		sessionRepo = auth.NewMemorySessionRepo()
		profileRepo = profiles.NewMemoryRepo()
		documentRepo = documents.NewMemoryRepo()
		questionRepo = questions.NewMemoryRepo()
		invoiceRepo = billing.NewMemoryRepo()
		contactRepo = content.NewMemoryContactRepo()
	}

	app.ProfilesService = profiles.NewService(profileRepo)
	app.AuthService = auth.NewService(userRepo, sessionRepo, tokens, revoker)
	app.AuthService.SeedProfile = func(ctx context.Context, userID string, seed auth.ProfileSeed) error {
		patch := profiles.Patch{}
		if seed.FirstName != "" {
			patch.FirstName = &seed.FirstName
		}
		if seed.LastName != "" {
			patch.LastName = &seed.LastName
		}
		if seed.Company != "" {
			patch.Company = &seed.Company
		}
		if seed.Phone != "" {
			patch.Phone = &seed.Phone
		}
		_, err := app.ProfilesService.Update(ctx, userID, patch)
		return err
	}

	app.DocumentsService = documents.NewService(store, documentRepo, cfg.SignedURLTTL)
	app.QuestionsService = questions.NewService(questionRepo)
	// Tasks are dashboard scratch state; always in memory.
	app.TasksService = tasks.NewService(tasks.NewMemoryRepo())
	app.BillingService = billing.NewService(invoiceRepo)

	authHandler := auth.NewHandler(app.AuthService, func(ctx context.Context, userID string) (any, error) {
		return app.ProfilesService.Get(ctx, userID)
	}, cfg.IsProduction())

	var googleAuth *auth.GoogleService
	if cfg.GoogleClientID != "" {
		googleAuth = auth.NewGoogleService(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
			cfg.UIRedirectURL,
			app.AuthService,
			authHandler,
		)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		Tokens:           tokens,
		AuthHandler:      authHandler,
		GoogleAuth:       googleAuth,
		ProfilesHandler:  profiles.NewHandler(app.ProfilesService),
		DocumentsHandler: documents.NewHandler(app.DocumentsService, cfg.MaxUploadBytes),
		QuestionsHandler: questions.NewHandler(app.QuestionsService),
		TasksHandler:     tasks.NewHandler(app.TasksService),
		BillingHandler:   billing.NewHandler(app.BillingService),
		ContentHandler:   content.NewHandler(contactRepo),
		LocalStore:       localStore,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db", map[string]any{
				"msg": "DATABASE_URL empty; using in-memory repositories",
			})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db", map[string]any{
				"msg":   "database connect failed; using in-memory repositories",
				"error": err.Error(),
			})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

// buildStore returns the configured store; the second value is non-nil
// only for the local backend, which needs its download route served by
// the API.
func buildStore(ctx context.Context, cfg config.Config) (object.Store, *localstore.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		return store, nil, err
	case "minio":
		store, err := miniostore.New(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		return store, nil, err
	default:
		store := localstore.New(cfg.LocalStoreDir, cfg.DownloadURLSecret, "/api/v1/files")
		return store, store, nil
	}
}

func buildRevoker(cfg config.Config) (auth.Revoker, error) {
	if cfg.RedisURL == "" {
		return auth.NewMemoryRevoker(), nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return auth.NewRedisRevoker(redis.NewClient(opts)), nil
}
