package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/luminagems/gemstore/internal/api/handlers"
	"github.com/luminagems/gemstore/internal/api/middleware"
	"github.com/luminagems/gemstore/internal/cache"
	"github.com/luminagems/gemstore/internal/config"
	"github.com/luminagems/gemstore/internal/database"
	"github.com/luminagems/gemstore/internal/domain"
	"github.com/luminagems/gemstore/internal/jobs"
	"github.com/luminagems/gemstore/internal/openai"
	"github.com/luminagems/gemstore/internal/repository"
	"github.com/luminagems/gemstore/internal/server"
	"github.com/luminagems/gemstore/internal/service"
	"github.com/luminagems/gemstore/internal/storage"
	"github.com/luminagems/gemstore/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the storefront API server",
		Long:  "Start the gemstore API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, database.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
		MinConns: cfg.DatabaseMinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL, "file://migrations"); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	searchRepo := repository.NewSearchRepository(pool)
	suggestionRepo := repository.NewSuggestionRepository(pool)
	searchEventRepo := repository.NewSearchEventRepository(pool)
	gemstoneRepo := repository.NewGemstoneRepository(pool)
	exchangeRateRepo := repository.NewExchangeRateRepository(pool)
	mediaRepo := repository.NewMediaRepository(pool)
	analysisJobRepo := repository.NewAnalysisJobRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	var suggestionCache service.SuggestionCache
	var rateCache service.RateCache
	var rateCounter middleware.WindowCounter
	if cfg.HasRedis() {
		redisClient := cache.NewClient(cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx); err != nil {
			log.Printf("redis unavailable (continuing without cache): %v", err)
		} else {
			log.Println("connected to redis")
			suggestionCache = redisClient
			rateCache = redisClient
			rateCounter = redisClient
		}
	}

	var storageClient service.StorageClientInterface
	if cfg.HasS3() {
		s3Config := storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		}
		s3Client, err := storage.NewS3Client(ctx, s3Config)
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		storageClient = &S3StorageAdapter{client: s3Client}
	} else {
		storageClient = &UnconfiguredStorage{}
	}

	var analysisWorker *jobs.Worker
	if cfg.HasOpenAI() && cfg.HasS3() {
		visionClient := openai.NewClient(cfg.OpenAIAPIKey)
		analysisSvc := service.NewAnalysisService(analysisJobRepo, mediaRepo, gemstoneRepo, storageClient, visionClient)
		analysisProcessor := jobs.NewAnalysisWorker(analysisJobRepo, analysisSvc)
		analysisWorker = jobs.NewWorker(analysisProcessor, 10*time.Second)
		go analysisWorker.Start(ctx)
		log.Println("photo analysis worker started")
	}

	analyticsSvc := service.NewAnalyticsService(searchEventRepo)
	pricingSvc := service.NewPricingService(exchangeRateRepo, rateCache, cfg.BaseCurrency)
	searchSvc := service.NewSearchService(searchRepo, analyticsSvc, pricingSvc)
	suggestionSvc := service.NewSuggestionService(suggestionRepo, suggestionCache)
	catalogSvc := service.NewCatalogService(gemstoneRepo)
	mediaSvc := service.NewMediaService(gemstoneRepo, mediaRepo, storageClient, txRunner)

	routerCfg := server.RouterConfig{
		SearchHandler:  handlers.NewSearchHandler(searchSvc, suggestionSvc),
		CatalogHandler: handlers.NewCatalogHandler(catalogSvc),
		MediaHandler:   handlers.NewMediaHandler(mediaSvc),

		AdminToken: cfg.AdminToken,

		RateCounter:       rateCounter,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   time.Duration(cfg.RateLimitWindowS) * time.Second,
	}

	if !cfg.HasAdminToken() {
		log.Println("warning: ADMIN_TOKEN not set, catalog management routes disabled")
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if analysisWorker != nil {
		analysisWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// S3StorageAdapter bridges the storage client's metadata type to the
// service layer's.
type S3StorageAdapter struct {
	client *storage.S3Client
}

func (a *S3StorageAdapter) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	return a.client.GenerateUploadURL(ctx, key, contentType)
}

func (a *S3StorageAdapter) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	return a.client.GenerateDownloadURL(ctx, key)
}

func (a *S3StorageAdapter) DeleteObject(ctx context.Context, key string) error {
	return a.client.DeleteObject(ctx, key)
}

func (a *S3StorageAdapter) HeadObject(ctx context.Context, key string) (*service.ObjectMetadata, error) {
	meta, err := a.client.HeadObject(ctx, key)
	if err != nil {
		return nil, err
	}
	return &service.ObjectMetadata{
		ContentLength: meta.ContentLength,
		ContentType:   meta.ContentType,
		ETag:          meta.ETag,
	}, nil
}

// UnconfiguredStorage stands in when S3 credentials are absent so the
// catalog and search surfaces still run without media uploads.
type UnconfiguredStorage struct{}

var errStorageNotConfigured = domain.NewDomainError(domain.ErrCodeInvalidOperation, "media storage is not configured: S3_ENDPOINT required")

func (s *UnconfiguredStorage) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	return "", errStorageNotConfigured
}

func (s *UnconfiguredStorage) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	return "", errStorageNotConfigured
}

func (s *UnconfiguredStorage) DeleteObject(ctx context.Context, key string) error {
	return errStorageNotConfigured
}

func (s *UnconfiguredStorage) HeadObject(ctx context.Context, key string) (*service.ObjectMetadata, error) {
	return nil, errStorageNotConfigured
}

func runMigrations(databaseURL, sourceURL string) error {
	// golang-migrate needs a database/sql handle
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		sourceURL,
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if upErr == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
