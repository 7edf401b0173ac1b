package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ashmitsharp/moneylens-api/internal/config"
	"github.com/ashmitsharp/moneylens-api/internal/handlers"
	"github.com/ashmitsharp/moneylens-api/internal/logger"
	"github.com/ashmitsharp/moneylens-api/internal/middleware"
	"github.com/ashmitsharp/moneylens-api/internal/services"
	"github.com/ashmitsharp/moneylens-api/internal/store"
	"github.com/ashmitsharp/moneylens-api/internal/utils"
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	if cfg.IsProduction() {
		log = logger.NewJSON(cfg.LogLevel)
	}
	if envErr != nil {
		log.Warn().Msg(".env file not found, using system environment variables")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	// Connect to database
	pool, err := store.Connect(ctx, store.ConnectConfig{
		URL:            cfg.DatabaseURL,
		MaxConns:       cfg.DBMaxConnections,
		ConnectTimeout: cfg.DBConnectionTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("✓ Connected to database successfully")

	if err := store.RunMigrations(pool); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info().Msg("✓ Migrations applied")

	db := store.New(pool)

	// Storage service for receipt images; optional outside production
	var storage handlers.ReceiptStorage
	if cfg.S3Bucket != "" {
		s3Storage, err := services.NewStorageService(ctx, cfg.S3Bucket, cfg.S3Region, cfg.AWSEndpoint)
		if err != nil {
			return fmt.Errorf("initialize storage service: %w", err)
		}
		storage = s3Storage
		log.Info().Str("bucket", cfg.S3Bucket).Msg("✓ Storage service initialized successfully")
	} else {
		log.Warn().Msg("S3_BUCKET not set, receipt uploads disabled")
	}

	var gemini *services.GeminiClient
	if cfg.GeminiAPIKey != "" {
		gemini, err = services.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return fmt.Errorf("initialize gemini client: %w", err)
		}
		log.Info().Msg("✓ Gemini client initialized successfully")
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, AI routes disabled")
	}

	var verifier middleware.TokenVerifier
	if cfg.ClerkSecretKey != "" {
		verifier = middleware.NewClerkVerifier(cfg.ClerkSecretKey)
		log.Info().Msg("✓ Using Clerk session tokens")
	} else if cfg.AuthJWTSecret != "" {
		verifier = middleware.NewHMACVerifier(cfg.AuthJWTSecret)
		log.Info().Msg("✓ Using HS256 tokens")
	} else {
		return fmt.Errorf("CLERK_SECRET_KEY or AUTH_JWT_SECRET is required")
	}

	validator := services.NewReceiptValidator(cfg.MaxReceiptBytes)
	reportService := services.NewReportService(db)

	// Initialize handlers
	usersHandler := handlers.NewUsersHandler(db, log)
	transactionHandler := handlers.NewTransactionHandler(db, reportService, services.NewExportFormatter())
	reportHandler := handlers.NewReportHandler(reportService, services.NewChartRenderer())
	categoryHandler := handlers.NewCategoryHandler(db)

	app := fiber.New(fiber.Config{
		AppName:      "moneylens API v1.0",
		ErrorHandler: utils.NewErrorHandler(log, !cfg.IsProduction()),
		BodyLimit:    int(cfg.MaxReceiptBytes)*2 + 1024*1024,
	})

	// Apply global middleware
	app.Use(recoverer.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.EnableRateLimiting {
		app.Use(middleware.RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow))
		log.Info().Int("max", cfg.RateLimitMax).Dur("window", cfg.RateLimitWindow).Msg("✓ Rate limiting enabled")
	}

	// Health check endpoint (public)
	app.Get("/health", func(c fiber.Ctx) error {
		if err := db.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "degraded",
				"service": "moneylens-api",
			})
		}
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "moneylens-api",
		})
	})

	// API v1 routes
	v1 := app.Group("/v1")

	// Public routes
	v1.Get("/ping", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})

	// Sign-in only needs a verified token; the user row is created here
	v1.Post("/session", middleware.Auth(verifier), usersHandler.SignIn)

	// Protected routes (require authentication and a signed-in user)
	protected := v1.Group("", middleware.Auth(verifier), middleware.ResolveUser(db))

	// Report routes
	protected.Get("/reports/monthly", reportHandler.GetMonthly)
	protected.Get("/reports/yearly", reportHandler.GetYearly)
	protected.Get("/reports/yearly/chart.png", reportHandler.GetYearlyChart)
	protected.Get("/reports/top-expense-categories", reportHandler.GetTopExpenseCategories)
	protected.Get("/reports/top-expense-categories/chart.png", reportHandler.GetTopExpenseCategoriesChart)

	// Transaction routes
	protected.Get("/transactions", transactionHandler.GetTransactions)
	protected.Get("/transactions/recent", transactionHandler.GetRecent)
	protected.Get("/transactions/descriptions", transactionHandler.GetDescriptions)
	protected.Get("/transactions/export", transactionHandler.ExportTransactions)
	protected.Post("/transactions", transactionHandler.CreateTransaction)
	protected.Post("/transactions/bulk", transactionHandler.BulkCreateTransactions)
	protected.Put("/transactions/:id", transactionHandler.UpdateTransaction)
	protected.Delete("/transactions/:id", transactionHandler.DeleteTransaction)

	// Category routes
	protected.Get("/categories", categoryHandler.GetCategories)

	// Receipt upload routes
	if storage != nil {
		uploadHandler := handlers.NewUploadHandler(storage, validator)
		protected.Get("/receipts/presigned-url", uploadHandler.GetPresignedURL)
	}

	// AI routes
	if gemini != nil {
		aiHandler := handlers.NewAIHandler(handlers.AIHandlerConfig{
			Producer:   gemini,
			Summarizer: gemini,
			Categories: db,
			Matcher:    services.NewCategoryMatcher(),
			Reports:    reportService,
			Storage:    storage,
			Validator:  validator,
		})

		ai := protected.Group("/ai")
		if cfg.EnableRateLimiting {
			ai.Use(middleware.RateLimit(cfg.RateLimitAIMax, cfg.RateLimitWindow))
		}
		ai.Post("/parse-transaction", aiHandler.ParseTransaction)
		ai.Post("/summarize", aiHandler.Summarize)
	}

	log.Info().Msg("✓ All routes configured successfully")

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		log.Info().Str("addr", addr).Str("environment", cfg.Environment).Msg("🚀 moneylens API is running")
		errCh <- app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server exited")
	return nil
}
