package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/profile-generator/internal/config"
	"alfredoptarigan/profile-generator/internal/handlers"
	"alfredoptarigan/profile-generator/internal/logger"
	"alfredoptarigan/profile-generator/internal/repositories"
	"alfredoptarigan/profile-generator/internal/services"
)

func main() {
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration
	cfg := config.Load()
	logger.Log.Info("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	genRepo := repositories.NewGenerationRepository(db)
	logger.Log.Info("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.GeneratedPath)
	if err := storageService.EnsureDirs(); err != nil {
		logger.Log.Fatalf("❌ Failed to create storage directories: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	templateService := services.NewTemplateService(cfg.Storage.TemplatePath, storageService)
	githubService := services.NewGitHubService(services.GitHubOptions{
		BaseURL:  cfg.GitHub.BaseURL,
		Token:    cfg.GitHub.Token,
		Timeout:  cfg.GitHub.Timeout,
		MaxRepos: cfg.GitHub.MaxRepos,
		PerPage:  cfg.GitHub.PerPage,
	})
	logger.Log.Info("✅ Services initialized successfully")

	// Initialize Gemini AI
	if len(cfg.Gemini.APIKeys) == 0 {
		logger.Log.Warn("⚠️ No Gemini API keys configured, generated text will use fallbacks")
	}
	pool := services.NewCredentialPool(cfg.Gemini.APIKeys, cfg.Gemini.Cooldown)
	geminiService := services.NewGeminiService(
		pool,
		services.NewGeminiBackend(cfg.Gemini.Model, cfg.Gemini.Temperature),
		cfg.Gemini.Timeout,
	)
	logger.Log.Infof("✅ Gemini AI initialized with %d credentials", pool.Size())

	assembler := services.NewProfileAssembler(
		githubService,
		services.NewNarrativeService(geminiService),
		services.NewSectionExtractor(),
		cfg.Worker.ProjectConcurrency,
	)

	// Initialize Handlers
	generateHandler := handlers.NewGenerateHandler(
		genRepo,
		storageService,
		pdfParser,
		assembler,
		templateService,
		cfg.Storage.MaxFileSize,
	)
	generationHandler := handlers.NewGenerationHandler(genRepo)
	fileHandler := handlers.NewFileHandler(storageService)
	logger.Log.Info("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Profile Generator API",
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1024*1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Routes
	app.Static("/templates", cfg.Storage.TemplatePath)

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "healthy",
			"time":        time.Now(),
			"credentials": pool.ActiveCount(),
		})
	})

	api.Post("/generate", generateHandler.HandleGenerate)
	api.Get("/generations", generationHandler.HandleListGenerations)
	api.Get("/generations/:id", generationHandler.HandleGetGeneration)
	api.Get("/download/:kind/:filename", fileHandler.HandleDownload)
	api.Get("/preview/:kind/:filename", fileHandler.HandlePreview)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Profile Generator API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/generate",
				"GET /api/generations",
				"GET /api/generations/:id",
				"GET /api/download/:kind/:filename",
				"GET /api/preview/:kind/:filename",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Log.Info("🛑 Shutting down server...")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			logger.Log.Errorf("❌ Server forced to shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Log.Infof("🚀 Server starting on %s", addr)

	if err := app.Listen(addr); err != nil {
		logger.Log.Fatalf("❌ Failed to start server: %v", err)
	}
}
