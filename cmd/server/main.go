package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/analysis"
	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/api"
	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/config"
	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/pipeline"
	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/storage"
	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	// Load .env if present (OPENAI_API_KEY lives there in development)
	_ = godotenv.Load()

	// Load XML configuration
	configPath := filepath.Join(exeDir, "SmartDocumentAnalyzer.config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Ensure all data directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Println("Warning: OPENAI_API_KEY is not set; analysis requests will fail until it is")
	}

	// Check if running in embedded mode (frontend built into binary)
	embeddedMode := web.HasEmbeddedFiles()

	// Initialize document store
	store, err := storage.NewDuckStore(storage.DuckConfig{
		Path:        cfg.GetDatabasePath(),
		Threads:     cfg.Advanced.DuckDBThreads,
		MemoryLimit: cfg.Advanced.DuckDBMemoryLimit,
	})
	if err != nil {
		fmt.Printf("Failed to initialize document store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Load the analysis prompt configuration, falling back to defaults
	prompt := analysis.DefaultPromptConfig()
	promptPath := filepath.Join(cfg.GetDataDir(), "defaults", "analysis.yaml")
	if _, err := os.Stat(promptPath); err == nil {
		loaded, err := analysis.LoadPromptConfig(promptPath)
		if err != nil {
			fmt.Printf("Warning: failed to load prompt config: %v\n", err)
		} else {
			prompt = loaded
			fmt.Println("Custom analysis prompt loaded successfully")
		}
	}

	// Initialize the analysis client
	analyzer := analysis.NewClient(analysis.Config{
		APIKey:        apiKey,
		BaseURL:       cfg.Analysis.BaseURL,
		Model:         cfg.Analysis.Model,
		Temperature:   cfg.Analysis.Temperature,
		MaxTokens:     cfg.Analysis.MaxTokens,
		MaxInputChars: cfg.Analysis.MaxInputChars,
		Timeout:       time.Duration(cfg.Analysis.TimeoutSeconds) * time.Second,
	}, prompt)

	// Initialize the upload/reprocess pipeline
	pipelineMgr := pipeline.NewManager(store, analyzer)

	// Start background job cleanup
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Processing.CleanupIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			pipelineMgr.CleanupOldJobs(time.Duration(cfg.Processing.JobRetentionMinutes) * time.Minute)
		}
	}()

	// Initialize API handler
	h := api.NewHandler(store, pipelineMgr, prompt, cfg.Analysis.Model,
		cfg.MaxUploadBytes(), cfg.Security.AllowedFileTypes)

	e := echo.New()
	e.HTTPErrorHandler = api.ErrorHandler

	// Configure middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return strings.Contains(path, "/jobs/") || path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:         1024 * 4,
		DisablePrintStack: false,
		LogLevel:          0,
	}))

	// Compression middleware
	if cfg.Processing.EnableCompression {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level: cfg.Processing.CompressionLevel,
			Skipper: func(c echo.Context) bool {
				return c.Request().Header.Get("Accept") == "text/event-stream"
			},
		}))
	}

	// Body limit middleware
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// CORS configuration
	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	// API Routes
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", h.HandleHealth)

	// Document upload and collection
	apiGroup.POST("/documents/upload", h.HandleUploadDocument)
	apiGroup.POST("/documents/upload/binary", h.HandleUploadBinary)
	apiGroup.GET("/documents", h.HandleListDocuments)
	apiGroup.GET("/documents/msgpack", h.HandleListDocumentsMsgpack)
	apiGroup.GET("/documents/:id", h.HandleGetDocument)
	apiGroup.POST("/documents/:id/reprocess", h.HandleReprocessDocument)
	apiGroup.GET("/documents/:id/report", h.HandleDocumentReport)

	// Conditional delete based on config
	if cfg.Security.AllowDocumentDeletion {
		apiGroup.DELETE("/documents/:id", h.HandleDeleteDocument)
	}

	// Pipeline jobs
	apiGroup.GET("/jobs/:jobId", h.HandleGetJob)
	apiGroup.GET("/jobs/:jobId/stream", h.HandleJobStream)

	// Analysis configuration
	apiGroup.GET("/analysis/config", h.HandleAnalysisConfig)

	// Register embedded frontend if available
	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			fmt.Printf("Warning: failed to register static routes: %v\n", err)
		} else {
			fmt.Println("Serving embedded frontend from binary")
		}
	}

	// Configure server with settings from XML config
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Smart Document Analyzer Server                  ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Model:      %-45s║\n", cfg.Analysis.Model)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Database:  %-46s║\n", cfg.GetDatabasePath())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	if embeddedMode {
		fmt.Printf("Open http://localhost:%d in your browser\n\n", cfg.Server.Port)
	}

	e.Logger.Fatal(e.StartServer(s))
}
