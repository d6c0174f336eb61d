package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"loandesk-backend/internal/export"
	"loandesk-backend/internal/extract"
	"loandesk-backend/internal/llm/openai"
	"loandesk-backend/internal/loans"
	"loandesk-backend/internal/ocr"
	"loandesk-backend/internal/shared/config"
	"loandesk-backend/internal/shared/server/middleware"
	"loandesk-backend/internal/shared/server/respond"
	"loandesk-backend/internal/shared/storage/db"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, opts)
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var loanRepo loans.Repo
	if sqlDB != nil {
		loanRepo = &loans.PGRepo{DB: sqlDB}
	} else {
		loanRepo = loans.NewMemoryRepo()
	}

	ocrClient := ocr.NewClient(ocr.Config{
		URL:     cfg.OCRAPIURL,
		APIKey:  cfg.OCRAPIKey,
		OwnPort: cfg.Port,
	})
	llmClient := openai.NewClient(openai.Config{
		URL:    cfg.LLMAPIURL,
		APIKey: cfg.LLMAPIKey,
		Model:  cfg.LLMModel,
	})

	loanSvc := &loans.Service{
		Repo: loanRepo,
		Text: &extract.Orchestrator{OCR: ocrClient},
		LLM:  llmClient,
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	loans.NewHandler(loanSvc).RegisterRoutes(api)
	export.NewHandler(loanSvc).RegisterRoutes(api)

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
