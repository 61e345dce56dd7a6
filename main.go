package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/webinsight/backend/analyzer"
	"github.com/webinsight/backend/content"
	"github.com/webinsight/backend/detect"
	"github.com/webinsight/backend/logging"
	"github.com/webinsight/backend/middleware"
	"github.com/webinsight/backend/scraper"
	"github.com/webinsight/backend/stats"
	"github.com/webinsight/backend/store"
)

func loadEnv() {
	// Prefer .env.development for local work, fall back to .env.
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}
}

func setupGinMode() {
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

func envFloat(name string, fallback float64) float64 {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

func main() {
	loadEnv()
	setupGinMode()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	metrics, err := stats.NewStorage(dataDir)
	if err != nil {
		log.Fatal("Failed to initialize metrics storage: ", err)
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "webinsight.db")
	}
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal("Failed to open analysis store: ", err)
	}

	requestStats := logging.Initialize(dataDir)

	service := analyzer.NewService(
		scraper.NewClient(15*time.Second),
		detect.New(),
		db,
		metrics,
	)

	var generator content.Generator
	if ollamaURL := os.Getenv("OLLAMA_URL"); ollamaURL != "" {
		model := os.Getenv("OLLAMA_MODEL")
		if model == "" {
			model = "llama3.2"
		}
		generator = content.NewOllamaGenerator(ollamaURL, model)
		log.Printf("Content generation enabled via %s (%s)", ollamaURL, model)
	}

	rateLimiter := middleware.NewRateLimiter(
		envFloat("RATE_LIMIT_RPS", 2),
		envFloat("RATE_LIMIT_BURST", 5),
	)

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(rateLimiter.RateLimit())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.Use(func(c *gin.Context) {
		requestStats.TrackVisitor(c.ClientIP())
		c.Next()
	})

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.POST("/analyze", analyzeHandler(service, requestStats))
		api.GET("/analysis/:id", fetchAnalysisHandler(db))
		api.GET("/analyses", listAnalysesHandler(db))
		api.POST("/generate", generateHandler(db, generator, requestStats, metrics))

		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, requestStats.Snapshot())
		})
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8082"
	}

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		log.Printf("Server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down")

	if err := service.Shutdown(); err != nil {
		log.Printf("Service shutdown: %v", err)
	}
	if err := requestStats.Save(); err != nil {
		log.Printf("Statistics save: %v", err)
	}
	if err := db.Close(); err != nil {
		log.Printf("Store close: %v", err)
	}
	srv.Close()
}
