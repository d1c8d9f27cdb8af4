package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jianyou-wu/medical-app/internal/formula"
	"github.com/jianyou-wu/medical-app/internal/healthlog"
	"github.com/jianyou-wu/medical-app/internal/httpapi"
	"github.com/jianyou-wu/medical-app/internal/logging"
	"github.com/jianyou-wu/medical-app/internal/tables"
)

const serviceName = "medical-app"

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Port        string
	LogLevel    string
	LogFormat   string
	DatabaseURL string
	EnableDB    bool
	CORSOrigins []string

	DataDir         string
	MedicationsFile string
	DiseasesFile    string
	ClinicsFile     string
	PatientsFile    string
	DeptRulesFile   string
	HealthLogFile   string
}

func (c *Config) sources() tables.Sources {
	return tables.Sources{
		Dir:         c.DataDir,
		Medications: c.MedicationsFile,
		Diseases:    c.DiseasesFile,
		Clinics:     c.ClinicsFile,
		Patients:    c.PatientsFile,
		DeptRules:   c.DeptRulesFile,
	}
}

func (c *Config) healthLogPath() string {
	if filepath.IsAbs(c.HealthLogFile) {
		return c.HealthLogFile
	}
	return filepath.Join(c.DataDir, c.HealthLogFile)
}

func main() {
	gin.SetMode(getEnv("GIN_MODE", "release"))

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, serviceName)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := tables.NewStore(cfg.sources())
	if err != nil {
		logger.Fatal("load tables", zap.Error(err))
	}
	snap := store.Snapshot()
	for _, path := range snap.Missing {
		logger.Warn("table file missing", zap.String("path", path))
	}
	logger.Info("tables loaded",
		zap.Int("medications", snap.Medications.Len()),
		zap.Int("diseases", len(snap.Diseases)),
		zap.Int("clinics", snap.Clinics.Len()),
		zap.Int("patients", snap.Patients.Len()),
	)

	ctx := context.Background()
	var (
		db          HealthChecker
		healthStore healthlog.Store = healthlog.NewCSVStore(cfg.healthLogPath())
	)
	if cfg.EnableDB {
		pool, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		defer pool.Close()

		pg := healthlog.NewPGStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Fatal("create health_log schema", zap.Error(err))
		}
		db, healthStore = pool, pg
	}

	api := httpapi.New(httpapi.Config{
		Store:    store,
		Formulas: formula.NewCache(),
		Recorder: healthlog.NewRecorder(healthStore),
		Logger:   logger,
	})

	router := setupRouter(routerDeps{
		db:          db,
		api:         api,
		logger:      logger,
		staticRoot:  detectStaticRoot(),
		corsOrigins: cfg.CORSOrigins,
	})
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("server listening", zap.String("addr", server.Addr), zap.Bool("db", cfg.EnableDB))
	waitForShutdown(server, logger)
}

func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		EnableDB:    strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		DataDir:         getEnv("DATA_DIR", "./data"),
		MedicationsFile: getEnv("MEDICATIONS_FILE", "medications.csv"),
		DiseasesFile:    getEnv("DISEASES_FILE", "chat_data.csv"),
		ClinicsFile:     getEnv("CLINICS_FILE", "clean_全台診所分布.csv"),
		PatientsFile:    getEnv("PATIENTS_FILE", "模擬病歷資料_UTF8_BOM.csv"),
		DeptRulesFile:   os.Getenv("DEPT_RULES_FILE"),
		HealthLogFile:   getEnv("HEALTH_LOG_FILE", "health_log.csv"),
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}
	if len(cfg.CORSOrigins) == 0 {
		return nil, fmt.Errorf("CORS_ORIGINS must name at least one origin")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func connectDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

type routerDeps struct {
	db          HealthChecker
	api         *httpapi.Handler
	logger      *zap.Logger
	staticRoot  string
	corsOrigins []string
}

func setupRouter(deps routerDeps) *gin.Engine {
	if deps.logger == nil {
		deps.logger = zap.NewNop()
	}
	if len(deps.corsOrigins) == 0 {
		deps.corsOrigins = []string{"*"}
	}

	router := gin.New()
	router.Use(
		logging.GinLogger(deps.logger),
		gin.Recovery(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins: deps.corsOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}),
	)

	// Optional browser front end; the API works without it.
	if deps.staticRoot != "" {
		router.Static("/static", filepath.Join(deps.staticRoot, "static"))
		router.StaticFile("/", filepath.Join(deps.staticRoot, "index.html"))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if deps.db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := deps.db.Ping(ctx); err != nil {
			dbStatus = fmt.Sprintf("unhealthy: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     dbStatus,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"db":     dbStatus,
		})
	})

	if deps.api != nil {
		deps.api.Register(router.Group("/api"))
	}

	return router
}

func waitForShutdown(server *http.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// detectStaticRoot looks for index.html in the working directory and its two
// parents. It returns "" when there is no front end to serve.
func detectStaticRoot() string {
	startDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	candidates := []string{
		startDir,
		filepath.Dir(startDir),
		filepath.Dir(filepath.Dir(startDir)),
	}

	for _, dir := range candidates {
		if fileExists(filepath.Join(dir, "index.html")) {
			return dir
		}
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
