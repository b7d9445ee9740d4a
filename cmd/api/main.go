package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/satuatap/credit-decision-service/internal/config"
	"github.com/satuatap/credit-decision-service/internal/ensemble"
	"github.com/satuatap/credit-decision-service/internal/handler"
	"github.com/satuatap/credit-decision-service/internal/integrations/gemini"
	"github.com/satuatap/credit-decision-service/internal/integrations/keyrate"
	"github.com/satuatap/credit-decision-service/internal/middleware"
	"github.com/satuatap/credit-decision-service/internal/notify"
	"github.com/satuatap/credit-decision-service/internal/repository"
	"github.com/satuatap/credit-decision-service/internal/service"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load .env then configuration
	_ = godotenv.Load()
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	rates := keyrate.NewClient(cfg, logger)
	advisory := gemini.NewClient(cfg, logger)
	policy := ensemble.PolicyConfig{
		MinScore: cfg.MinScore,
		MaxDTI:   cfg.MaxDTI,
		MaxLTV:   cfg.MaxLTV,
	}
	engine := ensemble.NewEngine(advisory, policy, cfg.GeminiModel, cfg.FallbackModels, logger)

	var notifier *notify.Sender
	if cfg.SMTPConfigured() {
		notifier = notify.NewSender(cfg, logger)
	}

	svc := service.NewService(repo, engine, rates, notifier, logger, cfg)
	h := handler.NewHandler(svc)

	// Warm the key-rate cache and keep it fresh; purge stale decisions nightly
	if err := rates.Refresh(); err != nil {
		logger.Warnf("Initial key rate fetch failed: %v", err)
	}
	c := cron.New()
	c.AddFunc("@hourly", func() {
		if err := rates.Refresh(); err != nil {
			logger.Warnf("Key rate refresh failed: %v", err)
		}
	})
	c.AddFunc("@daily", svc.PurgeOldDecisions)
	c.Start()
	defer c.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/health", h.Health).Methods("GET")
	// Protected API routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg))
	api.HandleFunc("/credit-score", h.CreditScore).Methods("POST")
	api.HandleFunc("/credit-profile/{user_id}", h.GetCreditProfile).Methods("GET")
	api.HandleFunc("/credit-profile", h.UpsertCreditProfile).Methods("POST", "PUT")
	api.HandleFunc("/recommendation", h.Recommend).Methods("POST")

	// Start server. The write timeout leaves room for the advisory fallback
	// loop, which may try several models.
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
