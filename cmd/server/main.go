// Package main provides the entry point for the ticket intake service.
// It initializes all dependencies, sets up HTTP routes with middleware,
// and starts the server with graceful shutdown support.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/client"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/client/classifier"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/client/momence"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/client/notify"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/config"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/handlers"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/middleware"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/routing"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/storage"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/storage/memory"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/storage/postgres"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/tickets"
	"github.com/Jimmeey2323/smart-ticket-manager/pkg/logger"
)

func main() {
	// Load .env.local file only in development (when GO_ENV is not set or set to "development")
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(".env.local"); err != nil {
			// Only log if the error is not "file not found"
			if !os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "Warning: Error loading .env.local file: %v\n", err)
			}
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log.Info("Starting Smart Ticket Manager")
	log.WithFields(logrus.Fields{
		"version":             "1.0.0",
		"port":                cfg.Server.Port,
		"host":                cfg.Server.Host,
		"platform_configured": cfg.IsMomenceConfigured(),
	}).Info("Service configuration loaded")

	// Initialize dependencies
	store := initializeStore(cfg, log)
	defer closeStore(store, log)

	platform, ticketService, metrics := initializeServices(cfg, store, log)

	// Set up HTTP server
	server := setupServer(cfg, store, platform, ticketService, metrics, log)

	// Start and run server with graceful shutdown
	runServer(server, cfg, log)
}

// initializeStore connects the PostgreSQL ticket store, falling back to the
// in-memory store when the database is unconfigured or unreachable.
func initializeStore(cfg *config.Config, log *logrus.Logger) storage.TicketStore {
	if !cfg.IsDatabaseConfigured() {
		log.Warn("Database credentials not configured, using in-memory ticket store")
		log.Warn("Note: In-memory store will not persist tickets between restarts")
		return memory.NewStore(log)
	}

	pgStore, err := postgres.NewStore(context.Background(), cfg, log)
	if err != nil {
		log.WithError(err).Warn("Failed to connect to PostgreSQL, falling back to in-memory store")
		log.Warn("Note: In-memory store will not persist tickets between restarts")
		return memory.NewStore(log)
	}

	log.Info("Successfully connected to PostgreSQL ticket store")
	return pgStore
}

func initializeServices(
	cfg *config.Config,
	store storage.TicketStore,
	log *logrus.Logger,
) (*momence.Client, *tickets.Service, *handlers.Metrics) {
	// Routing tables: compiled-in defaults merged with configs/routing.yaml
	tables, err := config.LoadRoutingTables()
	if err != nil {
		log.WithError(err).Warn("Failed to load routing tables file, using built-in defaults")
		tables = config.DefaultRoutingTables()
	}

	// Member/session platform client with bearer-token lifecycle
	tokenManager := client.NewTokenManager(client.Credentials{
		BaseURL:    cfg.Momence.BaseURL,
		BasicToken: cfg.Momence.BasicToken,
		Username:   cfg.Momence.Username,
		Password:   cfg.Momence.Password,
	}, cfg.Momence.Timeout, log)

	authedClient := client.NewAuthedClient(
		client.NewBaseClient(cfg.Momence.BaseURL, cfg.Momence.Timeout, log),
		tokenManager,
	)

	platform := momence.NewClient(authedClient, momence.Options{
		PageSize:  cfg.Momence.PageSize,
		MaxPages:  cfg.Momence.MaxPages,
		Locations: tables.Locations,
	}, log)

	// Classification client and routing engine
	classifierClient := classifier.NewClient(
		client.NewBaseClient(cfg.Classifier.BaseURL, cfg.Classifier.Timeout, log),
		cfg.Classifier.APIKey,
		cfg.Classifier.Model,
		cfg.Classifier.MaxTokens,
		log,
	)

	engine := routing.NewEngine(classifierClient, tables, cfg.Classifier.ConfidenceThreshold, log)

	// Metrics registry wiring
	metrics := handlers.NewMetrics()
	metrics.Register(prometheus.DefaultRegisterer)
	engine.SetFallbackCounter(metrics.ClassifierFallbacksTotal)

	// Ticket intake service with webhook notification
	notifier := notify.NewClient(cfg.Notify.WebhookURL, cfg.Notify.Timeout, log)
	ticketService := tickets.NewService(engine, store, notifier, log)

	return platform, ticketService, metrics
}

func closeStore(store storage.TicketStore, log *logrus.Logger) {
	if storeErr := store.Close(); storeErr != nil {
		log.WithError(storeErr).Error("Failed to close ticket store connection")
	}
}

func setupServer(
	cfg *config.Config,
	store storage.TicketStore,
	platform *momence.Client,
	ticketService *tickets.Service,
	metrics *handlers.Metrics,
	log *logrus.Logger,
) *http.Server {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg, store, log)
	memberDataHandler := handlers.NewMemberDataHandler(platform, metrics, log)
	ticketHandler := handlers.NewTicketHandler(ticketService, metrics, log)

	// Initialize middleware
	middlewareStack := middleware.NewStack(cfg, log)
	middlewareStack.SetRequestMetrics(metrics)

	// Set up routes
	router := mux.NewRouter()

	// API v1 router with /api/v1 prefix
	apiV1Router := router.PathPrefix("/api/v1").Subrouter()

	// Register health routes directly on the subrouter
	apiV1Router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	apiV1Router.HandleFunc("/health/live", healthHandler.Liveness).Methods("GET")
	apiV1Router.HandleFunc("/health/ready", healthHandler.Readiness).Methods("GET")
	apiV1Router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Member-data proxy routes
	apiV1Router.HandleFunc("/member-data", memberDataHandler.Dispatch).Methods("POST")
	apiV1Router.HandleFunc("/sessions/overview", memberDataHandler.SessionsOverview).Methods("GET")

	// Ticket routes
	apiV1Router.HandleFunc("/tickets/analyze", ticketHandler.Analyze).Methods("POST")
	apiV1Router.HandleFunc("/tickets", ticketHandler.Create).Methods("POST")
	apiV1Router.HandleFunc("/tickets", ticketHandler.List).Methods("GET")
	apiV1Router.HandleFunc("/tickets/{id}", ticketHandler.Get).Methods("GET")

	// Apply middleware to the entire router
	finalHandler := middlewareStack.Chain(
		router,
		middlewareStack.Recovery,
		middlewareStack.RequestLogger,
		middlewareStack.SecurityHeaders,
		middlewareStack.CORS,
		middlewareStack.ContentType,
	)

	// Create HTTP server
	return &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      finalHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

func runServer(server *http.Server, cfg *config.Config, log *logrus.Logger) {
	// Start server in a goroutine
	go startServer(server, log)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Create context with timeout for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		log.WithError(shutdownErr).Error("Server forced to shutdown")
	} else {
		log.Info("Server exited gracefully")
	}
}

func startServer(server *http.Server, log *logrus.Logger) {
	log.WithField("addr", server.Addr).Info("Starting HTTP server")

	if startErr := server.ListenAndServe(); startErr != nil && startErr != http.ErrServerClosed {
		log.WithError(startErr).Fatal("Failed to start server")
	}
}
