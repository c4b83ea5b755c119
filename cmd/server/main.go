package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"docbridge/internal/ai"
	"docbridge/internal/config"
	"docbridge/internal/drive"
	"docbridge/internal/handler"
	"docbridge/internal/middleware"
	"docbridge/internal/notion"
	"docbridge/internal/service"
	"docbridge/internal/slackx"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	slackapi "github.com/slack-go/slack"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"lookback_days", cfg.LookbackDays,
	)

	ctx := context.Background()

	// Workspace API client
	notionClient := notion.NewClient(cfg.NotionAPIKey, logger)

	// Drive uploader (application default credentials)
	uploader, err := drive.NewUploader(ctx, logger)
	if err != nil {
		log.Fatalf("Failed to create drive uploader: %v", err)
	}

	// Sync pipeline behind the task queue
	syncService := service.NewSyncService(notionClient, uploader, cfg, logger)
	runner := service.NewRunner(syncService.Run, cfg.QueueSize, cfg.SyncRetries, logger)
	runner.Start(ctx)
	defer runner.Close()

	// Monitoring stack; skipped entirely when no jobs file is present
	var monitorService *service.MonitorService
	jobs, err := config.LoadJobs(cfg.JobsFile)
	switch {
	case err != nil && errors.Is(err, fs.ErrNotExist):
		logger.Warn("jobs file missing, monitoring disabled", "path", cfg.JobsFile)
	case err != nil:
		log.Fatalf("Failed to load jobs: %v", err)
	default:
		slackClient := slackapi.New(cfg.SlackBotToken)
		harvester := slackx.NewHarvester(slackClient, cfg.SlackWorkspace, logger)

		users := make(map[string]string, len(jobs.Users))
		for _, u := range jobs.Users {
			users[u.Email] = u.SlackID
		}
		notifier := slackx.NewNotifier(slackClient, users, logger)

		analyzer, err := ai.NewAnalyzer(ctx, cfg.GeminiAPIKey, cfg.Model, logger)
		if err != nil {
			log.Fatalf("Failed to create analyzer: %v", err)
		}

		monitorService = service.NewMonitorService(notionClient, harvester, notifier, analyzer, jobs, cfg, logger)
		logger.Info("monitoring configured", "jobs", len(jobs.Jobs), "users", len(jobs.Users))
	}

	// Handlers
	syncHandler := handler.NewSyncHandler(runner, cfg, logger)
	var monitorHandler *handler.MonitorHandler
	if monitorService != nil {
		monitorHandler = handler.NewMonitorHandler(monitorService, logger)
	} else {
		monitorHandler = handler.NewMonitorHandler(nil, logger)
	}

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", syncHandler.HealthCheck)
	mux.HandleFunc("POST /sync", syncHandler.HandleSync)
	mux.HandleFunc("GET /monitor", monitorHandler.HandleMonitor)
	mux.HandleFunc("POST /monitor", monitorHandler.HandleMonitor)

	// Build middleware chain
	var httpHandler http.Handler = mux
	httpHandler = middleware.Recovery(logger)(httpHandler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "X-Notion-Signature"},
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Optional in-process monitoring schedule
	if monitorService != nil && cfg.MonitorCron != "" {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(cfg.MonitorCron, func() {
			monitorService.RunAll(context.Background())
		}); err != nil {
			log.Fatalf("Invalid MONITOR_CRON %q: %v", cfg.MonitorCron, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("monitoring schedule active", "cron", cfg.MonitorCron)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
