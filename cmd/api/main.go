package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proctorly/invigil/internal/api"
	"github.com/proctorly/invigil/internal/api/handler"
	"github.com/proctorly/invigil/internal/audit"
	"github.com/proctorly/invigil/internal/calibration"
	"github.com/proctorly/invigil/internal/capture"
	"github.com/proctorly/invigil/internal/config"
	"github.com/proctorly/invigil/internal/engine"
	"github.com/proctorly/invigil/internal/metrics"
	"github.com/proctorly/invigil/internal/recording"
	"github.com/proctorly/invigil/internal/repository"
	"github.com/proctorly/invigil/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Invigil API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Audit sinks: slog always, Postgres when configured
	sink := audit.Sink(audit.NewSlogSink(logger))
	var logStore handler.LogStore
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		repo := repository.NewProctorLogRepository(pool)
		sink = audit.NewMultiSink(sink, repo)
		logStore = repo

		logger.Info("audit log persistence enabled")
	}

	dispatcher := audit.NewDispatcher(sink, cfg.AuditQueueSize, logger)
	dispatcherCtx, cancelDispatcher := context.WithCancel(context.Background())
	defer cancelDispatcher()
	go dispatcher.Run(dispatcherCtx)

	// Calibration wizard with a static environment checker
	calibrationManager := calibration.NewManager(
		calibration.NewStaticChecker(),
		cfg.CalibrationFile,
		logger,
	)

	// Capture resources; the mock stands in for a real camera/microphone
	// stack behind the same interface.
	resources := capture.NewMock()
	session := engine.NewSessionController(resources, calibrationManager, logger)

	// Observers: Prometheus metrics and WebSocket push
	collector := metrics.NewCollector()
	hub := ws.NewHub()
	notifier := ws.NewNotifier(hub)

	monitor := engine.NewMonitor(engine.Config{
		DecayRate:           cfg.ScoreDecayPerSecond,
		Window:              cfg.ViolationWindow,
		EscalationThreshold: cfg.EscalationThreshold,
		HistoryLimit:        cfg.AlertHistoryLimit,
	}, session, dispatcher, logger, collector, notifier)

	// Background score decay
	decayWorker := engine.NewDecayWorker(monitor, logger, cfg.DecayTickInterval)
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	go decayWorker.Run(workerCtx)

	// Evidence collection
	recorder := recording.NewRecorder(
		recording.NoopGrabber{},
		cfg.ScreenshotDir,
		cfg.ScreenshotInterval,
		logger,
	)

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		Monitor:     monitor,
		Calibration: calibrationManager,
		Recorder:    recorder,
		Metrics:     collector,
		Hub:         hub,
		LogStore:    logStore,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	recorder.Stop()
	cancelWorker()
	cancelDispatcher()

	// Give the audit dispatcher a moment to flush its queue.
	time.Sleep(100 * time.Millisecond)

	logger.Info("server stopped")
	return nil
}
