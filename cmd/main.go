package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"

	"github.com/padelhub/live-scoring/config"
	"github.com/padelhub/live-scoring/db"
	"github.com/padelhub/live-scoring/handlers"
	"github.com/padelhub/live-scoring/repositories"
	api "github.com/padelhub/live-scoring/routes"
	"github.com/padelhub/live-scoring/services"
	"github.com/padelhub/live-scoring/storage"
	"github.com/padelhub/live-scoring/ws"
)

const statusSweepInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, avatar uploads disabled")
	}

	wsHub := ws.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	pointRepo := repositories.NewPostgresPointHistoryRepository(dbConn)
	setRepo := repositories.NewPostgresMatchSetRepository(dbConn)
	statsRepo := repositories.NewPostgresPlayerStatsRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	commentaryRepo := repositories.NewPostgresCommentaryRepository(dbConn)

	txRunner := services.NewTxRunner(dbConn)

	matchService := services.NewMatchService(txRunner, matchRepo, setRepo, pointRepo, statsRepo, wsHub, logger)
	pointService := services.NewPointService(txRunner, matchRepo, pointRepo, setRepo, statsRepo, wsHub, logger)
	playerService := services.NewPlayerService(playerRepo, uploader, logger)
	commentaryService := services.NewCommentaryService(commentaryRepo, matchRepo, wsHub, logger)
	logger.Info("services initialized")

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logger.Error("failed to create scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(statusSweepInterval),
		gocron.NewTask(func() {
			if err := matchService.AutoUpdateMatchStatusesByTime(context.Background()); err != nil {
				logger.Error("match status sweep failed", slog.Any("error", err))
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		logger.Error("failed to schedule match status sweep", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.Start()
	defer func() { _ = scheduler.Shutdown() }()
	logger.Info("match status sweeper started", slog.Duration("interval", statusSweepInterval))

	matchHandler := handlers.NewMatchHandler(matchService, pointService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	commentaryHandler := handlers.NewCommentaryHandler(commentaryService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, matchService, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, cfg.CORSAllowedOrigins,
		matchHandler, playerHandler, commentaryHandler, webSocketHandler)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			return server.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}
