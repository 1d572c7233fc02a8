package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lucasmv/studydeck/internal/api"
	"github.com/lucasmv/studydeck/internal/config"
	"github.com/lucasmv/studydeck/internal/db"
	"github.com/lucasmv/studydeck/internal/logger"
	"github.com/lucasmv/studydeck/internal/repository/sqlite"
	"github.com/lucasmv/studydeck/internal/services"
	"github.com/lucasmv/studydeck/internal/session"
	"github.com/lucasmv/studydeck/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("StudyDeck Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("study_batch_limit=%d", cfg.StudyBatchLimit)
	log.Debug("session_ttl_minutes=%d", cfg.SessionTTLMinutes)
	log.Debug("stats_worker_count=%d", cfg.StatsWorkerCount)
	log.Debug("stats_queue_size=%d", cfg.StatsQueueSize)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	userRepo := sqlite.NewUserRepository(database.DB)
	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewFlashcardRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)

	// Background stats refresh pool and session store
	statsPool := worker.NewPool(cfg.StatsWorkerCount, cfg.StatsQueueSize)
	sessions := session.NewManager(time.Duration(cfg.SessionTTLMinutes) * time.Minute)

	// Services
	userService := services.NewUserService(userRepo)
	deckService := services.NewDeckService(deckRepo)
	flashcardService := services.NewFlashcardService(cardRepo, deckRepo, statsRepo, statsPool, cfg.ReviewHistoryMax)
	studyService := services.NewStudyService(cardRepo, deckRepo, statsRepo, sessions, statsPool, cfg.StudyBatchLimit)
	statsService := services.NewStatsService(statsRepo, deckRepo)

	srv := &api.Server{
		UserService:      userService,
		DeckService:      deckService,
		FlashcardService: flashcardService,
		StudyService:     studyService,
		StatsService:     statsService,
	}

	ctx, cancel := context.WithCancel(context.Background())
	statsPool.Start(ctx)
	go sessions.Run(ctx, time.Duration(cfg.SweepIntervalSecs)*time.Second)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping background workers")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	statsPool.Stop()

	log.Info("===========================================")
	log.Info("StudyDeck Server Stopped")
	log.Info("===========================================")
}
