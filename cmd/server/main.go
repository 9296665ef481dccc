package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/api"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/config"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/db"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/logger"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/repository/sqlite"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/services"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("StudeeHub Practice Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("session_ttl_days=%d", cfg.SessionTTLDays)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize stores
	masteryStore := sqlite.NewMasteryStore(database.DB)
	sessionStore := sqlite.NewSessionStore(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)

	// Drop practice sessions nobody resumed within the TTL.
	cutoff := time.Now().AddDate(0, 0, -cfg.SessionTTLDays)
	if n, err := sessionStore.DeleteStale(context.Background(), cutoff); err != nil {
		log.Warn("failed to clean up stale sessions: %v", err)
	} else if n > 0 {
		log.Info("cleaned up %d stale practice sessions", n)
	}

	// Initialize services
	practiceService := services.NewPracticeService(masteryStore, sessionStore)
	masteryService := services.NewMasteryService(masteryStore, statsRepo)

	srv := &api.Server{
		PracticeService: practiceService,
		MasteryService:  masteryService,
		DB:              database.DB,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("StudeeHub Practice Server Stopped")
	log.Info("===========================================")
}
