package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/M-owl-8/ACT/internal/backup"
	"github.com/M-owl-8/ACT/internal/config"
	"github.com/M-owl-8/ACT/internal/database"
	"github.com/M-owl-8/ACT/internal/handler"
	"github.com/M-owl-8/ACT/internal/logging"
	"github.com/M-owl-8/ACT/internal/motivation"
	"github.com/M-owl-8/ACT/internal/push"
	"github.com/M-owl-8/ACT/internal/router"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Pretty)

	db, err := database.Init(cfg.Database)
	if err != nil {
		logging.L.Fatal().Err(err).Msg("database init failed")
	}
	if err := database.AutoMigrate(db); err != nil {
		logging.L.Fatal().Err(err).Msg("migration failed")
	}
	if err := database.SeedDefaults(db); err != nil {
		logging.L.Fatal().Err(err).Msg("seeding failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := motivation.NewEngine(db)
	engine.Start(ctx)

	backupSvc := backup.NewService(db, cfg.Database.Path, cfg.Backup.Dir, cfg.Backup.KeepDays)
	go backupSvc.RunDaily(ctx, func() error {
		return handler.SweepExpiredResetTokens(db)
	})

	sender := push.NewSender(db, cfg.Push.GatewayURL)
	go sender.RunReminderLoop(ctx)

	r := router.New(cfg, db, engine, backupSvc)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logging.L.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logging.L.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.L.Error().Err(err).Msg("shutdown failed")
	}
}
