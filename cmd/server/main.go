package main

import (
	"VaultKeeper/internal/config"
	"VaultKeeper/internal/handlers"
	"VaultKeeper/internal/logger"
	"VaultKeeper/internal/middleware"
	"VaultKeeper/internal/repo"
	"VaultKeeper/internal/router"
	"VaultKeeper/internal/service"
	"VaultKeeper/internal/vault"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg := config.NewConfig()
	if cfg.Version {
		fmt.Printf("VaultKeeper daemon\nVersion: %s\nBuild date: %s\n", version, buildDate)
		return
	}

	sugar, syncLogger, err := logger.New(cfg.LogFile)
	if err != nil {
		panic(err)
	}
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer syncLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	kv, closeStore, err := repo.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to open vault storage", "error", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			sugar.Errorw("failed to close vault storage", "error", err)
		}
	}()

	state := vault.New(vault.Options{
		Meta:          repo.NewMetaStore(kv),
		Blobs:         kv,
		Logger:        sugar,
		KDFAlgorithm:  cfg.KDFAlgorithm,
		KDFIterations: cfg.KDFIterations,
		Autolock:      cfg.AutolockDuration(),
	})
	if err := state.Initialize(ctx); err != nil {
		sugar.Fatalw("failed to initialize vault", "error", err)
	}
	// ключ не переживает процесс
	defer state.Lock()

	credentials := service.NewCredentialService(state, sugar)
	h := handlers.NewHandler(router.New(state, credentials, sugar), sugar, cfg)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"KDF", cfg.KDFAlgorithm,
		"Autolock", cfg.AutolockDuration(),
	)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}()

	sugar.Infow("Starting server", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Errorw("Server failed", "error", err)
		return
	}
	sugar.Infow("Server stopped")
}
