package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bindery/bindery/internal/api"
	"github.com/bindery/bindery/internal/config"
	"github.com/bindery/bindery/internal/pipeline"
	"github.com/bindery/bindery/internal/translate"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Translation is optional: without Azure credentials the service
	// still reconstructs documents, it just refuses translate requests.
	var translator *translate.Client
	if cfg.TranslationEnabled() {
		translator = translate.NewClient(
			cfg.AzureTranslatorKey,
			cfg.AzureTranslatorEndpoint,
			cfg.AzureTranslatorRegion,
			uint(cfg.TranslateAttempts),
		)
		log.Info("translator configured", "endpoint", cfg.AzureTranslatorEndpoint)
	} else {
		log.Info("no translator configured, translation disabled")
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, translator, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if translator != nil {
			translator.Close()
		}
	}()

	log.Info("starting bindery", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
