package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pocketbook/internal/config"
	"github.com/MrJamesThe3rd/pocketbook/internal/export"
	pocketbookHttp "github.com/MrJamesThe3rd/pocketbook/internal/http"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/auth"
	budgetHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/budget"
	categoryHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/category"
	expenseHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/importcsv"
	reportHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/report"
	settingsHandler "github.com/MrJamesThe3rd/pocketbook/internal/http/settings"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/logging"
	"github.com/MrJamesThe3rd/pocketbook/internal/matching"
	"github.com/MrJamesThe3rd/pocketbook/internal/storage"
)

func main() {
	issueToken := flag.Duration("issue-token", 0, "print an API token valid for the given duration and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if _, err := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	if *issueToken > 0 {
		if cfg.Server.AuthSecret == "" {
			slog.Error("AUTH_SECRET is not set")
			os.Exit(1)
		}

		token, err := auth.Issue([]byte(cfg.Server.AuthSecret), cfg.App.Name, *issueToken)
		if err != nil {
			slog.Error("failed to issue token", "error", err)
			os.Exit(1)
		}

		fmt.Println(token)

		return
	}

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slots, closeSlots, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer closeSlots()

	store, err := ledger.Open(ctx, slots)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}

	storeLog := logging.For(logging.ComponentStorage)
	store.OnCommit(func(c ledger.Change) {
		storeLog.Debug("ledger committed", "collections", c.Collections)
	})

	var (
		matchingService = matching.NewService(store)
		importService   = importer.NewService(matchingService, store)
		exportService   = export.NewService(store)
	)

	handlers := pocketbookHttp.Handlers{
		Expenses:   expenseHandler.NewHandler(store),
		Budgets:    budgetHandler.NewHandler(store),
		Categories: categoryHandler.NewHandler(store),
		Settings:   settingsHandler.NewHandler(store),
		Reports:    reportHandler.NewHandler(store),
		Import:     importHandler.NewHandler(importService),
		Export:     exportHandler.NewHandler(exportService, store),
	}

	router := pocketbookHttp.New(pocketbookHttp.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AuthSecret:     cfg.Server.AuthSecret,
	}, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "addr", srv.Addr, "backend", cfg.Storage.Backend, "auth", cfg.Server.AuthSecret != "")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
