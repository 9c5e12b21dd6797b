// Command deckimportd runs the deck list import REST API server.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tcgtools/deckimport/internal/api"
	"github.com/tcgtools/deckimport/internal/cardindex/lookup"
	"github.com/tcgtools/deckimport/internal/cardindex/remote"
	"github.com/tcgtools/deckimport/internal/cardindex/store"
	"github.com/tcgtools/deckimport/internal/config"
	"github.com/tcgtools/deckimport/internal/pipeline"
)

var (
	listenAddr = flag.String("listen", "", "listen address (overrides config)")
	dbPath     = flag.String("db-path", "", "card index path (overrides config)")
)

func main() {
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}
	if *dbPath != "" {
		cfg.Cards.DBPath = *dbPath
	}

	path, err := cfg.CardDBPath()
	if err != nil {
		return err
	}

	storeConfig := store.DefaultConfig(path)
	storeConfig.AutoMigrate = true
	st, err := store.Open(storeConfig)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var client *remote.Client
	if !cfg.Cards.Offline {
		var options []remote.Option
		if cfg.Cards.APIBaseURL != "" {
			options = append(options, remote.WithBaseURL(cfg.Cards.APIBaseURL))
		}
		if cfg.Cards.APIKey != "" {
			options = append(options, remote.WithAPIKey(cfg.Cards.APIKey))
		}
		client = remote.NewClient(options...)
	}

	parser := pipeline.New(lookup.NewService(st, client))
	router := api.NewRouter(parser, st, logger)

	server := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.ListenAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}
