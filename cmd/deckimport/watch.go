package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tcgtools/deckimport/internal/config"
	"github.com/tcgtools/deckimport/internal/formats"
	"github.com/tcgtools/deckimport/internal/pipeline"
)

func newWatchCmd() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-parse a deck list file on every change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			override, err := formatOverride(formatFlag)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			parser, closer, err := openParser(cfg)
			if err != nil {
				return err
			}
			defer closer()

			debounceFor, err := cfg.WatchDebounce()
			if err != nil {
				return err
			}

			logger, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			return watch(cmd.Context(), args[0], pipeline.NewSession(parser), override, debounceFor, logger, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "format override")
	return cmd
}

// watch re-parses the file after each write, debounced. Each edit starts a
// new pipeline run through the session, so a slow run overtaken by a newer
// edit is discarded rather than printed out of order.
func watch(ctx context.Context, path string, session *pipeline.Session, override *formats.Format, debounceFor time.Duration, logger *zap.Logger, out io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory so editors that replace the file atomically
	// keep triggering events.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reparse := func() {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("read deck list", zap.Error(err))
			return
		}
		result, err := session.Parse(ctx, string(data), override)
		if errors.Is(err, pipeline.ErrSuperseded) {
			logger.Debug("run superseded")
			return
		}
		if err != nil {
			logger.Warn("parse failed", zap.Error(err))
			return
		}
		printResult(out, result)
	}

	debounced := debounce.New(debounceFor)

	logger.Info("watching", zap.String("file", path))
	reparse()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounced(reparse)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}
