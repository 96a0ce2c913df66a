// Package main is the entry point for the Spindle event console.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dshills/spindle/internal/config"
	"github.com/dshills/spindle/internal/event"
	"github.com/dshills/spindle/internal/event/events"
	"github.com/dshills/spindle/internal/eventlog"
	"github.com/dshills/spindle/internal/manager"
	"github.com/dshills/spindle/internal/store"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:     "spindle",
		Short:   "In-process event substrate with an interactive introspection console",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	return cmd
}

func run(parent context.Context, configPath string) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	out := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	bus := event.NewDispatcher(
		event.WithHistoryCapacity(cfg.HistoryCapacity),
		event.WithLogger(out.With().Str("component", "dispatcher").Logger()),
		event.WithLogging(cfg.BusLogging),
	)

	var sink store.Store
	if cfg.DBPath != "" {
		sink, err = store.NewBoltStore(cfg.DBPath)
		if err != nil {
			return err
		}
	} else {
		sink = store.NewMemoryStore()
	}
	defer sink.Close()

	mgr := manager.New(
		manager.WithDispatcher(bus),
		manager.WithLog(out.With().Str("component", "manager").Logger()),
	)

	logCfg := cfg.LoggerConfig()
	logOut := out.With().Str("component", "eventlog").Logger()
	if err := mgr.Initialize(ctx, manager.Options{
		BusLogging:      cfg.BusLogging,
		AdvancedLogging: true,
		LoggerConfig:    &logCfg,
		LogOutput:       &logOut,
		LogSink:         sink,
		Console:         cfg.Console,
		ConsoleIn:       os.Stdin,
		ConsoleOut:      os.Stdout,
	}); err != nil {
		return err
	}
	defer mgr.Destroy()

	mgr.Emit(ctx, event.NewEvent(events.TypeGameInitialized,
		events.GameInitialized{Version: version}, "main"))

	// Live-reload logger settings when the config file changes.
	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, func(next config.Config) {
			applyConfig(mgr, next)
		})
		if err != nil {
			out.Warn().Err(err).Msg("config watcher unavailable")
		} else {
			go func() {
				if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
					out.Warn().Err(err).Msg("config watcher stopped")
				}
			}()
		}
	}

	if cons := mgr.Console(); cons != nil {
		if err := cons.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
	} else {
		<-ctx.Done()
	}

	mgr.Emit(context.WithoutCancel(ctx), event.NewEvent(events.TypeGameDestroyed, nil, "main"))
	return nil
}

// applyConfig pushes reloaded settings into the running manager.
func applyConfig(mgr *manager.Manager, cfg config.Config) {
	mgr.Bus().SetLogging(cfg.BusLogging)

	logger := mgr.EventLogger()
	if logger == nil {
		return
	}
	next := cfg.LoggerConfig()
	logger.UpdateConfig(eventlog.ConfigUpdate{
		MaxEntries:        &next.MaxEntries,
		Level:             &next.Level,
		EnableOutput:      &next.EnableOutput,
		EnablePersistence: &next.EnablePersistence,
		SnapshotSize:      &next.SnapshotSize,
		IncludeTypes:      next.IncludeTypes,
		ExcludeTypes:      next.ExcludeTypes,
	})
}
