package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"langworker/internal/logging"
	"langworker/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the language resource worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx, host, port)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Bind address (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides config)")
	return cmd
}

func runServe(cmdCtx context.Context, ctx *commandContext, host string, port int) error {
	signalCtx, stop := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, reg, cat, err := ctx.loadCatalog()
	if err != nil {
		return err
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	outputs := []string{"stdout"}
	errorOutputs := []string{"stderr"}
	if cfg.Logging.LogDir != "" {
		logPath := filepath.Join(cfg.Logging.LogDir, "langworker.log")
		outputs = append(outputs, logPath)
		errorOutputs = append(errorOutputs, logPath)
	}
	logger, err := logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      outputs,
		ErrorOutputPaths: errorOutputs,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if cfg.Logging.LogDir != "" {
		lock := flock.New(filepath.Join(cfg.Logging.LogDir, "langworker.lock"))
		ok, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return errors.New("another langworker instance is already running")
		}
		defer func() { _ = lock.Unlock() }()
	}

	srv, err := server.New(cfg, reg, cat, logger)
	if err != nil {
		return err
	}
	if err := srv.Start(signalCtx); err != nil {
		return err
	}

	logger.Info("worker started",
		logging.String("registry", cfg.Registry.Path),
		logging.Int("languages", reg.Len()))

	<-signalCtx.Done()
	srv.Stop()
	logger.Info("shutdown complete")
	return nil
}
