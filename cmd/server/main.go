package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheetcsv/internal/config"
	"github.com/JonMunkholm/sheetcsv/internal/core"
	"github.com/JonMunkholm/sheetcsv/internal/logging"
	"github.com/JonMunkholm/sheetcsv/internal/web"
)

var (
	envFile string
	port    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetcsv",
		Short: "Convert Excel workbooks to CSV in the browser",
		Long: `sheetcsv serves a small web app that accepts .xls and .xlsx uploads,
previews a sheet and downloads it as delimited text.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "Environment file to load (overrides existing env vars)")
	rootCmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default: SERVER_PORT or 8080)")

	if err := rootCmd.Execute(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(envFile); err != nil {
		slog.Info("no .env file found, using environment variables", "path", envFile)
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)", "path", envFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = port
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"max_file_size", cfg.Upload.MaxFileSize,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"session_ttl", cfg.Session.TTL,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	service := core.NewService(cfg)
	server := web.NewServer(service, cfg)

	// Background jobs stop when jobCtx is cancelled
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	go service.StartSessionSweeper(jobCtx, cfg.Session.SweepInterval)
	go server.RunCleanup(jobCtx)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active conversions to complete (with timeout)
		if st := service.Status(); st.Conversions.Active > 0 {
			slog.Info("waiting for conversions to complete", "active", st.Conversions.Active)
			if err := service.WaitForConversions(shutdownCtx); err != nil {
				slog.Warn("conversions did not complete in time", "error", err)
			} else {
				slog.Info("all conversions completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	slog.Info("server stopped")
	return nil
}
