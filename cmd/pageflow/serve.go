package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gompdf/pageflow/internal/config"
	"github.com/gompdf/pageflow/internal/server"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pagination HTTP API",
	Long: `Serve exposes reflow, plain-text pagination, import and export over HTTP.
It is configured from PAGEFLOW_* environment variables; --port overrides
PAGEFLOW_PORT.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

		cfg := config.Load()
		if servePort != "" {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			log.Error("invalid configuration", "error", err)
			os.Exit(1)
		}

		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      server.NewServer(cfg, log),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: cfg.ReflowTimeout + 30*time.Second,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			log.Info("shutting down...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			httpServer.Shutdown(shutdownCtx)
		}()

		log.Info("starting pageflow", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "Listen port (overrides PAGEFLOW_PORT)")
}
