package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/testcontainers/talks-explorer/internal/app"
	"github.com/testcontainers/talks-explorer/internal/streams"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the talks web front end",
	Long: `Starts the web front end: the talks page on /, its live session on /ws
and a health check on /healthz. Browse events are published when
streams.brokers is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		logger := newLogger(os.Stdout, cfg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client, release, err := newClient(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer release()

		deps := app.Dependencies{Fetcher: client, Logger: logger}

		if cfg.Streams.Brokers != "" {
			stream, err := streams.NewStream(ctx, cfg.Streams.Brokers, cfg.Streams.Topic, logger)
			if err != nil {
				return fmt.Errorf("connecting to the browse events brokers: %w", err)
			}
			defer stream.Close(context.Background())
			deps.Recorder = stream
		}

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           app.SetupRouter(deps),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("server shutdown", "error", err)
			}
		}()

		logger.Info("talks explorer started",
			"addr", cfg.Server.Addr,
			"api", client.BaseURL(),
			"cache", cfg.Cache.URL != "",
			"streams", cfg.Streams.Brokers != "",
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "address to listen on, overrides server.addr")
	rootCmd.AddCommand(serveCmd)
}
