package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/equitylens/backend/internal/api"
	"github.com/equitylens/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the REST API server.

Endpoints:
  GET  /health                       - Health check
  GET  /api/scores                   - Latest score per ticker, best first
  GET  /api/scores/{ticker}          - Latest score for a ticker
  GET  /api/scores/{ticker}/history  - Recent scoring runs for a ticker
  POST /api/scores/rescore           - Recompute scores for tickers
  GET  /api/quote/{ticker}           - Live quote
  GET  /api/stream                   - WebSocket score stream

Example:
  go run ./cmd/lens api
  go run ./cmd/lens api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== EquityLens API Server ===")

	st, err := buildStack()
	if err != nil {
		return err
	}
	defer st.close()

	if st.repo == nil {
		return fmt.Errorf("DATABASE_URL is required for the API server")
	}

	if apiPort != "" {
		st.cfg.Port = apiPort
	}

	st.log.WithFields(map[string]interface{}{
		"port": st.cfg.Port,
		"env":  st.cfg.Env,
	}).Info("Initializing API server")

	stream := api.NewScoreStream(st.log)

	scoreHandler := handlers.NewScoreHandler(
		st.repo, st.pipeline, st.quotes, stream, st.cfg.Scoring.Workers, st.log)

	router := api.NewRouter(scoreHandler, stream, st.db, st.log)
	server := api.New(st.cfg, st.log, router)

	go func() {
		if err := server.Start(); err != nil {
			st.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	st.log.Info("API server started successfully")
	fmt.Printf("\nServer running on http://localhost:%s\n", st.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	st.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	st.log.Info("Server stopped")
	return nil
}
