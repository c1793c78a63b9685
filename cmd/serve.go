package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lehigh-university-libraries/tagger/internal/handlers"
	"github.com/lehigh-university-libraries/tagger/internal/preview"
	"github.com/lehigh-university-libraries/tagger/internal/tagging"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string
	var provider string
	var model string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the tagging web API",
		Long: `Starts the Tagger JSON API on the specified port.

Each session holds one batch of uploaded images. Images can be tagged one at
a time or as a paced batch, edited, and exported as a zip of renamed files, a
CSV or Parquet keyword table, a YAML manifest, or a plain list of names.`,
		Example: `  # Start server on default port 8888
  tagger serve

  # Start server on custom port with OpenAI
  tagger serve --port 3000 --provider openai`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(verbose)

			cfg, err := loadConfig(provider, model)
			if err != nil {
				return err
			}
			if port == "" {
				port = cfg.Port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			llm, err := newProvider(cfg)
			if err != nil {
				return err
			}
			previews, err := preview.NewStore(cfg.PreviewDir, cfg.PreviewSize)
			if err != nil {
				return err
			}
			if cfg.PreviewDir == "" {
				defer os.RemoveAll(previews.Dir())
			}

			handler := handlers.New(cmd.Context(), cfg, tagging.NewService(llm, newPacer(cfg)), previews)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Tagger API available", "addr", addr, "url", "http://localhost"+addr, "provider", llm.Name(), "model", llm.Model())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				err := server.Shutdown(shutdownCtx)
				handler.Close()
				if err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default $PORT or 8888)")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider (gemini, openai, or ollama)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to provider's default)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	return cmd
}
