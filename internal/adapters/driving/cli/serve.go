package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/telemetry"
)

var (
	serveAddr  string
	serveWatch string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API used by the web frontend.

Endpoints:
  POST /upload    Upload a PDF (multipart field "file")
  POST /process   Ask a question about the uploaded document
  POST /reset     Forget the document and session
  GET  /document  Describe the loaded document
  GET  /health    Provider configuration status

Use --watch to load a file at startup and reload it whenever it changes.

Examples:
  docchat serve
  docchat serve --addr :9000 --watch ./handbook.pdf`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings, :8000)")
	serveCmd.Flags().StringVar(&serveWatch, "watch", "", "file to load now and reload on change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, settings, err := startApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	shutdown, err := telemetry.InitTracer(ctx, settings.Telemetry, version)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("Tracer shutdown: %v", err)
		}
	}()

	addr := settings.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	server, err := httpapi.NewServer(httpapi.Config{
		Addr:           addr,
		CORSOrigins:    settings.Server.CORSOrigins,
		MaxUploadBytes: settings.Server.MaxUploadBytes,
		Version:        version,
	}, &httpapi.Ports{Documents: a.Documents, Chat: a.Chat})
	if err != nil {
		return err
	}

	logger.SetShowInfo(true)

	if serveWatch != "" {
		if _, err := a.Ingest(ctx, serveWatch); err != nil {
			logger.Error("Initial load of %s failed: %v", serveWatch, err)
		}
		go func() {
			if err := a.Watch(ctx, serveWatch); err != nil {
				logger.Error("Watching %s: %v", serveWatch, err)
			}
		}()
	}

	return server.Run(ctx)
}
