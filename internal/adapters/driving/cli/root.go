// Package cli provides the docchat command line.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/docchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docchat/internal/app"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/core/services"
	"github.com/custodia-labs/docchat/internal/logger"
)

var (
	// version is set by Execute.
	version = "dev"

	verbose   bool
	configDir string

	// settingsService resolves settings for every command.
	settingsService driving.SettingsService

	// newApp builds the application from settings. Tests replace it.
	newApp = app.Start

	// isTerminal reports whether fd is a terminal. Tests replace it.
	isTerminal = func(fd uintptr) bool { return term.IsTerminal(int(fd)) }
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with a document",
	Long: `docchat answers questions about a single document using retrieval
augmented generation.

Load a PDF, DOCX, HTML, Markdown or text file, then ask questions about it
over HTTP, MCP, the terminal UI or a one-shot command.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.docchat)")
}

// Execute runs the root command.
func Execute(v string) error {
	version = v
	defer logger.Sync() //nolint:errcheck
	return rootCmd.Execute()
}

// SetSettingsService replaces the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// setup loads .env, resolves settings and configures logging.
func setup(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if settingsService == nil || configDir != "" {
		store, err := file.NewConfigStore(configDir)
		if err != nil {
			return fmt.Errorf("open config: %w", err)
		}
		settingsService = services.NewSettingsService(store, ai.NewConfigValidator())
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	logger.Init(logger.Options{File: settings.Log.File, Verbose: verbose})
	logger.Debug("Config resolved: embedding=%s/%s llm=%s/%s",
		settings.Embedding.Provider, settings.Embedding.Model, settings.LLM.Provider, settings.LLM.Model)
	return nil
}

// loadSettings returns the resolved settings.
func loadSettings() (*domain.AppSettings, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}

// startApp builds the application. Provider problems are logged as warnings.
func startApp(cmd *cobra.Command) (*app.App, *domain.AppSettings, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	a, err := newApp(cmd.Context(), *settings)
	if err != nil {
		return nil, nil, fmt.Errorf("start: %w", err)
	}
	return a, settings, nil
}

// userError turns a service error into a message fit for the terminal.
func userError(err error) error {
	msg := domain.UserMessage(err)
	if msg == domain.MsgInternal {
		return err
	}
	return fmt.Errorf("%s (%w)", msg, err)
}
