package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/vadimtrunov/MovieMate/internal/config"
	"github.com/vadimtrunov/MovieMate/internal/metadata/omdb"
	"github.com/vadimtrunov/MovieMate/internal/recommend"
)

// Lipgloss styles used across commands.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray

	styleTitle = lipgloss.NewStyle().Bold(true)
	styleLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(11)

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("5")).
			MarginBottom(1)
)

// resolveConfigPath returns path, or "" when path is the default location
// and no file exists there, so env-only setups work without a config file.
func resolveConfigPath(path string) string {
	if path != defaultConfigPath {
		return path
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return path
}

// loadConfig loads and validates the configuration file.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(resolveConfigPath(path))
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// setup loads configuration and builds the process logger.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, config.SetupLogger(cfg.App.LogLevel), nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM, carrying logger.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx := config.ContextWithLogger(context.Background(), logger)
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}

// initCatalog creates the OMDb client. It fails with core.ErrMissingAPIKey
// when no key is configured.
func initCatalog(cfg *config.Config, logger *slog.Logger) (*omdb.Client, error) {
	client, err := omdb.New(omdb.Options{
		APIKey:   cfg.OMDb.APIKey,
		BaseURL:  cfg.OMDb.BaseURL,
		HTTP:     cfg.HTTPClientConfig(),
		CacheTTL: cfg.OMDb.CacheTTL,
	}, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("OMDb catalog initialized", slog.String("url", sanitizeURL(cfg.OMDb.BaseURL)))
	return client, nil
}

// initEngine creates a recommendation engine over catalog.
func initEngine(cfg *config.Config, catalog *omdb.Client, logger *slog.Logger) *recommend.Engine {
	return recommend.New(catalog, recommend.Options{
		DefaultResults: cfg.Recommend.DefaultResults,
		MaxResults:     cfg.Recommend.MaxResults,
		Concurrency:    cfg.Recommend.Concurrency,
	}, logger)
}

// sanitizeURL strips credentials, query params, and fragment from a URL for safe logging.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || u.Scheme == "" {
		return "<redacted>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
