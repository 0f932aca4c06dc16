package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/five82/rickview/internal/browse"
	"github.com/five82/rickview/internal/catalog"
	"github.com/five82/rickview/internal/config"
	"github.com/five82/rickview/internal/favorites"
	"github.com/five82/rickview/internal/httptransport"
	"github.com/five82/rickview/internal/prefs"
	"github.com/five82/rickview/internal/ui"
)

// Options configure the rickview application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/rickview/prefs.toml
	LogLevel   slog.Level
	Category   string // empty uses the last browsed category
	Page       int    // > 0 opens the category list directly
}

// Run boots the rickview TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	closeLog, err := setupLogging(cfg.LogFile, opts.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog()

	uiOpts, err := buildUIOptions(ctx, cfg, opts)
	if err != nil {
		return err
	}

	slog.Info("Starting rickview",
		"api", cfg.APIBase,
		"favorites", cfg.FavoritesDir(),
		"timeout", cfg.RequestTimeout,
		"rps", cfg.RequestsPerSecond,
	)
	defer slog.Info("Stopped rickview")
	return ui.Run(uiOpts)
}

// buildUIOptions wires the catalog client, favorites store and browse
// service for the UI.
func buildUIOptions(ctx context.Context, cfg config.Config, opts Options) (ui.Options, error) {
	userPrefs := prefs.Load(opts.PrefsPath)

	category := userPrefs.Category()
	if strings.TrimSpace(opts.Category) != "" {
		c, err := catalog.ParseCategory(opts.Category)
		if err != nil {
			return ui.Options{}, err
		}
		category = c
	}

	page := opts.Page
	if page < 0 {
		return ui.Options{}, fmt.Errorf("page %d out of range", page)
	}
	if page == 0 && strings.TrimSpace(opts.Category) != "" {
		page = 1
	}

	httpClient := &http.Client{
		Transport: httptransport.LoggedTransport{},
	}
	client, err := catalog.NewClient(cfg.APIBase,
		catalog.WithHTTPClient(httpClient),
		catalog.WithTimeout(cfg.RequestTimeout),
		catalog.WithRateLimit(cfg.RequestsPerSecond),
	)
	if err != nil {
		return ui.Options{}, fmt.Errorf("init catalog client: %w", err)
	}

	store := favorites.New(favorites.NewFileBackend(cfg.FavoritesDir()))

	return ui.Options{
		Context:   ctx,
		Browse:    browse.New(client, store),
		Category:  category,
		Page:      page,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		APIBase:   client.BaseURL(),
	}, nil
}
