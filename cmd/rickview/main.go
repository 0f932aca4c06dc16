package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/rickview/internal/app"
	"github.com/five82/rickview/internal/config"
	"github.com/five82/rickview/internal/prefs"
)

// -page also applies without -category, to the last browsed category.
const pageUsage = "open a category list at this page; uses -category or the last browsed category"

func main() {
	os.Exit(run())
}

func run() int {
	levelFlag := logLevelFlag{value: slog.LevelInfo}
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override preferences path (optional)")
	category := flag.String("category", "", "open this category directly: characters, locations or episodes")
	page := flag.Int("page", 0, pageUsage)
	showDirs := flag.Bool("show-dirs", false, "print where config, favorites and logs are stored")
	flag.Var(&levelFlag, "loglevel", "set log level: DEBUG, INFO, WARN or ERROR")
	flag.Parse()

	if *showDirs {
		return printDirs(*configPath, *prefsPath)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		LogLevel:   levelFlag.value,
		Category:   *category,
		Page:       *page,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "rickview: %v\n", err)
		return 1
	}
	return 0
}

func printDirs(configPath, prefsPath string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rickview: %v\n", err)
		return 1
	}
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	fmt.Printf("Config: %s\n", configPath)
	fmt.Printf("Preferences: %s\n", prefsPath)
	fmt.Printf("Favorites: %s\n", cfg.FavoritesDir())
	fmt.Printf("Logs: %s\n", cfg.LogFile)
	return 0
}
