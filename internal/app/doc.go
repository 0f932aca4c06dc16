// Package app is the composition root for rickview.
//
// Run loads the configuration, points the default slog logger at a rotating
// log file, reads user preferences and wires the pieces the UI needs:
//
//	config.Load()            TOML config with per-user defaults
//	setupLogging()           slog -> lumberjack
//	catalog.NewClient()      HTTP client with logging transport, timeout and pacing
//	favorites.New()          one JSON file per category under <data_dir>/favorites
//	browse.New()             view orchestration over catalog and favorites
//	ui.Run()                 Bubble Tea program (blocks)
//
// A category passed on the command line opens that list directly; otherwise
// the UI starts on the home menu with the last browsed category highlighted.
package app
