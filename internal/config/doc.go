// Package config loads rickview's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use <user config dir>/rickview/config.toml
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but a field is missing or blank, use its default
//
// The per-user directories come from the platform conventions (XDG on Linux).
//
// # Fields
//
//	api_base = "https://rickandmortyapi.com/api"
//	data_dir = "~/.local/share/rickview"
//	log_file = "~/.cache/rickview/log/rickview.log"
//	request_timeout = 10      # seconds, 0 disables
//	requests_per_second = 10  # 0 disables pacing
//
// Tilde expansion is performed for data_dir and log_file. Favorites are
// written below <data_dir>/favorites.
//
// # Error Handling
//
// Missing config files are not an error. Unreadable files, TOML syntax errors
// and negative durations or rates are.
package config
