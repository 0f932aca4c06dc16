package ui

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// titleCase converts an API label such as "unknown" or "Mythological
// Creature" to title case. Blank input becomes "Unknown".
func titleCase(value string) string {
	value = strings.TrimSpace(strings.ReplaceAll(value, "_", " "))
	if value == "" {
		return "Unknown"
	}
	return titleCaser.String(value)
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// formatCreated renders a catalog timestamp as "2017-11-04 (8 years ago)".
func formatCreated(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly) + " (" + humanize.RelTime(t, now, "ago", "from now") + ")"
}

// heart returns the favorite marker for a row.
func heart(liked bool) string {
	if liked {
		return "♥"
	}
	return "♡"
}

// fallback returns value, or alt when value is blank.
func fallback(value, alt string) string {
	if strings.TrimSpace(value) == "" {
		return alt
	}
	return value
}
