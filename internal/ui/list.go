package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rickview/internal/catalog"
	"github.com/five82/rickview/internal/favorites"
)

// renderList renders a category page or a favorites listing.
func (m Model) renderList() string {
	bgColor := m.theme.FocusBg
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	records := m.visibleRecords()
	liked := m.currentFavorites()
	rowWidth := m.width - 2
	rows := max(m.boxHeight()-1, 1) // last line is the footer

	var lines []string
	if len(records) == 0 {
		lines = append(lines, bg.Render(" "+m.emptyListMessage(), styles.MutedText))
	}
	start, end := windowRows(len(records), m.screen.cursor, rows)
	for i := start; i < end; i++ {
		rec := records[i]
		selected := i == m.screen.cursor
		rowBg := bgColor
		if selected {
			rowBg = m.theme.SelectionBg
		}
		content := m.formatRow(rec, liked[rec.EntityID()], rowWidth, rowBg, selected)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(rowBg)).
			Width(rowWidth).
			Render(content))
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	lines = append(lines, m.renderListFooter(bg, styles))

	return m.renderTitledBox(m.listTitle(), strings.Join(lines, "\n"), m.width, m.contentHeight(), true)
}

func (m Model) currentFavorites() favorites.Map {
	if m.screen.view == ViewFavorites {
		return m.favs.Favorites
	}
	return m.list.Favorites
}

func (m Model) listTitle() string {
	label := m.screen.category.Label()
	if m.screen.view == ViewFavorites {
		return fmt.Sprintf("Favorite %s (%d)", strings.ToLower(label), len(m.favs.Records))
	}
	if pages := m.list.Page.Info.Pages; pages > 0 {
		return fmt.Sprintf("%s · page %d of %d", label, m.screen.page, pages)
	}
	return fmt.Sprintf("%s · page %d", label, m.screen.page)
}

func (m Model) emptyListMessage() string {
	switch {
	case m.filter != "":
		return fmt.Sprintf("No names match %q", m.filter)
	case m.screen.view == ViewFavorites:
		return "No favorites yet. Press space on any row to add one."
	default:
		return "Nothing on this page"
	}
}

// renderListFooter shows the filter input while typing, otherwise the pager.
func (m Model) renderListFooter(bg BgStyle, styles Styles) string {
	if m.filtering {
		return " " + m.filterInput.View()
	}
	var parts []string
	if m.screen.view == ViewList && m.list.Page.Info.Pages > 0 {
		parts = append(parts, bg.Render("page "+m.pager.View(), styles.MutedText))
	}
	if m.filter != "" {
		parts = append(parts, bg.Render(fmt.Sprintf("filter %q", m.filter), styles.AccentText))
	}
	if len(parts) == 0 {
		return ""
	}
	return bg.Space() + bg.Join(parts, " · ")
}

// formatRow formats one record as "♥ #ID Name · details".
// When selected is true, uses SelectionText color for all text to ensure contrast.
func (m Model) formatRow(rec catalog.Record, liked bool, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)

	idStr := fmt.Sprintf("#%d", rec.EntityID())
	details := m.rowDetails(rec, width >= LayoutWideWidth)
	detailStr := strings.Join(details, " · ")
	nameWidth := max(width-len(idStr)-lipgloss.Width(detailStr)-8, 10)

	var heartStyle, idStyle, nameStyle, sepStyle, detailStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		heartStyle, idStyle, nameStyle, sepStyle, detailStyle = selText, selText, selText, selText, selText
	} else {
		styles := m.theme.Styles()
		heartStyle = styles.Heart
		idStyle = styles.MutedText
		nameStyle = styles.Text
		sepStyle = styles.FaintText
		detailStyle = styles.MutedText
		if c, ok := rec.(catalog.Character); ok {
			detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.statusColor(c.Status)))
		}
	}

	row := bg.Space() + bg.Render(heart(liked), heartStyle) + bg.Space() +
		bg.Render(padRight(idStr, 5), idStyle) + bg.Space() +
		bg.Render(truncate(rec.DisplayName(), nameWidth), nameStyle)
	if detailStr != "" {
		row += bg.Render(" · ", sepStyle) + bg.Render(detailStr, detailStyle)
	}
	return row
}

// rowDetails returns the secondary columns for a record.
func (m Model) rowDetails(rec catalog.Record, wide bool) []string {
	switch r := rec.(type) {
	case catalog.Character:
		out := []string{titleCase(r.Status), fallback(r.Species, "Unknown")}
		if wide {
			out = append(out, titleCase(r.Gender))
		}
		return out
	case catalog.Location:
		out := []string{fallback(r.Type, "Unknown")}
		if wide {
			out = append(out, fallback(r.Dimension, "unknown dimension"))
		}
		return out
	case catalog.Episode:
		out := []string{r.Code}
		if wide {
			out = append(out, r.AirDate)
		}
		return out
	}
	return nil
}

// statusColor returns the theme color for a character status.
func (m Model) statusColor(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if color, ok := m.theme.StatusColors[status]; ok {
		return color
	}
	return m.theme.Muted
}
