package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/rickview/internal/browse"
	"github.com/five82/rickview/internal/catalog"
)

type detailField struct {
	label string
	value string
}

// renderDetail renders the detail view around the viewport.
func (m Model) renderDetail() string {
	title := m.breadcrumb()
	if m.detail.Record != nil {
		title = m.detail.Record.DisplayName()
	}
	content := lipgloss.NewStyle().PaddingLeft(1).Render(m.detailViewport.View())
	return m.renderTitledBox(title, content, m.width, m.contentHeight(), true)
}

// updateDetailViewport rebuilds the viewport content from the loaded detail.
func (m *Model) updateDetailViewport() {
	if !m.ready || m.detail.Record == nil {
		return
	}
	content, _ := m.buildDetailContent(m.detailViewport.Width)
	m.detailViewport.SetContent(content)
}

// ensureRelatedVisible scrolls so the selected related row is on screen.
func (m *Model) ensureRelatedVisible() {
	if !m.ready || m.detail.Record == nil || len(m.detail.Related) == 0 {
		return
	}
	_, line := m.buildDetailContent(m.detailViewport.Width)
	top := m.detailViewport.YOffset
	bottom := top + m.detailViewport.Height - 1
	switch {
	case line < top:
		m.detailViewport.SetYOffset(line)
	case line > bottom:
		m.detailViewport.SetYOffset(line - m.detailViewport.Height + 1)
	}
}

// buildDetailContent renders the record fields and the related list. It also
// returns the line index of the selected related row.
func (m Model) buildDetailContent(width int) (string, int) {
	bgColor := m.theme.FocusBg
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	rec := m.detail.Record

	title := bg.Render(rec.DisplayName(), styles.Text.Bold(true)) + bg.Space() +
		bg.Render(heart(m.detail.Liked), styles.Heart) + bg.Space() +
		bg.Render(fmt.Sprintf("%s #%d", rec.Category(), rec.EntityID()), styles.FaintText)
	if c, ok := rec.(catalog.Character); ok {
		title += bg.Space() + styles.StatusStyle(c.Status).Render(titleCase(c.Status))
	}

	var lines []string
	lines = append(lines, title, "")

	labelStyle := styles.MutedText.Width(12)
	for _, f := range m.detailFields(rec) {
		lines = append(lines, bg.Render(f.label, labelStyle)+bg.Render(truncate(f.value, max(width-12, 10)), styles.Text))
	}

	selectedLine := -1
	if len(m.detail.Related) > 0 {
		lines = append(lines, "")
		lines = append(lines, bg.Render(fmt.Sprintf("Related (%s)", humanize.Comma(int64(len(m.detail.Related)))), styles.AccentText.Bold(true)))
		for i, rel := range m.detail.Related {
			selected := i == m.screen.cursor
			if selected {
				selectedLine = len(lines)
			}
			lines = append(lines, m.formatRelated(rel, width, selected))
		}
	}

	return strings.Join(lines, "\n"), selectedLine
}

// detailFields lists the labelled attributes for a record.
func (m Model) detailFields(rec catalog.Record) []detailField {
	now := m.now()
	switch r := rec.(type) {
	case catalog.Character:
		return []detailField{
			{"Status", titleCase(r.Status)},
			{"Species", fallback(r.Species, "Unknown")},
			{"Type", fallback(r.Type, "-")},
			{"Gender", titleCase(r.Gender)},
			{"Origin", fallback(r.Origin.Name, "unknown")},
			{"Location", fallback(r.Location.Name, "unknown")},
			{"Episodes", humanize.Comma(int64(len(r.Episode)))},
			{"Image", fallback(r.Image, "-")},
			{"Created", formatCreated(r.ParsedCreated(), now)},
		}
	case catalog.Location:
		return []detailField{
			{"Type", fallback(r.Type, "Unknown")},
			{"Dimension", fallback(r.Dimension, "unknown")},
			{"Residents", humanize.Comma(int64(len(r.Residents)))},
			{"Created", formatCreated(r.ParsedCreated(), now)},
		}
	case catalog.Episode:
		return []detailField{
			{"Code", r.Code},
			{"Air date", r.AirDate},
			{"Characters", humanize.Comma(int64(len(r.Characters)))},
			{"Created", formatCreated(r.ParsedCreated(), now)},
		}
	}
	return nil
}

// formatRelated formats one related row: "Origin     #1 Earth (C-137)".
func (m Model) formatRelated(rel browse.Related, width int, selected bool) string {
	rowBg := m.theme.FocusBg
	if selected {
		rowBg = m.theme.SelectionBg
	}
	bg := NewBgStyle(rowBg)
	styles := m.theme.Styles()

	labelStyle, textStyle := styles.MutedText, styles.Text
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		labelStyle, textStyle = selText, selText
	}

	name := fmt.Sprintf("%s #%d", rel.Ref.Category, rel.Ref.ID)
	if rel.Record != nil {
		name = fmt.Sprintf("#%d %s", rel.Ref.ID, rel.Record.DisplayName())
		if details := m.rowDetails(rel.Record, false); len(details) > 0 {
			name += " · " + strings.Join(details, " · ")
		}
	}

	row := bg.Render(padRight(rel.Label, 11), labelStyle.Width(11)) + bg.Space() +
		bg.Render(truncate(name, max(width-13, 10)), textStyle)
	return lipgloss.NewStyle().Background(lipgloss.Color(rowBg)).Width(width).Render(row)
}
