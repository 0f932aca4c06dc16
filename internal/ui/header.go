package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/rickview/internal/catalog"
)

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + location + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	if m.err != nil && m.screen.view != ViewHome {
		return m.renderError()
	}
	if m.loading {
		return m.renderLoading()
	}
	switch m.screen.view {
	case ViewHome:
		return m.renderHome()
	case ViewList, ViewFavorites:
		return m.renderList()
	case ViewDetail:
		return m.renderDetail()
	default:
		return ""
	}
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{
		bg.Render("rickview", styles.Logo),
		bg.Render(m.breadcrumb(), styles.Text),
	}

	switch {
	case m.loading:
		parts = append(parts, bg.Render(m.spinner.View()+" loading", styles.WarningText))
	case m.err != nil && m.screen.view != ViewHome:
		parts = append(parts, bg.Render("● ERROR", styles.DangerText))
	case m.screen.view == ViewList && m.list.Page.Info.Count > 0:
		parts = append(parts,
			bg.Render(humanize.Comma(int64(m.list.Page.Info.Count)), styles.Text)+bg.Space()+
				bg.Render(strings.ToLower(m.screen.category.Label()), styles.MutedText))
	}

	if m.notice != "" {
		parts = append(parts, bg.Render(truncate(m.notice, 60), styles.DangerText))
	}

	if !compact && m.apiBase != "" {
		parts = append(parts, bg.Render(truncate(m.apiBase, 40), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// breadcrumb describes the current screen, e.g. "Characters › page 2".
func (m Model) breadcrumb() string {
	label := m.screen.category.Label()
	switch m.screen.view {
	case ViewList:
		return fmt.Sprintf("%s › page %d", label, m.screen.page)
	case ViewFavorites:
		return "Favorite " + strings.ToLower(label)
	case ViewDetail:
		return fmt.Sprintf("%s › #%d", label, m.screen.id)
	default:
		return "Home"
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.filtering:
		commands = []cmd{
			{"enter", "Apply"},
			{"esc", "Clear"},
		}
	case m.err != nil && m.screen.view != ViewHome:
		commands = []cmd{
			{"r", "Retry"},
			{"esc", "Back"},
			{"?", "More"},
		}
	case m.screen.view == ViewList:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Open"},
			{"space", "Like"},
			{"n/p", "Page"},
			{"/", "Filter"},
			{"f", "Favorites"},
			{"esc", "Back"},
			{"?", "More"},
		}
	case m.screen.view == ViewFavorites:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Open"},
			{"space", "Like"},
			{"/", "Filter"},
			{"esc", "Back"},
			{"?", "More"},
		}
	case m.screen.view == ViewDetail:
		commands = []cmd{
			{"j/k", "Related"},
			{"enter", "Follow"},
			{"space", "Like"},
			{"pgup/pgdn", "Scroll"},
			{"esc", "Back"},
			{"?", "More"},
		}
	default: // ViewHome
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Open"},
			{"1/2/3", "Category"},
			{"f", "Favorites"},
			{"q", "Quit"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.filter != "" && !m.filtering {
		segments = append(segments, bg.Render("/"+truncate(m.filter, 18), styles.AccentText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderLoading shows the spinner while a fetch is in flight.
func (m Model) renderLoading() string {
	styles := m.theme.Styles()
	what := "Loading " + strings.ToLower(m.screen.category.Label())
	if m.screen.view == ViewDetail {
		what = fmt.Sprintf("Loading %s #%d", m.screen.category, m.screen.id)
	}
	return m.renderCentered(styles.AccentText.Render(m.spinner.View()) + " " + styles.MutedText.Render(what+"..."))
}

// renderError replaces the content with the fetch error.
func (m Model) renderError() string {
	styles := m.theme.Styles()
	return m.renderCentered(
		styles.DangerText.Render("Could not load "+m.subject()),
		styles.MutedText.Render(truncate(m.err.Error(), max(m.width-4, 20))),
		"",
		styles.FaintText.Render("r to retry · esc to go back"),
	)
}

func (m Model) subject() string {
	switch m.screen.view {
	case ViewDetail:
		return fmt.Sprintf("%s #%d", m.screen.category, m.screen.id)
	case ViewFavorites:
		return "favorite " + strings.ToLower(m.screen.category.Label())
	default:
		return fmt.Sprintf("%s page %d", strings.ToLower(m.screen.category.Label()), m.screen.page)
	}
}

// homeLabel is the menu text for a home entry.
func homeLabel(e homeEntry) string {
	if e.view == ViewFavorites {
		return "Favorite " + strings.ToLower(e.category.Label())
	}
	return e.category.Label()
}

// renderHome renders the home menu.
func (m Model) renderHome() string {
	bgColor := m.theme.FocusBg
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	width := min(m.width, 60)
	inner := width - 2

	var lines []string
	for i, e := range homeEntries() {
		if i == len(catalog.Categories()) {
			lines = append(lines, "")
		}
		label := homeLabel(e)
		var extra string
		if e.view == ViewFavorites {
			extra = heart(m.homeCounts[e.category] > 0) + " " + humanize.Comma(int64(m.homeCounts[e.category]))
		}
		row := padRight(" "+label, inner-len([]rune(extra))-1) + extra
		if i == m.screen.cursor {
			lines = append(lines, lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText)).
				Width(inner).
				Render(row))
			continue
		}
		lines = append(lines, bg.Render(row, styles.Text))
	}

	box := m.renderTitledBox("Browse", strings.Join(lines, "\n"), width, len(lines)+2, true)
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, box)
}
