package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/rickview/internal/browse"
	"github.com/five82/rickview/internal/catalog"
)

// homeEntry is one row of the home menu.
type homeEntry struct {
	view     View
	category catalog.Category
}

// homeEntries lists every category, then every favorites view.
func homeEntries() []homeEntry {
	var entries []homeEntry
	for _, c := range catalog.Categories() {
		entries = append(entries, homeEntry{view: ViewList, category: c})
	}
	for _, c := range catalog.Categories() {
		entries = append(entries, homeEntry{view: ViewFavorites, category: c})
	}
	return entries
}

func homeIndex(view View, category catalog.Category) int {
	for i, e := range homeEntries() {
		if e.view == view && e.category == category {
			return i
		}
	}
	return 0
}

// handleHomeKey processes keyboard input for the home menu.
func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := homeEntries()
	if m.moveCursor(msg, len(entries)) {
		m.screen.category = entries[m.screen.cursor].category
		return m, nil
	}
	if key.Matches(msg, m.keys.Open) {
		e := entries[m.screen.cursor]
		return m.openCategory(e.view, e.category)
	}
	return m, nil
}

// handleListKey processes keyboard input for category and favorites lists.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filterInput.SetValue(m.filter)
		return m, m.filterInput.Focus()

	case key.Matches(msg, m.keys.NextPage):
		if m.screen.view != ViewList || m.loading || !m.list.Page.Info.HasNext() {
			return m, nil
		}
		m.screen.page++
		m.screen.cursor = 0
		return m, m.load()

	case key.Matches(msg, m.keys.PrevPage):
		if m.screen.view != ViewList || m.loading || m.screen.page <= 1 {
			return m, nil
		}
		m.screen.page--
		m.screen.cursor = 0
		return m, m.load()
	}

	if m.loading || m.err != nil {
		return m, nil
	}
	records := m.visibleRecords()
	if m.moveCursor(msg, len(records)) || len(records) == 0 {
		return m, nil
	}
	rec := records[m.screen.cursor]

	switch {
	case key.Matches(msg, m.keys.Open):
		return m.navigate(screen{view: ViewDetail, category: rec.Category(), id: rec.EntityID()})

	case key.Matches(msg, m.keys.ToggleLike):
		if m.screen.view == ViewList {
			m.list.Favorites = m.toggle(rec.Category(), rec.EntityID(), m.list.Page.IDs())
		} else {
			m.favs.Favorites = m.toggle(rec.Category(), rec.EntityID(), recordIDs(m.favs.Records))
		}
	}
	return m, nil
}

// handleDetailKey processes keyboard input for the detail view. The cursor
// selects a related entity.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loading || m.err != nil || m.detail.Record == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.PageDown):
		m.detailViewport.HalfPageDown()
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.detailViewport.HalfPageUp()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLike):
		rec := m.detail.Record
		fav := m.toggle(rec.Category(), rec.EntityID(), nil)
		m.detail.Liked = fav[rec.EntityID()]
		m.updateDetailViewport()
		return m, nil
	}

	related := m.detail.Related
	if m.moveCursor(msg, len(related)) {
		m.updateDetailViewport()
		m.ensureRelatedVisible()
		return m, nil
	}
	if key.Matches(msg, m.keys.Open) && len(related) > 0 {
		ref := related[m.screen.cursor].Ref
		return m.navigate(screen{view: ViewDetail, category: ref.Category, id: ref.ID})
	}
	return m, nil
}

// moveCursor applies up/down/top/bottom to the current screen's cursor and
// reports whether msg was a movement key.
func (m *Model) moveCursor(msg tea.KeyMsg, count int) bool {
	if count == 0 {
		return false
	}
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.screen.cursor < count-1 {
			m.screen.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.screen.cursor > 0 {
			m.screen.cursor--
		}
	case key.Matches(msg, m.keys.Top):
		m.screen.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.screen.cursor = count - 1
	default:
		return false
	}
	return true
}

// clampCursor keeps the cursor inside the current data after a reload.
func (m *Model) clampCursor() {
	var count int
	switch m.screen.view {
	case ViewHome:
		count = len(homeEntries())
	case ViewList, ViewFavorites:
		count = len(m.visibleRecords())
	case ViewDetail:
		count = len(m.detail.Related)
	}
	m.screen.cursor = max(0, min(m.screen.cursor, count-1))
}

// visibleRecords returns the current list after the name filter.
func (m Model) visibleRecords() []catalog.Record {
	switch m.screen.view {
	case ViewList:
		return browse.Filter(m.list.Page.Records, m.filter)
	case ViewFavorites:
		return browse.Filter(m.favs.Records, m.filter)
	}
	return nil
}

func recordIDs(records []catalog.Record) []int {
	ids := make([]int, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.EntityID())
	}
	return ids
}
