package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/rickview/internal/browse"
	"github.com/five82/rickview/internal/catalog"
	"github.com/five82/rickview/internal/favorites"
	"github.com/five82/rickview/internal/prefs"
)

// View represents the current active view.
type View int

const (
	ViewHome View = iota
	ViewList
	ViewFavorites
	ViewDetail
)

// screen is one entry of the navigation stack.
type screen struct {
	view     View
	category catalog.Category
	page     int
	id       int
	cursor   int
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Browse    *browse.Service
	Category  catalog.Category // initially highlighted category
	Page      int              // > 0 opens the category list at this page
	ThemeName string
	PrefsPath string
	APIBase   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	browse    *browse.Service
	keys      keyMap
	prefsPath string
	apiBase   string
	now       func() time.Time

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool

	// Navigation
	screen  screen
	history []screen

	// Request state. Responses carrying an older seq are dropped.
	seq     int
	cancel  context.CancelFunc
	loading bool
	err     error
	notice  string
	initCmd tea.Cmd

	// Data state
	list       browse.ListResult
	favs       browse.FavoritesResult
	detail     browse.Detail
	homeCounts map[catalog.Category]int

	// Widgets
	spinner        spinner.Model
	pager          paginator.Model
	detailViewport viewport.Model
	filterInput    textinput.Model
	filtering      bool
	filter         string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = defaultThemeName
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	category := opts.Category
	if category == "" {
		category = catalog.CategoryCharacter
	}

	ti := textinput.New()
	ti.Placeholder = "Filter by name..."
	ti.Prompt = "/ "
	ti.CharLimit = 60

	pager := paginator.New()
	pager.Type = paginator.Arabic

	m := Model{
		ctx:         ctx,
		browse:      opts.Browse,
		keys:        DefaultKeyMap(),
		prefsPath:   prefsPath,
		apiBase:     opts.APIBase,
		now:         time.Now,
		theme:       GetTheme(themeName),
		screen:      screen{view: ViewHome, category: category, cursor: homeIndex(ViewList, category)},
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		pager:       pager,
		filterInput: ti,
	}
	m.refreshHome()

	if opts.Page > 0 {
		m.history = []screen{m.screen}
		m.screen = screen{view: ViewList, category: category, page: opts.Page}
		m.initCmd = m.load()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(m.detailWidth(), m.boxHeight())
		}
		m.ready = true
		m.detailViewport.Width = m.detailWidth()
		m.detailViewport.Height = m.boxHeight()
		m.updateDetailViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.list = msg.result
		m.pager.SetTotalPages(max(msg.result.Page.Info.Pages, 1))
		m.pager.Page = m.screen.page - 1
		m.clampCursor()
		return m, nil

	case favoritesLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.favs = msg.result
		m.clampCursor()
		return m, nil

	case detailLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.detail = msg.detail
		m.clampCursor()
		m.updateDetailViewport()
		m.detailViewport.GotoTop()
		m.ensureRelatedVisible()
		return m, nil
	}

	if m.filtering {
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.filtering {
		return m.handleFilterInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.Characters):
		return m.openCategory(ViewList, catalog.CategoryCharacter)
	case key.Matches(msg, m.keys.Locations):
		return m.openCategory(ViewList, catalog.CategoryLocation)
	case key.Matches(msg, m.keys.Episodes):
		return m.openCategory(ViewList, catalog.CategoryEpisode)
	case key.Matches(msg, m.keys.Favorites):
		return m.openCategory(ViewFavorites, m.screen.category)

	case key.Matches(msg, m.keys.Back):
		if m.filter != "" && (m.screen.view == ViewList || m.screen.view == ViewFavorites) {
			m.clearFilter()
			return m, nil
		}
		return m.back()

	case key.Matches(msg, m.keys.Reload):
		if m.screen.view == ViewHome {
			m.refreshHome()
			return m, nil
		}
		return m, m.load()
	}

	switch m.screen.view {
	case ViewHome:
		return m.handleHomeKey(msg)
	case ViewList, ViewFavorites:
		return m.handleListKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

// handleFilterInput handles keyboard input while the filter box has focus.
// The filter applies as the user types.
func (m Model) handleFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.filtering = false
		m.filterInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.clearFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filter = m.filterInput.Value()
	m.screen.cursor = 0
	return m, cmd
}

func (m *Model) clearFilter() {
	m.filtering = false
	m.filterInput.Blur()
	m.filterInput.SetValue("")
	m.filter = ""
	m.screen.cursor = 0
}

// navigate pushes the current screen and loads next.
func (m Model) navigate(next screen) (tea.Model, tea.Cmd) {
	m.history = append(m.history, m.screen)
	m.screen = next
	m.clearFilter()
	return m, m.load()
}

// openCategory jumps to a category list or favorites view. The stack is
// reset to home so esc always leads back there.
func (m Model) openCategory(view View, category catalog.Category) (tea.Model, tea.Cmd) {
	home := screen{view: ViewHome, category: category, cursor: homeIndex(view, category)}
	m.history = []screen{home}
	m.screen = screen{view: view, category: category, page: 1}
	m.clearFilter()
	m.savePrefs()
	return m, m.load()
}

// back pops the navigation stack and refetches the restored screen.
func (m Model) back() (tea.Model, tea.Cmd) {
	if len(m.history) == 0 {
		return m, nil
	}
	m.screen = m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	m.clearFilter()
	if m.screen.view == ViewHome {
		m.cancelPending()
		m.refreshHome()
		return m, nil
	}
	return m, m.load()
}

func (m *Model) cancelPending() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.seq++
	m.loading = false
	m.err = nil
}

// load starts the fetch for the current screen. Any in-flight fetch is
// cancelled and its response will be ignored.
func (m *Model) load() tea.Cmd {
	m.cancelPending()
	m.notice = ""
	if m.browse == nil || m.screen.view == ViewHome {
		return nil
	}

	seq := m.seq
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.loading = true

	svc := m.browse
	scr := m.screen
	var fetch tea.Cmd
	switch scr.view {
	case ViewList:
		fetch = func() tea.Msg {
			res, err := svc.LoadList(ctx, scr.category, scr.page)
			return listLoadedMsg{seq: seq, result: res, err: err}
		}
	case ViewFavorites:
		fetch = func() tea.Msg {
			res, err := svc.LoadFavorites(ctx, scr.category)
			return favoritesLoadedMsg{seq: seq, result: res, err: err}
		}
	case ViewDetail:
		fetch = func() tea.Msg {
			d, err := svc.LoadDetail(ctx, scr.category, scr.id)
			return detailLoadedMsg{seq: seq, detail: d, err: err}
		}
	}
	return tea.Batch(fetch, m.spinner.Tick)
}

// fail records a fetch error as the view state.
func (m *Model) fail(err error) {
	m.err = err
	slog.Warn("Fetch failed", "view", m.screen.view, "category", m.screen.category, "error", err)
}

// toggle flips the favorite flag and adopts the returned map.
func (m *Model) toggle(category catalog.Category, id int, visible []int) favorites.Map {
	fav, err := m.browse.Toggle(category, id, visible)
	if err != nil {
		m.notice = fmt.Sprintf("Favorite not saved: %v", err)
	} else {
		m.notice = ""
	}
	return fav
}

// refreshHome recounts favorites per category for the home view.
func (m *Model) refreshHome() {
	m.homeCounts = make(map[catalog.Category]int)
	if m.browse == nil {
		return
	}
	for _, c := range catalog.Categories() {
		liked := favorites.CollectFavoriteIDs(m.browse.Favorites(c))
		m.homeCounts[c] = liked.Size()
	}
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, LastCategory: string(m.screen.category)}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		slog.Warn("Failed to save preferences", "path", m.prefsPath, "error", err)
	}
}

// Messages

type listLoadedMsg struct {
	seq    int
	result browse.ListResult
	err    error
}

type favoritesLoadedMsg struct {
	seq    int
	result browse.FavoritesResult
	err    error
}

type detailLoadedMsg struct {
	seq    int
	detail browse.Detail
	err    error
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
