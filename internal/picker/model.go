package picker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/runger/omnibar/internal/catalog"
	"github.com/runger/omnibar/internal/config"
	omnilog "github.com/runger/omnibar/internal/log"
	"github.com/runger/omnibar/internal/session"
)

// pickerState represents the current state of the picker's state machine.
type pickerState int

const (
	stateIdle      pickerState = iota // Initial state before the snapshot is requested
	stateLoading                      // Snapshot load in progress
	stateLoaded                       // Last search produced hits
	stateEmpty                        // Last search produced no hits
	stateError                        // Snapshot load failed
	stateCancelled                    // User cancelled (Esc / Ctrl+C)
)

// snapshotMsg is sent when the Loader returns.
type snapshotMsg struct {
	snap *catalog.Snapshot
	took time.Duration
	err  error
}

// searchDoneMsg carries the evaluated results of one query.
type searchDoneMsg struct {
	requestID uint64
	results   catalog.Results
	notice    string
}

// debounceMsg fires after the debounce timer expires.
type debounceMsg struct {
	id uint64 // Must match current debounceID to be accepted
}

// initMsg is sent by Init() to trigger the snapshot load via Update(),
// ensuring state mutations are visible to the Bubble Tea runtime.
type initMsg struct{}

// Options configures a picker.
type Options struct {
	Tabs     []config.TabDef
	Search   session.Options
	Debounce time.Duration
	Logger   *slog.Logger
}

// OptionsFromConfig derives picker options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Tabs: cfg.Picker.Tabs,
		Search: session.Options{
			MinQueryLen:    cfg.Search.MinQueryLen,
			MaxPerCategory: cfg.Search.MaxPerCategory,
			EmptyQueryTabs: cfg.Search.EmptyQueryTabs,
		},
		Debounce: time.Duration(cfg.Picker.DebounceMs) * time.Millisecond,
	}
}

// Model is the Bubble Tea model for the quick-switcher overlay.
// It must be exported so that cmd/omnibar-picker can use it.
type Model struct {
	state     pickerState
	opts      Options
	activeTab int
	input     textinput.Model
	sess      session.State
	err       error

	loader    Loader
	requestID uint64 // Monotonic counter for stale detection

	// cancelLoad cancels the in-flight Loader.Load context.
	cancelLoad context.CancelFunc

	// debounceID tracks the latest debounce timer; only a matching
	// debounceMsg will trigger a search.
	debounceID uint64

	width  int // Terminal width
	height int // Terminal height

	keys keyMap
	help help.Model

	// result holds the selected item after the user presses Enter.
	result   catalog.Item
	selected bool
}

// NewModel creates a new picker Model.
func NewModel(opts Options, loader Loader) Model {
	if len(opts.Tabs) == 0 {
		opts.Tabs = config.DefaultConfig().Picker.Tabs
	}
	if opts.Logger == nil {
		opts.Logger = omnilog.Discard()
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Search tabs, bookmarks, history..."
	ti.Focus()

	return Model{
		state:  stateIdle,
		opts:   opts,
		input:  ti,
		sess:   session.New(),
		loader: loader,
		keys:   newKeyMap(),
		help:   help.New(),
	}
}

// WithQuery returns a copy of m with the query line prefilled. The query is
// searched as soon as the snapshot arrives.
func (m Model) WithQuery(q string) Model {
	m.input.SetValue(q)
	m.input.CursorEnd()
	return m
}

// IsCancelled reports whether the user dismissed the picker.
func (m Model) IsCancelled() bool {
	return m.state == stateCancelled
}

// Result returns the item the user chose. ok is false if the picker was
// cancelled or closed without a selection.
func (m Model) Result() (item catalog.Item, ok bool) {
	return m.result, m.selected
}

// SessionID identifies this overlay session in logs.
func (m Model) SessionID() string {
	return m.sess.ID
}

// Init implements tea.Model. It sends an initMsg so that the snapshot load
// is triggered through Update, where state mutations are properly captured.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return initMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - len(m.input.Prompt) - 1
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		return m.handleSnapshot(msg)

	case searchDoneMsg:
		return m.handleSearchDone(msg)

	case debounceMsg:
		return m.handleDebounce(msg)

	case initMsg:
		omnilog.LogSessionOpened(m.opts.Logger, m.sess.ID)
		return m, m.startLoad()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.state = stateCancelled
		m.cancelInflight()
		m.close("cancelled")
		return m, tea.Quit

	case key.Matches(msg, m.keys.Enter):
		item, ok := session.Selection(m.sess)
		if !ok {
			return m, nil
		}
		m.result, m.selected = item, true
		m.cancelInflight()
		m.close("selected")
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.sess = session.Up(m.sess)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.sess = session.Down(m.sess)
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if len(m.opts.Tabs) > 1 {
			m.activeTab = (m.activeTab + 1) % len(m.opts.Tabs)
			return m, m.startSearch()
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	if strings.TrimSpace(m.input.Value()) == "" {
		// Clearing the query shows the default list right away.
		m.debounceID++
		return m, tea.Batch(cmd, m.startSearch())
	}
	return m, tea.Batch(cmd, m.startDebounce())
}

// handleSnapshot attaches the loaded snapshot and runs the first search.
func (m Model) handleSnapshot(msg snapshotMsg) (tea.Model, tea.Cmd) {
	m.cancelLoad = nil
	if msg.err != nil {
		m.state = stateError
		m.err = msg.err
		return m, nil
	}
	m.sess = session.Attach(m.sess, msg.snap)
	m.opts.Logger.Debug("snapshot attached",
		"session_id", m.sess.ID,
		"items", msg.snap.Len(),
		"took_ms", msg.took.Milliseconds(),
	)
	return m, m.startSearch()
}

// handleSearchDone installs the results of the latest search.
func (m Model) handleSearchDone(msg searchDoneMsg) (tea.Model, tea.Cmd) {
	// Discard stale responses.
	if msg.requestID != m.requestID {
		return m, nil
	}

	m.sess = session.Apply(m.sess, msg.results, msg.notice)
	if len(m.sess.Hits) == 0 {
		m.state = stateEmpty
	} else {
		m.state = stateLoaded
	}
	return m, nil
}

// handleDebounce fires the search if the debounce timer is still current.
func (m Model) handleDebounce(msg debounceMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.debounceID {
		return m, nil // Stale debounce timer; ignore.
	}
	return m, m.startSearch()
}

// startDebounce increments the debounce counter and returns a tea.Tick
// command that fires after the configured delay.
func (m *Model) startDebounce() tea.Cmd {
	m.debounceID++
	id := m.debounceID
	d := m.opts.Debounce
	if d <= 0 {
		return func() tea.Msg { return debounceMsg{id: id} }
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return debounceMsg{id: id}
	})
}

// startLoad requests the session snapshot from the loader.
func (m *Model) startLoad() tea.Cmd {
	m.cancelInflight()
	m.state = stateLoading

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelLoad = cancel

	loader := m.loader
	return func() tea.Msg {
		if loader == nil {
			return snapshotMsg{snap: catalog.NewSnapshot(nil, nil, nil)}
		}
		start := time.Now()
		snap, err := loader.Load(ctx)
		if err == nil && snap == nil {
			snap = catalog.NewSnapshot(nil, nil, nil)
		}
		return snapshotMsg{snap: snap, took: time.Since(start), err: err}
	}
}

// startSearch increments requestID and returns a tea.Cmd that evaluates the
// current query against the snapshot. Before the snapshot arrives it does
// nothing; the snapshot handler searches with whatever was typed meanwhile.
func (m *Model) startSearch() tea.Cmd {
	if m.sess.Snapshot == nil {
		return nil
	}
	m.requestID++

	reqID := m.requestID
	snap := m.sess.Snapshot
	query := strings.TrimSpace(m.input.Value())
	opts := m.searchOptions()

	return func() tea.Msg {
		results, notice := session.Evaluate(snap, query, opts)
		return searchDoneMsg{requestID: reqID, results: results, notice: notice}
	}
}

// searchOptions returns the session options restricted to the active tab.
func (m Model) searchOptions() session.Options {
	opts := m.opts.Search
	opts.Categories = nil
	for _, c := range m.currentTab().Categories {
		if cat, err := catalog.ParseCategory(c); err == nil {
			opts.Categories = append(opts.Categories, cat)
		}
	}
	return opts
}

// cancelInflight cancels any in-progress snapshot load.
func (m *Model) cancelInflight() {
	if m.cancelLoad != nil {
		m.cancelLoad()
		m.cancelLoad = nil
	}
}

// close ends the session and logs how it ended.
func (m *Model) close(outcome string) {
	omnilog.LogSessionClosed(m.opts.Logger, m.sess.ID, outcome)
	m.sess = session.Close(m.sess)
}

// currentTab returns the active TabDef.
func (m Model) currentTab() config.TabDef {
	if m.activeTab >= 0 && m.activeTab < len(m.opts.Tabs) {
		return m.opts.Tabs[m.activeTab]
	}
	return config.TabDef{ID: "all", Label: "All"}
}

// listHeight returns the number of visible list rows.
func (m Model) listHeight() int {
	// tab bar, query line, help line
	const chrome = 3
	h := m.height - chrome
	if h < 1 {
		h = 20 // Sensible default before first WindowSizeMsg
	}
	return h
}

// --- View rendering ---

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	selectedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	urlStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	matchStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewTabBar())
	b.WriteRune('\n')

	b.WriteString(m.input.View())
	b.WriteRune('\n')

	b.WriteString(m.viewContent())
	b.WriteRune('\n')

	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// viewTabBar renders the tab bar.
func (m Model) viewTabBar() string {
	var parts []string
	for i, tab := range m.opts.Tabs {
		label := " " + tab.Label + " "
		if i == m.activeTab {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

// viewContent renders the result list or a status message.
func (m Model) viewContent() string {
	switch m.state {
	case stateIdle, stateLoading:
		return dimStyle.Render("Loading tabs, bookmarks and history...")

	case stateEmpty:
		if m.sess.Notice != "" {
			return dimStyle.Render(m.sess.Notice)
		}
		return dimStyle.Render("No results found")

	case stateError:
		msg := "Error"
		if m.err != nil {
			msg = fmt.Sprintf("Error: %s", m.err)
		}
		return errorStyle.Render(msg)

	case stateCancelled:
		return dimStyle.Render("Cancelled")

	case stateLoaded:
		return m.viewList()

	default:
		return ""
	}
}

// viewList renders the hits grouped by category with a selection marker.
// Only non-empty groups get a heading. When the list is taller than the
// terminal, the visible window scrolls to keep the selected row on screen.
func (m Model) viewList() string {
	var lines []string
	index, selectedLine := 0, -1
	for _, c := range catalog.Categories {
		hits := m.sess.Results.For(c)
		if len(hits) == 0 {
			continue
		}
		lines = append(lines, headerStyle.Render(c.Label()))
		for _, h := range hits {
			if index == m.sess.Selected {
				selectedLine = len(lines)
			}
			lines = append(lines, m.viewRow(h.Item, index == m.sess.Selected))
			index++
		}
	}

	limit := m.listHeight()
	if len(lines) <= limit {
		return strings.Join(lines, "\n")
	}
	start := 0
	if selectedLine >= limit {
		start = selectedLine - limit + 1
	}
	return strings.Join(lines[start:start+limit], "\n")
}

// viewRow renders one hit: title then URL, truncated to the terminal width.
func (m Model) viewRow(it catalog.Item, selected bool) string {
	title := Clean(it.DisplayTitle())
	url := ShortURL(Clean(it.URL))
	if title == Clean(it.URL) {
		title, url = url, ""
	}

	if m.width > 4 {
		avail := m.width - 4
		titleWidth := avail
		if url != "" {
			titleWidth = avail * 3 / 5
		}
		title = TruncateEnd(title, titleWidth)
		if url != "" {
			url = TruncateMiddle(url, avail-lipgloss.Width(title)-2)
		}
	}

	base := normalStyle
	marker := "  "
	if selected {
		base = selectedStyle
		marker = "> "
	}

	query := m.sess.Query
	row := base.Render(marker) + highlight(title, query, base, matchStyle)
	if url != "" {
		row += "  " + highlight(url, query, urlStyle, matchStyle)
	}
	return row
}
