// Package tui wires the preflight/cache/resolver core into a Bubble
// Tea program: the root Elm-architecture Model, its message types, and
// the pane rendering loop. Terminal theming and widget polish are
// explicitly out of the core's scope; this package renders enough to
// drive the state machines in internal/router, internal/preflight, and
// internal/coordinator end to end. Grounded in the teacher's
// `pkg/app/events.go` (message types) and `pkg/app/placeholder.go`
// (the Widget rendering shape: title + dimensions, styled via
// lipgloss), since the teacher's own root Update/View loop was itself
// mid-migration and absent from the copied tree.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Firstp1ck/Pacsea-sub003/internal/catalog"
	"github.com/Firstp1ck/Pacsea-sub003/internal/config"
	"github.com/Firstp1ck/Pacsea-sub003/internal/coordinator"
	"github.com/Firstp1ck/Pacsea-sub003/internal/details"
	"github.com/Firstp1ck/Pacsea-sub003/internal/model"
	"github.com/Firstp1ck/Pacsea-sub003/internal/netcache"
	"github.com/Firstp1ck/Pacsea-sub003/internal/pacman"
	"github.com/Firstp1ck/Pacsea-sub003/internal/preflight"
	"github.com/Firstp1ck/Pacsea-sub003/internal/resolver"
	"github.com/Firstp1ck/Pacsea-sub003/internal/router"
	"github.com/Firstp1ck/Pacsea-sub003/internal/search"
)

// preflightTabOrder is the cycle order for the Preflight modal's tabs,
// walked by the modal handler's tab-forward/backward chords.
var preflightTabOrder = []model.Tab{
	model.TabSummary, model.TabDeps, model.TabFiles, model.TabServices, model.TabSandbox,
}

// TickEvent drives the periodic catalog refresh. No cache flushing
// happens on the tick.
type TickEvent struct{ Time time.Time }

// SearchResultsMsg carries the ranked candidates for the current
// query back into the event loop.
type SearchResultsMsg struct {
	Query   string
	Results []model.Package
}

// ResolverResultMsg carries a completed dependency resolution,
// tagged with the install-list signature it was computed from (spec
// §5 "results with a signature that no longer matches ... are
// discarded").
type ResolverResultMsg struct {
	Signature []string
	Deps      []model.DependencyInfo
}

// Model is the root Bubble Tea model tying the core packages together.
type Model struct {
	cfg    *config.Config
	logger *slog.Logger

	client  *pacman.Client
	catalog *catalog.Catalog
	resolve *resolver.Resolver
	coord   *coordinator.Coordinator
	enrich  *details.Enricher

	focus *router.FocusMachine
	input *router.SearchInput
	find  router.FindMode

	installList   model.PackageList
	recent        []string
	resultsCursor int

	searchQuery   string
	searchResults []model.Package
	resultsView   viewport.Model

	modal *model.Modal

	width, height int
	quitting      bool
}

// New builds a Model with all core collaborators wired from cfg.
func New(cfg *config.Config, logger *slog.Logger) *Model {
	client := pacman.NewClient()
	cat := catalog.New(client, logger)

	cacheStore, err := netcache.NewStore(netcache.StoreConfig{Dir: filepath.Join(cfg.General.CacheDir, "netcache")})
	if err != nil {
		logger.Warn("failed to open AUR response cache in the configured cache dir, falling back to a temp dir", "error", err)
		cacheStore, _ = netcache.NewStore(netcache.StoreConfig{Dir: filepath.Join(os.TempDir(), "pacsea-netcache")})
	}

	m := &Model{
		cfg:         cfg,
		logger:      logger,
		client:      client,
		catalog:     cat,
		resolve:     resolver.New(client, logger),
		coord:       coordinator.New(logger, cfg.Preflight.DetailDebounce.Duration),
		focus:       router.NewFocusMachine(),
		input:       router.NewSearchInput(),
		modal:       &model.Modal{Kind: model.ModalNone},
		resultsView: viewport.New(0, 0),
	}
	m.enrich = details.New(&details.PacmanFetcher{Client: client, Cache: cacheStore}, model.NewDetailsCache(), logger, func(string) {})
	return m
}

// Init kicks off the first catalog refresh and starts the tick loop.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.refreshCatalogCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickEvent{Time: t}
	})
}

func (m *Model) refreshCatalogCmd() tea.Cmd {
	return func() tea.Msg {
		m.catalog.Refresh(context.Background())
		return nil
	}
}

// Update implements the Elm-architecture dispatch loop: it handles
// input and background messages, after which Bubble Tea redraws. It
// applies no persistence flushers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resultsView.Width = msg.Width / 3
		m.resultsView.Height = msg.Height - 4
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickEvent:
		return m, tea.Batch(tickCmd(), m.refreshCatalogCmd())

	case SearchResultsMsg:
		if msg.Query == m.searchQuery {
			m.searchResults = msg.Results
			m.resultsCursor = 0
			m.resultsView.SetContent(joinNames(packageNames(msg.Results)))
		}
		return m, nil

	case ResolverResultMsg:
		if m.modal.Kind == model.ModalPreflight && m.modal.Preflight != nil &&
			model.SignatureEqual(msg.Signature, model.Signature(packageNames(m.modal.Preflight.Items))) {
			m.coord.SetResolving(coordinator.KindDeps, false)
			p := m.modal.Preflight
			if p.Action == model.ActionRemove {
				preflight.SyncDepsRemove(p, msg.Deps)
			} else {
				preflight.SyncDepsInstall(p, msg.Deps)
			}
		}
		return m, nil
	}
	return m, nil
}

// handleKey applies the modal-stack-consumes-event rule (spec §4.8):
// Ctrl+C always quits; otherwise the active Preflight modal, if any,
// gets first refusal via router.Dispatch before the pane handler sees
// the event.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	var modalHandler router.ModalHandler
	if m.modal.Kind == model.ModalPreflight && m.modal.Preflight != nil {
		modalHandler = preflightModalHandler{m}
	}
	cmd := router.Dispatch(modalHandler, paneHandler{m}, msg)
	return m, cmd
}

// preflightModalHandler adapts Model's Preflight key handling to
// router.ModalHandler.
type preflightModalHandler struct{ m *Model }

func (h preflightModalHandler) HandleKey(msg tea.KeyMsg) bool {
	return h.m.handlePreflightKey(msg)
}

// handlePreflightKey implements the Preflight modal's tab switching,
// selection-cursor movement, optdepend/cascade toggling, confirm, and
// cancel chords (spec §4.7). It returns true for every key while the
// modal is open, consuming the event per the modal-stack rule: even an
// unrecognised key inside the modal must not leak through to pane
// focus cycling underneath it.
func (m *Model) handlePreflightKey(msg tea.KeyMsg) bool {
	p := m.modal.Preflight
	switch msg.String() {
	case "esc":
		m.coord.CancelJob(coordinator.KindDeps)
		m.modal = &model.Modal{Kind: model.ModalNone}
	case "tab", "right", "l":
		m.switchPreflightTab(p, 1)
	case "shift+tab", "left", "h":
		m.switchPreflightTab(p, -1)
	case "down", "j":
		m.movePreflightCursor(p, 1)
	case "up", "k":
		m.movePreflightCursor(p, -1)
	case "c":
		if p.Action == model.ActionRemove {
			if p.CascadeMode == model.CascadeCascade {
				p.CascadeMode = model.CascadeBasic
			} else {
				p.CascadeMode = model.CascadeCascade
			}
		}
	case "o", " ":
		m.toggleSelectedOptdepend(p)
	case "enter":
		m.confirmPreflight(p)
	}
	return true
}

func (m *Model) switchPreflightTab(p *model.PreflightState, dir int) {
	idx := 0
	for i, t := range preflightTabOrder {
		if t == p.Tab {
			idx = i
			break
		}
	}
	next := preflightTabOrder[(idx+dir+len(preflightTabOrder))%len(preflightTabOrder)]
	preflight.SyncTab(p, next, p.DependencyInfo, p.FileInfo, p.ServiceInfo, p.SandboxInfo)
}

func (m *Model) movePreflightCursor(p *model.PreflightState, dir int) {
	switch p.Tab {
	case model.TabDeps:
		p.DepSelected = clamp(p.DepSelected+dir, len(p.DependencyInfo))
	case model.TabFiles:
		p.FileSelected = clamp(p.FileSelected+dir, len(p.FileInfo))
	case model.TabServices:
		p.ServiceSelected = clamp(p.ServiceSelected+dir, len(p.ServiceInfo))
	case model.TabSandbox:
		p.SandboxSelected = clamp(p.SandboxSelected+dir, len(p.SandboxInfo))
	}
}

func clamp(v, length int) int {
	if length == 0 {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > length-1 {
		return length - 1
	}
	return v
}

// toggleSelectedOptdepend toggles the first optdepend of the currently
// selected Sandbox-tab entry, exercising the §3.11 selected_optdepends
// contract from a real keypress.
func (m *Model) toggleSelectedOptdepend(p *model.PreflightState) {
	if p.Tab != model.TabSandbox || p.SandboxSelected >= len(p.SandboxInfo) {
		return
	}
	entry := p.SandboxInfo[p.SandboxSelected]
	if len(entry.OptDepends) == 0 {
		return
	}
	optdep := entry.OptDepends[0].Name
	if p.SelectedOptdepends.IsSelected(entry.PackageName, optdep) {
		p.SelectedOptdepends.Deselect(entry.PackageName, optdep)
	} else {
		p.SelectedOptdepends.Select(entry.PackageName, optdep)
	}
}

// confirmPreflight builds the action descriptor and hands it to the
// external spawner (spec §4.7 "Preflight execution"). Pacsea's core
// never runs pacman/paru/yay itself (spec Non-goals); emitting the
// descriptor via the logger stands in for the external spawner
// invocation this layer delegates to.
func (m *Model) confirmPreflight(p *model.PreflightState) {
	desc := preflight.BuildActionDescriptor(p)
	m.logger.Info("preflight confirmed, handing action to external spawner",
		"action", desc.Action, "targets", desc.Targets, "cascade", desc.Cascade)
	m.modal = &model.Modal{Kind: model.ModalNone}
}

// paneHandler adapts Model's non-modal key handling to router.PaneHandler.
type paneHandler struct{ m *Model }

func (h paneHandler) HandleKey(msg tea.KeyMsg) tea.Cmd {
	return h.m.handlePaneKey(msg)
}

func (m *Model) handlePaneKey(msg tea.KeyMsg) tea.Cmd {
	if m.find.Active {
		return m.handleFindKey(msg)
	}

	switch msg.String() {
	case m.cfg.Keybinds.CycleForward:
		m.focus.CycleForward()
		return nil
	case m.cfg.Keybinds.CycleBackward:
		m.focus.CycleBackward()
		return nil
	case "enter":
		if m.focus.Current == router.FocusInstall {
			return m.handleInstallEnter()
		}
	case "delete":
		if m.focus.Current == router.FocusInstall {
			m.deleteFocusedInstallEntry()
		}
		return nil
	case "/":
		m.find.Start()
		return nil
	}

	if m.focus.Current == router.FocusSearch {
		return m.handleSearchKey(msg)
	}
	return nil
}

// handleInstallEnter implements S3 and, on opening the modal, kicks
// off the dependency-resolution job the Deps tab is seeded from (spec
// §4.9).
func (m *Model) handleInstallEnter() tea.Cmd {
	res := router.HandleInstallEnter(&m.installList, m.cfg.Preflight.SkipPreflight)
	if !res.OpenPreflight {
		return nil
	}
	m.modal = &model.Modal{Kind: model.ModalPreflight, Preflight: res.Preflight}
	return m.startDepsResolveCmd(res.Preflight)
}

// startDepsResolveCmd runs the install- or remove-direction resolver
// for p.Items as a background command (spec §4.5/§4.6/§4.9), tagging
// the result with the install-list signature it was computed from so a
// stale result can be discarded if the list changes before it returns.
func (m *Model) startDepsResolveCmd(p *model.PreflightState) tea.Cmd {
	sig := model.Signature(packageNames(p.Items))
	ctx := m.coord.StartJob(context.Background(), coordinator.KindDeps)
	m.coord.SetResolving(coordinator.KindDeps, true)
	items := append([]model.Package(nil), p.Items...)
	action := p.Action
	cascade := p.CascadeMode

	return func() tea.Msg {
		var deps []model.DependencyInfo
		if action == model.ActionRemove {
			_, deps = m.resolve.ResolveRemove(ctx, items, cascade)
		} else {
			deps = m.resolve.ResolveInstall(ctx, items)
		}
		return ResolverResultMsg{Signature: sig, Deps: deps}
	}
}

// deleteFocusedInstallEntry implements the Delete chord (spec §4.8
// deletion semantics): it removes the install list's focused entry and,
// since the install list changed, invalidates the coordinator's
// signature-keyed resolver jobs so any in-flight resolution for the old
// list is abandoned.
func (m *Model) deleteFocusedInstallEntry() {
	router.DeleteFromList(&m.installList, m.installList.Cursor, true, func() {
		m.coord.OnInstallListChanged(func(k coordinator.Kind) {
			m.logger.Debug("install list changed, resolver cache invalidated", "kind", k)
		})
	})
}

// handleFindKey drives the in-pane "/" find mode over the current
// Search-results list (spec §4.8 in-pane find).
func (m *Model) handleFindKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.find.Cancel()
	case "enter":
		if idx := m.find.NextMatch(packageNames(m.searchResults), m.resultsCursor); idx >= 0 {
			m.resultsCursor = idx
		}
	case "backspace":
		m.find.Backspace()
	default:
		if msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				m.find.Type(r)
			}
		}
	}
	return nil
}

// handleSearchKey drives the Search pane's insert/normal sub-modes
// (spec §4.8 "Search normal mode", §8 E5): the configured ToggleNormal
// chord enters normal mode from insert; "i" returns to insert from
// normal, vim-style. In normal mode the configured SelectLeft/
// SelectRight chords extend a selection anchored at the caret, and
// "d"/"x" deletes the selected range.
func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	if m.input.Mode == router.SearchInsert {
		if key == m.cfg.Keybinds.ToggleNormal {
			m.input.EnterNormalMode()
			return nil
		}
		if key == "backspace" {
			m.backspaceSearchInput()
			return m.searchCmd()
		}
		if msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				m.input.Type(r)
			}
			return m.searchCmd()
		}
		return nil
	}

	switch {
	case key == "i":
		m.input.EnterInsertMode()
	case key == "h" || key == "left":
		m.input.MoveCaretTo(m.input.Caret - 1)
	case key == "l" || key == "right":
		m.input.MoveCaretTo(m.input.Caret + 1)
	case key == m.cfg.Keybinds.SelectLeft:
		if !m.input.HasSelection() {
			m.input.SetAnchor()
		}
		m.input.MoveCaretTo(m.input.Caret - 1)
	case key == m.cfg.Keybinds.SelectRight:
		if !m.input.HasSelection() {
			m.input.SetAnchor()
		}
		m.input.MoveCaretTo(m.input.Caret + 1)
	case key == "d" || key == "x":
		m.input.Delete()
		return m.searchCmd()
	case key == "j" || key == "down":
		if m.resultsCursor < len(m.searchResults)-1 {
			m.resultsCursor++
		}
	case key == "k" || key == "up":
		if m.resultsCursor > 0 {
			m.resultsCursor--
		}
	}
	return nil
}

// backspaceSearchInput removes the rune before the caret in insert
// mode, where there is no active selection for Delete to act on.
func (m *Model) backspaceSearchInput() {
	if m.input.Caret == 0 {
		return
	}
	buf := m.input.Buffer
	caret := m.input.Caret
	m.input.Buffer = append(append([]rune(nil), buf[:caret-1]...), buf[caret:]...)
	m.input.MoveCaretTo(caret - 1)
}

func (m *Model) searchCmd() tea.Cmd {
	query := m.input.Text()
	m.searchQuery = query
	return func() tea.Msg {
		ranked := search.Rank(query, m.catalog.AllOfficial(), search.SortBestMatches, search.DefaultFilters())
		return SearchResultsMsg{Query: query, Results: ranked}
	}
}

// View renders the three panes side by side: Search, Install, Recent.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "initializing..."
	}

	paneWidth := m.width / 3
	search := m.renderPane("Search", m.input.Text()+"\n"+m.resultsView.View(), paneWidth, m.focus.Current == router.FocusSearch)
	install := m.renderPane("Install", joinNames(m.installList.Names()), paneWidth, m.focus.Current == router.FocusInstall)
	recent := m.renderPane("Recent", joinNames(m.recent), paneWidth, m.focus.Current == router.FocusRecent)

	body := lipgloss.JoinHorizontal(lipgloss.Top, search, install, recent)
	if m.modal.Kind == model.ModalPreflight && m.modal.Preflight != nil {
		body += "\n" + m.renderPreflightTab(m.modal.Preflight)
	}
	return body
}

func (m *Model) renderPreflightTab(p *model.PreflightState) string {
	switch p.Tab {
	case model.TabSummary:
		return m.renderSummaryTab(p)
	case model.TabDeps:
		return fmt.Sprintf("Deps (%d): cursor=%d", len(p.DependencyInfo), p.DepSelected)
	case model.TabFiles:
		return fmt.Sprintf("Files (%d): cursor=%d", len(p.FileInfo), p.FileSelected)
	case model.TabServices:
		return fmt.Sprintf("Services (%d): cursor=%d", len(p.ServiceInfo), p.ServiceSelected)
	case model.TabSandbox:
		return fmt.Sprintf("Sandbox (%d): cursor=%d", len(p.SandboxInfo), p.SandboxSelected)
	}
	return ""
}

func (m *Model) renderSummaryTab(p *model.PreflightState) string {
	desc := preflight.BuildActionDescriptor(p)
	line := fmt.Sprintf("%s: %v", desc.Action, desc.Targets)
	if stats, err := CollectSystemStats(m.cfg.General.CacheDir); err == nil {
		line += fmt.Sprintf("  mem=%.0f%% disk=%.0f%% free=%dMB", stats.MemUsedPercent, stats.DiskUsedPercent, stats.DiskFreeBytes/1024/1024)
	}
	return lipgloss.NewStyle().Faint(true).Render(line)
}

func (m *Model) renderPane(title, body string, width int, focused bool) string {
	style := lipgloss.NewStyle().Width(width).Padding(0, 1)
	if focused {
		style = style.BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7C3AED"))
	}
	return style.Render(title + "\n" + body)
}

func packageNames(pkgs []model.Package) []string {
	names := make([]string, len(pkgs))
	for i, p := range pkgs {
		names[i] = p.Name
	}
	return names
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += "\n"
		}
		out += n
	}
	return out
}
