package monitor

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/koltont40/networkmonitoring/internal/api"
	"github.com/koltont40/networkmonitoring/internal/logger"
)

// Backend is the part of the API client the dashboard drives.
type Backend interface {
	ListHosts(ctx context.Context, reachableOnly bool) ([]api.HostSnapshot, error)
	GetHost(ctx context.Context, address string) (*api.HostSnapshot, error)
	History(ctx context.Context, address string) ([]api.HistorySample, error)
	AddHosts(ctx context.Context, req api.AddHostsRequest) (*api.AddHostsResult, error)
	DeleteHost(ctx context.Context, address string) error
	Rescan(ctx context.Context) error
	SaveSettings(ctx context.Context, settings api.Settings) error
}

// Options configures a dashboard Model.
type Options struct {
	// IntervalSeconds is the poll interval, clamped to at least four seconds.
	IntervalSeconds int
	// ManualTimeout releases a busy control whose request never answers.
	ManualTimeout time.Duration
	// RequestTimeout bounds each backend call.
	RequestTimeout time.Duration
	ReachableOnly  bool
	SparklineSize  int
	// Address opens the detail view of this host instead of the list.
	Address string
	// Source is shown in the header, usually the backend URL.
	Source string

	Logger    logger.Logger
	Format    *Formatter
	Scheduler Scheduler
	NewChart  ChartConstructor
}

// Status is the inline message line. Errors from mutating actions are
// rendered in the error style.
type Status struct {
	Text  string
	Error bool
}

type formKind int

const (
	formNone formKind = iota
	formAddHosts
	formSettings
	formDelete
)

// Model is the Bubble Tea model for the list and detail views.
type Model struct {
	backend Backend
	poller  *Poller
	format  Formatter
	log     logger.Logger
	opts    Options

	viewMode      ViewMode
	list          *ListView
	detail        *DetailView
	reachableOnly bool

	form            *huh.Form
	formKind        formKind
	addValues       *AddHostsValues
	settingsValues  *SettingsValues
	deleteConfirmed *bool

	status      Status
	statusToken uint64

	width      int
	height     int
	showHelp   bool
	quitting   bool
	lastUpdate time.Time

	detailViewport viewport.Model
	viewportReady  bool
}

// hostsMsg carries a host list fetch result.
type hostsMsg struct {
	seq   uint64
	cycle Cycle
	hosts []api.HostSnapshot
	err   error
}

// snapshotMsg carries a single host fetch result.
type snapshotMsg struct {
	address string
	seq     uint64
	cycle   Cycle
	snap    *api.HostSnapshot
	err     error
}

// historyMsg carries a history fetch result.
type historyMsg struct {
	address string
	seq     uint64
	cycle   Cycle
	samples []api.HistorySample
	err     error
}

type addDoneMsg struct {
	cycle  Cycle
	result *api.AddHostsResult
	err    error
}

type deleteDoneMsg struct {
	cycle   Cycle
	address string
	err     error
}

type settingsSavedMsg struct {
	cycle Cycle
	err   error
}

// clearStatusMsg clears the status line unless a newer status replaced it.
type clearStatusMsg struct {
	token uint64
}

// NewModel creates a dashboard model.
func NewModel(backend Backend, opts Options) Model {
	format := DefaultFormatter
	if opts.Format != nil {
		format = *opts.Format
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = api.DefaultTimeout
	}

	pollerOpts := []PollerOption{WithManualTimeout(opts.ManualTimeout)}
	if opts.Scheduler != nil {
		pollerOpts = append(pollerOpts, WithScheduler(opts.Scheduler))
	}

	m := Model{
		backend:       backend,
		poller:        NewPoller(opts.IntervalSeconds, pollerOpts...),
		format:        format,
		log:           log,
		opts:          opts,
		list:          NewListView(format, opts.SparklineSize),
		reachableOnly: opts.ReachableOnly,
	}
	if opts.Address != "" {
		m.viewMode = ViewDetail
		m.detail = NewDetailView(opts.Address, format, opts.NewChart)
	}
	return m
}

// Init starts polling the starting view.
func (m Model) Init() tea.Cmd {
	return m.startView()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		handled, cmd := m.HandleKeyMsg(msg)
		if !handled && m.viewMode == ViewDetail && m.viewportReady {
			var vpCmd tea.Cmd
			m.detailViewport, vpCmd = m.detailViewport.Update(msg)
			return m, vpCmd
		}
		return m, cmd

	case TickMsg:
		next, ok := m.poller.Tick(msg)
		if !ok {
			return m, nil
		}
		return m, tea.Batch(next, m.refreshCmd(Cycle{}))

	case ManualTimeoutMsg:
		if m.poller.Busy(msg.Cycle.Control) {
			m.log.Debug("%s timed out after %s", msg.Cycle.Control, m.poller.manualTimeout)
		}
		m.poller.Finish(msg.Cycle)
		return m, nil

	case hostsMsg:
		m.applyHosts(msg)
		return m, nil

	case snapshotMsg:
		cmd := m.applySnapshot(msg)
		m.updateDetailViewportContent()
		return m, cmd

	case historyMsg:
		m.applyHistory(msg)
		m.updateDetailViewportContent()
		return m, nil

	case addDoneMsg:
		m.poller.Finish(msg.cycle)
		if msg.err != nil {
			m.log.Warn("add hosts failed: %v", msg.err)
			m.setError(AddFailedStatus(msg.err))
			return m, nil
		}
		m.setStatus(AddedStatus(*msg.result))
		if msg.result.Added > 0 {
			return m, m.fetchHostsCmd(Cycle{})
		}
		return m, nil

	case deleteDoneMsg:
		m.poller.Finish(msg.cycle)
		if msg.err != nil {
			m.log.Warn("delete %s failed: %v", msg.address, msg.err)
			m.setError(DeleteFailedStatus(msg.err))
			m.updateDetailViewportContent()
			return m, nil
		}
		m.list.Remove(msg.address)
		m.setStatus("Deleted " + msg.address)
		return m, m.openList()

	case settingsSavedMsg:
		m.poller.Finish(msg.cycle)
		if msg.err != nil {
			m.log.Warn("save settings failed: %v", msg.err)
			m.setError(SaveFailedStatus(msg.err))
			return m, nil
		}
		token := m.setStatus(StatusSaved)
		return m, m.poller.After(SavedStatusTTL, clearStatusMsg{token: token})

	case clearStatusMsg:
		if msg.token == m.statusToken {
			m.status = Status{}
		}
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

// openList switches to the host list and restarts polling for it.
func (m *Model) openList() tea.Cmd {
	m.viewMode = ViewList
	m.detail = nil
	return m.startView()
}

// openDetail creates a fresh detail view context for address and restarts
// polling for it. The first snapshot always leads to a history fetch.
func (m *Model) openDetail(address string) tea.Cmd {
	m.viewMode = ViewDetail
	m.detail = NewDetailView(address, m.format, m.opts.NewChart)
	if m.viewportReady {
		m.detailViewport.GotoTop()
	}
	m.updateDetailViewportContent()
	return m.startView()
}

// startView begins a new poll generation and fetches the current view.
func (m *Model) startView() tea.Cmd {
	return tea.Batch(m.poller.Start(), m.refreshCmd(Cycle{}))
}

// refreshCmd is the shared refresh routine of ticks and manual refreshes.
func (m *Model) refreshCmd(c Cycle) tea.Cmd {
	if m.viewMode == ViewDetail && m.detail != nil {
		return m.fetchSnapshotCmd(m.detail.Address, c)
	}
	return m.fetchHostsCmd(c)
}

// RefreshNow runs a manual refresh of the current view. It returns false
// while a previous manual refresh is still running.
func (m *Model) RefreshNow() (tea.Cmd, bool) {
	if m.viewMode == ViewList {
		return m.poller.RefreshNow(ControlRescan, m.rescanCmd)
	}
	return m.poller.RefreshNow(ControlRefresh, m.refreshCmd)
}

// requestContext returns a context factory bounded by the request timeout.
// Contexts are created when a command runs, not when it is built.
func (m *Model) requestContext() func() (context.Context, context.CancelFunc) {
	timeout := m.opts.RequestTimeout
	return func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), timeout)
	}
}

func (m *Model) fetchHostsCmd(c Cycle) tea.Cmd {
	seq := m.poller.Begin(StreamHosts)
	backend, reachableOnly := m.backend, m.reachableOnly
	newCtx := m.requestContext()
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		hosts, err := backend.ListHosts(ctx, reachableOnly)
		return hostsMsg{seq: seq, cycle: c, hosts: hosts, err: err}
	}
}

// rescanCmd asks the backend to probe now, then reloads the list whether
// or not the rescan was accepted.
func (m *Model) rescanCmd(c Cycle) tea.Cmd {
	seq := m.poller.Begin(StreamHosts)
	backend, reachableOnly, log := m.backend, m.reachableOnly, m.log
	newCtx := m.requestContext()
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		if err := backend.Rescan(ctx); err != nil {
			log.Debug("rescan failed: %v", err)
		}
		hosts, err := backend.ListHosts(ctx, reachableOnly)
		return hostsMsg{seq: seq, cycle: c, hosts: hosts, err: err}
	}
}

func (m *Model) fetchSnapshotCmd(address string, c Cycle) tea.Cmd {
	seq := m.poller.Begin(StreamSnapshot)
	backend := m.backend
	newCtx := m.requestContext()
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		snap, err := backend.GetHost(ctx, address)
		return snapshotMsg{address: address, seq: seq, cycle: c, snap: snap, err: err}
	}
}

func (m *Model) fetchHistoryCmd(address string, c Cycle) tea.Cmd {
	seq := m.poller.Begin(StreamHistory)
	backend := m.backend
	newCtx := m.requestContext()
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		samples, err := backend.History(ctx, address)
		return historyMsg{address: address, seq: seq, cycle: c, samples: samples, err: err}
	}
}

func (m *Model) addHostsCmd(req api.AddHostsRequest) func(Cycle) tea.Cmd {
	backend, newCtx := m.backend, m.requestContext()
	return func(c Cycle) tea.Cmd {
		return func() tea.Msg {
			ctx, cancel := newCtx()
			defer cancel()
			result, err := backend.AddHosts(ctx, req)
			return addDoneMsg{cycle: c, result: result, err: err}
		}
	}
}

func (m *Model) deleteHostCmd(address string) func(Cycle) tea.Cmd {
	backend, newCtx := m.backend, m.requestContext()
	return func(c Cycle) tea.Cmd {
		return func() tea.Msg {
			ctx, cancel := newCtx()
			defer cancel()
			err := backend.DeleteHost(ctx, address)
			return deleteDoneMsg{cycle: c, address: address, err: err}
		}
	}
}

func (m *Model) saveSettingsCmd(payload api.Settings) func(Cycle) tea.Cmd {
	backend, newCtx := m.backend, m.requestContext()
	return func(c Cycle) tea.Cmd {
		return func() tea.Msg {
			ctx, cancel := newCtx()
			defer cancel()
			err := backend.SaveSettings(ctx, payload)
			return settingsSavedMsg{cycle: c, err: err}
		}
	}
}

// applyHosts replaces the list rows. Failed and out-of-order responses
// leave the list as it is.
func (m *Model) applyHosts(msg hostsMsg) {
	defer m.poller.Finish(msg.cycle)

	if msg.err != nil {
		m.log.Debug("host list fetch %d failed: %v", msg.seq, msg.err)
		return
	}
	if !m.poller.Accept(StreamHosts, msg.seq) {
		m.log.Debug("discarding stale host list %d", msg.seq)
		return
	}
	m.list.Reconcile(msg.hosts)
	m.lastUpdate = time.Now()
}

// applySnapshot reconciles the detail fields and, when the snapshot carries
// a sample the charts have not seen, continues the cycle with a history
// fetch.
func (m *Model) applySnapshot(msg snapshotMsg) tea.Cmd {
	if m.detail == nil || m.detail.Address != msg.address {
		m.poller.Finish(msg.cycle)
		return nil
	}

	notTracked := stderrors.Is(msg.err, api.ErrNotTracked)
	if msg.err != nil && !notTracked {
		m.log.Debug("snapshot fetch %d for %s failed: %v", msg.seq, msg.address, msg.err)
		m.poller.Finish(msg.cycle)
		return nil
	}
	if !m.poller.Accept(StreamSnapshot, msg.seq) {
		m.log.Debug("discarding stale snapshot %d for %s", msg.seq, msg.address)
		m.poller.Finish(msg.cycle)
		return nil
	}
	if notTracked {
		m.detail.MarkNotTracked()
		m.poller.Finish(msg.cycle)
		return nil
	}

	m.detail.ApplySnapshot(*msg.snap)
	m.lastUpdate = time.Now()

	if ShouldFetchHistory(msg.snap.LastChecked, m.detail.Charts().LastRendered()) {
		return m.fetchHistoryCmd(msg.address, msg.cycle)
	}
	m.poller.Finish(msg.cycle)
	return nil
}

func (m *Model) applyHistory(msg historyMsg) {
	defer m.poller.Finish(msg.cycle)

	if m.detail == nil || m.detail.Address != msg.address {
		return
	}
	if msg.err != nil {
		m.log.Debug("history fetch %d for %s failed: %v", msg.seq, msg.address, msg.err)
		return
	}
	if !m.poller.Accept(StreamHistory, msg.seq) {
		m.log.Debug("discarding stale history %d for %s", msg.seq, msg.address)
		return
	}
	m.detail.Charts().Apply(msg.samples)
}

// setStatus shows text and returns a token for clearing it later.
func (m *Model) setStatus(text string) uint64 {
	m.statusToken++
	m.status = Status{Text: text}
	return m.statusToken
}

func (m *Model) setError(text string) {
	m.statusToken++
	m.status = Status{Text: text, Error: true}
}

// openForm shows form as an overlay until it completes or is cancelled.
func (m *Model) openForm(kind formKind, form *huh.Form) tea.Cmd {
	m.form = form
	m.formKind = kind
	if m.width > 0 {
		m.form = m.form.WithWidth(formWidth(m.width))
	}
	return m.form.Init()
}

func (m *Model) closeForm() {
	m.form = nil
	m.formKind = formNone
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == KeyCollapse {
		m.closeForm()
		return m, nil
	}

	updated, cmd := m.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		kind := m.formKind
		m.closeForm()
		return m, m.submitForm(kind)
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

// submitForm starts the action behind a completed form.
func (m *Model) submitForm(kind formKind) tea.Cmd {
	switch kind {
	case formAddHosts:
		req, err := m.addValues.Request()
		if err != nil {
			m.setError(failureText(err, StatusAddFailed))
			return nil
		}
		cmd, ok := m.poller.RefreshNow(ControlAddHosts, m.addHostsCmd(req))
		if ok {
			m.setStatus(StatusAddingHosts)
		}
		return cmd

	case formSettings:
		payload, err := m.settingsValues.Payload(true)
		if err != nil {
			m.setError(failureText(err, StatusSaveFailed))
			return nil
		}
		cmd, ok := m.poller.RefreshNow(ControlSettings, m.saveSettingsCmd(payload))
		if ok {
			m.setStatus(StatusSaving)
		}
		return cmd

	case formDelete:
		if m.deleteConfirmed == nil || !*m.deleteConfirmed || m.detail == nil {
			return nil
		}
		cmd, _ := m.poller.RefreshNow(ControlDelete, m.deleteHostCmd(m.detail.Address))
		return cmd
	}
	return nil
}

// DeleteEnabled reports whether the delete control can be used.
func (m Model) DeleteEnabled() bool {
	return m.detail != nil && m.detail.DeleteAllowed() && !m.poller.Busy(ControlDelete)
}

// Status returns the current status line.
func (m Model) Status() Status {
	return m.status
}

// ViewMode returns the active view.
func (m Model) ViewMode() ViewMode {
	return m.viewMode
}

// List returns the list view state.
func (m Model) List() *ListView {
	return m.list
}

// Detail returns the detail view state, nil while the list is shown.
func (m Model) Detail() *DetailView {
	return m.detail
}

// Poller returns the model's poller.
func (m Model) Poller() *Poller {
	return m.poller
}

// SecondsSinceUpdate returns how many seconds have passed since the last applied fetch.
func (m Model) SecondsSinceUpdate() int {
	if m.lastUpdate.IsZero() {
		return 0
	}
	return int(time.Since(m.lastUpdate).Seconds())
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 3
	footerHeight := 2
	viewportHeight := m.height - headerHeight - footerHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.viewportReady {
		m.detailViewport = viewport.New(m.width, viewportHeight)
		m.detailViewport.YPosition = headerHeight
		m.viewportReady = true
	} else {
		m.detailViewport.Width = m.width
		m.detailViewport.Height = viewportHeight
	}
	m.updateDetailViewportContent()
}

func formWidth(width int) int {
	if width > 72 {
		return 64
	}
	return width - 8
}
