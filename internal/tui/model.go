package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/colonyops/briefly/internal/core/config"
	"github.com/colonyops/briefly/internal/core/kv"
	"github.com/colonyops/briefly/internal/core/logging"
	"github.com/colonyops/briefly/internal/core/notify"
	"github.com/colonyops/briefly/internal/core/watch"
	"github.com/colonyops/briefly/internal/tui/components"
	"github.com/colonyops/briefly/internal/tui/views/editor"
)

const notificationBuffer = 32

// ThemeCycler switches to the next theme and persists the choice.
type ThemeCycler interface {
	CycleTheme(ctx context.Context) (string, error)
}

// Options configures the TUI.
type Options struct {
	Config   *config.Config
	Auth     Authenticator       // nil disables sign in
	Themes   ThemeCycler         // nil disables theme switching
	Analyzer editor.Analyzer     // analysis backend for the editor
	Notify   *notify.Bus         // shared notification bus (optional)
	Drafts   *kv.TypedKV[string] // scratch buffer storage (optional)
	Watcher  *watch.FileWatcher  // reloads Path on change (optional)
	Path     string              // file opened by `briefly edit`
	Text     string              // initial editor text
	Start    ViewType            // ViewLanding or ViewEditor
	Build    BuildInfo
}

// notificationMsg carries a notification published outside the update loop.
type notificationMsg struct {
	notification notify.Notification
}

// logoutDoneMsg reports the outcome of signing out.
type logoutDoneMsg struct {
	err error
}

// Model is the root Bubble Tea model. It owns the navbar, switches between
// views and draws toasts and the help dialog on top.
type Model struct {
	ctx  context.Context
	cfg  *config.Config
	opts Options
	log  zerolog.Logger
	keys KeyMap

	active   ViewType
	previous ViewType
	width    int
	height   int
	navLines int

	landing   *landingView
	login     *loginView
	editor    *editor.View
	changelog *pageView
	feedback  *pageView

	// openEditorAfterLogin is set when the editor was requested while
	// signed out.
	openEditorAfterLogin bool

	showHelp bool
	help     *components.HelpDialog

	notifyBus       *notify.Bus
	notifications   chan notify.Notification
	toastController *ToastController
	toastView       *ToastView
}

// New creates the root model.
func New(ctx context.Context, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}

	bus := opts.Notify
	if bus == nil {
		bus = notify.NewBus()
	}

	notifications := make(chan notify.Notification, notificationBuffer)
	bus.Subscribe(func(n notify.Notification) {
		select {
		case notifications <- n:
		default:
			// the toast stack holds five; older overflow is not worth blocking for
		}
	})

	toastCtrl := NewToastController()

	m := Model{
		ctx:             ctx,
		cfg:             cfg,
		opts:            opts,
		log:             logging.Component("tui"),
		keys:            DefaultKeyMap(),
		active:          ViewLanding,
		landing:         newLandingView(),
		login:           newLoginView(),
		changelog:       newChangelogPage(opts.Build, cfg.TUI.ChangelogURL),
		feedback:        newFeedbackPage(cfg.TUI.FeedbackURL),
		notifyBus:       bus,
		notifications:   notifications,
		toastController: toastCtrl,
		toastView:       NewToastView(toastCtrl),
		width:           80,
		height:          24,
	}
	m.relayout()
	return m
}

// Init starts the notification listener and the first view.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listenNotifications()}
	if m.opts.Start == ViewEditor {
		cmds = append(cmds, func() tea.Msg { return openEditorMsg{} })
	} else {
		cmds = append(cmds, m.landing.Start())
	}
	return tea.Batch(cmds...)
}

// openEditorMsg asks the model to show the editor, going through login
// first when a session is required.
type openEditorMsg struct{}

// Close releases the editor's timers and file watcher.
func (m Model) Close() {
	if m.editor != nil {
		m.editor.Close()
	}
}

// Active returns the visible view.
func (m Model) Active() ViewType { return m.active }

// Editor returns the editor view, nil until it was first opened.
func (m Model) Editor() *editor.View { return m.editor }

func (m Model) listenNotifications() tea.Cmd {
	ch := m.notifications
	return func() tea.Msg {
		return notificationMsg{notification: <-ch}
	}
}

// Update handles messages for the whole program.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.relayout()
		return m, nil

	case notificationMsg:
		return m.handleNotification(msg)
	case toastTickMsg:
		return m.handleToastTick(msg)

	case openEditorMsg:
		return m.openEditor()
	case authDoneMsg:
		return m.handleAuthDone(msg)
	case logoutDoneMsg:
		return m.handleLogoutDone(msg)

	case typeTickMsg, carouselTickMsg:
		return m, m.landing.Update(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		// the login spinner and the editor spinner have their own ids
		var cmds []tea.Cmd
		cmds = append(cmds, m.login.Update(m.ctx, m.opts.Auth, msg))
		if m.editor != nil {
			cmds = append(cmds, m.editor.Update(msg))
		}
		return m, tea.Batch(cmds...)
	}

	return m.forward(msg)
}

// forward hands msg to the active view. Background messages for the
// editor (analysis results, file changes) go to it regardless of the
// active view.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.active {
	case ViewLogin:
		return m, m.login.Update(m.ctx, m.opts.Auth, msg)
	case ViewChangelog:
		return m, m.changelog.Update(msg)
	case ViewFeedback:
		return m, m.feedback.Update(msg)
	}
	if m.editor != nil {
		return m, m.editor.Update(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.help = m.helpDialog()
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		return m, m.cycleTheme()
	case key.Matches(msg, m.keys.Changelog):
		return m.switchTo(ViewChangelog)
	case key.Matches(msg, m.keys.Feedback):
		return m.switchTo(ViewFeedback)
	case key.Matches(msg, m.keys.Account):
		return m.account()
	}

	switch m.active {
	case ViewLanding:
		if key.Matches(msg, m.keys.Start) {
			return m.openEditor()
		}
		return m, nil
	case ViewLogin:
		if key.Matches(msg, m.keys.Back) {
			m.openEditorAfterLogin = false
			return m.switchTo(ViewLanding)
		}
		if key.Matches(msg, m.keys.SwitchTab) {
			return m, m.login.SwitchTab()
		}
	case ViewChangelog, ViewFeedback:
		if key.Matches(msg, m.keys.Back) {
			return m.switchTo(m.previous)
		}
	}

	return m.forward(msg)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		return m, nil
	}

	if msg.Y < m.navLines {
		_, hits := renderNavbar(m.width, m.active, m.userName())
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || msg.Y != 0 {
			return m, nil
		}
		switch hitTest(hits, msg.X) {
		case navHome:
			return m.switchTo(ViewLanding)
		case navChangelog:
			return m.switchTo(ViewChangelog)
		case navFeedback:
			return m.switchTo(ViewFeedback)
		case navAccount:
			return m.account()
		}
		return m, nil
	}

	msg.Y -= m.navLines
	switch m.active {
	case ViewEditor, ViewChangelog, ViewFeedback:
		return m.forward(msg)
	}
	return m, nil
}

// switchTo makes view the active one.
func (m Model) switchTo(view ViewType) (tea.Model, tea.Cmd) {
	if view == m.active {
		return m, nil
	}

	if view == ViewEditor && m.editor == nil {
		return m.openEditor()
	}

	if m.active != ViewChangelog && m.active != ViewFeedback {
		m.previous = m.active
	}
	m.active = view

	var cmd tea.Cmd
	switch view {
	case ViewLanding:
		cmd = m.landing.Start()
	case ViewLogin:
		cmd = m.login.Reset()
	}
	if view != ViewLanding {
		m.landing.Stop()
	}
	return m, cmd
}

// openEditor shows the editor, creating it on first use. When a session is
// required and missing, the login view is shown instead and the editor
// opens after a successful sign in.
func (m Model) openEditor() (tea.Model, tea.Cmd) {
	if m.cfg.Auth.IsRequired() && !m.signedIn() {
		m.openEditorAfterLogin = true
		if m.opts.Auth == nil {
			m.notifyBus.Errorf("Sign in is required but no account service is configured")
			return m, m.ensureToastTick()
		}
		return m.switchTo(ViewLogin)
	}

	var cmd tea.Cmd
	if m.editor == nil {
		m.editor = editor.New(m.ctx, editor.Options{
			Analyzer:    m.opts.Analyzer,
			Notify:      m.notifyBus,
			Drafts:      m.opts.Drafts,
			Watcher:     m.opts.Watcher,
			Path:        m.opts.Path,
			Text:        m.opts.Text,
			Debounce:    m.cfg.Editor.Debounce,
			LintOnEnter: m.cfg.Editor.LintOnEnterEnabled(),
			LintOnPause: m.cfg.Editor.LintOnPause,
			Sidebar:     m.cfg.Editor.Sidebar,
		})
		m.editor.SetSize(m.width, m.contentHeight())
		cmd = m.editor.Init()
	}

	if m.active != ViewChangelog && m.active != ViewFeedback {
		m.previous = m.active
	}
	m.active = ViewEditor
	m.openEditorAfterLogin = false
	m.landing.Stop()
	return m, cmd
}

// account signs out when signed in, otherwise opens the login view.
func (m Model) account() (tea.Model, tea.Cmd) {
	if m.opts.Auth == nil {
		return m, nil
	}
	if !m.signedIn() {
		return m.switchTo(ViewLogin)
	}

	svc, ctx := m.opts.Auth, m.ctx
	return m, func() tea.Msg {
		return logoutDoneMsg{err: svc.Logout(ctx)}
	}
}

func (m Model) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Str("form", msg.tab.String()).Msg("sign in failed")
		m.notifyBus.Errorf("%s", describeAuthError(msg.err))
		return m, tea.Batch(m.login.Reset(), m.ensureToastTick())
	}

	m.login.Reset()
	m.notifyBus.Infof("Signed in as %s", msg.session.User.DisplayName())

	if m.openEditorAfterLogin {
		model, cmd := m.openEditor()
		return model, tea.Batch(cmd, model.(Model).ensureToastTick())
	}
	model, cmd := m.switchTo(ViewLanding)
	return model, tea.Batch(cmd, m.ensureToastTick())
}

func (m Model) handleLogoutDone(msg logoutDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.notifyBus.Errorf("Sign out failed: %v", msg.err)
		return m, m.ensureToastTick()
	}

	m.notifyBus.Infof("Signed out")
	if m.active == ViewEditor && m.cfg.Auth.IsRequired() {
		model, cmd := m.switchTo(ViewLanding)
		return model, tea.Batch(cmd, m.ensureToastTick())
	}
	return m, m.ensureToastTick()
}

func (m Model) handleNotification(msg notificationMsg) (tea.Model, tea.Cmd) {
	m.toastController.Push(msg.notification)
	return m, tea.Batch(m.listenNotifications(), m.ensureToastTick())
}

func (m Model) handleToastTick(msg toastTickMsg) (tea.Model, tea.Cmd) {
	m.toastController.Expire(time.Time(msg))
	return m, m.ensureToastTick()
}

// ensureToastTick returns a tick command while toasts are visible.
// Overlapping chains are harmless since expiry uses absolute times.
func (m Model) ensureToastTick() tea.Cmd {
	if m.toastController.HasToasts() {
		return scheduleToastTick()
	}
	return nil
}

func (m Model) cycleTheme() tea.Cmd {
	if m.opts.Themes == nil {
		return nil
	}

	name, err := m.opts.Themes.CycleTheme(m.ctx)
	if err != nil {
		m.notifyBus.Errorf("Failed to save theme: %v", err)
	} else {
		m.notifyBus.Infof("Theme: %s", name)
	}

	m.login.Restyle()
	m.changelog.Refresh()
	m.feedback.Refresh()
	if m.editor != nil {
		m.editor.Restyle()
	}
	return m.ensureToastTick()
}

func (m Model) signedIn() bool {
	return m.opts.Auth != nil && m.opts.Auth.State().Current() != nil
}

func (m Model) userName() string {
	if m.opts.Auth == nil {
		return ""
	}
	if sess := m.opts.Auth.State().Current(); sess != nil {
		return sess.User.DisplayName()
	}
	return ""
}

func (m Model) contentHeight() int {
	return max(m.height-m.navLines, 1)
}

// relayout recomputes the navbar height and resizes every view.
func (m *Model) relayout() {
	bar, _ := renderNavbar(m.width, m.active, m.userName())
	m.navLines = lipgloss.Height(bar)

	h := m.contentHeight()
	m.landing.SetSize(m.width, h)
	m.login.SetSize(m.width, h)
	m.changelog.SetSize(m.width, h)
	m.feedback.SetSize(m.width, h)
	if m.editor != nil {
		m.editor.SetSize(m.width, h)
	}
}

func (m Model) helpDialog() *components.HelpDialog {
	sections := []components.HelpDialogSection{
		components.SectionFromBindings("Global", m.keys.Global()...),
	}

	ek := editor.DefaultKeyMap()
	if m.editor != nil {
		ek = m.editor.KeyMap()
	}
	var bindings []key.Binding
	for _, group := range ek.FullHelp() {
		bindings = append(bindings, group...)
	}
	sections = append(sections,
		components.SectionFromBindings("Editor", bindings...),
		components.SectionFromBindings("Login", m.keys.SwitchTab),
	)
	return components.NewHelpDialog("Keyboard shortcuts", sections...)
}

// View renders the navbar, the active view and the overlays.
func (m Model) View() string {
	bar, _ := renderNavbar(m.width, m.active, m.userName())

	var body string
	switch m.active {
	case ViewLogin:
		body = m.login.View()
	case ViewEditor:
		body = m.editor.View()
	case ViewChangelog:
		body = m.changelog.View()
	case ViewFeedback:
		body = m.feedback.View()
	default:
		body = m.landing.View()
	}

	content := strings.TrimRight(bar, "\n") + "\n" + body

	if m.showHelp && m.help != nil {
		content = m.help.Overlay(content, m.width, m.height)
	}
	if m.toastController.HasToasts() {
		content = m.toastView.Overlay(content, m.width, m.height)
	}
	return content
}
