package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/briefly/internal/core/auth"
	"github.com/colonyops/briefly/internal/core/config"
	"github.com/colonyops/briefly/internal/core/kv"
	"github.com/colonyops/briefly/internal/core/notify"
	"github.com/colonyops/briefly/pkg/tuitest"
)

type fakeAuth struct {
	state   *auth.State
	logouts int
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{state: auth.NewState(kv.NewMemory())}
}

func (f *fakeAuth) Login(ctx context.Context, creds auth.Credentials) (*auth.Session, error) {
	sess := &auth.Session{Token: "t", User: auth.User{Name: "Ada", Email: creds.Email}}
	return sess, f.state.Set(ctx, sess)
}

func (f *fakeAuth) Register(ctx context.Context, reg auth.Registration) (*auth.Session, error) {
	sess := &auth.Session{Token: "t", User: auth.User{Name: reg.Name, Email: reg.Email}}
	return sess, f.state.Set(ctx, sess)
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.logouts++
	return f.state.Set(ctx, nil)
}

func (f *fakeAuth) State() *auth.State { return f.state }

type fakeThemes struct {
	names []string
	calls int
}

func (f *fakeThemes) CycleTheme(context.Context) (string, error) {
	name := f.names[f.calls%len(f.names)]
	f.calls++
	return name, nil
}

func testConfig(authRequired bool) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Editor.Debounce = time.Hour
	cfg.Auth.Required = &authRequired
	return &cfg
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Config == nil {
		opts.Config = testConfig(false)
	}
	m := New(context.Background(), opts)
	result, _ := m.Update(tuitest.WindowSize(100, 30))
	return result.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	result, cmd := m.Update(msg)
	next, ok := result.(Model)
	require.True(t, ok)
	return next, cmd
}

// nextNotification reads what the bus forwarded to the model.
func nextNotification(t *testing.T, m Model) notify.Notification {
	t.Helper()
	select {
	case n := <-m.notifications:
		return n
	case <-time.After(time.Second):
		t.Fatal("no notification published")
		return notify.Notification{}
	}
}

func TestModel_StartsOnLanding(t *testing.T) {
	m := newTestModel(t, Options{})

	assert.Equal(t, ViewLanding, m.Active())
	assert.Nil(t, m.Editor(), "editor is created lazily")
	assert.Contains(t, tuitest.StripANSI(m.View()), brandName)
}

func TestModel_StartInEditor(t *testing.T) {
	m := newTestModel(t, Options{Start: ViewEditor})

	cmd := m.Init()
	require.NotNil(t, cmd)

	m, _ = update(t, m, openEditorMsg{})
	t.Cleanup(m.Close)
	assert.Equal(t, ViewEditor, m.Active())
	require.NotNil(t, m.Editor())
}

func TestModel_EnterOpensEditor(t *testing.T) {
	tests := []struct {
		name     string
		required bool
		signedIn bool
		want     ViewType
	}{
		{name: "auth optional", required: false, want: ViewEditor},
		{name: "auth required signed out", required: true, want: ViewLogin},
		{name: "auth required signed in", required: true, signedIn: true, want: ViewEditor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa := newFakeAuth()
			if tt.signedIn {
				_, err := fa.Login(context.Background(), auth.Credentials{Email: "ada@example.com"})
				require.NoError(t, err)
			}

			m := newTestModel(t, Options{Config: testConfig(tt.required), Auth: fa})
			m, _ = update(t, m, tuitest.KeyEnter())
			t.Cleanup(m.Close)

			assert.Equal(t, tt.want, m.Active())
			assert.Equal(t, tt.want == ViewLogin, m.openEditorAfterLogin)
		})
	}
}

func TestModel_AuthDone(t *testing.T) {
	t.Run("success opens pending editor", func(t *testing.T) {
		fa := newFakeAuth()
		m := newTestModel(t, Options{Config: testConfig(true), Auth: fa})
		m, _ = update(t, m, tuitest.KeyEnter())
		require.Equal(t, ViewLogin, m.Active())

		sess, err := fa.Login(context.Background(), auth.Credentials{Email: "ada@example.com"})
		require.NoError(t, err)

		m, _ = update(t, m, authDoneMsg{tab: tabLogin, session: sess})
		t.Cleanup(m.Close)

		assert.Equal(t, ViewEditor, m.Active())
		assert.NotNil(t, m.Editor())
		assert.Equal(t, "Signed in as Ada", nextNotification(t, m).Message)
		assert.Contains(t, tuitest.StripANSI(m.View()), "Ada")
	})

	t.Run("failure stays on login", func(t *testing.T) {
		fa := newFakeAuth()
		m := newTestModel(t, Options{Config: testConfig(true), Auth: fa})
		m, _ = update(t, m, tuitest.KeyEnter())

		m, _ = update(t, m, authDoneMsg{tab: tabLogin, err: auth.ErrInvalidCredentials})

		assert.Equal(t, ViewLogin, m.Active())
		assert.Nil(t, m.Editor())

		n := nextNotification(t, m)
		assert.Equal(t, notify.LevelError, n.Level)
		assert.Equal(t, "Invalid email or password", n.Message)
	})
}

func TestModel_LoginEscGoesBack(t *testing.T) {
	m := newTestModel(t, Options{Config: testConfig(true), Auth: newFakeAuth()})
	m, _ = update(t, m, tuitest.KeyEnter())
	require.Equal(t, ViewLogin, m.Active())

	m, _ = update(t, m, tuitest.KeyEsc())

	assert.Equal(t, ViewLanding, m.Active())
	assert.False(t, m.openEditorAfterLogin)
}

func TestModel_AccountKey(t *testing.T) {
	t.Run("signed out opens login", func(t *testing.T) {
		m := newTestModel(t, Options{Auth: newFakeAuth()})
		m, _ = update(t, m, tuitest.Key(tea.KeyCtrlO))
		assert.Equal(t, ViewLogin, m.Active())
	})

	t.Run("signed in logs out", func(t *testing.T) {
		fa := newFakeAuth()
		_, err := fa.Login(context.Background(), auth.Credentials{Email: "ada@example.com"})
		require.NoError(t, err)

		m := newTestModel(t, Options{Auth: fa})
		m, cmd := update(t, m, tuitest.Key(tea.KeyCtrlO))
		require.NotNil(t, cmd)

		msg := cmd()
		require.IsType(t, logoutDoneMsg{}, msg)
		assert.Equal(t, 1, fa.logouts)
		assert.Nil(t, fa.State().Current())

		m, _ = update(t, m, msg)
		assert.Equal(t, "Signed out", nextNotification(t, m).Message)
	})

	t.Run("logout failure", func(t *testing.T) {
		m := newTestModel(t, Options{Auth: newFakeAuth()})
		m, _ = update(t, m, logoutDoneMsg{err: errors.New("offline")})

		n := nextNotification(t, m)
		assert.Equal(t, notify.LevelError, n.Level)
		assert.Equal(t, "Sign out failed: offline", n.Message)
	})
}

func TestModel_CycleTheme(t *testing.T) {
	themes := &fakeThemes{names: []string{"light", "dark"}}
	m := newTestModel(t, Options{Themes: themes})

	m, _ = update(t, m, tuitest.Key(tea.KeyCtrlT))

	assert.Equal(t, 1, themes.calls)
	assert.Equal(t, "Theme: light", nextNotification(t, m).Message)
}

func TestModel_HelpOverlay(t *testing.T) {
	m := newTestModel(t, Options{})

	m, _ = update(t, m, tuitest.Key(tea.KeyF1))
	require.True(t, m.showHelp)

	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "Keyboard shortcuts")
	assert.Contains(t, view, "next theme")

	// other keys are swallowed while the dialog is open
	m, _ = update(t, m, tuitest.KeyEnter())
	assert.Equal(t, ViewLanding, m.Active())

	m, _ = update(t, m, tuitest.KeyEsc())
	assert.False(t, m.showHelp)
}

func TestModel_Pages(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyType
		want ViewType
	}{
		{name: "changelog", key: tea.KeyF2, want: ViewChangelog},
		{name: "feedback", key: tea.KeyF3, want: ViewFeedback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, Options{})

			m, _ = update(t, m, tuitest.Key(tt.key))
			assert.Equal(t, tt.want, m.Active())

			m, _ = update(t, m, tuitest.KeyEsc())
			assert.Equal(t, ViewLanding, m.Active())
		})
	}
}

func TestModel_PagesReturnToEditor(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = update(t, m, tuitest.KeyEnter())
	t.Cleanup(m.Close)
	require.Equal(t, ViewEditor, m.Active())

	m, _ = update(t, m, tuitest.Key(tea.KeyF2))
	m, _ = update(t, m, tuitest.Key(tea.KeyF3))
	m, _ = update(t, m, tuitest.KeyEsc())

	assert.Equal(t, ViewEditor, m.Active())
}

func TestModel_NavbarClick(t *testing.T) {
	m := newTestModel(t, Options{})

	_, hits := renderNavbar(m.width, m.active, "")
	var feedback navHit
	for _, h := range hits {
		if h.target == navFeedback {
			feedback = h
		}
	}
	require.Positive(t, feedback.to)

	m, _ = update(t, m, tuitest.MousePress(feedback.from, 0))
	assert.Equal(t, ViewFeedback, m.Active())

	m, _ = update(t, m, tuitest.MousePress(1, 0))
	assert.Equal(t, ViewLanding, m.Active())
}

func TestModel_MouseForwardedToEditor(t *testing.T) {
	m := newTestModel(t, Options{Text: "hello\nworld"})
	m, _ = update(t, m, tuitest.KeyEnter())
	t.Cleanup(m.Close)
	require.Equal(t, ViewEditor, m.Active())
	require.Equal(t, 11, m.Editor().Buffer().Cursor())

	// far right of the first text row, just below the navbar
	for _, msg := range tuitest.Click(70, m.navLines) {
		m, _ = update(t, m, msg)
	}

	assert.Equal(t, 5, m.Editor().Buffer().Cursor())
}

func TestModel_TypingReachesEditor(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = update(t, m, tuitest.KeyEnter())
	t.Cleanup(m.Close)

	for _, msg := range tuitest.Type("hi there") {
		m, _ = update(t, m, msg)
	}

	assert.Equal(t, "hi there", m.Editor().Text())
	assert.True(t, strings.Contains(tuitest.StripANSI(m.View()), "hi there"))
}

func TestModel_WindowSize(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = update(t, m, tuitest.KeyEnter())
	t.Cleanup(m.Close)

	m, _ = update(t, m, tuitest.WindowSize(120, 40))

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	assert.Equal(t, 40-m.navLines, m.contentHeight())
}

func TestModel_QuitKey(t *testing.T) {
	m := newTestModel(t, Options{})

	_, cmd := update(t, m, tuitest.Key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
