package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/briefly/internal/core/auth"
	"github.com/colonyops/briefly/internal/core/styles"
)

const loginFormWidth = 44

// Authenticator is the part of auth.Service the TUI drives.
type Authenticator interface {
	Login(ctx context.Context, creds auth.Credentials) (*auth.Session, error)
	Register(ctx context.Context, reg auth.Registration) (*auth.Session, error)
	Logout(ctx context.Context) error
	State() *auth.State
}

type loginTab int

const (
	tabLogin loginTab = iota
	tabRegister
)

func (t loginTab) String() string {
	if t == tabRegister {
		return "Register"
	}
	return "Login"
}

// authDoneMsg reports the outcome of a login or registration.
type authDoneMsg struct {
	tab     loginTab
	session *auth.Session
	err     error
}

// loginView holds the tabbed login and registration forms.
type loginView struct {
	tab     loginTab
	form    *huh.Form
	creds   auth.Credentials
	reg     auth.Registration
	busy    bool
	spinner spinner.Model

	width, height int
}

func newLoginView() *loginView {
	v := &loginView{spinner: spinner.New(spinner.WithSpinner(spinner.Dot))}
	v.buildForm()
	return v
}

// Reset clears the passwords and rebuilds the active form. Emails and the
// name survive so a failed attempt can be retried.
func (v *loginView) Reset() tea.Cmd {
	v.busy = false
	v.creds.Password = ""
	v.reg.Password = ""
	v.reg.ConfirmPassword = ""
	v.buildForm()
	return v.form.Init()
}

// SwitchTab toggles between the login and register forms.
func (v *loginView) SwitchTab() tea.Cmd {
	if v.busy {
		return nil
	}
	if v.tab == tabLogin {
		v.tab = tabRegister
		if v.reg.Email == "" {
			v.reg.Email = v.creds.Email
		}
	} else {
		v.tab = tabLogin
		if v.creds.Email == "" {
			v.creds.Email = v.reg.Email
		}
	}
	return v.Reset()
}

// Restyle applies the active theme to the form.
func (v *loginView) Restyle() {
	v.form = v.form.WithTheme(styles.FormTheme())
}

func (v *loginView) buildForm() {
	var group *huh.Group
	switch v.tab {
	case tabRegister:
		group = huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Validate(auth.Required).
				Value(&v.reg.Name),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Validate(auth.Email).
				Value(&v.reg.Email),
			huh.NewInput().
				Title("Password").
				Description("At least 8 characters").
				EchoMode(huh.EchoModePassword).
				Validate(auth.Password).
				Value(&v.reg.Password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error { return auth.MatchesPassword(v.reg.Password)(s) }).
				Value(&v.reg.ConfirmPassword),
		)
	default:
		group = huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Validate(auth.Email).
				Value(&v.creds.Email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(auth.Required).
				Value(&v.creds.Password),
		)
	}

	v.form = huh.NewForm(group).
		WithTheme(styles.FormTheme()).
		WithShowHelp(false).
		WithWidth(loginFormWidth)
}

func (v *loginView) Init() tea.Cmd {
	return v.form.Init()
}

// Update forwards input to the form. When the form completes it returns
// the command that runs the auth call.
func (v *loginView) Update(ctx context.Context, svc Authenticator, msg tea.Msg) tea.Cmd {
	if v.busy {
		if tick, ok := msg.(spinner.TickMsg); ok {
			var cmd tea.Cmd
			v.spinner, cmd = v.spinner.Update(tick)
			return cmd
		}
		return nil
	}

	model, cmd := v.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State != huh.StateCompleted {
		return cmd
	}

	v.busy = true
	return tea.Batch(cmd, v.submit(ctx, svc), v.spinner.Tick)
}

func (v *loginView) submit(ctx context.Context, svc Authenticator) tea.Cmd {
	tab, creds, reg := v.tab, v.creds, v.reg
	return func() tea.Msg {
		if svc == nil {
			return authDoneMsg{tab: tab, err: errors.New("sign in is not available")}
		}

		var (
			sess *auth.Session
			err  error
		)
		if tab == tabRegister {
			sess, err = svc.Register(ctx, reg)
		} else {
			sess, err = svc.Login(ctx, creds)
		}
		return authDoneMsg{tab: tab, session: sess, err: err}
	}
}

func (v *loginView) SetSize(width, height int) {
	v.width, v.height = width, height
}

func (v *loginView) View() string {
	tabs := make([]string, 0, 2)
	for _, t := range []loginTab{tabLogin, tabRegister} {
		if t == v.tab {
			tabs = append(tabs, styles.TabActiveStyle.Render(t.String()))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(t.String()))
		}
	}

	body := v.form.View()
	if v.busy {
		label := "Signing in"
		if v.tab == tabRegister {
			label = "Creating account"
		}
		body = v.spinner.View() + " " + label + "..."
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		body,
		"",
		styles.MutedStyle.Render("enter next • ctrl+r login/register • esc back"),
	)

	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, content)
}

// describeAuthError turns an auth failure into a toast message.
func describeAuthError(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, auth.ErrAccountExists):
		return "An account with this email already exists"
	default:
		return err.Error()
	}
}
