package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/briefly/internal/briefly"
	"github.com/colonyops/briefly/internal/core/auth"
	"github.com/colonyops/briefly/internal/core/styles"
	"github.com/colonyops/briefly/internal/printer"
)

type AuthCmd struct {
	flags *Flags
	app   *briefly.App

	name          string
	email         string
	passwordStdin bool
}

// NewAuthCmd creates the login, register, logout and whoami commands.
func NewAuthCmd(flags *Flags, app *briefly.App) *AuthCmd {
	return &AuthCmd{flags: flags, app: app}
}

// Register adds the account commands to the application.
func (cmd *AuthCmd) Register(app *cli.Command) *cli.Command {
	emailFlag := &cli.StringFlag{
		Name:        "email",
		Usage:       "account email (prompted when omitted)",
		Sources:     cli.EnvVars("BRIEFLY_EMAIL"),
		Destination: &cmd.email,
	}
	passwordFlag := &cli.BoolFlag{
		Name:        "password-stdin",
		Usage:       "read the password from the first line of stdin",
		Destination: &cmd.passwordStdin,
	}

	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "login",
			Usage:     "Sign in to your account",
			UsageText: "briefly login [--email <email>] [--password-stdin]",
			Flags:     []cli.Flag{emailFlag, passwordFlag},
			Action:    cmd.login,
		},
		&cli.Command{
			Name:      "register",
			Usage:     "Create an account",
			UsageText: "briefly register [--name <name>] [--email <email>] [--password-stdin]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "name",
					Usage:       "display name (prompted when omitted)",
					Destination: &cmd.name,
				},
				emailFlag,
				passwordFlag,
			},
			Action: cmd.register,
		},
		&cli.Command{
			Name:   "logout",
			Usage:  "Sign out",
			Action: cmd.logout,
		},
		&cli.Command{
			Name:   "whoami",
			Usage:  "Show the signed-in account",
			Action: cmd.whoami,
		},
	)

	return app
}

func (cmd *AuthCmd) login(ctx context.Context, _ *cli.Command) error {
	creds := auth.Credentials{Email: cmd.email}

	if cmd.passwordStdin {
		pw, err := readPassword(os.Stdin)
		if err != nil {
			return err
		}
		creds.Password = pw
	}

	var fields []huh.Field
	if creds.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Validate(auth.Email).
			Value(&creds.Email))
	}
	if creds.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Validate(auth.Required).
			Value(&creds.Password))
	}
	if err := prompt(fields); err != nil {
		return err
	}

	sess, err := cmd.app.Auth.Login(ctx, creds)
	if err != nil {
		return describeCLIAuthError(err)
	}

	printer.Ctx(ctx).Successf("Signed in as %s", sess.User.DisplayName())
	return nil
}

func (cmd *AuthCmd) register(ctx context.Context, _ *cli.Command) error {
	reg := auth.Registration{Name: cmd.name, Email: cmd.email}

	if cmd.passwordStdin {
		pw, err := readPassword(os.Stdin)
		if err != nil {
			return err
		}
		reg.Password, reg.ConfirmPassword = pw, pw
	}

	var fields []huh.Field
	if reg.Name == "" {
		fields = append(fields, huh.NewInput().
			Title("Name").
			Validate(auth.Required).
			Value(&reg.Name))
	}
	if reg.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Validate(auth.Email).
			Value(&reg.Email))
	}
	if reg.Password == "" {
		fields = append(fields,
			huh.NewInput().
				Title("Password").
				Description(fmt.Sprintf("At least %d characters", auth.MinPasswordLength)).
				EchoMode(huh.EchoModePassword).
				Validate(auth.Password).
				Value(&reg.Password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error { return auth.MatchesPassword(reg.Password)(s) }).
				Value(&reg.ConfirmPassword),
		)
	}
	if err := prompt(fields); err != nil {
		return err
	}

	sess, err := cmd.app.Auth.Register(ctx, reg)
	if err != nil {
		return describeCLIAuthError(err)
	}

	printer.Ctx(ctx).Successf("Welcome, %s", sess.User.DisplayName())
	return nil
}

func (cmd *AuthCmd) logout(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	if err := cmd.app.Auth.Logout(ctx); err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			p.Infof("Not signed in")
			return nil
		}
		return fmt.Errorf("sign out: %w", err)
	}

	p.Successf("Signed out")
	return nil
}

func (cmd *AuthCmd) whoami(ctx context.Context, c *cli.Command) error {
	sess := cmd.app.Auth.State().Current()
	if sess == nil {
		printer.Ctx(ctx).Infof("Not signed in. Run 'briefly login' to sign in.")
		return cli.Exit("", 1)
	}

	w := c.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	md := sessionMarkdown(sess)
	if isTerminal(w) {
		md = renderCLIMarkdown(md)
	}
	_, err := fmt.Fprintln(w, md)
	return err
}

// sessionMarkdown describes a session as a small markdown document.
func sessionMarkdown(sess *auth.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", sess.User.DisplayName())
	fmt.Fprintf(&b, "- **Email:** %s\n", sess.User.Email)
	if sess.User.ID != "" {
		fmt.Fprintf(&b, "- **User ID:** `%s`\n", sess.User.ID)
	}
	fmt.Fprintf(&b, "- **Session:** `%s`\n", sess.ID)
	if !sess.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- **Signed in:** %s\n", sess.CreatedAt.Local().Format(time.DateTime))
	}
	if sess.ExpiresAt.IsZero() {
		b.WriteString("- **Expires:** never\n")
	} else {
		fmt.Fprintf(&b, "- **Expires:** %s\n", sess.ExpiresAt.Local().Format(time.DateTime))
	}
	return b.String()
}

func renderCLIMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// prompt runs fields as one form. It fails without a terminal since huh
// cannot read from a pipe.
func prompt(fields []huh.Field) error {
	if len(fields) == 0 {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("missing credentials: pass --email and --password-stdin when not running in a terminal")
	}

	err := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(styles.FormTheme()).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return cli.Exit("Cancelled", 1)
	}
	return err
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("read password: stdin was empty")
	}
	return pw, nil
}

// describeCLIAuthError keeps sentinel errors short and wraps the rest.
func describeCLIAuthError(err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrAccountExists):
		return err
	default:
		return fmt.Errorf("sign in: %w", err)
	}
}
