// Package printer writes styled status lines for CLI commands.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/colonyops/briefly/internal/core/styles"
)

type ctxKey struct{}

// Printer writes user-facing output. Nothing here is logged.
type Printer struct {
	w io.Writer
}

// New creates a Printer that writes to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewContext returns ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stderr)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.w }

func (p *Printer) line(s string) {
	_, _ = fmt.Fprintln(p.w, s)
}

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}

// Successf writes a success line.
func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.SuccessStyle.Render(styles.IconCheck+" ") + fmt.Sprintf(format, args...))
}

// Success writes a success title followed by a muted detail.
func (p *Printer) Success(title, detail string) {
	p.line(styles.SuccessStyle.Render(styles.IconCheck+" "+title) + " " + styles.MutedStyle.Render(detail))
}

// Infof writes an informational line.
func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.InfoStyle.Render(styles.IconInfo+" ") + fmt.Sprintf(format, args...))
}

// Warnf writes a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.WarningStyle.Render(styles.IconWarning+" ") + fmt.Sprintf(format, args...))
}

// Errorf writes an error line.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.ErrorStyle.Render(styles.IconError+" ") + fmt.Sprintf(format, args...))
}

// Section writes a header line.
func (p *Printer) Section(title string) {
	p.line(styles.CommandHeaderStyle.Render(title))
}
