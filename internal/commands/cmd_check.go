package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mattn/go-runewidth"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/colonyops/briefly/internal/briefly"
	"github.com/colonyops/briefly/internal/core/analysis"
	"github.com/colonyops/briefly/internal/core/overlay"
	"github.com/colonyops/briefly/internal/core/styles"
	"github.com/colonyops/briefly/internal/printer"
	"github.com/colonyops/briefly/pkg/iojson"
)

const checkConcurrency = 4

type CheckCmd struct {
	flags    *Flags
	app      *briefly.App
	format   string
	showText bool
	input    iojson.TextReader
}

// NewCheckCmd creates a new check command.
func NewCheckCmd(flags *Flags, app *briefly.App) *CheckCmd {
	return &CheckCmd{flags: flags, app: app}
}

// Register adds the check command to the application.
func (cmd *CheckCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "check",
		Usage:     "Analyze files and print the issues found",
		UsageText: "briefly check [options] [<glob>...]",
		Description: `Analyzes every file matching the given patterns. Patterns support ** to
match across directories, e.g. 'docs/**/*.md'. Without patterns the text is
read from --file or stdin.

Exits with status 1 when any error-severity issue is found.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "show-text",
				Usage:       "print the offending line under each issue",
				Destination: &cmd.showText,
			},
			cmd.input.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

// fileResult is the outcome of checking one file.
type fileResult struct {
	File   string           `json:"file"`
	Issues []analysis.Issue `json:"issues"`

	text string
	anns []overlay.Annotation
}

func (r fileResult) hasErrors() bool {
	return slices.ContainsFunc(r.anns, func(a overlay.Annotation) bool {
		return a.Severity == overlay.SeverityError
	})
}

func (cmd *CheckCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.format != "text" && cmd.format != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", cmd.format)
	}

	results, err := cmd.collect(ctx, c.Args().Slice())
	if err != nil {
		return err
	}

	w := c.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	if cmd.format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
	} else {
		color := isTerminal(w)
		for _, r := range results {
			writeResult(w, r, cmd.showText, color)
		}
		summarize(printer.Ctx(ctx), results)
	}

	if slices.ContainsFunc(results, fileResult.hasErrors) {
		return cli.Exit("", 1)
	}
	return nil
}

// collect analyses the matched files, or the --file/stdin input when no
// pattern was given.
func (cmd *CheckCmd) collect(ctx context.Context, patterns []string) ([]fileResult, error) {
	if len(patterns) == 0 {
		text, err := cmd.input.Read()
		if err != nil {
			return nil, err
		}
		if !utf8.ValidString(text) {
			return nil, fmt.Errorf("%s is not valid UTF-8 text", cmd.input.Name())
		}
		r, err := cmd.check(ctx, cmd.input.Name(), text)
		if err != nil {
			return nil, err
		}
		return []fileResult{r}, nil
	}

	files, err := expandPatterns(patterns)
	if err != nil {
		return nil, err
	}

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)
	for i, file := range files {
		g.Go(func() error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			if !utf8.Valid(data) {
				return fmt.Errorf("%s is not valid UTF-8 text", file)
			}
			r, err := cmd.check(gctx, file, string(data))
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (cmd *CheckCmd) check(ctx context.Context, name, text string) (fileResult, error) {
	anns, err := cmd.app.Analysis.Analyze(ctx, text)
	if err != nil {
		return fileResult{}, fmt.Errorf("analyze %s: %w", name, err)
	}
	slices.SortStableFunc(anns, func(a, b overlay.Annotation) int {
		return a.Start - b.Start
	})

	issues := analysis.FromAnnotations(anns, text)
	if issues == nil {
		issues = []analysis.Issue{}
	}
	return fileResult{File: name, Issues: issues, text: text, anns: anns}, nil
}

// expandPatterns resolves doublestar patterns to a sorted, de-duplicated
// file list. A pattern that matches nothing is an error.
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}

		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", p)
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	slices.Sort(files)
	return files, nil
}

// lineCol converts a rune offset into a 1-based line and column.
func lineCol(runes []rune, offset int) (line, col int) {
	offset = min(max(offset, 0), len(runes))
	line, col = 1, 1
	for _, r := range runes[:offset] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// lineBounds returns the rune range of the line containing offset.
func lineBounds(runes []rune, offset int) (start, end int) {
	offset = min(max(offset, 0), len(runes))
	start = offset
	for start > 0 && runes[start-1] != '\n' {
		start--
	}
	end = offset
	for end < len(runes) && runes[end] != '\n' {
		end++
	}
	return start, end
}

func writeResult(w io.Writer, r fileResult, showText, color bool) {
	runes := []rune(r.text)
	for _, a := range r.anns {
		line, col := lineCol(runes, a.Start)
		sev := a.Severity.String()
		if color {
			sev = styles.IssueStyle(sev, false).UnsetUnderline().Bold(true).Render(sev)
		}
		_, _ = fmt.Fprintf(w, "%s:%d:%d %s %s\n", r.File, line, col, sev, a.Message)

		if showText {
			_, _ = fmt.Fprintln(w, "    "+excerpt(runes, a, color))
		}
	}
}

// excerpt renders the line holding a with the issue range marked. Issues
// spanning lines are cut at the end of the first one.
func excerpt(runes []rune, a overlay.Annotation, color bool) string {
	start, end := lineBounds(runes, a.Start)
	from := min(max(a.Start, start), end)
	to := min(max(a.End, from), end)

	before, span, after := string(runes[start:from]), string(runes[from:to]), string(runes[to:end])
	if color {
		return before + styles.IssueStyle(a.Severity.String(), true).Render(span) + after
	}

	marker := strings.Repeat(" ", runewidth.StringWidth(before)) + strings.Repeat("^", max(runewidth.StringWidth(span), 1))
	return before + span + after + "\n    " + marker
}

func summarize(p *printer.Printer, results []fileResult) {
	var total, errs int
	for _, r := range results {
		total += len(r.anns)
		for _, a := range r.anns {
			if a.Severity == overlay.SeverityError {
				errs++
			}
		}
	}

	switch {
	case total == 0:
		p.Successf("No issues found in %d file(s)", len(results))
	case errs > 0:
		p.Errorf("%d issue(s), %d error(s) in %d file(s)", total, errs, len(results))
	default:
		p.Warnf("%d issue(s) in %d file(s)", total, len(results))
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
