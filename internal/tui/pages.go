package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// BuildInfo holds build-time metadata shown on the changelog page.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

const changelogDoc = `# Changelog

## %s

- Annotated editor: issues are underlined by severity, hover to highlight,
  click or ` + "`ctrl+k`" + ` to read the finding.
- Lint on enter analyses the text above the cursor after each new line.
- Optional lint on pause analyses the whole text once typing settles.
- Results sidebar (` + "`ctrl+b`" + `) lists every issue with its position.
- ` + "`briefly edit <file>`" + ` reloads the file when it changes on disk.
- ` + "`briefly check`" + ` validates files from scripts and CI.

Built from commit %s on %s. Full history: %s
`

const feedbackDoc = `# Feedback

Found an issue the analyser should have flagged, or one it flagged by
mistake? We want to hear about it.

1. Save the text to a file.
2. Run ` + "`briefly check --format json <file>`" + `.
3. Send the output together with what you expected to see at
   %s

Press ` + "`esc`" + ` to go back.
`

// pageView shows a static markdown document in a scrollable viewport.
type pageView struct {
	doc   string
	vp    viewport.Model
	cache markdownCache
}

func newPageView(doc string) *pageView {
	return &pageView{doc: doc, vp: viewport.New(80, 20)}
}

func newChangelogPage(b BuildInfo, url string) *pageView {
	orUnknown := func(s string) string {
		if s == "" {
			return "unknown"
		}
		return s
	}
	return newPageView(fmt.Sprintf(changelogDoc, orUnknown(b.Version), orUnknown(b.Commit), orUnknown(b.Date), url))
}

func newFeedbackPage(url string) *pageView {
	return newPageView(fmt.Sprintf(feedbackDoc, url))
}

func (p *pageView) SetSize(width, height int) {
	p.vp.Width, p.vp.Height = width, height
	p.vp.SetContent(p.cache.render(p.doc, min(width-4, 100)))
}

// Refresh re-renders after a theme change.
func (p *pageView) Refresh() {
	p.SetSize(p.vp.Width, p.vp.Height)
}

func (p *pageView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return cmd
}

func (p *pageView) View() string {
	return p.vp.View()
}
