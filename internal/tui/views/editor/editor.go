package editor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/colonyops/briefly/internal/core/kv"
	"github.com/colonyops/briefly/internal/core/logging"
	"github.com/colonyops/briefly/internal/core/notify"
	"github.com/colonyops/briefly/internal/core/overlay"
	"github.com/colonyops/briefly/internal/core/styles"
	"github.com/colonyops/briefly/internal/core/watch"
	"github.com/colonyops/briefly/internal/tui/components"
)

// DraftKey is the key the scratch buffer is stored under when no file is
// open.
const DraftKey = "scratch"

// minEditorWidth is the narrowest editor area the sidebar leaves behind.
const minEditorWidth = 24

// Analyzer produces annotations for a text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]overlay.Annotation, error)
	AnalyzePrefix(ctx context.Context, text string, cursor int) ([]overlay.Annotation, error)
}

// Options configures a View.
type Options struct {
	Analyzer Analyzer
	Notify   *notify.Bus
	Drafts   *kv.TypedKV[string]
	Watcher  *watch.FileWatcher

	// Path is the file being edited. Empty means a scratch buffer.
	Path string
	Text string

	Debounce    time.Duration
	LintOnEnter bool
	LintOnPause bool
	Sidebar     bool
}

// View is the Bubble Tea sub-model for the annotated editor.
type View struct {
	ctx  context.Context
	opts Options
	log  zerolog.Logger
	keys KeyMap

	engine  *overlay.Engine
	buf     *Buffer
	layout  *Layout
	sidebar *sidebar
	spinner spinner.Model
	help    help.Model

	changes chan string

	width, height int
	gutter        int
	scroll        int
	showSidebar   bool

	gen           uint64
	inflight      bool
	lastRequested string

	dragging bool
	saved    bool

	// onDisk is the file content as last read or written by this view.
	// Watcher events carrying it are echoes of our own writes.
	onDisk string
}

// New creates the editor view holding opts.Text.
func New(ctx context.Context, opts Options) *View {
	v := &View{
		ctx:         ctx,
		opts:        opts,
		log:         logging.Component("editor"),
		keys:        DefaultKeyMap(),
		buf:         NewBuffer(opts.Text),
		sidebar:     newSidebar(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:        help.New(),
		changes:     make(chan string, 1),
		showSidebar: opts.Sidebar,
		saved:       true,
		onDisk:      opts.Text,
		width:       80,
		height:      24,
	}

	engineOpts := []overlay.Option{
		overlay.OnChange(v.publish),
		overlay.OnHover(func(int64, bool) { v.refreshSidebar() }),
		overlay.OnActivate(func(u overlay.Annotation) { v.buf.Select(u.Start, u.End) }),
	}
	if opts.Debounce > 0 {
		engineOpts = append(engineOpts, overlay.WithDebounce(opts.Debounce))
	}
	v.engine = overlay.NewEngine(engineOpts...)
	v.engine.SetText(opts.Text)

	v.relayout()
	v.refreshSidebar()
	return v
}

// Init starts listening for settled text and file changes and analyses the
// initial text.
func (v *View) Init() tea.Cmd {
	cmds := []tea.Cmd{v.waitForChange()}
	if strings.TrimSpace(v.buf.Text()) != "" {
		cmds = append(cmds, v.request(false))
	}
	if v.opts.Watcher != nil {
		cmds = append(cmds, v.opts.Watcher.Next())
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the editor.
func (v *View) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return nil
	case tea.KeyMsg:
		return v.handleKey(msg)
	case tea.MouseMsg:
		return v.handleMouse(msg)
	case settledMsg:
		return v.handleSettled(msg)
	case analysisMsg:
		v.handleAnalysis(msg)
		return nil
	case savedMsg:
		v.handleSaved(msg)
		return nil
	case watch.ChangedMsg:
		return v.handleFileChanged(msg)
	case spinner.TickMsg:
		if !v.inflight {
			return nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return cmd
	}
	return nil
}

// SetSize sets the area available to the editor, status bar included.
func (v *View) SetSize(width, height int) {
	v.width, v.height = max(width, 1), max(height, 2)
	v.relayout()
	v.ensureCursorVisible()
}

// Text returns the current buffer contents.
func (v *View) Text() string { return v.buf.Text() }

// Engine exposes the overlay engine.
func (v *View) Engine() *overlay.Engine { return v.engine }

// Buffer exposes the text buffer.
func (v *View) Buffer() *Buffer { return v.buf }

// SidebarOpen reports whether the results sidebar is shown.
func (v *View) SidebarOpen() bool { return v.sidebarVisible() }

// Analyzing reports whether an analysis request is outstanding.
func (v *View) Analyzing() bool { return v.inflight }

// KeyMap returns the editor bindings.
func (v *View) KeyMap() KeyMap { return v.keys }

// Restyle re-renders cached content after a theme change.
func (v *View) Restyle() { v.refreshSidebar() }

// Close stops pending change propagation and the file watcher.
func (v *View) Close() {
	v.engine.Close()
	if v.opts.Watcher != nil {
		_ = v.opts.Watcher.Close()
	}
}

// publish runs on the debounce goroutine. Only the latest text is kept.
func (v *View) publish(text string) {
	for {
		select {
		case v.changes <- text:
			return
		default:
			select {
			case <-v.changes:
			default:
			}
		}
	}
}

func (v *View) waitForChange() tea.Cmd {
	ch := v.changes
	return func() tea.Msg {
		return settledMsg{text: <-ch}
	}
}

// request starts an analysis of the whole text, or of the text before the
// cursor when prefix is set. Only the newest request's result is applied.
func (v *View) request(prefix bool) tea.Cmd {
	text := v.buf.Text()
	if strings.TrimSpace(text) == "" {
		v.gen++
		v.inflight = false
		v.lastRequested = text
		v.engine.SetAnnotations(nil)
		v.refreshSidebar()
		return nil
	}
	if v.opts.Analyzer == nil {
		return nil
	}

	v.gen++
	gen, cursor := v.gen, v.buf.Cursor()
	if !prefix {
		v.lastRequested = text
	}

	analyzer, ctx := v.opts.Analyzer, v.ctx
	cmd := func() tea.Msg {
		var (
			anns []overlay.Annotation
			err  error
		)
		if prefix {
			anns, err = analyzer.AnalyzePrefix(ctx, text, cursor)
		} else {
			anns, err = analyzer.Analyze(ctx, text)
		}
		return analysisMsg{gen: gen, text: text, prefix: prefix, cursor: cursor, anns: anns, err: err}
	}

	if v.inflight {
		return cmd
	}
	v.inflight = true
	return tea.Batch(cmd, v.spinner.Tick)
}

func (v *View) handleSettled(msg settledMsg) tea.Cmd {
	cmds := []tea.Cmd{v.waitForChange()}

	current := v.buf.Text()
	if msg.text != current {
		return cmds[0]
	}

	if v.opts.LintOnPause && current != v.lastRequested {
		cmds = append(cmds, v.request(false))
	}
	if v.opts.Path == "" {
		v.saveDraft(current)
	}
	return tea.Batch(cmds...)
}

func (v *View) handleAnalysis(msg analysisMsg) {
	if msg.gen != v.gen {
		v.log.Debug().Uint64("gen", msg.gen).Uint64("current", v.gen).Msg("dropping stale analysis")
		return
	}
	v.inflight = false

	if msg.err != nil {
		v.log.Error().Err(msg.err).Msg("analysis failed")
		v.notifyErrorf("Analysis failed: %v", msg.err)
		return
	}

	current := v.buf.Text()
	anns, cursor := msg.anns, msg.cursor
	if msg.text != current {
		anns = overlay.Reanchor(anns, current)
		cursor = mapOffset(msg.text, current, cursor)
	}

	if msg.prefix {
		anns = mergePrefix(v.engine.Annotations(), anns, cursor)
	}

	v.engine.SetAnnotations(anns)
	v.refreshSidebar()
	v.log.Debug().Int("issues", len(anns)).Bool("prefix", msg.prefix).Msg("analysis applied")
}

// mergePrefix replaces the annotations before cursor with fresh ones and
// keeps those at or after it. Fresh ids are shifted past the kept ids.
func mergePrefix(existing, fresh []overlay.Annotation, cursor int) []overlay.Annotation {
	out := make([]overlay.Annotation, 0, len(existing)+len(fresh))
	var maxID int64
	for _, a := range existing {
		if a.Start >= cursor {
			out = append(out, a)
			maxID = max(maxID, a.ID)
		}
	}
	for _, a := range fresh {
		a.ID += maxID
		out = append(out, a)
	}
	return out
}

// mapOffset moves a rune offset in old to the matching position in cur,
// treating the difference as a single replaced region. Offsets inside that
// region land at its end in cur.
func mapOffset(old, cur string, off int) int {
	o, c := []rune(old), []rune(cur)
	n := min(len(o), len(c))

	prefix := 0
	for prefix < n && o[prefix] == c[prefix] {
		prefix++
	}
	if off <= prefix {
		return off
	}

	suffix := 0
	for suffix < n-prefix && o[len(o)-1-suffix] == c[len(c)-1-suffix] {
		suffix++
	}
	if off >= len(o)-suffix {
		return off + len(c) - len(o)
	}
	return len(c) - suffix
}

func (v *View) handleSaved(msg savedMsg) {
	if msg.err != nil {
		v.notifyErrorf("Save failed: %v", msg.err)
		return
	}
	v.onDisk = msg.text
	if msg.text == v.buf.Text() {
		v.saved = true
	}
	if v.opts.Notify != nil {
		v.opts.Notify.Infof("Saved %s", filepath.Base(msg.path))
	}
}

func (v *View) handleFileChanged(msg watch.ChangedMsg) tea.Cmd {
	var next tea.Cmd
	if v.opts.Watcher != nil {
		next = v.opts.Watcher.Next()
	}
	if msg.Content == v.onDisk {
		return next
	}
	v.onDisk = msg.Content
	if msg.Content == v.buf.Text() {
		v.saved = true
		return next
	}

	// unsaved edits win; the next save overwrites the file
	if !v.saved {
		if v.opts.Notify != nil {
			v.opts.Notify.Warnf("%s changed on disk; ctrl+s keeps your version", filepath.Base(msg.Path))
		}
		return next
	}

	v.buf.SetText(msg.Content)
	v.textChanged()
	v.saved = true
	if v.opts.Notify != nil {
		v.opts.Notify.Infof("Reloaded %s", filepath.Base(msg.Path))
	}
	return next
}

func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Analyze):
		return v.request(false)
	case key.Matches(msg, v.keys.NextIssue):
		v.cycleHover(1)
		return nil
	case key.Matches(msg, v.keys.PrevIssue):
		v.cycleHover(-1)
		return nil
	case key.Matches(msg, v.keys.Inspect):
		v.inspect()
		return nil
	case key.Matches(msg, v.keys.Dismiss):
		v.engine.Dismiss()
		v.engine.ClearHover()
		v.buf.ClearSelection()
		v.refreshSidebar()
		return nil
	case key.Matches(msg, v.keys.Sidebar):
		v.showSidebar = !v.showSidebar
		v.relayout()
		v.ensureCursorVisible()
		return nil
	case key.Matches(msg, v.keys.Save):
		return v.save()
	case key.Matches(msg, v.keys.SelectLeft):
		v.moveHorizontal(v.buf.Cursor()-1, true)
		return nil
	case key.Matches(msg, v.keys.SelectRight):
		v.moveHorizontal(v.buf.Cursor()+1, true)
		return nil
	case key.Matches(msg, v.keys.SelectUp):
		v.moveVertical(-1, true)
		return nil
	case key.Matches(msg, v.keys.SelectDown):
		v.moveVertical(1, true)
		return nil
	case key.Matches(msg, v.keys.WordLeft):
		v.moveHorizontal(v.buf.WordLeft(), false)
		return nil
	case key.Matches(msg, v.keys.WordRight):
		v.moveHorizontal(v.buf.WordRight(), false)
		return nil
	case key.Matches(msg, v.keys.DeleteWord):
		if v.buf.DeleteWordBack() {
			v.textChanged()
		}
		return nil
	case key.Matches(msg, v.keys.LineStart):
		v.moveHorizontal(v.buf.LineStart(), false)
		return nil
	case key.Matches(msg, v.keys.LineEnd):
		v.moveHorizontal(v.buf.LineEnd(), false)
		return nil
	case key.Matches(msg, v.keys.PageUp):
		v.moveVertical(-v.editorHeight(), false)
		return nil
	case key.Matches(msg, v.keys.PageDown):
		v.moveVertical(v.editorHeight(), false)
		return nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		v.buf.Insert(string(msg.Runes))
		v.textChanged()
	case tea.KeySpace:
		v.buf.Insert(" ")
		v.textChanged()
	case tea.KeyEnter:
		v.buf.Insert("\n")
		v.textChanged()
		if v.opts.LintOnEnter {
			return v.request(true)
		}
	case tea.KeyBackspace:
		if v.buf.Backspace() {
			v.textChanged()
		}
	case tea.KeyDelete:
		if v.buf.Delete() {
			v.textChanged()
		}
	case tea.KeyLeft:
		v.moveHorizontal(v.buf.Cursor()-1, false)
	case tea.KeyRight:
		v.moveHorizontal(v.buf.Cursor()+1, false)
	case tea.KeyUp:
		v.moveVertical(-1, false)
	case tea.KeyDown:
		v.moveVertical(1, false)
	}
	return nil
}

func (v *View) handleMouse(msg tea.MouseMsg) tea.Cmd {
	ew := v.editorWidth()

	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		delta := 3
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -3
		}
		if v.sidebarVisible() && msg.X >= ew {
			v.sidebar.scroll(delta)
		} else {
			v.scrollBy(delta)
		}
		return nil
	}

	if v.sidebarVisible() && msg.X >= ew {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if a, ok := v.sidebar.annotationAt(msg.Y); ok {
				if u, ok := v.engine.UnitAt(a.Start); ok {
					v.engine.Activate(u.ID)
					v.scrollTo(u.Start)
					v.refreshSidebar()
				}
			}
		}
		return nil
	}

	if msg.Y >= v.editorHeight() {
		return nil
	}

	offset, inside := v.layout.OffsetAt(v.scroll+msg.Y, msg.X-v.gutter)

	switch msg.Action {
	case tea.MouseActionMotion:
		if msg.Button == tea.MouseButtonLeft && v.dragging {
			v.buf.MoveTo(offset, true)
			return nil
		}
		if u, ok := v.engine.UnitAt(offset); inside && ok {
			v.engine.Hover(u.ID)
		} else {
			v.engine.ClearHover()
		}
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		v.dragging = true
		v.engine.Dismiss()
		v.buf.MoveTo(offset, false)
		v.buf.goalX = -1
	case tea.MouseActionRelease:
		if !v.dragging {
			return nil
		}
		v.dragging = false
		if _, _, ok := v.buf.Selection(); ok {
			return nil
		}
		if u, ok := v.engine.UnitAt(offset); inside && ok {
			v.engine.Activate(u.ID)
			v.refreshSidebar()
		}
	}
	return nil
}

// cycleHover moves the hover mark to the next or previous unit.
func (v *View) cycleHover(dir int) {
	units := v.engine.Merged()
	if len(units) == 0 {
		return
	}

	idx := -1
	if id, ok := v.engine.Hovered(); ok {
		for i, u := range units {
			if u.ID == id {
				idx = i
				break
			}
		}
	}

	switch {
	case idx < 0 && dir > 0:
		idx = 0
	case idx < 0:
		idx = len(units) - 1
	default:
		idx = (idx + dir + len(units)) % len(units)
	}

	v.engine.Hover(units[idx].ID)
	v.scrollTo(units[idx].Start)
}

// inspect activates the hovered unit, or the unit under the cursor.
func (v *View) inspect() {
	if id, ok := v.engine.Hovered(); ok {
		if u, ok := v.engine.Activate(id); ok {
			v.scrollTo(u.Start)
		}
		v.refreshSidebar()
		return
	}

	cursor := v.buf.Cursor()
	u, ok := v.engine.UnitAt(cursor)
	if !ok && cursor > 0 {
		u, ok = v.engine.UnitAt(cursor - 1)
	}
	if ok {
		v.engine.Activate(u.ID)
		v.refreshSidebar()
	}
}

func (v *View) moveHorizontal(offset int, extend bool) {
	v.buf.MoveTo(offset, extend)
	v.buf.goalX = -1
	v.moved()
}

func (v *View) moveVertical(delta int, extend bool) {
	if v.buf.goalX < 0 {
		_, v.buf.goalX = v.layout.Position(v.buf.Cursor())
	}
	goal := v.buf.goalX
	v.buf.MoveTo(v.layout.Vertical(v.buf.Cursor(), delta, goal), extend)
	v.buf.goalX = goal
	v.moved()
}

func (v *View) moved() {
	if _, ok := v.engine.Selected(); ok {
		v.engine.Dismiss()
		v.refreshSidebar()
	}
	v.ensureCursorVisible()
}

// textChanged pushes the buffer into the engine, which re-anchors the
// annotations and schedules the settled notification.
func (v *View) textChanged() {
	v.engine.SetText(v.buf.Text())
	v.saved = false
	v.relayout()
	v.ensureCursorVisible()
	v.refreshSidebar()
}

func (v *View) save() tea.Cmd {
	text := v.buf.Text()
	if v.opts.Path == "" {
		v.saveDraft(text)
		if v.opts.Notify != nil {
			v.opts.Notify.Infof("Draft saved")
		}
		return nil
	}

	path := v.opts.Path
	// the watcher may report this write before savedMsg arrives
	v.onDisk = text
	return func() tea.Msg {
		err := os.WriteFile(path, []byte(text), 0o644)
		if err != nil {
			err = fmt.Errorf("write %s: %w", path, err)
		}
		return savedMsg{path: path, text: text, err: err}
	}
}

func (v *View) saveDraft(text string) {
	if v.opts.Drafts == nil {
		return
	}
	if err := v.opts.Drafts.Set(v.ctx, DraftKey, text); err != nil {
		v.log.Warn().Err(err).Msg("failed to save draft")
		return
	}
	v.saved = true
}

func (v *View) notifyErrorf(format string, args ...any) {
	if v.opts.Notify != nil {
		v.opts.Notify.Errorf(format, args...)
	}
}

func (v *View) refreshSidebar() {
	hovered, hasHover := v.engine.Hovered()
	selected, hasSelected := v.engine.Selected()

	var highlight overlay.Annotation
	switch {
	case hasSelected:
		highlight = selected
	case hasHover:
		highlight, hasHover = v.engine.Unit(hovered)
	}
	active := hasSelected || hasHover

	v.sidebar.setAnnotations(v.engine.Annotations(), func(a overlay.Annotation) bool {
		return active && a.Start >= highlight.Start && a.End <= highlight.End
	})
}

func (v *View) sidebarVisible() bool {
	return v.showSidebar && v.width-SidebarWidth >= minEditorWidth
}

func (v *View) editorWidth() int {
	if v.sidebarVisible() {
		return v.width - SidebarWidth
	}
	return v.width
}

func (v *View) editorHeight() int {
	return max(v.height-1, 1)
}

func (v *View) relayout() {
	lines := 1
	for _, r := range v.buf.Runes() {
		if r == '\n' {
			lines++
		}
	}
	v.gutter = gutterWidth(lines)
	v.layout = NewLayout(v.buf.Runes(), v.editorWidth()-v.gutter)
	v.sidebar.setSize(SidebarWidth, v.editorHeight())
}

func (v *View) ensureCursorVisible() {
	v.scrollTo(v.buf.Cursor())
}

// scrollTo adjusts the scroll position so that offset is on screen.
func (v *View) scrollTo(offset int) {
	row := v.layout.RowOf(offset)
	h := v.editorHeight()
	if row < v.scroll {
		v.scroll = row
	}
	if row >= v.scroll+h {
		v.scroll = row - h + 1
	}
	v.clampScroll()
}

func (v *View) scrollBy(delta int) {
	v.scroll += delta
	v.clampScroll()
}

func (v *View) clampScroll() {
	maxScroll := max(v.layout.Rows()-v.editorHeight(), 0)
	v.scroll = min(max(v.scroll, 0), maxScroll)
}

// View renders the editor area, the sidebar when open and the status bar.
func (v *View) View() string {
	ew := v.editorWidth()
	h := v.editorHeight()

	f := frame{
		layout:     v.layout,
		segments:   v.engine.Segments(),
		cursor:     v.buf.Cursor(),
		showCursor: true,
		top:        v.scroll,
		height:     h,
		gutter:     v.gutter,
	}
	f.selStart, f.selEnd, f.hasSelection = v.buf.Selection()
	f.hovered, f.hasHover = v.engine.Hovered()

	rows := f.render()
	for i, r := range rows {
		rows[i] = padRight(r, ew)
	}
	body := strings.Join(rows, "\n")

	if u, ok := v.engine.Selected(); ok {
		body = v.placeTooltip(body, u, ew, h)
	}

	if v.sidebarVisible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, v.sidebar.view())
	}

	return body + "\n" + v.statusBar()
}

// placeTooltip draws the popup for u below its last row, or above its first
// row when there is no room below.
func (v *View) placeTooltip(body string, u overlay.Annotation, width, height int) string {
	tip := renderTooltip(u, width)
	tw, th := components.Size(tip)

	firstRow, col := v.layout.Position(u.Start)
	lastRow := v.layout.RowOf(max(u.End-1, u.Start))

	y := lastRow - v.scroll + 1
	if y+th > height {
		y = firstRow - v.scroll - th
	}
	if y < 0 || y+th > height {
		return body
	}

	x := min(v.gutter+col, max(width-tw, 0))
	return components.Place(body, tip, x, y)
}

func (v *View) statusBar() string {
	name := "[draft]"
	if v.opts.Path != "" {
		name = filepath.Base(v.opts.Path)
	}
	if !v.saved {
		name += " *"
	}

	line, col := v.buf.LineCol()
	left := fmt.Sprintf(" %s  Ln %d, Col %d", name, line, col)

	var state string
	switch {
	case v.inflight:
		state = v.spinner.View() + " analyzing"
	default:
		n := len(v.engine.Annotations())
		state = fmt.Sprintf("%d issues", n)
		if n == 1 {
			state = "1 issue"
		}
	}

	right := v.help.ShortHelpView(v.keys.ShortHelp()) + " "
	mid := "  " + state

	gap := v.width - ansi.StringWidth(left) - ansi.StringWidth(mid) - ansi.StringWidth(right)
	if gap < 1 {
		right = ""
		gap = max(v.width-ansi.StringWidth(left)-ansi.StringWidth(mid), 0)
	}

	bar := left + mid + strings.Repeat(" ", gap) + right
	return styles.StatusBarStyle.Render(ansi.Truncate(bar, v.width, ""))
}

func padRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
