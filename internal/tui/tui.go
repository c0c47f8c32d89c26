// Package tui provides the Bubble Tea review panel: a file list beside
// a diff pane with inline and split layouts, plus in-place line edits.
package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/revpane/internal/diffview"
	"github.com/fakeyudi/revpane/internal/highlight"
	"github.com/fakeyudi/revpane/internal/review"
	"github.com/fakeyudi/revpane/internal/summary"
	"github.com/fakeyudi/revpane/internal/watcher"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	fileListStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.Color("238"))

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))

	cursorRowStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236"))

	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	statusAddedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	statusDeletedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	statusRenamedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("178")).Bold(true)
	statusModifiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)

	diffAddStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	diffDelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	diffHunkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	gutterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	padCellStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// ── Focus ────────────

type focusArea int

const (
	focusFiles focusArea = iota
	focusDiff
)

// ── Messages ─────────

// refreshedMsg carries a freshly computed snapshot.
type refreshedMsg struct {
	files []review.FileReview
}

// treeChangedMsg signals a debounced working-tree change.
type treeChangedMsg struct{}

// warnMsg surfaces a non-fatal problem in the status bar.
type warnMsg struct {
	text string
}

// ── Model ────────────

// Model is the root Bubble Tea model for the review panel.
type Model struct {
	session *review.Session
	watch   *watcher.Watcher
	files   []review.FileReview

	focus      focusArea
	fileCursor int
	lineCursor int
	splitView  bool

	editing bool
	input   textinput.Model

	viewport viewport.Model
	width    int
	height   int
	ready    bool
	warning  string
}

// New creates the panel model for an existing session. watch may be
// nil when auto-refresh is disabled; split selects the starting layout.
func New(s *review.Session, w *watcher.Watcher, split bool) Model {
	ti := textinput.New()
	ti.Prompt = "edit> "
	ti.CharLimit = 0
	return Model{session: s, watch: w, splitView: split, input: ti}
}

// ── Bubble Tea interface ─────

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refreshCmd()}
	if m.watch != nil {
		cmds = append(cmds, m.waitForTreeChange())
	}
	return tea.Batch(cmds...)
}

// refreshCmd recomputes the snapshot off the update loop.
func (m Model) refreshCmd() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return refreshedMsg{files: s.Refresh(context.Background())}
	}
}

// waitForTreeChange blocks on the watcher and re-arms itself after
// every signal.
func (m Model) waitForTreeChange() tea.Cmd {
	w := m.watch
	return func() tea.Msg {
		if _, ok := <-w.Changes; !ok {
			return nil
		}
		return treeChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewport()
		m.rebuildDiff()
		return m, nil

	case refreshedMsg:
		m.files = msg.files
		if m.fileCursor >= len(m.files) {
			m.fileCursor = max(0, len(m.files)-1)
		}
		m.clampLineCursor()
		m.rebuildDiff()
		return m, nil

	case treeChangedMsg:
		// A newer snapshot simply replaces the old one when it lands.
		return m, tea.Batch(m.refreshCmd(), m.waitForTreeChange())

	case warnMsg:
		m.warning = msg.text
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updateBrowsing handles keys outside edit mode.
func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.watch != nil {
			m.watch.Close()
		}
		return m, tea.Quit

	case "tab":
		if m.focus == focusFiles {
			m.focus = focusDiff
		} else {
			m.focus = focusFiles
		}
		return m, nil

	case "r":
		m.warning = ""
		return m, m.refreshCmd()

	case "s":
		m.splitView = !m.splitView
		m.rebuildDiff()
		return m, nil

	case "e":
		if err := m.session.Handle(context.Background(), review.ToggleEditingCmd{}); err != nil {
			m.warning = err.Error()
		} else if m.session.InlineEditing() {
			m.warning = "inline editing enabled"
		} else {
			m.warning = "inline editing disabled"
		}
		return m, nil

	case "o":
		if fr := m.currentFile(); fr != nil {
			return m, m.openInEditor(fr.Record.Path)
		}
		return m, nil

	case "up", "k":
		if m.focus == focusFiles {
			if m.fileCursor > 0 {
				m.fileCursor--
				m.lineCursor = 0
				m.rebuildDiff()
			}
			return m, nil
		}
		if m.lineCursor > 0 {
			m.lineCursor--
			m.rebuildDiff()
			m.scrollToCursor()
		}
		return m, nil

	case "down", "j":
		if m.focus == focusFiles {
			if m.fileCursor < len(m.files)-1 {
				m.fileCursor++
				m.lineCursor = 0
				m.rebuildDiff()
			}
			return m, nil
		}
		if fr := m.currentFile(); fr != nil && m.lineCursor < len(fr.Diff.Inline)-1 {
			m.lineCursor++
			m.rebuildDiff()
			m.scrollToCursor()
		}
		return m, nil

	case "enter":
		if m.focus != focusDiff {
			m.focus = focusDiff
			return m, nil
		}
		return m.beginEdit()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updateEditing handles keys while the line editor is open.
func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil

	case "enter":
		fr := m.currentFile()
		if fr == nil {
			m.editing = false
			return m, nil
		}
		row := fr.Diff.EditableAt(m.lineCursor)
		if row == nil {
			m.editing = false
			return m, nil
		}
		cmd := review.SaveLineCmd{
			Path:    fr.Record.Path,
			Line:    row.NewLine,
			Content: m.input.Value(),
		}
		m.editing = false
		m.input.Blur()
		s := m.session
		return m, func() tea.Msg {
			if err := s.Handle(context.Background(), cmd); err != nil {
				return warnMsg{text: err.Error()}
			}
			return refreshedMsg{files: s.Files()}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// beginEdit opens the inline editor on the cursor row when allowed.
func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	if !m.session.InlineEditing() {
		m.warning = "inline editing is disabled (press e to enable)"
		return m, nil
	}
	fr := m.currentFile()
	if fr == nil {
		return m, nil
	}
	row := fr.Diff.EditableAt(m.lineCursor)
	if row == nil {
		m.warning = "this line has no location in the working copy"
		return m, nil
	}
	m.warning = ""
	m.editing = true
	m.input.SetValue(row.Text)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// openInEditor launches $EDITOR on the file and refreshes afterwards.
func (m Model) openInEditor(path string) tea.Cmd {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	c := exec.Command(editor, path)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			return warnMsg{text: fmt.Sprintf("editor: %v", err)}
		}
		return treeChangedMsg{}
	})
}

// ── View ─────────────

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render(fmt.Sprintf("  revpane  base: %s", m.session.Base))

	listW := m.fileListWidth()
	list := fileListStyle.Render(m.renderFileList(listW, m.contentHeight()))
	diff := m.viewport.View()
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, diff)

	var bottom string
	if m.editing {
		bottom = statusBarStyle.Width(m.width).Render(m.input.View())
	} else {
		bottom = m.renderStatusBar()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, bottom)
}

func (m Model) renderStatusBar() string {
	hint := "  tab pane  ↑/↓ move  s split  e editing  enter edit  o open  r refresh  q quit"
	if m.warning != "" {
		hint = "  " + warnStyle.Render("⚠ "+m.warning)
	}

	mode := "inline"
	if m.splitView {
		mode = "split"
	}
	editing := "editing off"
	if m.session.InlineEditing() {
		editing = "editing on"
	}
	right := fmt.Sprintf("%s · %s ", mode, editing)

	pad := m.width - lipgloss.Width(hint) - lipgloss.Width(right) - 2
	if pad < 1 {
		pad = 1
	}
	return statusBarStyle.Width(m.width).Render(hint + strings.Repeat(" ", pad) + right)
}

// renderFileList paints the change summary column.
func (m Model) renderFileList(width, height int) string {
	var sb strings.Builder
	if len(m.files) == 0 {
		sb.WriteString(dimStyle.Render("  no changes"))
	}
	for i, fr := range m.files {
		marker := statusMarker(fr.Record.Status)
		stats := dimStyle.Render(fmt.Sprintf("+%d -%d", fr.Record.Additions, fr.Record.Deletions))
		row := fmt.Sprintf(" %s %s %s", marker, fr.Record.Path, stats)
		if i == m.fileCursor {
			style := cursorRowStyle
			if m.focus == focusFiles {
				style = selectedRowStyle
			}
			row = style.Width(width).MaxWidth(width).Render(row)
		} else {
			row = lipgloss.NewStyle().Width(width).MaxWidth(width).Render(row)
		}
		sb.WriteString(row + "\n")
	}
	content := strings.TrimRight(sb.String(), "\n")
	return lipgloss.NewStyle().Width(width).Height(height).Render(content)
}

func statusMarker(s summary.Status) string {
	switch s {
	case summary.StatusAdded:
		return statusAddedStyle.Render("A")
	case summary.StatusDeleted:
		return statusDeletedStyle.Render("D")
	case summary.StatusRenamed:
		return statusRenamedStyle.Render("R")
	}
	return statusModifiedStyle.Render("M")
}

// ── Diff rendering ────

// rebuildDiff re-renders the diff pane content into the viewport.
func (m *Model) rebuildDiff() {
	if !m.ready {
		return
	}
	fr := m.currentFile()
	if fr == nil || fr.Diff.Empty() {
		m.viewport.SetContent(dimStyle.Render("  (no diff)"))
		return
	}
	if m.splitView {
		m.viewport.SetContent(m.renderSplit(fr))
	} else {
		m.viewport.SetContent(m.renderInline(fr))
	}
}

// renderInline paints one row per DiffLine with old/new gutters.
func (m Model) renderInline(fr *review.FileReview) string {
	var sb strings.Builder
	for i, row := range fr.Diff.Inline {
		line := m.renderInlineRow(fr.Record.Path, row)
		if i == m.lineCursor && m.focus == focusDiff {
			line = cursorRowStyle.Render(line)
		}
		sb.WriteString(line + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) renderInlineRow(path string, row diffview.DiffLine) string {
	switch row.Kind {
	case diffview.HunkHeader:
		return diffHunkStyle.Render(" " + row.Text)
	case diffview.Addition:
		gutter := gutterStyle.Render(fmt.Sprintf(" %4s %4d ", "", row.NewLine))
		return gutter + diffAddStyle.Render("+") + highlight.Line(path, row.Text)
	case diffview.Deletion:
		gutter := gutterStyle.Render(fmt.Sprintf(" %4d %4s ", row.OldLine, ""))
		return gutter + diffDelStyle.Render("-"+row.Text)
	}
	gutter := gutterStyle.Render(fmt.Sprintf(" %4d %4d ", row.OldLine, row.NewLine))
	return gutter + " " + highlight.Line(path, row.Text)
}

// renderSplit paints the two-pane layout, padding the empty side.
func (m Model) renderSplit(fr *review.FileReview) string {
	paneW := (m.diffWidth() - 1) / 2
	if paneW < 10 {
		return m.renderInline(fr) // too narrow, fall back
	}
	sep := dimStyle.Render("│")

	var sb strings.Builder
	for i, row := range fr.Diff.Split {
		left := m.renderSplitCell(row.Left, paneW, true)
		right := m.renderSplitCell(row.Right, paneW, false)
		line := left + sep + right
		if i == m.lineCursor && m.focus == focusDiff {
			line = cursorRowStyle.Render(line)
		}
		sb.WriteString(line + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) renderSplitCell(line *diffview.DiffLine, width int, left bool) string {
	cell := lipgloss.NewStyle().Width(width).MaxWidth(width)
	if line == nil {
		return cell.Render(padCellStyle.Render("·"))
	}

	switch line.Kind {
	case diffview.HunkHeader:
		return cell.Render(diffHunkStyle.Render(" " + line.Text))
	case diffview.Addition:
		return cell.Render(gutterStyle.Render(fmt.Sprintf(" %4d ", line.NewLine)) +
			diffAddStyle.Render("+"+line.Text))
	case diffview.Deletion:
		return cell.Render(gutterStyle.Render(fmt.Sprintf(" %4d ", line.OldLine)) +
			diffDelStyle.Render("-"+line.Text))
	}

	num := line.NewLine
	if left {
		num = line.OldLine
	}
	return cell.Render(gutterStyle.Render(fmt.Sprintf(" %4d ", num)) + " " + line.Text)
}

// ── Layout helpers ────

func (m Model) fileListWidth() int {
	w := m.width / 3
	if w < 24 {
		w = 24
	}
	if w > 48 {
		w = 48
	}
	if w >= m.width {
		w = m.width / 2
	}
	return w
}

func (m Model) diffWidth() int {
	return m.width - m.fileListWidth() - 1 // border column
}

func (m Model) contentHeight() int {
	// title(1) + status bar(1)
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) resizeViewport() {
	m.viewport = viewport.New(m.diffWidth(), m.contentHeight())
}

func (m *Model) scrollToCursor() {
	top := m.viewport.YOffset
	bottom := top + m.viewport.Height - 1
	if m.lineCursor < top {
		m.viewport.SetYOffset(m.lineCursor)
	} else if m.lineCursor > bottom {
		m.viewport.SetYOffset(m.lineCursor - m.viewport.Height + 1)
	}
}

func (m *Model) clampLineCursor() {
	fr := m.currentFile()
	if fr == nil {
		m.lineCursor = 0
		return
	}
	if m.lineCursor >= len(fr.Diff.Inline) {
		m.lineCursor = max(0, len(fr.Diff.Inline)-1)
	}
}

func (m *Model) currentFile() *review.FileReview {
	if m.fileCursor < 0 || m.fileCursor >= len(m.files) {
		return nil
	}
	return &m.files[m.fileCursor]
}

// Run starts the panel for the given session.
func Run(s *review.Session, w *watcher.Watcher, split bool) error {
	p := tea.NewProgram(New(s, w, split), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
