package panel

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/charnotes/internal/host"
	"github.com/marcus/charnotes/internal/msg"
	"github.com/marcus/charnotes/internal/notes"
	"github.com/marcus/charnotes/internal/styles"
	"github.com/marcus/charnotes/internal/ui"
)

// focusArea identifies the focused panel element, in tab order.
type focusArea int

const (
	focusFolderSelect focusArea = iota
	focusNoteSelect
	focusFolderInput
	focusTitle
	focusBody
	focusNewBtn
	focusSaveBtn
	focusDeleteBtn
	focusDeleteFolderBtn
	focusCount
)

const (
	minPanelWidth  = 48
	minBodyHeight  = 3
	headerRows     = 2 // top border and header line
	closeLabel     = "[x]"
	labelWidth     = 8
	horizontalTrim = 4 // border and padding
)

// Config configures a Model.
type Config struct {
	Width      int // outer panel width
	BodyHeight int
	ShowHelp   bool
	// Position restores a previous panel position.
	Position *Point
	// OnMove is called when a drag or keyboard move ends.
	OnMove func(x, y int)
	// Clipboard copies text; nil uses the system clipboard.
	Clipboard func(string) error
}

// Point is a screen position.
type Point struct {
	X, Y int
}

// Model renders a Controller as a floating, draggable panel.
type Model struct {
	ctrl *Controller
	keys KeyMap

	width, height int // screen
	panelWidth    int
	bodyHeight    int
	showHelp      bool

	pos        Point
	positioned bool
	dragging   bool
	dragOffset Point
	onMove     func(x, y int)
	copyText   func(string) error

	focus         focusArea
	folderInput   textinput.Model
	titleInput    textinput.Model
	body          textarea.Model
	preview       bool
	previewer     *Previewer
	confirmDelete bool
}

// New returns a Model around ctrl.
func New(ctrl *Controller, cfg Config) Model {
	if cfg.Width < minPanelWidth {
		cfg.Width = minPanelWidth
	}
	if cfg.BodyHeight < minBodyHeight {
		cfg.BodyHeight = minBodyHeight
	}
	copyText := cfg.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	contentWidth := cfg.Width - horizontalTrim
	inputWidth := contentWidth - labelWidth - 1

	fi := textinput.New()
	fi.Prompt = ""
	fi.Placeholder = FolderLabel(notes.RootFolder)
	fi.Width = inputWidth
	fi.CharLimit = 64

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Note Title"
	ti.Width = inputWidth
	ti.CharLimit = 200

	ta := textarea.New()
	ta.Prompt = ""
	ta.Placeholder = "Note content..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(contentWidth)
	ta.SetHeight(cfg.BodyHeight)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle = ta.FocusedStyle
	ta.Blur()

	m := Model{
		ctrl:        ctrl,
		keys:        DefaultKeyMap(),
		panelWidth:  cfg.Width,
		bodyHeight:  cfg.BodyHeight,
		showHelp:    cfg.ShowHelp,
		onMove:      cfg.OnMove,
		copyText:    copyText,
		folderInput: fi,
		titleInput:  ti,
		body:        ta,
		previewer:   NewPreviewer(styles.GetMarkdownTheme()),
	}
	if cfg.Position != nil {
		m.pos = *cfg.Position
		m.positioned = true
	}
	m.syncFields()
	return m
}

// Controller returns the underlying controller.
func (m Model) Controller() *Controller {
	return m.ctrl
}

// IsOpen reports whether the panel is visible.
func (m Model) IsOpen() bool {
	return m.ctrl.IsOpen()
}

// Position returns the panel's top-left corner on screen.
func (m Model) Position() Point {
	return m.pos
}

// Open opens the panel and focuses the title field.
func (m Model) Open() (Model, tea.Cmd) {
	m.ctrl.Open()
	m.confirmDelete = false
	m.preview = false
	m.syncFields()
	if !m.ctrl.IsOpen() {
		return m, nil
	}
	return m.setFocus(focusTitle)
}

// SetSize records the screen size and keeps the panel on screen.
func (m Model) SetSize(width, height int) Model {
	m.width, m.height = width, height
	if m.positioned {
		m.pos = m.clamp(m.pos)
	}
	return m
}

// CharacterChanged forwards an identity change and refreshes the fields.
func (m Model) CharacterChanged(id string) Model {
	m.ctrl.OnCharacterChanged(id)
	m.confirmDelete = false
	m.syncFields()
	return m
}

// Update handles input while the panel is open.
func (m Model) Update(message tea.Msg) (Model, tea.Cmd) {
	if !m.ctrl.IsOpen() {
		return m, nil
	}
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(message.Width, message.Height), nil
	case tea.KeyMsg:
		return m.handleKey(message)
	case tea.MouseMsg:
		return m.handleMouse(message)
	}
	return m.updateFocused(message)
}

func (m Model) handleKey(k tea.KeyMsg) (Model, tea.Cmd) {
	if m.confirmDelete {
		switch {
		case key.Matches(k, m.keys.Confirm):
			m.confirmDelete = false
			m.ctrl.OnDeleteFolderRequested()
			m.syncFields()
			return m.setFocus(focusFolderSelect)
		case key.Matches(k, m.keys.Cancel):
			m.confirmDelete = false
		}
		return m, nil
	}

	switch {
	case key.Matches(k, m.keys.Close):
		m.ctrl.Close()
		m.blurAll()
		return m, nil
	case key.Matches(k, m.keys.Next):
		return m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(k, m.keys.Prev):
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	case key.Matches(k, m.keys.Save):
		return m.save()
	case key.Matches(k, m.keys.New):
		return m.newNote()
	case key.Matches(k, m.keys.Delete):
		return m.deleteNote()
	case key.Matches(k, m.keys.DeleteFolder):
		return m.askDeleteFolder()
	case key.Matches(k, m.keys.Preview):
		m.preview = !m.preview
		if m.preview && m.focus == focusBody {
			return m.setFocus(focusSaveBtn)
		}
		return m, nil
	case key.Matches(k, m.keys.Copy):
		return m, m.copyBody()
	case key.Matches(k, m.keys.MoveUp):
		return m.moveBy(0, -1), nil
	case key.Matches(k, m.keys.MoveDown):
		return m.moveBy(0, 1), nil
	case key.Matches(k, m.keys.MoveLeft):
		return m.moveBy(-2, 0), nil
	case key.Matches(k, m.keys.MoveRight):
		return m.moveBy(2, 0), nil
	}

	switch m.focus {
	case focusFolderSelect, focusNoteSelect:
		switch {
		case key.Matches(k, m.keys.OptionPrev):
			return m.cycle(-1), nil
		case key.Matches(k, m.keys.OptionNext):
			return m.cycle(1), nil
		case key.Matches(k, m.keys.Activate):
			return m.setFocus(m.focus + 1)
		}
		return m, nil
	case focusNewBtn, focusSaveBtn, focusDeleteBtn, focusDeleteFolderBtn:
		if key.Matches(k, m.keys.Activate) {
			return m.press(m.focus)
		}
		switch {
		case key.Matches(k, m.keys.OptionPrev) && m.focus > focusNewBtn:
			return m.setFocus(m.focus - 1)
		case key.Matches(k, m.keys.OptionNext) && m.focus < focusDeleteFolderBtn:
			return m.setFocus(m.focus + 1)
		}
		return m, nil
	case focusFolderInput, focusTitle:
		if k.Type == tea.KeyEnter {
			return m.setFocus(m.focus + 1)
		}
	}
	return m.updateFocused(k)
}

func (m Model) press(button focusArea) (Model, tea.Cmd) {
	switch button {
	case focusNewBtn:
		return m.newNote()
	case focusSaveBtn:
		return m.save()
	case focusDeleteBtn:
		return m.deleteNote()
	case focusDeleteFolderBtn:
		return m.askDeleteFolder()
	}
	return m, nil
}

func (m Model) save() (Model, tea.Cmd) {
	typed := m.folderInput.Value()
	saved := m.ctrl.OnSaveRequested(m.titleInput.Value(), m.body.Value(), typed)
	m.syncFields()
	if !saved {
		m.folderInput.SetValue(typed)
	}
	return m, nil
}

func (m Model) newNote() (Model, tea.Cmd) {
	m.ctrl.OnNewRequested()
	m.syncFields()
	return m.setFocus(focusTitle)
}

func (m Model) deleteNote() (Model, tea.Cmd) {
	m.ctrl.OnDeleteNoteRequested()
	m.syncFields()
	return m, nil
}

func (m Model) askDeleteFolder() (Model, tea.Cmd) {
	if isRoot(m.ctrl.View()) {
		// The controller reports the refusal.
		m.ctrl.OnDeleteFolderRequested()
		return m, nil
	}
	m.confirmDelete = true
	return m, nil
}

// cycle moves the focused selector by delta, wrapping around.
func (m Model) cycle(delta int) Model {
	v := m.ctrl.View()
	switch m.focus {
	case focusFolderSelect:
		i := indexOf(v.Folders, v.Selection.Folder)
		i = wrap(i+delta, len(v.Folders))
		m.ctrl.OnFolderChosen(v.Folders[i])
	case focusNoteSelect:
		// Option 0 is "new note", option i+1 is note i.
		opt := wrap(v.Selection.Index+1+delta, len(v.Titles)+1)
		m.ctrl.OnNoteChosen(opt - 1)
	}
	m.syncFields()
	return m
}

func (m Model) copyBody() tea.Cmd {
	text := m.body.Value()
	copyText := m.copyText
	return func() tea.Msg {
		if strings.TrimSpace(text) == "" {
			return msg.ToastMsg{Message: "Nothing to copy.", Duration: msg.ToastDuration(host.Warning), Severity: host.Warning}
		}
		if err := copyText(text); err != nil {
			return msg.ToastMsg{Message: "Copy failed: " + err.Error(), Duration: msg.ToastDuration(host.Error), Severity: host.Error}
		}
		return msg.ToastMsg{Message: "Note copied to clipboard.", Duration: msg.ToastDuration(host.Success)}
	}
}

// syncFields loads the controller's fields into the inputs.
func (m *Model) syncFields() {
	v := m.ctrl.View()
	if v.Selection.Folder == notes.RootFolder {
		m.folderInput.SetValue("")
	} else {
		m.folderInput.SetValue(v.Selection.Folder)
	}
	m.titleInput.SetValue(v.Title)
	m.body.SetValue(v.Text)
}

func (m Model) setFocus(f focusArea) (Model, tea.Cmd) {
	if f == focusBody && m.preview {
		// The body is read-only while previewing.
		if m.focus < focusBody {
			f = focusNewBtn
		} else {
			f = focusTitle
		}
	}
	m.blurAll()
	m.focus = f
	switch f {
	case focusFolderInput:
		return m, m.folderInput.Focus()
	case focusTitle:
		return m, m.titleInput.Focus()
	case focusBody:
		return m, m.body.Focus()
	}
	return m, nil
}

func (m *Model) blurAll() {
	m.folderInput.Blur()
	m.titleInput.Blur()
	m.body.Blur()
}

func (m Model) updateFocused(message tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusFolderInput:
		m.folderInput, cmd = m.folderInput.Update(message)
	case focusTitle:
		m.titleInput, cmd = m.titleInput.Update(message)
	case focusBody:
		m.body, cmd = m.body.Update(message)
	}
	return m, cmd
}

func (m Model) handleMouse(mm tea.MouseMsg) (Model, tea.Cmd) {
	switch mm.Action {
	case tea.MouseActionPress:
		if mm.Button != tea.MouseButtonLeft {
			return m, nil
		}
		pos := m.origin()
		if !m.onHeader(pos, mm.X, mm.Y) {
			return m, nil
		}
		if m.onCloseButton(pos, mm.X, mm.Y) {
			m.ctrl.Close()
			m.blurAll()
			return m, nil
		}
		m.dragging = true
		m.dragOffset = Point{X: mm.X - pos.X, Y: mm.Y - pos.Y}
		m.pos = pos
		m.positioned = true
	case tea.MouseActionMotion:
		if m.dragging {
			m.pos = m.clamp(Point{X: mm.X - m.dragOffset.X, Y: mm.Y - m.dragOffset.Y})
		}
	case tea.MouseActionRelease:
		if m.dragging {
			m.dragging = false
			m.notifyMove()
		}
	}
	return m, nil
}

func (m Model) moveBy(dx, dy int) Model {
	pos := m.origin()
	m.pos = m.clamp(Point{X: pos.X + dx, Y: pos.Y + dy})
	m.positioned = true
	m.notifyMove()
	return m
}

func (m Model) notifyMove() {
	if m.onMove != nil {
		m.onMove(m.pos.X, m.pos.Y)
	}
}

// origin returns where the panel is drawn: the saved position, or centered.
func (m Model) origin() Point {
	w, h := ui.Size(m.renderPanel())
	if m.positioned {
		x, y := ui.ClampPosition(m.pos.X, m.pos.Y, w, h, m.width, m.height)
		return Point{X: x, Y: y}
	}
	x, y := ui.Center(w, h, m.width, m.height)
	return Point{X: x, Y: y}
}

func (m Model) clamp(p Point) Point {
	w, h := ui.Size(m.renderPanel())
	x, y := ui.ClampPosition(p.X, p.Y, w, h, m.width, m.height)
	return Point{X: x, Y: y}
}

// onHeader reports whether (x, y) hits the top border or header line.
func (m Model) onHeader(pos Point, x, y int) bool {
	return y >= pos.Y && y < pos.Y+headerRows && x >= pos.X && x < pos.X+m.panelWidth
}

func (m Model) onCloseButton(pos Point, x, y int) bool {
	right := pos.X + m.panelWidth - 3 // border, padding and header padding
	return y == pos.Y+1 && x >= right-len(closeLabel) && x < right
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return 0
}

func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}
