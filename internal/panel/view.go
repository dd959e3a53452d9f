package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/charnotes/internal/notes"
	"github.com/marcus/charnotes/internal/styles"
	"github.com/marcus/charnotes/internal/ui"
)

const newNoteLabel = "-- New note --"

// Overlay draws the panel over background. A closed panel returns the
// background unchanged.
func (m Model) Overlay(background string) string {
	if !m.ctrl.IsOpen() || m.width == 0 || m.height == 0 {
		return background
	}
	pos := m.origin()
	return ui.OverlayAt(background, m.renderPanel(), pos.X, pos.Y, m.width, m.height, false)
}

// View renders the panel alone.
func (m Model) View() string {
	if !m.ctrl.IsOpen() {
		return ""
	}
	return m.renderPanel()
}

func (m Model) renderPanel() string {
	v := m.ctrl.View()
	contentWidth := m.panelWidth - horizontalTrim

	var b strings.Builder
	b.WriteString(m.renderHeader(v, contentWidth))
	b.WriteString("\n\n")

	folderOpts := make([]string, len(v.Folders))
	for i, f := range v.Folders {
		folderOpts[i] = FolderLabel(f)
	}
	b.WriteString(m.renderSelector("Folder", folderOpts, indexOf(v.Folders, v.Selection.Folder), focusFolderSelect, contentWidth))
	b.WriteString("\n")

	noteOpts := append([]string{newNoteLabel}, v.Titles...)
	b.WriteString(m.renderSelector("Note", noteOpts, v.Selection.Index+1, focusNoteSelect, contentWidth))
	b.WriteString("\n\n")

	b.WriteString(m.renderField("Folder", m.folderInput.View(), focusFolderInput))
	b.WriteString("\n")
	b.WriteString(m.renderField("Title", m.titleInput.View(), focusTitle))
	b.WriteString("\n\n")

	if m.preview {
		b.WriteString(m.renderPreview(contentWidth))
	} else {
		b.WriteString(m.body.View())
	}
	b.WriteString("\n\n")

	if m.confirmDelete {
		prompt := fmt.Sprintf("Delete folder %s and all its notes? (y/n)", describeFolder(v.Selection.Folder))
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Error).Bold(true).Render(truncate(prompt, contentWidth)))
	} else {
		b.WriteString(m.renderButtons())
	}

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.renderHelp(contentWidth))
	}

	style := styles.Panel
	if m.dragging {
		style = styles.PanelDragging
	}
	return style.Width(m.panelWidth - 2).Render(b.String())
}

func (m Model) renderHeader(v View, width int) string {
	title := "Character Notes"
	if v.Character != "" {
		title += " · " + v.Character
	}
	room := width - len(closeLabel) - 2 // header padding
	title = truncate(title, room)
	gap := room - runewidth.StringWidth(title)
	if gap < 0 {
		gap = 0
	}
	return styles.PanelHeader.Render(title + strings.Repeat(" ", gap) + closeLabel)
}

func (m Model) renderSelector(label string, options []string, selected int, area focusArea, width int) string {
	if selected < 0 || selected >= len(options) {
		selected = 0
	}
	room := width - labelWidth - 12 // arrows and the "n/m" counter
	current := truncate(options[selected], room)
	value := fmt.Sprintf("‹ %s ›", current)
	if len(options) > 1 {
		value += styles.Muted.Render(fmt.Sprintf(" %d/%d", selected+1, len(options)))
	}
	style := styles.Selector
	if m.focus == area {
		style = styles.SelectorFocused
	}
	return styles.Label.Render(label) + style.Render(value)
}

func (m Model) renderField(label, input string, area focusArea) string {
	l := styles.Label
	if m.focus == area {
		l = l.Foreground(styles.Primary)
	}
	return l.Render(label) + input
}

func (m Model) renderPreview(width int) string {
	out, err := m.previewer.Render(m.body.Value(), width)
	if err != nil {
		out = m.body.Value()
	}
	lines := strings.Split(strings.Trim(out, "\n"), "\n")
	if len(lines) > m.bodyHeight {
		lines = lines[:m.bodyHeight]
	}
	for len(lines) < m.bodyHeight {
		lines = append(lines, "")
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderButtons() string {
	btn := func(label string, area focusArea, danger bool) string {
		style := styles.Button
		switch {
		case danger && m.focus == area:
			style = styles.ButtonDangerFocused
		case danger:
			style = styles.ButtonDanger
		case m.focus == area:
			style = styles.ButtonFocused
		}
		return style.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		btn("New", focusNewBtn, false), " ",
		btn("Save", focusSaveBtn, false), " ",
		btn("Delete", focusDeleteBtn, true), " ",
		btn("Del folder", focusDeleteFolderBtn, true),
	)
}

func (m Model) renderHelp(width int) string {
	var parts []string
	for _, b := range m.keys.helpBindings() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	var lines []string
	line := ""
	for _, p := range parts {
		if line != "" && runewidth.StringWidth(line)+3+runewidth.StringWidth(p) > width {
			lines = append(lines, line)
			line = ""
		}
		if line != "" {
			line += " · "
		}
		line += p
	}
	if line != "" {
		lines = append(lines, line)
	}
	return styles.Muted.Render(strings.Join(lines, "\n"))
}

// truncate shortens s to width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// isRoot reports whether the selection is in the root folder.
func isRoot(v View) bool {
	return v.Selection.Folder == notes.RootFolder
}
