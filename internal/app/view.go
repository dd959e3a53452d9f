package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/charnotes/internal/host"
	"github.com/marcus/charnotes/internal/panel"
	"github.com/marcus/charnotes/internal/styles"
	"github.com/marcus/charnotes/internal/ui"
)

type footerHint struct {
	keys  string
	label string
}

// View renders the shell with the notes panel floating on top.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.renderContent(m.width, contentHeight)
	content = m.panel.Overlay(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

// renderHeader renders the top bar with the active character and clock.
func (m Model) renderHeader() string {
	title := styles.Title.Render(" charnotes")
	who := styles.Muted.Render(" / no character")
	if m.character != "" {
		who = lipgloss.NewStyle().Foreground(styles.Primary).Render(" / " + m.character)
	}
	clock := m.clock.Format("15:04")

	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(who) - lipgloss.Width(clock) - 2
	if spacing < 0 {
		spacing = 0
	}
	return styles.Header.Width(m.width).Render(title + who + strings.Repeat(" ", spacing) + clock)
}

// renderContent renders the area behind the panel.
func (m Model) renderContent(width, height int) string {
	if height == 0 {
		return ""
	}
	var body string
	switch {
	case m.character == "":
		body = styles.Muted.Render("No character is active.\nSelect one in the host to take notes.")
	default:
		body = m.summary()
	}
	content := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
	if m.showHelp {
		content = ui.OverlayModal(content, styles.Panel.Render(m.helpContent()), width, height)
	}
	return content
}

// summary lists the active character's folders with note counts.
func (m Model) summary() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(m.character))
	b.WriteString("\n\n")
	if m.store == nil {
		return b.String()
	}
	folders, err := m.store.ListFolders(m.character)
	if err != nil {
		b.WriteString(styles.Muted.Render("Notes are still loading."))
		return b.String()
	}
	for _, f := range folders {
		list, _ := m.store.ListNotes(m.character, f)
		fmt.Fprintf(&b, "%s %s\n", styles.Body.Render(panel.FolderLabel(f)), styles.Muted.Render(fmt.Sprintf("(%d)", len(list))))
	}
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("Press n to open Character Notes"))
	return b.String()
}

func (m Model) helpContent() string {
	lines := []string{
		styles.Title.Render("Keys"),
		"",
		"n       open Character Notes",
		"?       toggle this help",
		"q       quit",
		"",
		styles.Title.Render("In the notes panel"),
		"",
		"tab     next field",
		"←/→     change folder or note",
		"ctrl+s  save        ctrl+n  new note",
		"ctrl+d  delete note ctrl+x  delete folder",
		"ctrl+p  preview     ctrl+y  copy body",
		"alt+↑↓←→ or drag the header to move",
		"esc     close panel",
	}
	return strings.Join(lines, "\n")
}

// renderFooter renders the bottom bar with key hints and status.
func (m Model) renderFooter() string {
	var status string
	if m.statusMsg != "" {
		status = toastStyle(m.statusSeverity).Render(m.statusMsg)
	}

	hints := []footerHint{{"n", "notes"}, {"?", "help"}, {"q", "quit"}}
	if m.panel.IsOpen() {
		hints = []footerHint{{"esc", "close"}, {"ctrl+s", "save"}, {"ctrl+c", "quit"}}
	}
	if m.version != "" {
		hints = append(hints, footerHint{"", m.version})
	}

	available := m.width - lipgloss.Width(status) - 2
	hintsStr := renderHintLineTruncated(hints, available)
	spacing := m.width - lipgloss.Width(hintsStr) - lipgloss.Width(status)
	if spacing < 0 {
		spacing = 0
	}
	return styles.Footer.Width(m.width).Render(hintsStr + strings.Repeat(" ", spacing) + status)
}

func toastStyle(sev host.Severity) lipgloss.Style {
	switch sev {
	case host.Error:
		return styles.ToastError
	case host.Warning:
		return styles.ToastWarning
	case host.Info:
		return styles.ToastInfo
	default:
		return styles.ToastSuccess
	}
}

// renderHintLineTruncated renders hints but stops adding when maxWidth is exceeded.
func renderHintLineTruncated(hints []footerHint, maxWidth int) string {
	if len(hints) == 0 || maxWidth <= 0 {
		return ""
	}
	var result string
	separator := "  "
	for _, hint := range hints {
		part := hint.label
		if hint.keys != "" {
			part = fmt.Sprintf("%s %s", styles.KeyHint.Render(hint.keys), hint.label)
		} else {
			part = styles.Muted.Render(part)
		}
		candidate := part
		if result != "" {
			candidate = result + separator + part
		}
		if lipgloss.Width(candidate) > maxWidth {
			break // Stop adding hints if we exceed available width
		}
		result = candidate
	}
	return result
}
