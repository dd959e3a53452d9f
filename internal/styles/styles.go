// Package styles holds the lipgloss palette and styles for the notes UI.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette, rebuilt by ApplyTheme.
var (
	Primary = lipgloss.Color("#F59E0B") // Amber, the sticky-note color
	Accent  = lipgloss.Color("#7C3AED")

	Success = lipgloss.Color("#10B981")
	Warning = lipgloss.Color("#F59E0B")
	Error   = lipgloss.Color("#EF4444")
	Info    = lipgloss.Color("#3B82F6")

	TextPrimary   = lipgloss.Color("#F9FAFB")
	TextSecondary = lipgloss.Color("#9CA3AF")
	TextMuted     = lipgloss.Color("#6B7280")

	BgPrimary   = lipgloss.Color("#111827")
	BgSecondary = lipgloss.Color("#1F2937")
	BgTertiary  = lipgloss.Color("#374151")

	BorderNormal = lipgloss.Color("#374151")
	BorderActive = lipgloss.Color("#F59E0B")

	ToastDarkText  = lipgloss.Color("#000000")
	ToastLightText = lipgloss.Color("#FFFFFF")

	CurrentMarkdownTheme = "dark"
)

var (
	// Floating notes panel
	Panel         lipgloss.Style
	PanelDragging lipgloss.Style
	PanelHeader   lipgloss.Style

	Title    lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	KeyHint  lipgloss.Style
	Label    lipgloss.Style
	Selector lipgloss.Style
	// Selector row with keyboard focus
	SelectorFocused lipgloss.Style

	Header lipgloss.Style
	Footer lipgloss.Style

	Button              lipgloss.Style
	ButtonFocused       lipgloss.Style
	ButtonDanger        lipgloss.Style
	ButtonDangerFocused lipgloss.Style

	ToastSuccess lipgloss.Style
	ToastInfo    lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderActive).
		Padding(0, 1)

	PanelDragging = Panel.
		BorderForeground(Accent)

	PanelHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(readableOn(Primary)).
		Background(Primary).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Body = lipgloss.NewStyle().
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	Label = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(8)

	Selector = lipgloss.NewStyle().
		Foreground(TextSecondary)

	SelectorFocused = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgTertiary).
		Bold(true)

	Header = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgSecondary).
		Padding(0, 1)

	Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgSecondary)

	Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgTertiary).
		Padding(0, 2)

	ButtonFocused = lipgloss.NewStyle().
		Foreground(readableOn(Primary)).
		Background(Primary).
		Padding(0, 2).
		Bold(true)

	dangerBg := blendColor(Error, BgPrimary, 0.6)
	ButtonDanger = lipgloss.NewStyle().
		Foreground(blendColor(Error, readableOn(dangerBg), 0.5)).
		Background(dangerBg).
		Padding(0, 2)

	ButtonDangerFocused = lipgloss.NewStyle().
		Foreground(readableOn(Error)).
		Background(Error).
		Padding(0, 2).
		Bold(true)

	ToastSuccess = lipgloss.NewStyle().
		Foreground(readableOn(Success)).
		Background(Success).
		Padding(0, 1)

	ToastInfo = lipgloss.NewStyle().
		Foreground(readableOn(Info)).
		Background(Info).
		Padding(0, 1)

	ToastWarning = lipgloss.NewStyle().
		Foreground(readableOn(Warning)).
		Background(Warning).
		Padding(0, 1)

	ToastError = lipgloss.NewStyle().
		Foreground(readableOn(Error)).
		Background(Error).
		Padding(0, 1)
}
