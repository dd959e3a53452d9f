package styles

import (
	"regexp"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// themeMu protects the registry and the current theme name.
var themeMu sync.RWMutex

// hexColorRegex validates hex color codes (#RRGGBB or #RRGGBBAA with alpha)
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds all theme colors.
type ColorPalette struct {
	Primary string `json:"primary"`
	Accent  string `json:"accent"`

	Success string `json:"success"`
	Warning string `json:"warning"`
	Error   string `json:"error"`
	Info    string `json:"info"`

	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	TextMuted     string `json:"textMuted"`

	BgPrimary   string `json:"bgPrimary"`
	BgSecondary string `json:"bgSecondary"`
	BgTertiary  string `json:"bgTertiary"`

	BorderNormal string `json:"borderNormal"`
	BorderActive string `json:"borderActive"`

	MarkdownTheme string `json:"markdownTheme"` // Glamour style name
}

// Theme is a named palette.
type Theme struct {
	Name   string       `json:"name"`
	Colors ColorPalette `json:"colors"`
}

var themeRegistry = map[string]Theme{
	"dark": {
		Name: "dark",
		Colors: ColorPalette{
			Primary:       "#F59E0B",
			Accent:        "#7C3AED",
			Success:       "#10B981",
			Warning:       "#F59E0B",
			Error:         "#EF4444",
			Info:          "#3B82F6",
			TextPrimary:   "#F9FAFB",
			TextSecondary: "#9CA3AF",
			TextMuted:     "#6B7280",
			BgPrimary:     "#111827",
			BgSecondary:   "#1F2937",
			BgTertiary:    "#374151",
			BorderNormal:  "#374151",
			BorderActive:  "#F59E0B",
			MarkdownTheme: "dark",
		},
	},
	"light": {
		Name: "light",
		Colors: ColorPalette{
			Primary:       "#B45309",
			Accent:        "#6D28D9",
			Success:       "#059669",
			Warning:       "#D97706",
			Error:         "#DC2626",
			Info:          "#2563EB",
			TextPrimary:   "#111827",
			TextSecondary: "#374151",
			TextMuted:     "#6B7280",
			BgPrimary:     "#FFFBEB",
			BgSecondary:   "#FEF3C7",
			BgTertiary:    "#FDE68A",
			BorderNormal:  "#D1D5DB",
			BorderActive:  "#B45309",
			MarkdownTheme: "light",
		},
	},
}

var currentTheme = "dark"

// IsValidHexColor reports whether hex is #RRGGBB or #RRGGBBAA.
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// IsValidTheme reports whether name is a registered theme.
func IsValidTheme(name string) bool {
	themeMu.RLock()
	defer themeMu.RUnlock()
	_, ok := themeRegistry[name]
	return ok
}

// ListThemes returns the registered theme names, sorted.
func ListThemes() []string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	names := make([]string, 0, len(themeRegistry))
	for name := range themeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CurrentThemeName returns the applied theme's name.
func CurrentThemeName() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// ApplyTheme applies a registered theme by name. Unknown names fall back
// to "dark".
func ApplyTheme(name string) {
	themeMu.Lock()
	theme, ok := themeRegistry[name]
	if !ok {
		theme = themeRegistry["dark"]
	}
	currentTheme = theme.Name
	themeMu.Unlock()

	applyPalette(theme.Colors)
}

func applyPalette(p ColorPalette) {
	set := func(dst *lipgloss.Color, hex string) {
		if IsValidHexColor(hex) {
			*dst = lipgloss.Color(hex)
		}
	}
	set(&Primary, p.Primary)
	set(&Accent, p.Accent)
	set(&Success, p.Success)
	set(&Warning, p.Warning)
	set(&Error, p.Error)
	set(&Info, p.Info)
	set(&TextPrimary, p.TextPrimary)
	set(&TextSecondary, p.TextSecondary)
	set(&TextMuted, p.TextMuted)
	set(&BgPrimary, p.BgPrimary)
	set(&BgSecondary, p.BgSecondary)
	set(&BgTertiary, p.BgTertiary)
	set(&BorderNormal, p.BorderNormal)
	set(&BorderActive, p.BorderActive)
	if p.MarkdownTheme != "" {
		CurrentMarkdownTheme = p.MarkdownTheme
	}
	rebuildStyles()
}

// GetMarkdownTheme returns the glamour style for the current theme.
func GetMarkdownTheme() string {
	return CurrentMarkdownTheme
}
