// Package ui provides shared UI components and helpers for the TUI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DimStyle applies a dim gray color to background content behind overlays.
// Existing ANSI codes are stripped first because SGR 2 (faint) doesn't
// reliably combine with existing colors in most terminals.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// MaxLineWidth returns the maximum visual width of the given lines.
func MaxLineWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		w := ansi.StringWidth(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// Size returns the visual width and height of a rendered block.
func Size(block string) (width, height int) {
	lines := strings.Split(block, "\n")
	return MaxLineWidth(lines), len(lines)
}

// shade renders background text either dimmed or untouched.
func shade(s string, dim bool) string {
	if !dim {
		return s
	}
	return DimStyle.Render(ansi.Strip(s))
}

// compositeRow overlays fgLine onto bgLine at column startX.
func compositeRow(bgLine, fgLine string, startX, fgWidth, totalWidth int, dim bool) string {
	var result strings.Builder

	plain := bgLine
	if dim {
		plain = ansi.Strip(bgLine)
	}
	bgWidth := ansi.StringWidth(plain)

	if startX > 0 {
		leftSeg := ansi.Truncate(plain, startX, "")
		leftWidth := ansi.StringWidth(leftSeg)
		result.WriteString(shade(leftSeg, dim))
		if leftWidth < startX {
			result.WriteString(strings.Repeat(" ", startX-leftWidth))
		}
	}

	result.WriteString(fgLine)

	rightStartX := startX + fgWidth
	if rightStartX < totalWidth && bgWidth > rightStartX {
		rightSeg := ansi.Cut(plain, rightStartX, bgWidth)
		result.WriteString(shade(rightSeg, dim))
	}

	return result.String()
}

// ClampPosition keeps a w×h block fully inside a width×height screen,
// pinning it to the top-left corner when it does not fit.
func ClampPosition(x, y, w, h, width, height int) (int, int) {
	if x > width-w {
		x = width - w
	}
	if y > height-h {
		y = height - h
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}

// Center returns the top-left position that centers a w×h block.
func Center(w, h, width, height int) (int, int) {
	return ClampPosition((width-w)/2, (height-h)/2, w, h, width, height)
}

// OverlayAt composites fg on top of background with its top-left corner at
// (x, y). The position is clamped to the screen. When dim is true the
// background is dimmed around the overlay.
func OverlayAt(background, fg string, x, y, width, height int, dim bool) string {
	bgLines := strings.Split(background, "\n")
	fgLines := strings.Split(fg, "\n")

	fgWidth := MaxLineWidth(fgLines)
	fgHeight := len(fgLines)
	x, y = ClampPosition(x, y, fgWidth, fgHeight, width, height)

	result := make([]string, 0, height)
	for row := 0; row < height; row++ {
		bgLine := ""
		if row < len(bgLines) {
			bgLine = bgLines[row]
		}

		fgRow := row - y
		if fgRow >= 0 && fgRow < fgHeight {
			result = append(result, compositeRow(bgLine, fgLines[fgRow], x, fgWidth, width, dim))
		} else {
			result = append(result, shade(bgLine, dim))
		}
	}

	return strings.Join(result, "\n")
}

// OverlayModal composites a modal centered on top of a dimmed background.
func OverlayModal(background, modal string, width, height int) string {
	w, h := Size(modal)
	x, y := Center(w, h, width, height)
	return OverlayAt(background, modal, x, y, width, height, true)
}
