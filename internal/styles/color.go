package styles

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type rgb struct{ r, g, b float64 }

// hexToRGB parses #RRGGBB (an alpha suffix is ignored). Invalid input is black.
func hexToRGB(hex string) rgb {
	h := strings.TrimPrefix(hex, "#")
	if len(h) < 6 {
		return rgb{}
	}
	v, err := strconv.ParseUint(h[:6], 16, 32)
	if err != nil {
		return rgb{}
	}
	return rgb{float64(v >> 16 & 0xff), float64(v >> 8 & 0xff), float64(v & 0xff)}
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clampByte(c.r), clampByte(c.g), clampByte(c.b))
}

func clampByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

// luminance returns relative luminance (0-1) using the sRGB formula.
func luminance(hex string) float64 {
	c := hexToRGB(hex)
	return 0.2126*linearize(c.r/255) + 0.7152*linearize(c.g/255) + 0.0722*linearize(c.b/255)
}

func linearize(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio returns the WCAG 2.0 contrast ratio between two colors (1 to 21).
func ContrastRatio(fg, bg string) float64 {
	l1, l2 := luminance(fg), luminance(bg)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// Blend mixes two hex colors: (1-t)*a + t*b, with t clamped to [0,1].
func Blend(a, b string, t float64) string {
	t = math.Max(0, math.Min(1, t))
	c1, c2 := hexToRGB(a), hexToRGB(b)
	return rgb{
		r: c1.r*(1-t) + c2.r*t,
		g: c1.g*(1-t) + c2.g*t,
		b: c1.b*(1-t) + c2.b*t,
	}.hex()
}

// readableOn returns whichever toast text color contrasts more with bg.
func readableOn(bg lipgloss.Color) lipgloss.Color {
	if ContrastRatio(string(ToastDarkText), string(bg)) >= ContrastRatio(string(ToastLightText), string(bg)) {
		return ToastDarkText
	}
	return ToastLightText
}

func blendColor(a, b lipgloss.Color, t float64) lipgloss.Color {
	return lipgloss.Color(Blend(string(a), string(b), t))
}
