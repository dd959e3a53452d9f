package panel

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// Previewer renders note bodies as markdown, caching one renderer per
// wrap width.
type Previewer struct {
	style string

	mu       sync.Mutex
	width    int
	renderer *glamour.TermRenderer
}

// NewPreviewer returns a Previewer using the named glamour style
// ("dark", "light", "notty", ...).
func NewPreviewer(style string) *Previewer {
	if style == "" {
		style = "dark"
	}
	return &Previewer{style: style}
}

// Render renders body wrapped at width.
func (p *Previewer) Render(body string, width int) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.renderer == nil || p.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(p.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		p.renderer = r
		p.width = width
	}
	return p.renderer.Render(body)
}
