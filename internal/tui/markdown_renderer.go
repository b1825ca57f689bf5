package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// minGuideWidth keeps glamour from wrapping the help guide into single words.
const minGuideWidth = 24

// guideKey identifies one configured glamour renderer.
type guideKey struct {
	width int
	style string
}

// markdownRenderer caches a glamour renderer for the last width and theme used.
type markdownRenderer struct {
	key      guideKey
	renderer *glamour.TermRenderer
}

// render styles markdown for the terminal. Renderer failures fall back to the raw text.
func (r *markdownRenderer) render(markdown string, width int, darkMode bool) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}
	key := guideKey{width: max(width, minGuideWidth), style: glamourStyle(darkMode)}
	if r.renderer == nil || r.key != key {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(key.style),
			glamour.WithWordWrap(key.width),
		)
		if err != nil {
			return markdown
		}
		r.key, r.renderer = key, renderer
	}
	out, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(out, "\n")
}
