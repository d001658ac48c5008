package output

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	mdMu       sync.Mutex
	mdRenderer *glamour.TermRenderer
	mdWidth    = -1
	mdPlain    bool
)

// Markdown renders md for the terminal, word-wrapped at width. It falls back
// to the raw text if rendering fails.
func Markdown(md string, width int) string {
	mdMu.Lock()
	defer mdMu.Unlock()
	r := markdownRenderer(width)
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// markdownRenderer must be called with mdMu held.
func markdownRenderer(width int) *glamour.TermRenderer {
	if mdRenderer != nil && mdWidth == width {
		return mdRenderer
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(max(width, 0))}
	if mdPlain {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil
	}
	mdRenderer, mdWidth = r, width
	return r
}

func plainMarkdown() {
	mdMu.Lock()
	mdPlain = true
	mdRenderer = nil
	mdMu.Unlock()
}
