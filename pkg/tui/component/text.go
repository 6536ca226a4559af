// ABOUTME: Text component for chat-style output with append support
// ABOUTME: Lines are truncated to the render width; safe for concurrent append and render

package component

import (
	"strings"
	"sync"

	"github.com/mauromedda/pi-overlay-go/pkg/tui"
	"github.com/mauromedda/pi-overlay-go/pkg/tui/width"
)

// Text renders a block of text, one output line per source line.
type Text struct {
	mu    sync.Mutex
	lines []string
}

// NewText creates a Text component with the given content.
func NewText(content string) *Text {
	t := &Text{}
	t.SetContent(content)
	return t
}

// SetContent replaces the displayed text.
func (t *Text) SetContent(content string) {
	t.mu.Lock()
	t.lines = strings.Split(content, "\n")
	t.mu.Unlock()
}

// Append adds text to the end of the last line; embedded newlines start new lines.
func (t *Text) Append(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	parts := strings.Split(s, "\n")
	if len(t.lines) == 0 {
		t.lines = []string{""}
	}
	t.lines[len(t.lines)-1] += parts[0]
	t.lines = append(t.lines, parts[1:]...)
}

// Render writes the text lines into the buffer.
func (t *Text) Render(out *tui.RenderBuffer, w int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, line := range t.lines {
		out.WriteLine(width.TruncateToWidth(line, w))
	}
}

// Invalidate is a no-op; Text has no render cache.
func (t *Text) Invalidate() {}
