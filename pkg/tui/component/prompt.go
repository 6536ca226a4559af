// ABOUTME: Single-line command prompt with cursor editing and Tab completion
// ABOUTME: Safe for a key-reading goroutine to edit while the render loop draws it

package component

import (
	"strings"
	"sync"

	"github.com/mauromedda/pi-overlay-go/pkg/tui"
	"github.com/mauromedda/pi-overlay-go/pkg/tui/key"
	"github.com/mauromedda/pi-overlay-go/pkg/tui/width"
)

// Prompt is a single-line text input.
type Prompt struct {
	mu          sync.Mutex
	prefix      string
	placeholder string
	text        []rune
	cursor      int
	scrollOff   int
	complete    func(string) []string
}

// NewPrompt creates an empty prompt drawn after prefix.
func NewPrompt(prefix string) *Prompt {
	return &Prompt{prefix: prefix, text: make([]rune, 0, 64)}
}

// SetPlaceholder sets the hint shown while the prompt is empty.
func (p *Prompt) SetPlaceholder(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.placeholder = s
}

// SetCompleter installs the Tab completion source. It receives the whole
// line and returns candidate replacements, best first.
func (p *Prompt) SetCompleter(fn func(string) []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.complete = fn
}

// Text returns the current line.
func (p *Prompt) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return string(p.text)
}

// HandleKey applies k. On Enter it returns the line, clears the prompt and
// reports submitted; empty lines are not submitted.
func (p *Prompt) HandleKey(k key.Key) (line string, submitted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch k.Type {
	case key.KeyRune:
		if !k.Alt {
			p.insert(k.Rune)
		}
	case key.KeyBackspace:
		if p.cursor > 0 {
			p.text = append(p.text[:p.cursor-1], p.text[p.cursor:]...)
			p.cursor--
		}
	case key.KeyDelete:
		if p.cursor < len(p.text) {
			p.text = append(p.text[:p.cursor], p.text[p.cursor+1:]...)
		}
	case key.KeyLeft:
		p.cursor = max(p.cursor-1, 0)
	case key.KeyRight:
		p.cursor = min(p.cursor+1, len(p.text))
	case key.KeyHome:
		p.cursor = 0
	case key.KeyEnd:
		p.cursor = len(p.text)
	case key.KeyCtrlU:
		p.text = p.text[:0]
		p.cursor = 0
	case key.KeyCtrlW:
		p.deleteWordBackward()
	case key.KeyTab:
		p.completeLine()
	case key.KeyEnter:
		line = strings.TrimSpace(string(p.text))
		p.text = p.text[:0]
		p.cursor = 0
		p.scrollOff = 0
		return line, line != ""
	}
	return "", false
}

func (p *Prompt) insert(r rune) {
	p.text = append(p.text, 0)
	copy(p.text[p.cursor+1:], p.text[p.cursor:])
	p.text[p.cursor] = r
	p.cursor++
}

func (p *Prompt) deleteWordBackward() {
	if p.cursor == 0 {
		return
	}
	pos := p.cursor
	for pos > 0 && p.text[pos-1] == ' ' {
		pos--
	}
	for pos > 0 && p.text[pos-1] != ' ' {
		pos--
	}
	p.text = append(p.text[:pos], p.text[p.cursor:]...)
	p.cursor = pos
}

func (p *Prompt) completeLine() {
	if p.complete == nil {
		return
	}
	candidates := p.complete(string(p.text))
	if len(candidates) == 0 {
		return
	}
	p.text = []rune(candidates[0] + " ")
	p.cursor = len(p.text)
}

// Invalidate is a no-op; Prompt renders from live state.
func (p *Prompt) Invalidate() {}

// Render writes the prompt line with the cursor marker.
func (p *Prompt) Render(out *tui.RenderBuffer, w int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	avail := w - width.VisibleWidth(p.prefix)
	if avail <= 1 {
		out.WriteLine(width.TruncateToWidth(p.prefix, w))
		return
	}
	if len(p.text) == 0 {
		hint := ""
		if p.placeholder != "" {
			hint = "\x1b[2m" + width.TruncateToWidth(p.placeholder, avail-1) + "\x1b[0m"
		}
		out.WriteLine(p.prefix + tui.CursorMarker + hint)
		return
	}

	// Keep the cursor visible, leaving a column for it at the end.
	if p.cursor < p.scrollOff {
		p.scrollOff = p.cursor
	}
	if p.cursor >= p.scrollOff+avail {
		p.scrollOff = p.cursor - avail + 1
	}
	end := min(p.scrollOff+avail-1, len(p.text))

	var b strings.Builder
	b.WriteString(p.prefix)
	for i := p.scrollOff; i < end; i++ {
		if i == p.cursor {
			b.WriteString(tui.CursorMarker)
		}
		b.WriteRune(p.text[i])
	}
	if p.cursor >= end {
		b.WriteString(tui.CursorMarker)
	}
	out.WriteLine(b.String())
}
