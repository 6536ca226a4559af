// ABOUTME: TUI engine with differential rendering, overlay compositing and restartable render loop
// ABOUTME: Stop is synchronous so callers can hand the terminal to another writer right after it returns

package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/mauromedda/pi-overlay-go/pkg/tui/width"
)

// Writer is the minimal interface for terminal output.
type Writer interface {
	Write(p []byte) (n int, err error)
}

// TUI is the main rendering engine.
//
// The engine owns the terminal only while its render loop runs. Stop
// releases it and Start takes it back; the pair may be cycled any number
// of times.
type TUI struct {
	container *Container
	writer    Writer

	mu            sync.Mutex
	width         int
	height        int
	previousLines []string
	overlays      []Overlay
	renderCh      chan struct{}
	stopCh        chan struct{}
	doneCh        chan struct{}
	running       bool
	fullRedraw    bool

	rstate renderState
}

// New creates a new TUI engine writing to w with the given dimensions.
func New(w Writer, termWidth, termHeight int) *TUI {
	return &TUI{
		container: NewContainer(),
		writer:    w,
		width:     termWidth,
		height:    termHeight,
		renderCh:  make(chan struct{}, 1),
		rstate:    renderState{firstRender: true},
	}
}

// Container returns the root container for adding components.
func (t *TUI) Container() *Container {
	return t.container
}

// SetSize updates the terminal dimensions and triggers a re-render.
func (t *TUI) SetSize(w, h int) {
	t.mu.Lock()
	t.width = w
	t.height = h
	t.previousLines = nil
	t.mu.Unlock()
	t.container.Invalidate()
	t.RequestRender()
}

// Size returns the dimensions the engine renders for.
func (t *TUI) Size() (w, h int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// PushOverlay adds a modal overlay on top of the content.
func (t *TUI) PushOverlay(o Overlay) {
	t.mu.Lock()
	t.overlays = append(t.overlays, o)
	t.mu.Unlock()
	t.RequestRender()
}

// RemoveOverlay removes the overlay showing comp, if any.
func (t *TUI) RemoveOverlay(comp Component) {
	t.mu.Lock()
	for i, o := range t.overlays {
		if o.Component == comp {
			t.overlays = append(t.overlays[:i], t.overlays[i+1:]...)
			break
		}
	}
	t.mu.Unlock()
	t.RequestRender()
}

// RequestRender signals that a render is needed. Multiple calls coalesce
// into a single render via a buffered channel of size 1. Requests made
// while the loop is stopped stay pending until the next Start.
func (t *TUI) RequestRender() {
	select {
	case t.renderCh <- struct{}{}:
	default:
	}
}

// RequestFullRender discards the diff state so the next frame clears the
// screen and repaints every line. Used after another process has drawn
// over the terminal.
func (t *TUI) RequestFullRender() {
	t.mu.Lock()
	t.fullRedraw = true
	t.previousLines = nil
	t.rstate = renderState{firstRender: true}
	t.mu.Unlock()
	t.container.Invalidate()
	t.RequestRender()
}

// Start begins the render loop in a goroutine. No-op if already running.
func (t *TUI) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.stopCh = make(chan struct{})
	t.doneCh = make(chan struct{})
	go t.renderLoop(t.stopCh, t.doneCh)
}

// Stop terminates the render loop and waits for any in-flight frame to
// finish writing. When Stop returns the engine will not touch the terminal
// until Start is called again. Safe to call multiple times.
func (t *TUI) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	stopCh, doneCh := t.stopCh, t.doneCh
	t.mu.Unlock()

	close(stopCh)
	<-doneCh
}

// Running reports whether the render loop is active.
func (t *TUI) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// StopPeriodic halts every active periodic component in the tree and in
// the overlay stack. Returns how many were stopped.
func (t *TUI) StopPeriodic() int {
	periodic := t.container.Periodic()

	t.mu.Lock()
	for _, o := range t.overlays {
		if p, ok := o.Component.(Periodic); ok {
			periodic = append(periodic, p)
		}
	}
	t.mu.Unlock()

	stopped := 0
	for _, p := range periodic {
		if p.Active() {
			p.Stop()
			stopped++
		}
	}
	return stopped
}

// RenderOnce performs a single synchronous render. Useful for testing.
func (t *TUI) RenderOnce() {
	t.render()
}

func (t *TUI) renderLoop(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	for {
		select {
		case <-stopCh:
			return
		case <-t.renderCh:
			// A stop that raced with the render request wins.
			select {
			case <-stopCh:
				t.RequestRender()
				return
			default:
			}
			t.render()
		}
	}
}

func (t *TUI) render() {
	t.mu.Lock()
	w := t.width
	h := t.height
	prevLines := t.previousLines
	rstate := t.rstate
	fullRedraw := t.fullRedraw
	t.fullRedraw = false
	overlays := make([]Overlay, len(t.overlays))
	copy(overlays, t.overlays)
	t.mu.Unlock()

	if w <= 0 || h <= 0 {
		return
	}

	buf := AcquireBuffer()
	defer ReleaseBuffer(buf)

	t.container.Render(buf, w)
	compositeOverlays(buf, overlays, w, h)

	// Keep the bottom lines so the newest content stays visible.
	lines := buf.Lines
	clamped := len(lines) > h
	if clamped {
		lines = lines[len(lines)-h:]
	}
	if clamped != rstate.prevClamped {
		prevLines = nil
		rstate.firstRender = true
		rstate.maxRendered = 0
	}
	rstate.prevClamped = clamped

	cursorRow, cursorCol := extractCursorPosition(lines)

	var out strings.Builder
	if fullRedraw {
		out.WriteString("\x1b[2J\x1b[H")
	}
	out.WriteString(relativeRender(&rstate, prevLines, lines, w))

	if cursorRow >= 0 && cursorCol >= 0 {
		var numBuf [20]byte
		moveCursor(&out, numBuf[:], rstate.cursorRow, cursorRow)
		rstate.cursorRow = cursorRow
		out.WriteByte('\r')
		if cursorCol > 0 {
			out.WriteString("\x1b[")
			out.Write(strconv.AppendInt(numBuf[:0], int64(cursorCol), 10))
			out.WriteByte('C')
		}
		out.WriteString("\x1b[?25h")
	} else {
		out.WriteString("\x1b[?25l")
	}

	// CSI 2026 synchronized output keeps the frame atomic on supporting terminals.
	_, _ = t.writer.Write([]byte("\x1b[?2026h" + out.String() + "\x1b[?2026l"))

	saved := make([]string, len(lines))
	copy(saved, lines)
	t.mu.Lock()
	t.previousLines = saved
	t.rstate = rstate
	t.mu.Unlock()
}

// compositeOverlays renders overlays on top of the main buffer.
func compositeOverlays(buf *RenderBuffer, overlays []Overlay, w, h int) {
	for _, o := range overlays {
		overlayBuf := AcquireBuffer()
		ow := o.Width
		if ow <= 0 {
			ow = w
		}
		o.Component.Render(overlayBuf, ow)

		oh := overlayBuf.Len()
		if o.Height > 0 && oh > o.Height {
			oh = o.Height
		}

		var startRow int
		switch o.Position {
		case OverlayCenter:
			startRow = (h - oh) / 2
		case OverlayTop:
			startRow = 0
		case OverlayBottom:
			startRow = h - oh
		}
		if startRow < 0 {
			startRow = 0
		}

		for buf.Len() < startRow+oh {
			buf.WriteLine("")
		}
		for i := 0; i < oh && i < overlayBuf.Len(); i++ {
			buf.Lines[startRow+i] = overlayBuf.Lines[i]
		}

		ReleaseBuffer(overlayBuf)
	}
}

// extractCursorPosition finds the CursorMarker in lines, removes it,
// and returns (row, col). Returns (-1, -1) if not found.
func extractCursorPosition(lines []string) (row, col int) {
	for i, line := range lines {
		before, after, ok := strings.Cut(line, CursorMarker)
		if ok {
			lines[i] = before + after
			return i, width.VisibleWidth(before)
		}
	}
	return -1, -1
}

// renderState tracks cursor position across renders for relative movement.
type renderState struct {
	maxRendered int
	cursorRow   int
	firstRender bool
	prevWidth   int
	prevClamped bool
}

// relativeRender generates ANSI commands using relative cursor movement
// instead of absolute positioning, so content scrolls like a chat.
func relativeRender(state *renderState, prev, curr []string, termWidth int) string {
	var b strings.Builder
	var numBuf [20]byte

	if state.prevWidth != 0 && state.prevWidth != termWidth {
		b.WriteString("\x1b[2J\x1b[H")
		state.firstRender = true
	}
	state.prevWidth = termWidth

	if state.firstRender {
		writeAll(&b, curr)
		state.cursorRow = max(len(curr)-1, 0)
		state.maxRendered = len(curr)
		state.firstRender = false
		return b.String()
	}

	commonLen := min(len(prev), len(curr))
	for i := range commonLen {
		if prev[i] == curr[i] {
			continue
		}
		moveCursor(&b, numBuf[:], state.cursorRow, i)
		state.cursorRow = i
		b.WriteString("\r\x1b[2K")
		b.WriteString(curr[i])
	}

	if len(curr) > len(prev) {
		last := max(len(prev)-1, 0)
		moveCursor(&b, numBuf[:], state.cursorRow, last)
		state.cursorRow = last
		for i := len(prev); i < len(curr); i++ {
			b.WriteString("\r\n")
			b.WriteString(curr[i])
			state.cursorRow = i
		}
	}

	if len(curr) < state.maxRendered {
		for i := len(curr); i < state.maxRendered; i++ {
			moveCursor(&b, numBuf[:], state.cursorRow, i)
			state.cursorRow = i
			b.WriteString("\r\x1b[2K")
		}
		if len(curr) > 0 {
			moveCursor(&b, numBuf[:], state.cursorRow, len(curr)-1)
			state.cursorRow = len(curr) - 1
		}
		state.maxRendered = len(curr)
	}
	state.maxRendered = max(state.maxRendered, len(curr))

	return b.String()
}

func writeAll(b *strings.Builder, lines []string) {
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(line)
	}
}

// moveCursor emits relative cursor movement sequences to move from fromRow to toRow.
func moveCursor(b *strings.Builder, numBuf []byte, fromRow, toRow int) {
	if fromRow == toRow {
		return
	}
	delta := toRow - fromRow
	b.WriteString("\x1b[")
	if delta < 0 {
		b.Write(strconv.AppendInt(numBuf[:0], int64(-delta), 10))
		b.WriteByte('A')
		return
	}
	b.Write(strconv.AppendInt(numBuf[:0], int64(delta), 10))
	b.WriteByte('B')
}
