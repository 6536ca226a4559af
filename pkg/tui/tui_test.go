// ABOUTME: Tests for the TUI engine: differential rendering, overlays, restart, periodic widgets
// ABOUTME: Uses an in-memory writer to capture output for assertions

package tui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

type mockComponent struct {
	lines []string
	dirty bool
}

func (m *mockComponent) Render(out *RenderBuffer, width int) {
	out.WriteLines(m.lines)
}

func (m *mockComponent) Invalidate() {
	m.dirty = true
}

// mockPeriodic is a component with a fake redraw timer.
type mockPeriodic struct {
	mockComponent
	active bool
	stops  int
}

func (m *mockPeriodic) Active() bool { return m.active }
func (m *mockPeriodic) Stop() {
	m.active = false
	m.stops++
}

// syncBuffer is a goroutine-safe bytes.Buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func (s *syncBuffer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Len()
}

func TestRenderBuffer_Pool(t *testing.T) {
	t.Parallel()

	buf := AcquireBuffer()
	buf.WriteLine("line1")
	buf.WriteLine("line2")
	if buf.Len() != 2 {
		t.Errorf("Len() = %d, want 2", buf.Len())
	}
	ReleaseBuffer(buf)

	buf2 := AcquireBuffer()
	if buf2.Len() != 0 {
		t.Errorf("re-acquired buffer Len() = %d, want 0", buf2.Len())
	}
	ReleaseBuffer(buf2)
}

func TestContainer_AddRemove(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	comp1 := &mockComponent{lines: []string{"a"}}
	comp2 := &mockComponent{lines: []string{"b"}}
	c.Add(comp1)
	c.Add(comp2)

	if len(c.Children()) != 2 {
		t.Fatalf("expected 2 children, got %d", len(c.Children()))
	}
	if !c.Remove(comp1) {
		t.Error("Remove returned false for existing component")
	}
	if c.Remove(comp1) {
		t.Error("Remove returned true for already removed component")
	}
	if len(c.Children()) != 1 {
		t.Fatalf("expected 1 child after remove, got %d", len(c.Children()))
	}
}

func TestContainer_PeriodicDescendsIntoNested(t *testing.T) {
	t.Parallel()

	inner := NewContainer()
	spinner := &mockPeriodic{active: true}
	inner.Add(spinner)

	root := NewContainer()
	top := &mockPeriodic{}
	root.Add(&mockComponent{lines: []string{"text"}})
	root.Add(top)
	root.Add(inner)

	found := root.Periodic()
	if len(found) != 2 {
		t.Fatalf("Periodic() found %d, want 2", len(found))
	}
	if found[0] != Periodic(top) || found[1] != Periodic(spinner) {
		t.Errorf("unexpected order: %v", found)
	}
}

func TestTUI_RenderOnce(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ui := New(&out, 80, 24)
	ui.Container().Add(&mockComponent{lines: []string{"test line"}})

	ui.RenderOnce()

	if !strings.Contains(out.String(), "test line") {
		t.Errorf("expected output to contain 'test line', got %q", out.String())
	}
}

func TestTUI_DifferentialRenderSkipsUnchangedLines(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ui := New(&out, 80, 24)
	comp := &mockComponent{lines: []string{"first", "second"}}
	ui.Container().Add(comp)

	ui.RenderOnce()
	out.Reset()

	comp.lines = []string{"first", "changed"}
	ui.RenderOnce()

	got := out.String()
	if strings.Contains(got, "first") {
		t.Errorf("unchanged line re-emitted: %q", got)
	}
	if !strings.Contains(got, "changed") {
		t.Errorf("changed line missing: %q", got)
	}
}

func TestTUI_CursorPosition(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ui := New(&out, 80, 24)
	ui.Container().Add(&mockComponent{lines: []string{"abc" + CursorMarker + "def"}})

	ui.RenderOnce()

	got := out.String()
	if !strings.Contains(got, "\r\x1b[3C") {
		t.Errorf("expected cursor moved to column 3; got %q", got)
	}
	if !strings.Contains(got, "\x1b[?25h") {
		t.Error("expected cursor to be shown")
	}
	if strings.Contains(got, CursorMarker) {
		t.Error("cursor marker leaked into output")
	}
}

func TestExtractCursorPosition(t *testing.T) {
	t.Parallel()

	lines := []string{"hello" + CursorMarker + "world"}
	row, col := extractCursorPosition(lines)
	if row != 0 || col != 5 {
		t.Errorf("cursor at (%d, %d), want (0, 5)", row, col)
	}
	if lines[0] != "helloworld" {
		t.Errorf("marker not stripped: %q", lines[0])
	}

	row, col = extractCursorPosition([]string{"no cursor here"})
	if row != -1 || col != -1 {
		t.Errorf("expected (-1, -1), got (%d, %d)", row, col)
	}
}

func TestOverlay_BottomToast(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ui := New(&out, 40, 10)
	ui.Container().Add(&mockComponent{lines: []string{"background"}})
	toast := &mockComponent{lines: []string{"toast"}}
	ui.PushOverlay(Overlay{Component: toast, Position: OverlayBottom})

	ui.RenderOnce()
	if !strings.Contains(out.String(), "toast") {
		t.Fatal("overlay content not found in output")
	}

	ui.RemoveOverlay(toast)
	out.Reset()
	ui.RequestFullRender()
	ui.RenderOnce()
	if strings.Contains(out.String(), "toast") {
		t.Error("removed overlay still rendered")
	}
}

func TestTUI_RequestFullRenderClearsAndRepaints(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ui := New(&out, 80, 24)
	ui.Container().Add(&mockComponent{lines: []string{"alpha", "beta"}})
	ui.RenderOnce()

	out.Reset()
	ui.RequestFullRender()
	ui.RenderOnce()

	got := out.String()
	if !strings.Contains(got, "\x1b[2J\x1b[H") {
		t.Errorf("full render did not clear the screen: %q", got)
	}
	if !strings.Contains(got, "alpha") || !strings.Contains(got, "beta") {
		t.Errorf("full render did not repaint all lines: %q", got)
	}

	out.Reset()
	ui.RenderOnce()
	if strings.Contains(out.String(), "\x1b[2J") {
		t.Error("screen clear repeated on the following frame")
	}
}

func TestTUI_StartStopRestart(t *testing.T) {
	t.Parallel()

	out := &syncBuffer{}
	ui := New(out, 80, 24)
	comp := &mockComponent{lines: []string{"v1"}}
	ui.Container().Add(comp)

	for cycle := range 3 {
		ui.Start()
		if !ui.Running() {
			t.Fatalf("cycle %d: not running after Start", cycle)
		}
		ui.RequestRender()
		waitFor(t, func() bool { return out.Len() > 0 })

		ui.Stop()
		if ui.Running() {
			t.Fatalf("cycle %d: still running after Stop", cycle)
		}
		ui.Stop()

		// Nothing may be written while stopped.
		before := out.Len()
		ui.RequestRender()
		time.Sleep(20 * time.Millisecond)
		if out.Len() != before {
			t.Fatalf("cycle %d: engine wrote while stopped", cycle)
		}
		ui.RequestFullRender()
	}
}

func TestTUI_StopPeriodic(t *testing.T) {
	t.Parallel()

	ui := New(&bytes.Buffer{}, 80, 24)
	running := &mockPeriodic{active: true}
	idle := &mockPeriodic{}
	inOverlay := &mockPeriodic{active: true}
	ui.Container().Add(running)
	ui.Container().Add(idle)
	ui.PushOverlay(Overlay{Component: inOverlay})

	if n := ui.StopPeriodic(); n != 2 {
		t.Errorf("StopPeriodic() = %d, want 2", n)
	}
	if running.active || inOverlay.active {
		t.Error("active widgets left running")
	}
	if idle.stops != 0 {
		t.Error("inactive widget should not be stopped")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
