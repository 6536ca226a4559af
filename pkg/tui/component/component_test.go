// ABOUTME: Tests for host components: Text, Loader, Toast, Prompt
// ABOUTME: Verifies rendering output, append semantics and the loader ticker lifecycle

package component

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mauromedda/pi-overlay-go/pkg/tui"
	"github.com/mauromedda/pi-overlay-go/pkg/tui/key"
	"github.com/mauromedda/pi-overlay-go/pkg/tui/width"
)

func render(c tui.Component, w int) []string {
	buf := tui.AcquireBuffer()
	defer tui.ReleaseBuffer(buf)
	c.Render(buf, w)
	return append([]string(nil), buf.Lines...)
}

func TestText_Render(t *testing.T) {
	t.Parallel()

	lines := render(NewText("hello\nworld"), 80)
	if len(lines) != 2 || lines[0] != "hello" || lines[1] != "world" {
		t.Errorf("unexpected lines: %v", lines)
	}
}

func TestText_Append(t *testing.T) {
	t.Parallel()

	txt := NewText("> prompt")
	txt.Append("\nanswer ")
	txt.Append("continues\nnext")

	lines := render(txt, 80)
	want := []string{"> prompt", "answer continues", "next"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("lines = %q, want %q", lines, want)
	}
}

func TestText_TruncatesToWidth(t *testing.T) {
	t.Parallel()

	lines := render(NewText(strings.Repeat("x", 50)), 10)
	if w := width.VisibleWidth(lines[0]); w > 10 {
		t.Errorf("line width = %d, want <= 10", w)
	}
}

func TestLoader_Tick(t *testing.T) {
	t.Parallel()

	l := NewLoader("loading")
	first := render(l, 80)[0]
	l.Tick()
	second := render(l, 80)[0]

	if first == second {
		t.Error("expected different frames after Tick")
	}
	if !strings.HasSuffix(second, " loading") {
		t.Errorf("label missing: %q", second)
	}
}

func TestLoader_StartStop(t *testing.T) {
	t.Parallel()

	l := NewLoader("Working...")
	if l.Active() {
		t.Fatal("new loader should be inactive")
	}

	var redraws atomic.Int32
	l.Start(time.Millisecond, func() { redraws.Add(1) })
	l.Start(time.Millisecond, func() { t.Error("second Start must not spawn another ticker") })
	if !l.Active() {
		t.Fatal("loader should be active after Start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for redraws.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if redraws.Load() < 3 {
		t.Fatalf("redraw called %d times, want >= 3", redraws.Load())
	}

	l.Stop()
	if l.Active() {
		t.Fatal("loader still active after Stop")
	}
	after := redraws.Load()
	time.Sleep(10 * time.Millisecond)
	if redraws.Load() != after {
		t.Error("redraw called after Stop returned")
	}

	l.Stop()
}

func TestLoader_ImplementsPeriodic(t *testing.T) {
	t.Parallel()

	root := tui.NewContainer()
	l := NewLoader("Working...")
	root.Add(NewText("chat"))
	root.Add(l)

	found := root.Periodic()
	if len(found) != 1 || found[0] != tui.Periodic(l) {
		t.Fatalf("Periodic() = %v, want the loader", found)
	}
}

func TestToast_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity Severity
		glyph    string
	}{
		{SeverityInfo, "ℹ"},
		{SeverityWarning, "⚠"},
		{SeverityError, "✗"},
		{Severity("bogus"), "ℹ"},
	}
	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			t.Parallel()
			lines := render(NewToast("No GIF files found", tt.severity), 80)
			plain := width.StripANSI(lines[0])
			if plain != tt.glyph+" No GIF files found" {
				t.Errorf("toast = %q", plain)
			}
		})
	}
}

func typeString(p *Prompt, s string) {
	for _, r := range s {
		p.HandleKey(key.Key{Type: key.KeyRune, Rune: r})
	}
}

func TestPrompt_EditAndSubmit(t *testing.T) {
	t.Parallel()

	p := NewPrompt("> ")
	typeString(p, "/overlya")
	p.HandleKey(key.Key{Type: key.KeyBackspace})
	p.HandleKey(key.Key{Type: key.KeyBackspace})
	typeString(p, "ay lst")
	p.HandleKey(key.Key{Type: key.KeyLeft})
	p.HandleKey(key.Key{Type: key.KeyLeft})
	typeString(p, "i")

	if got := p.Text(); got != "/overlay list" {
		t.Fatalf("Text() = %q", got)
	}
	line, ok := p.HandleKey(key.Key{Type: key.KeyEnter})
	if !ok || line != "/overlay list" {
		t.Errorf("submit = (%q, %v)", line, ok)
	}
	if p.Text() != "" {
		t.Error("prompt not cleared after submit")
	}
	if _, ok := p.HandleKey(key.Key{Type: key.KeyEnter}); ok {
		t.Error("empty line submitted")
	}
}

func TestPrompt_WordAndLineKill(t *testing.T) {
	t.Parallel()

	p := NewPrompt("> ")
	typeString(p, "/overlay status  ")
	p.HandleKey(key.Key{Type: key.KeyCtrlW})
	if got := p.Text(); got != "/overlay " {
		t.Errorf("after Ctrl+W: %q", got)
	}
	p.HandleKey(key.Key{Type: key.KeyHome})
	p.HandleKey(key.Key{Type: key.KeyDelete})
	if got := p.Text(); got != "overlay " {
		t.Errorf("after Home+Delete: %q", got)
	}
	p.HandleKey(key.Key{Type: key.KeyCtrlU})
	if got := p.Text(); got != "" {
		t.Errorf("after Ctrl+U: %q", got)
	}
}

func TestPrompt_TabCompletes(t *testing.T) {
	t.Parallel()

	p := NewPrompt("> ")
	p.SetCompleter(func(line string) []string {
		if line == "/th" {
			return []string{"/thinking-gif"}
		}
		return nil
	})
	typeString(p, "/th")
	p.HandleKey(key.Key{Type: key.KeyTab})
	if got := p.Text(); got != "/thinking-gif " {
		t.Errorf("Text() = %q", got)
	}
	p.HandleKey(key.Key{Type: key.KeyTab})
	if got := p.Text(); got != "/thinking-gif " {
		t.Errorf("no-candidate Tab changed text: %q", got)
	}
}

func TestPrompt_Render(t *testing.T) {
	t.Parallel()

	p := NewPrompt("> ")
	p.SetPlaceholder("type /help")
	if got := render(p, 40)[0]; got != "> "+tui.CursorMarker+"\x1b[2mtype /help\x1b[0m" {
		t.Errorf("empty render = %q", got)
	}

	typeString(p, "abc")
	p.HandleKey(key.Key{Type: key.KeyLeft})
	if got := render(p, 40)[0]; got != "> ab"+tui.CursorMarker+"c" {
		t.Errorf("render = %q", got)
	}
}

func TestPrompt_RenderScrollsToCursor(t *testing.T) {
	t.Parallel()

	p := NewPrompt("> ")
	typeString(p, strings.Repeat("x", 30)+"END")
	line := render(p, 12)[0]

	plain := strings.Replace(line, tui.CursorMarker, "", 1)
	if w := width.VisibleWidth(plain); w > 12 {
		t.Errorf("line width %d exceeds 12: %q", w, plain)
	}
	if !strings.HasSuffix(line, "END"+tui.CursorMarker) {
		t.Errorf("cursor end not visible: %q", line)
	}
}
