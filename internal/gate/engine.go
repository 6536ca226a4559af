// ABOUTME: Gate over the differential-render TUI engine and a raw-mode terminal
// ABOUTME: Suspend stops the render loop and restores cooked mode; Resume reverses it and repaints

package gate

import (
	"sync"

	"github.com/mauromedda/pi-overlay-go/internal/handoff"
	"github.com/mauromedda/pi-overlay-go/internal/log"
	"github.com/mauromedda/pi-overlay-go/pkg/tui"
	"github.com/mauromedda/pi-overlay-go/pkg/tui/terminal"
)

// Engine hands the terminal between a *tui.TUI and other processes.
type Engine struct {
	ui   *tui.TUI
	term terminal.Terminal

	mu      sync.Mutex
	current *handoff.Token
}

var _ handoff.Gate = (*Engine)(nil)

// NewEngine returns a gate for ui drawing on term.
func NewEngine(ui *tui.TUI, term terminal.Terminal) *Engine {
	return &Engine{ui: ui, term: term}
}

// Attached reports whether the engine draws on an interactive terminal.
func (e *Engine) Attached() bool {
	return e.ui != nil && e.term.IsTerminal()
}

// Suspend stops the render loop, which waits for any in-flight frame, then
// hands the terminal back in cooked mode with a visible cursor.
func (e *Engine) Suspend() *handoff.Token {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		panic("gate: Suspend while already suspended")
	}

	e.ui.Stop()
	if err := e.term.ExitRawMode(); err != nil {
		log.Warn("gate: %v", err)
	}
	_, _ = e.term.Write([]byte(terminal.ShowCursor))

	e.current = handoff.NewToken(nil)
	return e.current
}

// Resume re-enters raw mode, picks up any resize that happened meanwhile
// and restarts the render loop with a full repaint.
func (e *Engine) Resume(tok *handoff.Token) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if tok == nil || tok != e.current {
		panic("gate: Resume with a token that is not outstanding")
	}
	e.current = nil

	if err := e.term.EnterRawMode(); err != nil {
		log.Warn("gate: %v", err)
	}
	if w, h, err := e.term.Size(); err == nil {
		e.ui.SetSize(w, h)
	}
	e.ui.RequestFullRender()
	e.ui.Start()
	tok.Complete()
}

// StopAllPeriodicWidgets halts spinners and other self-redrawing widgets.
func (e *Engine) StopAllPeriodicWidgets() {
	if n := e.ui.StopPeriodic(); n > 0 {
		log.Debug("gate: stopped %d periodic widgets", n)
	}
}

// Suspended reports whether a token is outstanding.
func (e *Engine) Suspended() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current != nil
}
