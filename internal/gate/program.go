// ABOUTME: Gate over a Bubble Tea program using ReleaseTerminal and RestoreTerminal
// ABOUTME: Periodic indicators are halted through shared state plus a message the host model handles

package gate

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/pi-overlay-go/internal/handoff"
	"github.com/mauromedda/pi-overlay-go/internal/log"
	"github.com/mauromedda/pi-overlay-go/pkg/tui"
)

// TeaProgram is the subset of *tea.Program the gate drives.
type TeaProgram interface {
	ReleaseTerminal() error
	RestoreTerminal() error
	Send(msg tea.Msg)
}

// SuspendedMsg tells the model the terminal was released.
type SuspendedMsg struct{}

// ResumedMsg tells the model the terminal is back.
type ResumedMsg struct{}

// StopPeriodicMsg tells the model to halt every self-scheduling tick.
type StopPeriodicMsg struct{}

// Program hands the terminal between a Bubble Tea program and other processes.
type Program struct {
	p        TeaProgram
	attached bool

	mu       sync.Mutex
	current  *handoff.Token
	periodic []tui.Periodic
}

var _ handoff.Gate = (*Program)(nil)

// NewProgram returns a gate for p. attached reports whether p draws on an
// interactive terminal.
func NewProgram(p TeaProgram, attached bool) *Program {
	return &Program{p: p, attached: attached}
}

// Attached reports whether a program is running on a terminal.
func (g *Program) Attached() bool {
	return g.p != nil && g.attached
}

// Suspend releases the terminal. The program keeps processing messages but
// draws nothing until Resume.
func (g *Program) Suspend() *handoff.Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current != nil {
		panic("gate: Suspend while already suspended")
	}

	if err := g.p.ReleaseTerminal(); err != nil {
		log.Warn("gate: release terminal: %v", err)
	}
	g.p.Send(SuspendedMsg{})

	g.current = handoff.NewToken(nil)
	return g.current
}

// Resume restores the terminal; Bubble Tea repaints the whole view.
func (g *Program) Resume(tok *handoff.Token) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if tok == nil || tok != g.current {
		panic("gate: Resume with a token that is not outstanding")
	}
	g.current = nil

	if err := g.p.RestoreTerminal(); err != nil {
		log.Warn("gate: restore terminal: %v", err)
	}
	g.p.Send(ResumedMsg{})
	tok.Complete()
}

// Register adds indicators whose timers StopAllPeriodicWidgets halts.
// The model is expected to drop ticks once an indicator is inactive.
func (g *Program) Register(p ...tui.Periodic) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.periodic = append(g.periodic, p...)
}

// StopAllPeriodicWidgets halts registered indicators, then tells the model.
// The message is queued ahead of ResumedMsg, so no tick survives into the
// restored view.
func (g *Program) StopAllPeriodicWidgets() {
	g.mu.Lock()
	periodic := g.periodic
	g.mu.Unlock()

	stopped := 0
	for _, p := range periodic {
		if p.Active() {
			p.Stop()
			stopped++
		}
	}
	if stopped > 0 {
		log.Debug("gate: stopped %d periodic indicators", stopped)
	}
	g.p.Send(StopPeriodicMsg{})
}
