// ABOUTME: TUI ownership gate contract and the opaque suspension token
// ABOUTME: A token is produced by exactly one Suspend and consumed by exactly one Resume

package handoff

// Gate hands the terminal between the host TUI and everyone else.
//
// Contract: Resume must only receive a token from a Suspend that has not yet
// been resumed. Resuming twice, or without a prior Suspend, is a caller bug;
// the Coordinator guarantees it cannot happen and implementations are free to
// panic on it.
type Gate interface {
	// Attached reports whether an interactive TUI exists to suspend.
	Attached() bool
	// Suspend stops the TUI from driving the terminal and returns once the
	// terminal is released.
	Suspend() *Token
	// Resume reactivates the TUI, forces a full repaint and completes the
	// token's episode.
	Resume(*Token)
	// StopAllPeriodicWidgets halts every TUI widget that redraws on its own
	// timer, so none of them paints a stale frame during handback.
	StopAllPeriodicWidgets()
}

// Token is the handle for one suspension episode. Its payload is private to
// the Gate that created it.
type Token struct {
	payload any
	done    chan struct{}
}

// NewToken creates a token carrying gate-specific payload.
func NewToken(payload any) *Token {
	return &Token{payload: payload, done: make(chan struct{})}
}

// Payload returns the gate-specific payload.
func (t *Token) Payload() any {
	return t.payload
}

// Done is closed when the episode completes.
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// Complete ends the episode. Gates call it from Resume; calling it twice panics.
func (t *Token) Complete() {
	close(t.done)
}
