// ABOUTME: Handoff coordinator: the state machine owning terminal handoff between TUI and renderer
// ABOUTME: Every transition goes through Dispatch, which compares and acts under one lock

package handoff

import (
	"context"
	"sync"

	"github.com/mauromedda/pi-overlay-go/internal/log"
)

// State is the coordinator's ownership mode.
type State int

const (
	// StateIdle: the TUI owns the terminal, no renderer exists.
	StateIdle State = iota
	// StateRendering: the TUI is suspended and a renderer session is live.
	StateRendering
	// StateManual: the one-shot command holds the terminal.
	StateManual
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRendering:
		return "rendering"
	case StateManual:
		return "manual"
	default:
		return "unknown"
	}
}

// AssetSource picks the asset for the next overlay.
type AssetSource interface {
	Resolve() (string, bool)
}

// Renderer spawns overlay renderers.
type Renderer interface {
	Available() error
	Start(ctx context.Context, asset string) (Session, error)
}

// Session is one running renderer.
type Session interface {
	// Stop signals the renderer to terminate without waiting for it.
	Stop()
	// OnExit registers a one-shot callback for the renderer's termination.
	OnExit(func())
}

// Command is a message for Dispatch.
type Command interface{ command() }

// Begin asks for the overlay to start.
type Begin struct{}

// End asks for the overlay to stop and the TUI to come back.
type End struct{}

// rendererExited reports that a specific session's process terminated.
type rendererExited struct{ session Session }

func (Begin) command()          {}
func (End) command()            {}
func (rendererExited) command() {}

// Stats counts coordinator outcomes since creation.
type Stats struct {
	Started       int
	Finished      int
	SelfExits     int
	SpawnFailures int
}

// Coordinator arbitrates one terminal. Create one per terminal session.
type Coordinator struct {
	gate     Gate
	renderer Renderer
	assets   AssetSource
	ctx      context.Context

	mu      sync.Mutex
	state   State
	session Session
	token   *Token
	stats   Stats

	// pending tracks exit notifications in flight, so tests can wait for them.
	pending sync.WaitGroup
}

// New returns an idle Coordinator. ctx bounds the lifetime of spawned
// renderers; gate may be nil when the session has no TUI.
func New(ctx context.Context, gate Gate, renderer Renderer, assets AssetSource) *Coordinator {
	return &Coordinator{ctx: ctx, gate: gate, renderer: renderer, assets: assets}
}

// BeginOverlay dispatches Begin. When it returns with the overlay started,
// the TUI has already released the terminal.
func (c *Coordinator) BeginOverlay() { c.Dispatch(Begin{}) }

// EndOverlay dispatches End.
func (c *Coordinator) EndOverlay() { c.Dispatch(End{}) }

// Dispatch is the single state-transition entry point. Commands that do
// not apply to the current state are no-ops.
func (c *Coordinator) Dispatch(cmd Command) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch cmd := cmd.(type) {
	case Begin:
		c.begin()
	case End:
		if c.state != StateRendering {
			return
		}
		c.teardown()
	case rendererExited:
		if c.state != StateRendering || c.session != cmd.session {
			return
		}
		log.Debug("handoff: renderer exited on its own")
		c.stats.SelfExits++
		c.teardown()
	}
}

func (c *Coordinator) begin() {
	if c.state != StateIdle || c.gate == nil || !c.gate.Attached() {
		return
	}
	asset, ok := c.assets.Resolve()
	if !ok {
		log.Debug("handoff: no asset available, overlay skipped")
		return
	}
	if err := c.renderer.Available(); err != nil {
		log.Debug("handoff: renderer unavailable: %v", err)
		return
	}

	token := c.gate.Suspend()
	c.state = StateRendering
	c.token = token

	session, err := c.renderer.Start(c.ctx, asset)
	if err != nil {
		log.Warn("handoff: renderer failed to start: %v", err)
		c.stats.SpawnFailures++
		c.state = StateIdle
		c.token = nil
		c.gate.Resume(token)
		return
	}
	c.session = session
	c.stats.Started++

	// OnExit may fire synchronously if the child is already gone, and
	// always from outside the lock's owner otherwise; either way the
	// notification re-enters through Dispatch on its own goroutine.
	session.OnExit(func() {
		c.pending.Add(1)
		go func() {
			defer c.pending.Done()
			c.Dispatch(rendererExited{session: session})
		}()
	})
}

// teardown returns to Idle before any side effect, then stops the renderer
// and hands the terminal back to the TUI. Caller holds c.mu.
func (c *Coordinator) teardown() {
	c.state = StateIdle
	session, token := c.session, c.token
	c.session, c.token = nil, nil
	c.stats.Finished++

	session.Stop()
	c.gate.StopAllPeriodicWidgets()
	c.gate.Resume(token)
}

// TryHold moves Idle to Manual for the one-shot command. The returned
// release func moves back to Idle; ok is false if the coordinator was busy.
func (c *Coordinator) TryHold() (release func(), ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return nil, false
	}
	c.state = StateManual
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.state = StateIdle
			c.mu.Unlock()
		})
	}, true
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stats returns a snapshot of the outcome counters.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
