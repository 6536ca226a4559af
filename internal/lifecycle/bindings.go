// ABOUTME: Maps host events to coordinator commands and wires them onto the event bus
// ABOUTME: Each event yields at most one command; rules match on type and an optional role

package lifecycle

import (
	"github.com/mauromedda/pi-overlay-go/internal/config"
	"github.com/mauromedda/pi-overlay-go/internal/eventbus"
	"github.com/mauromedda/pi-overlay-go/internal/handoff"
	"github.com/mauromedda/pi-overlay-go/internal/log"
)

// Action is what an event asks of the coordinator.
type Action int

const (
	ActionNone Action = iota
	ActionBegin
	ActionEnd
)

func (a Action) String() string {
	switch a {
	case ActionBegin:
		return "begin"
	case ActionEnd:
		return "end"
	default:
		return "none"
	}
}

type rule struct {
	typ    string
	role   string
	action Action
}

func (r rule) matches(ev Event) bool {
	return r.typ == ev.Type && (r.role == "" || r.role == ev.Role)
}

// Bindings is a compiled event-to-action table.
type Bindings struct {
	rules []rule
}

// Compile builds Bindings from config. Begin rules are consulted before
// end rules; the first match wins.
func Compile(ev config.Events) Bindings {
	b := Bindings{rules: make([]rule, 0, len(ev.Begin)+len(ev.End))}
	for _, m := range ev.Begin {
		b.rules = append(b.rules, rule{typ: m.Type, role: m.Role, action: ActionBegin})
	}
	for _, m := range ev.End {
		b.rules = append(b.rules, rule{typ: m.Type, role: m.Role, action: ActionEnd})
	}
	return b
}

// DefaultBindings returns the pi agent lifecycle bindings.
func DefaultBindings() Bindings {
	return Compile(config.DefaultEvents())
}

// Action returns the action for ev, or ActionNone.
func (b Bindings) Action(ev Event) Action {
	for _, r := range b.rules {
		if r.matches(ev) {
			return r.action
		}
	}
	return ActionNone
}

// Dispatcher receives coordinator commands. *handoff.Coordinator implements it.
type Dispatcher interface {
	Dispatch(handoff.Command)
}

// Attach subscribes one handler to bus that turns every bound event into
// a single coordinator command. The returned func detaches it.
func Attach(bus *eventbus.Bus[Event], d Dispatcher, b Bindings) func() {
	return bus.Subscribe(func(ev Event) {
		switch b.Action(ev) {
		case ActionBegin:
			log.Debug("lifecycle: %s -> begin", ev.Type)
			d.Dispatch(handoff.Begin{})
		case ActionEnd:
			log.Debug("lifecycle: %s -> end", ev.Type)
			d.Dispatch(handoff.End{})
		}
	})
}
