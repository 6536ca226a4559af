// ABOUTME: Presentation of lifecycle events shared by the host UIs
// ABOUTME: Maps agent events to the "working" indicator the hosts show between overlays

package main

import (
	"strings"

	"github.com/mauromedda/pi-overlay-go/internal/lifecycle"
)

// eventLine renders ev as one chat line, e.g. "· tool_execution_start (bash)".
func eventLine(ev lifecycle.Event) string {
	var b strings.Builder
	b.WriteString("· ")
	b.WriteString(ev.Type)
	switch {
	case ev.Tool != "":
		b.WriteString(" (" + ev.Tool + ")")
	case ev.Role != "":
		b.WriteString(" [" + ev.Role + "]")
	}
	return b.String()
}

// workingLabel returns the indicator label for events that start work.
func workingLabel(ev lifecycle.Event) (string, bool) {
	switch ev.Type {
	case "before_agent_start", "tool_execution_end":
		return "Thinking...", true
	case "tool_execution_start":
		if ev.Tool != "" {
			return "Running " + ev.Tool + "...", true
		}
		return "Running tool...", true
	}
	return "", false
}

// idleEvent reports events after which the agent waits for the user.
func idleEvent(ev lifecycle.Event) bool {
	switch ev.Type {
	case "message_update", "agent_end", "session_shutdown":
		return true
	}
	return false
}
