// ABOUTME: Core TUI interfaces: Component, Periodic, and the cursor marker
// ABOUTME: Periodic marks widgets that redraw on their own timer and can be halted

package tui

// CursorMarker is a zero-width marker that components embed in render output
// to indicate cursor position. The TUI engine strips it and positions the
// real terminal cursor at that location.
const CursorMarker = "\x1b_pi:c\x07"

// Component is the base interface for all TUI elements.
// Components render into a pooled RenderBuffer and must not exceed the given width.
type Component interface {
	// Render writes the component's visual lines into out.
	// Lines must not exceed width visible columns.
	Render(out *RenderBuffer, width int)

	// Invalidate clears any cached render state, forcing a full re-render
	// on the next Render call.
	Invalidate()
}

// Periodic is implemented by components that drive their own redraw timer
// (spinners, progress indicators). A widget whose timer keeps running while
// the terminal belongs to someone else will paint a stale frame the moment
// the engine restarts, so every such widget must expose a way to halt it.
type Periodic interface {
	// Active reports whether the redraw timer is running.
	Active() bool
	// Stop halts the redraw timer. Safe to call when not active.
	Stop()
}
