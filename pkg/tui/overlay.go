// ABOUTME: Overlay types for components composited over the main content
// ABOUTME: Used for notification toasts anchored to the top or bottom edge

package tui

// OverlayPosition defines where an overlay is rendered.
type OverlayPosition int

const (
	OverlayCenter OverlayPosition = iota
	OverlayTop
	OverlayBottom
)

// Overlay is a component drawn on top of the main container. Lines of the
// overlay replace the underlying lines at the computed rows.
type Overlay struct {
	Component Component
	Position  OverlayPosition
	Width     int // 0 means use terminal width
	Height    int // 0 means auto-size from render output
}
