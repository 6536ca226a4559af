// ABOUTME: Single-line notification shown as a bottom overlay
// ABOUTME: Severity picks the prefix glyph; the host removes it after a timeout

package component

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/pi-overlay-go/pkg/tui"
	"github.com/mauromedda/pi-overlay-go/pkg/tui/width"
)

// Severity classifies a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

var toastStyles = map[Severity]lipgloss.Style{
	SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
}

var toastGlyphs = map[Severity]string{
	SeverityInfo:    "ℹ",
	SeverityWarning: "⚠",
	SeverityError:   "✗",
}

// Toast is a one-line notification.
type Toast struct {
	Message  string
	Severity Severity
}

// NewToast creates a Toast.
func NewToast(message string, severity Severity) *Toast {
	return &Toast{Message: message, Severity: severity}
}

// Render draws the glyph and message, styled by severity.
func (t *Toast) Render(out *tui.RenderBuffer, w int) {
	style, ok := toastStyles[t.Severity]
	if !ok {
		style = toastStyles[SeverityInfo]
	}
	glyph := toastGlyphs[t.Severity]
	if glyph == "" {
		glyph = toastGlyphs[SeverityInfo]
	}
	out.WriteLine(width.TruncateToWidth(style.Render(glyph+" "+t.Message), w))
}

// Invalidate is a no-op for Toast.
func (t *Toast) Invalidate() {}
