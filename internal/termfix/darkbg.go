// ABOUTME: Fixes the lipgloss background guess at init so no OSC 11 query reaches the terminal
// ABOUTME: Blank-import first in main; must never import bubbletea itself

package termfix

import "github.com/charmbracelet/lipgloss"

func init() {
	// With an explicit answer lipgloss skips its background probe. An
	// unanswered probe reply would otherwise land on stdin, where the key
	// reader or a renderer child would read it as input.
	lipgloss.SetHasDarkBackground(true)
}
