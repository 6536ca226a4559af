// ABOUTME: Table-driven tests for Key parsing covering ASCII, control chars, and escape sequences
// ABOUTME: Also checks escape prefix detection used by the input reader

package key

import "testing"

func TestParseKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want Key
	}{
		{name: "lowercase a", data: "a", want: Key{Type: KeyRune, Rune: 'a'}},
		{name: "slash", data: "/", want: Key{Type: KeyRune, Rune: '/'}},
		{name: "space", data: " ", want: Key{Type: KeyRune, Rune: ' '}},
		{name: "utf8", data: "é", want: Key{Type: KeyRune, Rune: 'é'}},

		{name: "ctrl+a", data: "\x01", want: Key{Type: KeyHome}},
		{name: "ctrl+c", data: "\x03", want: Key{Type: KeyCtrlC}},
		{name: "ctrl+d", data: "\x04", want: Key{Type: KeyCtrlD}},
		{name: "ctrl+e", data: "\x05", want: Key{Type: KeyEnd}},
		{name: "ctrl+u", data: "\x15", want: Key{Type: KeyCtrlU}},
		{name: "ctrl+w", data: "\x17", want: Key{Type: KeyCtrlW}},
		{name: "ctrl+z unbound", data: "\x1a", want: Key{Type: KeyUnknown}},

		{name: "enter", data: "\r", want: Key{Type: KeyEnter}},
		{name: "newline", data: "\n", want: Key{Type: KeyEnter}},
		{name: "tab", data: "\t", want: Key{Type: KeyTab}},
		{name: "backspace", data: "\x7f", want: Key{Type: KeyBackspace}},
		{name: "ctrl+h", data: "\x08", want: Key{Type: KeyBackspace}},
		{name: "escape", data: "\x1b", want: Key{Type: KeyEscape}},

		{name: "up", data: "\x1b[A", want: Key{Type: KeyUp}},
		{name: "left ss3", data: "\x1bOD", want: Key{Type: KeyLeft}},
		{name: "delete", data: "\x1b[3~", want: Key{Type: KeyDelete}},
		{name: "home tilde", data: "\x1b[1~", want: Key{Type: KeyHome}},
		{name: "alt+b", data: "\x1bb", want: Key{Type: KeyRune, Rune: 'b', Alt: true}},
		{name: "unknown csi", data: "\x1b[99~", want: Key{Type: KeyUnknown}},
		{name: "empty", data: "", want: Key{Type: KeyUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseKey(tt.data); got != tt.want {
				t.Errorf("ParseKey(%q) = %+v, want %+v", tt.data, got, tt.want)
			}
		})
	}
}

func TestIsPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		data string
		want bool
	}{
		{"\x1b", true},
		{"\x1b[", true},
		{"\x1b[3", true},
		{"\x1bO", true},
		{"\x1b[A", false},
		{"\x1bb", false},
		{"a", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsPrefix(tt.data); got != tt.want {
			t.Errorf("IsPrefix(%q) = %v, want %v", tt.data, got, tt.want)
		}
	}
}
