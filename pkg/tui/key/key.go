// ABOUTME: Defines the Key type and ParseKey for the command prompt's keyboard input
// ABOUTME: Handles printable runes, the control keys the prompt binds and legacy escape sequences

package key

import "unicode/utf8"

// Key represents a parsed keyboard input event.
type Key struct {
	Type KeyType
	Rune rune // For printable characters
	Alt  bool
}

// KeyType enumerates the kinds of key events the prompt can receive.
type KeyType int

const (
	KeyRune      KeyType = iota // Printable character
	KeyEnter                    // Enter / Return
	KeyTab                      // Tab
	KeyBackspace                // Backspace / DEL (0x7F)
	KeyDelete                   // Delete key
	KeyUp                       // Arrow up
	KeyDown                     // Arrow down
	KeyLeft                     // Arrow left
	KeyRight                    // Arrow right
	KeyHome                     // Home / Ctrl+A
	KeyEnd                      // End / Ctrl+E
	KeyEscape                   // Escape
	KeyCtrlC                    // Ctrl+C
	KeyCtrlD                    // Ctrl+D
	KeyCtrlL                    // Ctrl+L
	KeyCtrlU                    // Ctrl+U
	KeyCtrlW                    // Ctrl+W
	KeyUnknown                  // Unrecognized input
)

var ctrlKeys = map[byte]KeyType{
	0x01: KeyHome,
	0x03: KeyCtrlC,
	0x04: KeyCtrlD,
	0x05: KeyEnd,
	0x08: KeyBackspace,
	0x0c: KeyCtrlL,
	0x15: KeyCtrlU,
	0x17: KeyCtrlW,
}

// ParseKey parses one complete key's worth of raw terminal input.
func ParseKey(data string) Key {
	if len(data) == 0 {
		return Key{Type: KeyUnknown}
	}
	if len(data) == 1 {
		return parseSingleByte(data[0])
	}
	if data[0] == 0x1b {
		return parseEscapeSequence(data)
	}

	r, size := utf8.DecodeRuneInString(data)
	if r == utf8.RuneError || size != len(data) {
		return Key{Type: KeyUnknown}
	}
	return Key{Type: KeyRune, Rune: r}
}

func parseSingleByte(b byte) Key {
	switch {
	case b == 0x0d || b == 0x0a:
		return Key{Type: KeyEnter}
	case b == 0x09:
		return Key{Type: KeyTab}
	case b == 0x7f:
		return Key{Type: KeyBackspace}
	case b == 0x1b:
		return Key{Type: KeyEscape}
	case b >= 0x20 && b <= 0x7e:
		return Key{Type: KeyRune, Rune: rune(b)}
	}
	if t, ok := ctrlKeys[b]; ok {
		return Key{Type: t}
	}
	return Key{Type: KeyUnknown}
}

func parseEscapeSequence(data string) Key {
	if k, ok := legacySequences[data]; ok {
		return k
	}
	// Alt+letter: ESC followed by a single printable byte.
	if len(data) == 2 && data[1] >= 0x20 && data[1] <= 0x7e {
		return Key{Type: KeyRune, Rune: rune(data[1]), Alt: true}
	}
	return Key{Type: KeyUnknown}
}

// IsPrefix reports whether data could still grow into a known escape
// sequence, so a reader should wait for more bytes.
func IsPrefix(data string) bool {
	if len(data) == 0 || data[0] != 0x1b {
		return false
	}
	if len(data) == 1 {
		return true
	}
	for seq := range legacySequences {
		if len(seq) > len(data) && seq[:len(data)] == data {
			return true
		}
	}
	return false
}
