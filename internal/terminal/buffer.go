package terminal

import "strings"

// Control byte values handled by the line editor.
const (
	keyInterrupt = 3   // Ctrl+C
	keyEnter     = 13  // carriage return
	keyBackspace = 127 // DEL
	printableMin = 32
)

// Event is the line editor's reaction to one keystroke.
type Event int

const (
	EventNone Event = iota
	EventEcho
	EventErase
	EventSubmit
	EventInterrupt
)

// Keystroke is the outcome of feeding one rune to the buffer.
type Keystroke struct {
	Event   Event
	Rune    rune   // set for EventEcho
	Command string // trimmed buffer contents, set for EventSubmit
}

// LineBuffer holds the in-progress command line. Keystrokes mutate it
// through Feed only; the buffer is cleared exactly once per submitted
// command and unconditionally on interrupt.
type LineBuffer struct {
	runes []rune
}

// Feed processes a single keystroke:
//   - printable runes append and echo
//   - Backspace removes the last rune, a no-op on an empty buffer
//   - Enter submits the trimmed buffer and clears it unconditionally
//   - Ctrl+C clears without submitting
//   - all other control codes are ignored
func (b *LineBuffer) Feed(r rune) Keystroke {
	switch {
	case r == keyEnter:
		command := strings.TrimSpace(string(b.runes))
		b.runes = b.runes[:0]
		return Keystroke{Event: EventSubmit, Command: command}

	case r == keyInterrupt:
		b.runes = b.runes[:0]
		return Keystroke{Event: EventInterrupt}

	case r == keyBackspace:
		if len(b.runes) == 0 {
			return Keystroke{Event: EventNone}
		}
		b.runes = b.runes[:len(b.runes)-1]
		return Keystroke{Event: EventErase}

	case r >= printableMin:
		b.runes = append(b.runes, r)
		return Keystroke{Event: EventEcho, Rune: r}

	default:
		return Keystroke{Event: EventNone}
	}
}

// String returns the current line contents.
func (b *LineBuffer) String() string {
	return string(b.runes)
}

// Len returns the number of runes in the line.
func (b *LineBuffer) Len() int {
	return len(b.runes)
}

// Clear empties the line.
func (b *LineBuffer) Clear() {
	b.runes = b.runes[:0]
}
