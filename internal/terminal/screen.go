package terminal

import "strings"

// LineKind selects the style a scrollback line is rendered with.
type LineKind int

const (
	LineOutput LineKind = iota
	LineError
	LineSystem
	LineInput
)

// Line is one scrollback entry.
type Line struct {
	Kind LineKind
	Text string
}

// Welcome block shown once on mount.
var bannerLines = []string{
	"cloudterm - cloud sandbox terminal",
	"Type 'help' for available commands, 'connect' to go live.",
	"",
}

const defaultMaxLines = 2000

// Screen is the terminal scrollback. It knows its viewport dimensions
// for layout but stores lines unwrapped; resizing is a pure layout
// operation with no effect on content.
type Screen struct {
	lines    []Line
	width    int
	height   int
	maxLines int
}

// NewScreen creates a screen with the welcome banner already written.
func NewScreen(width, height int) *Screen {
	s := &Screen{width: width, height: height, maxLines: defaultMaxLines}
	s.Banner()
	return s
}

// Banner appends the fixed welcome block.
func (s *Screen) Banner() {
	for _, text := range bannerLines {
		s.lines = append(s.lines, Line{Kind: LineSystem, Text: text})
	}
}

// Append adds text to the scrollback, splitting on newlines so each
// stored line is a single display row.
func (s *Screen) Append(kind LineKind, text string) {
	for _, part := range strings.Split(text, "\n") {
		s.lines = append(s.lines, Line{Kind: kind, Text: part})
	}
	if len(s.lines) > s.maxLines {
		s.lines = s.lines[len(s.lines)-s.maxLines:]
	}
}

// Clear drops all scrollback lines.
func (s *Screen) Clear() {
	s.lines = s.lines[:0]
}

// Fit records new viewport dimensions. Content, the line buffer and
// the connection are untouched.
func (s *Screen) Fit(width, height int) {
	if width > 0 {
		s.width = width
	}
	if height > 0 {
		s.height = height
	}
}

// Width returns the viewport width.
func (s *Screen) Width() int { return s.width }

// Height returns the viewport height.
func (s *Screen) Height() int { return s.height }

// Lines returns a copy of the scrollback.
func (s *Screen) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of scrollback lines.
func (s *Screen) Len() int {
	return len(s.lines)
}
