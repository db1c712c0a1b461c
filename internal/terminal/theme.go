package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Prompt is the fixed prompt string shown before the input line.
const Prompt = "$ "

// Theme is the terminal's fixed color palette.
type Theme struct {
	Prompt lipgloss.Style
	Input  lipgloss.Style
	Output lipgloss.Style
	Error  lipgloss.Style
	System lipgloss.Style
	Cursor lipgloss.Style
}

// DefaultTheme returns the standard palette.
func DefaultTheme() Theme {
	return Theme{
		Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Input:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Output: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		System: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Cursor: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	}
}

// styleFor maps a line kind to its style
func (t Theme) styleFor(kind LineKind) lipgloss.Style {
	switch kind {
	case LineError:
		return t.Error
	case LineSystem:
		return t.System
	case LineInput:
		return t.Input
	default:
		return t.Output
	}
}

// RenderLines returns the styled scrollback as one string.
func (t Theme) RenderLines(s *Screen) string {
	var out []string
	for _, line := range s.Lines() {
		if line.Kind == LineInput {
			out = append(out, t.Prompt.Render(Prompt)+t.Input.Render(line.Text))
			continue
		}
		out = append(out, t.styleFor(line.Kind).Render(line.Text))
	}
	return strings.Join(out, "\n")
}

// RenderPrompt returns the live prompt line with the pending input and
// a block cursor.
func (t Theme) RenderPrompt(pending string) string {
	return t.Prompt.Render(Prompt) + t.Input.Render(pending) + t.Cursor.Render("█")
}
