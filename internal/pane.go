package sysglance

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Pane is a bordered panel holding one chart view. The accent color
// flows in from the shell configuration; it is never read from
// ambient theme state.
type Pane struct {
	title   string
	content string
	width   int
	height  int
	accent  lipgloss.Color
}

// NewPane creates a pane with the given accent color.
func NewPane(title string, width, height int, accent lipgloss.Color) Pane {
	return Pane{
		title:  title,
		width:  width,
		height: height,
		accent: accent,
	}
}

// SetContent sets the pane body.
func (p Pane) SetContent(content string) Pane {
	p.content = content
	return p
}

// SetSize sets the pane dimensions.
func (p Pane) SetSize(width, height int) Pane {
	p.width = width
	p.height = height
	return p
}

// Render draws the titled, bordered pane.
func (p Pane) Render() string {
	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))
	titleStyle := lipgloss.NewStyle().
		Foreground(p.accent).
		Bold(true)

	var b strings.Builder
	if p.title != "" {
		b.WriteString(titleStyle.Render(p.title) + "\n")
	}
	b.WriteString(p.content)

	return borderStyle.
		Width(p.width).
		Height(p.height).
		Render(b.String())
}

// Vertical stacks panes top to bottom.
func Vertical(panes ...Pane) string {
	if len(panes) == 0 {
		return ""
	}
	views := make([]string, len(panes))
	for i, pane := range panes {
		views[i] = pane.Render()
	}
	return lipgloss.JoinVertical(lipgloss.Left, views...)
}
