package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	RootStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGray)

	ComponentStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	SourceStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	ArtifactStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	ListenerStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)

// SourceText styles a source identifier
func SourceText(text string) string {
	return SourceStyle.Render(text)
}

// ArtifactText styles a compiled output path
func ArtifactText(text string) string {
	return ArtifactStyle.Render(text)
}

// ListenerText styles a listen address
func ListenerText(text string) string {
	return ListenerStyle.Render(text)
}

// ValidText styles valid status text (green)
func ValidText(text string) string {
	return SuccessStyle.Render(text)
}

// ErrorText styles error text (red)
func ErrorText(text string) string {
	return ErrorStyle.Render(text)
}

// PathText styles file paths (gray)
func PathText(text string) string {
	return InfoStyle.Render(text)
}

// CountText styles count numbers (cyan)
func CountText(text string) string {
	return ComponentStyle.Render(text)
}
