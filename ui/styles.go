package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Dialog color palette.
	colorPrimary = lipgloss.Color("#5DA7DB")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	titleStyle   = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	promptStyle  = lipgloss.NewStyle().Foreground(colorPrimary)
)

// Title prints a section header.
func Title(text string) {
	fmt.Println()
	fmt.Println(titleStyle.Render(text))
	fmt.Println(mutedStyle.Render(divider(len(text))))
}

// Success prints a success message.
func Success(format string, args ...any) {
	fmt.Print(successStyle.Render("✓ "))
	fmt.Printf(format+"\n", args...)
}

// Warning prints a warning message.
func Warning(format string, args ...any) {
	fmt.Print(warningStyle.Render("⚠ "))
	fmt.Printf(format+"\n", args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	fmt.Print(errorStyle.Render("✗ "))
	fmt.Printf(format+"\n", args...)
}

// Muted prints a secondary message.
func Muted(format string, args ...any) {
	fmt.Println(mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Prompt prints an input prompt without a trailing newline.
func Prompt(text string) {
	fmt.Print(promptStyle.Render(text + " "))
}

func divider(n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = '─'
	}
	return string(out)
}
