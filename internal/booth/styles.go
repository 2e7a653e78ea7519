package booth

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F5C518")).
			Padding(0, 1)

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#555555")).
			Padding(1, 2)

	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5C518")).Bold(true)
	focusedLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5C518"))
	blurredLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD787"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
	billHeadStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	billCellStyle = lipgloss.NewStyle().Padding(0, 1)
)
