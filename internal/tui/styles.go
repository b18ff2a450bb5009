// ABOUTME: Shared lipgloss styles for the reader and the setup wizard
// ABOUTME: Colors follow the 256-color palette used across newsense

package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	unreadStyle   = lipgloss.NewStyle().Bold(true)
	readStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	snippetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	tabStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeTab     = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("99"))
	likedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	dislikedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160")).Padding(0, 1)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
)
