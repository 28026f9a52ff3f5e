// Package ui holds the terminal styles shared by the CLI help, the setup
// wizard and the local chat. Only the 16 basic ANSI colors are used so the
// output reads on light and dark themes alike.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	DescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	FlagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// Wizard.
	StepTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	ItemStyle      = lipgloss.NewStyle().PaddingLeft(2)
	SelectedStyle  = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

	// Chat buttons.
	ButtonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
)
