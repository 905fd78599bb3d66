package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// Colors defines the color palette shared by the board and the CLI.
var Colors = struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color

	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color
	DescNormal    lipgloss.Color
	DescSelected  lipgloss.Color

	Pending   lipgloss.Color
	Completed lipgloss.Color
	Required  lipgloss.Color
	Deadline  lipgloss.Color

	GroupLine lipgloss.Color
}{
	Primary:   lipgloss.Color("#6C5CE7"), // Purple
	Secondary: lipgloss.Color("#A29BFE"), // Lavender
	Muted:     lipgloss.Color("#636E72"), // Gray
	Error:     lipgloss.Color("#D63031"), // Red
	Success:   lipgloss.Color("#00B894"), // Green
	Warning:   lipgloss.Color("#FDCB6E"), // Yellow

	TitleNormal:   lipgloss.Color("#DFE6E9"),
	TitleSelected: lipgloss.Color("#FFEAA7"),
	DescNormal:    lipgloss.Color("#636E72"),
	DescSelected:  lipgloss.Color("#B2BEC3"),

	Pending:   lipgloss.Color("#74B9FF"), // Light blue
	Completed: lipgloss.Color("#00B894"),
	Required:  lipgloss.Color("#D63031"),
	Deadline:  lipgloss.Color("#FDCB6E"),

	GroupLine: lipgloss.Color("#636E72"),
}

// Styles contains the lipgloss styles for the board.
type Styles struct {
	// App
	App    lipgloss.Style
	Header lipgloss.Style

	// Task list
	TaskID            lipgloss.Style
	TaskTitle         lipgloss.Style
	TaskTitleSelected lipgloss.Style
	TaskDesc          lipgloss.Style
	TaskDescSelected  lipgloss.Style
	Indicator         lipgloss.Style
	KindRequired      lipgloss.Style
	KindNext          lipgloss.Style
	Deadline          lipgloss.Style

	// Group header
	GroupHeader lipgloss.Style

	// Status badges
	StatusPending   lipgloss.Style
	StatusCompleted lipgloss.Style

	// Footer
	Footer   lipgloss.Style
	ErrorMsg lipgloss.Style
	Info     lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary).
			MarginBottom(1),

		TaskID: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		TaskTitle: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),

		TaskTitleSelected: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),

		TaskDesc: lipgloss.NewStyle().
			Foreground(Colors.DescNormal),

		TaskDescSelected: lipgloss.NewStyle().
			Foreground(Colors.DescSelected),

		Indicator: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true),

		KindRequired: lipgloss.NewStyle().
			Foreground(Colors.Required).
			Bold(true),

		KindNext: lipgloss.NewStyle().
			Foreground(Colors.Secondary),

		Deadline: lipgloss.NewStyle().
			Foreground(Colors.Deadline),

		GroupHeader: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true),

		StatusPending: lipgloss.NewStyle().
			Foreground(Colors.Pending),

		StatusCompleted: lipgloss.NewStyle().
			Foreground(Colors.Completed),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			MarginTop(1),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Colors.Success),
	}
}

// StatusStyle returns the badge style for a status.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	if status == domain.StatusCompleted {
		return s.StatusCompleted
	}
	return s.StatusPending
}

// KindStyle returns the label style for a kind.
func (s Styles) KindStyle(kind domain.Kind) lipgloss.Style {
	if kind == domain.KindRequiredAction {
		return s.KindRequired
	}
	return s.KindNext
}

// StatusIcon returns an icon for a status.
func StatusIcon(status domain.Status) string {
	if status == domain.StatusCompleted {
		return "✓"
	}
	return "○"
}
