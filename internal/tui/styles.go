package tui

import "github.com/charmbracelet/lipgloss"

var (
	pink   = lipgloss.AdaptiveColor{Light: "#D946EF", Dark: "#F0ABFC"}
	muted  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#B0B7C3"}
	faded  = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}
	green  = lipgloss.Color("10")
	yellow = lipgloss.Color("11")
	red    = lipgloss.Color("9")
	blue   = lipgloss.Color("12")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(pink)
	statStyle      = lipgloss.NewStyle().Foreground(muted)
	labelStyle     = lipgloss.NewStyle().Bold(true).Width(6)
	errStyle       = lipgloss.NewStyle().Foreground(red)
	bannerStyle    = lipgloss.NewStyle().Foreground(yellow).Italic(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(pink).Bold(true)
	doneStyle      = lipgloss.NewStyle().Foreground(muted).Strikethrough(true)
	fadingStyle    = lipgloss.NewStyle().Foreground(faded).Strikethrough(true)
	completedBadge = lipgloss.NewStyle().Foreground(green)
	pendingBadge   = lipgloss.NewStyle().Foreground(yellow)
	overdueBadge   = lipgloss.NewStyle().Foreground(red).Bold(true)
	hookBadgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	emptyStyle     = lipgloss.NewStyle().Foreground(muted).Padding(1, 4)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(pink).
			Padding(1, 3)
	menuStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(muted).
			Padding(0, 1)

	noticeStyles = map[noticeKind]lipgloss.Style{
		noticeSuccess: lipgloss.NewStyle().Foreground(green).Bold(true),
		noticeWarning: lipgloss.NewStyle().Foreground(yellow).Bold(true),
		noticeInfo:    lipgloss.NewStyle().Foreground(blue),
	}
)
