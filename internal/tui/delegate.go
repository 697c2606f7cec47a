package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"cute-todo/internal/tasks"
)

type item struct {
	t      tasks.Task
	today  tasks.Date
	badge  string // decorateTaskRow output, already sanitized
	fading bool
}

func (i item) FilterValue() string { return i.t.Text }

// taskDelegate draws a task as two lines: checkbox and text, then due date
// and status.
type taskDelegate struct{}

func (taskDelegate) Height() int                         { return 2 }
func (taskDelegate) Spacing() int                        { return 1 }
func (taskDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (taskDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	it, ok := li.(item)
	if !ok {
		return
	}
	fmt.Fprint(w, renderRow(it, index == m.Index(), m.Width()))
}

func renderRow(it item, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = selectedStyle.Render("▸ ")
	}
	box := "[ ]"
	if it.t.Completed {
		box = completedBadge.Render("[✓]")
	}
	maxText := tasks.MaxTextLen
	if width > 12 && width-12 < maxText {
		maxText = width - 12
	}
	text := tasks.DisplayText(it.t.Text, maxText)
	switch {
	case it.t.Completed:
		text = doneStyle.Render(text)
	case selected:
		text = selectedStyle.Render(text)
	}
	line1 := fmt.Sprintf("%s%s %s", cursor, box, text)
	if it.badge != "" {
		line1 += " " + hookBadgeStyle.Render(it.badge)
	}

	status := pendingBadge.Render("⏰ Pending")
	if it.t.Completed {
		status = completedBadge.Render("✓ Completed")
	} else if it.t.Overdue(it.today) {
		status = overdueBadge.Render("⚠ Overdue")
	}
	line2 := fmt.Sprintf("      📅 %s (%s) · %s", it.t.DueDate.Pretty(), dueHint(it.t.DueDate, it.today), status)

	row := line1 + "\n" + statStyle.Render(line2)
	if it.fading {
		// drop the inner colors so the whole row fades evenly
		plain := fmt.Sprintf("%s%s %s\n%s", cursor, stripBox(it), tasks.DisplayText(it.t.Text, maxText), line2)
		row = fadingStyle.Render(plain)
	}
	return row
}

func stripBox(it item) string {
	if it.t.Completed {
		return "[✓]"
	}
	return "[ ]"
}

// dueHint phrases due relative to today: "today", "tomorrow", "3 days ago".
func dueHint(due, today tasks.Date) string {
	if due == today {
		return "today"
	}
	if due == today.AddDays(1) {
		return "tomorrow"
	}
	if due == today.AddDays(-1) {
		return "yesterday"
	}
	return humanize.RelTime(due.Time(time.Local), today.Time(time.Local), "ago", "from now")
}

func emptyState() string {
	return emptyStyle.Render(strings.Join([]string{
		"🌸",
		"No tasks found",
		lipgloss.NewStyle().Faint(true).Render("Add your first task to get started!"),
	}, "\n"))
}
