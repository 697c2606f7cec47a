package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"

	"cute-todo/internal/tasks"
)

// detailMarkdown builds the markdown shown when a task is opened.
func detailMarkdown(t tasks.Task, today tasks.Date) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "# %s\n\n", tasks.EscapeMarkdown(t.Text))
	status := "⏰ Pending"
	switch {
	case t.Completed:
		status = "✓ Completed"
	case t.Overdue(today):
		status = "⚠ Overdue"
	}
	fmt.Fprintf(b, "- Status: %s\n", status)
	fmt.Fprintf(b, "- Due: %s (%s)\n", t.DueDate.Pretty(), dueHint(t.DueDate, today))
	if !t.CreatedAt.IsZero() {
		fmt.Fprintf(b, "- Created: %s (%s)\n", t.CreatedAt.Local().Format("2006-01-02 15:04"), humanize.Time(t.CreatedAt))
	}
	fmt.Fprintf(b, "- ID: `%d`\n", t.ID)
	return b.String()
}

// renderMarkdown renders md for the terminal, falling back to the raw text.
func renderMarkdown(md string, width int) string {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width-4))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

