// Package report renders the task collection for people: markdown, CSV,
// JSON and PDF.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"cute-todo/internal/tasks"
)

type Format string

const (
	FormatMarkdown Format = "md"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatPDF      Format = "pdf"
)

// maxTitle bounds a task's one-line heading; longer or unclean text gets the
// full version in a details block.
const maxTitle = 80

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown report format %q (want .md, .csv, .json or .pdf)", ext)
}

// Write renders list in format. today decides the "due today"/"overdue" marks.
func Write(w io.Writer, list []tasks.Task, format Format, today tasks.Date) error {
	switch format {
	case FormatMarkdown:
		return writeMarkdown(w, list, today, nil)
	case FormatCSV:
		return writeCSV(w, list)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if list == nil {
			list = []tasks.Task{}
		}
		return enc.Encode(list)
	case FormatPDF:
		return writePDF(w, list, today)
	}
	return fmt.Errorf("unknown report format %q", format)
}

// WriteFile renders list to filename, picking the format from its extension.
// progress, if set, is called as markdown rows are written.
func WriteFile(filename string, list []tasks.Task, today tasks.Date, progress func(cur, total int)) error {
	format, err := FormatFromPath(filename)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	if format == FormatMarkdown {
		err = writeMarkdown(f, list, today, progress)
	} else {
		err = Write(f, list, format, today)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

func status(t tasks.Task, today tasks.Date) string {
	switch {
	case t.Completed:
		return "done"
	case t.Overdue(today):
		return "overdue"
	case t.DueToday(today):
		return "due today"
	}
	return "pending"
}

func writeMarkdown(w io.Writer, list []tasks.Task, today tasks.Date, progress func(int, int)) error {
	st := tasks.StatsOf(list)
	fmt.Fprintf(w, "# Tasks\n\n")
	fmt.Fprintf(w, "%d total, %d completed, %d pending (%d%%)\n\n", st.Total, st.Completed, st.Pending, st.Percent)
	total := len(list)
	for i, t := range list {
		full := strings.TrimSpace(t.Text)
		title, changed, truncated := tasks.CleanOneLine(full, maxTitle)
		box := " "
		if t.Completed {
			box = "x"
		}
		fmt.Fprintf(w, "- [%s] %s\n", box, tasks.EscapeMarkdown(title))
		fmt.Fprintf(w, "  - Due: %s (%s)\n", t.DueDate.Pretty(), status(t, today))
		if !t.CreatedAt.IsZero() {
			fmt.Fprintf(w, "  - Created: %s\n", t.CreatedAt.Local().Format(time.RFC3339))
		}
		if changed || truncated {
			fmt.Fprintf(w, "\n  <details><summary>%s</summary>\n\n", tasks.EscapeHTML(title))
			fence := codeFence(full)
			body := strings.ReplaceAll(full, "\n", "\n  ")
			fmt.Fprintf(w, "  %s\n  %s\n  %s\n\n  </details>\n", fence, body, fence)
		}
		if progress != nil {
			progress(i+1, total)
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// codeFence returns a backtick fence longer than any backtick run in s.
func codeFence(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}

func writeCSV(w io.Writer, list []tasks.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "text", "due_date", "completed", "created_at"}); err != nil {
		return err
	}
	for _, t := range list {
		rec := []string{
			strconv.FormatInt(t.ID, 10),
			t.Text,
			t.DueDate.String(),
			strconv.FormatBool(t.Completed),
			t.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePDF(w io.Writer, list []tasks.Task, today tasks.Date) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252; map what we can and let the rest degrade
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Report")
	pdf.Ln(12)

	st := tasks.StatsOf(list)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%d total, %d completed, %d pending (%d%%)", st.Total, st.Completed, st.Pending, st.Percent))
	pdf.Ln(10)

	for _, t := range list {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s  due %s (%s)", box, tasks.DisplayText(t.Text, 0), t.DueDate.String(), status(t, today))
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
