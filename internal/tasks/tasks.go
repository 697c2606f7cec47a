package tasks

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Task is a single to-do entry.
type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	DueDate   Date      `json:"dueDate"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Equal compares field by field; CreatedAt is compared as an instant.
func (t Task) Equal(o Task) bool {
	return t.ID == o.ID && t.Text == o.Text && t.DueDate == o.DueDate &&
		t.Completed == o.Completed && t.CreatedAt.Equal(o.CreatedAt)
}

// DueToday reports whether the task is due on today.
func (t Task) DueToday(today Date) bool { return t.DueDate == today }

// Overdue reports whether a pending task's due date has passed.
func (t Task) Overdue(today Date) bool { return !t.Completed && t.DueDate.Before(today) }

// idGen hands out millisecond-clock ids that never repeat, even when two
// tasks are created within the same millisecond or the clock steps back.
type idGen struct{ last int64 }

func (g *idGen) next(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

func (g *idGen) observe(id int64) {
	if id > g.last {
		g.last = id
	}
}

// textLen counts characters, not bytes.
func textLen(s string) int { return utf8.RuneCountInString(s) }

func normalizeText(s string) string { return strings.TrimSpace(s) }
