package tasks

import (
	"time"

	"cute-todo/internal/hooks"
)

// TaskToMap is the shape hook functions receive.
func TaskToMap(t Task, today Date) map[string]any {
	return map[string]any{
		"id":        t.ID,
		"text":      t.Text,
		"dueDate":   t.DueDate.String(),
		"completed": t.Completed,
		"createdAt": t.CreatedAt.Format(time.RFC3339),
		"dueToday":  t.DueToday(today),
		"overdue":   t.Overdue(today),
	}
}

// RowDecoration asks the decorateTaskRow hook for a badge. The result is
// sanitized like task text.
func RowDecoration(env *hooks.HookEnv, t Task, today Date) string {
	if env == nil {
		return ""
	}
	s, ok := env.CallString("decorateTaskRow", TaskToMap(t, today))
	if !ok {
		return ""
	}
	return DisplayText(s, 24)
}

// CelebrationText returns the notice shown when t is completed, letting the
// celebrate hook override the default.
func CelebrationText(env *hooks.HookEnv, t Task, today Date) string {
	const def = "🎉 Task completed! Great job!"
	if env == nil {
		return def
	}
	if s, ok := env.CallString("celebrate", TaskToMap(t, today)); ok {
		return DisplayText(s, 80)
	}
	return def
}
