package tasks

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter narrows the visible set by completion or due date.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
	FilterToday     Filter = "today"
)

// Filters lists every filter in menu order.
var Filters = []Filter{FilterAll, FilterCompleted, FilterPending, FilterToday}

func (f Filter) Label() string {
	switch f {
	case FilterAll:
		return "All Tasks"
	case FilterCompleted:
		return "Completed"
	case FilterPending:
		return "Pending"
	case FilterToday:
		return "Due Today"
	}
	return string(f)
}

func ParseFilter(s string) (Filter, error) {
	for _, f := range Filters {
		if string(f) == strings.ToLower(strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return FilterAll, fmt.Errorf("unknown filter %q", s)
}

// SortMode orders the visible set.
type SortMode string

const (
	SortDefault  SortMode = "default"
	SortDateAsc  SortMode = "date-asc"
	SortDateDesc SortMode = "date-desc"
	SortNameAsc  SortMode = "name-asc"
)

// SortModes lists every sort mode in the order the UI cycles through them.
var SortModes = []SortMode{SortDefault, SortDateAsc, SortDateDesc, SortNameAsc}

func (s SortMode) Label() string {
	switch s {
	case SortDefault:
		return "Default"
	case SortDateAsc:
		return "Date (Old → New)"
	case SortDateDesc:
		return "Date (New → Old)"
	case SortNameAsc:
		return "Name (A → Z)"
	}
	return string(s)
}

// Next returns the mode after s, wrapping around.
func (s SortMode) Next() SortMode {
	for i, m := range SortModes {
		if m == s {
			return SortModes[(i+1)%len(SortModes)]
		}
	}
	return SortDefault
}

func ParseSort(s string) (SortMode, error) {
	for _, m := range SortModes {
		if string(m) == strings.ToLower(strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return SortDefault, fmt.Errorf("unknown sort mode %q", s)
}

// Query is the set of selections the visible list is derived from.
type Query struct {
	Search string
	Filter Filter
	Sort   SortMode
}

// Apply derives the visible sequence: search, then status filter, then sort.
// list is never modified.
func Apply(list []Task, q Query, today Date) []Task {
	out := Search(list, q.Search)
	out = FilterBy(out, q.Filter, today)
	return SortBy(out, q.Sort)
}

// Search keeps tasks whose text contains term, ignoring case. An empty term keeps all.
func Search(list []Task, term string) []Task {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]Task, 0, len(list))
	for _, t := range list {
		if term == "" || strings.Contains(strings.ToLower(t.Text), term) {
			out = append(out, t)
		}
	}
	return out
}

// FilterBy applies a status filter. Unknown filters behave like FilterAll.
func FilterBy(list []Task, f Filter, today Date) []Task {
	out := make([]Task, 0, len(list))
	for _, t := range list {
		keep := true
		switch f {
		case FilterCompleted:
			keep = t.Completed
		case FilterPending:
			keep = !t.Completed
		case FilterToday:
			keep = t.DueToday(today)
		}
		if keep {
			out = append(out, t)
		}
	}
	return out
}

// SortBy returns a sorted copy of list.
func SortBy(list []Task, mode SortMode) []Task {
	out := make([]Task, len(list))
	copy(out, list)
	switch mode {
	case SortDateAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	case SortDateDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.After(out[j].DueDate) })
	case SortNameAsc:
		// localeCompare-like ordering: case folds at the primary level, lower case first on ties.
		c := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool { return c.CompareString(out[i].Text, out[j].Text) < 0 })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}
