package tasks

import (
	"errors"
	"strings"
)

const (
	MinTextLen = 3
	MaxTextLen = 100
)

var (
	ErrTextRequired = errors.New("task required")
	ErrTextTooShort = errors.New("task must be at least 3 characters")
	ErrTextTooLong  = errors.New("task must be at most 100 characters")
	ErrDateRequired = errors.New("date required")
	ErrDateInvalid  = errors.New("date must be YYYY-MM-DD")
	ErrDateInPast   = errors.New("date in past")
)

// FormErrors holds at most one error per form field. Text and date are
// checked independently so both can be reported at once.
type FormErrors struct {
	Text error
	Date error
}

func (e FormErrors) OK() bool { return e.Text == nil && e.Date == nil }

func (e FormErrors) Error() string {
	var parts []string
	if e.Text != nil {
		parts = append(parts, "text: "+e.Text.Error())
	}
	if e.Date != nil {
		parts = append(parts, "date: "+e.Date.Error())
	}
	return strings.Join(parts, "; ")
}

// Err returns e as an error, or nil when both fields are valid.
func (e FormErrors) Err() error {
	if e.OK() {
		return nil
	}
	return e
}

// Is lets errors.Is match either field's sentinel.
func (e FormErrors) Is(target error) bool {
	return errors.Is(e.Text, target) || errors.Is(e.Date, target)
}

// ValidateText checks trimmed task text against the length bounds.
func ValidateText(text string) error {
	s := normalizeText(text)
	switch n := textLen(s); {
	case n == 0:
		return ErrTextRequired
	case n < MinTextLen:
		return ErrTextTooShort
	case n > MaxTextLen:
		return ErrTextTooLong
	}
	return nil
}

// ValidateDue parses the raw date field and rejects dates before today.
func ValidateDue(raw string, today Date) (Date, error) {
	if strings.TrimSpace(raw) == "" {
		return Date{}, ErrDateRequired
	}
	d, err := ParseDate(raw)
	if err != nil {
		return Date{}, ErrDateInvalid
	}
	if d.Before(today) {
		return d, ErrDateInPast
	}
	return d, nil
}

// Validate checks a submitted form. It returns the trimmed text and the
// parsed due date alongside the per-field errors.
func Validate(text, rawDate string, today Date) (string, Date, FormErrors) {
	var fe FormErrors
	fe.Text = ValidateText(text)
	due, derr := ValidateDue(rawDate, today)
	fe.Date = derr
	return normalizeText(text), due, fe
}
