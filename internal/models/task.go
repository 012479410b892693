package models

import (
	"errors"
	"time"
)

const (
	TimeFrameLongTerm  = "long_term"
	TimeFrameShortTerm = "short_term"
)

const maxTitleLength = 255

var (
	ErrEmptyTitle       = errors.New("task title is empty")
	ErrTitleTooLong     = errors.New("task title is too long")
	ErrInvalidTimeFrame = errors.New("invalid time frame")
	ErrPastDeadline     = errors.New("deadline is in the past")
)

type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	IsUrgent    bool
	IsImportant bool
	TimeFrame   string
	Deadline    *time.Time
	IsCompleted bool
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Attachments []Attachment
}

// Validate checks the task fields against the entity constraints.
// The past-deadline rule is a policy toggle, so callers pass it in
// together with the reference time instead of the task reading a clock.
func (t *Task) Validate(now time.Time, rejectPastDeadline bool) error {
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if len(t.Title) > maxTitleLength {
		return ErrTitleTooLong
	}
	if t.TimeFrame != TimeFrameLongTerm && t.TimeFrame != TimeFrameShortTerm {
		return ErrInvalidTimeFrame
	}
	if rejectPastDeadline && t.Deadline != nil && t.Deadline.Before(now) {
		return ErrPastDeadline
	}
	return nil
}
