package models

import "strings"

// TaskFilter holds optional predicates for listing tasks. Nil pointers
// mean the predicate is not applied. Deleted is special: when nil the
// filter hides soft-deleted tasks, which keeps history out of every view
// that doesn't ask for it. Predicates combine with logical AND; the
// struct lives in models for reuse by the service and delivery layers.
type TaskFilter struct {
	Completed *bool
	Urgent    *bool
	Important *bool
	Deleted   *bool
	Text      string
}

// Matches reports whether the task satisfies every set predicate.
func (f TaskFilter) Matches(t *Task) bool {
	if f.Deleted == nil {
		if t.IsDeleted {
			return false
		}
	} else if t.IsDeleted != *f.Deleted {
		return false
	}
	if f.Completed != nil && t.IsCompleted != *f.Completed {
		return false
	}
	if f.Urgent != nil && t.IsUrgent != *f.Urgent {
		return false
	}
	if f.Important != nil && t.IsImportant != *f.Important {
		return false
	}
	if f.Text != "" {
		needle := strings.ToLower(f.Text)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	return true
}
