package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskValidate(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	testCases := []struct {
		name               string
		task               Task
		rejectPastDeadline bool
		err                error
	}{
		{
			name: "valid short term task",
			task: Task{Title: "buy groceries", TimeFrame: TimeFrameShortTerm},
		},
		{
			name: "valid long term task with deadline",
			task: Task{Title: "finish thesis", TimeFrame: TimeFrameLongTerm, Deadline: &future},
		},
		{
			name: "empty title",
			task: Task{TimeFrame: TimeFrameShortTerm},
			err:  ErrEmptyTitle,
		},
		{
			name: "title at the limit",
			task: Task{Title: strings.Repeat("a", 255), TimeFrame: TimeFrameShortTerm},
		},
		{
			name: "title too long",
			task: Task{Title: strings.Repeat("a", 256), TimeFrame: TimeFrameShortTerm},
			err:  ErrTitleTooLong,
		},
		{
			name: "missing time frame",
			task: Task{Title: "buy groceries"},
			err:  ErrInvalidTimeFrame,
		},
		{
			name: "unknown time frame",
			task: Task{Title: "buy groceries", TimeFrame: "someday"},
			err:  ErrInvalidTimeFrame,
		},
		{
			name: "past deadline allowed by default",
			task: Task{Title: "buy groceries", TimeFrame: TimeFrameShortTerm, Deadline: &past},
		},
		{
			name:               "past deadline rejected when enabled",
			task:               Task{Title: "buy groceries", TimeFrame: TimeFrameShortTerm, Deadline: &past},
			rejectPastDeadline: true,
			err:                ErrPastDeadline,
		},
		{
			name:               "future deadline passes when enabled",
			task:               Task{Title: "buy groceries", TimeFrame: TimeFrameShortTerm, Deadline: &future},
			rejectPastDeadline: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.task.Validate(now, tc.rejectPastDeadline)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
