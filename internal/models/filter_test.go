package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(v bool) *bool { return &v }

func TestTaskFilterMatches(t *testing.T) {
	tasks := []*Task{
		{Title: "Quarterly report", IsUrgent: true, IsImportant: true},
		{Title: "Budget review", Description: "attach the report draft", IsCompleted: true},
		{Title: "Water plants", IsUrgent: true},
		{Title: "Old idea", IsDeleted: true},
	}

	filterNames := func(filter TaskFilter) []string {
		var titles []string
		for _, task := range tasks {
			if filter.Matches(task) {
				titles = append(titles, task.Title)
			}
		}
		return titles
	}

	t.Run("empty filter hides deleted", func(t *testing.T) {
		assert.Equal(t,
			[]string{"Quarterly report", "Budget review", "Water plants"},
			filterNames(TaskFilter{}))
	})

	t.Run("deleted true shows history only", func(t *testing.T) {
		assert.Equal(t,
			[]string{"Old idea"},
			filterNames(TaskFilter{Deleted: boolPtr(true)}))
	})

	t.Run("completed", func(t *testing.T) {
		assert.Equal(t,
			[]string{"Budget review"},
			filterNames(TaskFilter{Completed: boolPtr(true)}))
	})

	t.Run("text matches title and description case-insensitively", func(t *testing.T) {
		assert.Equal(t,
			[]string{"Quarterly report", "Budget review"},
			filterNames(TaskFilter{Text: "report"}))
	})

	t.Run("predicates combine with AND", func(t *testing.T) {
		assert.Equal(t,
			[]string{"Quarterly report"},
			filterNames(TaskFilter{
				Urgent:    boolPtr(true),
				Important: boolPtr(true),
				Text:      "report",
			}))
	})

	t.Run("urgent false", func(t *testing.T) {
		assert.Equal(t,
			[]string{"Budget review"},
			filterNames(TaskFilter{Urgent: boolPtr(false)}))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, filterNames(TaskFilter{Text: "vacation"}))
	})
}
