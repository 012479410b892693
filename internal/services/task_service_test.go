package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUpdateSetsDeadline(t *testing.T) {
	deadline := time.Now()

	// A title-only edit leaves the stored deadline alone, so the
	// past-deadline policy must not re-check it.
	title := "new title"
	assert.False(t, updateSetsDeadline(UpdateTaskParams{Title: &title}))

	assert.True(t, updateSetsDeadline(UpdateTaskParams{Deadline: &deadline}))
	assert.False(t, updateSetsDeadline(UpdateTaskParams{ClearDeadline: true}))
	assert.False(t, updateSetsDeadline(UpdateTaskParams{Deadline: &deadline, ClearDeadline: true}))
}
