package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	testCases := []struct {
		name     string
		state    State
		action   Action
		expected State
		err      error
	}{
		{name: "complete active", state: StateActive, action: ActionComplete, expected: StateCompleted},
		{name: "soft delete active", state: StateActive, action: ActionSoftDelete, expected: StateDeleted},
		{name: "reopen completed", state: StateCompleted, action: ActionReopen, expected: StateActive},
		{name: "soft delete completed", state: StateCompleted, action: ActionSoftDelete, expected: StateDeleted},
		{name: "restore deleted", state: StateDeleted, action: ActionRestore, expected: StateActive},
		{name: "purge deleted", state: StateDeleted, action: ActionPurge, expected: StatePurged},

		{name: "reopen active is a no-op", state: StateActive, action: ActionReopen, expected: StateActive},
		{name: "restore active is a no-op", state: StateActive, action: ActionRestore, expected: StateActive},
		{name: "complete completed is a no-op", state: StateCompleted, action: ActionComplete, expected: StateCompleted},
		{name: "soft delete deleted is a no-op", state: StateDeleted, action: ActionSoftDelete, expected: StateDeleted},

		{name: "purge active", state: StateActive, action: ActionPurge, err: ErrInvalidTransition},
		{name: "purge completed", state: StateCompleted, action: ActionPurge, err: ErrInvalidTransition},
		{name: "complete deleted", state: StateDeleted, action: ActionComplete, err: ErrInvalidTransition},
		{name: "reopen deleted", state: StateDeleted, action: ActionReopen, err: ErrInvalidTransition},
		{name: "restore completed", state: StateCompleted, action: ActionRestore, err: ErrInvalidTransition},
		{name: "unknown action", state: StateActive, action: Action("archive"), err: ErrInvalidTransition},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Apply(tc.state, tc.action)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, next)
		})
	}
}

func TestSoftDeleteRestoreRoundTrip(t *testing.T) {
	deleted, err := Apply(StateCompleted, ActionSoftDelete)
	require.NoError(t, err)
	require.Equal(t, StateDeleted, deleted)

	// Restoring lands in active regardless of the state the task
	// was deleted from.
	restored, err := Apply(deleted, ActionRestore)
	require.NoError(t, err)
	assert.Equal(t, StateActive, restored)
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateActive, StateOf(false, false))
	assert.Equal(t, StateCompleted, StateOf(true, false))
	assert.Equal(t, StateDeleted, StateOf(false, true))

	// Deletion dominates completion.
	assert.Equal(t, StateDeleted, StateOf(true, true))
}

func TestFlags(t *testing.T) {
	testCases := []struct {
		state     State
		completed bool
		deleted   bool
	}{
		{state: StateActive, completed: false, deleted: false},
		{state: StateCompleted, completed: true, deleted: false},
		{state: StateDeleted, completed: false, deleted: true},
	}

	for _, tc := range testCases {
		t.Run(string(tc.state), func(t *testing.T) {
			completed, deleted := Flags(tc.state)
			assert.Equal(t, tc.completed, completed)
			assert.Equal(t, tc.deleted, deleted)
		})
	}
}
