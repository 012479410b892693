// Package lifecycle defines the task state machine. A task is active,
// completed, or soft-deleted; purged is the terminal state in which the
// record no longer exists. The stored is_completed/is_deleted flags map
// onto states through StateOf and Flags, with deletion taking precedence
// over completion.
package lifecycle

import "errors"

var ErrInvalidTransition = errors.New("invalid lifecycle transition")

type State string

const (
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateDeleted   State = "deleted"
	StatePurged    State = "purged"
)

type Action string

const (
	ActionComplete   Action = "complete"
	ActionReopen     Action = "reopen"
	ActionSoftDelete Action = "soft_delete"
	ActionRestore    Action = "restore"
	ActionPurge      Action = "purge"
)

// targets maps every action to its end state. Re-issuing an action on a
// task already in the target state is a no-op success.
var targets = map[Action]State{
	ActionComplete:   StateCompleted,
	ActionReopen:     StateActive,
	ActionSoftDelete: StateDeleted,
	ActionRestore:    StateActive,
	ActionPurge:      StatePurged,
}

var edges = map[State]map[Action]State{
	StateActive: {
		ActionComplete:   StateCompleted,
		ActionSoftDelete: StateDeleted,
	},
	StateCompleted: {
		ActionReopen:     StateActive,
		ActionSoftDelete: StateDeleted,
	},
	StateDeleted: {
		ActionRestore: StateActive,
		ActionPurge:   StatePurged,
	},
}

// Apply returns the state reached by performing action from state.
// Unknown edges fail with ErrInvalidTransition; in particular a purge
// is only reachable from the deleted state, so an active task must
// pass through history before permanent deletion.
func Apply(state State, action Action) (State, error) {
	if target, ok := targets[action]; ok && state == target {
		return state, nil
	}
	if next, ok := edges[state][action]; ok {
		return next, nil
	}
	return state, ErrInvalidTransition
}

// StateOf derives the state from the stored flags.
func StateOf(completed, deleted bool) State {
	switch {
	case deleted:
		return StateDeleted
	case completed:
		return StateCompleted
	}
	return StateActive
}

// Flags converts a storable state back to the flag pair. Restoring a
// deleted task therefore clears both flags and lands it in active.
func Flags(state State) (completed, deleted bool) {
	switch state {
	case StateCompleted:
		return true, false
	case StateDeleted:
		return false, true
	}
	return false, false
}
