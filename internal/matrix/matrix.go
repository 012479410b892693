// Package matrix classifies tasks into Eisenhower quadrants.
package matrix

import "taskmatrix/internal/models"

type Quadrant string

const (
	// QuadrantDoFirst holds urgent and important tasks.
	QuadrantDoFirst Quadrant = "do_first"
	// QuadrantSchedule holds important but not urgent tasks.
	QuadrantSchedule Quadrant = "schedule"
	// QuadrantDelegate holds urgent but not important tasks.
	QuadrantDelegate Quadrant = "delegate"
	// QuadrantEliminate holds tasks that are neither.
	QuadrantEliminate Quadrant = "eliminate"
)

// Quadrants lists all quadrants in dashboard order.
func Quadrants() [4]Quadrant {
	return [4]Quadrant{
		QuadrantDoFirst,
		QuadrantSchedule,
		QuadrantDelegate,
		QuadrantEliminate,
	}
}

// Classify maps the urgency and importance flags to a quadrant.
// The mapping is total over the four flag combinations, so every
// task lands in exactly one quadrant.
func Classify(urgent, important bool) Quadrant {
	switch {
	case urgent && important:
		return QuadrantDoFirst
	case important:
		return QuadrantSchedule
	case urgent:
		return QuadrantDelegate
	}
	return QuadrantEliminate
}

// Group buckets tasks by quadrant, preserving the relative order of
// the input within each bucket. All four keys are always present.
func Group(tasks []*models.Task) map[Quadrant][]*models.Task {
	grouped := make(map[Quadrant][]*models.Task, 4)
	for _, q := range Quadrants() {
		grouped[q] = []*models.Task{}
	}
	for _, task := range tasks {
		q := Classify(task.IsUrgent, task.IsImportant)
		grouped[q] = append(grouped[q], task)
	}
	return grouped
}
