package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmatrix/internal/models"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name      string
		urgent    bool
		important bool
		expected  Quadrant
	}{
		{name: "urgent and important", urgent: true, important: true, expected: QuadrantDoFirst},
		{name: "important only", urgent: false, important: true, expected: QuadrantSchedule},
		{name: "urgent only", urgent: true, important: false, expected: QuadrantDelegate},
		{name: "neither", urgent: false, important: false, expected: QuadrantEliminate},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.urgent, tc.important))
		})
	}
}

func TestGroup(t *testing.T) {
	tasks := []*models.Task{
		{ID: "1", Title: "call client", IsUrgent: true, IsImportant: false},
		{ID: "2", Title: "file taxes", IsUrgent: true, IsImportant: true},
		{ID: "3", Title: "answer mail", IsUrgent: true, IsImportant: false},
		{ID: "4", Title: "read book", IsUrgent: false, IsImportant: false},
		{ID: "5", Title: "plan quarter", IsUrgent: false, IsImportant: true},
	}

	grouped := Group(tasks)

	require.Len(t, grouped, 4)
	for _, q := range Quadrants() {
		require.Contains(t, grouped, q)
	}

	assert.Equal(t, []*models.Task{tasks[1]}, grouped[QuadrantDoFirst])
	assert.Equal(t, []*models.Task{tasks[4]}, grouped[QuadrantSchedule])
	assert.Equal(t, []*models.Task{tasks[0], tasks[2]}, grouped[QuadrantDelegate])
	assert.Equal(t, []*models.Task{tasks[3]}, grouped[QuadrantEliminate])

	total := 0
	for _, bucket := range grouped {
		total += len(bucket)
	}
	assert.Equal(t, len(tasks), total)
}

func TestGroupEmpty(t *testing.T) {
	grouped := Group(nil)

	require.Len(t, grouped, 4)
	for _, q := range Quadrants() {
		assert.Empty(t, grouped[q])
		assert.NotNil(t, grouped[q])
	}
}
