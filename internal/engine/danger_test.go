package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/taskpulse/taskpulse/models"
)

func TestInDangerZone(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	mk := func(title string, priority models.BasePriority, due *time.Duration) models.Task {
		tk := models.NewTask("id", title)
		tk.BasePriority = priority
		tk.Frequency = models.FrequencyOnce
		if due != nil {
			at := now.Add(*due)
			tk.DueAt = &at
		}
		return tk
	}
	d := func(v time.Duration) *time.Duration { return &v }

	tests := []struct {
		name string
		task models.Task
		want bool
	}{
		{"high priority due in 10 minutes", mk("Submit report", models.PriorityHigh, d(10 * time.Minute)), true},
		{"medium priority just overdue", mk("Pay invoice", models.PriorityMedium, d(-5 * time.Minute)), true},
		{"low priority due in 10 minutes", mk("Sort mail", models.PriorityLow, d(10 * time.Minute)), false},
		{"routine title despite medium priority", mk("Brush teeth", models.PriorityMedium, d(10 * time.Minute)), false},
		{"routine keyword embedded in title", mk("Evening skincare routine", models.PriorityHigh, d(10 * time.Minute)), false},
		{"overdue by 25 hours", mk("Submit report", models.PriorityHigh, d(-25 * time.Hour)), false},
		{"overdue by 23 hours", mk("Submit report", models.PriorityHigh, d(-23 * time.Hour)), true},
		{"due in 45 minutes", mk("Submit report", models.PriorityHigh, d(45 * time.Minute)), false},
		{"due in exactly 30 minutes", mk("Submit report", models.PriorityHigh, d(30 * time.Minute)), false},
		{"no due date", mk("Submit report", models.PriorityHigh, nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inDangerZone(tt.task, now))
		})
	}
}

func TestDangerZone_PreservesScoreOrder(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	overdue := taskDueIn(-10*time.Minute, models.PriorityMedium, models.FrequencyOnce)
	overdue.ID = "overdue"
	soon := taskDueIn(10*time.Minute, models.PriorityHigh, models.FrequencyOnce)
	soon.ID = "soon"
	routine := taskDueIn(5*time.Minute, models.PriorityHigh, models.FrequencyDaily)
	routine.ID = "routine"
	routine.Title = "Watch TV recap"

	ranked := rankTasks([]models.Task{soon, overdue, routine}, now)
	danger := dangerZone(ranked, now)

	assert.Len(t, danger, 2)
	// Score order carries over from the ranking: overdue (11x) beats soon.
	assert.Equal(t, "overdue", danger[0].Task.ID)
	assert.Equal(t, "soon", danger[1].Task.ID)
}

func TestIsRoutineTitle_CaseInsensitive(t *testing.T) {
	assert.True(t, isRoutineTitle("BRUSH TEETH before bed"))
	assert.True(t, isRoutineTitle("Morning meditation, 10 min"))
	assert.False(t, isRoutineTitle("Submit quarterly report"))
}
