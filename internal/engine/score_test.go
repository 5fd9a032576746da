package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/taskpulse/taskpulse/models"
)

var scoreNow = time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

func taskDueIn(d time.Duration, priority models.BasePriority, freq models.Frequency) models.Task {
	due := scoreNow.Add(d)
	t := models.NewTask("id", "task")
	t.BasePriority = priority
	t.Frequency = freq
	t.DueAt = &due
	return t
}

func TestScore_Brackets(t *testing.T) {
	tests := []struct {
		name string
		task models.Task
		want float64
	}{
		{
			// high x 5.0 (<15m) x 0.7 (daily)
			name: "high daily due in 10 minutes",
			task: taskDueIn(10*time.Minute, models.PriorityHigh, models.FrequencyDaily),
			want: 350,
		},
		{
			// low x (10 + 50/10) x 1.4 (once)
			name: "low once overdue by 50 minutes",
			task: taskDueIn(-50*time.Minute, models.PriorityLow, models.FrequencyOnce),
			want: 630,
		},
		{
			// medium x 0.5 (no due date) x 1.3 (monthly)
			name: "medium monthly with no deadline",
			task: func() models.Task {
				tk := models.NewTask("id", "task")
				tk.BasePriority = models.PriorityMedium
				tk.Frequency = models.FrequencyMonthly
				return tk
			}(),
			want: 39,
		},
		{
			// overdue multiplier saturates at 30x: 100 x 30 x 1.0
			name: "high weekly overdue by a week",
			task: taskDueIn(-7*24*time.Hour, models.PriorityHigh, models.FrequencyWeekly),
			want: 3000,
		},
		{
			// unknown tiers fall back to 50 and 1.0: 50 x 8.0 x 1.0
			name: "unrecognized priority and frequency",
			task: taskDueIn(2*time.Minute, "critical", "fortnightly"),
			want: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.task, scoreNow), 1e-9)
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	task := taskDueIn(45*time.Minute, models.PriorityHigh, models.FrequencyYearly)
	assert.Equal(t, Score(task, scoreNow), Score(task, scoreNow))
}

func TestScore_MonotonicInRemainingTime(t *testing.T) {
	// For otherwise-identical tasks, the more imminent one never scores
	// lower. Sweep across bracket boundaries, including overdue territory.
	offsets := []time.Duration{
		-300 * time.Minute, -50 * time.Minute, -1 * time.Minute,
		2 * time.Minute, 10 * time.Minute, 20 * time.Minute, 45 * time.Minute,
		90 * time.Minute, 3 * time.Hour, 10 * time.Hour, 48 * time.Hour,
	}
	for i := 1; i < len(offsets); i++ {
		closer := Score(taskDueIn(offsets[i-1], models.PriorityMedium, models.FrequencyWeekly), scoreNow)
		farther := Score(taskDueIn(offsets[i], models.PriorityMedium, models.FrequencyWeekly), scoreNow)
		assert.GreaterOrEqual(t, closer, farther, "offset %v should score >= %v", offsets[i-1], offsets[i])
	}
}

func TestScore_NoDueDateFloor(t *testing.T) {
	// The 0.5 multiplier applies regardless of other fields.
	for _, p := range []models.BasePriority{models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
		for _, f := range []models.Frequency{models.FrequencyDaily, models.FrequencyOnce, models.FrequencyYearly} {
			tk := models.NewTask("id", "task")
			tk.BasePriority = p
			tk.Frequency = f
			want := basePriorityScore(p) * 0.5 * frequencyWeight(f)
			assert.InDelta(t, want, Score(tk, scoreNow), 1e-9)
		}
	}
}

func TestUrgencyMultiplier_BracketEdges(t *testing.T) {
	mk := func(d time.Duration) *time.Time {
		at := scoreNow.Add(d)
		return &at
	}
	tests := []struct {
		remaining time.Duration
		want      float64
	}{
		{4 * time.Minute, 8.0},
		{5 * time.Minute, 5.0},
		{15 * time.Minute, 3.5},
		{30 * time.Minute, 2.5},
		{time.Hour, 1.8},
		{2 * time.Hour, 1.4},
		{4 * time.Hour, 1.1},
		{24 * time.Hour, 1.0},
		{-10 * time.Minute, 11.0},
		{-200 * time.Minute, 30.0},
		{-1000 * time.Hour, 30.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, urgencyMultiplier(mk(tt.remaining), scoreNow), 1e-9, "remaining %v", tt.remaining)
	}
	assert.InDelta(t, 0.5, urgencyMultiplier(nil, scoreNow), 1e-9)
}
