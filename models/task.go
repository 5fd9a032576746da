package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// BasePriority is the user-assigned importance tier of a task. It is
// independent of deadline proximity; the engine combines the two at scoring
// time.
type BasePriority string

const (
	PriorityHigh   BasePriority = "high"
	PriorityMedium BasePriority = "medium"
	PriorityLow    BasePriority = "low"
)

// Frequency classifies how often an obligation recurs. It only weights the
// score; the concrete schedule lives outside the engine.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	FrequencyOnce    Frequency = "once"
)

// NormalizeBasePriority lowercases and trims a priority string. Unknown
// values are kept as-is: the score function maps them to a safe mid-value
// instead of failing, so a legacy or forward-incompatible record still ranks.
func NormalizeBasePriority(s string) BasePriority {
	return BasePriority(strings.ToLower(strings.TrimSpace(s)))
}

// NormalizeFrequency lowercases and trims a frequency string. Unknown values
// survive normalization for the same reason as NormalizeBasePriority.
func NormalizeFrequency(s string) Frequency {
	return Frequency(strings.ToLower(strings.TrimSpace(s)))
}

// Task represents one trackable obligation.
//
// Scores and ranks are never persisted as the source of truth; they are
// recomputed from DueAt, BasePriority, Frequency and the clock at every
// ranking cycle. Only LastRankPosition survives across cycles so the next
// cycle can report rank movement.
type Task struct {
	ID           string       `json:"id" yaml:"id" toml:"id" validate:"required"`
	Title        string       `json:"title" yaml:"title" toml:"title" validate:"required,min=1,max=255"`
	BasePriority BasePriority `json:"basePriority" yaml:"basePriority" toml:"basePriority"`
	Frequency    Frequency    `json:"frequency" yaml:"frequency" toml:"frequency"`
	// DueAt is the combined due date+time. Nil means "no deadline".
	DueAt       *time.Time `json:"dueAt,omitempty" yaml:"dueAt,omitempty" toml:"dueAt,omitempty"`
	IsCompleted bool       `json:"isCompleted" yaml:"isCompleted" toml:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty" toml:"completedAt,omitempty"`
	// LastRankPosition is the task's 1-based rank as of the previous ranking
	// cycle. Nil for tasks that have never been ranked. Cleared on completion.
	LastRankPosition *int      `json:"lastRankPosition,omitempty" yaml:"lastRankPosition,omitempty" toml:"lastRankPosition,omitempty"`
	CreatedAt        time.Time `json:"createdAt" yaml:"createdAt" toml:"createdAt" validate:"required"`
	UpdatedAt        time.Time `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt" validate:"required"`
}

// TaskList represents a persisted collection of tasks. Slice order is the
// creation order and is the tie-breaker for equal scores, so it must survive
// round-trips through the store.
type TaskList struct {
	Tasks      []Task `json:"tasks" yaml:"tasks" toml:"tasks" validate:"dive"`
	TotalCount int    `json:"totalCount" yaml:"totalCount" toml:"totalCount"`
}

// NewTask creates a task with defaults and timestamps set.
func NewTask(id, title string) Task {
	now := time.Now().UTC()
	return Task{
		ID:           id,
		Title:        title,
		BasePriority: PriorityMedium,
		Frequency:    FrequencyOnce,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// MarkCompleted sets the completion state, enforcing the invariant that
// CompletedAt is set if and only if IsCompleted is true. LastRankPosition is
// meaningless for completed tasks and is cleared.
func (t *Task) MarkCompleted(now time.Time) {
	t.IsCompleted = true
	completed := now
	t.CompletedAt = &completed
	t.LastRankPosition = nil
	t.UpdatedAt = now
}

// MarkIncomplete reverses a completion. The task re-enters ranking with no
// previous rank, so its first movement after un-completion is zero.
func (t *Task) MarkIncomplete(now time.Time) {
	t.IsCompleted = false
	t.CompletedAt = nil
	t.LastRankPosition = nil
	t.UpdatedAt = now
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		// Safeguard for tests running in isolation.
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}
