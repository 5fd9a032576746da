package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskpulse/taskpulse/models"
)

// defaultDueHour is the local hour assigned to imported recurrences that
// carry no explicit time of day.
const defaultDueHour = 9

// ProtoTask is the recurrence description supplied by a bulk import source
// (e.g. an onboarding flow). The engine computes each one's next concrete
// due instant from these fields.
type ProtoTask struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title"`
	Category  string `json:"category,omitempty"`
	Priority  string `json:"priority"`
	Frequency string `json:"frequency"`
	// DueAt, when set, wins over any recurrence fields.
	DueAt *time.Time `json:"dueAt,omitempty"`
	// TimeOfDay is "HH:MM"; defaults to 09:00 when absent.
	TimeOfDay string `json:"timeOfDay,omitempty"`
	// Weekdays applies to weekly recurrences, e.g. ["monday", "wednesday"].
	Weekdays []string `json:"weekdays,omitempty"`
	// DayOfMonth applies to monthly and yearly recurrences.
	DayOfMonth int `json:"dayOfMonth,omitempty"`
	// Month applies to yearly recurrences, e.g. "april".
	Month string `json:"month,omitempty"`
}

// BulkImport constructs tasks from recurrence descriptions and adds them to
// the collection in one pass, followed by a single ranking cycle. Protos
// whose ID already exists are skipped, making the import idempotent. Returns
// the number of tasks added.
func (e *Engine) BulkImport(protos []ProtoTask) int {
	now := e.now()
	e.mu.Lock()
	defer e.mu.Unlock()

	existing := make(map[string]bool, len(e.tasks))
	for _, t := range e.tasks {
		existing[t.ID] = true
	}

	added := 0
	for _, p := range protos {
		if p.Title == "" {
			continue
		}
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}
		if existing[id] {
			continue
		}

		t := models.NewTask(id, p.Title)
		t.BasePriority = models.NormalizeBasePriority(p.Priority)
		t.Frequency = models.NormalizeFrequency(p.Frequency)
		t.DueAt = p.nextDueAt(now)
		t.CreatedAt = now
		t.UpdatedAt = now

		e.tasks = append(e.tasks, t)
		existing[id] = true
		added++
	}

	if added > 0 {
		e.recomputeLocked(now)
	}
	return added
}

// nextDueAt computes the next concrete due instant described by the proto,
// relative to now. Nil means the task has no deadline.
func (p ProtoTask) nextDueAt(now time.Time) *time.Time {
	if p.DueAt != nil {
		due := *p.DueAt
		return &due
	}

	hour, minute := parseTimeOfDay(p.TimeOfDay)

	switch models.NormalizeFrequency(p.Frequency) {
	case models.FrequencyDaily:
		// Today at the given time if still ahead, otherwise tomorrow.
		due := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !due.After(now) {
			due = due.AddDate(0, 0, 1)
		}
		return &due

	case models.FrequencyWeekly:
		if len(p.Weekdays) == 0 {
			return nil
		}
		var earliest *time.Time
		for _, name := range p.Weekdays {
			wd, ok := parseWeekday(name)
			if !ok {
				continue
			}
			// "Next Wednesday" asked on a Wednesday means next week, never
			// today.
			days := (int(wd) - int(now.Weekday()) + 7) % 7
			if days == 0 {
				days = 7
			}
			due := time.Date(now.Year(), now.Month(), now.Day()+days, hour, minute, 0, 0, now.Location())
			if earliest == nil || due.Before(*earliest) {
				earliest = &due
			}
		}
		return earliest

	case models.FrequencyMonthly:
		if p.DayOfMonth <= 0 {
			return nil
		}
		// This month's occurrence if still ahead, otherwise next month.
		due := time.Date(now.Year(), now.Month(), p.DayOfMonth, hour, minute, 0, 0, now.Location())
		if !due.After(now) {
			due = time.Date(now.Year(), now.Month()+1, p.DayOfMonth, hour, minute, 0, 0, now.Location())
		}
		return &due

	case models.FrequencyYearly:
		month, ok := parseMonth(p.Month)
		if !ok {
			return nil
		}
		day := p.DayOfMonth
		if day <= 0 {
			day = 1
		}
		due := time.Date(now.Year(), month, day, hour, minute, 0, 0, now.Location())
		if !due.After(now) {
			due = time.Date(now.Year()+1, month, day, hour, minute, 0, 0, now.Location())
		}
		return &due
	}

	return nil
}

// parseTimeOfDay parses "HH:MM", falling back to the default hour.
func parseTimeOfDay(s string) (hour, minute int) {
	if s == "" {
		return defaultDueHour, 0
	}
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return defaultDueHour, 0
	}
	return parsed.Hour(), parsed.Minute()
}

func parseWeekday(name string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday", "sun":
		return time.Sunday, true
	case "monday", "mon":
		return time.Monday, true
	case "tuesday", "tue", "tues":
		return time.Tuesday, true
	case "wednesday", "wed":
		return time.Wednesday, true
	case "thursday", "thu", "thur", "thurs":
		return time.Thursday, true
	case "friday", "fri":
		return time.Friday, true
	case "saturday", "sat":
		return time.Saturday, true
	}
	return time.Sunday, false
}

func parseMonth(name string) (time.Month, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "january", "jan":
		return time.January, true
	case "february", "feb":
		return time.February, true
	case "march", "mar":
		return time.March, true
	case "april", "apr":
		return time.April, true
	case "may":
		return time.May, true
	case "june", "jun":
		return time.June, true
	case "july", "jul":
		return time.July, true
	case "august", "aug":
		return time.August, true
	case "september", "sep", "sept":
		return time.September, true
	case "october", "oct":
		return time.October, true
	case "november", "nov":
		return time.November, true
	case "december", "dec":
		return time.December, true
	}
	return time.January, false
}
