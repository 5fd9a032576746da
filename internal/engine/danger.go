package engine

import (
	"strings"
	"time"

	"github.com/taskpulse/taskpulse/models"
)

// Danger-zone window: due within the next 30 minutes, or overdue by less
// than 24 hours. Tasks overdue by a full day or more are excluded to avoid
// permanent alarm fatigue.
const (
	dangerZoneLookahead = 30 * time.Minute
	dangerZoneFloor     = -24 * time.Hour
)

// routineKeywords marks low-stakes personal-care or leisure activities that
// are excluded from the danger zone even when nominally non-low priority.
// Product-tuned list, matched case-insensitively as substrings of the title.
var routineKeywords = []string{
	"bathroom",
	"brush teeth",
	"brushing teeth",
	"shower",
	"bath",
	"wash face",
	"face wash",
	"floss",
	"get dressed",
	"getting dressed",
	"wake up",
	"go to bed",
	"going to bed",
	"skincare",
	"meditat",
	"relax",
	"watch tv",
	"watching tv",
}

// dangerZone derives the subset of ranked tasks requiring immediate
// attention. Input is already score-ordered, so the output is too.
func dangerZone(ranked []RankedTask, now time.Time) []RankedTask {
	out := make([]RankedTask, 0)
	for _, rt := range ranked {
		if inDangerZone(rt.Task, now) {
			out = append(out, rt)
		}
	}
	return out
}

// inDangerZone reports whether a single task qualifies: it has a due time
// inside the window, its priority is not low, and its title is not a routine
// activity.
func inDangerZone(t models.Task, now time.Time) bool {
	if t.DueAt == nil {
		return false
	}
	remaining := t.DueAt.Sub(now)
	if remaining >= dangerZoneLookahead || remaining <= dangerZoneFloor {
		return false
	}
	if t.BasePriority == models.PriorityLow {
		return false
	}
	return !isRoutineTitle(t.Title)
}

func isRoutineTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range routineKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
