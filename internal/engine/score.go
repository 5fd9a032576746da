// Package engine implements the Dynamic Priority Score (DPS) ranking engine:
// a per-task urgency score recomputed on a fixed cadence, a ranked order with
// movement tracking, and a danger-zone view of imminently due tasks.
package engine

import (
	"time"

	"github.com/taskpulse/taskpulse/models"
)

// Base priority scores. Unrecognized tiers get a safe mid-value so a
// corrupted record still scores sensibly instead of crashing the cycle.
const (
	priorityScoreHigh    = 100.0
	priorityScoreMedium  = 60.0
	priorityScoreLow     = 30.0
	priorityScoreUnknown = 50.0
)

// Frequency weights. Missing a rare obligation is costlier than missing a
// routine one, so rarer recurrence raises the multiplier.
const (
	freqWeightDaily   = 0.7
	freqWeightWeekly  = 1.0
	freqWeightMonthly = 1.3
	freqWeightYearly  = 1.5
	freqWeightOnce    = 1.4
	freqWeightUnknown = 1.0
)

// Urgency multipliers per time-remaining bracket. The overdue multiplier
// grows with overdue minutes and saturates; the no-deadline multiplier is the
// lowest tier since nothing is time-critical. These are product-tuned
// constants, preserved as-is.
const (
	urgencyNoDueDate = 0.5
	urgencyOver24h   = 1.0
	urgencyWithin24h = 1.1
	urgencyWithin4h  = 1.4
	urgencyWithin2h  = 1.8
	urgencyWithin1h  = 2.5
	urgencyWithin30m = 3.5
	urgencyWithin15m = 5.0
	urgencyWithin5m  = 8.0

	overdueBase          = 10.0
	overdueMinutesPerNth = 10.0 // one extra point per 10 overdue minutes
	overdueCap           = 20.0 // saturates the multiplier at 30x
)

// Score maps a single task and the current instant to a non-negative urgency
// score: basePriorityScore x urgencyMultiplier x frequencyWeight. Pure and
// deterministic given its inputs; the clock is the only external dependency.
func Score(t models.Task, now time.Time) float64 {
	return basePriorityScore(t.BasePriority) * urgencyMultiplier(t.DueAt, now) * frequencyWeight(t.Frequency)
}

func basePriorityScore(p models.BasePriority) float64 {
	switch p {
	case models.PriorityHigh:
		return priorityScoreHigh
	case models.PriorityMedium:
		return priorityScoreMedium
	case models.PriorityLow:
		return priorityScoreLow
	default:
		return priorityScoreUnknown
	}
}

func frequencyWeight(f models.Frequency) float64 {
	switch f {
	case models.FrequencyDaily:
		return freqWeightDaily
	case models.FrequencyWeekly:
		return freqWeightWeekly
	case models.FrequencyMonthly:
		return freqWeightMonthly
	case models.FrequencyYearly:
		return freqWeightYearly
	case models.FrequencyOnce:
		return freqWeightOnce
	default:
		return freqWeightUnknown
	}
}

func urgencyMultiplier(dueAt *time.Time, now time.Time) float64 {
	if dueAt == nil {
		return urgencyNoDueDate
	}

	remaining := dueAt.Sub(now)
	if remaining < 0 {
		overdueMinutes := -remaining.Minutes()
		extra := overdueMinutes / overdueMinutesPerNth
		if extra > overdueCap {
			extra = overdueCap
		}
		return overdueBase + extra
	}

	switch {
	case remaining < 5*time.Minute:
		return urgencyWithin5m
	case remaining < 15*time.Minute:
		return urgencyWithin15m
	case remaining < 30*time.Minute:
		return urgencyWithin30m
	case remaining < time.Hour:
		return urgencyWithin1h
	case remaining < 2*time.Hour:
		return urgencyWithin2h
	case remaining < 4*time.Hour:
		return urgencyWithin4h
	case remaining < 24*time.Hour:
		return urgencyWithin24h
	default:
		return urgencyOver24h
	}
}
