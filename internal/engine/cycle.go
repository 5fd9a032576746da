package engine

import (
	"sort"
	"time"

	"github.com/taskpulse/taskpulse/models"
)

// RankedTask is a read-only projection pairing a task with its computed
// score, 1-based rank, and movement versus the previous ranking cycle.
// Positive movement means the task became relatively more urgent.
type RankedTask struct {
	Task     models.Task `json:"task"`
	Score    float64     `json:"score"`
	Rank     int         `json:"rank"`
	Movement int         `json:"movement"`
}

// rankedEntry keeps the index into the source slice alongside the projection
// so the assigned rank can be written back after sorting.
type rankedEntry struct {
	RankedTask
	sourceIndex int
}

// rankTasks runs one full ranking cycle over the collection:
// snapshot previous ranks, filter to incomplete tasks, score, stable-sort
// descending, assign ranks and movement, and write the new rank back into
// each task's LastRankPosition.
//
// The input slice is mutated in place (LastRankPosition only); its order is
// the tie-breaker for equal scores, so the sort must be stable.
func rankTasks(tasks []models.Task, now time.Time) []RankedTask {
	// (a) snapshot rank -> previousRank per task id, before overwriting.
	previous := make(map[string]int, len(tasks))
	for _, t := range tasks {
		if t.LastRankPosition != nil {
			previous[t.ID] = *t.LastRankPosition
		}
	}

	// (b)+(c) filter to incomplete tasks and score them.
	entries := make([]rankedEntry, 0, len(tasks))
	for i, t := range tasks {
		if t.IsCompleted {
			continue
		}
		entries = append(entries, rankedEntry{
			RankedTask:  RankedTask{Task: t, Score: Score(t, now)},
			sourceIndex: i,
		})
	}

	// (d) sort descending by score; SliceStable preserves collection order
	// on ties.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	// (e)+(f)+(g) assign 1-based ranks, movement against the snapshot, and
	// persist the new rank on the task. A task with no prior recorded rank
	// defaults previousRank to its own new rank, so it shows no movement on
	// first appearance.
	ranked := make([]RankedTask, len(entries))
	for i, e := range entries {
		rank := i + 1
		e.Rank = rank

		prev, ok := previous[e.Task.ID]
		if !ok {
			prev = rank
		}
		e.Movement = prev - rank

		pos := rank
		tasks[e.sourceIndex].LastRankPosition = &pos
		e.Task.LastRankPosition = &pos

		ranked[i] = e.RankedTask
	}

	return ranked
}
