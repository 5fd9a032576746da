package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/taskpulse/taskpulse/models"
	"github.com/taskpulse/taskpulse/store"
)

// DefaultRecomputeInterval is the cadence of the periodic ranking cycle.
const DefaultRecomputeInterval = 30 * time.Second

// Errors returned by ID resolution.
var (
	ErrAmbiguousID = errors.New("ambiguous ID prefix")
	ErrNotFound    = errors.New("not found")
)

// Engine is the only mutation surface for the task collection. Every
// mutating operation updates the in-memory collection and runs a full
// ranking cycle synchronously before returning, so callers always observe
// consistent ranks immediately after a mutation.
//
// All access is serialized behind a single mutex; the periodic recompute job
// takes the same lock, so there is no window in which a tick and a mutation
// interleave.
type Engine struct {
	mu    sync.Mutex
	st    store.TaskStore
	tasks []models.Task // authoritative, in creation order (the tie-break order)

	ranked      []RankedTask
	danger      []RankedTask
	lastUpdated time.Time

	interval  time.Duration
	scheduler gocron.Scheduler
	now       func() time.Time
	log       *logrus.Entry
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterval overrides the periodic recompute cadence.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithClock overrides the engine's clock. Tests use this to pin "now".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine backed by the given store, loads the persisted
// collection, and runs an initial ranking cycle. The store's Load already
// degrades malformed data to an empty collection, so startup cannot fail on
// bad state.
func New(st store.TaskStore, opts ...Option) (*Engine, error) {
	e := &Engine{
		st:       st,
		interval: DefaultRecomputeInterval,
		now:      time.Now,
		log:      logrus.WithField("component", "engine"),
	}
	for _, opt := range opts {
		opt(e)
	}

	tasks, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	e.tasks = tasks

	e.mu.Lock()
	e.recomputeLocked(e.now())
	e.mu.Unlock()

	return e, nil
}

// Start begins the periodic ranking cycle. Stop must be called to tear the
// scheduler down; after Stop returns no further recompute fires.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.scheduler != nil {
		return nil // already running
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(e.interval),
		gocron.NewTask(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.recomputeLocked(e.now())
		}),
		gocron.WithName("ranking-cycle"),
	)
	if err != nil {
		return fmt.Errorf("register ranking job: %w", err)
	}

	scheduler.Start()
	e.scheduler = scheduler
	e.log.WithField("interval", e.interval).Debug("periodic ranking started")
	return nil
}

// Stop cancels the periodic ranking cycle. Safe to call when not started.
func (e *Engine) Stop() error {
	e.mu.Lock()
	scheduler := e.scheduler
	e.scheduler = nil
	e.mu.Unlock()

	if scheduler == nil {
		return nil
	}
	if err := scheduler.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	e.log.Debug("periodic ranking stopped")
	return nil
}

// Recompute forces a ranking cycle outside the periodic cadence.
func (e *Engine) Recompute() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recomputeLocked(e.now())
}

// recomputeLocked runs one ranking cycle and persists the collection.
// Callers must hold e.mu.
func (e *Engine) recomputeLocked(now time.Time) {
	started := time.Now()
	e.ranked = rankTasks(e.tasks, now)
	e.danger = dangerZone(e.ranked, now)
	e.lastUpdated = now

	if err := e.st.Save(e.tasks); err != nil {
		// Persistence failures are the store's concern; the in-memory
		// ranking stays valid either way.
		e.log.WithError(err).Warn("failed to persist tasks after ranking cycle")
	}
	e.log.WithFields(logrus.Fields{
		"tasks":    len(e.tasks),
		"ranked":   len(e.ranked),
		"danger":   len(e.danger),
		"duration": time.Since(started),
	}).Debug("ranking cycle complete")
}

// AddTask adds a task to the collection and returns it with generated fields
// filled in. The returned task reflects the rank assigned by the synchronous
// recompute.
func (e *Engine) AddTask(t models.Task) (models.Task, error) {
	now := e.now()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	t.BasePriority = models.NormalizeBasePriority(string(t.BasePriority))
	t.Frequency = models.NormalizeFrequency(string(t.Frequency))
	t.LastRankPosition = nil

	if err := models.ValidateStruct(t); err != nil {
		return models.Task{}, fmt.Errorf("validation failed for new task: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, existing := range e.tasks {
		if existing.ID == t.ID {
			return models.Task{}, fmt.Errorf("task with ID '%s' already exists", t.ID)
		}
	}

	e.tasks = append(e.tasks, t)
	e.recomputeLocked(now)
	return e.taskByIDLocked(t.ID), nil
}

// CompleteTask marks a task completed. A nonexistent ID is a no-op and
// reports found=false; the operations are defined as "find by id, act if
// found".
func (e *Engine) CompleteTask(id string) (models.Task, bool) {
	return e.mutateByID(id, func(t *models.Task, now time.Time) {
		t.MarkCompleted(now)
	})
}

// UncompleteTask reverses a completion. Nonexistent IDs are a no-op.
func (e *Engine) UncompleteTask(id string) (models.Task, bool) {
	return e.mutateByID(id, func(t *models.Task, now time.Time) {
		t.MarkIncomplete(now)
	})
}

// DeleteTask removes a task from the collection. Nonexistent IDs are a no-op.
func (e *Engine) DeleteTask(id string) (models.Task, bool) {
	now := e.now()
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, t := range e.tasks {
		if t.ID == id {
			e.tasks = append(e.tasks[:i], e.tasks[i+1:]...)
			e.recomputeLocked(now)
			return t, true
		}
	}
	return models.Task{}, false
}

// UpdateTask replaces the stored task with the same ID. The task keeps its
// position in the collection, so score ties still break on creation order.
// Nonexistent IDs are a no-op.
func (e *Engine) UpdateTask(updated models.Task) (models.Task, bool, error) {
	updated.BasePriority = models.NormalizeBasePriority(string(updated.BasePriority))
	updated.Frequency = models.NormalizeFrequency(string(updated.Frequency))
	if err := models.ValidateStruct(updated); err != nil {
		return models.Task{}, false, fmt.Errorf("validation failed for updated task: %w", err)
	}

	now := e.now()
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, t := range e.tasks {
		if t.ID == updated.ID {
			updated.CreatedAt = t.CreatedAt
			updated.UpdatedAt = now
			e.tasks[i] = updated
			e.recomputeLocked(now)
			return e.taskByIDLocked(updated.ID), true, nil
		}
	}
	return models.Task{}, false, nil
}

// ClearAll empties the collection. The periodic job, if running, keeps
// ticking against the empty set; only Stop tears it down.
func (e *Engine) ClearAll() {
	now := e.now()
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tasks = []models.Task{}
	e.recomputeLocked(now)
}

// RankedTasks returns the ranked projections from the most recent cycle,
// highest score first.
func (e *Engine) RankedTasks() []RankedTask {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]RankedTask, len(e.ranked))
	copy(out, e.ranked)
	return out
}

// DangerZoneTasks returns the danger-zone subset from the most recent cycle,
// score-ordered.
func (e *Engine) DangerZoneTasks() []RankedTask {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]RankedTask, len(e.danger))
	copy(out, e.danger)
	return out
}

// Tasks returns a copy of the full collection, completed tasks included, in
// creation order.
func (e *Engine) Tasks() []models.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Task, len(e.tasks))
	copy(out, e.tasks)
	return out
}

// LastUpdated reports when the most recent ranking cycle ran.
func (e *Engine) LastUpdated() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUpdated
}

// ResolveID resolves a full ID or an unambiguous prefix to a task ID.
func (e *Engine) ResolveID(idOrPrefix string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var matches []string
	for _, t := range e.tasks {
		if t.ID == idOrPrefix {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, idOrPrefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no task matches '%s'", ErrNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: '%s' matches %d tasks", ErrAmbiguousID, idOrPrefix, len(matches))
	}
}

// mutateByID applies fn to the task with the given ID, then recomputes.
func (e *Engine) mutateByID(id string, fn func(*models.Task, time.Time)) (models.Task, bool) {
	now := e.now()
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.tasks {
		if e.tasks[i].ID == id {
			fn(&e.tasks[i], now)
			e.recomputeLocked(now)
			return e.tasks[i], true
		}
	}
	return models.Task{}, false
}

// taskByIDLocked returns the stored task after a recompute wrote its rank.
// Callers must hold e.mu.
func (e *Engine) taskByIDLocked(id string) models.Task {
	for _, t := range e.tasks {
		if t.ID == id {
			return t
		}
	}
	return models.Task{}
}
