package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prencipemarco/superquote-web/internal/metrics"
	"github.com/prencipemarco/superquote-web/internal/models"
)

// ValidationMessage is the fixed user-facing text for the identical-team
// rejection.
const ValidationMessage = "Home and away team must be different"

// Update is what the orchestrator pushes to its consumer after each settled
// input cycle: either a fresh result, a validation message, or a cleared
// display (all fields zero).
type Update struct {
	Result            *models.AnalysisResult `json:"result,omitempty"`
	ValidationMessage string                 `json:"validation_message,omitempty"`
	Cleared           bool                   `json:"cleared"`
}

// Orchestrator drives the engine from a stream of form inputs. Input changes
// are debounced: only the last state within the quiet window starts a run.
// Each run carries a sequence number; a completion whose number no longer
// matches the current sequence is discarded, so the published result is
// always from the most recently started run, never a stale late-finisher.
type Orchestrator struct {
	engine   *Engine
	logger   *logrus.Logger
	debounce time.Duration
	publish  func(Update)

	seq atomic.Uint64

	mu      sync.Mutex
	timer   *time.Timer
	pending models.Query
	state   State
	closed  bool
}

// NewOrchestrator creates an orchestrator that pushes updates to publish.
// The consumer owns presentation state; the orchestrator owns nothing but
// the current run.
func NewOrchestrator(engine *Engine, debounce time.Duration, logger *logrus.Logger, publish func(Update)) *Orchestrator {
	if debounce <= 0 {
		debounce = 800 * time.Millisecond
	}
	return &Orchestrator{
		engine:   engine,
		logger:   logger,
		debounce: debounce,
		publish:  publish,
		state:    StateIdle,
	}
}

// SetInput records the latest form state and restarts the quiet window.
// The identical-team check is synchronous and never reaches the repository;
// it invalidates any in-flight run so a stale result cannot resurface after
// the rejection.
func (o *Orchestrator) SetInput(query models.Query) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	o.stopTimerLocked()

	home := strings.TrimSpace(query.HomeTeam)
	away := strings.TrimSpace(query.AwayTeam)

	if home == "" && away == "" {
		o.seq.Add(1) // discard any in-flight run
		o.state = StateIdle
		o.publish(Update{Cleared: true})
		return
	}

	if home != "" && away != "" && strings.EqualFold(home, away) {
		o.seq.Add(1)
		o.state = StateValidating
		o.publish(Update{ValidationMessage: ValidationMessage, Cleared: true})
		return
	}

	o.pending = query
	o.state = StateValidating
	o.timer = time.AfterFunc(o.debounce, o.fire)
}

// Flush runs any pending input immediately instead of waiting out the quiet
// window. Used by the CLI and by tests.
func (o *Orchestrator) Flush() {
	o.mu.Lock()
	fired := o.timer != nil
	o.stopTimerLocked()
	o.mu.Unlock()
	if fired {
		o.fire()
	}
}

// State returns the phase of the most recent run.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Close stops the timer and invalidates in-flight runs.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.stopTimerLocked()
	o.seq.Add(1)
}

func (o *Orchestrator) stopTimerLocked() {
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

func (o *Orchestrator) fire() {
	o.mu.Lock()
	o.timer = nil
	if o.closed {
		o.mu.Unlock()
		return
	}
	query := o.pending
	o.mu.Unlock()

	runID := o.seq.Add(1)
	go o.runOnce(runID, query)
}

func (o *Orchestrator) runOnce(runID uint64, query models.Query) {
	observe := func(s State) {
		o.mu.Lock()
		if runID == o.seq.Load() {
			o.state = s
		}
		o.mu.Unlock()
	}

	result, err := o.engine.RunQueryObserved(context.Background(), query, observe)

	// Discard completions from superseded runs: a later-started run must
	// never be overwritten by an earlier run's late response.
	if runID != o.seq.Load() {
		metrics.AnalysesDiscardedTotal.Inc()
		o.logger.WithField("run_id", runID).Debug("Discarded stale analysis run")
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, models.ErrIdenticalTeams):
			o.publish(Update{ValidationMessage: ValidationMessage, Cleared: true})
			return
		case errors.Is(err, models.ErrMissingTeam), errors.Is(err, models.ErrUnknownCategory):
			o.publish(Update{Cleared: true})
			return
		default:
			o.logger.WithError(err).WithField("run_id", runID).Error("Analysis run failed")
			// repository failures still carry a result with the error in
			// its trace; fall through and publish it
		}
	}

	if result != nil {
		o.publish(Update{Result: result})
	}
}
