package analysis

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prencipemarco/superquote-web/internal/models"
)

type updateCollector struct {
	mu      sync.Mutex
	updates []Update
}

func (c *updateCollector) publish(u Update) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, u)
}

func (c *updateCollector) all() []Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Update, len(c.updates))
	copy(out, c.updates)
	return out
}

func (c *updateCollector) waitFor(t *testing.T, n int) []Update {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if updates := c.all(); len(updates) >= n {
			return updates
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d updates, got %d", n, len(c.all()))
	return nil
}

func newTestOrchestrator(repo *fakeMatchRepo, debounce time.Duration) (*Orchestrator, *updateCollector) {
	collector := &updateCollector{}
	engine := newTestEngine(repo)
	return NewOrchestrator(engine, debounce, testLogger(), collector.publish), collector
}

func TestOrchestratorIdenticalTeamsRejectedSynchronously(t *testing.T) {
	repo := &fakeMatchRepo{}
	orch, collector := newTestOrchestrator(repo, time.Hour) // debounce must not matter
	defer orch.Close()

	orch.SetInput(models.Query{HomeTeam: "Alpha", AwayTeam: " ALPHA ", Category: models.CategoryHomeWin})

	updates := collector.all()
	require.Len(t, updates, 1, "the rejection must not wait out the quiet window")
	assert.Equal(t, ValidationMessage, updates[0].ValidationMessage)
	assert.True(t, updates[0].Cleared, "a prior result must be cleared")

	encounters, _ := repo.calls()
	assert.Zero(t, encounters, "validation never reaches the repository")
}

func TestOrchestratorClearsOnEmptyInput(t *testing.T) {
	repo := &fakeMatchRepo{}
	orch, collector := newTestOrchestrator(repo, time.Hour)
	defer orch.Close()

	orch.SetInput(models.Query{Category: models.CategoryHomeWin})

	updates := collector.all()
	require.Len(t, updates, 1)
	assert.True(t, updates[0].Cleared)
	assert.Empty(t, updates[0].ValidationMessage)
}

func TestOrchestratorDebouncesToLastInput(t *testing.T) {
	repo := &fakeMatchRepo{encounters: h2hSample(6, 4)}
	orch, collector := newTestOrchestrator(repo, 50*time.Millisecond)
	defer orch.Close()

	// rapid typing: only the final state may start a run
	orch.SetInput(models.Query{HomeTeam: "I", AwayTeam: "Milan", Category: models.CategoryHomeWin})
	orch.SetInput(models.Query{HomeTeam: "Int", AwayTeam: "Milan", Category: models.CategoryHomeWin})
	orch.SetInput(models.Query{HomeTeam: "Inter", AwayTeam: "Milan", Category: models.CategoryHomeWin})

	updates := collector.waitFor(t, 1)
	require.NotNil(t, updates[0].Result)
	assert.Equal(t, "Inter", updates[0].Result.Query.HomeTeam)

	encounters, _ := repo.calls()
	assert.Equal(t, 1, encounters, "intermediate inputs must not reach the repository")
}

func TestOrchestratorDiscardsStaleRun(t *testing.T) {
	slowRelease := make(chan struct{})
	repo := &fakeMatchRepo{}
	repo.findHook = func(teamA, _ string) ([]*models.MatchRecord, error) {
		if teamA == "Slowton" {
			<-slowRelease
			return h2hSample(2, 8), nil
		}
		return h2hSample(6, 4), nil
	}

	orch, collector := newTestOrchestrator(repo, 10*time.Millisecond)
	defer orch.Close()

	// R1 starts first and hangs in the repository
	orch.SetInput(models.Query{HomeTeam: "Slowton", AwayTeam: "Milan", Category: models.CategoryHomeWin})
	orch.Flush()
	time.Sleep(20 * time.Millisecond)

	// R2 starts second and completes first
	orch.SetInput(models.Query{HomeTeam: "Inter", AwayTeam: "Milan", Category: models.CategoryHomeWin})
	orch.Flush()

	updates := collector.waitFor(t, 1)

	// now let R1 finish late; its result must be discarded
	close(slowRelease)
	time.Sleep(100 * time.Millisecond)

	updates = collector.all()
	require.Len(t, updates, 1, "the stale run must not publish")
	require.NotNil(t, updates[0].Result)
	assert.Equal(t, "Inter", updates[0].Result.Query.HomeTeam)
	require.NotNil(t, updates[0].Result.HistoricalWinRate)
	assert.Equal(t, 60.0, *updates[0].Result.HistoricalWinRate)
}

func TestOrchestratorNewInputInvalidatesInFlightRun(t *testing.T) {
	slowRelease := make(chan struct{})
	repo := &fakeMatchRepo{}
	repo.findHook = func(string, string) ([]*models.MatchRecord, error) {
		<-slowRelease
		return h2hSample(6, 4), nil
	}

	orch, collector := newTestOrchestrator(repo, 10*time.Millisecond)
	defer orch.Close()

	orch.SetInput(models.Query{HomeTeam: "Inter", AwayTeam: "Milan", Category: models.CategoryHomeWin})
	orch.Flush()
	time.Sleep(20 * time.Millisecond)

	// the user wipes the form while the run is in flight
	orch.SetInput(models.Query{Category: models.CategoryHomeWin})
	close(slowRelease)
	time.Sleep(100 * time.Millisecond)

	updates := collector.all()
	require.Len(t, updates, 1)
	assert.True(t, updates[0].Cleared)
	assert.Nil(t, updates[0].Result, "the invalidated run must not resurface")
}

func TestOrchestratorPublishesRepositoryFailures(t *testing.T) {
	repo := &fakeMatchRepo{encountersErr: assert.AnError}
	orch, collector := newTestOrchestrator(repo, 10*time.Millisecond)
	defer orch.Close()

	orch.SetInput(models.Query{HomeTeam: "Inter", AwayTeam: "Milan", Category: models.CategoryHomeWin})
	orch.Flush()

	updates := collector.waitFor(t, 1)
	require.NotNil(t, updates[0].Result)
	assert.Equal(t, models.VerdictInsufficientData, updates[0].Result.Verdict)
	assert.NotEmpty(t, updates[0].Result.Trace)
}

func TestOrchestratorStateReachesReady(t *testing.T) {
	repo := &fakeMatchRepo{encounters: h2hSample(6, 4)}
	orch, collector := newTestOrchestrator(repo, 10*time.Millisecond)
	defer orch.Close()

	orch.SetInput(models.Query{HomeTeam: "Inter", AwayTeam: "Milan", Category: models.CategoryHomeWin})
	orch.Flush()
	collector.waitFor(t, 1)

	assert.Equal(t, StateReady, orch.State())
}
