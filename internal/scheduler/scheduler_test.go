package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduquest/eduquest/internal/config"
)

type fakeUsers struct {
	ids      []string
	listErr  error
	keptDays []string
}

func (f *fakeUsers) ListUserIDs(context.Context) ([]string, error) { return f.ids, f.listErr }

func (f *fakeUsers) DecayStreaks(_ context.Context, keepDays ...string) (int64, error) {
	f.keptDays = keepDays
	return 2, nil
}

type fakeQuests struct {
	stale map[string]bool
	fail  map[string]bool
	seen  []string
}

func (f *fakeQuests) RolloverQuests(_ context.Context, id string) (bool, error) {
	f.seen = append(f.seen, id)
	if f.fail[id] {
		return false, errors.New("locked")
	}
	return f.stale[id], nil
}

type fakeEvents struct{ before time.Time }

func (f *fakeEvents) PruneLLMEvents(_ context.Context, before time.Time) (int64, error) {
	f.before = before
	return 4, nil
}

type fakeAttempts struct {
	mu     sync.Mutex
	before time.Time
}

func (f *fakeAttempts) PruneAttempts(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.before = before
	return 3, nil
}

var fixedNow = time.Date(2026, 3, 1, 0, 5, 0, 0, time.UTC)

func testConfig() config.SchedulerConfig {
	return config.SchedulerConfig{Enabled: true, RolloverAt: "00:00", StreakDecay: "00:05", LLMRetention: 48 * time.Hour, AttemptIdle: 2 * time.Hour}
}

func TestRolloverQuests(t *testing.T) {
	users := &fakeUsers{ids: []string{"a", "b", "c"}}
	qs := &fakeQuests{stale: map[string]bool{"a": true, "c": true}, fail: map[string]bool{"b": true}}
	s := New(testConfig(), Deps{Users: users, Quests: qs, Now: func() time.Time { return fixedNow }})

	n, err := s.RolloverQuests(context.Background())
	assert.Equal(t, 2, n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user b")
	assert.Equal(t, []string{"a", "b", "c"}, qs.seen, "a failing user must not stop the rest")

	users.listErr = errors.New("db down")
	_, err = s.RolloverQuests(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestDecayStreaksKeepsTodayAndYesterday(t *testing.T) {
	users := &fakeUsers{}
	s := New(testConfig(), Deps{Users: users, Now: func() time.Time { return fixedNow }})

	n, err := s.DecayStreaks(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, []string{"2026-03-01", "2026-02-28"}, users.keptDays)
}

func TestPruneLLMEvents(t *testing.T) {
	events := &fakeEvents{}
	s := New(testConfig(), Deps{Users: &fakeUsers{}, Events: events, Now: func() time.Time { return fixedNow }})

	n, err := s.PruneLLMEvents(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	assert.Equal(t, fixedNow.Add(-48*time.Hour), events.before)

	cfg := testConfig()
	cfg.LLMRetention = 0
	s = New(cfg, Deps{Users: &fakeUsers{}, Events: events})
	n, err = s.PruneLLMEvents(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSweepAttempts(t *testing.T) {
	attempts := &fakeAttempts{}
	s := New(testConfig(), Deps{Users: &fakeUsers{}, Attempts: attempts, Now: func() time.Time { return fixedNow }})

	n, err := s.SweepAttempts(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, fixedNow.Add(-2*time.Hour), attempts.before)

	cfg := testConfig()
	cfg.AttemptIdle = 0
	s = New(cfg, Deps{Users: &fakeUsers{}, Attempts: &fakeAttempts{}})
	n, err = s.SweepAttempts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "a zero idle window disables the sweep")
}

func TestStartRegistersJobs(t *testing.T) {
	s := New(testConfig(), Deps{Users: &fakeUsers{}, Quests: &fakeQuests{}, Events: &fakeEvents{}, Attempts: &fakeAttempts{}})
	require.NoError(t, s.Start())
	t.Cleanup(s.Stop)

	tags := s.Jobs()
	sort.Strings(tags)
	assert.Equal(t, []string{"attempt-sweep", "llm-prune", "quest-rollover", "streak-decay"}, tags)
}

func TestStartWithoutEventsSkipsPrune(t *testing.T) {
	s := New(testConfig(), Deps{Users: &fakeUsers{}, Quests: &fakeQuests{}})
	require.NoError(t, s.Start())
	t.Cleanup(s.Stop)
	assert.NotContains(t, s.Jobs(), "llm-prune")
	assert.NotContains(t, s.Jobs(), "attempt-sweep")
}

func TestDisabledSchedulerStartsNothing(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	s := New(cfg, Deps{Users: &fakeUsers{}, Quests: &fakeQuests{}})
	require.NoError(t, s.Start())
	assert.Empty(t, s.Jobs())
	s.Stop()
}

func TestStartRejectsBadTime(t *testing.T) {
	cfg := testConfig()
	cfg.RolloverAt = "25:99"
	s := New(cfg, Deps{Users: &fakeUsers{}, Quests: &fakeQuests{}})
	assert.Error(t, s.Start())
}
