// Package scheduler runs the periodic maintenance jobs of the server:
// the daily quest rollover, streak decay, LLM event pruning and the sweep
// of idle lesson attempts.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/eduquest/eduquest/internal/config"
	"github.com/eduquest/eduquest/internal/quests"
)

// jobTimeout bounds a single run of any job.
const jobTimeout = 5 * time.Minute

// Users lists every learner and resets stale streaks.
type Users interface {
	ListUserIDs(ctx context.Context) ([]string, error)
	DecayStreaks(ctx context.Context, keepDays ...string) (int64, error)
}

// QuestRoller regenerates a learner's quests when they are from another day.
type QuestRoller interface {
	RolloverQuests(ctx context.Context, userID string) (bool, error)
}

// EventPruner deletes old LLM request events.
type EventPruner interface {
	PruneLLMEvents(ctx context.Context, before time.Time) (int64, error)
}

// AttemptPruner drops in-memory attempts last used before a cutoff.
type AttemptPruner interface {
	PruneAttempts(ctx context.Context, before time.Time) (int64, error)
}

// attemptSweepEvery is how often idle attempts are looked for.
const attemptSweepEvery = 10 * time.Minute

// Deps are the collaborators the jobs call. Events and Attempts are
// optional.
type Deps struct {
	Users    Users
	Quests   QuestRoller
	Events   EventPruner
	Attempts AttemptPruner
	Logger   *zap.Logger

	// Now replaces time.Now; day boundaries follow its location.
	Now func() time.Time
}

// Scheduler wraps a gocron scheduler.
type Scheduler struct {
	cron *gocron.Scheduler
	cfg  config.SchedulerConfig
	deps Deps
	log  *zap.Logger
}

// New creates a Scheduler. Jobs are registered by Start.
func New(cfg config.SchedulerConfig, deps Deps) *Scheduler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cron := gocron.NewScheduler(time.Local)
	cron.SingletonModeAll()
	return &Scheduler{cron: cron, cfg: cfg, deps: deps, log: log}
}

// Start registers the jobs and runs them in the background. A disabled
// scheduler starts nothing.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.log.Info("scheduler disabled")
		return nil
	}
	if _, err := s.cron.Every(1).Day().At(s.cfg.RolloverAt).Tag("quest-rollover").Do(s.run("quest-rollover", s.rollover)); err != nil {
		return fmt.Errorf("schedule quest rollover: %w", err)
	}
	if _, err := s.cron.Every(1).Day().At(s.cfg.StreakDecay).Tag("streak-decay").Do(s.run("streak-decay", s.decay)); err != nil {
		return fmt.Errorf("schedule streak decay: %w", err)
	}
	if s.deps.Events != nil && s.cfg.LLMRetention > 0 {
		if _, err := s.cron.Every(1).Hour().Tag("llm-prune").Do(s.run("llm-prune", s.prune)); err != nil {
			return fmt.Errorf("schedule llm prune: %w", err)
		}
	}
	if s.deps.Attempts != nil && s.cfg.AttemptIdle > 0 {
		if _, err := s.cron.Every(attemptSweepEvery).Tag("attempt-sweep").Do(s.run("attempt-sweep", s.sweep)); err != nil {
			return fmt.Errorf("schedule attempt sweep: %w", err)
		}
	}
	s.cron.StartAsync()
	s.log.Info("scheduler started",
		zap.String("rollover_at", s.cfg.RolloverAt),
		zap.String("streak_decay_at", s.cfg.StreakDecay),
		zap.Int("jobs", s.cron.Len()),
	)
	return nil
}

// Stop halts the scheduler; running jobs are not interrupted.
func (s *Scheduler) Stop() {
	if s.cron.IsRunning() {
		s.cron.Stop()
	}
}

// Jobs returns the tags of the registered jobs.
func (s *Scheduler) Jobs() []string {
	var tags []string
	for _, j := range s.cron.Jobs() {
		tags = append(tags, j.Tags()...)
	}
	return tags
}

func (s *Scheduler) run(name string, job func(ctx context.Context) (int64, error)) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		start := time.Now()
		n, err := job(ctx)
		if err != nil {
			s.log.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.log.Info("scheduled job finished",
			zap.String("job", name),
			zap.Int64("affected", n),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// RolloverQuests regenerates stale quest sets for every learner and
// returns how many were regenerated. A failing learner does not stop the
// others.
func (s *Scheduler) RolloverQuests(ctx context.Context) (int, error) {
	n, err := s.rollover(ctx)
	return int(n), err
}

func (s *Scheduler) rollover(ctx context.Context) (int64, error) {
	ids, err := s.deps.Users.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}
	var (
		n    int64
		errs []error
	)
	for _, id := range ids {
		reset, err := s.deps.Quests.RolloverQuests(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", id, err))
			continue
		}
		if reset {
			n++
		}
	}
	return n, errors.Join(errs...)
}

// DecayStreaks resets the streak of every learner who was active neither
// today nor yesterday.
func (s *Scheduler) DecayStreaks(ctx context.Context) (int64, error) {
	return s.decay(ctx)
}

func (s *Scheduler) decay(ctx context.Context) (int64, error) {
	now := s.deps.Now()
	return s.deps.Users.DecayStreaks(ctx, quests.Day(now), quests.Day(now.AddDate(0, 0, -1)))
}

// PruneLLMEvents deletes LLM events older than the retention window.
func (s *Scheduler) PruneLLMEvents(ctx context.Context) (int64, error) {
	return s.prune(ctx)
}

func (s *Scheduler) prune(ctx context.Context) (int64, error) {
	if s.deps.Events == nil || s.cfg.LLMRetention <= 0 {
		return 0, nil
	}
	return s.deps.Events.PruneLLMEvents(ctx, s.deps.Now().Add(-s.cfg.LLMRetention))
}

// SweepAttempts forgets attempts idle for longer than AttemptIdle.
func (s *Scheduler) SweepAttempts(ctx context.Context) (int64, error) {
	return s.sweep(ctx)
}

func (s *Scheduler) sweep(ctx context.Context) (int64, error) {
	if s.deps.Attempts == nil || s.cfg.AttemptIdle <= 0 {
		return 0, nil
	}
	return s.deps.Attempts.PruneAttempts(ctx, s.deps.Now().Add(-s.cfg.AttemptIdle))
}
