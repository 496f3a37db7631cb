package progression

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eduquest/eduquest/internal/achievements"
	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/evaluator"
	"github.com/eduquest/eduquest/internal/quests"
	"github.com/eduquest/eduquest/internal/scoring"
	"github.com/eduquest/eduquest/internal/session"
	"github.com/eduquest/eduquest/internal/store"
)

// Service applies lesson events to a learner's progression. All writes go
// through the Store; the service itself holds no per-user state.
type Service struct {
	store    Store
	catalog  Catalog
	now      func() time.Time
	log      *zap.Logger
	shuffler func() *evaluator.Shuffler
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now. Quest days and streak days follow the
// location of the returned times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithShuffler sets the source of shufflers for new attempts.
func WithShuffler(fn func() *evaluator.Shuffler) Option {
	return func(s *Service) { s.shuffler = fn }
}

// NewService creates a Service.
func NewService(st Store, catalog Catalog, opts ...Option) *Service {
	s := &Service{
		store:    st,
		catalog:  catalog,
		now:      time.Now,
		log:      zap.NewNop(),
		shuffler: func() *evaluator.Shuffler { return nil },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Catalog returns the catalog the service reads courses from.
func (s *Service) Catalog() Catalog { return s.catalog }

// EnsureUser creates the learner on first use.
func (s *Service) EnsureUser(ctx context.Context, userID, name string) (store.User, error) {
	return s.store.EnsureUser(ctx, store.User{ID: userID, Name: name, CreatedAt: s.now()})
}

// UpdateProfile changes the learner's display name and avatar.
func (s *Service) UpdateProfile(ctx context.Context, userID, name, avatar string) (store.User, error) {
	return s.store.UpdateProfile(ctx, userID, name, avatar)
}

// Load reads the whole aggregate. A quest set from another day is
// regenerated and persisted on the way.
func (s *Service) Load(ctx context.Context, userID string) (*Progression, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	st, err := s.store.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed, err := s.store.GetCompletedLessonIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	answers, err := s.store.GetAnswerHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	types, err := s.store.QuestionTypesAnswered(ctx, userID)
	if err != nil {
		return nil, err
	}
	qs, err := s.loadQuests(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.GetUnlocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Progression{
		User:          u,
		Stats:         st,
		Level:         scoring.Level(st.XP),
		Completed:     completed,
		Answers:       answers,
		QuestionTypes: types,
		Quests:        qs,
		Unlocked:      unlockedFromRows(rows),
	}, nil
}

func (s *Service) loadQuests(ctx context.Context, userID string) ([]quests.Quest, error) {
	stored, err := s.store.GetQuests(ctx, userID)
	if err != nil {
		return nil, err
	}
	qs, reset := quests.Load(stored, s.now())
	if reset {
		if err := s.store.SaveQuests(ctx, userID, qs); err != nil {
			return nil, err
		}
		s.log.Debug("daily quests regenerated", zap.String("user", userID), zap.String("day", quests.Day(s.now())))
	}
	return qs, nil
}

// RolloverQuests regenerates the user's quests if they belong to another
// day and reports whether they did.
func (s *Service) RolloverQuests(ctx context.Context, userID string) (bool, error) {
	stored, err := s.store.GetQuests(ctx, userID)
	if err != nil {
		return false, err
	}
	if !quests.NeedsReset(stored, s.now()) {
		return false, nil
	}
	_, err = s.loadQuests(ctx, userID)
	return err == nil, err
}

// advanceQuests applies fn to today's quests, persists them and pays the
// rewards of every quest it completed as bonus XP.
func (s *Service) advanceQuests(ctx context.Context, userID string, fn func([]quests.Quest) []quests.Quest) ([]quests.Quest, int, error) {
	before, err := s.loadQuests(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	after := fn(before)
	done := quests.NewlyCompleted(before, after)
	if err := s.store.SaveQuests(ctx, userID, after); err != nil {
		return nil, 0, err
	}
	bonus := 0
	for _, q := range done {
		bonus += q.Reward
	}
	if bonus > 0 {
		if _, err := s.store.AddBonusXP(ctx, userID, bonus); err != nil {
			return nil, 0, err
		}
		for _, q := range done {
			s.recordActivity(ctx, store.Activity{UserID: userID, Kind: store.ActivityQuest, Ref: q.ID, XP: q.Reward})
		}
	}
	return done, bonus, nil
}

// Start begins an attempt at a lesson. The attempt is a review when the
// lesson is already in the learner's completed set.
func (s *Service) Start(ctx context.Context, userID, courseID, lessonID string) (*Attempt, error) {
	c, err := s.catalog.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lesson, ok := c.Lesson(lessonID)
	if !ok {
		return nil, fmt.Errorf("lesson %s in course %s: %w", lessonID, courseID, ErrUnknownLesson)
	}
	completed, err := s.store.GetCompletedLessonIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	st, err := s.store.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	review := toSet(completed)[lessonID]
	if !review && lesson.IsQuiz() && st.Hearts <= 0 {
		return nil, ErrNoHearts
	}

	sess, err := session.New(lesson, session.Options{Review: review, Shuffler: s.shuffler()})
	if err != nil {
		return nil, err
	}
	a := &Attempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		CourseID:  courseID,
		Course:    c,
		Session:   sess,
		Hearts:    st.Hearts,
		StartedAt: s.now(),
	}
	s.log.Debug("attempt started",
		zap.String("user", userID),
		zap.String("lesson", lessonID),
		zap.Bool("review", review),
	)
	return a, nil
}

// Submit checks an answer, records it and applies its side effects. A
// persistence failure is returned after the session has already moved on.
func (s *Service) Submit(ctx context.Context, a *Attempt, sub evaluator.Submission) (Outcome, error) {
	out, err := a.Session.Submit(sub)
	if err != nil {
		return Outcome{}, err
	}
	res := Outcome{Outcome: out, Hearts: a.Hearts}

	if _, err := s.store.RecordAnswer(ctx, a.UserID, out.QuestionID, out.QuestionType, out.Correct); err != nil {
		return res, fmt.Errorf("record answer: %w", err)
	}

	// Only quiz answers count; inline checks in reading and video lessons
	// can be retried until right.
	if out.Correct && a.Session.Lesson().IsQuiz() {
		done, bonus, err := s.advanceQuests(ctx, a.UserID, func(qs []quests.Quest) []quests.Quest {
			return quests.Advance(qs, quests.AnswerQuestions, 1)
		})
		if err != nil {
			return res, fmt.Errorf("advance quests: %w", err)
		}
		res.CompletedQuests, res.BonusXP = done, bonus
	}

	if out.DeductHeart {
		st, err := s.store.LoseHeart(ctx, a.UserID)
		if err != nil {
			return res, fmt.Errorf("lose heart: %w", err)
		}
		a.Hearts = st.Hearts
		a.Session.HeartsChanged(st.Hearts)
		res.Hearts = st.Hearts
		if a.Session.LockedOut() {
			s.log.Info("learner out of hearts", zap.String("user", a.UserID), zap.String("lesson", a.Session.Lesson().ID))
		}
	}
	res.LockedOut = a.Session.LockedOut()
	return res, nil
}

// AnswerResult is the result of a stateless Answer.
type AnswerResult struct {
	Correct         bool
	CompletedQuests []quests.Quest
	BonusXP         int
}

// Answer checks one answer to a catalog question outside an attempt and
// records it. It never touches hearts. As in Submit, only quiz questions
// advance ANSWER_QUESTIONS.
func (s *Service) Answer(ctx context.Context, userID, courseID, questionID string, sub evaluator.Submission) (AnswerResult, error) {
	c, err := s.catalog.GetCourse(ctx, courseID)
	if err != nil {
		return AnswerResult{}, err
	}
	var (
		q    course.Question
		quiz bool
	)
	for i := range c.Lessons {
		if found, ok := c.Lessons[i].Question(questionID); ok {
			q, quiz = found, c.Lessons[i].IsQuiz()
			break
		}
	}
	if q == nil {
		return AnswerResult{}, fmt.Errorf("question %s in course %s: %w", questionID, courseID, store.ErrNotFound)
	}
	correct, err := evaluator.Evaluate(q, sub)
	if err != nil {
		return AnswerResult{}, err
	}
	res := AnswerResult{Correct: correct}
	if _, err := s.store.RecordAnswer(ctx, userID, questionID, q.Type(), correct); err != nil {
		return res, fmt.Errorf("record answer: %w", err)
	}
	if correct && quiz {
		done, bonus, err := s.advanceQuests(ctx, userID, func(qs []quests.Quest) []quests.Quest {
			return quests.Advance(qs, quests.AnswerQuestions, 1)
		})
		if err != nil {
			return res, fmt.Errorf("advance quests: %w", err)
		}
		res.CompletedQuests, res.BonusXP = done, bonus
	}
	return res, nil
}

// Advance moves the attempt past a checked answer. The report is nil until
// the lesson completes.
func (s *Service) Advance(ctx context.Context, a *Attempt) (*Report, error) {
	tr, err := a.Session.Advance()
	if err != nil {
		return nil, err
	}
	if !tr.Completed {
		return nil, nil
	}
	return s.finish(ctx, a, tr)
}

// QuickComplete finishes a reading or video lesson without scoring.
func (s *Service) QuickComplete(ctx context.Context, a *Attempt) (*Report, error) {
	tr, err := a.Session.QuickComplete()
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, a, tr)
}

func (s *Service) finish(ctx context.Context, a *Attempt, tr session.Transition) (*Report, error) {
	return s.complete(ctx, completion{
		userID:   a.UserID,
		courseID: a.CourseID,
		lesson:   a.Session.Lesson(),
		review:   a.Session.Review(),
		quick:    tr.Quick,
		perfect:  a.Session.Perfect(),
		summary:  session.BuildSummary(a.Session),
	})
}

// CompleteRequest completes a lesson without a live attempt, for callers
// that ran the lesson themselves.
type CompleteRequest struct {
	UserID   string
	CourseID string
	LessonID string

	// Perfect is honoured for quizzes only.
	Perfect bool

	// Quick marks a reading or video lesson as read.
	Quick bool

	// ExpectedVersion, when non-zero, must match the learner's stats
	// version or the completion fails with store.ErrVersionConflict.
	ExpectedVersion int64
}

// CompleteLesson applies a lesson completion. The completion counts as a
// review when the lesson is already in the learner's completed set.
func (s *Service) CompleteLesson(ctx context.Context, req CompleteRequest) (*Report, error) {
	c, err := s.catalog.GetCourse(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	lesson, ok := c.Lesson(req.LessonID)
	if !ok {
		return nil, fmt.Errorf("lesson %s in course %s: %w", req.LessonID, req.CourseID, ErrUnknownLesson)
	}
	if req.Quick && lesson.IsQuiz() {
		return nil, session.ErrQuickCompleteQuiz
	}
	completed, err := s.store.GetCompletedLessonIDs(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return s.complete(ctx, completion{
		userID:          req.UserID,
		courseID:        req.CourseID,
		lesson:          lesson,
		review:          toSet(completed)[lesson.ID],
		quick:           req.Quick,
		perfect:         req.Perfect && lesson.IsQuiz() && !req.Quick,
		expectedVersion: req.ExpectedVersion,
	})
}

type completion struct {
	userID   string
	courseID string
	lesson   *course.Lesson

	review  bool
	quick   bool
	perfect bool

	expectedVersion int64
	summary         *session.Summary
}

func (s *Service) complete(ctx context.Context, cp completion) (*Report, error) {
	lesson := cp.lesson
	now := s.now()

	st, err := s.store.GetStats(ctx, cp.userID)
	if err != nil {
		return nil, err
	}
	mode := scoring.FirstCompletion
	switch {
	case cp.quick:
		mode = scoring.QuickComplete
	case cp.review:
		mode = scoring.Review
	}
	reward := scoring.Award(lesson, st.Streak, mode)
	review := scoring.Award(lesson, st.Streak, scoring.Review)
	if mode == scoring.QuickComplete {
		review = reward
	}
	perfect := cp.perfect
	expected := cp.expectedVersion
	if expected == 0 {
		expected = st.Version
	}

	// Another attempt may have completed the lesson since this one started,
	// so the store settles first-time versus review.
	res, err := s.store.CompleteLesson(ctx, store.Completion{
		UserID:              cp.userID,
		LessonID:            lesson.ID,
		XPEarned:            reward.XP,
		ReviewXP:            review.XP,
		WasAlreadyCompleted: cp.review,
		Perfect:             perfect,
		ExpectedVersion:     expected,
		At:                  now,
	})
	if err != nil {
		return nil, err
	}
	if mode == scoring.FirstCompletion && !res.FirstTime {
		mode, reward = scoring.Review, review
	}

	kind := store.ActivityLesson
	switch mode {
	case scoring.Review:
		kind = store.ActivityReview
	case scoring.QuickComplete:
		kind = store.ActivityQuick
	}
	s.recordActivity(ctx, store.Activity{UserID: cp.userID, Kind: kind, Ref: lesson.ID, XP: reward.XP, Timestamp: now})

	report := &Report{
		LessonID:    lesson.ID,
		LessonTitle: lesson.Title,
		CourseID:    cp.courseID,
		Reward:      reward,
		FirstTime:   res.FirstTime,
		Perfect:     perfect,
		LevelBefore: scoring.Level(st.XP),
		Summary:     cp.summary,
	}

	done, questBonus, err := s.advanceQuests(ctx, cp.userID, func(qs []quests.Quest) []quests.Quest {
		qs = quests.Advance(qs, quests.MaintainStreak, 1)
		if res.FirstTime {
			qs = quests.Advance(qs, quests.CompleteLessons, 1)
			qs = quests.Advance(qs, quests.EarnXP, reward.XP)
		}
		if perfect {
			qs = quests.Advance(qs, quests.PerfectScores, 1)
		}
		return qs
	})
	if err != nil {
		return nil, fmt.Errorf("advance quests: %w", err)
	}
	report.CompletedQuests = done
	report.QuestBonusXP = questBonus

	unlocked, achBonus, err := s.unlockAchievements(ctx, cp.userID, res.Completed, now)
	if err != nil {
		return nil, fmt.Errorf("unlock achievements: %w", err)
	}
	report.Unlocked = unlocked
	report.AchievementBonusXP = achBonus

	final, err := s.store.GetStats(ctx, cp.userID)
	if err != nil {
		return nil, err
	}
	report.Stats = final
	report.LevelAfter = scoring.Level(final.XP)

	s.log.Info("lesson completed",
		zap.String("user", cp.userID),
		zap.String("lesson", lesson.ID),
		zap.Stringer("mode", mode),
		zap.Int("xp", reward.XP),
		zap.Int("bonus_xp", questBonus+achBonus),
		zap.Int("streak", final.Streak),
		zap.Int("unlocked", len(unlocked)),
	)
	return report, nil
}

// unlockAchievements runs the engine once against the learner's current
// totals and pays the rewards of what it unlocked.
func (s *Service) unlockAchievements(ctx context.Context, userID string, completed []string, now time.Time) ([]achievements.Achievement, int, error) {
	st, err := s.store.GetStats(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	types, err := s.store.QuestionTypesAnswered(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.store.GetUnlocked(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	courses, err := s.coursesCompleted(ctx, toSet(completed))
	if err != nil {
		return nil, 0, err
	}

	have := make(map[string]bool, len(rows))
	for _, row := range rows {
		have[row.ID] = true
	}
	newly := achievements.NewlyUnlocked(have, achievements.Snapshot{
		LessonsCompleted:      len(completed),
		CoursesCompleted:      courses,
		Streak:                st.Streak,
		XP:                    st.XP,
		PerfectScores:         st.PerfectScores,
		QuestionTypesAnswered: types,
	})
	if len(newly) == 0 {
		return nil, 0, nil
	}

	ids := make([]string, len(newly))
	for i, a := range newly {
		ids[i] = a.ID
	}
	if err := s.store.Unlock(ctx, userID, ids, now); err != nil {
		return nil, 0, err
	}
	bonus := achievements.TotalReward(newly)
	if _, err := s.store.AddBonusXP(ctx, userID, bonus); err != nil {
		return nil, 0, err
	}
	for _, a := range newly {
		s.recordActivity(ctx, store.Activity{UserID: userID, Kind: store.ActivityAchievement, Ref: a.ID, XP: a.Reward, Timestamp: now})
	}
	return newly, bonus, nil
}

func (s *Service) coursesCompleted(ctx context.Context, completed map[string]bool) (int, error) {
	list, err := s.catalog.ListCourses(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, cs := range list {
		c, err := s.catalog.GetCourse(ctx, cs.ID)
		if err != nil {
			return 0, err
		}
		if c.CompletedBy(completed) {
			n++
		}
	}
	return n, nil
}

// Refill restores the learner's hearts.
func (s *Service) Refill(ctx context.Context, userID string) (store.Stats, error) {
	st, err := s.store.RefillHearts(ctx, userID)
	if err != nil {
		return store.Stats{}, err
	}
	s.recordActivity(ctx, store.Activity{UserID: userID, Kind: store.ActivityRefill})
	return st, nil
}

// RefillAttempt restores hearts and lifts the attempt's lockout.
func (s *Service) RefillAttempt(ctx context.Context, a *Attempt) (store.Stats, error) {
	st, err := s.Refill(ctx, a.UserID)
	if err != nil {
		return store.Stats{}, err
	}
	a.Hearts = st.Hearts
	a.Session.HeartsChanged(st.Hearts)
	return st, nil
}

// ReviewLesson builds a personalized review of the questions the learner
// last answered wrong and appends it to the course. It reports false when
// there is nothing to review.
func (s *Service) ReviewLesson(ctx context.Context, userID, courseID string) (course.Lesson, bool, error) {
	c, err := s.catalog.GetCourse(ctx, courseID)
	if err != nil {
		return course.Lesson{}, false, err
	}
	history, err := s.store.GetAnswerHistory(ctx, userID)
	if err != nil {
		return course.Lesson{}, false, err
	}
	l, ok := course.BuildReviewLesson(c, history)
	if !ok {
		return course.Lesson{}, false, nil
	}
	if _, err := s.catalog.AppendLesson(ctx, courseID, l); err != nil {
		return course.Lesson{}, false, err
	}
	s.log.Info("review lesson added",
		zap.String("user", userID),
		zap.String("course", courseID),
		zap.String("lesson", l.ID),
		zap.Int("questions", len(l.Questions)),
	)
	return l, true, nil
}

func (s *Service) recordActivity(ctx context.Context, a store.Activity) {
	if a.Timestamp.IsZero() {
		a.Timestamp = s.now()
	}
	if _, err := s.store.RecordActivity(ctx, a); err != nil {
		s.log.Warn("failed to record activity", zap.String("user", a.UserID), zap.String("kind", a.Kind), zap.Error(err))
	}
}
