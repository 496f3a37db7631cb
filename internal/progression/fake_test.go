package progression

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/quests"
	"github.com/eduquest/eduquest/internal/store"
)

// memStore is an in-memory Store with the same semantics as the SQLite one.
type memStore struct {
	users     map[string]store.User
	stats     map[string]*store.Stats
	completed map[string][]string
	answers   map[string]map[string]bool
	types     map[string]map[course.QuestionType]bool
	quests    map[string][]quests.Quest
	unlocked  map[string][]store.UnlockedAchievement
	activity  []store.Activity

	failComplete error
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]store.User{},
		stats:     map[string]*store.Stats{},
		completed: map[string][]string{},
		answers:   map[string]map[string]bool{},
		types:     map[string]map[course.QuestionType]bool{},
		quests:    map[string][]quests.Quest{},
		unlocked:  map[string][]store.UnlockedAchievement{},
	}
}

func (m *memStore) EnsureUser(_ context.Context, u store.User) (store.User, error) {
	if _, ok := m.users[u.ID]; !ok {
		m.users[u.ID] = u
		m.stats[u.ID] = &store.Stats{UserID: u.ID, Hearts: store.MaxHearts, Version: 1}
	}
	return m.users[u.ID], nil
}

func (m *memStore) GetUser(_ context.Context, id string) (store.User, error) {
	u, ok := m.users[id]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return u, nil
}

func (m *memStore) UpdateProfile(_ context.Context, id, name, avatar string) (store.User, error) {
	u, ok := m.users[id]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	u.Name, u.Avatar = name, avatar
	m.users[id] = u
	return u, nil
}

func (m *memStore) statsOf(id string) (*store.Stats, error) {
	st, ok := m.stats[id]
	if !ok {
		return nil, fmt.Errorf("stats for %s: %w", id, store.ErrNotFound)
	}
	return st, nil
}

func (m *memStore) GetStats(_ context.Context, id string) (store.Stats, error) {
	st, err := m.statsOf(id)
	if err != nil {
		return store.Stats{}, err
	}
	return *st, nil
}

func (m *memStore) GetCompletedLessonIDs(_ context.Context, id string) ([]string, error) {
	return append([]string{}, m.completed[id]...), nil
}

func (m *memStore) GetAnswerHistory(_ context.Context, id string) (map[string]bool, error) {
	out := map[string]bool{}
	for k, v := range m.answers[id] {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) RecordAnswer(ctx context.Context, id, qid string, qt course.QuestionType, correct bool) (map[string]bool, error) {
	if m.answers[id] == nil {
		m.answers[id] = map[string]bool{}
	}
	m.answers[id][qid] = correct
	if correct {
		if m.types[id] == nil {
			m.types[id] = map[course.QuestionType]bool{}
		}
		m.types[id][qt] = true
	}
	return m.GetAnswerHistory(ctx, id)
}

func (m *memStore) QuestionTypesAnswered(_ context.Context, id string) (map[course.QuestionType]bool, error) {
	out := map[course.QuestionType]bool{}
	for k, v := range m.types[id] {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) CompleteLesson(_ context.Context, c store.Completion) (store.CompletionResult, error) {
	if m.failComplete != nil {
		return store.CompletionResult{}, m.failComplete
	}
	st, err := m.statsOf(c.UserID)
	if err != nil {
		return store.CompletionResult{}, err
	}
	if c.ExpectedVersion != 0 && c.ExpectedVersion != st.Version {
		return store.CompletionResult{}, store.ErrVersionConflict
	}
	already := false
	for _, id := range m.completed[c.UserID] {
		if id == c.LessonID {
			already = true
		}
	}
	first := !already && !c.WasAlreadyCompleted
	xp := c.XPEarned
	if !first {
		xp = c.ReviewXP
	}
	st.XP += xp
	if first {
		st.Streak++
	}
	if c.Perfect {
		st.PerfectScores++
	}
	st.LastActiveOn = quests.Day(c.At)
	st.Version++
	if !already {
		m.completed[c.UserID] = append(m.completed[c.UserID], c.LessonID)
	}
	return store.CompletionResult{Stats: *st, Completed: append([]string{}, m.completed[c.UserID]...), FirstTime: first, XP: xp}, nil
}

func (m *memStore) RefillHearts(_ context.Context, id string) (store.Stats, error) {
	st, err := m.statsOf(id)
	if err != nil {
		return store.Stats{}, err
	}
	st.Hearts = store.MaxHearts
	st.Version++
	return *st, nil
}

func (m *memStore) LoseHeart(_ context.Context, id string) (store.Stats, error) {
	st, err := m.statsOf(id)
	if err != nil {
		return store.Stats{}, err
	}
	if st.Hearts > 0 {
		st.Hearts--
	}
	st.Version++
	return *st, nil
}

func (m *memStore) AddBonusXP(_ context.Context, id string, amount int) (store.Stats, error) {
	st, err := m.statsOf(id)
	if err != nil {
		return store.Stats{}, err
	}
	st.XP += amount
	st.Version++
	return *st, nil
}

func (m *memStore) GetQuests(_ context.Context, id string) ([]quests.Quest, error) {
	return append([]quests.Quest(nil), m.quests[id]...), nil
}

func (m *memStore) SaveQuests(_ context.Context, id string, qs []quests.Quest) error {
	m.quests[id] = append([]quests.Quest(nil), qs...)
	return nil
}

func (m *memStore) GetUnlocked(_ context.Context, id string) ([]store.UnlockedAchievement, error) {
	return append([]store.UnlockedAchievement(nil), m.unlocked[id]...), nil
}

func (m *memStore) Unlock(_ context.Context, id string, ids []string, at time.Time) error {
	have := map[string]bool{}
	for _, u := range m.unlocked[id] {
		have[u.ID] = true
	}
	for _, aid := range ids {
		if !have[aid] {
			m.unlocked[id] = append(m.unlocked[id], store.UnlockedAchievement{ID: aid, UnlockedAt: at})
		}
	}
	return nil
}

func (m *memStore) RecordActivity(_ context.Context, a store.Activity) (store.Activity, error) {
	a.Sequence = int64(len(m.activity) + 1)
	if a.Day == "" {
		a.Day = quests.Day(a.Timestamp)
	}
	m.activity = append(m.activity, a)
	return a, nil
}

func (m *memStore) ActivityCounts(_ context.Context, id, from string) ([]store.DayActivity, error) {
	agg := map[string]*store.DayActivity{}
	for _, a := range m.activity {
		if a.UserID != id || a.Day < from {
			continue
		}
		d, ok := agg[a.Day]
		if !ok {
			d = &store.DayActivity{Day: a.Day}
			agg[a.Day] = d
		}
		d.Count++
		d.XP += a.XP
	}
	var out []store.DayActivity
	for _, d := range agg {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

// memCatalog serves courses from a map.
type memCatalog struct {
	courses map[string]*course.Course
	order   []string
}

func newMemCatalog(cs ...*course.Course) *memCatalog {
	m := &memCatalog{courses: map[string]*course.Course{}}
	for _, c := range cs {
		m.courses[c.ID] = c
		m.order = append(m.order, c.ID)
	}
	return m
}

func (m *memCatalog) GetCourse(_ context.Context, id string) (*course.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (m *memCatalog) ListCourses(_ context.Context) ([]store.CourseSummary, error) {
	var out []store.CourseSummary
	for _, id := range m.order {
		c := m.courses[id]
		out = append(out, store.CourseSummary{ID: c.ID, Title: c.Title, LessonCount: len(c.Lessons)})
	}
	return out, nil
}

func (m *memCatalog) AppendLesson(_ context.Context, id string, l course.Lesson) (*course.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if err := c.AppendLesson(l); err != nil {
		return nil, err
	}
	return c, nil
}

var errDisk = errors.New("disk full")
