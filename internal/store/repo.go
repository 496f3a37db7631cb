package store

import (
	"context"
	"time"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/quests"
)

// MaxHearts is the heart count of a new or refilled learner.
const MaxHearts = 5

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// User is a learner's identity and profile.
type User struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Avatar    string    `db:"avatar" json:"avatar,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Stats are a learner's counters. Version increases on every write.
type Stats struct {
	UserID        string    `db:"user_id" json:"userId"`
	XP            int       `db:"xp" json:"xp"`
	Streak        int       `db:"streak" json:"streak"`
	Hearts        int       `db:"hearts" json:"hearts"`
	PerfectScores int       `db:"perfect_scores" json:"perfectScores"`
	Version       int64     `db:"version" json:"version"`
	LastActiveOn  string    `db:"last_active_on" json:"lastActiveOn"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Completion is the input of CompleteLesson.
type Completion struct {
	UserID   string
	LessonID string

	// XPEarned is applied when this is the first completion of the lesson,
	// ReviewXP when the lesson is already in the completed set. The choice
	// is made inside the write transaction.
	XPEarned int
	ReviewXP int

	WasAlreadyCompleted bool
	Perfect             bool

	// ExpectedVersion, when non-zero, must equal the stored stats version.
	ExpectedVersion int64

	// At is the completion time; its calendar day becomes LastActiveOn.
	At time.Time
}

// CompletionResult is the state after a completion was persisted.
type CompletionResult struct {
	Stats     Stats
	Completed []string

	// FirstTime is false when the lesson was already in the completed set,
	// whatever the caller claimed.
	FirstTime bool

	// XP is what was added: XPEarned or ReviewXP.
	XP int
}

// UnlockedAchievement is one row of the unlocked set.
type UnlockedAchievement struct {
	ID         string    `db:"achievement_id"`
	UnlockedAt time.Time `db:"unlocked_at"`
}

// Activity kinds.
const (
	ActivityLesson      = "lesson"
	ActivityReview      = "review"
	ActivityQuick       = "quick"
	ActivityQuest       = "quest"
	ActivityAchievement = "achievement"
	ActivityRefill      = "refill"
)

// Activity is one entry of a learner's activity log.
type Activity struct {
	ID        string    `db:"id"`
	Sequence  int64     `db:"sequence"`
	UserID    string    `db:"user_id"`
	Kind      string    `db:"kind"`
	Ref       string    `db:"ref"`
	XP        int       `db:"xp"`
	Day       string    `db:"day"`
	Timestamp time.Time `db:"timestamp"`
}

// DayActivity aggregates the activity log for one calendar day.
type DayActivity struct {
	Day   string `db:"day"`
	Count int    `db:"count"`
	XP    int    `db:"xp"`
}

// ProgressRepo persists the per-user progression aggregate.
type ProgressRepo interface {
	// EnsureUser creates the user and a fresh stats row unless they exist.
	EnsureUser(ctx context.Context, u User) (User, error)
	GetUser(ctx context.Context, userID string) (User, error)
	UpdateProfile(ctx context.Context, userID, name, avatar string) (User, error)
	ListUserIDs(ctx context.Context) ([]string, error)

	GetStats(ctx context.Context, userID string) (Stats, error)
	GetCompletedLessonIDs(ctx context.Context, userID string) ([]string, error)
	GetAnswerHistory(ctx context.Context, userID string) (map[string]bool, error)

	// RecordAnswer overwrites the last-known correctness of a question and
	// returns the whole mapping.
	RecordAnswer(ctx context.Context, userID, questionID string, qt course.QuestionType, correct bool) (map[string]bool, error)
	QuestionTypesAnswered(ctx context.Context, userID string) (map[course.QuestionType]bool, error)

	// CompleteLesson atomically persists XP, streak, completed-set
	// membership and the perfect-score counter.
	CompleteLesson(ctx context.Context, c Completion) (CompletionResult, error)

	LoseHeart(ctx context.Context, userID string) (Stats, error)
	RefillHearts(ctx context.Context, userID string) (Stats, error)
	AddBonusXP(ctx context.Context, userID string, amount int) (Stats, error)

	// DecayStreaks zeroes the streak of every user whose last activity is
	// on neither of the given days, and returns how many were reset.
	DecayStreaks(ctx context.Context, keepDays ...string) (int64, error)

	GetQuests(ctx context.Context, userID string) ([]quests.Quest, error)
	SaveQuests(ctx context.Context, userID string, qs []quests.Quest) error

	GetUnlocked(ctx context.Context, userID string) ([]UnlockedAchievement, error)
	Unlock(ctx context.Context, userID string, ids []string, at time.Time) error

	RecordActivity(ctx context.Context, a Activity) (Activity, error)
	QueryActivity(ctx context.Context, userID string, opts QueryOpts) ([]Activity, error)
	ActivityCounts(ctx context.Context, userID, fromDay string) ([]DayActivity, error)

	// ResetUser deletes every trace of progress but keeps the profile.
	ResetUser(ctx context.Context, userID string) error
}

// CourseSummary is a catalog listing entry.
type CourseSummary struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description,omitempty"`
	LessonCount int       `db:"lesson_count" json:"lessonCount"`
	Version     int64     `db:"version" json:"version"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// CourseRepo persists the course catalog. Courses are immutable once
// created except for lesson appends.
type CourseRepo interface {
	// CreateCourse validates and stores c, failing with ErrAlreadyExists if
	// its id is taken.
	CreateCourse(ctx context.Context, c *course.Course) error

	// EnsureCourse stores c unless a course with its id exists and reports
	// whether it was inserted.
	EnsureCourse(ctx context.Context, c *course.Course) (bool, error)
	GetCourse(ctx context.Context, id string) (*course.Course, error)
	ListCourses(ctx context.Context) ([]CourseSummary, error)
	DeleteCourse(ctx context.Context, id string) error
	AppendLesson(ctx context.Context, courseID string, l course.Lesson) (*course.Course, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	UserID       string // learner the request was made for, if any
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID           int       `db:"id"`
	Sequence     int64     `db:"sequence"`
	Timestamp    time.Time `db:"timestamp"`
	Provider     string    `db:"provider"`
	Model        string    `db:"model"`
	Purpose      string    `db:"purpose"`
	InputTokens  int       `db:"input_tokens"`
	OutputTokens int       `db:"output_tokens"`
	LatencyMs    int64     `db:"latency_ms"`
	Success      bool      `db:"success"`
	ErrorMessage string    `db:"error_message"`
	RequestBody  string    `db:"request_body"`
	ResponseBody string    `db:"response_body"`
	UserID       string    `db:"user_id"`
}

// LLMEventQuery narrows QueryLLMEvents. Empty fields match everything.
type LLMEventQuery struct {
	QueryOpts
	Purpose string
	UserID  string
}

// LLMUsageStats aggregates LLM usage per purpose.
type LLMUsageStats struct {
	Purpose      string `db:"purpose"`
	Calls        int    `db:"calls"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
	AvgLatencyMs int64  `db:"avg_latency_ms"`
}

// LLMModelUsage aggregates LLM usage per model.
type LLMModelUsage struct {
	Model        string `db:"model"`
	Calls        int    `db:"calls"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	QueryLLMEvents(ctx context.Context, q LLMEventQuery) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns nil if no event has the id.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// PruneLLMEvents deletes events older than before.
	PruneLLMEvents(ctx context.Context, before time.Time) (int64, error)
}
