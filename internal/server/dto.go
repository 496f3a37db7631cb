package server

import (
	"github.com/eduquest/eduquest/internal/achievements"
	"github.com/eduquest/eduquest/internal/apperr"
	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/evaluator"
	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/quests"
	"github.com/eduquest/eduquest/internal/scoring"
	"github.com/eduquest/eduquest/internal/store"
)

// SubmissionRequest carries exactly one answer variant.
type SubmissionRequest struct {
	Choice   *int              `json:"choice,omitempty"`
	Text     *string           `json:"text,omitempty"`
	Matching map[string]string `json:"matching,omitempty"`
	Sequence []string          `json:"sequence,omitempty"`
}

func (r SubmissionRequest) submission() (evaluator.Submission, error) {
	var subs []evaluator.Submission
	if r.Choice != nil {
		subs = append(subs, evaluator.Choice{Index: *r.Choice})
	}
	if r.Text != nil {
		subs = append(subs, evaluator.Text{Value: *r.Text})
	}
	if r.Matching != nil {
		subs = append(subs, evaluator.Matching(r.Matching))
	}
	if r.Sequence != nil {
		subs = append(subs, evaluator.Sequence(r.Sequence))
	}
	switch len(subs) {
	case 0:
		return nil, apperr.InvalidInput("submission needs one of choice, text, matching or sequence")
	case 1:
		return subs[0], nil
	default:
		return nil, apperr.InvalidInput("submission carries more than one answer")
	}
}

// AnswerRequest is a stateless answer to a catalog question.
type AnswerRequest struct {
	CourseID   string `json:"courseId"`
	QuestionID string `json:"questionId"`
	SubmissionRequest
}

type AnswerResponse struct {
	Correct         bool           `json:"correct"`
	CompletedQuests []quests.Quest `json:"completedQuests,omitempty"`
	BonusXP         int            `json:"bonusXp"`
}

type CreateUserRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

type CompleteRequest struct {
	CourseID string `json:"courseId"`
	Perfect  bool   `json:"perfect"`
	Quick    bool   `json:"quick"`
}

type StartAttemptRequest struct {
	CourseID string `json:"courseId"`
	LessonID string `json:"lessonId"`
}

type GenerateRequest struct {
	Text string `json:"text"`
	Save bool   `json:"save"`
}

type LevelView struct {
	Level          int `json:"level"`
	XPInLevel      int `json:"xpInLevel"`
	Progress       int `json:"progress"`
	XPForNextLevel int `json:"xpForNextLevel"`
}

func levelView(l scoring.LevelInfo) LevelView {
	return LevelView{Level: l.Level, XPInLevel: l.XPInLevel, Progress: l.Progress, XPForNextLevel: l.XPForNextLevel}
}

type MilestoneView struct {
	Days       int     `json:"days"`
	Title      string  `json:"title"`
	Badge      string  `json:"badge"`
	Multiplier float64 `json:"multiplier"`
}

func milestoneView(m scoring.Milestone, ok bool) *MilestoneView {
	if !ok {
		return nil
	}
	return &MilestoneView{Days: m.Days, Title: m.Title, Badge: m.Badge, Multiplier: m.Multiplier()}
}

type ProgressResponse struct {
	User             store.User                 `json:"user"`
	Stats            store.Stats                `json:"stats"`
	Level            LevelView                  `json:"level"`
	Multiplier       float64                    `json:"multiplier"`
	Milestone        *MilestoneView             `json:"milestone,omitempty"`
	NextMilestone    *MilestoneView             `json:"nextMilestone,omitempty"`
	Quests           []quests.Quest             `json:"quests"`
	QuestCompletion  int                        `json:"questCompletion"`
	Unlocked         []achievements.Unlocked    `json:"unlocked"`
	Locked           []achievements.Achievement `json:"locked"`
	CompletedLessons []string                   `json:"completedLessons"`
}

func progressResponse(p *progression.Progression) ProgressResponse {
	cur, hasCur := p.Milestone()
	next, hasNext := scoring.NextMilestone(p.Stats.Streak)
	completed := p.Completed
	if completed == nil {
		completed = []string{}
	}
	return ProgressResponse{
		User:             p.User,
		Stats:            p.Stats,
		Level:            levelView(p.Level),
		Multiplier:       scoring.Multiplier(p.Stats.Streak),
		Milestone:        milestoneView(cur, hasCur),
		NextMilestone:    milestoneView(next, hasNext),
		Quests:           p.Quests,
		QuestCompletion:  quests.CompletionPercentage(p.Quests),
		Unlocked:         p.Unlocked,
		Locked:           p.Locked(),
		CompletedLessons: completed,
	}
}

type SummaryView struct {
	TotalQuestions int     `json:"totalQuestions"`
	Answers        int     `json:"answers"`
	WrongAnswers   int     `json:"wrongAnswers"`
	FirstTry       int     `json:"firstTry"`
	Accuracy       float64 `json:"accuracy"`
}

type ReportResponse struct {
	LessonID           string                     `json:"lessonId"`
	LessonTitle        string                     `json:"lessonTitle"`
	CourseID           string                     `json:"courseId"`
	Mode               string                     `json:"mode"`
	BaseXP             int                        `json:"baseXp"`
	Multiplier         float64                    `json:"multiplier"`
	XP                 int                        `json:"xp"`
	TotalXP            int                        `json:"totalXp"`
	FirstTime          bool                       `json:"firstTime"`
	Perfect            bool                       `json:"perfect"`
	LeveledUp          bool                       `json:"leveledUp"`
	Level              LevelView                  `json:"level"`
	Stats              store.Stats                `json:"stats"`
	CompletedQuests    []quests.Quest             `json:"completedQuests,omitempty"`
	QuestBonusXP       int                        `json:"questBonusXp"`
	Unlocked           []achievements.Achievement `json:"unlocked,omitempty"`
	AchievementBonusXP int                        `json:"achievementBonusXp"`
	Summary            *SummaryView               `json:"summary,omitempty"`
}

func reportResponse(r *progression.Report) *ReportResponse {
	if r == nil {
		return nil
	}
	out := &ReportResponse{
		LessonID:           r.LessonID,
		LessonTitle:        r.LessonTitle,
		CourseID:           r.CourseID,
		Mode:               r.Reward.Mode.String(),
		BaseXP:             r.Reward.Base,
		Multiplier:         r.Reward.Multiplier,
		XP:                 r.Reward.XP,
		TotalXP:            r.TotalXP(),
		FirstTime:          r.FirstTime,
		Perfect:            r.Perfect,
		LeveledUp:          r.LeveledUp(),
		Level:              levelView(r.LevelAfter),
		Stats:              r.Stats,
		CompletedQuests:    r.CompletedQuests,
		QuestBonusXP:       r.QuestBonusXP,
		Unlocked:           r.Unlocked,
		AchievementBonusXP: r.AchievementBonusXP,
	}
	if s := r.Summary; s != nil {
		out.Summary = &SummaryView{
			TotalQuestions: s.TotalQuestions,
			Answers:        s.Answers,
			WrongAnswers:   s.WrongAnswers,
			FirstTry:       s.FirstTry,
			Accuracy:       s.Accuracy,
		}
	}
	return out
}

// QuestionView presents a question without its answer key. Matching
// answers and sequencing items come shuffled.
type QuestionView struct {
	ID      string              `json:"id"`
	Type    course.QuestionType `json:"type"`
	Text    string              `json:"text"`
	Options []string            `json:"options,omitempty"`
	Prompts []course.Pair       `json:"prompts,omitempty"`
	Answers []course.Pair       `json:"answers,omitempty"`
	Items   []string            `json:"items,omitempty"`
}

type AttemptResponse struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"`
	CourseID    string            `json:"courseId"`
	LessonID    string            `json:"lessonId"`
	LessonType  course.LessonType `json:"lessonType"`
	Content     string            `json:"content,omitempty"`
	VideoID     string            `json:"videoId,omitempty"`
	Review      bool              `json:"review"`
	Phase       string            `json:"phase"`
	Index       int               `json:"index"`
	Total       int               `json:"total"`
	Hearts      int               `json:"hearts"`
	LockedOut   bool              `json:"lockedOut"`
	LastCorrect bool              `json:"lastCorrect"`
	Question    *QuestionView     `json:"question,omitempty"`
}

func attemptResponse(a *progression.Attempt) AttemptResponse {
	sess := a.Session
	l := sess.Lesson()
	_, total := sess.Progress()
	out := AttemptResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		CourseID:    a.CourseID,
		LessonID:    l.ID,
		LessonType:  l.Type,
		Content:     l.Content,
		VideoID:     l.VideoID,
		Review:      sess.Review(),
		Phase:       sess.Phase().String(),
		Index:       sess.Index(),
		Total:       total,
		Hearts:      a.Hearts,
		LockedOut:   sess.LockedOut(),
		LastCorrect: sess.LastCorrect(),
	}
	q := sess.Current()
	if q == nil {
		return out
	}
	v := &QuestionView{ID: q.QuestionID(), Type: q.Type(), Text: q.QuestionText()}
	switch q := q.(type) {
	case *course.MultipleChoiceQuestion:
		v.Options = q.Options
	case *course.MatchingQuestion:
		v.Prompts = q.Prompts
		v.Answers = sess.MatchingAnswers()
	case *course.SequencingQuestion:
		if b := sess.NewSequenceBoard(); b != nil {
			v.Items = b.Available()
		}
	}
	out.Question = v
	return out
}

type OutcomeResponse struct {
	Correct         bool            `json:"correct"`
	DeductHeart     bool            `json:"deductHeart"`
	Hearts          int             `json:"hearts"`
	LockedOut       bool            `json:"lockedOut"`
	CompletedQuests []quests.Quest  `json:"completedQuests,omitempty"`
	BonusXP         int             `json:"bonusXp"`
	Attempt         AttemptResponse `json:"attempt"`
}

func outcomeResponse(o progression.Outcome, a *progression.Attempt) OutcomeResponse {
	return OutcomeResponse{
		Correct:         o.Correct,
		DeductHeart:     o.DeductHeart,
		Hearts:          o.Hearts,
		LockedOut:       o.LockedOut,
		CompletedQuests: o.CompletedQuests,
		BonusXP:         o.BonusXP,
		Attempt:         attemptResponse(a),
	}
}

type AdvanceResponse struct {
	Completed bool            `json:"completed"`
	Attempt   AttemptResponse `json:"attempt"`
	Report    *ReportResponse `json:"report,omitempty"`
}
