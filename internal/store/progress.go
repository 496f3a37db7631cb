package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/quests"
)

// progressRepo implements ProgressRepo.
type progressRepo struct {
	db  *sqlx.DB
	seq *sequenceCounter
}

var statsColumns = []string{
	"user_id", "xp", "streak", "hearts", "perfect_scores",
	"version", "last_active_on", "updated_at",
}

func (r *progressRepo) EnsureUser(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		return User{}, fmt.Errorf("ensure user: empty id")
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := exec(ctx, tx, sqlb.Insert(UsersTable.Name).
			Columns("id", "name", "avatar", "created_at").
			Values(u.ID, u.Name, u.Avatar, u.CreatedAt.UTC()).
			OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()))
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		_, err = exec(ctx, tx, sqlb.Insert(UserStatsTable.Name).
			Columns("user_id", "hearts", "updated_at").
			Values(u.ID, MaxHearts, time.Now().UTC()).
			OnConflict(entsql.ConflictColumns("user_id"), entsql.DoNothing()))
		if err != nil {
			return fmt.Errorf("insert stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return User{}, fmt.Errorf("ensure user %s: %w", u.ID, err)
	}
	return r.GetUser(ctx, u.ID)
}

func (r *progressRepo) GetUser(ctx context.Context, userID string) (User, error) {
	var u User
	err := get(ctx, r.db, &u, sqlb.Select("id", "name", "avatar", "created_at").
		From(sqlb.Table(UsersTable.Name)).
		Where(entsql.EQ("id", userID)))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	return u, nil
}

func (r *progressRepo) UpdateProfile(ctx context.Context, userID, name, avatar string) (User, error) {
	res, err := exec(ctx, r.db, sqlb.Update(UsersTable.Name).
		Set("name", name).
		Set("avatar", avatar).
		Where(entsql.EQ("id", userID)))
	if err != nil {
		return User{}, fmt.Errorf("update profile %s: %w", userID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return User{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return r.GetUser(ctx, userID)
}

func (r *progressRepo) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := selectAll(ctx, r.db, &ids, sqlb.Select("id").
		From(sqlb.Table(UsersTable.Name)).
		OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ids, nil
}

func (r *progressRepo) GetStats(ctx context.Context, userID string) (Stats, error) {
	return getStats(ctx, r.db, userID)
}

func getStats(ctx context.Context, q sqlx.QueryerContext, userID string) (Stats, error) {
	var st Stats
	err := get(ctx, q, &st, sqlb.Select(statsColumns...).
		From(sqlb.Table(UserStatsTable.Name)).
		Where(entsql.EQ("user_id", userID)))
	if errors.Is(err, sql.ErrNoRows) {
		return Stats{}, fmt.Errorf("stats for %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return Stats{}, fmt.Errorf("get stats %s: %w", userID, err)
	}
	return st, nil
}

func (r *progressRepo) GetCompletedLessonIDs(ctx context.Context, userID string) ([]string, error) {
	return completedLessonIDs(ctx, r.db, userID)
}

func completedLessonIDs(ctx context.Context, q sqlx.QueryerContext, userID string) ([]string, error) {
	ids := []string{}
	err := selectAll(ctx, q, &ids, sqlb.Select("lesson_id").
		From(sqlb.Table(CompletedLessonsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("completed_at", "lesson_id"))
	if err != nil {
		return nil, fmt.Errorf("completed lessons %s: %w", userID, err)
	}
	return ids, nil
}

func (r *progressRepo) GetAnswerHistory(ctx context.Context, userID string) (map[string]bool, error) {
	return answerHistory(ctx, r.db, userID)
}

func answerHistory(ctx context.Context, q sqlx.QueryerContext, userID string) (map[string]bool, error) {
	var rows []struct {
		QuestionID string `db:"question_id"`
		Correct    bool   `db:"correct"`
	}
	err := selectAll(ctx, q, &rows, sqlb.Select("question_id", "correct").
		From(sqlb.Table(AnswerHistoryTable.Name)).
		Where(entsql.EQ("user_id", userID)))
	if err != nil {
		return nil, fmt.Errorf("answer history %s: %w", userID, err)
	}
	out := make(map[string]bool, len(rows))
	for _, row := range rows {
		out[row.QuestionID] = row.Correct
	}
	return out, nil
}

func (r *progressRepo) RecordAnswer(ctx context.Context, userID, questionID string, qt course.QuestionType, correct bool) (map[string]bool, error) {
	var history map[string]bool
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := exec(ctx, tx, sqlb.Insert(AnswerHistoryTable.Name).
			Columns("user_id", "question_id", "correct", "question_type", "updated_at").
			Values(userID, questionID, correct, string(qt), time.Now().UTC()).
			OnConflict(
				entsql.ConflictColumns("user_id", "question_id"),
				entsql.ResolveWithNewValues(),
			))
		if err != nil {
			return err
		}
		if correct && qt != "" {
			_, err = exec(ctx, tx, sqlb.Insert(QuestionTypesTable.Name).
				Columns("user_id", "question_type").
				Values(userID, string(qt)).
				OnConflict(entsql.ConflictColumns("user_id", "question_type"), entsql.DoNothing()))
			if err != nil {
				return err
			}
		}
		history, err = answerHistory(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("record answer %s/%s: %w", userID, questionID, err)
	}
	return history, nil
}

func (r *progressRepo) QuestionTypesAnswered(ctx context.Context, userID string) (map[course.QuestionType]bool, error) {
	var types []string
	err := selectAll(ctx, r.db, &types, sqlb.Select("question_type").
		From(sqlb.Table(QuestionTypesTable.Name)).
		Where(entsql.EQ("user_id", userID)))
	if err != nil {
		return nil, fmt.Errorf("question types %s: %w", userID, err)
	}
	out := make(map[course.QuestionType]bool, len(types))
	for _, t := range types {
		out[course.QuestionType(t)] = true
	}
	return out, nil
}

func (r *progressRepo) CompleteLesson(ctx context.Context, c Completion) (CompletionResult, error) {
	if c.XPEarned < 0 || c.ReviewXP < 0 {
		return CompletionResult{}, fmt.Errorf("complete lesson %s: negative xp %d/%d", c.LessonID, c.XPEarned, c.ReviewXP)
	}
	at := c.At
	if at.IsZero() {
		at = time.Now()
	}

	var res CompletionResult
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		st, err := getStats(ctx, tx, c.UserID)
		if err != nil {
			return err
		}
		if c.ExpectedVersion != 0 && c.ExpectedVersion != st.Version {
			return fmt.Errorf("stats at version %d, expected %d: %w", st.Version, c.ExpectedVersion, ErrVersionConflict)
		}

		var n int
		err = get(ctx, tx, &n, sqlb.Select(entsql.Count("*")).
			From(sqlb.Table(CompletedLessonsTable.Name)).
			Where(entsql.And(
				entsql.EQ("user_id", c.UserID),
				entsql.EQ("lesson_id", c.LessonID),
			)))
		if err != nil {
			return err
		}
		first := n == 0 && !c.WasAlreadyCompleted
		xp := c.XPEarned
		if !first {
			xp = c.ReviewXP
		}

		upd := sqlb.Update(UserStatsTable.Name).
			Add("xp", xp).
			Add("version", 1).
			Set("last_active_on", quests.Day(at)).
			Set("updated_at", time.Now().UTC()).
			Where(entsql.EQ("user_id", c.UserID))
		if first {
			upd.Add("streak", 1)
		}
		if c.Perfect {
			upd.Add("perfect_scores", 1)
		}
		if _, err := exec(ctx, tx, upd); err != nil {
			return fmt.Errorf("update stats: %w", err)
		}

		if n == 0 {
			_, err = exec(ctx, tx, sqlb.Insert(CompletedLessonsTable.Name).
				Columns("user_id", "lesson_id", "completed_at").
				Values(c.UserID, c.LessonID, at.UTC()))
			if err != nil {
				return fmt.Errorf("insert completion: %w", err)
			}
		}

		if res.Stats, err = getStats(ctx, tx, c.UserID); err != nil {
			return err
		}
		if res.Completed, err = completedLessonIDs(ctx, tx, c.UserID); err != nil {
			return err
		}
		res.FirstTime, res.XP = first, xp
		return nil
	})
	if err != nil {
		return CompletionResult{}, fmt.Errorf("complete lesson %s for %s: %w", c.LessonID, c.UserID, err)
	}
	return res, nil
}

func (r *progressRepo) updateStats(ctx context.Context, userID string, upd *entsql.UpdateBuilder) (Stats, error) {
	var st Stats
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := exec(ctx, tx, upd.
			Add("version", 1).
			Set("updated_at", time.Now().UTC()).
			Where(entsql.EQ("user_id", userID)))
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// Either the user is unknown or the guard did not match.
			if _, err := getStats(ctx, tx, userID); err != nil {
				return err
			}
		}
		st, err = getStats(ctx, tx, userID)
		return err
	})
	return st, err
}

// LoseHeart removes one heart. Hearts never go below zero.
func (r *progressRepo) LoseHeart(ctx context.Context, userID string) (Stats, error) {
	st, err := r.updateStats(ctx, userID, sqlb.Update(UserStatsTable.Name).
		Add("hearts", -1).
		Where(entsql.GT("hearts", 0)))
	if err != nil {
		return Stats{}, fmt.Errorf("lose heart %s: %w", userID, err)
	}
	return st, nil
}

func (r *progressRepo) RefillHearts(ctx context.Context, userID string) (Stats, error) {
	st, err := r.updateStats(ctx, userID, sqlb.Update(UserStatsTable.Name).
		Set("hearts", MaxHearts))
	if err != nil {
		return Stats{}, fmt.Errorf("refill hearts %s: %w", userID, err)
	}
	return st, nil
}

func (r *progressRepo) AddBonusXP(ctx context.Context, userID string, amount int) (Stats, error) {
	if amount < 0 {
		return Stats{}, fmt.Errorf("add bonus xp %s: negative amount %d", userID, amount)
	}
	st, err := r.updateStats(ctx, userID, sqlb.Update(UserStatsTable.Name).
		Add("xp", amount))
	if err != nil {
		return Stats{}, fmt.Errorf("add bonus xp %s: %w", userID, err)
	}
	return st, nil
}

func (r *progressRepo) DecayStreaks(ctx context.Context, keepDays ...string) (int64, error) {
	keep := make([]any, len(keepDays))
	for i, d := range keepDays {
		keep[i] = d
	}
	pred := entsql.GT("streak", 0)
	if len(keep) > 0 {
		pred = entsql.And(pred, entsql.NotIn("last_active_on", keep...))
	}
	res, err := exec(ctx, r.db, sqlb.Update(UserStatsTable.Name).
		Set("streak", 0).
		Add("version", 1).
		Set("updated_at", time.Now().UTC()).
		Where(pred))
	if err != nil {
		return 0, fmt.Errorf("decay streaks: %w", err)
	}
	return res.RowsAffected()
}

type questRow struct {
	QuestID     string `db:"quest_id"`
	Type        string `db:"type"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Target      int    `db:"target"`
	Progress    int    `db:"progress"`
	Reward      int    `db:"reward"`
	Completed   bool   `db:"completed"`
	Day         string `db:"day"`
}

func (r *progressRepo) GetQuests(ctx context.Context, userID string) ([]quests.Quest, error) {
	var rows []questRow
	err := selectAll(ctx, r.db, &rows, sqlb.Select(
		"quest_id", "type", "title", "description", "target",
		"progress", "reward", "completed", "day",
	).
		From(sqlb.Table(DailyQuestsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("position"))
	if err != nil {
		return nil, fmt.Errorf("get quests %s: %w", userID, err)
	}
	out := make([]quests.Quest, len(rows))
	for i, row := range rows {
		out[i] = quests.Quest{
			ID:          row.QuestID,
			Title:       row.Title,
			Description: row.Description,
			Type:        quests.Type(row.Type),
			Target:      row.Target,
			Progress:    row.Progress,
			Reward:      row.Reward,
			Completed:   row.Completed,
			Date:        row.Day,
		}
	}
	return out, nil
}

// SaveQuests replaces the user's whole quest set.
func (r *progressRepo) SaveQuests(ctx context.Context, userID string, qs []quests.Quest) error {
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := exec(ctx, tx, sqlb.Delete(DailyQuestsTable.Name).
			Where(entsql.EQ("user_id", userID))); err != nil {
			return err
		}
		if len(qs) == 0 {
			return nil
		}
		ins := sqlb.Insert(DailyQuestsTable.Name).Columns(
			"user_id", "quest_id", "position", "type", "title", "description",
			"target", "progress", "reward", "completed", "day",
		)
		for i, q := range qs {
			ins.Values(userID, q.ID, i, string(q.Type), q.Title, q.Description,
				q.Target, q.Progress, q.Reward, q.Completed, q.Date)
		}
		_, err := exec(ctx, tx, ins)
		return err
	})
	if err != nil {
		return fmt.Errorf("save quests %s: %w", userID, err)
	}
	return nil
}

func (r *progressRepo) GetUnlocked(ctx context.Context, userID string) ([]UnlockedAchievement, error) {
	var out []UnlockedAchievement
	err := selectAll(ctx, r.db, &out, sqlb.Select("achievement_id", "unlocked_at").
		From(sqlb.Table(UnlockedAchievementsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("unlocked_at", "achievement_id"))
	if err != nil {
		return nil, fmt.Errorf("get unlocked %s: %w", userID, err)
	}
	return out, nil
}

// Unlock appends ids to the unlocked set. Already unlocked ids keep their
// original timestamp.
func (r *progressRepo) Unlock(ctx context.Context, userID string, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	ins := sqlb.Insert(UnlockedAchievementsTable.Name).
		Columns("user_id", "achievement_id", "unlocked_at")
	for _, id := range ids {
		ins.Values(userID, id, at.UTC())
	}
	ins.OnConflict(entsql.ConflictColumns("user_id", "achievement_id"), entsql.DoNothing())
	if _, err := exec(ctx, r.db, ins); err != nil {
		return fmt.Errorf("unlock %v for %s: %w", ids, userID, err)
	}
	return nil
}

// ResetUser clears stats, completions, answers, quests, achievements and
// activity for the user.
func (r *progressRepo) ResetUser(ctx context.Context, userID string) error {
	if _, err := r.GetUser(ctx, userID); err != nil {
		return err
	}
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, t := range []string{
			CompletedLessonsTable.Name,
			AnswerHistoryTable.Name,
			QuestionTypesTable.Name,
			DailyQuestsTable.Name,
			UnlockedAchievementsTable.Name,
			ActivityLogTable.Name,
		} {
			if _, err := exec(ctx, tx, sqlb.Delete(t).Where(entsql.EQ("user_id", userID))); err != nil {
				return fmt.Errorf("clear %s: %w", t, err)
			}
		}
		_, err := exec(ctx, tx, sqlb.Update(UserStatsTable.Name).
			Set("xp", 0).
			Set("streak", 0).
			Set("hearts", MaxHearts).
			Set("perfect_scores", 0).
			Set("last_active_on", "").
			Add("version", 1).
			Set("updated_at", time.Now().UTC()).
			Where(entsql.EQ("user_id", userID)))
		return err
	})
	if err != nil {
		return fmt.Errorf("reset user %s: %w", userID, err)
	}
	return nil
}
