package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/oklog/ulid/v2"

	"github.com/eduquest/eduquest/internal/quests"
)

var activityColumns = []string{"id", "sequence", "user_id", "kind", "ref", "xp", "day", "timestamp"}

// RecordActivity appends a to the activity log, filling in its id,
// sequence, timestamp and day.
func (r *progressRepo) RecordActivity(ctx context.Context, a Activity) (Activity, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return Activity{}, fmt.Errorf("next sequence: %w", err)
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	if a.Day == "" {
		a.Day = quests.Day(a.Timestamp)
	}
	a.ID = ulid.Make().String()
	a.Sequence = seqNum

	_, err = exec(ctx, r.db, sqlb.Insert(ActivityLogTable.Name).
		Columns(activityColumns...).
		Values(a.ID, a.Sequence, a.UserID, a.Kind, a.Ref, a.XP, a.Day, a.Timestamp.UTC()))
	if err != nil {
		return Activity{}, fmt.Errorf("save activity: %w", err)
	}
	return a, nil
}

func (r *progressRepo) QueryActivity(ctx context.Context, userID string, opts QueryOpts) ([]Activity, error) {
	sel := sqlb.Select(activityColumns...).
		From(sqlb.Table(ActivityLogTable.Name)).
		Where(entsql.EQ("user_id", userID))
	var out []Activity
	if err := selectAll(ctx, r.db, &out, applyOpts(sel, opts)); err != nil {
		return nil, fmt.Errorf("query activity %s: %w", userID, err)
	}
	return out, nil
}

// ActivityCounts groups the log by calendar day, starting at fromDay.
func (r *progressRepo) ActivityCounts(ctx context.Context, userID, fromDay string) ([]DayActivity, error) {
	sel := sqlb.Select(
		"day",
		entsql.As(entsql.Count("*"), "count"),
		entsql.As(entsql.Sum("xp"), "xp"),
	).
		From(sqlb.Table(ActivityLogTable.Name)).
		Where(entsql.EQ("user_id", userID))
	if fromDay != "" {
		sel.Where(entsql.GTE("day", fromDay))
	}
	var out []DayActivity
	if err := selectAll(ctx, r.db, &out, sel.GroupBy("day").OrderBy("day")); err != nil {
		return nil, fmt.Errorf("activity counts %s: %w", userID, err)
	}
	return out, nil
}
