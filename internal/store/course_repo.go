package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/eduquest/eduquest/internal/course"
)

// courseRepo stores each course as a validated JSON document.
type courseRepo struct {
	db *sqlx.DB
}

func (r *courseRepo) insert(ctx context.Context, c *course.Course, ignoreExisting bool) (bool, error) {
	if c == nil {
		return false, fmt.Errorf("nil course")
	}
	if err := course.Validate(c); err != nil {
		return false, err
	}
	doc, err := json.Marshal(c)
	if err != nil {
		return false, fmt.Errorf("encode course %s: %w", c.ID, err)
	}
	now := time.Now().UTC()
	ins := sqlb.Insert(CoursesTable.Name).
		Columns("id", "title", "description", "lesson_count", "document", "created_at", "updated_at").
		Values(c.ID, c.Title, c.Description, len(c.Lessons), string(doc), now, now)
	if ignoreExisting {
		ins.OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing())
	}
	res, err := exec(ctx, r.db, ins)
	if err != nil {
		if !ignoreExisting && r.exists(ctx, c.ID) {
			return false, fmt.Errorf("course %s: %w", c.ID, ErrAlreadyExists)
		}
		return false, fmt.Errorf("insert course %s: %w", c.ID, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *courseRepo) exists(ctx context.Context, id string) bool {
	var n int
	err := get(ctx, r.db, &n, sqlb.Select(entsql.Count("*")).
		From(sqlb.Table(CoursesTable.Name)).
		Where(entsql.EQ("id", id)))
	return err == nil && n > 0
}

func (r *courseRepo) CreateCourse(ctx context.Context, c *course.Course) error {
	_, err := r.insert(ctx, c, false)
	return err
}

func (r *courseRepo) EnsureCourse(ctx context.Context, c *course.Course) (bool, error) {
	return r.insert(ctx, c, true)
}

func (r *courseRepo) GetCourse(ctx context.Context, id string) (*course.Course, error) {
	c, _, err := getCourse(ctx, r.db, id)
	return c, err
}

func getCourse(ctx context.Context, q sqlx.QueryerContext, id string) (*course.Course, int64, error) {
	var row struct {
		Document string `db:"document"`
		Version  int64  `db:"version"`
	}
	err := get(ctx, q, &row, sqlb.Select("document", "version").
		From(sqlb.Table(CoursesTable.Name)).
		Where(entsql.EQ("id", id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("get course %s: %w", id, err)
	}
	c, err := course.DecodeJSON([]byte(row.Document))
	if err != nil {
		return nil, 0, fmt.Errorf("decode course %s: %w", id, err)
	}
	return c, row.Version, nil
}

func (r *courseRepo) ListCourses(ctx context.Context) ([]CourseSummary, error) {
	out := []CourseSummary{}
	err := selectAll(ctx, r.db, &out, sqlb.Select(
		"id", "title", "description", "lesson_count", "version", "updated_at",
	).
		From(sqlb.Table(CoursesTable.Name)).
		OrderBy("created_at", "id"))
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return out, nil
}

func (r *courseRepo) DeleteCourse(ctx context.Context, id string) error {
	res, err := exec(ctx, r.db, sqlb.Delete(CoursesTable.Name).Where(entsql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("delete course %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	return nil
}

// AppendLesson adds l to the end of the course and returns the new course.
func (r *courseRepo) AppendLesson(ctx context.Context, courseID string, l course.Lesson) (*course.Course, error) {
	var out *course.Course
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		c, version, err := getCourse(ctx, tx, courseID)
		if err != nil {
			return err
		}
		if err := c.AppendLesson(l); err != nil {
			return err
		}
		doc, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode course: %w", err)
		}
		res, err := exec(ctx, tx, sqlb.Update(CoursesTable.Name).
			Set("document", string(doc)).
			Set("lesson_count", len(c.Lessons)).
			Add("version", 1).
			Set("updated_at", time.Now().UTC()).
			Where(entsql.And(entsql.EQ("id", courseID), entsql.EQ("version", version))))
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrVersionConflict
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("append lesson to %s: %w", courseID, err)
	}
	return out, nil
}
