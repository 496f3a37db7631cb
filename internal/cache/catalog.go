package cache

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/store"
)

// CachedCatalog is a read-through store.CourseRepo. Redis failures are
// logged and served from the repo.
type CachedCatalog struct {
	repo  store.CourseRepo
	cache *Cache
	log   *zap.Logger
}

var _ store.CourseRepo = (*CachedCatalog)(nil)

func NewCachedCatalog(repo store.CourseRepo, cache *Cache, log *zap.Logger) *CachedCatalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedCatalog{repo: repo, cache: cache, log: log}
}

func (c *CachedCatalog) GetCourse(ctx context.Context, id string) (*course.Course, error) {
	key := CourseKey(id)
	if raw, err := c.cache.Get(ctx, key); err == nil {
		if crs, err := course.DecodeJSON([]byte(raw)); err == nil {
			return crs, nil
		}
		c.log.Warn("dropping undecodable cached course", zap.String("course_id", id))
		c.invalidate(ctx, key)
	} else if !errors.Is(err, ErrCacheMiss) {
		c.log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	crs, err := c.repo.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, crs)
	return crs, nil
}

func (c *CachedCatalog) ListCourses(ctx context.Context) ([]store.CourseSummary, error) {
	if raw, err := c.cache.Get(ctx, ListKey); err == nil {
		var list []store.CourseSummary
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return list, nil
		}
		c.invalidate(ctx, ListKey)
	} else if !errors.Is(err, ErrCacheMiss) {
		c.log.Warn("catalog cache read failed", zap.String("key", ListKey), zap.Error(err))
	}

	list, err := c.repo.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, ListKey, list)
	return list, nil
}

func (c *CachedCatalog) CreateCourse(ctx context.Context, crs *course.Course) error {
	if err := c.repo.CreateCourse(ctx, crs); err != nil {
		return err
	}
	c.invalidate(ctx, ListKey)
	return nil
}

func (c *CachedCatalog) EnsureCourse(ctx context.Context, crs *course.Course) (bool, error) {
	inserted, err := c.repo.EnsureCourse(ctx, crs)
	if err != nil {
		return false, err
	}
	if inserted {
		c.invalidate(ctx, ListKey)
	}
	return inserted, nil
}

func (c *CachedCatalog) DeleteCourse(ctx context.Context, id string) error {
	if err := c.repo.DeleteCourse(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, CourseKey(id), ListKey)
	return nil
}

func (c *CachedCatalog) AppendLesson(ctx context.Context, courseID string, l course.Lesson) (*course.Course, error) {
	crs, err := c.repo.AppendLesson(ctx, courseID, l)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, CourseKey(courseID), ListKey)
	return crs, nil
}

func (c *CachedCatalog) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("encode catalog cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.cache.Set(ctx, key, string(raw)); err != nil {
		c.log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *CachedCatalog) invalidate(ctx context.Context, keys ...string) {
	if err := c.cache.Invalidate(ctx, keys...); err != nil {
		c.log.Warn("catalog cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
