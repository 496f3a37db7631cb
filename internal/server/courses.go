package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/eduquest/eduquest/internal/apperr"
	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/llm"
	"github.com/eduquest/eduquest/internal/store"
)

func (s *Server) listCourses(c *fiber.Ctx) error {
	list, err := s.deps.Service.Catalog().ListCourses(c.UserContext())
	if err != nil {
		return err
	}
	if list == nil {
		list = []store.CourseSummary{}
	}
	return c.JSON(list)
}

func (s *Server) getCourse(c *fiber.Ctx) error {
	crs, err := s.deps.Service.Catalog().GetCourse(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(crs)
}

// createCourse imports a course document after validating it.
func (s *Server) createCourse(c *fiber.Ctx) error {
	crs, err := course.DecodeJSON(c.Body())
	if err != nil {
		if errors.Is(err, course.ErrMalformed) {
			return err
		}
		return apperr.New(apperr.CodeInvalidInput, "invalid course document", err)
	}
	if err := s.deps.Courses.CreateCourse(c.UserContext(), crs); err != nil {
		return err
	}
	s.log.Info("course imported", zap.String("course", crs.ID), zap.Int("lessons", len(crs.Lessons)))
	return c.Status(fiber.StatusCreated).JSON(summaryOf(crs))
}

func (s *Server) generateCourse(c *fiber.Ctx) error {
	if s.deps.Generator == nil {
		return apperr.New(apperr.CodeLLMUnavailable, "course generation is not configured", llm.ErrNotConfigured)
	}
	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidInput("invalid request body")
	}
	crs, err := s.deps.Generator.FromText(c.UserContext(), req.Text)
	if err != nil {
		return err
	}
	if !req.Save {
		return c.JSON(crs)
	}
	if err := s.deps.Courses.CreateCourse(c.UserContext(), crs); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(crs)
}

// reviewLesson appends a personalized review of the user's wrong answers.
// Nothing to review answers 204.
func (s *Server) reviewLesson(c *fiber.Ctx) error {
	l, ok, err := s.deps.Service.ReviewLesson(c.UserContext(), c.Params("userID"), c.Params("id"))
	if err != nil {
		return err
	}
	if !ok {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(fiber.StatusCreated).JSON(l)
}

func summaryOf(c *course.Course) store.CourseSummary {
	return store.CourseSummary{
		ID:          c.ID,
		Title:       c.Title,
		Description: strings.TrimSpace(c.Description),
		LessonCount: len(c.Lessons),
	}
}
