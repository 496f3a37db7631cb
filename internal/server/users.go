package server

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/eduquest/eduquest/internal/apperr"
	"github.com/eduquest/eduquest/internal/progression"
)

const (
	defaultHeatmapDays = 90
	maxHeatmapDays     = 366
)

func (s *Server) createUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidInput("invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apperr.InvalidInput("name is required")
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	u, err := s.deps.Service.EnsureUser(c.UserContext(), req.ID, req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (s *Server) getUser(c *fiber.Ctx) error {
	p, err := s.deps.Service.Load(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p.User)
}

func (s *Server) updateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidInput("invalid request body")
	}
	p, err := s.deps.Service.Load(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	name, avatar := p.User.Name, p.User.Avatar
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return apperr.InvalidInput("name cannot be empty")
		}
	}
	if req.Avatar != nil {
		avatar = *req.Avatar
	}
	u, err := s.deps.Service.UpdateProfile(c.UserContext(), p.User.ID, name, avatar)
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (s *Server) getProgress(c *fiber.Ctx) error {
	p, err := s.deps.Service.Load(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderETag, etag(p.Stats.Version))
	return c.JSON(progressResponse(p))
}

func (s *Server) answer(c *fiber.Ctx) error {
	var req AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidInput("invalid request body")
	}
	if req.CourseID == "" || req.QuestionID == "" {
		return apperr.InvalidInput("courseId and questionId are required")
	}
	sub, err := req.submission()
	if err != nil {
		return err
	}
	res, err := s.deps.Service.Answer(c.UserContext(), c.Params("id"), req.CourseID, req.QuestionID, sub)
	if err != nil {
		return err
	}
	return c.JSON(AnswerResponse{Correct: res.Correct, CompletedQuests: res.CompletedQuests, BonusXP: res.BonusXP})
}

// completeLesson applies a completion reported by a client that ran the
// lesson itself. An If-Match header carrying the stats version turns on
// the optimistic concurrency check.
func (s *Server) completeLesson(c *fiber.Ctx) error {
	var req CompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidInput("invalid request body")
	}
	if req.CourseID == "" {
		return apperr.InvalidInput("courseId is required")
	}
	version, err := parseIfMatch(c.Get(fiber.HeaderIfMatch))
	if err != nil {
		return err
	}
	rep, err := s.deps.Service.CompleteLesson(c.UserContext(), progression.CompleteRequest{
		UserID:          c.Params("id"),
		CourseID:        req.CourseID,
		LessonID:        c.Params("lessonID"),
		Perfect:         req.Perfect,
		Quick:           req.Quick,
		ExpectedVersion: version,
	})
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderETag, etag(rep.Stats.Version))
	return c.JSON(reportResponse(rep))
}

func (s *Server) refill(c *fiber.Ctx) error {
	st, err := s.deps.Service.Refill(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderETag, etag(st.Version))
	return c.JSON(st)
}

func (s *Server) heatmap(c *fiber.Ctx) error {
	days := c.QueryInt("days", defaultHeatmapDays)
	if days <= 0 || days > maxHeatmapDays {
		return apperr.InvalidInput("days must be between 1 and " + strconv.Itoa(maxHeatmapDays))
	}
	cells, err := s.deps.Service.Heatmap(c.UserContext(), c.Params("id"), days)
	if err != nil {
		return err
	}
	return c.JSON(cells)
}

func etag(version int64) string {
	return `"` + strconv.FormatInt(version, 10) + `"`
}

// parseIfMatch reads a stats version from an If-Match header. An absent
// header or "*" means no check.
func parseIfMatch(h string) (int64, error) {
	h = strings.TrimSpace(h)
	if h == "" || h == "*" {
		return 0, nil
	}
	h = strings.TrimPrefix(h, "W/")
	v, err := strconv.ParseInt(strings.Trim(h, `"`), 10, 64)
	if err != nil || v <= 0 {
		return 0, apperr.InvalidInput("If-Match must carry a stats version")
	}
	return v, nil
}
