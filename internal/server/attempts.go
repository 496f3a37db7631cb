package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/eduquest/eduquest/internal/apperr"
	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/session"
)

func (s *Server) startAttempt(c *fiber.Ctx) error {
	var req StartAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidInput("invalid request body")
	}
	if req.CourseID == "" || req.LessonID == "" {
		return apperr.InvalidInput("courseId and lessonId are required")
	}
	a, err := s.deps.Service.Start(c.UserContext(), c.Params("id"), req.CourseID, req.LessonID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.attempts[a.ID] = &liveAttempt{a: a, touched: time.Now()}
	s.mu.Unlock()

	return c.Status(fiber.StatusCreated).JSON(attemptResponse(a))
}

// withAttempt runs fn with the attempt locked. Completed attempts are
// dropped once fn returns.
func (s *Server) withAttempt(c *fiber.Ctx, fn func(a *progression.Attempt) error) error {
	id := c.Params("aid")
	s.mu.Lock()
	live, ok := s.attempts[id]
	if ok {
		live.touched = time.Now()
	}
	s.mu.Unlock()
	if !ok {
		return apperr.NotFound("attempt " + id + " not found")
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	err := fn(live.a)
	if live.a.Session.Phase() == session.PhaseCompleted {
		s.drop(id)
	}
	return err
}

func (s *Server) drop(id string) {
	s.mu.Lock()
	delete(s.attempts, id)
	s.mu.Unlock()
}

// PruneAttempts forgets attempts nobody has touched since before and
// returns how many went. The scheduler calls it so abandoned attempts do
// not pile up.
func (s *Server) PruneAttempts(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, live := range s.attempts {
		if live.touched.Before(before) {
			delete(s.attempts, id)
			n++
		}
	}
	if n > 0 {
		s.log.Info("pruned idle attempts", zap.Int64("count", n), zap.Int("live", len(s.attempts)))
	}
	return n, nil
}

func (s *Server) getAttempt(c *fiber.Ctx) error {
	return s.withAttempt(c, func(a *progression.Attempt) error {
		return c.JSON(attemptResponse(a))
	})
}

func (s *Server) submitAttempt(c *fiber.Ctx) error {
	var req SubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidInput("invalid request body")
	}
	sub, err := req.submission()
	if err != nil {
		return err
	}
	return s.withAttempt(c, func(a *progression.Attempt) error {
		out, err := s.deps.Service.Submit(c.UserContext(), a, sub)
		if err != nil {
			if out.QuestionID != "" {
				// The session moved on; only the write behind it failed.
				s.log.Warn("answer side effects failed", zap.String("attempt", a.ID), zap.Error(err))
			}
			return err
		}
		return c.JSON(outcomeResponse(out, a))
	})
}

func (s *Server) advanceAttempt(c *fiber.Ctx) error {
	return s.withAttempt(c, func(a *progression.Attempt) error {
		rep, err := s.deps.Service.Advance(c.UserContext(), a)
		if err != nil {
			return err
		}
		return c.JSON(AdvanceResponse{Completed: rep != nil, Attempt: attemptResponse(a), Report: reportResponse(rep)})
	})
}

func (s *Server) quickCompleteAttempt(c *fiber.Ctx) error {
	return s.withAttempt(c, func(a *progression.Attempt) error {
		rep, err := s.deps.Service.QuickComplete(c.UserContext(), a)
		if err != nil {
			return err
		}
		return c.JSON(AdvanceResponse{Completed: true, Attempt: attemptResponse(a), Report: reportResponse(rep)})
	})
}

func (s *Server) refillAttempt(c *fiber.Ctx) error {
	return s.withAttempt(c, func(a *progression.Attempt) error {
		if _, err := s.deps.Service.RefillAttempt(c.UserContext(), a); err != nil {
			return err
		}
		return c.JSON(attemptResponse(a))
	})
}

func (s *Server) abandonAttempt(c *fiber.Ctx) error {
	id := c.Params("aid")
	s.mu.Lock()
	_, ok := s.attempts[id]
	delete(s.attempts, id)
	s.mu.Unlock()
	if !ok {
		return apperr.NotFound("attempt " + id + " not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
