package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/eduquest/eduquest/internal/apperr"
	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/coursegen"
	"github.com/eduquest/eduquest/internal/evaluator"
	"github.com/eduquest/eduquest/internal/llm"
	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/session"
	"github.com/eduquest/eduquest/internal/store"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message, Status: fe.Code})
	}

	ae := toAppError(err)
	status := ae.Status()
	if status >= fiber.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("path", c.Path()),
			zap.String("code", string(ae.Code)),
			zap.Error(err),
		)
	} else {
		s.log.Debug("request rejected",
			zap.String("path", c.Path()),
			zap.String("code", string(ae.Code)),
			zap.Error(err),
		)
	}
	return c.Status(status).JSON(ErrorResponse{Code: ae.Code, Message: ae.Message, Status: status})
}

func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return toAppError(err).Status()
}

// toAppError classifies err by the domain errors in its chain.
func toAppError(err error) *apperr.Error {
	var (
		ae          *apperr.Error
		mismatch    *evaluator.MismatchError
		rateLimit   *llm.ErrRateLimit
		unavailable *llm.ErrProviderUnavailable
		genErr      *coursegen.GenerationError
	)
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, store.ErrNotFound), errors.Is(err, progression.ErrUnknownLesson):
		return apperr.New(apperr.CodeNotFound, "resource not found", err)
	case errors.As(err, &genErr):
		return apperr.New(apperr.CodeLLMUnavailable, "course generation failed at "+genErr.Stage, err)
	case errors.Is(err, course.ErrMalformed):
		return apperr.New(apperr.CodeMalformedCatalog, err.Error(), err)
	case errors.Is(err, evaluator.ErrIncomplete):
		return apperr.New(apperr.CodeIncompleteSubmission, "submission is incomplete", err)
	case errors.As(err, &mismatch):
		return apperr.New(apperr.CodeInvalidInput, mismatch.Error(), err)
	case errors.Is(err, session.ErrLockedOut):
		return apperr.New(apperr.CodeLockedOut, session.ErrLockedOut.Error(), err)
	case errors.Is(err, progression.ErrNoHearts):
		return apperr.New(apperr.CodeNoHearts, progression.ErrNoHearts.Error(), err)
	case errors.Is(err, store.ErrVersionConflict):
		return apperr.Conflict("progress changed since it was read", err)
	case errors.Is(err, store.ErrAlreadyExists):
		return apperr.Conflict("course already exists", err)
	case errors.Is(err, session.ErrNotPresenting),
		errors.Is(err, session.ErrNotChecked),
		errors.Is(err, session.ErrCompleted),
		errors.Is(err, session.ErrQuickCompleteQuiz):
		return apperr.Conflict(err.Error(), err)
	case errors.Is(err, coursegen.ErrEmptyContent),
		errors.Is(err, coursegen.ErrNotPDF),
		errors.Is(err, coursegen.ErrPDFTooLarge):
		return apperr.New(apperr.CodeInvalidInput, err.Error(), err)
	case errors.Is(err, llm.ErrNotConfigured),
		errors.As(err, &rateLimit),
		errors.As(err, &unavailable):
		return apperr.New(apperr.CodeLLMUnavailable, "language model unavailable", err)
	default:
		return apperr.Internal("internal server error", err)
	}
}
