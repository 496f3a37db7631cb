// Package server exposes the progression service over HTTP.
package server

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/eduquest/eduquest/internal/config"
	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/progression"
)

// CourseWriter stores imported courses.
type CourseWriter interface {
	CreateCourse(ctx context.Context, c *course.Course) error
}

// Generator turns source text into a course.
type Generator interface {
	FromText(ctx context.Context, text string) (*course.Course, error)
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Service *progression.Service
	Courses CourseWriter

	// Generator is optional; without it course generation answers 503.
	Generator Generator

	// Checks run on every health probe, keyed by component name.
	Checks map[string]func(context.Context) error

	Logger *zap.Logger
}

// Server is the HTTP API. Live attempts are held in memory and are lost
// on restart.
type Server struct {
	app  *fiber.App
	deps Deps
	log  *zap.Logger

	mu       sync.Mutex
	attempts map[string]*liveAttempt
}

type liveAttempt struct {
	mu sync.Mutex
	a  *progression.Attempt

	touched time.Time // guarded by Server.mu
}

// New builds the fiber app and registers every route.
func New(cfg config.ServerConfig, deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		deps:     deps,
		log:      log,
		attempts: make(map[string]*liveAttempt),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "eduquest",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.WriteTimeout,
		BodyLimit:             10 * 1024 * 1024,
		Immutable:             true,
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	origins := "*"
	if len(cfg.CORSOrigins) > 0 {
		origins = strings.Join(cfg.CORSOrigins, ",")
	}
	s.app.Use(s.requestLogger())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,If-Match",
		ExposeHeaders: "ETag",
		MaxAge:        300,
	}))
	s.app.Use(recover.New())

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", s.health)

	api := s.app.Group("/api/v1")

	api.Get("/courses", s.listCourses)
	api.Post("/courses", s.createCourse)
	api.Post("/courses/generate", s.generateCourse)
	api.Get("/courses/:id", s.getCourse)
	api.Post("/courses/:id/review/:userID", s.reviewLesson)

	api.Post("/users", s.createUser)
	api.Get("/users/:id", s.getUser)
	api.Patch("/users/:id", s.updateUser)
	api.Get("/users/:id/progress", s.getProgress)
	api.Post("/users/:id/answers", s.answer)
	api.Post("/users/:id/lessons/:lessonID/complete", s.completeLesson)
	api.Post("/users/:id/refill", s.refill)
	api.Get("/users/:id/heatmap", s.heatmap)

	api.Post("/users/:id/attempts", s.startAttempt)
	api.Get("/attempts/:aid", s.getAttempt)
	api.Post("/attempts/:aid/submit", s.submitAttempt)
	api.Post("/attempts/:aid/advance", s.advanceAttempt)
	api.Post("/attempts/:aid/complete", s.quickCompleteAttempt)
	api.Post("/attempts/:aid/refill", s.refillAttempt)
	api.Delete("/attempts/:aid", s.abandonAttempt)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.Info("http server listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// The error handler has not written the response yet.
			status = statusOf(err)
		}
		s.log.Info("http request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return err
	}
}

func (s *Server) health(c *fiber.Ctx) error {
	checks := make(map[string]string, len(s.deps.Checks))
	status := fiber.StatusOK
	for name, check := range s.deps.Checks {
		if err := check(c.UserContext()); err != nil {
			checks[name] = err.Error()
			status = fiber.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	state := "ok"
	if status != fiber.StatusOK {
		state = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{"status": state, "checks": checks})
}
