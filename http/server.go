// Package http serves the notes REST API on fiber.
package http

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ViniZap4/lumi-notes/auth"
	"github.com/ViniZap4/lumi-notes/domain"
	"github.com/ViniZap4/lumi-notes/store"
)

type Server struct {
	store  store.Store
	tokens *auth.Issuer
	log    zerolog.Logger
}

func NewServer(st store.Store, tokens *auth.Issuer, log zerolog.Logger) *Server {
	return &Server{store: st, tokens: tokens, log: log}
}

// App builds the fiber application with every route mounted.
func (s *Server) App(corsOrigins []string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "lumi-notes",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(s.requestLogger)
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("lumi-notes API is running")
	})

	api := app.Group("/api")
	api.Post("/register", s.HandleRegister)
	api.Post("/login", s.HandleLogin)

	protected := api.Group("", s.tokens.Middleware())
	protected.Get("/me", s.HandleMe)

	protected.Get("/notes", s.HandleNotes)
	protected.Post("/notes", s.HandleCreateNote)
	protected.Get("/notes/:id", s.HandleGetNote)
	protected.Put("/notes/:id", s.HandleUpdateNote)
	protected.Delete("/notes/:id", s.HandleDeleteNote)
	protected.Post("/notes/:id/tags/:tagId", s.HandleAssignTag)
	protected.Delete("/notes/:id/tags/:tagId", s.HandleRemoveTag)

	protected.Get("/folders", s.HandleFolders)
	protected.Post("/folders", s.HandleCreateFolder)
	protected.Get("/folders/:id", s.HandleGetFolder)
	protected.Put("/folders/:id", s.HandleUpdateFolder)
	protected.Patch("/folders/:id", s.HandlePatchFolder)
	protected.Delete("/folders/:id", s.HandleDeleteFolder)
	protected.Get("/folders/:id/notes", s.HandleFolderNotes)

	protected.Get("/tags", s.HandleTags)
	protected.Post("/tags", s.HandleCreateTag)
	protected.Get("/tags/:id", s.HandleGetTag)
	protected.Put("/tags/:id", s.HandleUpdateTag)
	protected.Delete("/tags/:id", s.HandleDeleteTag)
	protected.Get("/tags/:id/notes", s.HandleTagNotes)

	return app
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	if err != nil {
		// let the error handler pick the status before it is logged
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	status := c.Response().StatusCode()
	ev := s.log.Info()
	if status >= fiber.StatusInternalServerError {
		ev = s.log.Error()
	}
	ev.Str("request_id", requestID(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Msg("request")
	return nil
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

// errorHandler turns any handler error into an envelope response.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"

	var ferr *fiber.Error
	switch {
	case errors.As(err, &ferr):
		code, msg = ferr.Code, ferr.Message
	case errors.Is(err, store.ErrNotFound):
		code, msg = fiber.StatusNotFound, "resource not found"
	case errors.Is(err, store.ErrConflict):
		code, msg = fiber.StatusConflict, "resource already exists"
	case errors.Is(err, store.ErrInvalidReference):
		code, msg = fiber.StatusBadRequest, "unknown folder or tag"
	default:
		s.log.Error().Err(err).Str("request_id", requestID(c)).Str("path", c.Path()).Msg("unhandled error")
	}
	return c.Status(code).JSON(domain.Envelope{Success: false, Message: msg})
}

func ok(c *fiber.Ctx, message string, data any) error {
	return c.JSON(domain.Envelope{Success: true, Message: message, Data: data})
}

func created(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(domain.Envelope{Success: true, Message: message, Data: data})
}

func badRequest(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}

// storeErr attaches entity-specific messages to store sentinel errors.
func storeErr(entity string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, entity+" not found")
	case errors.Is(err, store.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, entity+" already exists")
	}
	return err
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid " + name)
	}
	return id, nil
}
