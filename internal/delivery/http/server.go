package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/trip-editor/internal/config"
	"github.com/trip-editor/internal/delivery/http/handler"
	"github.com/trip-editor/internal/delivery/http/middleware"
	"github.com/trip-editor/internal/pkg/errors"
	"github.com/trip-editor/internal/pkg/utils"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	editorHandler *handler.EditorHandler
	tripHandler   *handler.TripHandler
	healthHandler *handler.HealthHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	editorHandler *handler.EditorHandler,
	tripHandler *handler.TripHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Trip Editor",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		editorHandler: editorHandler,
		tripHandler:   tripHandler,
		healthHandler: healthHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - доступ к fiber.App для тестов
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	api.Get("/health", s.healthHandler.Health)

	// Trips
	api.Get("/trips/:uid", s.tripHandler.GetTrip)

	// Editor sessions
	sessions := api.Group("/editor/sessions")
	sessions.Post("/", s.editorHandler.CreateSession)

	session := sessions.Group("/:id")
	session.Get("/", s.editorHandler.GetSession)
	session.Delete("/", s.editorHandler.CloseSession)
	session.Put("/container", s.editorHandler.AttachContainer)

	// Provider
	session.Put("/provider", s.editorHandler.SelectProvider)
	session.Post("/provider/toggle", s.editorHandler.ToggleProvider)

	// Itinerary
	session.Post("/days", s.editorHandler.AddDay)
	session.Delete("/days/:day", s.editorHandler.RemoveDay)
	session.Post("/days/:day/expand", s.editorHandler.ToggleDay)
	session.Post("/days/:day/points", s.editorHandler.AddPoint)
	session.Post("/days/:day/points/reorder", s.editorHandler.ReorderPoint)
	session.Patch("/days/:day/points/:point", s.editorHandler.UpdatePoint)
	session.Delete("/days/:day/points/:point", s.editorHandler.RemovePoint)
	session.Post("/days/:day/points/:point/select", s.editorHandler.SelectPoint)
	session.Post("/days/:day/points/:point/move", s.editorHandler.MovePoint)

	// Search
	session.Post("/search", s.editorHandler.Search)
	session.Delete("/search", s.editorHandler.ClearSearch)
	session.Post("/search/results/:index/select", s.editorHandler.SelectSearchResult)
	session.Post("/candidate/confirm", s.editorHandler.ConfirmCandidate)

	// Map markers
	session.Post("/markers/:index/click", s.editorHandler.ClickMarker)
	session.Post("/markers/:index/glyph", s.editorHandler.ClickGlyph)
	session.Post("/markers/:index/info", s.editorHandler.ClickInfoWindow)

	// Detail editor
	session.Get("/detail", s.editorHandler.OpenDetail)
	session.Patch("/detail", s.editorHandler.UpdateDetailDraft)
	session.Put("/detail", s.editorHandler.SaveDetail)
	session.Delete("/detail", s.editorHandler.CloseDetail)
	session.Post("/detail/description", s.editorHandler.FetchDescription)
	session.Post("/detail/image", s.editorHandler.FetchImage)

	// Trip metadata
	session.Patch("/trip", s.editorHandler.UpdateTrip)
	session.Post("/save", s.editorHandler.SaveTrip)

	s.app.Use(func(c *fiber.Ctx) error {
		return utils.SendError(c, errors.New("ROUTE_NOT_FOUND", "Route not found", fiber.StatusNotFound))
	})
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
