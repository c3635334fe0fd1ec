package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HealthChecker - зависимость, которую проверяет health check
type HealthChecker interface {
	Health(ctx context.Context) error
}

// SessionCounter - источник числа открытых сессий
type SessionCounter interface {
	Count() int
}

// HealthHandler - проверка доступности сервиса и его зависимостей
type HealthHandler struct {
	checks   map[string]HealthChecker
	sessions SessionCounter
	logger   *zap.Logger
}

// NewHealthHandler - создание нового HealthHandler
func NewHealthHandler(checks map[string]HealthChecker, sessions SessionCounter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checks:   checks,
		sessions: sessions,
		logger:   logger,
	}
}

// Health godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := fiber.StatusOK
	deps := make(fiber.Map, len(h.checks))
	for name, check := range h.checks {
		if err := check.Health(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			deps[name] = "unavailable"
			status = "degraded"
			code = fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	sessions := 0
	if h.sessions != nil {
		sessions = h.sessions.Count()
	}

	return c.Status(code).JSON(fiber.Map{
		"status":       status,
		"time":         time.Now(),
		"dependencies": deps,
		"sessions":     sessions,
	})
}
