package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/places-service/internal/pkg/utils"
	"github.com/places-service/internal/usecase/dto"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// HealthChecker - зависимость, которую можно проверить пингом
type HealthChecker interface {
	Health(ctx context.Context) error
}

// PlaceCounter - размер индекса мест
type PlaceCounter interface {
	Count(ctx context.Context) (int64, error)
}

// HealthHandler - состояние сервиса и его зависимостей
type HealthHandler struct {
	db     HealthChecker
	cache  HealthChecker
	places PlaceCounter
	logger *zap.Logger
}

func NewHealthHandler(db, cache HealthChecker, places PlaceCounter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		cache:  cache,
		places: places,
		logger: logger,
	}
}

// Health godoc
// @Summary Health check
// @Description База обязательна (503 без неё), кеш - нет
// @Tags health
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.HealthResponse}
// @Failure 503 {object} utils.SuccessResponse{data=dto.HealthResponse}
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	resp := dto.HealthResponse{
		Status:   "healthy",
		Database: "up",
		Cache:    "up",
	}

	if err := h.db.Health(ctx); err != nil {
		h.logger.Error("Database health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "down"
	} else if count, err := h.places.Count(ctx); err == nil {
		resp.PlaceCount = count
	}

	if err := h.cache.Health(ctx); err != nil {
		h.logger.Warn("Cache health check failed", zap.Error(err))
		if resp.Status == "healthy" {
			resp.Status = "degraded"
		}
		resp.Cache = "down"
	}

	if resp.Database == "down" {
		c.Status(fiber.StatusServiceUnavailable)
	}
	return utils.SendSuccess(c, resp, nil)
}
