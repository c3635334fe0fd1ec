package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/trip-editor/internal/pkg/utils"
	"github.com/trip-editor/internal/usecase"
)

// TripHandler - чтение сохраненных поездок
type TripHandler struct {
	tripUC *usecase.TripUseCase
	logger *zap.Logger
}

// NewTripHandler - создание нового TripHandler
func NewTripHandler(tripUC *usecase.TripUseCase, logger *zap.Logger) *TripHandler {
	return &TripHandler{
		tripUC: tripUC,
		logger: logger,
	}
}

// GetTrip godoc
// @Summary Документ поездки
// @Description Возвращает сохраненную поездку с маршрутом по дням (detail)
// @Tags Trip
// @Produce json
// @Param uid path string true "UID поездки"
// @Success 200 {object} utils.SuccessResponse{data=dto.TripResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trips/{uid} [get]
func (h *TripHandler) GetTrip(c *fiber.Ctx) error {
	trip, err := h.tripUC.GetTrip(c.Context(), c.Params("uid"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, trip, nil)
}
