package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/pkg/errors"
	"github.com/trip-editor/internal/pkg/utils"
	"github.com/trip-editor/internal/pkg/validator"
	"github.com/trip-editor/internal/usecase"
	"github.com/trip-editor/internal/usecase/dto"
)

// EditorHandler - обработчик операций сессии редактора поездки
type EditorHandler struct {
	editorUC *usecase.EditorUseCase
	logger   *zap.Logger
}

// NewEditorHandler - создание нового EditorHandler
func NewEditorHandler(editorUC *usecase.EditorUseCase, logger *zap.Logger) *EditorHandler {
	return &EditorHandler{
		editorUC: editorUC,
		logger:   logger,
	}
}

type sessionAction func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error)

// withSession находит сессию по :id и выполняет над ней действие
func (h *EditorHandler) withSession(c *fiber.Ctx, action sessionAction) error {
	session, err := h.editorUC.Session(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	view, err := action(c.Context(), session)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, view, nil)
}

// parseBody - разбор и валидация тела запроса
func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errors.ErrInvalidRequest.WithMessage("Invalid request body")
	}
	return validator.Validate(req)
}

// indexParam - неотрицательный целочисленный параметр пути
func indexParam(c *fiber.Ctx, name string, notFound *errors.AppError) (int, error) {
	v, err := c.ParamsInt(name)
	if err != nil || v < 0 {
		return 0, notFound.WithDetails(map[string]interface{}{name: c.Params(name)})
	}
	return v, nil
}

func pointParams(c *fiber.Ctx) (int, int, error) {
	day, err := indexParam(c, "day", errors.ErrInvalidDayIndex)
	if err != nil {
		return 0, 0, err
	}
	point, err := indexParam(c, "point", errors.ErrInvalidPointIndex)
	if err != nil {
		return 0, 0, err
	}
	return day, point, nil
}

// CreateSession godoc
// @Summary Открыть редактор поездки
// @Description Создает сессию редактора: из сохраненной поездки (trip_uid), из переданного документа или пустую. Провайдер карт выбирается по признаку domestic.
// @Tags Editor
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionRequest false "Параметры сессии"
// @Success 201 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions [post]
func (h *EditorHandler) CreateSession(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return utils.SendError(c, err)
		}
	}

	view, err := h.editorUC.CreateSession(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, view)
}

// GetSession godoc
// @Summary Состояние сессии
// @Tags Editor
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id} [get]
func (h *EditorHandler) GetSession(c *fiber.Ctx) error {
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.View(ctx)
	})
}

// CloseSession godoc
// @Summary Закрыть редактор
// @Description Размонтирует карту и удаляет сессию
// @Tags Editor
// @Param id path string true "ID сессии"
// @Success 204 "No Content"
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id} [delete]
func (h *EditorHandler) CloseSession(c *fiber.Ctx) error {
	if err := h.editorUC.CloseSession(c.Params("id")); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AttachContainer godoc
// @Summary Привязать контейнер карты
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.AttachContainerRequest true "Контейнер"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/container [put]
func (h *EditorHandler) AttachContainer(c *fiber.Ctx) error {
	var req dto.AttachContainerRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.AttachContainer(ctx, req.ContainerID)
	})
}

// SelectProvider godoc
// @Summary Выбрать провайдера карт
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SelectProviderRequest true "gaode или google"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/provider [put]
func (h *EditorHandler) SelectProvider(c *fiber.Ctx) error {
	var req dto.SelectProviderRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	name, _ := domain.ParseProvider(req.Provider)
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.SelectProvider(ctx, name)
	})
}

// ToggleProvider godoc
// @Summary Переключить провайдера карт
// @Tags Editor
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/provider/toggle [post]
func (h *EditorHandler) ToggleProvider(c *fiber.Ctx) error {
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.ToggleProvider(ctx)
	})
}

// AddDay godoc
// @Summary Добавить день
// @Tags Itinerary
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Router /api/v1/editor/sessions/{id}/days [post]
func (h *EditorHandler) AddDay(c *fiber.Ctx) error {
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.AddDay(ctx)
	})
}

// RemoveDay godoc
// @Summary Удалить день
// @Tags Itinerary
// @Produce json
// @Param id path string true "ID сессии"
// @Param day path int true "Индекс дня"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/days/{day} [delete]
func (h *EditorHandler) RemoveDay(c *fiber.Ctx) error {
	day, err := indexParam(c, "day", errors.ErrInvalidDayIndex)
	if err != nil {
		return utils.SendError(c, err)
	}
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.RemoveDay(ctx, day)
	})
}

// ToggleDay godoc
// @Summary Развернуть или свернуть день
// @Tags Itinerary
// @Produce json
// @Param id path string true "ID сессии"
// @Param day path int true "Индекс дня"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/days/{day}/expand [post]
func (h *EditorHandler) ToggleDay(c *fiber.Ctx) error {
	day, err := indexParam(c, "day", errors.ErrInvalidDayIndex)
	if err != nil {
		return utils.SendError(c, err)
	}
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.ToggleDay(ctx, day)
	})
}

// AddPoint godoc
// @Summary Добавить точку в день
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param day path int true "Индекс дня"
// @Param request body dto.AddPointRequest true "Поля точки"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/days/{day}/points [post]
func (h *EditorHandler) AddPoint(c *fiber.Ctx) error {
	day, err := indexParam(c, "day", errors.ErrInvalidDayIndex)
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.AddPointRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.AddPoint(ctx, day, req.Fields)
	})
}

// RemovePoint godoc
// @Summary Удалить точку
// @Description Удаляет точку; опустевший день удаляется вместе с ней
// @Tags Itinerary
// @Produce json
// @Param id path string true "ID сессии"
// @Param day path int true "Индекс дня"
// @Param point path int true "Индекс точки"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/days/{day}/points/{point} [delete]
func (h *EditorHandler) RemovePoint(c *fiber.Ctx) error {
	day, point, err := pointParams(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.RemovePoint(ctx, day, point)
	})
}

// UpdatePoint godoc
// @Summary Изменить поля точки
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param day path int true "Индекс дня"
// @Param point path int true "Индекс точки"
// @Param request body dto.UpdatePointRequest true "Поля"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/days/{day}/points/{point} [patch]
func (h *EditorHandler) UpdatePoint(c *fiber.Ctx) error {
	day, point, err := pointParams(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.UpdatePointRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.UpdatePoint(ctx, day, point, req.Fields)
	})
}

// SelectPoint godoc
// @Summary Выбрать точку
// @Description Выбранная точка с координатами становится маркером на карте
// @Tags Itinerary
// @Produce json
// @Param id path string true "ID сессии"
// @Param day path int true "Индекс дня"
// @Param point path int true "Индекс точки"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/days/{day}/points/{point}/select [post]
func (h *EditorHandler) SelectPoint(c *fiber.Ctx) error {
	day, point, err := pointParams(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.SelectPoint(ctx, day, point)
	})
}

// ReorderPoint godoc
// @Summary Переставить точку внутри дня
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param day path int true "Индекс дня"
// @Param request body dto.ReorderPointRequest true "Откуда и куда"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/days/{day}/points/reorder [post]
func (h *EditorHandler) ReorderPoint(c *fiber.Ctx) error {
	day, err := indexParam(c, "day", errors.ErrInvalidDayIndex)
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.ReorderPointRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.ReorderPoint(ctx, day, req.From, req.To)
	})
}

// MovePoint godoc
// @Summary Перенести точку в другой день
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param day path int true "Индекс дня"
// @Param point path int true "Индекс точки"
// @Param request body dto.MovePointRequest true "Целевой день"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/days/{day}/points/{point}/move [post]
func (h *EditorHandler) MovePoint(c *fiber.Ctx) error {
	day, point, err := pointParams(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	var req dto.MovePointRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.MovePoint(ctx, day, point, req.TargetDay)
	})
}

// Search godoc
// @Summary Поиск места
// @Description Ищет место у активного провайдера карт. Пустой запрос сбрасывает результаты
// @Tags Search
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SearchRequest true "Запрос"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/search [post]
func (h *EditorHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.Search(ctx, req.Keyword)
	})
}

// ClearSearch godoc
// @Summary Сбросить поиск
// @Tags Search
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Router /api/v1/editor/sessions/{id}/search [delete]
func (h *EditorHandler) ClearSearch(c *fiber.Ctx) error {
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.ClearSearch(ctx)
	})
}

// SelectSearchResult godoc
// @Summary Выбрать результат поиска
// @Description Результат становится кандидатом на добавление с маркером на карте
// @Tags Search
// @Produce json
// @Param id path string true "ID сессии"
// @Param index path int true "Индекс результата"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/search/results/{index}/select [post]
func (h *EditorHandler) SelectSearchResult(c *fiber.Ctx) error {
	index, err := indexParam(c, "index", errors.ErrSearchResultNotFound)
	if err != nil {
		return utils.SendError(c, err)
	}
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.SelectSearchResult(ctx, index)
	})
}

// ConfirmCandidate godoc
// @Summary Добавить кандидата в маршрут
// @Tags Search
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/candidate/confirm [post]
func (h *EditorHandler) ConfirmCandidate(c *fiber.Ctx) error {
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.ConfirmCandidate(ctx)
	})
}

// ClickMarker godoc
// @Summary Клик по маркеру
// @Tags Map
// @Produce json
// @Param id path string true "ID сессии"
// @Param index path int true "Индекс маркера"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/markers/{index}/click [post]
func (h *EditorHandler) ClickMarker(c *fiber.Ctx) error {
	return h.markerAction(c, (*usecase.EditorSession).ClickMarker)
}

// ClickGlyph godoc
// @Summary Клик по кнопке в окне маркера
// @Description Для кандидата добавляет точку, для выбранной точки удаляет ее
// @Tags Map
// @Produce json
// @Param id path string true "ID сессии"
// @Param index path int true "Индекс маркера"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/markers/{index}/glyph [post]
func (h *EditorHandler) ClickGlyph(c *fiber.Ctx) error {
	return h.markerAction(c, (*usecase.EditorSession).ClickGlyph)
}

// ClickInfoWindow godoc
// @Summary Клик по окну маркера
// @Description Открывает редактор точки
// @Tags Map
// @Produce json
// @Param id path string true "ID сессии"
// @Param index path int true "Индекс маркера"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/markers/{index}/info [post]
func (h *EditorHandler) ClickInfoWindow(c *fiber.Ctx) error {
	return h.markerAction(c, (*usecase.EditorSession).ClickInfoWindow)
}

func (h *EditorHandler) markerAction(
	c *fiber.Ctx,
	click func(*usecase.EditorSession, context.Context, int) (*dto.SessionView, error),
) error {
	index, err := indexParam(c, "index", errors.ErrMarkerNotFound)
	if err != nil {
		return utils.SendError(c, err)
	}
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return click(s, ctx, index)
	})
}

// OpenDetail godoc
// @Summary Открыть редактор точки
// @Description Без параметров открывает кандидата или выбранную точку
// @Tags Detail
// @Produce json
// @Param id path string true "ID сессии"
// @Param day query int false "Индекс дня"
// @Param point query int false "Индекс точки"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/detail [get]
func (h *EditorHandler) OpenDetail(c *fiber.Ctx) error {
	var ref *domain.PointRef
	if c.Query("day") != "" || c.Query("point") != "" {
		day := c.QueryInt("day", -1)
		point := c.QueryInt("point", -1)
		if day < 0 {
			return utils.SendError(c, errors.ErrInvalidDayIndex)
		}
		if point < 0 {
			return utils.SendError(c, errors.ErrInvalidPointIndex)
		}
		ref = &domain.PointRef{DayIndex: day, PointIndex: point}
	}
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.OpenDetail(ctx, ref)
	})
}

// UpdateDetailDraft godoc
// @Summary Изменить черновик редактора точки
// @Tags Detail
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.DetailFieldsRequest true "Поля"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/detail [patch]
func (h *EditorHandler) UpdateDetailDraft(c *fiber.Ctx) error {
	return h.detailAction(c, (*usecase.EditorSession).UpdateDetailDraft)
}

// SaveDetail godoc
// @Summary Сохранить редактор точки
// @Tags Detail
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.DetailFieldsRequest true "Поля"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/detail [put]
func (h *EditorHandler) SaveDetail(c *fiber.Ctx) error {
	return h.detailAction(c, (*usecase.EditorSession).SaveDetail)
}

// CloseDetail godoc
// @Summary Закрыть редактор точки без сохранения
// @Tags Detail
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Router /api/v1/editor/sessions/{id}/detail [delete]
func (h *EditorHandler) CloseDetail(c *fiber.Ctx) error {
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.CloseDetail(ctx)
	})
}

// FetchDescription godoc
// @Summary Сгенерировать описание места
// @Tags Detail
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.DetailFieldsRequest false "Текущие значения полей"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/detail/description [post]
func (h *EditorHandler) FetchDescription(c *fiber.Ctx) error {
	return h.detailAction(c, (*usecase.EditorSession).FetchDescription)
}

// FetchImage godoc
// @Summary Подобрать изображение места
// @Tags Detail
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.DetailFieldsRequest false "Текущие значения полей"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/detail/image [post]
func (h *EditorHandler) FetchImage(c *fiber.Ctx) error {
	return h.detailAction(c, (*usecase.EditorSession).FetchImage)
}

func (h *EditorHandler) detailAction(
	c *fiber.Ctx,
	action func(*usecase.EditorSession, context.Context, map[string]string) (*dto.SessionView, error),
) error {
	var req dto.DetailFieldsRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return utils.SendError(c, err)
		}
	}
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return action(s, ctx, req.Fields)
	})
}

// UpdateTrip godoc
// @Summary Изменить метаданные поездки
// @Tags Trip
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.UpdateTripRequest true "Метаданные"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/trip [patch]
func (h *EditorHandler) UpdateTrip(c *fiber.Ctx) error {
	var req dto.UpdateTripRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		return s.UpdateTrip(ctx, req)
	})
}

// SaveTrip godoc
// @Summary Сохранить поездку
// @Description Сохраняет документ поездки; без имени поездки возвращает TRIP_NAME_REQUIRED
// @Tags Trip
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SaveTripRequest false "Имя поездки из диалога"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionView}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/editor/sessions/{id}/save [post]
func (h *EditorHandler) SaveTrip(c *fiber.Ctx) error {
	var req dto.SaveTripRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return utils.SendError(c, err)
		}
	}
	return h.withSession(c, func(ctx context.Context, s *usecase.EditorSession) (*dto.SessionView, error) {
		view, err := s.Save(ctx, req.TripName)
		if err != nil {
			h.logger.Warn("Trip save rejected",
				zap.String("session_id", s.ID()),
				zap.Error(err))
		}
		return view, err
	})
}
