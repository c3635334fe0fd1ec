package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/domain/repository"
	"github.com/trip-editor/internal/pkg/errors"
	"github.com/trip-editor/internal/usecase/dto"
)

// searchState - состояние поиска; seq отсекает устаревшие ответы
type searchState struct {
	keyword          string
	results          []domain.SearchResult
	searching        bool
	hasSearchAttempt bool
	seq              uint64
}

// EditorSession - одна открытая вкладка редактора: поездка, маршрут,
// выбор провайдера, живая карта, поиск и редактор точки.
// Все операции сессии выполняются под ее мьютексом; сетевые вызовы поиска,
// обогащения и сохранения идут без блокировки
type EditorSession struct {
	mu sync.Mutex

	id        string
	trip      *domain.Trip
	itinerary *domain.Itinerary
	selector  *ProviderSelector
	container domain.MapContainer
	candidate *domain.POI
	search    searchState
	detail    *detailState
	saving    bool
	closed    bool

	// состояние проекции на карту
	mapErr    error
	markerKey string
	focusKey  string
	actionErr error

	lastAccess atomic.Int64

	searchUC       *SearchUseCase
	tripRepo       repository.TripRepository
	enrichmentRepo repository.EnrichmentRepository
	detailZoom     int
	logger         *zap.Logger
}

// ID - идентификатор сессии
func (s *EditorSession) ID() string {
	return s.id
}

// LastAccess - время последнего обращения
func (s *EditorSession) LastAccess() time.Time {
	return time.Unix(0, s.lastAccess.Load())
}

func (s *EditorSession) touch() {
	s.lastAccess.Store(time.Now().UnixNano())
}

func (s *EditorSession) lock() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.ErrSessionNotFound
	}
	return nil
}

// done - отрисовка и снимок после операции; вызывается под блокировкой
func (s *EditorSession) done(ctx context.Context) *dto.SessionView {
	s.render(ctx)
	return s.view()
}

// View - снимок сессии. Карта создается здесь, если провайдер выбран и контейнер смонтирован
func (s *EditorSession) View(ctx context.Context) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return s.done(ctx), nil
}

// AttachContainer монтирует карту в элемент страницы. Смена элемента пересоздает карту
func (s *EditorSession) AttachContainer(ctx context.Context, containerID string) (*dto.SessionView, error) {
	containerID = strings.TrimSpace(containerID)
	if containerID == "" {
		return nil, errors.ErrInvalidContainer
	}
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if s.container.Attached && s.container.ID != containerID {
		s.selector.Unmount()
	}
	s.container = domain.MapContainer{ID: containerID, Attached: true}
	return s.done(ctx), nil
}

// SelectProvider - явный выбор провайдера. При смене: карта уничтожается,
// поиск сбрасывается, флаг domestic поездки обновляется, SDK нового провайдера
// загружается, а карта строится при следующей отрисовке
func (s *EditorSession) SelectProvider(ctx context.Context, name domain.ProviderName) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	changed, err := s.selector.Switch(name)
	if err != nil {
		return nil, err
	}
	if changed {
		s.afterSwitch(ctx, name)
	}
	return s.done(ctx), nil
}

// ToggleProvider переключает Domestic <-> International
func (s *EditorSession) ToggleProvider(ctx context.Context) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	next, err := s.selector.Toggle()
	if err != nil {
		return nil, err
	}
	s.afterSwitch(ctx, next)
	return s.done(ctx), nil
}

func (s *EditorSession) afterSwitch(ctx context.Context, name domain.ProviderName) {
	s.resetProjection()
	s.resetSearch()
	s.trip.SetDomestic(name.DomesticFlag())
	// ошибка загрузки сохраняется в селекторе и показывается в снимке
	_ = s.selector.Preload(ctx)
}

// AddDay добавляет день и раскрывает его
func (s *EditorSession) AddDay(ctx context.Context) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	s.itinerary.AddDay()
	s.itinerary.ClearSelection()
	s.candidate = nil
	return s.done(ctx), nil
}

// RemoveDay удаляет день со всеми точками
func (s *EditorSession) RemoveDay(ctx context.Context, dayIndex int) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if err := s.itinerary.RemoveDay(dayIndex); err != nil {
		return nil, err
	}
	return s.done(ctx), nil
}

// ToggleDay раскрывает или сворачивает день
func (s *EditorSession) ToggleDay(ctx context.Context, dayIndex int) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if err := s.itinerary.ToggleDay(dayIndex); err != nil {
		return nil, err
	}
	return s.done(ctx), nil
}

// AddPoint добавляет точку в конец дня
func (s *EditorSession) AddPoint(ctx context.Context, dayIndex int, fields map[string]interface{}) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if _, err := s.itinerary.AddPoint(dayIndex, fields); err != nil {
		return nil, err
	}
	return s.done(ctx), nil
}

// RemovePoint удаляет точку, сбрасывает выбор и кандидата
func (s *EditorSession) RemovePoint(ctx context.Context, dayIndex, pointIndex int) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if err := s.itinerary.RemovePoint(dayIndex, pointIndex); err != nil {
		return nil, err
	}
	s.candidate = nil
	return s.done(ctx), nil
}

// SelectPoint выбирает точку маршрута: маркер удаления и центрирование на ней.
// Точка без координаты выбирается без маркера
func (s *EditorSession) SelectPoint(ctx context.Context, dayIndex, pointIndex int) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if err := s.itinerary.Select(domain.PointRef{DayIndex: dayIndex, PointIndex: pointIndex}); err != nil {
		return nil, err
	}
	s.candidate = nil
	if poi, ok := s.itinerary.SelectedPOI(); ok && !poi.Placeable() {
		s.logger.Debug("Selected point has no coordinate",
			zap.String("session_id", s.id),
			zap.String("point_id", poi.ID),
		)
	}
	return s.done(ctx), nil
}

// ReorderPoint перемещает точку внутри дня
func (s *EditorSession) ReorderPoint(ctx context.Context, dayIndex, fromIndex, toIndex int) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if err := s.itinerary.ReorderPoint(dayIndex, fromIndex, toIndex); err != nil {
		return nil, err
	}
	return s.done(ctx), nil
}

// MovePoint переносит точку в конец другого дня. Размещаемая точка становится выбранной
func (s *EditorSession) MovePoint(ctx context.Context, dayIndex, pointIndex, targetDayIndex int) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	ref, err := s.itinerary.MovePointAcrossDays(dayIndex, pointIndex, targetDayIndex)
	if err != nil {
		return nil, err
	}
	if targetDayIndex == dayIndex {
		return s.done(ctx), nil
	}
	if poi, err := s.itinerary.Point(ref); err == nil && poi.Placeable() {
		_ = s.itinerary.Select(ref)
		s.candidate = nil
	}
	return s.done(ctx), nil
}

// UpdatePoint сливает частичное обновление полей точки
func (s *EditorSession) UpdatePoint(ctx context.Context, dayIndex, pointIndex int, fields map[string]interface{}) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if err := s.itinerary.UpdateFields(dayIndex, pointIndex, fields); err != nil {
		return nil, err
	}
	return s.done(ctx), nil
}

// Search - поиск у активного провайдера. Результат принимается, только если
// за время запроса не было нового поиска, сброса или смены провайдера
func (s *EditorSession) Search(ctx context.Context, keyword string) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(keyword)
	if trimmed == "" {
		s.resetSearch()
		s.search.keyword = keyword
		view := s.done(ctx)
		s.mu.Unlock()
		return view, nil
	}

	provider := s.selector.Provider()
	if provider == nil {
		s.resetSearch()
		s.search.keyword = keyword
		s.mu.Unlock()
		return nil, errors.ErrProviderNotSelected
	}

	s.search.seq++
	seq := s.search.seq
	generation := s.selector.Generation()
	s.search.keyword = keyword
	s.search.results = nil
	s.search.searching = true
	s.search.hasSearchAttempt = true
	s.mu.Unlock()

	results := s.searchUC.Search(ctx, provider, trimmed)

	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if seq != s.search.seq || generation != s.selector.Generation() {
		s.logger.Debug("Discarding stale search results",
			zap.String("session_id", s.id),
			zap.String("keyword", trimmed),
		)
		return s.done(ctx), nil
	}
	s.search.results = results
	s.search.searching = false
	return s.done(ctx), nil
}

// ClearSearch сбрасывает слово, выдачу и флаг поиска; маршрут не меняется
func (s *EditorSession) ClearSearch(ctx context.Context) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	s.resetSearch()
	return s.done(ctx), nil
}

// SelectSearchResult делает результат поиска кандидатом с маркером добавления.
// В маршрут он попадает только после подтверждения глифом "+"
func (s *EditorSession) SelectSearchResult(ctx context.Context, index int) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.search.results) {
		return nil, errors.ErrSearchResultNotFound.WithDetails(map[string]interface{}{
			"index":   index,
			"results": len(s.search.results),
		})
	}

	result := s.search.results[index]
	s.candidate = candidateFromResult(result)
	s.itinerary.ClearSelection()

	s.search.seq++
	s.search.results = nil
	s.search.searching = false
	s.search.hasSearchAttempt = false
	return s.done(ctx), nil
}

// ConfirmCandidate добавляет кандидата в раскрытый день (или в первый)
func (s *EditorSession) ConfirmCandidate(ctx context.Context) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if err := s.confirmCandidate(); err != nil {
		return nil, err
	}
	return s.done(ctx), nil
}

func (s *EditorSession) confirmCandidate() error {
	poi := s.candidate
	if poi == nil {
		return errors.ErrNoActivePoint
	}
	if poi.Title() == "" {
		poi.Merge(map[string]interface{}{domain.FieldSceneName: domain.UntitledPlace})
	}

	target := 0
	if expanded, ok := s.itinerary.Expanded(); ok {
		target = expanded
	}
	if target >= s.itinerary.DayCount() {
		target = 0
	}

	ref, err := s.itinerary.Insert(target, poi)
	if err != nil {
		return err
	}
	_ = s.itinerary.SetExpanded(ref.DayIndex)
	_ = s.itinerary.Select(ref)
	s.candidate = nil
	s.resetSearch()

	s.logger.Info("Search candidate added to itinerary",
		zap.String("session_id", s.id),
		zap.Int("day_index", ref.DayIndex),
		zap.Int("point_index", ref.PointIndex),
	)
	return nil
}

// removePointByID - действие глифа "×" у выбранной точки
func (s *EditorSession) removePointByID(id string) error {
	ref, ok := s.itinerary.Locate(id)
	if !ok {
		return errors.ErrNoActivePoint
	}
	if err := s.itinerary.RemovePoint(ref.DayIndex, ref.PointIndex); err != nil {
		return err
	}
	s.candidate = nil
	return nil
}

// UpdateTrip меняет метаданные поездки
func (s *EditorSession) UpdateTrip(ctx context.Context, req dto.UpdateTripRequest) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if req.TripName != nil {
		s.trip.TripName = *req.TripName
	}
	if req.Country != nil {
		s.trip.Country = *req.Country
	}
	if req.City != nil {
		s.trip.City = *req.City
	}
	if req.Tags != nil {
		s.trip.Tags = *req.Tags
	}
	return s.done(ctx), nil
}

// Save сохраняет поездку. Без имени сохранение не начинается; повторный вызов
// во время сохранения отклоняется; при ошибке состояние в памяти не меняется
func (s *EditorSession) Save(ctx context.Context, tripName *string) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}

	if s.saving {
		s.mu.Unlock()
		return nil, errors.ErrSaveInProgress
	}

	name := s.trip.NormalizedName()
	if tripName != nil {
		name = strings.TrimSpace(*tripName)
	}
	if name == "" {
		s.mu.Unlock()
		return nil, errors.ErrTripNameRequired
	}

	doc := &repository.TripDocument{
		Trip:   *s.trip.Clone(),
		Detail: EncodeDetail(s.itinerary),
	}
	doc.TripName = name
	s.saving = true
	s.mu.Unlock()

	uid, err := s.tripRepo.Save(ctx, doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false

	if err != nil {
		s.logger.Error("Failed to save trip",
			zap.String("session_id", s.id),
			zap.String("trip_uid", doc.UID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", errors.ErrSaveFailed, err)
	}

	s.trip.UID = uid
	s.trip.TripName = name
	s.logger.Info("Trip saved",
		zap.String("session_id", s.id),
		zap.String("trip_uid", uid),
		zap.Int("days", s.itinerary.DayCount()),
		zap.Int("points", s.itinerary.PointCount()),
	)
	return s.done(ctx), nil
}

// Close - размонтирование редактора: карта уничтожается, сессия больше не принимает операций
func (s *EditorSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.selector.Unmount()
	s.detail = nil
	s.search.seq++
	s.closed = true
}

func (s *EditorSession) resetSearch() {
	s.search.seq++
	s.search.keyword = ""
	s.search.results = nil
	s.search.searching = false
	s.search.hasSearchAttempt = false
}

func candidateFromResult(result domain.SearchResult) *domain.POI {
	return domain.NewPOI(map[string]interface{}{
		domain.FieldSceneName:   result.Name,
		domain.FieldDescription: result.Address,
		domain.FieldLongitude:   result.Location.Lng,
		domain.FieldLatitude:    result.Location.Lat,
		domain.FieldPicURL:      "",
		domain.FieldCategory:    0,
		domain.FieldDone:        false,
		domain.FieldPointOrNot:  true,
	})
}
