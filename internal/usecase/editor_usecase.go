package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/domain/repository"
	"github.com/trip-editor/internal/pkg/errors"
	"github.com/trip-editor/internal/usecase/dto"
)

// EditorUseCase - хранилище сессий редактора.
// Каждая сессия владеет своей картой; две сессии никогда не делят один экземпляр
type EditorUseCase struct {
	mu       sync.RWMutex
	sessions map[string]*EditorSession

	bindings       map[domain.ProviderName]ProviderBinding
	searchUC       *SearchUseCase
	tripRepo       repository.TripRepository
	enrichmentRepo repository.EnrichmentRepository
	detailZoom     int
	logger         *zap.Logger
}

// NewEditorUseCase - создание нового EditorUseCase
func NewEditorUseCase(
	bindings map[domain.ProviderName]ProviderBinding,
	searchUC *SearchUseCase,
	tripRepo repository.TripRepository,
	enrichmentRepo repository.EnrichmentRepository,
	detailZoom int,
	logger *zap.Logger,
) *EditorUseCase {
	if detailZoom <= 0 {
		detailZoom = domain.DefaultDetailZoom
	}
	return &EditorUseCase{
		sessions:       make(map[string]*EditorSession),
		bindings:       bindings,
		searchUC:       searchUC,
		tripRepo:       tripRepo,
		enrichmentRepo: enrichmentRepo,
		detailZoom:     detailZoom,
		logger:         logger,
	}
}

// CreateSession - открытие редактора: сохраненная поездка по uid, документ из запроса
// или пустая поездка. Флаг domestic сразу выбирает провайдера, первая размещаемая
// точка становится выбранной
func (uc *EditorUseCase) CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*dto.SessionView, error) {
	trip, itinerary, err := uc.hydrate(ctx, req)
	if err != nil {
		return nil, err
	}

	session := &EditorSession{
		id:             uuid.NewString(),
		trip:           trip,
		itinerary:      itinerary,
		selector:       NewProviderSelector(uc.bindings, uc.logger),
		searchUC:       uc.searchUC,
		tripRepo:       uc.tripRepo,
		enrichmentRepo: uc.enrichmentRepo,
		detailZoom:     uc.detailZoom,
		logger:         uc.logger,
	}
	session.touch()

	if id := strings.TrimSpace(req.ContainerID); id != "" {
		session.container = domain.MapContainer{ID: id, Attached: true}
	}
	if ref, ok := itinerary.FirstPlaceable(); ok {
		_ = itinerary.Select(ref)
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if name, ok := domain.ProviderFromDomestic(trip.Domestic); ok {
		if _, err := session.selector.Switch(name); err != nil {
			return nil, err
		}
		_ = session.selector.Preload(ctx)
	}

	uc.mu.Lock()
	uc.sessions[session.id] = session
	uc.mu.Unlock()

	uc.logger.Info("Editor session created",
		zap.String("session_id", session.id),
		zap.String("trip_uid", trip.UID),
		zap.String("provider", string(session.selector.State())),
		zap.Int("days", itinerary.DayCount()),
	)

	return session.done(ctx), nil
}

func (uc *EditorUseCase) hydrate(ctx context.Context, req dto.CreateSessionRequest) (*domain.Trip, *domain.Itinerary, error) {
	var (
		trip      *domain.Trip
		itinerary *domain.Itinerary
	)

	switch {
	case strings.TrimSpace(req.TripUID) != "":
		doc, err := uc.tripRepo.GetByUID(ctx, strings.TrimSpace(req.TripUID))
		if err != nil {
			if !errors.Is(err, errors.ErrTripNotFound) {
				uc.logger.Error("Failed to load trip", zap.String("trip_uid", req.TripUID), zap.Error(err))
			}
			return nil, nil, err
		}
		trip = doc.Trip.Clone()
		itinerary = DecodeItinerary(doc.Detail)
	case req.Trip != nil:
		trip = &domain.Trip{
			UID:      req.Trip.UID,
			Designer: req.Trip.Designer,
			TripName: req.Trip.TripName,
			Country:  req.Trip.Country,
			City:     req.Trip.City,
			Tags:     req.Trip.Tags,
		}
		if req.Trip.Domestic != nil {
			trip.SetDomestic(*req.Trip.Domestic)
		}
		itinerary = DecodeItinerary(req.Trip.Detail)
	default:
		trip = domain.NewEmptyTrip(req.UserName, nil)
		itinerary = domain.NewItinerary()
	}

	if trip.Designer == "" {
		trip.Designer = req.UserName
	}
	if trip.Domestic == nil && req.Domestic != nil {
		trip.SetDomestic(*req.Domestic)
	}
	return trip, itinerary, nil
}

// Session возвращает сессию и отмечает обращение
func (uc *EditorUseCase) Session(id string) (*EditorSession, error) {
	uc.mu.RLock()
	session, ok := uc.sessions[id]
	uc.mu.RUnlock()
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	session.touch()
	return session, nil
}

// CloseSession - размонтирование редактора: карта уничтожается, сессия удаляется
func (uc *EditorUseCase) CloseSession(id string) error {
	uc.mu.Lock()
	session, ok := uc.sessions[id]
	delete(uc.sessions, id)
	uc.mu.Unlock()
	if !ok {
		return errors.ErrSessionNotFound
	}

	session.Close()
	uc.logger.Info("Editor session closed", zap.String("session_id", id))
	return nil
}

// Sweep закрывает сессии, к которым не обращались дольше ttl
func (uc *EditorUseCase) Sweep(now time.Time, ttl time.Duration) int {
	uc.mu.Lock()
	var expired []*EditorSession
	for id, session := range uc.sessions {
		if now.Sub(session.LastAccess()) > ttl {
			expired = append(expired, session)
			delete(uc.sessions, id)
		}
	}
	uc.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}
	if len(expired) > 0 {
		uc.logger.Info("Expired editor sessions closed", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Count - число открытых сессий
func (uc *EditorUseCase) Count() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.sessions)
}

// CloseAll закрывает все сессии при остановке сервиса
func (uc *EditorUseCase) CloseAll() {
	uc.mu.Lock()
	sessions := uc.sessions
	uc.sessions = make(map[string]*EditorSession)
	uc.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}
