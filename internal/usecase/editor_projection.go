package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/pkg/errors"
	"github.com/trip-editor/internal/usecase/dto"
)

// focusPoint - единственная точка, показываемая на карте
type focusPoint struct {
	poi      *domain.POI
	action   domain.ActionType
	position domain.Coordinate
}

// focus: кандидат из поиска важнее выбранной точки маршрута
func (s *EditorSession) focus() (focusPoint, bool) {
	if s.candidate != nil {
		if pos, ok := s.candidate.Placement(); ok {
			return focusPoint{poi: s.candidate, action: domain.ActionAdd, position: pos}, true
		}
	}
	if poi, ok := s.itinerary.SelectedPOI(); ok {
		if pos, ok := poi.Placement(); ok {
			return focusPoint{poi: poi, action: domain.ActionDelete, position: pos}, true
		}
	}
	return focusPoint{}, false
}

// initialCenter: точка фокуса, центр охвата маршрута, центр по умолчанию
func (s *EditorSession) initialCenter() domain.Coordinate {
	if f, ok := s.focus(); ok {
		return f.position
	}
	if bound, ok := s.itinerary.Bounds(); ok {
		return domain.CoordinateFromPoint(bound.Center())
	}
	return domain.DefaultCenter
}

func (s *EditorSession) resetProjection() {
	s.mapErr = nil
	s.markerKey = ""
	s.focusKey = ""
}

// render проецирует состояние сессии на живую карту: не более одного маркера,
// центрирование при смене фокуса. Вызывается под блокировкой
func (s *EditorSession) render(ctx context.Context) {
	if s.closed {
		return
	}
	s.reconcileDetail()

	if _, ok := s.selector.Active(); !ok || !s.container.Attached {
		return
	}

	opts := domain.MapOptions{Center: s.initialCenter(), Zoom: domain.DefaultZoom}
	m, created, err := s.selector.EnsureMap(ctx, s.container, opts)
	if err != nil {
		s.mapErr = err
		s.logger.Debug("Map is not available",
			zap.String("session_id", s.id),
			zap.Error(err),
		)
		return
	}
	s.mapErr = nil
	if created {
		s.markerKey = ""
		s.focusKey = ""
	}

	provider := s.selector.Provider()
	f, hasFocus := s.focus()

	markers := []domain.Marker{}
	markerKey := ""
	if hasFocus {
		markers = append(markers, s.buildMarker(f))
		markerKey = fmt.Sprintf("%s|%s|%v|%s|%s|%s",
			f.poi.ID, f.action, f.position, f.poi.Title(), f.poi.Description(), f.poi.ImageURL())
	}
	if created || markerKey != s.markerKey {
		provider.UpsertMarkers(m, markers)
		s.markerKey = markerKey
	}

	focusKey := ""
	if hasFocus {
		focusKey = fmt.Sprintf("%s|%v", f.poi.ID, f.position)
		if focusKey != s.focusKey {
			provider.SetCenterZoom(m, f.position, s.detailZoom)
		}
	}
	s.focusKey = focusKey
}

func (s *EditorSession) buildMarker(f focusPoint) domain.Marker {
	id := f.poi.ID
	marker := domain.Marker{
		Position:    f.position,
		Title:       f.poi.Title(),
		Description: f.poi.Description(),
		ImageURL:    f.poi.ImageURL(),
		ActionType:  f.action,
		OnInfoWindowClick: func() {
			s.actionErr = s.openDetailByID(id)
		},
	}
	if f.action == domain.ActionAdd {
		marker.OnAction = func() {
			s.actionErr = s.confirmCandidate()
		}
	} else {
		marker.OnAction = func() {
			s.actionErr = s.removePointByID(id)
		}
	}
	return marker
}

// ClickMarker - клик по телу маркера: его окно открывается, остальные закрываются
func (s *EditorSession) ClickMarker(ctx context.Context, index int) (*dto.SessionView, error) {
	return s.clickOn(ctx, index, domain.MapInstance.ClickMarker)
}

// ClickGlyph - клик по глифу: "+" добавляет кандидата, "×" удаляет точку
func (s *EditorSession) ClickGlyph(ctx context.Context, index int) (*dto.SessionView, error) {
	return s.clickOn(ctx, index, domain.MapInstance.ClickGlyph)
}

// ClickInfoWindow - клик по окну маркера: открывает редактор точки
func (s *EditorSession) ClickInfoWindow(ctx context.Context, index int) (*dto.SessionView, error) {
	return s.clickOn(ctx, index, domain.MapInstance.ClickInfoWindow)
}

func (s *EditorSession) clickOn(ctx context.Context, index int, click func(domain.MapInstance, int) error) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	m := s.selector.Map()
	if m == nil {
		return nil, errors.ErrMapNotReady
	}

	s.actionErr = nil
	if err := click(m, index); err != nil {
		return nil, err
	}
	if err := s.actionErr; err != nil {
		s.actionErr = nil
		return nil, err
	}
	return s.done(ctx), nil
}

// view - снимок для клиента. Вызывается под блокировкой
func (s *EditorSession) view() *dto.SessionView {
	view := &dto.SessionView{
		ID:         s.id,
		Trip:       *s.trip.Clone(),
		Provider:   s.providerView(),
		Days:       s.dayViews(),
		PointCount: s.itinerary.PointCount(),
		Search:     s.searchView(),
		Detail:     s.detailView(),
		Saving:     s.saving,
	}

	if ref, ok := s.itinerary.Selection(); ok {
		view.Selection = &ref
	}
	if s.candidate != nil {
		c := &dto.CandidateView{
			ID:     s.candidate.ID,
			Title:  s.candidate.Title(),
			Fields: s.candidate.Clone().Fields,
		}
		if pos, ok := s.candidate.Placement(); ok {
			c.Position = pos
		}
		view.Candidate = c
	}
	if m := s.selector.Map(); m != nil {
		mv := m.View()
		view.Map = &mv
	}
	if s.mapErr != nil {
		view.MapError = errorMessage(s.mapErr)
	}
	return view
}

func (s *EditorSession) providerView() dto.ProviderView {
	pv := dto.ProviderView{State: string(s.selector.State())}
	if name, ok := s.selector.Active(); ok {
		pv.Active = name
	}
	pv.Handle = s.selector.Handle()
	if err := s.selector.LoadError(); err != nil {
		pv.LoadError = errorMessage(err)
	}
	return pv
}

func (s *EditorSession) dayViews() []dto.DayView {
	expanded, hasExpanded := s.itinerary.Expanded()
	selected, hasSelected := s.itinerary.Selection()

	days := s.itinerary.Days()
	out := make([]dto.DayView, 0, len(days))
	for d, day := range days {
		dv := dto.DayView{
			Index:    d,
			Label:    domain.DayLabel(d),
			Expanded: hasExpanded && expanded == d,
			Points:   make([]dto.PointView, 0, len(day)),
		}
		for p, poi := range day {
			pv := dto.PointView{
				Index:     p,
				ID:        poi.ID,
				Label:     domain.PointLabel(poi, p),
				Placeable: poi.Placeable(),
				Selected:  hasSelected && selected.DayIndex == d && selected.PointIndex == p,
				Fields:    poi.Clone().Fields,
			}
			if pos, ok := poi.Placement(); ok {
				pv.Position = &pos
			}
			dv.Points = append(dv.Points, pv)
		}
		out = append(out, dv)
	}
	return out
}

func (s *EditorSession) searchView() dto.SearchView {
	sv := dto.SearchView{
		Keyword:          s.search.keyword,
		Searching:        s.search.searching,
		HasSearchAttempt: s.search.hasSearchAttempt,
		Results:          append([]domain.SearchResult{}, s.search.results...),
	}
	switch {
	case s.selector.Provider() == nil:
		sv.Status = "disabled"
	case s.search.searching:
		sv.Status = "searching"
	case len(s.search.results) > 0:
		sv.Status = "results"
	case s.search.hasSearchAttempt:
		sv.Status = "no_results"
	default:
		sv.Status = "idle"
	}
	return sv
}

// errorMessage - локализованное сообщение для клиента
func errorMessage(err error) string {
	if appErr, ok := errors.As(err); ok {
		return appErr.Message
	}
	return err.Error()
}
