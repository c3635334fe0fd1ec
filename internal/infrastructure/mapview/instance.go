package mapview

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/pkg/errors"
	"github.com/trip-editor/internal/pkg/geo"
)

// MarkerStyle - оформление маркеров, различающееся у провайдеров
type MarkerStyle struct {
	Kind            domain.MarkerKind
	ShowCloseButton bool
}

type overlay struct {
	view   domain.MarkerView
	marker domain.Marker
}

// Instance - экземпляр карты с оверлеями: маркеры и их информационные окна.
// Общая часть обоих адаптеров, провайдеры отличаются только MarkerStyle.
// Колбэки маркеров вызываются после освобождения внутренней блокировки.
type Instance struct {
	mu        sync.Mutex
	id        string
	provider  domain.ProviderName
	container string
	center    domain.Coordinate
	zoom      int
	overlays  []overlay
	destroyed bool
	logger    *zap.Logger
}

// New - создание экземпляра карты
func New(provider domain.ProviderName, container domain.MapContainer, opts domain.MapOptions, logger *zap.Logger) *Instance {
	return &Instance{
		id:        uuid.NewString(),
		provider:  provider,
		container: container.ID,
		center:    opts.Center,
		zoom:      opts.Zoom,
		logger:    logger,
	}
}

func (m *Instance) ID() string { return m.id }

func (m *Instance) Provider() domain.ProviderName { return m.provider }

// View - снимок состояния
func (m *Instance) View() domain.MapView {
	m.mu.Lock()
	defer m.mu.Unlock()

	markers := make([]domain.MarkerView, len(m.overlays))
	for i, o := range m.overlays {
		markers[i] = o.view
	}
	return domain.MapView{
		ID:          m.id,
		Provider:    m.provider,
		ContainerID: m.container,
		Center:      m.center,
		Zoom:        m.zoom,
		Markers:     markers,
		Destroyed:   m.destroyed,
	}
}

func (m *Instance) Destroyed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destroyed
}

// SetCenterZoom ничего не делает после Destroy
func (m *Instance) SetCenterZoom(center domain.Coordinate, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return
	}
	m.center = center
	m.zoom = zoom
}

// SetZoom ничего не делает после Destroy
func (m *Instance) SetZoom(zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return
	}
	m.zoom = zoom
}

// ReplaceMarkers снимает старые маркеры и окна и ставит новые.
// Окно каждого нового маркера открывается при создании, поэтому открытым
// остается окно последнего
func (m *Instance) ReplaceMarkers(markers []domain.Marker, style MarkerStyle) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return 0
	}

	m.overlays = nil
	for _, marker := range markers {
		if !validPosition(marker.Position) {
			m.logger.Debug("Skipping marker without finite position",
				zap.String("map_id", m.id),
				zap.String("title", marker.Title),
			)
			continue
		}
		m.closeAll()
		m.overlays = append(m.overlays, overlay{
			marker: marker,
			view: domain.MarkerView{
				Index:           len(m.overlays),
				Position:        marker.Position,
				Title:           marker.Title,
				Kind:            style.Kind,
				InfoWindow:      domain.BuildInfoWindowContent(marker),
				InfoWindowOpen:  true,
				ShowCloseButton: style.ShowCloseButton,
			},
		})
	}
	return len(m.overlays)
}

// Destroy снимает оверлеи. Возвращает false, если экземпляр уже уничтожен
func (m *Instance) Destroy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return false
	}
	m.overlays = nil
	m.destroyed = true
	return true
}

// ClickMarker открывает окно маркера, закрывая остальные
func (m *Instance) ClickMarker(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.overlayAt(index); err != nil {
		return err
	}
	m.closeAll()
	m.overlays[index].view.InfoWindowOpen = true
	return nil
}

// ClickGlyph вызывает действие маркера (+ или ×)
func (m *Instance) ClickGlyph(index int) error {
	m.mu.Lock()
	o, err := m.overlayAt(index)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	if o.marker.OnAction != nil {
		o.marker.OnAction()
	}
	return nil
}

// ClickInfoWindow вызывает колбэк открытия редактора точки
func (m *Instance) ClickInfoWindow(index int) error {
	m.mu.Lock()
	o, err := m.overlayAt(index)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	if o.marker.OnInfoWindowClick != nil {
		o.marker.OnInfoWindowClick()
	}
	return nil
}

func (m *Instance) overlayAt(index int) (overlay, error) {
	if m.destroyed {
		return overlay{}, errors.ErrMapDestroyed
	}
	if index < 0 || index >= len(m.overlays) {
		return overlay{}, errors.ErrMarkerNotFound
	}
	return m.overlays[index], nil
}

func (m *Instance) closeAll() {
	for i := range m.overlays {
		m.overlays[i].view.InfoWindowOpen = false
	}
}

func validPosition(c domain.Coordinate) bool {
	return geo.IsFinite(c.Lng) && geo.IsFinite(c.Lat)
}
