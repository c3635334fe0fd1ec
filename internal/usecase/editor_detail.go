package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/pkg/errors"
	"github.com/trip-editor/internal/usecase/dto"
)

// detailFieldConfig - поля редактора точки в порядке отображения
var detailFieldConfig = []struct {
	key   string
	label string
}{
	{domain.FieldSceneName, "景点名称"},
	{domain.FieldDescription, "描述"},
	{domain.FieldLongitude, "经度"},
	{domain.FieldLatitude, "纬度"},
	{domain.FieldCategory, "分类"},
	{domain.FieldPicURL, "图片地址"},
}

const (
	detailSourcePoint     = "point"
	detailSourceCandidate = "candidate"
)

// detailState - открытый редактор точки. Поля - черновик до SaveDetail
type detailState struct {
	source              string
	poiID               string
	fields              []dto.DetailField
	fetchingDescription bool
	fetchingImage       bool
}

func (d *detailState) value(name string) string {
	for _, f := range d.fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

func (d *detailState) set(name, value string) {
	for i := range d.fields {
		if d.fields[i].Name == name {
			d.fields[i].Value = value
			return
		}
	}
}

func (d *detailState) apply(values map[string]string) {
	for name, value := range values {
		d.set(name, value)
	}
}

// OpenDetail открывает редактор для точки фокуса или для точки маршрута по индексам.
// Точки без координаты редактируются только так
func (s *EditorSession) OpenDetail(ctx context.Context, ref *domain.PointRef) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var id string
	switch {
	case ref != nil:
		poi, err := s.itinerary.Point(*ref)
		if err != nil {
			return nil, err
		}
		id = poi.ID
	case s.candidate != nil:
		id = s.candidate.ID
	default:
		poi, ok := s.itinerary.SelectedPOI()
		if !ok {
			return nil, errors.ErrNoActivePoint
		}
		id = poi.ID
	}

	if err := s.openDetailByID(id); err != nil {
		return nil, err
	}
	return s.done(ctx), nil
}

// openDetailByID - колбэк клика по окну маркера
func (s *EditorSession) openDetailByID(id string) error {
	poi, source, ok := s.detailTarget(id)
	if !ok {
		return errors.ErrNoActivePoint
	}
	s.detail = &detailState{
		source: source,
		poiID:  id,
		fields: buildDetailFields(poi.Fields),
	}
	return nil
}

func (s *EditorSession) detailTarget(id string) (*domain.POI, string, bool) {
	if s.candidate != nil && s.candidate.ID == id {
		return s.candidate, detailSourceCandidate, true
	}
	ref, ok := s.itinerary.Locate(id)
	if !ok {
		return nil, "", false
	}
	poi, err := s.itinerary.Point(ref)
	if err != nil {
		return nil, "", false
	}
	return poi, detailSourcePoint, true
}

// reconcileDetail закрывает редактор, если его точки больше нет
func (s *EditorSession) reconcileDetail() {
	if s.detail == nil {
		return
	}
	if _, _, ok := s.detailTarget(s.detail.poiID); !ok {
		s.detail = nil
	}
}

// UpdateDetailDraft меняет черновик полей без записи в точку
func (s *EditorSession) UpdateDetailDraft(ctx context.Context, fields map[string]string) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if s.detail == nil {
		return nil, errors.ErrDetailNotOpen
	}
	s.detail.apply(fields)
	return s.done(ctx), nil
}

// SaveDetail записывает черновик в точку: долгота и широта как числа,
// категория как целое, при ошибке разбора - исходные строки
func (s *EditorSession) SaveDetail(ctx context.Context, fields map[string]string) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	d := s.detail
	if d == nil {
		return nil, errors.ErrDetailNotOpen
	}
	d.apply(fields)
	normalized := normalizeDetailFields(d.fields)

	poi, _, ok := s.detailTarget(d.poiID)
	if !ok {
		s.detail = nil
		return nil, errors.ErrNoActivePoint
	}
	if d.source == detailSourcePoint {
		ref, _ := s.itinerary.Locate(d.poiID)
		if err := s.itinerary.UpdateFields(ref.DayIndex, ref.PointIndex, normalized); err != nil {
			return nil, err
		}
	} else {
		poi.Merge(normalized)
	}
	s.detail = nil

	return s.done(ctx), nil
}

// CloseDetail закрывает редактор без сохранения
func (s *EditorSession) CloseDetail(ctx context.Context) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	s.detail = nil
	return s.done(ctx), nil
}

// FetchDescription запрашивает описание по имени из черновика.
// Пока идет любой запрос обогащения, вызов игнорируется
func (s *EditorSession) FetchDescription(ctx context.Context, fields map[string]string) (*dto.SessionView, error) {
	return s.enrich(ctx, fields, enrichDescription)
}

// FetchImage запрашивает ссылку на изображение по имени из черновика
func (s *EditorSession) FetchImage(ctx context.Context, fields map[string]string) (*dto.SessionView, error) {
	return s.enrich(ctx, fields, enrichImage)
}

type enrichKind int

const (
	enrichDescription enrichKind = iota
	enrichImage
)

func (s *EditorSession) enrich(ctx context.Context, fields map[string]string, kind enrichKind) (*dto.SessionView, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}

	d := s.detail
	if d == nil {
		s.mu.Unlock()
		return nil, errors.ErrDetailNotOpen
	}
	d.apply(fields)

	busy := d.fetchingImage
	if kind == enrichDescription {
		busy = busy || d.fetchingDescription
	}
	if busy {
		view := s.view()
		s.mu.Unlock()
		return view, nil
	}

	name := strings.TrimSpace(d.value(domain.FieldSceneName))
	if name == "" {
		s.mu.Unlock()
		return nil, errors.ErrSceneNameRequired
	}

	if kind == enrichDescription {
		d.fetchingDescription = true
	} else {
		d.fetchingImage = true
	}
	s.mu.Unlock()

	var (
		text  string
		err   error
		field string
	)
	if kind == enrichDescription {
		field = domain.FieldDescription
		text, err = s.enrichmentRepo.Description(ctx, name)
	} else {
		field = domain.FieldPicURL
		text, err = s.enrichmentRepo.ImageURL(ctx, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == enrichDescription {
		d.fetchingDescription = false
	} else {
		d.fetchingImage = false
	}

	if err != nil {
		s.logger.Error("Failed to fetch point enrichment",
			zap.String("session_id", s.id),
			zap.String("field", field),
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", errors.ErrEnrichmentFailed, err)
	}

	// редактор могли закрыть или открыть заново, пока шел запрос
	if s.detail == d {
		d.set(field, text)
	}
	if s.closed {
		return nil, errors.ErrSessionNotFound
	}
	return s.done(ctx), nil
}

func (s *EditorSession) detailView() *dto.DetailView {
	d := s.detail
	if d == nil {
		return nil
	}
	view := &dto.DetailView{
		Source:              d.source,
		Fields:              append([]dto.DetailField{}, d.fields...),
		FetchingDescription: d.fetchingDescription,
		FetchingImage:       d.fetchingImage,
	}
	if d.source == detailSourcePoint {
		if ref, ok := s.itinerary.Locate(d.poiID); ok {
			view.Point = &ref
		}
	}
	return view
}

func buildDetailFields(values map[string]interface{}) []dto.DetailField {
	fields := make([]dto.DetailField, 0, len(detailFieldConfig))
	for _, cfg := range detailFieldConfig {
		fields = append(fields, dto.DetailField{
			Name:  cfg.key,
			Label: cfg.label,
			Value: stringifyField(values[cfg.key]),
		})
	}
	return fields
}

// stringifyField - значение поля как текст для редактора
func stringifyField(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}

func normalizeDetailFields(fields []dto.DetailField) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		value := strings.TrimSpace(f.Value)
		switch f.Name {
		case domain.FieldLongitude, domain.FieldLatitude:
			if n, err := strconv.ParseFloat(value, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
				out[f.Name] = n
				continue
			}
		case domain.FieldCategory:
			if n, err := strconv.Atoi(value); err == nil {
				out[f.Name] = n
				continue
			}
		}
		out[f.Name] = value
	}
	return out
}
