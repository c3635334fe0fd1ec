package domain

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/trip-editor/internal/pkg/geo"
)

// Имена полей точки в формате документа поездки
const (
	FieldSceneName   = "nameOfScence"
	FieldTripName    = "tripName"
	FieldDescription = "des"
	FieldLongitude   = "longitude"
	FieldLatitude    = "latitude"
	FieldCategory    = "category"
	FieldPicURL      = "picURL"
	FieldPic         = "pic"
	FieldDone        = "done"
	FieldPointOrNot  = "pointOrNot"
)

// UntitledPlace - заголовок точки без имени
const UntitledPlace = "未命名地点"

// POI - точка маршрута. Поля хранятся как есть, чтобы не терять устаревшие ключи
type POI struct {
	ID     string
	Fields map[string]interface{}

	placement *Coordinate
}

// NewPOI - создание новой точки с собственным стабильным идентификатором
func NewPOI(fields map[string]interface{}) *POI {
	p := &POI{
		ID:     uuid.NewString(),
		Fields: make(map[string]interface{}, len(fields)),
	}
	for k, v := range fields {
		p.Fields[k] = v
	}
	p.recomputePlacement()
	return p
}

// Placement возвращает координату, если точка размещаема
func (p *POI) Placement() (Coordinate, bool) {
	if p.placement == nil {
		return Coordinate{}, false
	}
	return *p.placement, true
}

// Placeable - у точки есть конечная координата
func (p *POI) Placeable() bool {
	return p.placement != nil
}

// Title - отображаемое имя: nameOfScence, затем tripName
func (p *POI) Title() string {
	if name := p.stringField(FieldSceneName); name != "" {
		return name
	}
	return p.stringField(FieldTripName)
}

// Description - текст описания
func (p *POI) Description() string {
	return p.stringField(FieldDescription)
}

// ImageURL - picURL или устаревший pic
func (p *POI) ImageURL() string {
	if url := p.stringField(FieldPicURL); url != "" {
		return url
	}
	return p.stringField(FieldPic)
}

// Merge сливает частичное обновление полей. Размещение пересчитывается,
// только если среди ключей есть координатные
func (p *POI) Merge(partial map[string]interface{}) {
	touchesCoordinate := false
	for k, v := range partial {
		p.Fields[k] = v
		if geo.IsCoordinateKey(k) {
			touchesCoordinate = true
		}
	}
	if touchesCoordinate {
		p.recomputePlacement()
	}
}

// Clone - глубокая копия верхнего уровня полей, идентификатор сохраняется
func (p *POI) Clone() *POI {
	cp := &POI{
		ID:     p.ID,
		Fields: make(map[string]interface{}, len(p.Fields)),
	}
	for k, v := range p.Fields {
		cp.Fields[k] = v
	}
	if p.placement != nil {
		c := *p.placement
		cp.placement = &c
	}
	return cp
}

// MarshalJSON сериализует точку как объект полей, без служебного идентификатора
func (p *POI) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Fields)
}

func (p *POI) recomputePlacement() {
	lng, lat, ok := geo.ExtractCoordinate(p.Fields)
	if !ok {
		p.placement = nil
		return
	}
	p.placement = &Coordinate{Lng: lng, Lat: lat}
}

func (p *POI) stringField(key string) string {
	v, ok := p.Fields[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
