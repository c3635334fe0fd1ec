package domain

import "github.com/paulmach/orb"

// Coordinate - пара (долгота, широта) в порядке провайдеров карт
type Coordinate struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// DefaultCenter - центр карты, когда в маршруте нет ни одной размещаемой точки
var DefaultCenter = Coordinate{Lng: 116.397428, Lat: 39.90923}

const (
	// DefaultZoom - масштаб новой карты
	DefaultZoom = 12
	// DefaultDetailZoom - масштаб при фокусе на точке
	DefaultDetailZoom = 15
)

// Point конвертирует координату в orb.Point
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// CoordinateFromPoint - обратное преобразование
func CoordinateFromPoint(p orb.Point) Coordinate {
	return Coordinate{Lng: p.Lon(), Lat: p.Lat()}
}

// Pair возвращает координату как [lng, lat]
func (c Coordinate) Pair() [2]float64 {
	return [2]float64{c.Lng, c.Lat}
}
