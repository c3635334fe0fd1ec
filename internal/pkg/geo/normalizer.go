package geo

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// keyPair - пара имен полей долготы и широты
type keyPair struct {
	Lng string
	Lat string
}

// coordinateKeyPairs в порядке приоритета
var coordinateKeyPairs = []keyPair{
	{Lng: "longitude", Lat: "latitude"},
	{Lng: "lng", Lat: "lat"},
	{Lng: "lon", Lat: "lat"},
	{Lng: "poiLng", Lat: "poiLat"},
	{Lng: "poiLongitude", Lat: "poiLatitude"},
	{Lng: "x", Lat: "y"},
}

// locationKeys - поля, содержащие координату целиком: [lng, lat] или "lng,lat"
var locationKeys = []string{"location", "loc", "coordinate", "position"}

// IsCoordinateKey сообщает, влияет ли поле на вычисление координаты
func IsCoordinateKey(key string) bool {
	for _, pair := range coordinateKeyPairs {
		if key == pair.Lng || key == pair.Lat {
			return true
		}
	}
	for _, k := range locationKeys {
		if key == k {
			return true
		}
	}
	return false
}

// ExtractCoordinate извлекает (долгота, широта) из записи с произвольной схемой.
// Отсутствие координаты - нормальный исход, ok=false.
func ExtractCoordinate(fields map[string]interface{}) (lng, lat float64, ok bool) {
	if len(fields) == 0 {
		return 0, 0, false
	}

	for _, pair := range coordinateKeyPairs {
		lngValue, lngOk := ParseNumber(fields[pair.Lng])
		latValue, latOk := ParseNumber(fields[pair.Lat])
		if lngOk && latOk {
			return lngValue, latValue, true
		}
	}

	candidate := firstPresent(fields, locationKeys)
	if candidate == nil {
		return 0, 0, false
	}

	switch loc := candidate.(type) {
	case string:
		return ParseLocationString(loc)
	case []interface{}:
		if len(loc) < 2 {
			return 0, 0, false
		}
		return pairOf(loc[0], loc[1])
	case []float64:
		if len(loc) < 2 {
			return 0, 0, false
		}
		return pairOf(loc[0], loc[1])
	case [2]float64:
		return pairOf(loc[0], loc[1])
	case []string:
		if len(loc) < 2 {
			return 0, 0, false
		}
		return pairOf(loc[0], loc[1])
	}

	return 0, 0, false
}

// ParseLocationString разбирает "lng,lat": разделители - запятая, полноширинная запятая, пробелы
func ParseLocationString(s string) (lng, lat float64, ok bool) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '，' || unicode.IsSpace(r)
	})
	if len(parts) < 2 {
		return 0, 0, false
	}
	return pairOf(parts[0], parts[1])
}

// ParseNumber принимает числа и числовые строки, отвергает всё неконечное
func ParseNumber(value interface{}) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if !IsFinite(f) {
		return 0, false
	}
	return f, true
}

func pairOf(rawLng, rawLat interface{}) (float64, float64, bool) {
	lng, lngOk := ParseNumber(rawLng)
	lat, latOk := ParseNumber(rawLat)
	if !lngOk || !latOk {
		return 0, 0, false
	}
	return lng, lat, true
}

// firstPresent повторяет семантику `a ?? b ?? c`: первое не-nil значение
func firstPresent(fields map[string]interface{}, keys []string) interface{} {
	for _, k := range keys {
		if v, exists := fields[k]; exists && v != nil {
			return v
		}
	}
	return nil
}
