package usecase

import (
	"encoding/json"
	"strings"

	"github.com/trip-editor/internal/domain"
)

// DecodeItinerary - маршрут из поля detail документа поездки.
// Строка разбирается как JSON; не массив - пустой маршрут; день не массив - пустой день;
// в дне остаются только непустые объекты
func DecodeItinerary(detail interface{}) *domain.Itinerary {
	if text, isText := detail.(string); isText {
		detail = nil
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			_ = json.Unmarshal([]byte(trimmed), &detail)
		}
	}

	rawDays, ok := detail.([]interface{})
	if !ok {
		return domain.NewItinerary()
	}

	days := make([][]*domain.POI, 0, len(rawDays))
	for _, rawDay := range rawDays {
		points, ok := rawDay.([]interface{})
		if !ok {
			days = append(days, []*domain.POI{})
			continue
		}
		day := make([]*domain.POI, 0, len(points))
		for _, rawPoint := range points {
			fields, ok := rawPoint.(map[string]interface{})
			if !ok || fields == nil {
				continue
			}
			day = append(day, domain.NewPOI(fields))
		}
		days = append(days, day)
	}
	return domain.NewItineraryFromDays(days)
}

// EncodeDetail - поле detail для сохранения. Пустой маршрут уходит пустой строкой,
// как его ожидает бэкенд поездок
func EncodeDetail(it *domain.Itinerary) interface{} {
	if it == nil || it.DayCount() == 0 {
		return ""
	}

	days := it.Days()
	out := make([][]map[string]interface{}, len(days))
	for d, day := range days {
		out[d] = make([]map[string]interface{}, len(day))
		for p, poi := range day {
			out[d][p] = poi.Clone().Fields
		}
	}
	return out
}
