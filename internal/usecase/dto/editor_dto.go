package dto

import (
	"github.com/trip-editor/internal/domain"
)

// TripPayload - документ поездки, переданный клиентом напрямую
type TripPayload struct {
	UID      string      `json:"uid,omitempty" validate:"omitempty,max=64"`
	Designer string      `json:"designer,omitempty" validate:"omitempty,max=128"`
	TripName string      `json:"tripName" validate:"max=200"`
	Country  string      `json:"country" validate:"max=128"`
	City     string      `json:"city" validate:"max=128"`
	Tags     string      `json:"tags" validate:"max=512"`
	Domestic *int        `json:"domestic,omitempty" validate:"omitempty,oneof=0 1"`
	Detail   interface{} `json:"detail" swaggertype:"object"`
}

// CreateSessionRequest - открытие редактора: из сохраненной поездки, из документа или пустое
type CreateSessionRequest struct {
	TripUID     string       `json:"trip_uid,omitempty" validate:"omitempty,max=64"`
	Trip        *TripPayload `json:"trip,omitempty" validate:"omitempty"`
	UserName    string       `json:"user_name,omitempty" validate:"omitempty,max=128"`
	Domestic    *int         `json:"domestic,omitempty" validate:"omitempty,oneof=0 1"`
	ContainerID string       `json:"container_id,omitempty" validate:"omitempty,max=128"`
}

// AttachContainerRequest - монтирование карты в элемент страницы
type AttachContainerRequest struct {
	ContainerID string `json:"container_id" validate:"required,max=128"`
}

// SelectProviderRequest - явный выбор провайдера карт
type SelectProviderRequest struct {
	Provider string `json:"provider" validate:"required,map_provider"`
}

// ReorderPointRequest - перемещение точки внутри дня
type ReorderPointRequest struct {
	From int `json:"from" validate:"min=0"`
	To   int `json:"to" validate:"min=0"`
}

// MovePointRequest - перенос точки в другой день (drop на заголовок дня)
type MovePointRequest struct {
	TargetDay int `json:"target_day" validate:"min=0"`
}

// UpdatePointRequest - частичное обновление полей точки
type UpdatePointRequest struct {
	Fields map[string]interface{} `json:"fields" validate:"required,min=1"`
}

// AddPointRequest - добавление точки в день
type AddPointRequest struct {
	Fields map[string]interface{} `json:"fields" validate:"required,min=1"`
}

// SearchRequest - поиск места у активного провайдера
type SearchRequest struct {
	Keyword string `json:"keyword" validate:"max=200"`
}

// DetailFieldsRequest - значения полей редактора точки
type DetailFieldsRequest struct {
	Fields map[string]string `json:"fields,omitempty" validate:"omitempty,dive,keys,oneof=nameOfScence des longitude latitude category picURL,endkeys,max=4096"`
}

// UpdateTripRequest - изменение метаданных поездки
type UpdateTripRequest struct {
	TripName *string `json:"tripName,omitempty" validate:"omitempty,max=200"`
	Country  *string `json:"country,omitempty" validate:"omitempty,max=128"`
	City     *string `json:"city,omitempty" validate:"omitempty,max=128"`
	Tags     *string `json:"tags,omitempty" validate:"omitempty,max=512"`
}

// SaveTripRequest - сохранение; имя передается из диалога, если у поездки его нет
type SaveTripRequest struct {
	TripName *string `json:"tripName,omitempty" validate:"omitempty,max=200"`
}

// ProviderView - состояние выбора провайдера
type ProviderView struct {
	State     string                 `json:"state"`
	Active    domain.ProviderName    `json:"active,omitempty"`
	Handle    *domain.ProviderHandle `json:"handle,omitempty"`
	LoadError string                 `json:"load_error,omitempty"`
}

// PointView - точка в списке дня
type PointView struct {
	Index     int                    `json:"index"`
	ID        string                 `json:"id"`
	Label     string                 `json:"label"`
	Placeable bool                   `json:"placeable"`
	Position  *domain.Coordinate     `json:"position,omitempty"`
	Selected  bool                   `json:"selected"`
	Fields    map[string]interface{} `json:"fields"`
}

// DayView - день маршрута
type DayView struct {
	Index    int         `json:"index"`
	Label    string      `json:"label"`
	Expanded bool        `json:"expanded"`
	Points   []PointView `json:"points"`
}

// CandidateView - точка из поиска, ожидающая подтверждения
type CandidateView struct {
	ID       string                 `json:"id"`
	Title    string                 `json:"title"`
	Position domain.Coordinate      `json:"position"`
	Fields   map[string]interface{} `json:"fields"`
}

// SearchView - состояние поиска
type SearchView struct {
	Keyword          string                `json:"keyword"`
	Status           string                `json:"status"`
	Searching        bool                  `json:"searching"`
	HasSearchAttempt bool                  `json:"has_search_attempt"`
	Results          []domain.SearchResult `json:"results"`
}

// DetailField - поле редактора точки
type DetailField struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// DetailView - открытый редактор точки
type DetailView struct {
	Source              string           `json:"source"`
	Point               *domain.PointRef `json:"point,omitempty"`
	Fields              []DetailField    `json:"fields"`
	FetchingDescription bool             `json:"fetching_description"`
	FetchingImage       bool             `json:"fetching_image"`
}

// SessionView - снимок сессии редактора для отрисовки клиентом
type SessionView struct {
	ID         string           `json:"id"`
	Trip       domain.Trip      `json:"trip"`
	Provider   ProviderView     `json:"provider"`
	Days       []DayView        `json:"days"`
	PointCount int              `json:"point_count"`
	Selection  *domain.PointRef `json:"selection,omitempty"`
	Candidate  *CandidateView   `json:"candidate,omitempty"`
	Search     SearchView       `json:"search"`
	Map        *domain.MapView  `json:"map,omitempty"`
	MapError   string           `json:"map_error,omitempty"`
	Detail     *DetailView      `json:"detail,omitempty"`
	Saving     bool             `json:"saving"`
}

// TripResponse - сохраненный документ поездки
type TripResponse struct {
	domain.Trip
	Detail interface{} `json:"detail" swaggertype:"object"`
}
