package repository

import (
	"context"

	"github.com/trip-editor/internal/domain"
)

// TripDocument - документ поездки в формате бэкенда.
// Detail - массив дней с массивами точек, либо пустая строка для пустого маршрута
type TripDocument struct {
	domain.Trip
	Detail interface{} `json:"detail"`
}

// TripRepository - хранилище документов поездок
type TripRepository interface {
	// Save создает или обновляет документ и возвращает его uid
	Save(ctx context.Context, doc *TripDocument) (string, error)

	// GetByUID возвращает документ. ErrTripNotFound, если его нет
	GetByUID(ctx context.Context, uid string) (*TripDocument, error)
}
