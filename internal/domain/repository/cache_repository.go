package repository

import (
	"context"
	"time"

	"github.com/trip-editor/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// GetSearchResults получает результаты поиска места; nil без ошибки - промах
	GetSearchResults(ctx context.Context, provider domain.ProviderName, city, keyword string) ([]domain.SearchResult, error)

	// SetSearchResults сохраняет результаты поиска места
	SetSearchResults(ctx context.Context, provider domain.ProviderName, city, keyword string, results []domain.SearchResult, ttl time.Duration) error
}
