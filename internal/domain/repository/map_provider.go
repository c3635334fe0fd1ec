package repository

import (
	"context"

	"github.com/trip-editor/internal/domain"
)

// MapProvider - единый интерфейс над SDK провайдера карт
type MapProvider interface {
	// Name возвращает идентификатор провайдера
	Name() domain.ProviderName

	// Load выполняет однократную загрузку SDK. Повторные и параллельные вызовы
	// получают тот же результат, включая ошибку
	Load(ctx context.Context, apiKey, securityToken string) (*domain.ProviderHandle, error)

	// CreateMap создает экземпляр карты. Требует завершенной загрузки
	CreateMap(container domain.MapContainer, opts domain.MapOptions) (domain.MapInstance, error)

	// Destroy освобождает маркеры, окна и саму карту. Идемпотентен
	Destroy(instance domain.MapInstance)

	// SetCenterZoom и SetZoom ничего не делают для уничтоженного экземпляра
	SetCenterZoom(instance domain.MapInstance, center domain.Coordinate, zoom int)
	SetZoom(instance domain.MapInstance, zoom int)

	// UpsertMarkers заменяет весь набор маркеров
	UpsertMarkers(instance domain.MapInstance, markers []domain.Marker)

	// Search ищет места по ключевому слову. Не более MaxSearchResults результатов,
	// ошибки провайдера сводятся к пустому списку
	Search(ctx context.Context, keyword, city string) []domain.SearchResult
}
