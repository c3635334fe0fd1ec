package repository

import "context"

// EnrichmentRepository - внешние сервисы описаний и изображений мест
type EnrichmentRepository interface {
	// Description возвращает текстовое описание места
	Description(ctx context.Context, name string) (string, error)

	// ImageURL возвращает ссылку на изображение места
	ImageURL(ctx context.Context, name string) (string, error)
}
