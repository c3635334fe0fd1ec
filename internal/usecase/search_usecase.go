package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/domain/repository"
)

// SearchUseCase - поиск мест у провайдера карт с кешированием выдачи
type SearchUseCase struct {
	cacheRepo repository.CacheRepository
	logger    *zap.Logger
	cacheTTL  time.Duration
	city      string
}

// NewSearchUseCase - создание нового SearchUseCase.
// city - область поиска по умолчанию; cacheRepo может быть nil
func NewSearchUseCase(
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
	city string,
) *SearchUseCase {
	return &SearchUseCase{
		cacheRepo: cacheRepo,
		logger:    logger,
		cacheTTL:  cacheTTL,
		city:      city,
	}
}

// Search - поиск места по ключевому слову.
// Пустое слово не доходит до провайдера. Кешируется только непустая выдача,
// чтобы сбой провайдера не закреплялся на время TTL
func (uc *SearchUseCase) Search(ctx context.Context, provider repository.MapProvider, keyword string) []domain.SearchResult {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || provider == nil {
		return []domain.SearchResult{}
	}

	name := provider.Name()

	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetSearchResults(ctx, name, uc.city, keyword)
		if err != nil {
			uc.logger.Warn("Failed to read search cache", zap.Error(err))
		} else if cached != nil {
			uc.logger.Debug("Search cache hit",
				zap.String("provider", string(name)),
				zap.String("keyword", keyword),
			)
			return limitResults(cached)
		}
	}

	results := limitResults(provider.Search(ctx, keyword, uc.city))

	uc.logger.Debug("Search completed",
		zap.String("provider", string(name)),
		zap.String("keyword", keyword),
		zap.Int("results", len(results)),
	)

	if uc.cacheRepo != nil && len(results) > 0 {
		if err := uc.cacheRepo.SetSearchResults(ctx, name, uc.city, keyword, results, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache search results", zap.Error(err))
		}
	}

	return results
}

func limitResults(results []domain.SearchResult) []domain.SearchResult {
	if results == nil {
		return []domain.SearchResult{}
	}
	if len(results) > domain.MaxSearchResults {
		return results[:domain.MaxSearchResults]
	}
	return results
}
