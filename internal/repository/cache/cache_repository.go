package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/domain/repository"
)

type cacheRepository struct {
	rdb *redis.Client
	log *zap.Logger
}

// NewCacheRepository - кеш поверх подключения Redis
func NewCacheRepository(conn *Redis) repository.CacheRepository {
	return &cacheRepository{
		rdb: conn.Client(),
		log: conn.logger,
	}
}

// Get возвращает nil без ошибки, если ключа нет
func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		r.log.Debug("Cache miss", zap.String("key", key))
		return nil, nil
	case err != nil:
		r.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return raw, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		r.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// GetSearchResults - результаты поиска из кеша; nil при промахе
func (r *cacheRepository) GetSearchResults(ctx context.Context, provider domain.ProviderName, city, keyword string) ([]domain.SearchResult, error) {
	var results []domain.SearchResult
	found, err := r.getJSON(ctx, SearchKey(provider, city, keyword), &results)
	if err != nil || !found {
		return nil, err
	}
	return results, nil
}

// SetSearchResults кеширует результаты поиска; SearchUseCase сохраняет только непустые списки
func (r *cacheRepository) SetSearchResults(ctx context.Context, provider domain.ProviderName, city, keyword string, results []domain.SearchResult, ttl time.Duration) error {
	if results == nil {
		results = []domain.SearchResult{}
	}
	return r.setJSON(ctx, SearchKey(provider, city, keyword), results, ttl)
}

func (r *cacheRepository) getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := r.Get(ctx, key)
	if err != nil || raw == nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		r.log.Warn("Corrupted cache entry", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return true, nil
}

func (r *cacheRepository) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	return r.Set(ctx, key, raw, ttl)
}

// SearchKey - ключ кеша поиска; ключевое слово хешируется, так как это произвольный ввод
func SearchKey(provider domain.ProviderName, city, keyword string) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(keyword))))
	return fmt.Sprintf("search:%s:%s:%s", provider, strings.TrimSpace(city), hex.EncodeToString(sum[:]))
}
