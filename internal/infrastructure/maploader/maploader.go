package maploader

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/trip-editor/internal/domain"
)

// LoadFunc - однократная загрузка SDK провайдера
type LoadFunc func(ctx context.Context) (*domain.ProviderHandle, error)

type outcome struct {
	handle *domain.ProviderHandle
	err    error
}

// Cache - процессный кеш загрузок SDK по имени провайдера.
// Создается при первом использовании и живет до конца процесса: результат
// загрузки, в том числе ошибка, запоминается навсегда и не перезапрашивается.
type Cache struct {
	group   singleflight.Group
	mu      sync.RWMutex
	results map[domain.ProviderName]outcome
	timeout time.Duration
	logger  *zap.Logger
}

// NewCache - создание кеша загрузок. timeout ограничивает саму загрузку,
// независимо от контекста первого вызывающего
func NewCache(timeout time.Duration, logger *zap.Logger) *Cache {
	return &Cache{
		results: make(map[domain.ProviderName]outcome),
		timeout: timeout,
		logger:  logger,
	}
}

// Load возвращает результат загрузки провайдера, запуская ее не более одного раза.
// Параллельные вызовы ждут одну и ту же загрузку. Отмена ctx прерывает только ожидание
func (c *Cache) Load(ctx context.Context, provider domain.ProviderName, load LoadFunc) (*domain.ProviderHandle, error) {
	if res, ok := c.lookup(provider); ok {
		return res.handle, res.err
	}

	ch := c.group.DoChan(string(provider), func() (interface{}, error) {
		if res, ok := c.lookup(provider); ok {
			return res.handle, res.err
		}

		bootCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		start := time.Now()
		handle, err := load(bootCtx)

		c.mu.Lock()
		c.results[provider] = outcome{handle: handle, err: err}
		c.mu.Unlock()

		if err != nil {
			c.logger.Error("Map SDK load failed",
				zap.String("provider", string(provider)),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
		} else {
			c.logger.Info("Map SDK loaded",
				zap.String("provider", string(provider)),
				zap.Duration("duration", time.Since(start)),
			)
		}
		return handle, err
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		handle, _ := res.Val.(*domain.ProviderHandle)
		return handle, res.Err
	}
}

// Loaded возвращает завершенный результат загрузки, если он есть
func (c *Cache) Loaded(provider domain.ProviderName) (*domain.ProviderHandle, error, bool) {
	res, ok := c.lookup(provider)
	return res.handle, res.err, ok
}

func (c *Cache) lookup(provider domain.ProviderName) (outcome, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.results[provider]
	return res, ok
}
