package mapview

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/infrastructure/maploader"
	"github.com/trip-editor/internal/pkg/errors"
	"github.com/trip-editor/internal/pkg/geo"
)

// Create - общая часть CreateMap обоих адаптеров: SDK загружен, контейнер живой
func Create(
	provider domain.ProviderName,
	loader *maploader.Cache,
	container domain.MapContainer,
	opts domain.MapOptions,
	logger *zap.Logger,
) (*Instance, error) {
	_, loadErr, loaded := loader.Loaded(provider)
	if !loaded {
		return nil, errors.ErrMapNotReady
	}
	if loadErr != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMapLoadFailed, loadErr)
	}
	if strings.TrimSpace(container.ID) == "" || !container.Attached {
		return nil, errors.ErrInvalidContainer
	}

	if !geo.ValidateCoordinates(opts.Center.Lng, opts.Center.Lat) {
		opts.Center = domain.DefaultCenter
	}
	if opts.Zoom <= 0 {
		opts.Zoom = domain.DefaultZoom
	}

	instance := New(provider, container, opts, logger)
	logger.Debug("Map instance created",
		zap.String("provider", string(provider)),
		zap.String("map_id", instance.ID()),
		zap.String("container", container.ID),
	)
	return instance, nil
}

// Lookup приводит MapInstance к экземпляру адаптера. Чужие экземпляры игнорируются
func Lookup(instance domain.MapInstance, provider domain.ProviderName) (*Instance, bool) {
	if instance == nil {
		return nil, false
	}
	m, ok := instance.(*Instance)
	if !ok || m == nil || m.provider != provider {
		return nil, false
	}
	return m, true
}
