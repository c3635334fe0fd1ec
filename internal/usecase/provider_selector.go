package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/domain/repository"
	"github.com/trip-editor/internal/pkg/errors"
)

// SelectorState - состояние выбора провайдера
type SelectorState string

const (
	SelectorUndetermined  SelectorState = "undetermined"
	SelectorDomestic      SelectorState = "domestic"
	SelectorInternational SelectorState = "international"
)

// ProviderBinding - адаптер провайдера и ключи загрузки его SDK
type ProviderBinding struct {
	Provider      repository.MapProvider
	APIKey        string
	SecurityToken string
}

// ProviderSelector - выбор провайдера и владение живой картой одной сессии.
// Не потокобезопасен: вызывается под блокировкой сессии
type ProviderSelector struct {
	bindings   map[domain.ProviderName]ProviderBinding
	active     domain.ProviderName
	handle     *domain.ProviderHandle
	loadErr    error
	instance   domain.MapInstance
	generation uint64
	logger     *zap.Logger
}

// NewProviderSelector - создание селектора в состоянии Undetermined
func NewProviderSelector(bindings map[domain.ProviderName]ProviderBinding, logger *zap.Logger) *ProviderSelector {
	return &ProviderSelector{
		bindings: bindings,
		logger:   logger,
	}
}

// State - текущее состояние
func (s *ProviderSelector) State() SelectorState {
	switch s.active {
	case domain.ProviderGaode:
		return SelectorDomestic
	case domain.ProviderGoogle:
		return SelectorInternational
	}
	return SelectorUndetermined
}

// Active - выбранный провайдер
func (s *ProviderSelector) Active() (domain.ProviderName, bool) {
	return s.active, s.active != ""
}

// Provider - адаптер выбранного провайдера, nil до выбора
func (s *ProviderSelector) Provider() repository.MapProvider {
	if s.active == "" {
		return nil
	}
	return s.bindings[s.active].Provider
}

// Generation растет при каждой смене провайдера; по нему отбрасываются устаревшие ответы поиска
func (s *ProviderSelector) Generation() uint64 {
	return s.generation
}

// Handle - результат загрузки SDK выбранного провайдера
func (s *ProviderSelector) Handle() *domain.ProviderHandle {
	return s.handle
}

// LoadError - постоянная ошибка загрузки SDK, без повторных попыток
func (s *ProviderSelector) LoadError() error {
	return s.loadErr
}

// Map - живая карта, nil если ее нет
func (s *ProviderSelector) Map() domain.MapInstance {
	if s.instance == nil || s.instance.Destroyed() {
		return nil
	}
	return s.instance
}

// Switch уничтожает текущую карту и делает провайдер активным.
// Возвращает false, если провайдер уже выбран
func (s *ProviderSelector) Switch(name domain.ProviderName) (bool, error) {
	binding, ok := s.bindings[name]
	if !ok || binding.Provider == nil {
		return false, errors.ErrUnknownProvider.WithDetails(map[string]interface{}{
			"provider": string(name),
		})
	}
	if s.active == name {
		return false, nil
	}

	previous := s.active
	s.Unmount()
	s.active = name
	s.handle = nil
	s.loadErr = nil
	s.generation++

	s.logger.Info("Map provider switched",
		zap.String("from", string(previous)),
		zap.String("to", string(name)),
	)
	return true, nil
}

// Toggle переключает Domestic <-> International
func (s *ProviderSelector) Toggle() (domain.ProviderName, error) {
	if s.active == "" {
		return "", errors.ErrProviderNotSelected
	}
	next := s.active.Other()
	if _, err := s.Switch(next); err != nil {
		return "", err
	}
	return next, nil
}

// Preload загружает SDK выбранного провайдера. Ошибка загрузки запоминается
// и дальше не повторяется; отмена ctx прерывает только ожидание
func (s *ProviderSelector) Preload(ctx context.Context) error {
	if s.active == "" {
		return errors.ErrProviderNotSelected
	}
	if s.handle != nil {
		return nil
	}
	if s.loadErr != nil {
		return s.loadErr
	}

	binding := s.bindings[s.active]
	handle, err := binding.Provider.Load(ctx, binding.APIKey, binding.SecurityToken)
	if err != nil {
		if ctx.Err() != nil {
			s.logger.Warn("Map SDK load wait interrupted",
				zap.String("provider", string(s.active)),
				zap.Error(ctx.Err()),
			)
			return ctx.Err()
		}
		s.loadErr = fmt.Errorf("%w: %v", errors.ErrMapLoadFailed, err)
		s.logger.Error("Failed to load map SDK",
			zap.String("provider", string(s.active)),
			zap.Error(err),
		)
		return s.loadErr
	}

	s.handle = handle
	return nil
}

// EnsureMap возвращает живую карту, создавая ее при необходимости.
// created - карта создана этим вызовом
func (s *ProviderSelector) EnsureMap(
	ctx context.Context,
	container domain.MapContainer,
	opts domain.MapOptions,
) (instance domain.MapInstance, created bool, err error) {
	if s.active == "" {
		return nil, false, errors.ErrProviderNotSelected
	}
	if m := s.Map(); m != nil {
		return m, false, nil
	}
	if err := s.Preload(ctx); err != nil {
		return nil, false, err
	}

	m, err := s.bindings[s.active].Provider.CreateMap(container, opts)
	if err != nil {
		if errors.Is(err, errors.ErrMapLoadFailed) {
			s.loadErr = err
		}
		return nil, false, err
	}
	s.instance = m
	return m, true, nil
}

// Unmount уничтожает живую карту, выбор провайдера сохраняется
func (s *ProviderSelector) Unmount() {
	if s.instance == nil {
		return
	}
	if provider := s.Provider(); provider != nil {
		provider.Destroy(s.instance)
	}
	s.instance = nil
}
