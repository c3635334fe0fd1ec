package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/domain/repository"
	"github.com/trip-editor/internal/infrastructure/mapview"
)

// MockMapProvider is a mock of MapProvider. CreateMap builds a real
// mapview.Instance unless the expectation returns an error, so marker
// clicks go through the same overlay code as the real adapters.
type MockMapProvider struct {
	mock.Mock
	name domain.ProviderName

	mu        sync.Mutex
	instances []*mapview.Instance
}

func NewMockMapProvider(name domain.ProviderName) *MockMapProvider {
	return &MockMapProvider{name: name}
}

// stubLifecycle allows every map lifecycle call with a successful SDK load
func (m *MockMapProvider) stubLifecycle() *MockMapProvider {
	m.On("Load", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.ProviderHandle{Provider: m.name, LoadedAt: time.Now()}, nil).Maybe()
	m.stubMaps()
	return m
}

func (m *MockMapProvider) stubMaps() {
	m.On("CreateMap", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("Destroy", mock.Anything).Maybe()
	m.On("SetCenterZoom", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("SetZoom", mock.Anything, mock.Anything).Maybe()
	m.On("UpsertMarkers", mock.Anything, mock.Anything).Maybe()
}

func (m *MockMapProvider) Instances() []*mapview.Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*mapview.Instance(nil), m.instances...)
}

func (m *MockMapProvider) Name() domain.ProviderName {
	return m.name
}

func (m *MockMapProvider) Load(ctx context.Context, apiKey, securityToken string) (*domain.ProviderHandle, error) {
	args := m.Called(ctx, apiKey, securityToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderHandle), args.Error(1)
}

func (m *MockMapProvider) CreateMap(container domain.MapContainer, opts domain.MapOptions) (domain.MapInstance, error) {
	args := m.Called(container, opts)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	instance := mapview.New(m.name, container, opts, zap.NewNop())
	m.mu.Lock()
	m.instances = append(m.instances, instance)
	m.mu.Unlock()
	return instance, nil
}

func (m *MockMapProvider) Destroy(instance domain.MapInstance) {
	m.Called(instance)
	if mi, ok := mapview.Lookup(instance, m.name); ok {
		mi.Destroy()
	}
}

func (m *MockMapProvider) SetCenterZoom(instance domain.MapInstance, center domain.Coordinate, zoom int) {
	m.Called(instance, center, zoom)
	if mi, ok := mapview.Lookup(instance, m.name); ok {
		mi.SetCenterZoom(center, zoom)
	}
}

func (m *MockMapProvider) SetZoom(instance domain.MapInstance, zoom int) {
	m.Called(instance, zoom)
	if mi, ok := mapview.Lookup(instance, m.name); ok {
		mi.SetZoom(zoom)
	}
}

func (m *MockMapProvider) UpsertMarkers(instance domain.MapInstance, markers []domain.Marker) {
	m.Called(instance, markers)
	if mi, ok := mapview.Lookup(instance, m.name); ok {
		mi.ReplaceMarkers(markers, mapview.MarkerStyle{Kind: domain.MarkerKindStandard})
	}
}

func (m *MockMapProvider) Search(ctx context.Context, keyword, city string) []domain.SearchResult {
	args := m.Called(ctx, keyword, city)
	if args.Get(0) == nil {
		return []domain.SearchResult{}
	}
	return args.Get(0).([]domain.SearchResult)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetSearchResults(ctx context.Context, provider domain.ProviderName, city, keyword string) ([]domain.SearchResult, error) {
	args := m.Called(ctx, provider, city, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchResult), args.Error(1)
}

func (m *MockCacheRepository) SetSearchResults(ctx context.Context, provider domain.ProviderName, city, keyword string, results []domain.SearchResult, ttl time.Duration) error {
	args := m.Called(ctx, provider, city, keyword, results, ttl)
	return args.Error(0)
}

// MockTripRepository is a mock of TripRepository
type MockTripRepository struct {
	mock.Mock
}

func (m *MockTripRepository) Save(ctx context.Context, doc *repository.TripDocument) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

func (m *MockTripRepository) GetByUID(ctx context.Context, uid string) (*repository.TripDocument, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.TripDocument), args.Error(1)
}

// MockEnrichmentRepository is a mock of EnrichmentRepository
type MockEnrichmentRepository struct {
	mock.Mock
}

func (m *MockEnrichmentRepository) Description(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockEnrichmentRepository) ImageURL(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}
