package googlemaps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/trip-editor/internal/config"
	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/domain/repository"
	"github.com/trip-editor/internal/infrastructure/maploader"
	"github.com/trip-editor/internal/infrastructure/mapview"
)

const (
	unknownPlace = "未知地点"
	// nationwideScope - область поиска AMap, для Google не имеет смысла
	nationwideScope = "全国"
	placesFieldMask = "places.displayName,places.formattedAddress,places.location"
)

type client struct {
	httpClient   *http.Client
	baseURL      string
	placesURL    string
	loaderURL    string
	apiKey       string
	mapID        string
	loadAttempts int
	loadInterval time.Duration
	loader       *maploader.Cache
	logger       *zap.Logger
}

// NewGoogleMapsClient создает адаптер международного провайдера карт
func NewGoogleMapsClient(cfg *config.GoogleMapsConfig, mapsCfg *config.MapsConfig, loader *maploader.Cache, logger *zap.Logger) repository.MapProvider {
	return &client{
		httpClient: &http.Client{
			Timeout: mapsCfg.RequestTimeout,
		},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		placesURL:    strings.TrimRight(cfg.PlacesURL, "/"),
		loaderURL:    cfg.LoaderURL,
		apiKey:       cfg.APIKey,
		mapID:        strings.TrimSpace(cfg.MapID),
		loadAttempts: mapsCfg.LoadAttempts,
		loadInterval: mapsCfg.LoadInterval,
		loader:       loader,
		logger:       logger.Named("google_maps"),
	}
}

func (c *client) Name() domain.ProviderName {
	return domain.ProviderGoogle
}

// Load запрашивает загрузчик JS API и ждет готовности пространства имен:
// не более loadAttempts опросов с интервалом loadInterval
func (c *client) Load(ctx context.Context, apiKey, _ string) (*domain.ProviderHandle, error) {
	return c.loader.Load(ctx, domain.ProviderGoogle, func(ctx context.Context) (*domain.ProviderHandle, error) {
		if strings.TrimSpace(apiKey) == "" {
			return nil, fmt.Errorf("google maps api key is empty")
		}

		query := url.Values{}
		query.Set("key", apiKey)
		query.Set("libraries", "places")
		query.Set("v", "weekly")
		query.Set("loading", "async")
		loaderURL := c.loaderURL + "?" + query.Encode()

		if err := c.waitForNamespace(ctx, loaderURL); err != nil {
			return nil, err
		}

		return &domain.ProviderHandle{
			Provider:  domain.ProviderGoogle,
			Version:   "weekly",
			LoaderURL: c.loaderURL,
			Plugins:   []string{"places"},
			APIKey:    apiKey,
			LoadedAt:  time.Now(),
		}, nil
	})
}

// waitForNamespace: 4xx - окончательная ошибка, 5xx и пустой ответ - повтор
func (c *client) waitForNamespace(ctx context.Context, loaderURL string) error {
	attempts := c.loadAttempts
	if attempts <= 0 {
		attempts = 1
	}

	ticker := time.NewTicker(c.loadInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		ready, err := c.probeLoader(ctx, loaderURL)
		if err != nil {
			return err
		}
		if ready {
			c.logger.Debug("Google Maps namespace ready", zap.Int("attempt", attempt))
			return nil
		}
		if attempt >= attempts {
			return fmt.Errorf("Google Maps SDK 加载超时")
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("google maps load interrupted: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *client) probeLoader(ctx context.Context, loaderURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loaderURL, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, fmt.Errorf("failed to execute request: %w", err)
		}
		c.logger.Debug("Google Maps loader probe failed", zap.Error(err))
		return false, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return false, fmt.Errorf("google maps loader error: status %d, body: %s", resp.StatusCode, string(body))
	case resp.StatusCode != http.StatusOK:
		return false, nil
	}
	return len(bytes.TrimSpace(body)) > 0, nil
}

func (c *client) CreateMap(container domain.MapContainer, opts domain.MapOptions) (domain.MapInstance, error) {
	return mapview.Create(domain.ProviderGoogle, c.loader, container, opts, c.logger)
}

func (c *client) Destroy(instance domain.MapInstance) {
	if m, ok := mapview.Lookup(instance, domain.ProviderGoogle); ok && m.Destroy() {
		c.logger.Debug("Map instance destroyed", zap.String("map_id", m.ID()))
	}
}

func (c *client) SetCenterZoom(instance domain.MapInstance, center domain.Coordinate, zoom int) {
	if m, ok := mapview.Lookup(instance, domain.ProviderGoogle); ok {
		m.SetCenterZoom(center, zoom)
	}
}

func (c *client) SetZoom(instance domain.MapInstance, zoom int) {
	if m, ok := mapview.Lookup(instance, domain.ProviderGoogle); ok {
		m.SetZoom(zoom)
	}
}

// UpsertMarkers: AdvancedMarker доступен только карте с mapId, иначе обычный Marker.
// Кнопка закрытия окна всегда скрыта
func (c *client) UpsertMarkers(instance domain.MapInstance, markers []domain.Marker) {
	m, ok := mapview.Lookup(instance, domain.ProviderGoogle)
	if !ok {
		return
	}
	style := mapview.MarkerStyle{Kind: domain.MarkerKindLegacy, ShowCloseButton: false}
	if c.mapID != "" {
		style.Kind = domain.MarkerKindAdvanced
	}
	m.ReplaceMarkers(markers, style)
}

type searchTextRequest struct {
	TextQuery string `json:"textQuery"`
	PageSize  int    `json:"pageSize"`
}

type searchTextResponse struct {
	Places []struct {
		DisplayName *struct {
			Text string `json:"text"`
		} `json:"displayName"`
		FormattedAddress string `json:"formattedAddress"`
		Location         *struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"location"`
	} `json:"places"`
}

type textSearchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		Vicinity         string `json:"vicinity"`
		Geometry         *struct {
			Location *struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Search сначала обращается к Places API (New), при его недоступности
// молча переходит на устаревший textsearch
func (c *client) Search(ctx context.Context, keyword, city string) []domain.SearchResult {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []domain.SearchResult{}
	}

	handle, err := c.Load(ctx, c.apiKey, "")
	if err != nil {
		c.logger.Warn("Google search skipped, SDK not loaded", zap.Error(err))
		return []domain.SearchResult{}
	}

	query := keyword
	if city = strings.TrimSpace(city); city != "" && city != nationwideScope {
		query = keyword + " " + city
	}

	results, err := c.searchText(ctx, handle.APIKey, query)
	if err != nil {
		c.logger.Debug("Places API unavailable, falling back to legacy text search", zap.Error(err))
		results, err = c.legacyTextSearch(ctx, handle.APIKey, query)
		if err != nil {
			c.logger.Warn("Google text search failed", zap.Error(err))
			return []domain.SearchResult{}
		}
	}

	c.logger.Debug("Google search completed",
		zap.String("keyword", keyword),
		zap.Int("results", len(results)))

	return results
}

func (c *client) searchText(ctx context.Context, apiKey, query string) ([]domain.SearchResult, error) {
	body, err := json.Marshal(searchTextRequest{TextQuery: query, PageSize: domain.MaxSearchResults})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.placesURL+"/v1/places:searchText", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", apiKey)
	req.Header.Set("X-Goog-FieldMask", placesFieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places API error: status %d", resp.StatusCode)
	}

	var payload searchTextResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]domain.SearchResult, 0, domain.MaxSearchResults)
	for _, place := range payload.Places {
		if place.Location == nil {
			continue
		}
		name := unknownPlace
		if place.DisplayName != nil && place.DisplayName.Text != "" {
			name = place.DisplayName.Text
		}
		results = append(results, domain.SearchResult{
			Name:     name,
			Address:  place.FormattedAddress,
			Location: domain.Coordinate{Lng: place.Location.Longitude, Lat: place.Location.Latitude},
		})
		if len(results) == domain.MaxSearchResults {
			break
		}
	}
	return results, nil
}

func (c *client) legacyTextSearch(ctx context.Context, apiKey, query string) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", apiKey)
	searchURL := c.baseURL + "/maps/api/place/textsearch/json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google maps API error: status %d", resp.StatusCode)
	}

	var payload textSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// ZERO_RESULTS и прочие статусы - просто пустая выдача
	if payload.Status != "OK" {
		c.logger.Debug("Legacy text search returned non-OK status", zap.String("status", payload.Status))
		return []domain.SearchResult{}, nil
	}

	results := make([]domain.SearchResult, 0, domain.MaxSearchResults)
	for _, place := range payload.Results {
		if place.Geometry == nil || place.Geometry.Location == nil {
			continue
		}
		name := place.Name
		if name == "" {
			name = unknownPlace
		}
		address := place.FormattedAddress
		if address == "" {
			address = place.Vicinity
		}
		results = append(results, domain.SearchResult{
			Name:     name,
			Address:  address,
			Location: domain.Coordinate{Lng: place.Geometry.Location.Lng, Lat: place.Geometry.Location.Lat},
		})
		if len(results) == domain.MaxSearchResults {
			break
		}
	}
	return results, nil
}
