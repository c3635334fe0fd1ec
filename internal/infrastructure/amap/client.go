package amap

import (
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
	"github.com/trip-editor/internal/pkg/geo"
)

// plugins - плагины JS API, нужные редактору
var plugins = []string{"AMap.Scale", "AMap.PlaceSearch", "AMap.InfoWindow"}

var markerStyle = mapview.MarkerStyle{
	Kind:            domain.MarkerKindStandard,
	ShowCloseButton: false,
}

type client struct {
	httpClient   *http.Client
	baseURL      string
	loaderURL    string
	version      string
	apiKey       string
	securityCode string
	loader       *maploader.Cache
	logger       *zap.Logger
}

// NewAmapClient создает адаптер внутреннего провайдера карт (Gaode)
func NewAmapClient(cfg *config.AmapConfig, mapsCfg *config.MapsConfig, loader *maploader.Cache, logger *zap.Logger) repository.MapProvider {
	return &client{
		httpClient: &http.Client{
			Timeout: mapsCfg.RequestTimeout,
		},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		loaderURL:    cfg.LoaderURL,
		version:      cfg.Version,
		apiKey:       cfg.APIKey,
		securityCode: cfg.SecurityCode,
		loader:       loader,
		logger:       logger.Named("amap"),
	}
}

func (c *client) Name() domain.ProviderName {
	return domain.ProviderGaode
}

// Load проверяет доступность загрузчика JS API. Выполняется один раз на процесс
func (c *client) Load(ctx context.Context, apiKey, securityToken string) (*domain.ProviderHandle, error) {
	return c.loader.Load(ctx, domain.ProviderGaode, func(ctx context.Context) (*domain.ProviderHandle, error) {
		if strings.TrimSpace(apiKey) == "" {
			return nil, fmt.Errorf("amap api key is empty")
		}

		query := url.Values{}
		query.Set("v", c.version)
		query.Set("key", apiKey)
		query.Set("plugin", strings.Join(plugins, ","))
		loaderURL := c.loaderURL + "?" + query.Encode()

		c.logger.Debug("Probing AMap JS API loader", zap.String("url", c.loaderURL))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, loaderURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("amap loader error: status %d, body: %s", resp.StatusCode, string(body))
		}

		return &domain.ProviderHandle{
			Provider:     domain.ProviderGaode,
			Version:      c.version,
			LoaderURL:    c.loaderURL,
			Plugins:      append([]string(nil), plugins...),
			APIKey:       apiKey,
			SecurityCode: securityToken,
			LoadedAt:     time.Now(),
		}, nil
	})
}

func (c *client) CreateMap(container domain.MapContainer, opts domain.MapOptions) (domain.MapInstance, error) {
	return mapview.Create(domain.ProviderGaode, c.loader, container, opts, c.logger)
}

func (c *client) Destroy(instance domain.MapInstance) {
	if m, ok := mapview.Lookup(instance, domain.ProviderGaode); ok && m.Destroy() {
		c.logger.Debug("Map instance destroyed", zap.String("map_id", m.ID()))
	}
}

// SetCenterZoom - аналог setZoomAndCenter
func (c *client) SetCenterZoom(instance domain.MapInstance, center domain.Coordinate, zoom int) {
	if m, ok := mapview.Lookup(instance, domain.ProviderGaode); ok {
		m.SetCenterZoom(center, zoom)
	}
}

func (c *client) SetZoom(instance domain.MapInstance, zoom int) {
	if m, ok := mapview.Lookup(instance, domain.ProviderGaode); ok {
		m.SetZoom(zoom)
	}
}

func (c *client) UpsertMarkers(instance domain.MapInstance, markers []domain.Marker) {
	if m, ok := mapview.Lookup(instance, domain.ProviderGaode); ok {
		m.ReplaceMarkers(markers, markerStyle)
	}
}

// placeTextResponse - ответ /v3/place/text
type placeTextResponse struct {
	Status string     `json:"status"`
	Info   string     `json:"info"`
	Pois   []poiEntry `json:"pois"`
}

// poiEntry: пустые строковые поля AMap отдает как []
type poiEntry struct {
	Name     json.RawMessage `json:"name"`
	Address  json.RawMessage `json:"address"`
	Location json.RawMessage `json:"location"`
}

// Search ищет места через веб-сервис place/text. Ошибки сводятся к пустому списку
func (c *client) Search(ctx context.Context, keyword, city string) []domain.SearchResult {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []domain.SearchResult{}
	}

	handle, err := c.Load(ctx, c.apiKey, c.securityCode)
	if err != nil {
		c.logger.Warn("AMap search skipped, SDK not loaded", zap.Error(err))
		return []domain.SearchResult{}
	}

	query := url.Values{}
	query.Set("key", handle.APIKey)
	query.Set("keywords", keyword)
	query.Set("city", city)
	query.Set("offset", fmt.Sprintf("%d", domain.MaxSearchResults))
	query.Set("page", "1")
	query.Set("extensions", "base")
	if handle.SecurityCode != "" {
		query.Set("jscode", handle.SecurityCode)
	}
	searchURL := c.baseURL + "/v3/place/text?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return []domain.SearchResult{}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("AMap search request failed", zap.Error(err))
		return []domain.SearchResult{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("AMap API returned error", zap.Int("status_code", resp.StatusCode))
		return []domain.SearchResult{}
	}

	var payload placeTextResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("Failed to decode AMap response", zap.Error(err))
		return []domain.SearchResult{}
	}

	if payload.Status != "1" {
		c.logger.Warn("AMap API returned non-OK status",
			zap.String("status", payload.Status),
			zap.String("info", payload.Info))
		return []domain.SearchResult{}
	}

	pois := payload.Pois
	if len(pois) > domain.MaxSearchResults {
		pois = pois[:domain.MaxSearchResults]
	}

	results := make([]domain.SearchResult, 0, len(pois))
	for _, poi := range pois {
		lng, lat, ok := geo.ParseLocationString(rawString(poi.Location))
		if !ok {
			c.logger.Debug("Skipping AMap POI without location", zap.String("name", rawString(poi.Name)))
			continue
		}
		results = append(results, domain.SearchResult{
			Name:     rawString(poi.Name),
			Address:  rawString(poi.Address),
			Location: domain.Coordinate{Lng: lng, Lat: lat},
		})
	}

	c.logger.Debug("AMap search completed",
		zap.String("keyword", keyword),
		zap.Int("results", len(results)))

	return results
}

// rawString возвращает строку или "" для [] и прочих нестроковых значений
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
