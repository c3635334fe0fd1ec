package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/trip-editor/internal/config"
	"github.com/trip-editor/internal/domain/repository"
)

const (
	descriptionPath = "/api/chat/getDes"
	imagePath       = "/api/trip/getBingImg"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewEnrichmentClient создает клиент сервисов описаний и изображений
func NewEnrichmentClient(cfg *config.EnrichmentConfig, logger *zap.Logger) repository.EnrichmentRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger.Named("enrichment"),
	}
}

// Description возвращает описание места. Ответ - JSON-строка, объект
// с полем data/des/result или просто текст
func (c *client) Description(ctx context.Context, name string) (string, error) {
	raw, err := c.get(ctx, descriptionPath, "chat", name)
	if err != nil {
		return "", err
	}
	return unwrapDescription(raw), nil
}

// ImageURL возвращает ссылку на изображение как есть
func (c *client) ImageURL(ctx context.Context, name string) (string, error) {
	return c.get(ctx, imagePath, "point", name)
}

func (c *client) get(ctx context.Context, path, param, value string) (string, error) {
	query := url.Values{}
	query.Set(param, value)
	reqURL := c.baseURL + path + "?" + query.Encode()

	c.logger.Debug("Calling enrichment API", zap.String("path", path), zap.String(param, value))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("enrichment API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	return string(body), nil
}

func unwrapDescription(raw string) string {
	if raw == "" {
		return raw
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return raw
	}

	switch v := parsed.(type) {
	case string:
		return v
	case map[string]interface{}:
		for _, key := range []string{"data", "des", "result"} {
			if field, ok := v[key]; ok && field != nil {
				if s, ok := field.(string); ok {
					return s
				}
				encoded, _ := json.Marshal(field)
				return string(encoded)
			}
		}
	}
	return raw
}
