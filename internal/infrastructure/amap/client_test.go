package amap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trip-editor/internal/config"
	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/infrastructure/maploader"
	"github.com/trip-editor/internal/pkg/errors"
)

const placeTextBody = `{
	"status": "1",
	"info": "OK",
	"count": "7",
	"pois": [
		{"name": "故宫博物院", "address": "景山前街4号", "location": "116.397026,39.918058"},
		{"name": "故宫-午门", "address": [], "location": "116.397305,39.913614"},
		{"name": "坏点", "address": "x", "location": []},
		{"name": "4", "address": "a", "location": "116.1,39.1"},
		{"name": "5", "address": "b", "location": "116.2,39.2"},
		{"name": "6", "address": "c", "location": "116.3,39.3"},
		{"name": "7", "address": "d", "location": "116.4,39.4"}
	]
}`

func newTestServer(t *testing.T, loaderStatus int, searchBody string) (*httptest.Server, *int32, *int32) {
	t.Helper()
	var loaderCalls, searchCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/maps", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&loaderCalls, 1)
		assert.Equal(t, "1.4.15", r.URL.Query().Get("v"))
		assert.Equal(t, "AMap.Scale,AMap.PlaceSearch,AMap.InfoWindow", r.URL.Query().Get("plugin"))
		w.WriteHeader(loaderStatus)
		_, _ = w.Write([]byte("window.AMap = {};"))
	})
	mux.HandleFunc("/v3/place/text", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&searchCalls, 1)
		assert.Equal(t, "全国", r.URL.Query().Get("city"))
		assert.Equal(t, "5", r.URL.Query().Get("offset"))
		assert.Equal(t, "sec", r.URL.Query().Get("jscode"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &loaderCalls, &searchCalls
}

func newTestClient(serverURL string) *client {
	cfg := &config.AmapConfig{
		APIKey:       "test_key",
		SecurityCode: "sec",
		BaseURL:      serverURL,
		LoaderURL:    serverURL + "/maps",
		Version:      "1.4.15",
		City:         "全国",
	}
	mapsCfg := &config.MapsConfig{RequestTimeout: 5 * time.Second}
	loader := maploader.NewCache(5*time.Second, zap.NewNop())
	return NewAmapClient(cfg, mapsCfg, loader, zap.NewNop()).(*client)
}

func TestClient_Load(t *testing.T) {
	t.Run("memoized success", func(t *testing.T) {
		server, loaderCalls, _ := newTestServer(t, http.StatusOK, placeTextBody)
		c := newTestClient(server.URL)

		h1, err := c.Load(context.Background(), "test_key", "sec")
		require.NoError(t, err)
		h2, err := c.Load(context.Background(), "other_key", "")
		require.NoError(t, err)

		assert.Same(t, h1, h2)
		assert.Equal(t, "test_key", h2.APIKey)
		assert.Equal(t, int32(1), atomic.LoadInt32(loaderCalls))
	})

	t.Run("failure is not retried", func(t *testing.T) {
		server, loaderCalls, _ := newTestServer(t, http.StatusForbidden, placeTextBody)
		c := newTestClient(server.URL)

		_, err := c.Load(context.Background(), "test_key", "")
		require.Error(t, err)
		_, err = c.Load(context.Background(), "test_key", "")
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(loaderCalls))

		_, err = c.CreateMap(domain.MapContainer{ID: "map", Attached: true}, domain.MapOptions{})
		assert.ErrorIs(t, err, errors.ErrMapLoadFailed)
	})
}

func TestClient_CreateMap(t *testing.T) {
	server, _, _ := newTestServer(t, http.StatusOK, placeTextBody)
	c := newTestClient(server.URL)

	_, err := c.CreateMap(domain.MapContainer{ID: "map", Attached: true}, domain.MapOptions{})
	assert.ErrorIs(t, err, errors.ErrMapNotReady)

	_, err = c.Load(context.Background(), "test_key", "sec")
	require.NoError(t, err)

	_, err = c.CreateMap(domain.MapContainer{ID: "map", Attached: false}, domain.MapOptions{})
	assert.ErrorIs(t, err, errors.ErrInvalidContainer)

	instance, err := c.CreateMap(domain.MapContainer{ID: "map", Attached: true}, domain.MapOptions{})
	require.NoError(t, err)
	view := instance.View()
	assert.Equal(t, domain.ProviderGaode, view.Provider)
	assert.Equal(t, domain.DefaultCenter, view.Center)
	assert.Equal(t, domain.DefaultZoom, view.Zoom)

	c.UpsertMarkers(instance, []domain.Marker{{Position: domain.Coordinate{Lng: 116.4, Lat: 39.9}, ActionType: domain.ActionDelete}})
	view = instance.View()
	require.Len(t, view.Markers, 1)
	assert.Equal(t, domain.MarkerKindStandard, view.Markers[0].Kind)
	assert.False(t, view.Markers[0].ShowCloseButton)

	c.SetCenterZoom(instance, domain.Coordinate{Lng: 116.4, Lat: 39.9}, 15)
	assert.Equal(t, 15, instance.View().Zoom)

	c.Destroy(instance)
	c.Destroy(instance)
	assert.True(t, instance.Destroyed())

	c.SetZoom(instance, 3)
	assert.Equal(t, 15, instance.View().Zoom)
}

func TestClient_Search(t *testing.T) {
	t.Run("bounded results with normalized coordinates", func(t *testing.T) {
		server, _, _ := newTestServer(t, http.StatusOK, placeTextBody)
		c := newTestClient(server.URL)

		results := c.Search(context.Background(), " 故宫 ", "全国")
		// first five entries, one of them without a location
		require.Len(t, results, 4)
		assert.Equal(t, "故宫博物院", results[0].Name)
		assert.Equal(t, "景山前街4号", results[0].Address)
		assert.InDelta(t, 116.397026, results[0].Location.Lng, 1e-9)
		assert.InDelta(t, 39.918058, results[0].Location.Lat, 1e-9)
		assert.Empty(t, results[1].Address)
	})

	t.Run("empty keyword skips request", func(t *testing.T) {
		server, loaderCalls, searchCalls := newTestServer(t, http.StatusOK, placeTextBody)
		c := newTestClient(server.URL)

		results := c.Search(context.Background(), "   ", "全国")
		assert.NotNil(t, results)
		assert.Empty(t, results)
		assert.Zero(t, atomic.LoadInt32(searchCalls))
		assert.Zero(t, atomic.LoadInt32(loaderCalls))
	})

	t.Run("upstream error is empty list", func(t *testing.T) {
		server, _, _ := newTestServer(t, http.StatusOK, `{"status":"0","info":"INVALID_USER_KEY"}`)
		c := newTestClient(server.URL)

		results := c.Search(context.Background(), "故宫", "全国")
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("malformed payload is empty list", func(t *testing.T) {
		server, _, _ := newTestServer(t, http.StatusOK, `not json`)
		c := newTestClient(server.URL)
		assert.Empty(t, c.Search(context.Background(), "故宫", "全国"))
	})
}
