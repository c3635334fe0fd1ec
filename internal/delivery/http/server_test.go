package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trip-editor/internal/config"
	httpDelivery "github.com/trip-editor/internal/delivery/http"
	"github.com/trip-editor/internal/delivery/http/handler"
	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/domain/repository"
	"github.com/trip-editor/internal/infrastructure/amap"
	"github.com/trip-editor/internal/infrastructure/enrichment"
	"github.com/trip-editor/internal/infrastructure/maploader"
	apperrors "github.com/trip-editor/internal/pkg/errors"
	"github.com/trip-editor/internal/usecase"
	"github.com/trip-editor/internal/usecase/dto"
)

const placeTextBody = `{
	"status": "1",
	"info": "OK",
	"pois": [
		{"name": "故宫博物院", "address": "景山前街4号", "location": "116.397026,39.918058"},
		{"name": "故宫-午门", "address": [], "location": "116.397305,39.913614"}
	]
}`

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

type stubHealth struct {
	err error
}

func (s stubHealth) Health(context.Context) error { return s.err }

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *apperrors.AppError `json:"error"`
}

type testEnv struct {
	server   *httpDelivery.Server
	trips    *MockTripRepository
	editorUC *usecase.EditorUseCase
}

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/maps", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("window.AMap = {};"))
	})
	mux.HandleFunc("/v3/place/text", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(placeTextBody))
	})
	mux.HandleFunc("/api/chat/getDes", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":"明清两代的皇家宫殿"}`))
	})
	mux.HandleFunc("/api/trip/getBingImg", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("https://img.example.com/gugong.jpg"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestEnv(t *testing.T, dbErr error) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	upstream := newUpstream(t)

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Amap: config.AmapConfig{
			APIKey:       "test_key",
			SecurityCode: "sec",
			BaseURL:      upstream.URL,
			LoaderURL:    upstream.URL + "/maps",
			Version:      "1.4.15",
			City:         "全国",
		},
		Maps:       config.MapsConfig{RequestTimeout: 5 * time.Second},
		Enrichment: config.EnrichmentConfig{BaseURL: upstream.URL, RequestTimeout: 5 * time.Second},
	}

	loader := maploader.NewCache(5*time.Second, logger)
	amapClient := amap.NewAmapClient(&cfg.Amap, &cfg.Maps, loader, logger)
	enrichmentClient := enrichment.NewEnrichmentClient(&cfg.Enrichment, logger)

	trips := &MockTripRepository{}
	searchUC := usecase.NewSearchUseCase(nil, logger, time.Minute, cfg.Amap.City)
	bindings := map[domain.ProviderName]usecase.ProviderBinding{
		domain.ProviderGaode: {Provider: amapClient, APIKey: cfg.Amap.APIKey, SecurityToken: cfg.Amap.SecurityCode},
	}
	editorUC := usecase.NewEditorUseCase(bindings, searchUC, trips, enrichmentClient, 15, logger)
	t.Cleanup(editorUC.CloseAll)
	tripUC := usecase.NewTripUseCase(trips, logger)

	health := handler.NewHealthHandler(map[string]handler.HealthChecker{
		"postgres": stubHealth{err: dbErr},
		"redis":    stubHealth{},
	}, editorUC, logger)

	server := httpDelivery.NewServer(
		cfg,
		logger,
		handler.NewEditorHandler(editorUC, logger),
		handler.NewTripHandler(tripUC, logger),
		health,
	)

	return &testEnv{server: server, trips: trips, editorUC: editorUC}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.server.App().Test(req, 10000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (e *testEnv) session(t *testing.T, env envelope) dto.SessionView {
	t.Helper()
	var view dto.SessionView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	return view
}

func (e *testEnv) open(t *testing.T, req dto.CreateSessionRequest) dto.SessionView {
	t.Helper()
	status, env := e.do(t, http.MethodPost, "/api/v1/editor/sessions", req)
	require.Equal(t, http.StatusCreated, status)
	return e.session(t, env)
}

func intPtr(v int) *int { return &v }

func TestEditorAPI_SearchAddSave(t *testing.T) {
	env := newTestEnv(t, nil)

	view := env.open(t, dto.CreateSessionRequest{Domestic: intPtr(1), ContainerID: "trip-map"})
	assert.Equal(t, domain.ProviderGaode, view.Provider.Active)
	require.NotNil(t, view.Map)
	assert.Equal(t, "trip-map", view.Map.ContainerID)
	assert.Empty(t, view.Map.Markers)

	base := "/api/v1/editor/sessions/" + view.ID

	status, resp := env.do(t, http.MethodPost, base+"/search", dto.SearchRequest{Keyword: "故宫"})
	require.Equal(t, http.StatusOK, status)
	view = env.session(t, resp)
	require.Len(t, view.Search.Results, 2)
	assert.Equal(t, "results", view.Search.Status)
	assert.Equal(t, "故宫博物院", view.Search.Results[0].Name)

	status, resp = env.do(t, http.MethodPost, base+"/search/results/0/select", nil)
	require.Equal(t, http.StatusOK, status)
	view = env.session(t, resp)
	require.NotNil(t, view.Candidate)
	assert.Equal(t, "故宫博物院", view.Candidate.Title)
	require.Len(t, view.Map.Markers, 1)
	assert.Equal(t, domain.ActionAdd, view.Map.Markers[0].InfoWindow.ActionType)

	// "+" glyph confirms the candidate into the first day
	status, resp = env.do(t, http.MethodPost, base+"/markers/0/glyph", nil)
	require.Equal(t, http.StatusOK, status)
	view = env.session(t, resp)
	assert.Nil(t, view.Candidate)
	assert.Equal(t, 1, view.PointCount)
	require.NotNil(t, view.Selection)
	assert.Equal(t, domain.PointRef{DayIndex: 0, PointIndex: 0}, *view.Selection)
	require.Len(t, view.Map.Markers, 1)
	assert.Equal(t, domain.ActionDelete, view.Map.Markers[0].InfoWindow.ActionType)

	status, resp = env.do(t, http.MethodPost, base+"/save", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "TRIP_NAME_REQUIRED", resp.Error.Code)

	env.trips.On("Save", mock.Anything, mock.MatchedBy(func(doc *repository.TripDocument) bool {
		days, ok := doc.Detail.([][]map[string]interface{})
		return ok && len(days) == 1 && len(days[0]) == 1 && doc.TripName == "北京一日游"
	})).Return("trip-1", nil).Once()

	name := "北京一日游"
	status, resp = env.do(t, http.MethodPost, base+"/save", dto.SaveTripRequest{TripName: &name})
	require.Equal(t, http.StatusOK, status)
	view = env.session(t, resp)
	assert.Equal(t, "trip-1", view.Trip.UID)
	assert.Equal(t, "北京一日游", view.Trip.TripName)
	env.trips.AssertExpectations(t)

	status, _ = env.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, resp = env.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SESSION_NOT_FOUND", resp.Error.Code)
	assert.Equal(t, 0, env.editorUC.Count())
}

func TestEditorAPI_Itinerary(t *testing.T) {
	env := newTestEnv(t, nil)

	view := env.open(t, dto.CreateSessionRequest{
		Trip: &dto.TripPayload{
			TripName: "北京",
			Detail: []interface{}{
				[]interface{}{
					map[string]interface{}{"nameOfScence": "故宫", "longitude": 116.397, "latitude": 39.918},
					map[string]interface{}{"nameOfScence": "天坛", "longitude": 116.41, "latitude": 39.88},
				},
				[]interface{}{
					map[string]interface{}{"nameOfScence": "颐和园", "longitude": 116.27, "latitude": 39.99},
				},
			},
		},
	})
	base := "/api/v1/editor/sessions/" + view.ID
	require.NotNil(t, view.Selection)
	assert.Equal(t, domain.PointRef{DayIndex: 0, PointIndex: 0}, *view.Selection)
	assert.Equal(t, 3, view.PointCount)

	t.Run("reorder within day", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPost, base+"/days/0/points/reorder", dto.ReorderPointRequest{From: 1, To: 0})
		require.Equal(t, http.StatusOK, status)
		view := env.session(t, resp)
		assert.Equal(t, "天坛", view.Days[0].Points[0].Label)
	})

	t.Run("move across days", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPost, base+"/days/0/points/0/move", dto.MovePointRequest{TargetDay: 1})
		require.Equal(t, http.StatusOK, status)
		view := env.session(t, resp)
		require.Len(t, view.Days[1].Points, 2)
		assert.Equal(t, "天坛", view.Days[1].Points[1].Label)
	})

	t.Run("update point fields", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPatch, base+"/days/0/points/0", dto.UpdatePointRequest{
			Fields: map[string]interface{}{"des": "紫禁城"},
		})
		require.Equal(t, http.StatusOK, status)
		view := env.session(t, resp)
		assert.Equal(t, "紫禁城", view.Days[0].Points[0].Fields["des"])
	})

	t.Run("add and remove day", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPost, base+"/days", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, env.session(t, resp).Days, 3)

		status, resp = env.do(t, http.MethodDelete, base+"/days/2", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, env.session(t, resp).Days, 2)
	})

	t.Run("bad indexes", func(t *testing.T) {
		status, resp := env.do(t, http.MethodDelete, base+"/days/abc", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_DAY_INDEX", resp.Error.Code)

		status, resp = env.do(t, http.MethodPost, base+"/days/0/points/99/select", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_POINT_INDEX", resp.Error.Code)
	})
}

func TestEditorAPI_Detail(t *testing.T) {
	env := newTestEnv(t, nil)

	view := env.open(t, dto.CreateSessionRequest{
		Trip: &dto.TripPayload{
			Detail: []interface{}{
				[]interface{}{map[string]interface{}{"nameOfScence": "故宫", "longitude": 116.397, "latitude": 39.918}},
			},
		},
	})
	base := "/api/v1/editor/sessions/" + view.ID

	status, resp := env.do(t, http.MethodGet, base+"/detail", nil)
	require.Equal(t, http.StatusOK, status)
	view = env.session(t, resp)
	require.NotNil(t, view.Detail)
	assert.Equal(t, "point", view.Detail.Source)

	status, resp = env.do(t, http.MethodPost, base+"/detail/description", nil)
	require.Equal(t, http.StatusOK, status)
	view = env.session(t, resp)
	assert.Contains(t, detailValue(view.Detail, "des"), "皇家宫殿")

	status, resp = env.do(t, http.MethodPost, base+"/detail/image", nil)
	require.Equal(t, http.StatusOK, status)
	view = env.session(t, resp)
	assert.Equal(t, "https://img.example.com/gugong.jpg", detailValue(view.Detail, "picURL"))

	status, resp = env.do(t, http.MethodPut, base+"/detail", dto.DetailFieldsRequest{
		Fields: map[string]string{"latitude": "39.9163"},
	})
	require.Equal(t, http.StatusOK, status)
	view = env.session(t, resp)
	assert.Nil(t, view.Detail)
	point := view.Days[0].Points[0]
	assert.Equal(t, 39.9163, point.Fields["latitude"])
	assert.Equal(t, "https://img.example.com/gugong.jpg", point.Fields["picURL"])

	status, resp = env.do(t, http.MethodPatch, base+"/detail", dto.DetailFieldsRequest{
		Fields: map[string]string{"des": "x"},
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DETAIL_NOT_OPEN", resp.Error.Code)

	status, resp = env.do(t, http.MethodPatch, base+"/detail", map[string]interface{}{
		"fields": map[string]string{"unknown": "x"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func detailValue(view *dto.DetailView, name string) string {
	if view == nil {
		return ""
	}
	for _, f := range view.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

func TestEditorAPI_Validation(t *testing.T) {
	env := newTestEnv(t, nil)

	view := env.open(t, dto.CreateSessionRequest{})
	base := "/api/v1/editor/sessions/" + view.ID
	assert.Equal(t, "undetermined", view.Provider.State)

	t.Run("unknown provider name", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPut, base+"/provider", dto.SelectProviderRequest{Provider: "bing"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
	})

	t.Run("search without provider", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPost, base+"/search", dto.SearchRequest{Keyword: "故宫"})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "PROVIDER_NOT_SELECTED", resp.Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/editor/sessions", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		resp, err := env.server.App().Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("empty body opens a blank session", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPost, "/api/v1/editor/sessions", nil)
		require.Equal(t, http.StatusCreated, status)
		blank := env.session(t, resp)
		assert.NotEmpty(t, blank.ID)
		assert.Empty(t, blank.Days)
	})

	t.Run("marker click without map", func(t *testing.T) {
		status, resp := env.do(t, http.MethodPost, base+"/markers/0/click", nil)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "MAP_NOT_READY", resp.Error.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		status, resp := env.do(t, http.MethodGet, "/api/v1/nowhere", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "ROUTE_NOT_FOUND", resp.Error.Code)
	})
}

func TestTripAPI(t *testing.T) {
	env := newTestEnv(t, nil)

	env.trips.On("GetByUID", mock.Anything, "trip-1").Return(&repository.TripDocument{
		Trip:   domain.Trip{UID: "trip-1", TripName: "北京"},
		Detail: "",
	}, nil)
	env.trips.On("GetByUID", mock.Anything, "missing").Return(nil, apperrors.ErrTripNotFound)
	env.trips.On("GetByUID", mock.Anything, "broken").Return(nil, apperrors.ErrDatabaseError)

	status, resp := env.do(t, http.MethodGet, "/api/v1/trips/trip-1", nil)
	require.Equal(t, http.StatusOK, status)
	var trip dto.TripResponse
	require.NoError(t, json.Unmarshal(resp.Data, &trip))
	assert.Equal(t, "北京", trip.TripName)

	status, resp = env.do(t, http.MethodGet, "/api/v1/trips/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "TRIP_NOT_FOUND", resp.Error.Code)

	status, _ = env.do(t, http.MethodGet, "/api/v1/trips/broken", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.open(t, dto.CreateSessionRequest{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		resp, err := env.server.App().Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Status   string `json:"status"`
			Sessions int    `json:"sessions"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, 1, body.Sessions)
	})

	t.Run("degraded", func(t *testing.T) {
		env := newTestEnv(t, errors.New("connection refused"))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		resp, err := env.server.App().Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}
