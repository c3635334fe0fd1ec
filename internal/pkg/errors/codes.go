package errors

import "net/http"

var (
	ErrSessionNotFound = New(
		"SESSION_NOT_FOUND",
		"Editor session not found",
		http.StatusNotFound,
	)

	ErrTripNotFound = New(
		"TRIP_NOT_FOUND",
		"Trip not found",
		http.StatusNotFound,
	)

	ErrProviderNotSelected = New(
		"PROVIDER_NOT_SELECTED",
		"Map provider is not selected",
		http.StatusConflict,
	)

	ErrUnknownProvider = New(
		"UNKNOWN_PROVIDER",
		"Unknown map provider",
		http.StatusBadRequest,
	)

	ErrMapLoadFailed = New(
		"MAP_LOAD_FAILED",
		"地图加载失败，请稍后重试。",
		http.StatusBadGateway,
	)

	ErrMapNotReady = New(
		"MAP_NOT_READY",
		"Map SDK is not loaded yet",
		http.StatusConflict,
	)

	ErrInvalidContainer = New(
		"INVALID_CONTAINER",
		"Map container is not attached",
		http.StatusBadRequest,
	)

	ErrMarkerNotFound = New(
		"MARKER_NOT_FOUND",
		"Marker not found",
		http.StatusNotFound,
	)

	ErrMapDestroyed = New(
		"MAP_DESTROYED",
		"Map instance is destroyed",
		http.StatusGone,
	)

	ErrInvalidDayIndex = New(
		"INVALID_DAY_INDEX",
		"Invalid day index",
		http.StatusBadRequest,
	)

	ErrInvalidPointIndex = New(
		"INVALID_POINT_INDEX",
		"Invalid point index",
		http.StatusBadRequest,
	)

	ErrSearchResultNotFound = New(
		"SEARCH_RESULT_NOT_FOUND",
		"Search result not found",
		http.StatusNotFound,
	)

	ErrNoActivePoint = New(
		"NO_ACTIVE_POINT",
		"No selected or candidate point",
		http.StatusConflict,
	)

	ErrDetailNotOpen = New(
		"DETAIL_NOT_OPEN",
		"Detail editor is not open",
		http.StatusConflict,
	)

	ErrTripNameRequired = New(
		"TRIP_NAME_REQUIRED",
		"请先填写行程名称",
		http.StatusBadRequest,
	)

	ErrSceneNameRequired = New(
		"SCENE_NAME_REQUIRED",
		"请先填写景点名称",
		http.StatusBadRequest,
	)

	ErrSaveInProgress = New(
		"SAVE_IN_PROGRESS",
		"Trip save is already in progress",
		http.StatusConflict,
	)

	ErrSaveFailed = New(
		"SAVE_FAILED",
		"行程保存失败",
		http.StatusBadGateway,
	)

	ErrEnrichmentFailed = New(
		"ENRICHMENT_FAILED",
		"Enrichment request failed",
		http.StatusBadGateway,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
