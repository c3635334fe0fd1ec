package mapview

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/pkg/errors"
)

func newInstance() *Instance {
	return New(domain.ProviderGaode, domain.MapContainer{ID: "map", Attached: true},
		domain.MapOptions{Center: domain.DefaultCenter, Zoom: domain.DefaultZoom}, zap.NewNop())
}

func TestInstance_ReplaceMarkers(t *testing.T) {
	m := newInstance()
	style := MarkerStyle{Kind: domain.MarkerKindStandard}

	n := m.ReplaceMarkers([]domain.Marker{
		{Position: domain.Coordinate{Lng: 116.4, Lat: 39.9}, Title: "a"},
		{Position: domain.Coordinate{Lng: math.NaN(), Lat: 39.9}, Title: "bad"},
		{Position: domain.Coordinate{Lng: 116.5, Lat: 39.8}, Title: "b", ActionType: domain.ActionAdd},
	}, style)
	assert.Equal(t, 2, n)

	view := m.View()
	require.Len(t, view.Markers, 2)
	assert.False(t, view.Markers[0].InfoWindowOpen)
	assert.True(t, view.Markers[1].InfoWindowOpen)
	assert.Equal(t, "+", view.Markers[1].InfoWindow.Glyph)
	assert.Equal(t, 1, view.Markers[1].Index)

	// replacing again drops the previous set
	m.ReplaceMarkers(nil, style)
	assert.Empty(t, m.View().Markers)
}

func TestInstance_ClickDispatch(t *testing.T) {
	m := newInstance()
	var actions, infos int
	m.ReplaceMarkers([]domain.Marker{
		{Position: domain.Coordinate{Lng: 1, Lat: 1}},
		{
			Position:          domain.Coordinate{Lng: 2, Lat: 2},
			OnAction:          func() { actions++ },
			OnInfoWindowClick: func() { infos++ },
		},
	}, MarkerStyle{})

	require.NoError(t, m.ClickMarker(0))
	view := m.View()
	assert.True(t, view.Markers[0].InfoWindowOpen)
	assert.False(t, view.Markers[1].InfoWindowOpen)

	require.NoError(t, m.ClickGlyph(1))
	require.NoError(t, m.ClickInfoWindow(1))
	assert.Equal(t, 1, actions)
	assert.Equal(t, 1, infos)

	assert.ErrorIs(t, m.ClickGlyph(5), errors.ErrMarkerNotFound)
	// a marker without a callback is not an error
	assert.NoError(t, m.ClickGlyph(0))
}

func TestInstance_CallbackMayReenter(t *testing.T) {
	m := newInstance()
	m.ReplaceMarkers([]domain.Marker{{
		Position: domain.Coordinate{Lng: 1, Lat: 1},
		OnAction: func() { m.ReplaceMarkers(nil, MarkerStyle{}) },
	}}, MarkerStyle{})

	require.NoError(t, m.ClickGlyph(0))
	assert.Empty(t, m.View().Markers)
}

func TestInstance_Destroy(t *testing.T) {
	m := newInstance()
	m.ReplaceMarkers([]domain.Marker{{Position: domain.Coordinate{Lng: 1, Lat: 1}}}, MarkerStyle{})

	assert.True(t, m.Destroy())
	assert.False(t, m.Destroy())
	assert.True(t, m.Destroyed())
	assert.Empty(t, m.View().Markers)

	m.SetCenterZoom(domain.Coordinate{Lng: 5, Lat: 5}, 3)
	m.SetZoom(1)
	assert.Equal(t, domain.DefaultCenter, m.View().Center)
	assert.Equal(t, domain.DefaultZoom, m.View().Zoom)

	assert.Zero(t, m.ReplaceMarkers([]domain.Marker{{Position: domain.Coordinate{Lng: 1, Lat: 1}}}, MarkerStyle{}))
	assert.ErrorIs(t, m.ClickMarker(0), errors.ErrMapDestroyed)
}
