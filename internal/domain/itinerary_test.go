package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/trip-editor/internal/pkg/errors"
)

func point(name string, lng, lat float64) map[string]interface{} {
	return map[string]interface{}{
		FieldSceneName: name,
		FieldLongitude: lng,
		FieldLatitude:  lat,
	}
}

func ids(day []*POI) []string {
	out := make([]string, len(day))
	for i, p := range day {
		out[i] = p.ID
	}
	return out
}

func newTestItinerary(t *testing.T, sizes ...int) *Itinerary {
	t.Helper()
	it := NewItinerary()
	for d, size := range sizes {
		it.AddDay()
		for p := 0; p < size; p++ {
			_, err := it.AddPoint(d, point(DayLabel(d), 116+float64(p), 39))
			require.NoError(t, err)
		}
	}
	return it
}

func TestItinerary_AddDay(t *testing.T) {
	it := NewItinerary()
	_, ok := it.Expanded()
	assert.False(t, ok)

	assert.Equal(t, 0, it.AddDay())
	assert.Equal(t, 1, it.AddDay())

	expanded, ok := it.Expanded()
	require.True(t, ok)
	assert.Equal(t, 1, expanded)
	assert.Equal(t, 2, it.DayCount())
}

func TestItinerary_AddPoint(t *testing.T) {
	t.Run("creates first day when empty", func(t *testing.T) {
		it := NewItinerary()
		ref, err := it.AddPoint(3, point("故宫", 116.397, 39.916))
		require.NoError(t, err)
		assert.Equal(t, PointRef{DayIndex: 0, PointIndex: 0}, ref)
		assert.Equal(t, 1, it.DayCount())
	})

	t.Run("invalid day", func(t *testing.T) {
		it := newTestItinerary(t, 1)
		_, err := it.AddPoint(5, point("x", 1, 1))
		assert.ErrorIs(t, err, apperrors.ErrInvalidDayIndex)
	})

	t.Run("appends to end", func(t *testing.T) {
		it := newTestItinerary(t, 2)
		ref, err := it.AddPoint(0, point("x", 1, 1))
		require.NoError(t, err)
		assert.Equal(t, PointRef{DayIndex: 0, PointIndex: 2}, ref)
	})
}

func TestItinerary_RemovePoint(t *testing.T) {
	t.Run("last point prunes its day", func(t *testing.T) {
		it := newTestItinerary(t, 2, 1, 3)
		before := it.DayCount()

		require.NoError(t, it.RemovePoint(1, 0))

		assert.Equal(t, before-1, it.DayCount())
		assert.Equal(t, 5, it.PointCount())
	})

	t.Run("other empty days are kept", func(t *testing.T) {
		it := newTestItinerary(t, 1, 0, 1)
		require.NoError(t, it.RemovePoint(2, 0))
		assert.Equal(t, 2, it.DayCount())
	})

	t.Run("clears selection", func(t *testing.T) {
		it := newTestItinerary(t, 3)
		require.NoError(t, it.Select(PointRef{DayIndex: 0, PointIndex: 2}))
		require.NoError(t, it.RemovePoint(0, 0))
		_, ok := it.Selection()
		assert.False(t, ok)
	})

	t.Run("invalid point", func(t *testing.T) {
		it := newTestItinerary(t, 1)
		assert.ErrorIs(t, it.RemovePoint(0, 1), apperrors.ErrInvalidPointIndex)
		assert.ErrorIs(t, it.RemovePoint(-1, 0), apperrors.ErrInvalidDayIndex)
	})
}

func TestItinerary_RemoveDay(t *testing.T) {
	t.Run("clears selection in removed day", func(t *testing.T) {
		it := newTestItinerary(t, 1, 2)
		require.NoError(t, it.Select(PointRef{DayIndex: 1, PointIndex: 1}))
		require.NoError(t, it.RemoveDay(1))
		_, ok := it.Selection()
		assert.False(t, ok)
		assert.Equal(t, 1, it.DayCount())
	})

	t.Run("selection in later day shifts down", func(t *testing.T) {
		it := newTestItinerary(t, 1, 2)
		require.NoError(t, it.Select(PointRef{DayIndex: 1, PointIndex: 1}))
		require.NoError(t, it.RemoveDay(0))
		ref, ok := it.Selection()
		require.True(t, ok)
		assert.Equal(t, PointRef{DayIndex: 0, PointIndex: 1}, ref)
	})

	t.Run("expanded index follows", func(t *testing.T) {
		it := newTestItinerary(t, 1, 1, 1)
		require.NoError(t, it.SetExpanded(2))
		require.NoError(t, it.RemoveDay(0))
		expanded, ok := it.Expanded()
		require.True(t, ok)
		assert.Equal(t, 1, expanded)
	})
}

func TestItinerary_ReorderPoint(t *testing.T) {
	it := newTestItinerary(t, 4)
	day, _ := it.Day(0)
	original := ids(day)

	require.NoError(t, it.ReorderPoint(0, 0, 2))
	day, _ = it.Day(0)
	moved := ids(day)
	assert.ElementsMatch(t, original, moved)
	assert.Equal(t, []string{original[1], original[2], original[0], original[3]}, moved)

	require.NoError(t, it.ReorderPoint(0, 2, 0))
	day, _ = it.Day(0)
	assert.Equal(t, original, ids(day))

	t.Run("selection follows moved point", func(t *testing.T) {
		require.NoError(t, it.Select(PointRef{DayIndex: 0, PointIndex: 3}))
		require.NoError(t, it.ReorderPoint(0, 3, 1))
		ref, ok := it.Selection()
		require.True(t, ok)
		assert.Equal(t, PointRef{DayIndex: 0, PointIndex: 1}, ref)
	})

	t.Run("out of range target", func(t *testing.T) {
		assert.ErrorIs(t, it.ReorderPoint(0, 0, 4), apperrors.ErrInvalidPointIndex)
	})
}

func TestItinerary_MovePointAcrossDays(t *testing.T) {
	t.Run("drag onto empty day", func(t *testing.T) {
		it := newTestItinerary(t, 2, 0)
		require.NoError(t, it.Select(PointRef{DayIndex: 0, PointIndex: 1}))
		total := it.PointCount()

		ref, err := it.MovePointAcrossDays(0, 1, 1)
		require.NoError(t, err)

		assert.Equal(t, PointRef{DayIndex: 1, PointIndex: 0}, ref)
		assert.Equal(t, total, it.PointCount())
		day0, _ := it.Day(0)
		day1, _ := it.Day(1)
		assert.Len(t, day0, 1)
		assert.Len(t, day1, 1)

		sel, ok := it.Selection()
		require.True(t, ok)
		assert.Equal(t, PointRef{DayIndex: 1, PointIndex: 0}, sel)

		expanded, _ := it.Expanded()
		assert.Equal(t, 1, expanded)
	})

	t.Run("emptied source day is kept", func(t *testing.T) {
		it := newTestItinerary(t, 1, 1)
		_, err := it.MovePointAcrossDays(0, 0, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, it.DayCount())
		day0, _ := it.Day(0)
		assert.Empty(t, day0)
	})

	t.Run("same day keeps order", func(t *testing.T) {
		it := newTestItinerary(t, 3)
		before := make([]string, 0, 3)
		day, _ := it.Day(0)
		for _, p := range day {
			before = append(before, p.ID)
		}

		ref, err := it.MovePointAcrossDays(0, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, PointRef{DayIndex: 0, PointIndex: 0}, ref)

		day, _ = it.Day(0)
		after := make([]string, 0, len(day))
		for _, p := range day {
			after = append(after, p.ID)
		}
		assert.Equal(t, before, after)
	})

	t.Run("invalid target", func(t *testing.T) {
		it := newTestItinerary(t, 1)
		_, err := it.MovePointAcrossDays(0, 0, 3)
		assert.ErrorIs(t, err, apperrors.ErrInvalidDayIndex)
		assert.Equal(t, 1, it.PointCount())
	})
}

func TestItinerary_UpdateFields(t *testing.T) {
	it := NewItinerary()
	_, err := it.AddPoint(0, map[string]interface{}{FieldSceneName: "no coords"})
	require.NoError(t, err)

	p, _ := it.Point(PointRef{})
	assert.False(t, p.Placeable())

	require.NoError(t, it.UpdateFields(0, 0, map[string]interface{}{FieldDescription: "desc"}))
	assert.False(t, p.Placeable())
	assert.Equal(t, "desc", p.Description())

	require.NoError(t, it.UpdateFields(0, 0, map[string]interface{}{FieldLongitude: 116.4, FieldLatitude: "39.9"}))
	c, ok := p.Placement()
	require.True(t, ok)
	assert.Equal(t, Coordinate{Lng: 116.4, Lat: 39.9}, c)
}

func TestItinerary_ToggleDay(t *testing.T) {
	it := newTestItinerary(t, 1, 1)
	require.NoError(t, it.ToggleDay(0))
	expanded, ok := it.Expanded()
	require.True(t, ok)
	assert.Equal(t, 0, expanded)

	require.NoError(t, it.ToggleDay(0))
	_, ok = it.Expanded()
	assert.False(t, ok)

	assert.ErrorIs(t, it.ToggleDay(9), apperrors.ErrInvalidDayIndex)
}

func TestItinerary_FirstPlaceableAndBounds(t *testing.T) {
	it := NewItinerary()
	it.AddDay()
	_, _ = it.AddPoint(0, map[string]interface{}{FieldSceneName: "nowhere"})
	_, _ = it.AddPoint(0, point("a", 116, 39))
	_, _ = it.AddPoint(0, point("b", 118, 41))

	ref, ok := it.FirstPlaceable()
	require.True(t, ok)
	assert.Equal(t, PointRef{DayIndex: 0, PointIndex: 1}, ref)

	bound, ok := it.Bounds()
	require.True(t, ok)
	assert.Equal(t, Coordinate{Lng: 117, Lat: 40}, CoordinateFromPoint(bound.Center()))

	_, ok = NewItinerary().Bounds()
	assert.False(t, ok)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "第 2 天", DayLabel(1))
	assert.Equal(t, "POI 3", PointLabel(NewPOI(nil), 2))
	assert.Equal(t, "故宫", PointLabel(NewPOI(map[string]interface{}{FieldSceneName: " 故宫 "}), 0))
}
