package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInfoWindowContent(t *testing.T) {
	add := BuildInfoWindowContent(Marker{ActionType: ActionAdd, ImageURL: "http://img"})
	assert.Equal(t, UntitledPlace, add.Title)
	assert.Equal(t, "+", add.Glyph)
	assert.Equal(t, "#22c55e", add.GlyphColor)
	assert.Equal(t, "添加", add.GlyphLabel)
	assert.Equal(t, "预览图片", add.ImageAlt)

	del := BuildInfoWindowContent(Marker{Title: "故宫", Description: "北京"})
	assert.Equal(t, ActionDelete, del.ActionType)
	assert.Equal(t, "×", del.Glyph)
	assert.Equal(t, "删除", del.GlyphLabel)
	assert.Empty(t, del.ImageAlt)
}

func TestPOI_Accessors(t *testing.T) {
	p := NewPOI(map[string]interface{}{
		FieldTripName: "fallback",
		FieldPic:      " http://legacy ",
		"lng":         "116.4",
		"lat":         "39.9",
	})
	assert.Equal(t, "fallback", p.Title())
	assert.Equal(t, "http://legacy", p.ImageURL())
	assert.True(t, p.Placeable())
	assert.NotEmpty(t, p.ID)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(data), p.ID)
	assert.Contains(t, string(data), `"lng":"116.4"`)

	cp := p.Clone()
	cp.Merge(map[string]interface{}{"lng": nil})
	assert.False(t, cp.Placeable())
	assert.True(t, p.Placeable())
}

func TestProviderFromDomestic(t *testing.T) {
	_, ok := ProviderFromDomestic(nil)
	assert.False(t, ok)

	one, zero := 1, 0
	p, ok := ProviderFromDomestic(&one)
	assert.True(t, ok)
	assert.Equal(t, ProviderGaode, p)
	p, _ = ProviderFromDomestic(&zero)
	assert.Equal(t, ProviderGoogle, p)
	assert.Equal(t, 0, p.DomesticFlag())
	assert.Equal(t, ProviderGaode, p.Other())
}
