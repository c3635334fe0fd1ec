package domain

import (
	"strings"
	"time"
)

// ProviderName - идентификатор провайдера карт
type ProviderName string

const (
	// ProviderGaode - внутренний провайдер (AMap)
	ProviderGaode ProviderName = "gaode"
	// ProviderGoogle - международный провайдер
	ProviderGoogle ProviderName = "google"
)

// ParseProvider разбирает имя провайдера
func ParseProvider(s string) (ProviderName, bool) {
	switch ProviderName(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderGaode:
		return ProviderGaode, true
	case ProviderGoogle:
		return ProviderGoogle, true
	}
	return "", false
}

// ProviderFromDomestic: 1 - внутренний, 0 - международный, nil - не определен
func ProviderFromDomestic(domestic *int) (ProviderName, bool) {
	if domestic == nil {
		return "", false
	}
	if *domestic == 1 {
		return ProviderGaode, true
	}
	return ProviderGoogle, true
}

// DomesticFlag - значение флага domestic для провайдера
func (p ProviderName) DomesticFlag() int {
	if p == ProviderGaode {
		return 1
	}
	return 0
}

// Other - противоположный провайдер
func (p ProviderName) Other() ProviderName {
	if p == ProviderGaode {
		return ProviderGoogle
	}
	return ProviderGaode
}

// ProviderHandle - результат однократной загрузки SDK
type ProviderHandle struct {
	Provider     ProviderName `json:"provider"`
	Version      string       `json:"version,omitempty"`
	LoaderURL    string       `json:"loader_url"`
	Plugins      []string     `json:"plugins,omitempty"`
	APIKey       string       `json:"-"`
	SecurityCode string       `json:"-"`
	LoadedAt     time.Time    `json:"loaded_at"`
}

// MapContainer - элемент, в который монтируется карта
type MapContainer struct {
	ID       string `json:"id"`
	Attached bool   `json:"attached"`
}

// MapOptions - параметры создания карты
type MapOptions struct {
	Center Coordinate
	Zoom   int
}

// MapInstance - живой экземпляр карты провайдера
type MapInstance interface {
	ID() string
	Provider() ProviderName
	View() MapView
	Destroyed() bool

	// ClickMarker - клик по телу маркера: открывает его окно, закрывая остальные
	ClickMarker(index int) error
	// ClickGlyph - клик по глифу действия
	ClickGlyph(index int) error
	// ClickInfoWindow - клик по содержимому окна
	ClickInfoWindow(index int) error
}

// MaxSearchResults - предел выдачи поиска
const MaxSearchResults = 5

// SearchResult - результат поиска места
type SearchResult struct {
	Name     string     `json:"name"`
	Address  string     `json:"address"`
	Location Coordinate `json:"location"`
}
