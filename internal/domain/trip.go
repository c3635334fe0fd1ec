package domain

import "strings"

// Trip - метаданные поездки и ее маршрут
type Trip struct {
	UID      string `json:"uid" db:"uid"`
	Designer string `json:"designer" db:"designer"`
	TripName string `json:"tripName" db:"trip_name"`
	Country  string `json:"country" db:"country"`
	City     string `json:"city" db:"city"`
	Tags     string `json:"tags" db:"tags"`
	// Domestic: 1 - внутренний провайдер, 0 - международный, nil - не выбран
	Domestic *int `json:"domestic,omitempty" db:"domestic"`
}

// NewEmptyTrip - пустая поездка; designer берется из имени пользователя сессии
func NewEmptyTrip(userName string, domestic *int) *Trip {
	t := &Trip{Designer: userName}
	if domestic != nil {
		v := *domestic
		t.Domestic = &v
	}
	return t
}

// NormalizedName - имя поездки без пробелов по краям
func (t *Trip) NormalizedName() string {
	return strings.TrimSpace(t.TripName)
}

// SetDomestic выставляет флаг провайдера
func (t *Trip) SetDomestic(flag int) {
	t.Domestic = &flag
}

// Clone - копия метаданных
func (t *Trip) Clone() *Trip {
	cp := *t
	if t.Domestic != nil {
		v := *t.Domestic
		cp.Domestic = &v
	}
	return &cp
}
