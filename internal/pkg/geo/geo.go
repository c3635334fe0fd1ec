package geo

import "math"

// ValidateCoordinates проверяет, что пара конечна и лежит в допустимых границах
func ValidateCoordinates(lng, lat float64) bool {
	if !IsFinite(lng) || !IsFinite(lat) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// IsFinite - не NaN и не бесконечность
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
