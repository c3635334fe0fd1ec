package domain

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/trip-editor/internal/pkg/errors"
)

// PointRef - позиция точки в маршруте
type PointRef struct {
	DayIndex   int `json:"day_index"`
	PointIndex int `json:"point_index"`
}

// noDay - ни один день не раскрыт
const noDay = -1

// Itinerary - маршрут поездки по дням.
// Выбор хранится по стабильному ID точки и разрешается в индексы при чтении,
// поэтому структурные операции не патчат индексы выбора вручную.
// Раскрыт не более чем один день.
type Itinerary struct {
	days       [][]*POI
	expanded   int
	selectedID string
}

// NewItinerary - создание пустого маршрута
func NewItinerary() *Itinerary {
	return &Itinerary{expanded: noDay}
}

// NewItineraryFromDays - маршрут из готовых дней
func NewItineraryFromDays(days [][]*POI) *Itinerary {
	it := NewItinerary()
	for _, day := range days {
		copied := make([]*POI, 0, len(day))
		for _, p := range day {
			if p != nil {
				copied = append(copied, p)
			}
		}
		it.days = append(it.days, copied)
	}
	it.normalizeExpanded()
	return it
}

// AddDay добавляет пустой день в конец и раскрывает его
func (it *Itinerary) AddDay() int {
	it.days = append(it.days, []*POI{})
	it.expanded = len(it.days) - 1
	return it.expanded
}

// RemoveDay удаляет день со всеми точками. Последующие дни сдвигаются на один
func (it *Itinerary) RemoveDay(dayIndex int) error {
	if err := it.checkDay(dayIndex); err != nil {
		return err
	}

	if ref, ok := it.Selection(); ok && ref.DayIndex == dayIndex {
		it.selectedID = ""
	}

	it.days = append(it.days[:dayIndex], it.days[dayIndex+1:]...)
	it.shiftExpandedAfterRemoval(dayIndex)
	return nil
}

// AddPoint добавляет точку в конец дня. В пустом маршруте сначала создается день
func (it *Itinerary) AddPoint(dayIndex int, fields map[string]interface{}) (PointRef, error) {
	return it.Insert(dayIndex, NewPOI(fields))
}

// Insert добавляет готовую точку в конец дня
func (it *Itinerary) Insert(dayIndex int, poi *POI) (PointRef, error) {
	if len(it.days) == 0 {
		it.days = append(it.days, []*POI{})
		dayIndex = 0
		it.normalizeExpanded()
	}
	if err := it.checkDay(dayIndex); err != nil {
		return PointRef{}, err
	}

	it.days[dayIndex] = append(it.days[dayIndex], poi)
	return PointRef{DayIndex: dayIndex, PointIndex: len(it.days[dayIndex]) - 1}, nil
}

// RemovePoint удаляет точку и сбрасывает выбор. Опустевший день удаляется
func (it *Itinerary) RemovePoint(dayIndex, pointIndex int) error {
	if err := it.checkPoint(dayIndex, pointIndex); err != nil {
		return err
	}

	day := it.days[dayIndex]
	it.days[dayIndex] = append(day[:pointIndex:pointIndex], day[pointIndex+1:]...)
	it.selectedID = ""

	if len(it.days[dayIndex]) == 0 {
		it.days = append(it.days[:dayIndex], it.days[dayIndex+1:]...)
		it.shiftExpandedAfterRemoval(dayIndex)
	}
	return nil
}

// ReorderPoint - стабильное перемещение точки внутри дня
func (it *Itinerary) ReorderPoint(dayIndex, fromIndex, toIndex int) error {
	if err := it.checkPoint(dayIndex, fromIndex); err != nil {
		return err
	}
	if err := it.checkPoint(dayIndex, toIndex); err != nil {
		return err
	}
	if fromIndex == toIndex {
		return nil
	}

	day := it.days[dayIndex]
	moved := day[fromIndex]
	if fromIndex < toIndex {
		copy(day[fromIndex:toIndex], day[fromIndex+1:toIndex+1])
	} else {
		copy(day[toIndex+1:fromIndex+1], day[toIndex:fromIndex])
	}
	day[toIndex] = moved
	return nil
}

// MovePointAcrossDays переносит точку в конец целевого дня.
// Опустевший исходный день сохраняется: в него можно продолжать добавлять точки
func (it *Itinerary) MovePointAcrossDays(sourceDayIndex, sourcePointIndex, targetDayIndex int) (PointRef, error) {
	if err := it.checkPoint(sourceDayIndex, sourcePointIndex); err != nil {
		return PointRef{}, err
	}
	if err := it.checkDay(targetDayIndex); err != nil {
		return PointRef{}, err
	}
	// Сброс на заголовок своего же дня ничего не меняет
	if targetDayIndex == sourceDayIndex {
		return PointRef{DayIndex: sourceDayIndex, PointIndex: sourcePointIndex}, nil
	}

	source := it.days[sourceDayIndex]
	moved := source[sourcePointIndex]
	it.days[sourceDayIndex] = append(source[:sourcePointIndex:sourcePointIndex], source[sourcePointIndex+1:]...)
	it.days[targetDayIndex] = append(it.days[targetDayIndex], moved)
	it.expanded = targetDayIndex

	return PointRef{DayIndex: targetDayIndex, PointIndex: len(it.days[targetDayIndex]) - 1}, nil
}

// UpdateFields сливает частичное обновление в запись точки
func (it *Itinerary) UpdateFields(dayIndex, pointIndex int, partial map[string]interface{}) error {
	if err := it.checkPoint(dayIndex, pointIndex); err != nil {
		return err
	}
	it.days[dayIndex][pointIndex].Merge(partial)
	return nil
}

// Select делает точку выбранной
func (it *Itinerary) Select(ref PointRef) error {
	if err := it.checkPoint(ref.DayIndex, ref.PointIndex); err != nil {
		return err
	}
	it.selectedID = it.days[ref.DayIndex][ref.PointIndex].ID
	return nil
}

// ClearSelection сбрасывает выбор
func (it *Itinerary) ClearSelection() {
	it.selectedID = ""
}

// Selection разрешает выбранную точку в текущие индексы
func (it *Itinerary) Selection() (PointRef, bool) {
	if it.selectedID == "" {
		return PointRef{}, false
	}
	return it.Locate(it.selectedID)
}

// SelectedPOI возвращает выбранную точку
func (it *Itinerary) SelectedPOI() (*POI, bool) {
	ref, ok := it.Selection()
	if !ok {
		return nil, false
	}
	return it.days[ref.DayIndex][ref.PointIndex], true
}

// Locate ищет точку по ID
func (it *Itinerary) Locate(id string) (PointRef, bool) {
	for d, day := range it.days {
		for p, poi := range day {
			if poi.ID == id {
				return PointRef{DayIndex: d, PointIndex: p}, true
			}
		}
	}
	return PointRef{}, false
}

// ToggleDay раскрывает день или сворачивает его, если он уже раскрыт
func (it *Itinerary) ToggleDay(dayIndex int) error {
	if err := it.checkDay(dayIndex); err != nil {
		return err
	}
	if it.expanded == dayIndex {
		it.expanded = noDay
		return nil
	}
	it.expanded = dayIndex
	return nil
}

// SetExpanded раскрывает день
func (it *Itinerary) SetExpanded(dayIndex int) error {
	if err := it.checkDay(dayIndex); err != nil {
		return err
	}
	it.expanded = dayIndex
	return nil
}

// Expanded возвращает раскрытый день
func (it *Itinerary) Expanded() (int, bool) {
	if it.expanded < 0 || it.expanded >= len(it.days) {
		return 0, false
	}
	return it.expanded, true
}

// DayCount - число дней
func (it *Itinerary) DayCount() int {
	return len(it.days)
}

// PointCount - число точек во всем маршруте
func (it *Itinerary) PointCount() int {
	total := 0
	for _, day := range it.days {
		total += len(day)
	}
	return total
}

// Day возвращает копию среза точек дня
func (it *Itinerary) Day(dayIndex int) ([]*POI, error) {
	if err := it.checkDay(dayIndex); err != nil {
		return nil, err
	}
	out := make([]*POI, len(it.days[dayIndex]))
	copy(out, it.days[dayIndex])
	return out, nil
}

// Days возвращает копию структуры дней; сами точки не копируются
func (it *Itinerary) Days() [][]*POI {
	out := make([][]*POI, len(it.days))
	for i, day := range it.days {
		out[i] = make([]*POI, len(day))
		copy(out[i], day)
	}
	return out
}

// Point возвращает точку по позиции
func (it *Itinerary) Point(ref PointRef) (*POI, error) {
	if err := it.checkPoint(ref.DayIndex, ref.PointIndex); err != nil {
		return nil, err
	}
	return it.days[ref.DayIndex][ref.PointIndex], nil
}

// FirstPlaceable - первая точка маршрута с координатой
func (it *Itinerary) FirstPlaceable() (PointRef, bool) {
	for d, day := range it.days {
		for p, poi := range day {
			if poi.Placeable() {
				return PointRef{DayIndex: d, PointIndex: p}, true
			}
		}
	}
	return PointRef{}, false
}

// Bounds - охват всех размещаемых точек
func (it *Itinerary) Bounds() (orb.Bound, bool) {
	var (
		bound orb.Bound
		found bool
	)
	for _, day := range it.days {
		for _, poi := range day {
			c, ok := poi.Placement()
			if !ok {
				continue
			}
			if !found {
				bound = c.Point().Bound()
				found = true
				continue
			}
			bound = bound.Extend(c.Point())
		}
	}
	return bound, found
}

func (it *Itinerary) shiftExpandedAfterRemoval(dayIndex int) {
	switch {
	case it.expanded == dayIndex:
		it.expanded = noDay
	case it.expanded > dayIndex:
		it.expanded--
	}
	it.normalizeExpanded()
}

// normalizeExpanded: при наличии дней раскрыт существующий день, иначе ни один
func (it *Itinerary) normalizeExpanded() {
	if len(it.days) == 0 {
		it.expanded = noDay
		return
	}
	if it.expanded < 0 || it.expanded >= len(it.days) {
		it.expanded = 0
	}
}

func (it *Itinerary) checkDay(dayIndex int) error {
	if dayIndex < 0 || dayIndex >= len(it.days) {
		return errors.ErrInvalidDayIndex.WithDetails(map[string]interface{}{
			"day_index": dayIndex,
			"days":      len(it.days),
		})
	}
	return nil
}

func (it *Itinerary) checkPoint(dayIndex, pointIndex int) error {
	if err := it.checkDay(dayIndex); err != nil {
		return err
	}
	if pointIndex < 0 || pointIndex >= len(it.days[dayIndex]) {
		return errors.ErrInvalidPointIndex.WithDetails(map[string]interface{}{
			"day_index":   dayIndex,
			"point_index": pointIndex,
			"points":      len(it.days[dayIndex]),
		})
	}
	return nil
}

// DayLabel - подпись дня
func DayLabel(dayIndex int) string {
	return fmt.Sprintf("第 %d 天", dayIndex+1)
}

// PointLabel - подпись точки в списке дня
func PointLabel(poi *POI, pointIndex int) string {
	if poi != nil {
		if name := poi.stringField(FieldSceneName); name != "" {
			return name
		}
	}
	return fmt.Sprintf("POI %d", pointIndex+1)
}
