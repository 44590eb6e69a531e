package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrIntervalUnavailable интервал нельзя занять: вне рабочего времени,
// пересекает блэкаут или ёмкость слота исчерпана
var ErrIntervalUnavailable = errors.New("domain: interval unavailable")

// CheckIntervalFree проверяет, что интервал [start, end) можно занять
//
// Предикаты зеркалят генерацию слотов на чтении: строгие неравенства
// пересечения, блэкаут сильнее остаточной ёмкости. Ёмкость проверяется
// по каждому шагу сетки, который задевает интервал, - длинное бронирование
// занимает место во всех накрытых слотах сразу. excludeID позволяет
// перепроверять интервал для уже существующего бронирования
func CheckIntervalFree(
	pattern *WorkPattern,
	start, end time.Time,
	blackouts []*Blackout,
	bookings []*Booking,
	excludeID *int64,
) error {
	if pattern == nil || pattern.IsClosed() {
		return fmt.Errorf("%w: day is closed", ErrIntervalUnavailable)
	}

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	dayStart, err := pattern.StartTime.Combine(day)
	if err != nil {
		return fmt.Errorf("%w: malformed work pattern", ErrIntervalUnavailable)
	}
	dayEnd, err := pattern.EndTime.Combine(day)
	if err != nil {
		return fmt.Errorf("%w: malformed work pattern", ErrIntervalUnavailable)
	}

	if start.Before(dayStart) || end.After(dayEnd) {
		return fmt.Errorf("%w: outside working hours", ErrIntervalUnavailable)
	}

	for _, b := range blackouts {
		if b.Covers(start, end) {
			return fmt.Errorf("%w: interval is blacked out", ErrIntervalUnavailable)
		}
	}

	// Проверяем остаточную ёмкость каждого задетого слота сетки
	step := time.Duration(pattern.SlotDurationMin) * time.Minute
	for cursor := dayStart; cursor.Before(dayEnd); cursor = cursor.Add(step) {
		slotEnd := cursor.Add(step)
		if !(slotEnd.After(start) && cursor.Before(end)) {
			continue
		}

		occupied := 0
		for _, b := range bookings {
			if excludeID != nil && b.ID == *excludeID {
				continue
			}
			if !b.IsBlocking() {
				continue
			}
			if b.Overlaps(cursor, slotEnd) {
				occupied++
			}
		}
		if occupied >= pattern.Capacity {
			return fmt.Errorf("%w: slot capacity exhausted at %s", ErrIntervalUnavailable, cursor.Format(TimeFormat))
		}
	}

	return nil
}
