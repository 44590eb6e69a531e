package get_availability

import (
	"time"

	"github.com/evans-studio/detailor-booking/internal/domain"
)

// generateDaySlots генерирует слоты одного дня по паттерну
// Курсор идёт от начала рабочего времени с фиксированным шагом
// slot_duration_min; последний неполный шаг отбрасывается (коротких
// слотов не бывает). Кандидаты, пересекающие блэкаут, отбрасываются
// безусловно - блэкаут всегда сильнее остаточной ёмкости
func generateDaySlots(
	pattern *domain.WorkPattern,
	day time.Time,
	blackouts []*domain.Blackout,
	bookings []*domain.Booking,
) ([]domain.Slot, error) {
	dayStart, err := pattern.StartTime.Combine(day)
	if err != nil {
		return nil, err
	}
	dayEnd, err := pattern.EndTime.Combine(day)
	if err != nil {
		return nil, err
	}

	step := time.Duration(pattern.SlotDurationMin) * time.Minute
	slots := make([]domain.Slot, 0)

	for cursor := dayStart; !cursor.Add(step).After(dayEnd); cursor = cursor.Add(step) {
		slotStart := cursor
		slotEnd := cursor.Add(step)

		if intersectsBlackout(slotStart, slotEnd, blackouts) {
			continue
		}

		remaining := pattern.Capacity - countOverlappingBookings(slotStart, slotEnd, bookings)
		if remaining <= 0 {
			continue
		}

		slots = append(slots, domain.Slot{
			Start:    slotStart,
			End:      slotEnd,
			Capacity: remaining,
		})
	}

	return slots, nil
}

// intersectsBlackout проверяет пересечение кандидата хотя бы с одним блэкаутом
// Строгие неравенства: граничащие интервалы не пересекаются
func intersectsBlackout(start, end time.Time, blackouts []*domain.Blackout) bool {
	for _, b := range blackouts {
		if b.Covers(start, end) {
			return true
		}
	}
	return false
}

// countOverlappingBookings подсчитывает блокирующие бронирования,
// пересекающиеся с интервалом [start, end)
//
// Примеры:
// - Слот 11:30-12:00, бронирование 11:20-11:40 → ЕСТЬ пересечение
// - Слот 11:30-12:00, бронирование 11:00-11:30 → НЕТ пересечения (граничат)
// - Слот 11:30-12:00, бронирование 12:00-12:30 → НЕТ пересечения (граничат)
func countOverlappingBookings(start, end time.Time, bookings []*domain.Booking) int {
	count := 0
	for _, booking := range bookings {
		if !booking.IsBlocking() {
			continue
		}
		if booking.Overlaps(start, end) {
			count++
		}
	}
	return count
}

// startOfDayUTC обнуляет время, оставляя календарную дату в UTC
func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
