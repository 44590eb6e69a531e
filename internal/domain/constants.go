package domain

import "errors"

// Window limits for availability generation
const (
	MinWindowDays = 1
	MaxWindowDays = 60
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 hours
	MinCapacity            = 0
	MaxCapacity            = 100
	MaxNotesLength         = 500
	MaxReasonLength        = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses статусы, занимающие место в слоте
// Используются при подсчёте остаточной ёмкости и в conflict guard
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// ReleasedStatuses статусы, освобождающие место в слоте
var ReleasedStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// Инварианты строк расписания
var (
	// ErrInvalidWorkPattern возвращается для некорректной строки паттерна
	ErrInvalidWorkPattern = errors.New("domain: invalid work pattern")

	// ErrInvalidBlackout возвращается для некорректной строки блэкаута
	ErrInvalidBlackout = errors.New("domain: invalid blackout")
)

// ClampWindowDays приводит запрошенное окно к допустимому диапазону
// Значения вне диапазона молча зажимаются, а не считаются ошибкой
func ClampWindowDays(days int) int {
	if days < MinWindowDays {
		return MinWindowDays
	}
	if days > MaxWindowDays {
		return MaxWindowDays
	}
	return days
}
