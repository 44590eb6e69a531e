package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking represents a reserved time interval for a tenant
type Booking struct {
	ID            int64
	TenantID      int64
	CustomerID    int64
	ServiceID     int64
	AddonIDs      []int64
	StartAt       time.Time
	EndAt         time.Time
	Status        BookingStatus
	PaymentStatus PaymentStatus
	Reference     string

	// Input snapshot for the price breakdown
	VehicleTier   string
	DistanceMiles float64

	PriceBreakdown PriceBreakdown

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking возвращает true, если бронирование занимает место в слоте
func (b *Booking) IsBlocking() bool {
	return IsBlockingStatus(b.Status)
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsFinished returns true if the booking reached a terminal state
func (b *Booking) IsFinished() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled || b.Status == StatusNoShow
}

// Overlaps проверяет реальное пересечение с интервалом [start, end)
// Строгие неравенства: граничащие интервалы не пересекаются
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.EndAt.After(start) && b.StartAt.Before(end)
}

// IsBlockingStatus возвращает true для статусов, занимающих место в слоте
func IsBlockingStatus(s BookingStatus) bool {
	for _, blocking := range BlockingStatuses {
		if s == blocking {
			return true
		}
	}
	return false
}

// IsValidStatus возвращает true для известного статуса бронирования
func IsValidStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// TenantBookingsFilter фильтр для получения бронирований арендатора
type TenantBookingsFilter struct {
	TenantID        int64          // Обязательный параметр
	StartAt         *time.Time     // Начало периода (опционально)
	EndAt           *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли завершённые и отменённые
}
