package create_booking

import (
	"time"

	"github.com/evans-studio/detailor-booking/internal/domain"
)

// Request входные данные для создания бронирования
type Request struct {
	TenantID      int64
	CustomerID    int64
	ServiceID     int64
	AddonIDs      []int64
	StartAt       time.Time // UTC
	VehicleTier   string
	DistanceMiles float64
	Notes         *string
}

// Response результат создания бронирования
// Интервал и разбивка стоимости зафиксированы на момент создания
type Response struct {
	Booking *domain.Booking
}
