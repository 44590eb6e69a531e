package create_booking

import (
	"time"

	bookingModels "github.com/evans-studio/detailor-booking/internal/service/bookings/models"
	createBooking "github.com/evans-studio/detailor-booking/internal/usecase/create_booking"
)

// CreateBookingRequest запрос на создание бронирования
type CreateBookingRequest struct {
	TenantID      int64     `json:"tenantId"`
	ServiceID     int64     `json:"serviceId"`
	AddonIDs      []int64   `json:"addonIds,omitempty"`
	StartAt       time.Time `json:"startAt"`
	VehicleTier   string    `json:"vehicleTier,omitempty"`
	DistanceMiles float64   `json:"distanceMiles,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// customerID приходит из контекста аутентификации, а не из тела
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) *createBooking.Request {
	return &createBooking.Request{
		TenantID:      r.TenantID,
		CustomerID:    customerID,
		ServiceID:     r.ServiceID,
		AddonIDs:      r.AddonIDs,
		StartAt:       r.StartAt,
		VehicleTier:   r.VehicleTier,
		DistanceMiles: r.DistanceMiles,
		Notes:         r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *createBooking.Response) *bookingModels.BookingResponse {
	return bookingModels.FromDomainBooking(resp.Booking)
}
