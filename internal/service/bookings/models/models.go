package models

import (
	"errors"
	"time"

	"github.com/evans-studio/detailor-booking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// RescheduleRequest запрос на перенос бронирования
type RescheduleRequest struct {
	UserID     int64     `json:"userId"`
	NewStartAt time.Time `json:"newStartAt"`
}

// GetCustomerBookingsRequest запрос на получение бронирований клиента
type GetCustomerBookingsRequest struct {
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
}

// GetTenantBookingsRequest запрос на получение бронирований арендатора
type GetTenantBookingsRequest struct {
	UserID          int64      `json:"userId"`
	TenantID        int64      `json:"tenantId"`
	StartAt         *time.Time `json:"startAt,omitempty"`         // Начало периода (опционально)
	EndAt           *time.Time `json:"endAt,omitempty"`           // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить завершённые и отменённые
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetTenantBookingsRequest) ToDomainFilter() (domain.TenantBookingsFilter, error) {
	filter := domain.TenantBookingsFilter{
		TenantID:        r.TenantID,
		StartAt:         r.StartAt,
		EndAt:           r.EndAt,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// PriceBreakdownResponse разбивка стоимости бронирования
type PriceBreakdownResponse struct {
	Base              float64 `json:"base"`
	VehicleMultiplier float64 `json:"vehicleMultiplier"`
	Addons            float64 `json:"addons"`
	DistanceSurcharge float64 `json:"distanceSurcharge"`
	TaxRate           float64 `json:"taxRate"`
	Tax               float64 `json:"tax"`
	Total             float64 `json:"total"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64     `json:"id"`
	TenantID      int64     `json:"tenantId"`
	CustomerID    int64     `json:"customerId"`
	ServiceID     int64     `json:"serviceId"`
	AddonIDs      []int64   `json:"addonIds"`
	StartAt       time.Time `json:"startAt"`
	EndAt         time.Time `json:"endAt"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	Reference     string    `json:"reference"`

	VehicleTier   string                 `json:"vehicleTier,omitempty"`
	DistanceMiles float64                `json:"distanceMiles,omitempty"`
	Price         PriceBreakdownResponse `json:"price"`

	Notes              *string `json:"notes,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:            b.ID,
		TenantID:      b.TenantID,
		CustomerID:    b.CustomerID,
		ServiceID:     b.ServiceID,
		AddonIDs:      b.AddonIDs,
		StartAt:       b.StartAt,
		EndAt:         b.EndAt,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		Reference:     b.Reference,
		VehicleTier:   b.VehicleTier,
		DistanceMiles: b.DistanceMiles,
		Price: PriceBreakdownResponse{
			Base:              b.PriceBreakdown.Base,
			VehicleMultiplier: b.PriceBreakdown.VehicleMultiplier,
			Addons:            b.PriceBreakdown.Addons,
			DistanceSurcharge: b.PriceBreakdown.DistanceSurcharge,
			TaxRate:           b.PriceBreakdown.TaxRate,
			Tax:               b.PriceBreakdown.Tax,
			Total:             b.PriceBreakdown.Total,
		},
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		if dto := FromDomainBooking(b); dto != nil {
			resp.Bookings = append(resp.Bookings, *dto)
		}
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	if !domain.IsValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}
