package create_booking

import (
	"errors"
	"net/http"

	"github.com/evans-studio/detailor-booking/internal/api/handlers"
	"github.com/evans-studio/detailor-booking/internal/api/middleware"
	createBooking "github.com/evans-studio/detailor-booking/internal/usecase/create_booking"
	"github.com/evans-studio/detailor-booking/pkg/txmanager"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется аутентификация"
	msgSlotConflict       = "выбранный интервал недоступен"
	msgTenantNotFound     = "арендатор не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgAddOnNotFound      = "доп. услуга не найдена"
	msgRetryLater         = "не удалось зафиксировать бронирование, повторите запрос"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(customerID))
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: customer_id=%d, tenant_id=%d", customerID, req.TenantID)
			handlers.RespondConflict(w, msgSlotConflict)

		// Конкурирующие транзакции исчерпали повторы - клиент может повторить сам
		case errors.Is(err, txmanager.ErrSerializationFailure):
			h.logger.Warn("POST /bookings - Serialization failure: customer_id=%d, tenant_id=%d", customerID, req.TenantID)
			handlers.RespondServiceUnavailable(w, msgRetryLater)

		case errors.Is(err, createBooking.ErrTenantNotFound):
			h.logger.Warn("POST /bookings - Tenant not found: tenant_id=%d", req.TenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: tenant_id=%d, service_id=%d", req.TenantID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrAddOnNotFound):
			h.logger.Warn("POST /bookings - AddOn not found: tenant_id=%d", req.TenantID)
			handlers.RespondNotFound(w, msgAddOnNotFound)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: customer_id=%d, tenant_id=%d, error=%v",
				customerID, req.TenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, reference=%s, customer_id=%d, tenant_id=%d",
		result.Booking.ID, result.Booking.Reference, customerID, req.TenantID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
