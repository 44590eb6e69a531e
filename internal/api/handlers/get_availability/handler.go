package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/evans-studio/detailor-booking/internal/api/handlers"
	"github.com/evans-studio/detailor-booking/internal/domain"
	getAvailability "github.com/evans-studio/detailor-booking/internal/usecase/get_availability"
)

const (
	msgInvalidTenantID = "некорректный ID арендатора"
	msgInvalidFrom     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgTenantNotFound  = "арендатор не найден"
)

type Handler struct {
	useCase           GetAvailabilityUseCase
	defaultWindowDays int
	logger            Logger
}

func NewHandler(useCase GetAvailabilityUseCase, defaultWindowDays int, logger Logger) *Handler {
	if defaultWindowDays <= 0 {
		defaultWindowDays = 7
	}
	return &Handler{
		useCase:           useCase,
		defaultWindowDays: defaultWindowDays,
		logger:            logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/availability
// Query params: from (optional, YYYY-MM-DD), days (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/availability - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	// from опционален - по умолчанию сегодняшний день UTC
	var windowStart time.Time
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		windowStart, err = time.ParseInLocation(domain.DateFormat, fromStr, time.UTC)
		if err != nil {
			h.logger.Warn("GET /tenants/{id}/availability - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
	}

	// days опционален - значения вне [1, 60] зажимаются,
	// нечисловые тихо заменяются окном по умолчанию
	windowDays := h.defaultWindowDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		if parsed, parseErr := strconv.Atoi(daysStr); parseErr == nil {
			windowDays = parsed
		} else {
			h.logger.Warn("GET /tenants/{id}/availability - Unparsable days %q, using default %d", daysStr, h.defaultWindowDays)
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		TenantID:    tenantID,
		WindowStart: windowStart,
		WindowDays:  windowDays,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrTenantNotFound):
			h.logger.Warn("GET /tenants/{id}/availability - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/availability - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidTenantID)

		default:
			h.logger.Error("GET /tenants/{id}/availability - Failed to get slots: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/availability - Slots retrieved: tenant_id=%d, slots_count=%d",
		tenantID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
