package get_schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/evans-studio/detailor-booking/internal/api/handlers"
	"github.com/evans-studio/detailor-booking/internal/domain"
	"github.com/evans-studio/detailor-booking/internal/service/schedule"
)

const (
	msgInvalidTenantID = "некорректный ID арендатора"
	msgInvalidFrom     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDays     = "некорректное количество дней"
	msgTenantNotFound  = "арендатор не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/schedule
// Query params: from (optional, YYYY-MM-DD), days (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := strconv.ParseInt(mux.Vars(r)["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/schedule - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	windowStart := time.Now().UTC().Truncate(24 * time.Hour)
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		windowStart, err = time.ParseInLocation(domain.DateFormat, fromStr, time.UTC)
		if err != nil {
			h.logger.Warn("GET /tenants/{id}/schedule - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
	}

	windowDays := 7
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		windowDays, err = strconv.Atoi(daysStr)
		if err != nil {
			h.logger.Warn("GET /tenants/{id}/schedule - Invalid days: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
	}

	result, err := h.service.GetSchedule(r.Context(), tenantID, windowStart, windowDays)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrTenantNotFound):
			h.logger.Warn("GET /tenants/{id}/schedule - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		default:
			h.logger.Error("GET /tenants/{id}/schedule - Failed to get schedule: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/schedule - Schedule retrieved: tenant_id=%d, patterns=%d, blackouts=%d",
		tenantID, len(result.Patterns), len(result.Blackouts))
	handlers.RespondJSON(w, http.StatusOK, result)
}
