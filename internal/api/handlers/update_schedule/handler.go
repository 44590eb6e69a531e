package update_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/evans-studio/detailor-booking/internal/api/handlers"
	"github.com/evans-studio/detailor-booking/internal/api/middleware"
	"github.com/evans-studio/detailor-booking/internal/service/schedule"
	"github.com/evans-studio/detailor-booking/internal/service/schedule/models"
)

const (
	msgInvalidTenantID    = "некорректный ID арендатора"
	msgInvalidWeekday     = "некорректный день недели, ожидается 0-6"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется аутентификация"
	msgAccessDenied       = "доступ запрещён"
	msgPatternNotFound    = "паттерн дня недели не найден"
)

// UpsertPatternRequest тело запроса на обновление паттерна
type UpsertPatternRequest struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	SlotDurationMin int    `json:"slotDurationMin"`
	Capacity        int    `json:"capacity"`
}

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

// HandleUpsert PUT /api/v1/tenants/{tenantId}/schedule/{weekday}
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /tenants/{id}/schedule/{weekday} - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	weekday, err := strconv.Atoi(vars["weekday"])
	if err != nil || weekday < 0 || weekday > 6 {
		h.logger.Warn("PUT /tenants/{id}/schedule/{weekday} - Invalid weekday: %s", vars["weekday"])
		handlers.RespondBadRequest(w, msgInvalidWeekday)
		return
	}

	var req UpsertPatternRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /tenants/{id}/schedule/{weekday} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpsertPattern(r.Context(), &models.UpsertPatternRequest{
		UserID:          userID,
		TenantID:        tenantID,
		Weekday:         weekday,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		SlotDurationMin: req.SlotDurationMin,
		Capacity:        req.Capacity,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /tenants/{id}/schedule/{weekday} - Access denied: tenant_id=%d, user_id=%d", tenantID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /tenants/{id}/schedule/{weekday} - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /tenants/{id}/schedule/{weekday} - Failed to upsert pattern: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /tenants/{id}/schedule/{weekday} - Pattern saved: tenant_id=%d, weekday=%d, user_id=%d",
		tenantID, weekday, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/tenants/{tenantId}/schedule/{weekday}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /tenants/{id}/schedule/{weekday} - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	weekday, err := strconv.Atoi(vars["weekday"])
	if err != nil {
		h.logger.Warn("DELETE /tenants/{id}/schedule/{weekday} - Invalid weekday: %s", vars["weekday"])
		handlers.RespondBadRequest(w, msgInvalidWeekday)
		return
	}

	if err := h.service.DeletePattern(r.Context(), tenantID, weekday, userID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /tenants/{id}/schedule/{weekday} - Access denied: tenant_id=%d, user_id=%d", tenantID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, schedule.ErrPatternNotFound):
			h.logger.Warn("DELETE /tenants/{id}/schedule/{weekday} - Pattern not found: tenant_id=%d, weekday=%d", tenantID, weekday)
			handlers.RespondNotFound(w, msgPatternNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("DELETE /tenants/{id}/schedule/{weekday} - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidWeekday)

		default:
			h.logger.Error("DELETE /tenants/{id}/schedule/{weekday} - Failed to delete pattern: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /tenants/{id}/schedule/{weekday} - Pattern deleted: tenant_id=%d, weekday=%d, user_id=%d",
		tenantID, weekday, userID)
	handlers.RespondNoContent(w)
}
