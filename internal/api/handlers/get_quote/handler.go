package get_quote

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/evans-studio/detailor-booking/internal/api/handlers"
	getQuote "github.com/evans-studio/detailor-booking/internal/usecase/get_quote"
)

const (
	msgInvalidTenantID    = "некорректный ID арендатора"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgTenantNotFound     = "арендатор не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgAddOnNotFound      = "доп. услуга не найдена"
)

type Handler struct {
	useCase GetQuoteUseCase
	logger  Logger
}

func NewHandler(useCase GetQuoteUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/tenants/{tenantId}/quote
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/quote - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	var req QuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tenants/{id}/quote - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(tenantID))
	if err != nil {
		switch {
		case errors.Is(err, getQuote.ErrTenantNotFound):
			h.logger.Warn("POST /tenants/{id}/quote - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, getQuote.ErrServiceNotFound):
			h.logger.Warn("POST /tenants/{id}/quote - Service not found: tenant_id=%d, service_id=%d", tenantID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getQuote.ErrAddOnNotFound):
			h.logger.Warn("POST /tenants/{id}/quote - AddOn not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgAddOnNotFound)

		case errors.Is(err, getQuote.ErrInvalidInput):
			h.logger.Warn("POST /tenants/{id}/quote - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /tenants/{id}/quote - Failed to compute quote: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /tenants/{id}/quote - Quote computed: tenant_id=%d, service_id=%d, total=%.2f",
		tenantID, req.ServiceID, result.Breakdown.Total)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
