package get_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evans-studio/detailor-booking/internal/domain"
	getAvailability "github.com/evans-studio/detailor-booking/internal/usecase/get_availability"
)

type fakeUseCase struct {
	gotReq *getAvailability.Request
	resp   *getAvailability.Response
	err    error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/tenants/{tenantId}/availability", h.Handle).Methods(http.MethodGet)
	return r
}

var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func TestHandle_OK(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailability.Response{
		TenantID:    1,
		WindowStart: monday,
		WindowDays:  7,
		Slots: []domain.Slot{
			{Start: monday.Add(9 * time.Hour), End: monday.Add(9*time.Hour + 30*time.Minute), Capacity: 2},
		},
	}}
	h := NewHandler(uc, 7, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/1/availability?from=2026-09-07&days=14", nil)
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.TenantID)
	assert.Equal(t, "2026-09-07", resp.WindowStart)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, 2, resp.Slots[0].Capacity)

	// Параметры запроса дошли до use case
	assert.Equal(t, monday, uc.gotReq.WindowStart)
	assert.Equal(t, 14, uc.gotReq.WindowDays)
}

func TestHandle_DefaultWindowDays(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailability.Response{TenantID: 1, WindowStart: monday, WindowDays: 7}}
	h := NewHandler(uc, 7, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/1/availability", nil)
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, uc.gotReq.WindowDays)
	assert.True(t, uc.gotReq.WindowStart.IsZero())
}

func TestHandle_InvalidTenantID(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, 7, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/abc/availability", nil)
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_InvalidFromDate(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, 7, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/1/availability?from=07.09.2026", nil)
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_UnparsableDaysFallsBackToDefault(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailability.Response{TenantID: 1, WindowStart: monday, WindowDays: 7}}
	h := NewHandler(uc, 7, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/1/availability?days=week", nil)
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, req)

	// Нечисловое значение days не ошибка - берётся окно по умолчанию
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, uc.gotReq.WindowDays)
}

func TestHandle_TenantNotFound(t *testing.T) {
	h := NewHandler(&fakeUseCase{err: getAvailability.ErrTenantNotFound}, 7, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/999/availability", nil)
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandle_InternalError(t *testing.T) {
	h := NewHandler(&fakeUseCase{err: getAvailability.ErrInternal}, 7, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/1/availability", nil)
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
