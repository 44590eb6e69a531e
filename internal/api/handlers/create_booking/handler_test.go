package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evans-studio/detailor-booking/internal/api/middleware"
	"github.com/evans-studio/detailor-booking/internal/domain"
	"github.com/evans-studio/detailor-booking/internal/service/bookings/models"
	createBooking "github.com/evans-studio/detailor-booking/internal/usecase/create_booking"
	"github.com/evans-studio/detailor-booking/pkg/txmanager"
)

type fakeUseCase struct {
	gotReq *createBooking.Request
	resp   *createBooking.Response
	err    error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
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

var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func validBody() string {
	return `{"tenantId":1,"serviceId":10,"addonIds":[21],"startAt":"2026-09-07T10:00:00Z","vehicleTier":"suv","distanceMiles":8}`
}

// Хендлер работает за middleware.Auth - идентификатор клиента берётся из контекста
func doRequest(h *Handler, body string, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	middleware.Auth(http.HandlerFunc(h.Handle)).ServeHTTP(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{resp: &createBooking.Response{Booking: &domain.Booking{
		ID:         42,
		TenantID:   1,
		CustomerID: 7,
		ServiceID:  10,
		StartAt:    monday.Add(10 * time.Hour),
		EndAt:      monday.Add(11 * time.Hour),
		Status:     domain.StatusPending,
		Reference:  "a2f1c9d4",
	}}}
	h := NewHandler(uc, nopLogger{})

	rec := doRequest(h, validBody(), "7")

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "a2f1c9d4", resp.Reference)

	// customerID приходит из заголовка, а не из тела
	assert.Equal(t, int64(7), uc.gotReq.CustomerID)
}

func TestHandle_Unauthorized(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, nopLogger{})

	rec := doRequest(h, validBody(), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(h, validBody(), "not-a-number")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_InvalidBody(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, nopLogger{})

	rec := doRequest(h, `{"tenantId":`, "7")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Неизвестные поля отклоняются
	rec = doRequest(h, `{"tenantId":1,"serviceId":10,"startAt":"2026-09-07T10:00:00Z","bogus":true}`, "7")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_SlotConflict(t *testing.T) {
	h := NewHandler(&fakeUseCase{err: createBooking.ErrSlotConflict}, nopLogger{})

	rec := doRequest(h, validBody(), "7")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandle_SerializationFailure(t *testing.T) {
	h := NewHandler(&fakeUseCase{err: txmanager.ErrSerializationFailure}, nopLogger{})

	rec := doRequest(h, validBody(), "7")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandle_NotFoundMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"tenant", createBooking.ErrTenantNotFound},
		{"service", createBooking.ErrServiceNotFound},
		{"addon", createBooking.ErrAddOnNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, nopLogger{})
			rec := doRequest(h, validBody(), "7")
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestHandle_InvalidInput(t *testing.T) {
	h := NewHandler(&fakeUseCase{err: createBooking.ErrInvalidInput}, nopLogger{})

	rec := doRequest(h, validBody(), "7")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_InternalError(t *testing.T) {
	h := NewHandler(&fakeUseCase{err: createBooking.ErrInternal}, nopLogger{})

	rec := doRequest(h, validBody(), "7")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
