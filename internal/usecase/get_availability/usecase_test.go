package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evans-studio/detailor-booking/internal/domain"
	"github.com/evans-studio/detailor-booking/internal/integrations/tenantservice"
	"github.com/evans-studio/detailor-booking/pkg/types"
)

// Фейки зависимостей

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingRepo) GetBlockingInRange(_ context.Context, _ int64, _, _ time.Time, _ *int64) ([]*domain.Booking, error) {
	return f.bookings, f.err
}

type fakeScheduleRepo struct {
	patterns  []*domain.WorkPattern
	blackouts []*domain.Blackout
	err       error
}

func (f *fakeScheduleRepo) GetPatternsByTenant(_ context.Context, _ int64) ([]*domain.WorkPattern, error) {
	return f.patterns, f.err
}

func (f *fakeScheduleRepo) GetBlackoutsInRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Blackout, error) {
	return f.blackouts, f.err
}

type fakeTenantClient struct {
	err error
}

func (f *fakeTenantClient) GetTenant(_ context.Context, tenantID int64) (*tenantservice.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &tenantservice.Tenant{ID: tenantID, Name: "Test Detailing", Active: true}, nil
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func pattern(t *testing.T, weekday time.Weekday, start, end string, stepMin, capacity int) *domain.WorkPattern {
	t.Helper()
	return &domain.WorkPattern{
		ID:              int64(weekday) + 1,
		TenantID:        1,
		Weekday:         weekday,
		StartTime:       mustTime(t, start),
		EndTime:         mustTime(t, end),
		SlotDurationMin: stepMin,
		Capacity:        capacity,
	}
}

func newTestUseCase(bookingRepo BookingRepository, scheduleRepo ScheduleRepository, tenantCli TenantServiceClient) *UseCase {
	uc := NewUseCase(bookingRepo, scheduleRepo, tenantCli, nopLogger{})
	uc.timeProvider = &fakeClock{now: time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)}
	return uc
}

// 2026-09-07 - понедельник
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func TestExecute_BasicDay(t *testing.T) {
	// Понедельник 09:00-10:00, шаг 30 минут, ёмкость 2 - ровно два слота
	scheduleRepo := &fakeScheduleRepo{
		patterns: []*domain.WorkPattern{pattern(t, time.Monday, "09:00", "10:00", 30, 2)},
	}
	uc := newTestUseCase(&fakeBookingRepo{}, scheduleRepo, &fakeTenantClient{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, WindowStart: monday, WindowDays: 1})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 2)
	assert.Equal(t, monday.Add(9*time.Hour), resp.Slots[0].Start)
	assert.Equal(t, monday.Add(9*time.Hour+30*time.Minute), resp.Slots[0].End)
	assert.Equal(t, 2, resp.Slots[0].Capacity)
	assert.Equal(t, monday.Add(9*time.Hour+30*time.Minute), resp.Slots[1].Start)
	assert.Equal(t, 2, resp.Slots[1].Capacity)
}

func TestExecute_PartialFinalStepDropped(t *testing.T) {
	// 09:00-10:15 с шагом 30 минут: третий слот не помещается целиком
	scheduleRepo := &fakeScheduleRepo{
		patterns: []*domain.WorkPattern{pattern(t, time.Monday, "09:00", "10:15", 30, 1)},
	}
	uc := newTestUseCase(&fakeBookingRepo{}, scheduleRepo, &fakeTenantClient{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, WindowStart: monday, WindowDays: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 2)
}

func TestExecute_BookingReducesCapacity(t *testing.T) {
	scheduleRepo := &fakeScheduleRepo{
		patterns: []*domain.WorkPattern{pattern(t, time.Monday, "09:00", "10:00", 30, 2)},
	}
	bookingRepo := &fakeBookingRepo{
		bookings: []*domain.Booking{{
			ID:       1,
			TenantID: 1,
			StartAt:  monday.Add(9 * time.Hour),
			EndAt:    monday.Add(9*time.Hour + 30*time.Minute),
			Status:   domain.StatusConfirmed,
		}},
	}
	uc := newTestUseCase(bookingRepo, scheduleRepo, &fakeTenantClient{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, WindowStart: monday, WindowDays: 1})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 2)
	assert.Equal(t, 1, resp.Slots[0].Capacity)
	assert.Equal(t, 2, resp.Slots[1].Capacity)
}

func TestExecute_FullSlotOmitted(t *testing.T) {
	scheduleRepo := &fakeScheduleRepo{
		patterns: []*domain.WorkPattern{pattern(t, time.Monday, "09:00", "10:00", 30, 1)},
	}
	bookingRepo := &fakeBookingRepo{
		bookings: []*domain.Booking{{
			ID:       1,
			TenantID: 1,
			StartAt:  monday.Add(9 * time.Hour),
			EndAt:    monday.Add(9*time.Hour + 30*time.Minute),
			Status:   domain.StatusPending,
		}},
	}
	uc := newTestUseCase(bookingRepo, scheduleRepo, &fakeTenantClient{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, WindowStart: monday, WindowDays: 1})
	require.NoError(t, err)

	// Заполненный слот не попадает в выдачу
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, monday.Add(9*time.Hour+30*time.Minute), resp.Slots[0].Start)
}

func TestExecute_CancelledBookingFreesSlot(t *testing.T) {
	scheduleRepo := &fakeScheduleRepo{
		patterns: []*domain.WorkPattern{pattern(t, time.Monday, "09:00", "09:30", 30, 1)},
	}
	bookingRepo := &fakeBookingRepo{
		bookings: []*domain.Booking{{
			ID:       1,
			TenantID: 1,
			StartAt:  monday.Add(9 * time.Hour),
			EndAt:    monday.Add(9*time.Hour + 30*time.Minute),
			Status:   domain.StatusCancelled,
		}},
	}
	uc := newTestUseCase(bookingRepo, scheduleRepo, &fakeTenantClient{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, WindowStart: monday, WindowDays: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 1)
}

func TestExecute_BlackoutWinsOverCapacity(t *testing.T) {
	scheduleRepo := &fakeScheduleRepo{
		patterns: []*domain.WorkPattern{pattern(t, time.Monday, "09:00", "10:00", 30, 5)},
		blackouts: []*domain.Blackout{{
			ID:       1,
			TenantID: 1,
			StartsAt: monday.Add(9 * time.Hour),
			EndsAt:   monday.Add(9*time.Hour + 30*time.Minute),
		}},
	}
	uc := newTestUseCase(&fakeBookingRepo{}, scheduleRepo, &fakeTenantClient{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, WindowStart: monday, WindowDays: 1})
	require.NoError(t, err)

	// Первый слот целиком накрыт блэкаутом, второй граничит и остаётся
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, monday.Add(9*time.Hour+30*time.Minute), resp.Slots[0].Start)
}

func TestExecute_WindowClamp(t *testing.T) {
	scheduleRepo := &fakeScheduleRepo{
		patterns: []*domain.WorkPattern{pattern(t, time.Monday, "09:00", "09:30", 30, 1)},
	}
	uc := newTestUseCase(&fakeBookingRepo{}, scheduleRepo, &fakeTenantClient{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, WindowStart: monday, WindowDays: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.WindowDays)

	resp, err = uc.Execute(context.Background(), &Request{TenantID: 1, WindowStart: monday, WindowDays: 1000})
	require.NoError(t, err)
	assert.Equal(t, 60, resp.WindowDays)
}

func TestExecute_MultiDayOrdering(t *testing.T) {
	scheduleRepo := &fakeScheduleRepo{
		patterns: []*domain.WorkPattern{
			pattern(t, time.Monday, "09:00", "10:00", 30, 1),
			pattern(t, time.Tuesday, "08:00", "08:30", 30, 1),
		},
	}
	uc := newTestUseCase(&fakeBookingRepo{}, scheduleRepo, &fakeTenantClient{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, WindowStart: monday, WindowDays: 7})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	for i := 1; i < len(resp.Slots); i++ {
		assert.True(t, resp.Slots[i-1].Start.Before(resp.Slots[i].Start), "слоты должны идти по возрастанию")
	}
}

func TestExecute_MalformedPatternSkipped(t *testing.T) {
	bad := pattern(t, time.Monday, "17:00", "09:00", 30, 1) // start после end
	good := pattern(t, time.Tuesday, "09:00", "09:30", 30, 1)
	scheduleRepo := &fakeScheduleRepo{patterns: []*domain.WorkPattern{bad, good}}
	uc := newTestUseCase(&fakeBookingRepo{}, scheduleRepo, &fakeTenantClient{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, WindowStart: monday, WindowDays: 7})
	require.NoError(t, err)

	// Понедельник выпадает, вторник остаётся
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, time.Tuesday, resp.Slots[0].Start.Weekday())
}

func TestExecute_TenantNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeScheduleRepo{}, &fakeTenantClient{err: tenantservice.ErrTenantNotFound})

	_, err := uc.Execute(context.Background(), &Request{TenantID: 99, WindowStart: monday, WindowDays: 1})
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestExecute_InactiveTenant(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeScheduleRepo{}, &fakeTenantClient{err: tenantservice.ErrTenantInactive})

	_, err := uc.Execute(context.Background(), &Request{TenantID: 1, WindowStart: monday, WindowDays: 1})
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestExecute_DefaultsWindowStartToToday(t *testing.T) {
	scheduleRepo := &fakeScheduleRepo{
		patterns: []*domain.WorkPattern{pattern(t, time.Monday, "09:00", "09:30", 30, 1)},
	}
	uc := newTestUseCase(&fakeBookingRepo{}, scheduleRepo, &fakeTenantClient{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, WindowDays: 1})
	require.NoError(t, err)

	// fakeClock показывает 2026-09-07 08:00 UTC - окно начинается с полуночи
	assert.Equal(t, monday, resp.WindowStart)
	assert.Len(t, resp.Slots, 1)
}
