package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evans-studio/detailor-booking/internal/domain"
	storageBooking "github.com/evans-studio/detailor-booking/internal/infra/storage/booking"
	"github.com/evans-studio/detailor-booking/internal/integrations/tenantservice"
	"github.com/evans-studio/detailor-booking/internal/service/bookings/models"
	"github.com/evans-studio/detailor-booking/pkg/types"
)

// Фейки зависимостей

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking

	cancelled     map[int64]string
	statusUpdates map[int64]domain.BookingStatus
	timeUpdates   map[int64][2]time.Time
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{
		bookings:      make(map[int64]*domain.Booking),
		cancelled:     make(map[int64]string),
		statusUpdates: make(map[int64]domain.BookingStatus),
		timeUpdates:   make(map[int64][2]time.Time),
	}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, storageBooking.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByCustomerID(_ context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.CustomerID != customerID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) GetByTenantWithFilter(_ context.Context, filter domain.TenantBookingsFilter) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.TenantID != filter.TenantID {
			continue
		}
		if !filter.IncludeInactive && b.IsFinished() {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) GetBlockingInRange(_ context.Context, tenantID int64, startAt, endAt time.Time, excludeID *int64) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.TenantID == tenantID && b.IsBlocking() && b.EndAt.After(startAt) && b.StartAt.Before(endAt) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	if _, ok := f.bookings[id]; !ok {
		return storageBooking.ErrBookingNotFound
	}
	f.statusUpdates[id] = status
	f.bookings[id].Status = status
	return nil
}

func (f *fakeBookingRepo) UpdateTimes(_ context.Context, id int64, startAt, endAt time.Time) error {
	if _, ok := f.bookings[id]; !ok {
		return storageBooking.ErrBookingNotFound
	}
	f.timeUpdates[id] = [2]time.Time{startAt, endAt}
	f.bookings[id].StartAt = startAt
	f.bookings[id].EndAt = endAt
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	if _, ok := f.bookings[id]; !ok {
		return storageBooking.ErrBookingNotFound
	}
	f.cancelled[id] = reason
	f.bookings[id].Status = domain.StatusCancelled
	return nil
}

type fakeScheduleRepo struct {
	patterns  []*domain.WorkPattern
	blackouts []*domain.Blackout
}

func (f *fakeScheduleRepo) GetPatternsByTenant(_ context.Context, _ int64) ([]*domain.WorkPattern, error) {
	return f.patterns, nil
}

func (f *fakeScheduleRepo) GetBlackoutsInRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Blackout, error) {
	return f.blackouts, nil
}

type fakeTenantClient struct {
	members map[int64]*tenantservice.Member
}

func (f *fakeTenantClient) GetMember(_ context.Context, _ int64, userID int64) (*tenantservice.Member, error) {
	m, ok := f.members[userID]
	if !ok {
		return nil, tenantservice.ErrMemberNotFound
	}
	return m, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// 2026-09-07 - понедельник
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

const (
	ownerID    = int64(7)
	adminID    = int64(100)
	strangerID = int64(55)
	staffID    = int64(77)
)

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func testBooking(id int64, status domain.BookingStatus, start, end time.Time) *domain.Booking {
	return &domain.Booking{
		ID:         id,
		TenantID:   1,
		CustomerID: ownerID,
		ServiceID:  10,
		StartAt:    start,
		EndAt:      end,
		Status:     status,
		Reference:  "ref",
	}
}

func testSchedule(t *testing.T, capacity int) *fakeScheduleRepo {
	t.Helper()
	return &fakeScheduleRepo{
		patterns: []*domain.WorkPattern{{
			ID:              1,
			TenantID:        1,
			Weekday:         time.Monday,
			StartTime:       mustTime(t, "09:00"),
			EndTime:         mustTime(t, "17:00"),
			SlotDurationMin: 60,
			Capacity:        capacity,
		}},
	}
}

func testMembers() *fakeTenantClient {
	return &fakeTenantClient{members: map[int64]*tenantservice.Member{
		adminID: {UserID: adminID, Role: "admin"},
		staffID: {UserID: staffID, Role: "staff"},
	}}
}

func newTestService(t *testing.T, bookingRepo *fakeBookingRepo, capacity int) *Service {
	t.Helper()
	return NewService(bookingRepo, testSchedule(t, capacity), testMembers(), fakeTxManager{}, nopLogger{})
}

func TestGetByID_Owner(t *testing.T) {
	booking := testBooking(1, domain.StatusConfirmed, monday.Add(10*time.Hour), monday.Add(11*time.Hour))
	svc := newTestService(t, newFakeBookingRepo(booking), 1)

	resp, err := svc.GetByID(context.Background(), 1, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestGetByID_TenantAdmin(t *testing.T) {
	booking := testBooking(1, domain.StatusConfirmed, monday.Add(10*time.Hour), monday.Add(11*time.Hour))
	svc := newTestService(t, newFakeBookingRepo(booking), 1)

	_, err := svc.GetByID(context.Background(), 1, adminID)
	assert.NoError(t, err)
}

func TestGetByID_AccessDenied(t *testing.T) {
	booking := testBooking(1, domain.StatusConfirmed, monday.Add(10*time.Hour), monday.Add(11*time.Hour))
	svc := newTestService(t, newFakeBookingRepo(booking), 1)

	// Посторонний пользователь
	_, err := svc.GetByID(context.Background(), 1, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Участник без роли админа
	_, err = svc.GetByID(context.Background(), 1, staffID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(t, newFakeBookingRepo(), 1)

	_, err := svc.GetByID(context.Background(), 999, ownerID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetCustomerBookings_FilterByStatus(t *testing.T) {
	repo := newFakeBookingRepo(
		testBooking(1, domain.StatusConfirmed, monday.Add(10*time.Hour), monday.Add(11*time.Hour)),
		testBooking(2, domain.StatusCancelled, monday.Add(12*time.Hour), monday.Add(13*time.Hour)),
	)
	svc := newTestService(t, repo, 1)

	status := "confirmed"
	resp, err := svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		CustomerID: ownerID,
		Status:     &status,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)
}

func TestGetCustomerBookings_InvalidStatus(t *testing.T) {
	svc := newTestService(t, newFakeBookingRepo(), 1)

	status := "bogus"
	_, err := svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		CustomerID: ownerID,
		Status:     &status,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetTenantBookings_AdminOnly(t *testing.T) {
	repo := newFakeBookingRepo(
		testBooking(1, domain.StatusConfirmed, monday.Add(10*time.Hour), monday.Add(11*time.Hour)),
	)
	svc := newTestService(t, repo, 1)

	resp, err := svc.GetTenantBookings(context.Background(), &models.GetTenantBookingsRequest{
		UserID:   adminID,
		TenantID: 1,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	_, err = svc.GetTenantBookings(context.Background(), &models.GetTenantBookingsRequest{
		UserID:   ownerID,
		TenantID: 1,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_Owner(t *testing.T) {
	repo := newFakeBookingRepo(
		testBooking(1, domain.StatusPending, monday.Add(10*time.Hour), monday.Add(11*time.Hour)),
	)
	svc := newTestService(t, repo, 1)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID:             ownerID,
		CancellationReason: "changed plans",
	})
	require.NoError(t, err)
	assert.Equal(t, "changed plans", repo.cancelled[1])
}

func TestCancel_FinishedBooking(t *testing.T) {
	repo := newFakeBookingRepo(
		testBooking(1, domain.StatusCompleted, monday.Add(10*time.Hour), monday.Add(11*time.Hour)),
	)
	svc := newTestService(t, repo, 1)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: ownerID})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_AccessDenied(t *testing.T) {
	repo := newFakeBookingRepo(
		testBooking(1, domain.StatusPending, monday.Add(10*time.Hour), monday.Add(11*time.Hour)),
	)
	svc := newTestService(t, repo, 1)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: strangerID})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.cancelled)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	repo := newFakeBookingRepo(
		testBooking(1, domain.StatusPending, monday.Add(10*time.Hour), monday.Add(11*time.Hour)),
	)
	svc := newTestService(t, repo, 1)

	long := make([]byte, domain.MaxReasonLength+1)
	for i := range long {
		long[i] = 'a'
	}
	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID:             ownerID,
		CancellationReason: string(long),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_AdminOnly(t *testing.T) {
	repo := newFakeBookingRepo(
		testBooking(1, domain.StatusPending, monday.Add(10*time.Hour), monday.Add(11*time.Hour)),
	)
	svc := newTestService(t, repo, 1)

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: ownerID, Status: "confirmed"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: adminID, Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, repo.statusUpdates[1])
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	repo := newFakeBookingRepo(
		testBooking(1, domain.StatusPending, monday.Add(10*time.Hour), monday.Add(11*time.Hour)),
	)
	svc := newTestService(t, repo, 1)

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: adminID, Status: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_ReactivationRechecksSlot(t *testing.T) {
	// Отменённое бронирование возвращается в слот, который уже занят другим
	cancelled := testBooking(1, domain.StatusCancelled, monday.Add(10*time.Hour), monday.Add(11*time.Hour))
	competitor := testBooking(2, domain.StatusConfirmed, monday.Add(10*time.Hour), monday.Add(11*time.Hour))
	repo := newFakeBookingRepo(cancelled, competitor)
	svc := newTestService(t, repo, 1)

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: adminID, Status: "confirmed"})
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Empty(t, repo.statusUpdates)
}

func TestUpdateStatus_ReactivationSucceedsWhenSlotFree(t *testing.T) {
	cancelled := testBooking(1, domain.StatusCancelled, monday.Add(10*time.Hour), monday.Add(11*time.Hour))
	repo := newFakeBookingRepo(cancelled)
	svc := newTestService(t, repo, 1)

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: adminID, Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, repo.statusUpdates[1])
}

func TestReschedule_PreservesDuration(t *testing.T) {
	booking := testBooking(1, domain.StatusConfirmed, monday.Add(10*time.Hour), monday.Add(11*time.Hour+30*time.Minute))
	repo := newFakeBookingRepo(booking)
	svc := newTestService(t, repo, 1)

	newStart := monday.Add(13 * time.Hour)
	resp, err := svc.Reschedule(context.Background(), 1, &models.RescheduleRequest{
		UserID:     ownerID,
		NewStartAt: newStart,
	})
	require.NoError(t, err)

	assert.Equal(t, newStart, resp.StartAt)
	assert.Equal(t, newStart.Add(90*time.Minute), resp.EndAt)
	assert.Equal(t, [2]time.Time{newStart, newStart.Add(90 * time.Minute)}, repo.timeUpdates[1])
}

func TestReschedule_Conflict(t *testing.T) {
	booking := testBooking(1, domain.StatusConfirmed, monday.Add(10*time.Hour), monday.Add(11*time.Hour))
	competitor := testBooking(2, domain.StatusConfirmed, monday.Add(13*time.Hour), monday.Add(14*time.Hour))
	repo := newFakeBookingRepo(booking, competitor)
	svc := newTestService(t, repo, 1)

	_, err := svc.Reschedule(context.Background(), 1, &models.RescheduleRequest{
		UserID:     ownerID,
		NewStartAt: monday.Add(13 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Empty(t, repo.timeUpdates)
}

func TestReschedule_ExcludesSelfFromCapacity(t *testing.T) {
	// Перенос внутри того же слота не конфликтует сам с собой
	booking := testBooking(1, domain.StatusConfirmed, monday.Add(10*time.Hour), monday.Add(11*time.Hour))
	repo := newFakeBookingRepo(booking)
	svc := newTestService(t, repo, 1)

	_, err := svc.Reschedule(context.Background(), 1, &models.RescheduleRequest{
		UserID:     ownerID,
		NewStartAt: monday.Add(10*time.Hour + 30*time.Minute),
	})
	assert.NoError(t, err)
}

func TestReschedule_FinishedBooking(t *testing.T) {
	booking := testBooking(1, domain.StatusCompleted, monday.Add(10*time.Hour), monday.Add(11*time.Hour))
	svc := newTestService(t, newFakeBookingRepo(booking), 1)

	_, err := svc.Reschedule(context.Background(), 1, &models.RescheduleRequest{
		UserID:     ownerID,
		NewStartAt: monday.Add(13 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrCannotReschedule)
}

func TestReschedule_ZeroStart(t *testing.T) {
	booking := testBooking(1, domain.StatusConfirmed, monday.Add(10*time.Hour), monday.Add(11*time.Hour))
	svc := newTestService(t, newFakeBookingRepo(booking), 1)

	_, err := svc.Reschedule(context.Background(), 1, &models.RescheduleRequest{UserID: ownerID})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
