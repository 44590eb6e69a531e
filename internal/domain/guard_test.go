package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evans-studio/detailor-booking/pkg/types"
)

func mondayPattern(t *testing.T, capacity int) *WorkPattern {
	t.Helper()

	start, err := types.NewTimeStringFromString("09:00")
	require.NoError(t, err)
	end, err := types.NewTimeStringFromString("17:00")
	require.NoError(t, err)

	return &WorkPattern{
		ID:              1,
		TenantID:        1,
		Weekday:         time.Monday,
		StartTime:       start,
		EndTime:         end,
		SlotDurationMin: 30,
		Capacity:        capacity,
	}
}

// 2026-09-07 - понедельник
func mondayAt(hour, minute int) time.Time {
	return time.Date(2026, 9, 7, hour, minute, 0, 0, time.UTC)
}

func blocking(id int64, start, end time.Time) *Booking {
	return &Booking{
		ID:       id,
		TenantID: 1,
		StartAt:  start,
		EndAt:    end,
		Status:   StatusConfirmed,
	}
}

func TestCheckIntervalFree_OK(t *testing.T) {
	err := CheckIntervalFree(mondayPattern(t, 2), mondayAt(10, 0), mondayAt(10, 30), nil, nil, nil)
	assert.NoError(t, err)
}

func TestCheckIntervalFree_ClosedDay(t *testing.T) {
	err := CheckIntervalFree(mondayPattern(t, 0), mondayAt(10, 0), mondayAt(10, 30), nil, nil, nil)
	assert.ErrorIs(t, err, ErrIntervalUnavailable)

	err = CheckIntervalFree(nil, mondayAt(10, 0), mondayAt(10, 30), nil, nil, nil)
	assert.ErrorIs(t, err, ErrIntervalUnavailable)
}

func TestCheckIntervalFree_OutsideWorkingHours(t *testing.T) {
	pattern := mondayPattern(t, 2)

	err := CheckIntervalFree(pattern, mondayAt(8, 30), mondayAt(9, 0), nil, nil, nil)
	assert.ErrorIs(t, err, ErrIntervalUnavailable)

	err = CheckIntervalFree(pattern, mondayAt(16, 45), mondayAt(17, 15), nil, nil, nil)
	assert.ErrorIs(t, err, ErrIntervalUnavailable)
}

func TestCheckIntervalFree_BlackoutWins(t *testing.T) {
	pattern := mondayPattern(t, 10)
	blackouts := []*Blackout{{
		ID:       1,
		TenantID: 1,
		StartsAt: mondayAt(12, 0),
		EndsAt:   mondayAt(13, 0),
	}}

	// Даже при свободной ёмкости блэкаут закрывает интервал
	err := CheckIntervalFree(pattern, mondayAt(12, 0), mondayAt(12, 30), blackouts, nil, nil)
	assert.ErrorIs(t, err, ErrIntervalUnavailable)

	// Граничащий интервал не пересекает блэкаут
	err = CheckIntervalFree(pattern, mondayAt(13, 0), mondayAt(13, 30), blackouts, nil, nil)
	assert.NoError(t, err)
}

func TestCheckIntervalFree_CapacityExhausted(t *testing.T) {
	pattern := mondayPattern(t, 1)
	bookings := []*Booking{blocking(1, mondayAt(10, 0), mondayAt(10, 30))}

	err := CheckIntervalFree(pattern, mondayAt(10, 0), mondayAt(10, 30), nil, bookings, nil)
	assert.ErrorIs(t, err, ErrIntervalUnavailable)

	// Соседний слот свободен
	err = CheckIntervalFree(pattern, mondayAt(10, 30), mondayAt(11, 0), nil, bookings, nil)
	assert.NoError(t, err)
}

func TestCheckIntervalFree_ReleasedStatusFreesCapacity(t *testing.T) {
	pattern := mondayPattern(t, 1)
	cancelled := blocking(1, mondayAt(10, 0), mondayAt(10, 30))
	cancelled.Status = StatusCancelled

	err := CheckIntervalFree(pattern, mondayAt(10, 0), mondayAt(10, 30), nil, []*Booking{cancelled}, nil)
	assert.NoError(t, err)
}

func TestCheckIntervalFree_ExcludesSelf(t *testing.T) {
	pattern := mondayPattern(t, 1)
	self := blocking(42, mondayAt(10, 0), mondayAt(10, 30))
	excludeID := int64(42)

	// Перепроверка интервала собственного бронирования не считает его занятым
	err := CheckIntervalFree(pattern, mondayAt(10, 0), mondayAt(10, 30), nil, []*Booking{self}, &excludeID)
	assert.NoError(t, err)
}

func TestCheckIntervalFree_LongBookingOccupiesAllTouchedSlots(t *testing.T) {
	pattern := mondayPattern(t, 1)
	// Бронирование на час занимает оба получасовых слота
	bookings := []*Booking{blocking(1, mondayAt(10, 0), mondayAt(11, 0))}

	err := CheckIntervalFree(pattern, mondayAt(10, 30), mondayAt(11, 0), nil, bookings, nil)
	assert.ErrorIs(t, err, ErrIntervalUnavailable)

	err = CheckIntervalFree(pattern, mondayAt(11, 0), mondayAt(11, 30), nil, bookings, nil)
	assert.NoError(t, err)
}

func TestBookingOverlaps_StrictBoundaries(t *testing.T) {
	b := blocking(1, mondayAt(10, 0), mondayAt(11, 0))

	assert.True(t, b.Overlaps(mondayAt(10, 30), mondayAt(11, 30)))
	assert.True(t, b.Overlaps(mondayAt(9, 30), mondayAt(10, 30)))
	// Граничащие интервалы не пересекаются
	assert.False(t, b.Overlaps(mondayAt(11, 0), mondayAt(12, 0)))
	assert.False(t, b.Overlaps(mondayAt(9, 0), mondayAt(10, 0)))
}

func TestClampWindowDays(t *testing.T) {
	assert.Equal(t, 1, ClampWindowDays(0))
	assert.Equal(t, 1, ClampWindowDays(-5))
	assert.Equal(t, 7, ClampWindowDays(7))
	assert.Equal(t, 60, ClampWindowDays(60))
	assert.Equal(t, 60, ClampWindowDays(1000))
}

func TestWorkPatternValidate(t *testing.T) {
	valid := mondayPattern(t, 2)
	assert.NoError(t, valid.Validate())

	inverted := mondayPattern(t, 2)
	inverted.StartTime, inverted.EndTime = inverted.EndTime, inverted.StartTime
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidWorkPattern)

	zeroStep := mondayPattern(t, 2)
	zeroStep.SlotDurationMin = 0
	assert.ErrorIs(t, zeroStep.Validate(), ErrInvalidWorkPattern)
}

func TestBlackoutValidate(t *testing.T) {
	valid := &Blackout{StartsAt: mondayAt(12, 0), EndsAt: mondayAt(13, 0)}
	assert.NoError(t, valid.Validate())

	inverted := &Blackout{StartsAt: mondayAt(13, 0), EndsAt: mondayAt(12, 0)}
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidBlackout)

	empty := &Blackout{StartsAt: mondayAt(12, 0), EndsAt: mondayAt(12, 0)}
	assert.ErrorIs(t, empty.Validate(), ErrInvalidBlackout)
}
