package domain

import (
	"time"

	"github.com/evans-studio/detailor-booking/pkg/types"
)

// WorkPattern recurring weekly availability for a tenant
// At most one pattern per (tenant, weekday); absence means the day is closed
type WorkPattern struct {
	ID              int64
	TenantID        int64
	Weekday         time.Weekday // 0 = Sunday .. 6 = Saturday
	StartTime       types.TimeString
	EndTime         types.TimeString
	SlotDurationMin int
	Capacity        int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsClosed возвращает true, если по паттерну день фактически закрыт
func (p *WorkPattern) IsClosed() bool {
	return p.Capacity <= 0
}

// Validate проверяет инварианты паттерна
// Невалидные строки из БД при генерации слотов пропускаются с предупреждением
func (p *WorkPattern) Validate() error {
	if p.Weekday < time.Sunday || p.Weekday > time.Saturday {
		return ErrInvalidWorkPattern
	}
	if p.SlotDurationMin <= 0 {
		return ErrInvalidWorkPattern
	}
	if p.Capacity < 0 {
		return ErrInvalidWorkPattern
	}
	if err := p.StartTime.Validate(); err != nil {
		return ErrInvalidWorkPattern
	}
	if err := p.EndTime.Validate(); err != nil {
		return ErrInvalidWorkPattern
	}
	if !p.StartTime.IsBefore(p.EndTime) {
		return ErrInvalidWorkPattern
	}
	return nil
}

// Blackout an explicit interval where no bookings are allowed
// Always wins over pattern capacity
type Blackout struct {
	ID        int64
	TenantID  int64
	StartsAt  time.Time
	EndsAt    time.Time
	Reason    *string
	CreatedAt time.Time
}

// Validate проверяет инвариант starts_at < ends_at
func (b *Blackout) Validate() error {
	if !b.StartsAt.Before(b.EndsAt) {
		return ErrInvalidBlackout
	}
	return nil
}

// Covers проверяет пересечение блэкаута с интервалом [start, end)
func (b *Blackout) Covers(start, end time.Time) bool {
	return end.After(b.StartsAt) && start.Before(b.EndsAt)
}
