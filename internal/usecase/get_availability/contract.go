package get_availability

import (
	"context"
	"time"

	"github.com/evans-studio/detailor-booking/internal/domain"
	"github.com/evans-studio/detailor-booking/internal/integrations/tenantservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetBlockingInRange получает блокирующие бронирования, пересекающиеся с окном
	GetBlockingInRange(ctx context.Context, tenantID int64, startAt, endAt time.Time, excludeID *int64) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetPatternsByTenant(ctx context.Context, tenantID int64) ([]*domain.WorkPattern, error)
	GetBlackoutsInRange(ctx context.Context, tenantID int64, startAt, endAt time.Time) ([]*domain.Blackout, error)
}

// TenantServiceClient интерфейс клиента для TenantService
type TenantServiceClient interface {
	GetTenant(ctx context.Context, tenantID int64) (*tenantservice.Tenant, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
