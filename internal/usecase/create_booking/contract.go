package create_booking

import (
	"context"
	"time"

	"github.com/evans-studio/detailor-booking/internal/domain"
	"github.com/evans-studio/detailor-booking/internal/integrations/tenantservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	// GetBlockingInRange внутри транзакции читает с блокировкой строк
	GetBlockingInRange(ctx context.Context, tenantID int64, startAt, endAt time.Time, excludeID *int64) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetPatternsByTenant(ctx context.Context, tenantID int64) ([]*domain.WorkPattern, error)
	GetBlackoutsInRange(ctx context.Context, tenantID int64, startAt, endAt time.Time) ([]*domain.Blackout, error)
}

// PricingRepository интерфейс репозитория прайсинга
type PricingRepository interface {
	GetService(ctx context.Context, tenantID, serviceID int64) (*domain.Service, error)
	GetAddOns(ctx context.Context, tenantID int64, addonIDs []int64) ([]*domain.AddOn, error)
	GetConfig(ctx context.Context, tenantID int64) (*domain.PricingConfig, error)
}

// TenantServiceClient интерфейс клиента для TenantService
type TenantServiceClient interface {
	GetTenant(ctx context.Context, tenantID int64) (*tenantservice.Tenant, error)
}

// TxManager интерфейс менеджера транзакций
// Проверка конфликта и вставка выполняются в одной serializable транзакции
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
