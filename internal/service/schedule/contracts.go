package schedule

import (
	"context"
	"time"

	"github.com/evans-studio/detailor-booking/internal/domain"
	"github.com/evans-studio/detailor-booking/internal/integrations/tenantservice"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetPatternsByTenant(ctx context.Context, tenantID int64) ([]*domain.WorkPattern, error)
	UpsertPattern(ctx context.Context, pattern *domain.WorkPattern) (*domain.WorkPattern, error)
	DeletePattern(ctx context.Context, tenantID int64, weekday time.Weekday) error
	GetBlackoutsInRange(ctx context.Context, tenantID int64, startAt, endAt time.Time) ([]*domain.Blackout, error)
	CreateBlackout(ctx context.Context, blackout *domain.Blackout) (*domain.Blackout, error)
	DeleteBlackout(ctx context.Context, tenantID, blackoutID int64) error
}

// PricingRepository интерфейс репозитория прайсинга
type PricingRepository interface {
	GetConfig(ctx context.Context, tenantID int64) (*domain.PricingConfig, error)
	UpsertConfig(ctx context.Context, config *domain.PricingConfig) (*domain.PricingConfig, error)
}

// TenantServiceClient интерфейс клиента для TenantService
type TenantServiceClient interface {
	GetTenant(ctx context.Context, tenantID int64) (*tenantservice.Tenant, error)
	GetMember(ctx context.Context, tenantID, userID int64) (*tenantservice.Member, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
