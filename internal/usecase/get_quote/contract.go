package get_quote

import (
	"context"

	"github.com/evans-studio/detailor-booking/internal/domain"
	"github.com/evans-studio/detailor-booking/internal/integrations/tenantservice"
)

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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
