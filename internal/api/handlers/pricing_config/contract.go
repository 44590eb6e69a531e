package pricing_config

import (
	"context"

	"github.com/evans-studio/detailor-booking/internal/service/schedule/models"
)

type ScheduleService interface {
	GetPricingConfig(ctx context.Context, tenantID, userID int64) (*models.PricingConfigResponse, error)
	UpsertPricingConfig(ctx context.Context, req *models.UpsertPricingConfigRequest) (*models.PricingConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
