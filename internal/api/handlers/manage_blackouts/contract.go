package manage_blackouts

import (
	"context"

	"github.com/evans-studio/detailor-booking/internal/service/schedule/models"
)

type ScheduleService interface {
	CreateBlackout(ctx context.Context, req *models.CreateBlackoutRequest) (*models.BlackoutResponse, error)
	DeleteBlackout(ctx context.Context, tenantID, blackoutID, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
