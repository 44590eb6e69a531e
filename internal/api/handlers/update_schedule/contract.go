package update_schedule

import (
	"context"

	"github.com/evans-studio/detailor-booking/internal/service/schedule/models"
)

type ScheduleService interface {
	UpsertPattern(ctx context.Context, req *models.UpsertPatternRequest) (*models.WorkPatternResponse, error)
	DeletePattern(ctx context.Context, tenantID int64, weekday int, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
