package get_schedule

import (
	"context"
	"time"

	"github.com/evans-studio/detailor-booking/internal/service/schedule/models"
)

type ScheduleService interface {
	GetSchedule(ctx context.Context, tenantID int64, windowStart time.Time, windowDays int) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
