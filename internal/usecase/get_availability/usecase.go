package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evans-studio/detailor-booking/internal/domain"
	tenantClient "github.com/evans-studio/detailor-booking/internal/integrations/tenantservice"
)

// UseCase use case получения доступных слотов в окне дат
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	tenantClient TenantServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	tenantClient TenantServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		tenantClient: tenantClient,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
//
// Окно зажимается в [1, 60] дней, вся арифметика идёт в UTC по границам
// календарных дней. Некорректные строки паттернов и блэкаутов пропускаются
// с предупреждением: доступность деградирует, но не ломается целиком
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.TenantID <= 0 {
		return nil, fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	// 1. Проверяем арендатора
	if _, err := uc.tenantClient.GetTenant(ctx, req.TenantID); err != nil {
		if errors.Is(err, tenantClient.ErrTenantNotFound) || errors.Is(err, tenantClient.ErrTenantInactive) {
			uc.logger.Warn("GetAvailability: tenant id=%d not found or inactive", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("GetAvailability: failed to resolve tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to resolve tenant: %v", ErrInternal, err)
	}

	// 2. Нормализуем окно
	windowDays := domain.ClampWindowDays(req.WindowDays)

	windowStart := req.WindowStart
	if windowStart.IsZero() {
		windowStart = uc.timeProvider.Now()
	}
	windowStart = startOfDayUTC(windowStart)
	windowEnd := windowStart.AddDate(0, 0, windowDays)

	// 3. Загружаем паттерны и раскладываем по дням недели
	patterns, err := uc.scheduleRepo.GetPatternsByTenant(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get work patterns for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get work patterns: %v", ErrInternal, err)
	}

	byWeekday := make(map[time.Weekday]*domain.WorkPattern, len(patterns))
	for _, p := range patterns {
		if err := p.Validate(); err != nil {
			uc.logger.Warn("GetAvailability: skipping malformed work pattern id=%d tenant=%d: %v", p.ID, p.TenantID, err)
			continue
		}
		byWeekday[p.Weekday] = p
	}

	// 4. Загружаем блэкауты окна, отбрасывая некорректные строки
	blackouts, err := uc.scheduleRepo.GetBlackoutsInRange(ctx, req.TenantID, windowStart, windowEnd)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get blackouts for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get blackouts: %v", ErrInternal, err)
	}

	validBlackouts := blackouts[:0]
	for _, b := range blackouts {
		if err := b.Validate(); err != nil {
			uc.logger.Warn("GetAvailability: skipping malformed blackout id=%d tenant=%d: %v", b.ID, b.TenantID, err)
			continue
		}
		validBlackouts = append(validBlackouts, b)
	}

	// 5. Загружаем блокирующие бронирования всего окна одним запросом
	bookings, err := uc.bookingRepo.GetBlockingInRange(ctx, req.TenantID, windowStart, windowEnd, nil)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 6. Генерируем слоты по дням
	// Дни идут по возрастанию, внутри дня курсор тоже - итог отсортирован,
	// дубликаты невозможны: кандидаты строго разбивают рабочий интервал
	slots := make([]domain.Slot, 0)
	for day := windowStart; day.Before(windowEnd); day = day.AddDate(0, 0, 1) {
		pattern, ok := byWeekday[day.Weekday()]
		if !ok || pattern.IsClosed() {
			continue
		}

		daySlots, err := generateDaySlots(pattern, day, validBlackouts, bookings)
		if err != nil {
			uc.logger.Warn("GetAvailability: skipping day %s for tenant=%d: %v",
				day.Format(domain.DateFormat), req.TenantID, err)
			continue
		}

		slots = append(slots, daySlots...)
	}

	uc.logger.Info("GetAvailability: generated %d slots for tenant=%d, window=%s+%dd",
		len(slots), req.TenantID, windowStart.Format(domain.DateFormat), windowDays)

	return &Response{
		TenantID:    req.TenantID,
		WindowStart: windowStart,
		WindowDays:  windowDays,
		Slots:       slots,
	}, nil
}
