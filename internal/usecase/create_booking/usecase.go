package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/evans-studio/detailor-booking/internal/domain"
	storageBooking "github.com/evans-studio/detailor-booking/internal/infra/storage/booking"
	storagePricing "github.com/evans-studio/detailor-booking/internal/infra/storage/pricing"
	tenantClient "github.com/evans-studio/detailor-booking/internal/integrations/tenantservice"
	"github.com/evans-studio/detailor-booking/internal/pricing"
)

// UseCase use case создания бронирования
//
// Проверка конфликта и вставка выполняются в одной serializable
// транзакции: повторное чтение блокирующих бронирований идёт с
// FOR UPDATE, поэтому два конкурирующих запроса на последнее место
// не могут зафиксироваться оба
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	pricingRepo  PricingRepository
	tenantClient TenantServiceClient
	txManager    TxManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	pricingRepo PricingRepository,
	tenantCli TenantServiceClient,
	txManager TxManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		pricingRepo:  pricingRepo,
		tenantClient: tenantCli,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация запроса
	if err := validateRequest(req, uc.timeProvider.Now()); err != nil {
		return nil, err
	}

	// 2. Проверяем арендатора
	if _, err := uc.tenantClient.GetTenant(ctx, req.TenantID); err != nil {
		if errors.Is(err, tenantClient.ErrTenantNotFound) || errors.Is(err, tenantClient.ErrTenantInactive) {
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("CreateBooking: failed to resolve tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to resolve tenant: %v", ErrInternal, err)
	}

	// 3. Загружаем услугу и доп. услуги
	service, err := uc.pricingRepo.GetService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, storagePricing.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	addons, err := uc.pricingRepo.GetAddOns(ctx, req.TenantID, req.AddonIDs)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get addons for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get addons: %v", ErrInternal, err)
	}
	if len(addons) != len(uniqueIDs(req.AddonIDs)) {
		return nil, ErrAddOnNotFound
	}

	startAt := req.StartAt.UTC()
	endAt := startAt.Add(time.Duration(service.BaseDurationMin) * time.Minute)

	// 4. Считаем разбивку стоимости по конфигурации арендатора
	cfg, err := uc.pricingRepo.GetConfig(ctx, req.TenantID)
	if err != nil {
		if !errors.Is(err, storagePricing.ErrConfigNotFound) {
			uc.logger.Error("CreateBooking: failed to get pricing config for tenant=%d: %v", req.TenantID, err)
			return nil, fmt.Errorf("%w: failed to get pricing config: %v", ErrInternal, err)
		}
		cfg = domain.DefaultPricingConfig(req.TenantID)
	}

	deltas := make([]float64, 0, len(addons))
	for _, a := range addons {
		deltas = append(deltas, a.PriceDelta)
	}

	breakdown := pricing.ComputeBreakdown(pricing.Input{
		BasePrice:     service.BasePrice,
		VehicleTier:   req.VehicleTier,
		AddonDeltas:   deltas,
		DistanceMiles: req.DistanceMiles,
	}, cfg)

	booking := &domain.Booking{
		TenantID:       req.TenantID,
		CustomerID:     req.CustomerID,
		ServiceID:      req.ServiceID,
		AddonIDs:       req.AddonIDs,
		StartAt:        startAt,
		EndAt:          endAt,
		Status:         domain.StatusPending,
		PaymentStatus:  domain.PaymentUnpaid,
		Reference:      uuid.NewString(),
		VehicleTier:    req.VehicleTier,
		DistanceMiles:  req.DistanceMiles,
		PriceBreakdown: breakdown,
		Notes:          req.Notes,
	}

	// 5. Проверка конфликта и вставка в одной serializable транзакции
	var created *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		pattern, err := uc.loadPattern(txCtx, req.TenantID, startAt.Weekday())
		if err != nil {
			return err
		}
		if pattern == nil {
			return fmt.Errorf("%w: day is closed", ErrSlotConflict)
		}

		day := time.Date(startAt.Year(), startAt.Month(), startAt.Day(), 0, 0, 0, 0, time.UTC)
		dayStart, err := pattern.StartTime.Combine(day)
		if err != nil {
			return fmt.Errorf("%w: malformed work pattern: %v", ErrInternal, err)
		}
		dayEnd, err := pattern.EndTime.Combine(day)
		if err != nil {
			return fmt.Errorf("%w: malformed work pattern: %v", ErrInternal, err)
		}

		blackouts, err := uc.scheduleRepo.GetBlackoutsInRange(txCtx, req.TenantID, startAt, endAt)
		if err != nil {
			return fmt.Errorf("%w: failed to get blackouts: %v", ErrInternal, err)
		}

		// Читаем блокирующие бронирования всего рабочего дня с FOR UPDATE:
		// длинное бронирование может задевать соседние слоты сетки
		existing, err := uc.bookingRepo.GetBlockingInRange(txCtx, req.TenantID, dayStart, dayEnd, nil)
		if err != nil {
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		if err := domain.CheckIntervalFree(pattern, startAt, endAt, blackouts, existing, nil); err != nil {
			return fmt.Errorf("%w: %v", ErrSlotConflict, err)
		}

		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, storageBooking.ErrIntervalTaken) {
				return fmt.Errorf("%w: interval already taken", ErrSlotConflict)
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			uc.logger.Info("CreateBooking: conflict for tenant=%d interval=[%s, %s): %v",
				req.TenantID, startAt.Format(time.RFC3339), endAt.Format(time.RFC3339), err)
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed for tenant=%d: %v", req.TenantID, err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d ref=%s tenant=%d customer=%d total=%.2f",
		created.ID, created.Reference, created.TenantID, created.CustomerID, created.PriceBreakdown.Total)

	return &Response{Booking: created}, nil
}

// loadPattern возвращает валидный паттерн дня недели или nil, если день закрыт
func (uc *UseCase) loadPattern(ctx context.Context, tenantID int64, weekday time.Weekday) (*domain.WorkPattern, error) {
	patterns, err := uc.scheduleRepo.GetPatternsByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get work patterns: %v", ErrInternal, err)
	}
	for _, p := range patterns {
		if p.Weekday != weekday {
			continue
		}
		if err := p.Validate(); err != nil {
			uc.logger.Warn("CreateBooking: skipping malformed work pattern id=%d tenant=%d: %v", p.ID, p.TenantID, err)
			return nil, nil
		}
		return p, nil
	}
	return nil, nil
}

// uniqueIDs возвращает уникальные идентификаторы, сохраняя порядок
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
