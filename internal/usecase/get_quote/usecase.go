package get_quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/evans-studio/detailor-booking/internal/domain"
	storagePricing "github.com/evans-studio/detailor-booking/internal/infra/storage/pricing"
	tenantClient "github.com/evans-studio/detailor-booking/internal/integrations/tenantservice"
	"github.com/evans-studio/detailor-booking/internal/pricing"
)

// UseCase use case расчёта стоимости без бронирования
type UseCase struct {
	pricingRepo  PricingRepository
	tenantClient TenantServiceClient
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(pricingRepo PricingRepository, tenantCli TenantServiceClient, logger Logger) *UseCase {
	return &UseCase{
		pricingRepo:  pricingRepo,
		tenantClient: tenantCli,
		logger:       logger,
	}
}

// Execute выполняет use case расчёта стоимости
//
// Одинаковый вход всегда даёт одинаковую разбивку: расчёт детерминирован
// и не зависит от времени вызова
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.TenantID <= 0 {
		return nil, fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// 1. Проверяем арендатора
	if _, err := uc.tenantClient.GetTenant(ctx, req.TenantID); err != nil {
		if errors.Is(err, tenantClient.ErrTenantNotFound) || errors.Is(err, tenantClient.ErrTenantInactive) {
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("GetQuote: failed to resolve tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to resolve tenant: %v", ErrInternal, err)
	}

	// 2. Загружаем услугу и доп. услуги
	service, err := uc.pricingRepo.GetService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, storagePricing.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetQuote: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	addons, err := uc.pricingRepo.GetAddOns(ctx, req.TenantID, req.AddonIDs)
	if err != nil {
		uc.logger.Error("GetQuote: failed to get addons for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get addons: %v", ErrInternal, err)
	}
	if len(addons) != countUnique(req.AddonIDs) {
		return nil, ErrAddOnNotFound
	}

	// 3. Конфигурация арендатора, при отсутствии - безопасные дефолты
	cfg, err := uc.pricingRepo.GetConfig(ctx, req.TenantID)
	if err != nil {
		if !errors.Is(err, storagePricing.ErrConfigNotFound) {
			uc.logger.Error("GetQuote: failed to get pricing config for tenant=%d: %v", req.TenantID, err)
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

	return &Response{
		TenantID:    req.TenantID,
		ServiceID:   req.ServiceID,
		DurationMin: service.BaseDurationMin,
		Breakdown:   breakdown,
	}, nil
}

// countUnique количество уникальных идентификаторов в срезе
func countUnique(ids []int64) int {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
