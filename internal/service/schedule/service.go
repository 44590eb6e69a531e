package schedule

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/evans-studio/detailor-booking/internal/domain"
	storagePricing "github.com/evans-studio/detailor-booking/internal/infra/storage/pricing"
	storageSchedule "github.com/evans-studio/detailor-booking/internal/infra/storage/schedule"
	tenantClient "github.com/evans-studio/detailor-booking/internal/integrations/tenantservice"
	"github.com/evans-studio/detailor-booking/internal/service/schedule/models"
)

// Service сервис для управления расписанием и прайсингом арендатора
type Service struct {
	scheduleRepo ScheduleRepository
	pricingRepo  PricingRepository
	tenantClient TenantServiceClient
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	pricingRepo PricingRepository,
	tenantCli TenantServiceClient,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		pricingRepo:  pricingRepo,
		tenantClient: tenantCli,
		logger:       logger,
	}
}

// GetSchedule возвращает недельное расписание арендатора и блэкауты окна
// Публичная операция, доступна без авторизации
func (s *Service) GetSchedule(ctx context.Context, tenantID int64, windowStart time.Time, windowDays int) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for tenant=%d", tenantID)

	if err := s.checkTenant(ctx, tenantID); err != nil {
		return nil, err
	}

	windowDays = domain.ClampWindowDays(windowDays)
	windowEnd := windowStart.AddDate(0, 0, windowDays)

	patterns, err := s.scheduleRepo.GetPatternsByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	blackouts, err := s.scheduleRepo.GetBlackoutsInRange(ctx, tenantID, windowStart, windowEnd)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	resp := &models.ScheduleResponse{
		TenantID:  tenantID,
		Patterns:  make([]models.WorkPatternResponse, 0, len(patterns)),
		Blackouts: make([]models.BlackoutResponse, 0, len(blackouts)),
	}
	for _, p := range patterns {
		resp.Patterns = append(resp.Patterns, *models.FromDomainPattern(p))
	}
	for _, b := range blackouts {
		resp.Blackouts = append(resp.Blackouts, *models.FromDomainBlackout(b))
	}

	return resp, nil
}

// UpsertPattern создает или обновляет паттерн дня недели
// Доступно только администраторам арендатора. На день недели хранится
// не более одного паттерна
func (s *Service) UpsertPattern(ctx context.Context, req *models.UpsertPatternRequest) (*models.WorkPatternResponse, error) {
	s.logger.Info("UpsertPattern: upserting pattern for tenant=%d weekday=%d by user=%d",
		req.TenantID, req.Weekday, req.UserID)

	if err := s.checkAdminAccess(ctx, req.TenantID, req.UserID); err != nil {
		return nil, err
	}

	pattern, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("UpsertPattern: invalid time format for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: invalid time format", ErrInvalidInput)
	}

	if err := pattern.Validate(); err != nil {
		s.logger.Warn("UpsertPattern: invalid pattern for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if pattern.SlotDurationMin < domain.MinSlotDurationMinutes || pattern.SlotDurationMin > domain.MaxSlotDurationMinutes {
		return nil, fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}
	if pattern.Capacity > domain.MaxCapacity {
		return nil, fmt.Errorf("%w: capacity must not exceed %d", ErrInvalidInput, domain.MaxCapacity)
	}

	saved, err := s.scheduleRepo.UpsertPattern(ctx, pattern)
	if err != nil {
		s.logger.Error("UpsertPattern: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: UpsertPattern - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertPattern: saved pattern id=%d for tenant=%d weekday=%d", saved.ID, saved.TenantID, saved.Weekday)
	return models.FromDomainPattern(saved), nil
}

// DeletePattern удаляет паттерн дня недели - день становится закрытым
// Доступно только администраторам арендатора
func (s *Service) DeletePattern(ctx context.Context, tenantID int64, weekday int, userID int64) error {
	s.logger.Info("DeletePattern: deleting pattern for tenant=%d weekday=%d by user=%d", tenantID, weekday, userID)

	if weekday < int(time.Sunday) || weekday > int(time.Saturday) {
		return fmt.Errorf("%w: weekday must be between 0 and 6", ErrInvalidInput)
	}

	if err := s.checkAdminAccess(ctx, tenantID, userID); err != nil {
		return err
	}

	if err := s.scheduleRepo.DeletePattern(ctx, tenantID, time.Weekday(weekday)); err != nil {
		if errors.Is(err, storageSchedule.ErrPatternNotFound) {
			s.logger.Warn("DeletePattern: pattern not found for tenant=%d weekday=%d", tenantID, weekday)
			return ErrPatternNotFound
		}
		s.logger.Error("DeletePattern: repository error for tenant=%d: %v", tenantID, err)
		return fmt.Errorf("%w: DeletePattern - repository error: %v", ErrInternal, err)
	}

	return nil
}

// CreateBlackout создает блэкаут - интервал, закрытый для бронирований
// Доступно только администраторам арендатора. Существующие бронирования
// внутри интервала не отменяются автоматически
func (s *Service) CreateBlackout(ctx context.Context, req *models.CreateBlackoutRequest) (*models.BlackoutResponse, error) {
	s.logger.Info("CreateBlackout: creating blackout for tenant=%d [%s, %s) by user=%d",
		req.TenantID, req.StartsAt.Format(time.RFC3339), req.EndsAt.Format(time.RFC3339), req.UserID)

	if err := s.checkAdminAccess(ctx, req.TenantID, req.UserID); err != nil {
		return nil, err
	}

	blackout := &domain.Blackout{
		TenantID: req.TenantID,
		StartsAt: req.StartsAt.UTC(),
		EndsAt:   req.EndsAt.UTC(),
		Reason:   req.Reason,
	}
	if err := blackout.Validate(); err != nil {
		s.logger.Warn("CreateBlackout: invalid interval for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: startsAt must be before endsAt", ErrInvalidInput)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reason too long", ErrInvalidInput)
	}

	created, err := s.scheduleRepo.CreateBlackout(ctx, blackout)
	if err != nil {
		s.logger.Error("CreateBlackout: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: CreateBlackout - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlackout: created blackout id=%d for tenant=%d", created.ID, created.TenantID)
	return models.FromDomainBlackout(created), nil
}

// DeleteBlackout удаляет блэкаут
// Доступно только администраторам арендатора
func (s *Service) DeleteBlackout(ctx context.Context, tenantID, blackoutID, userID int64) error {
	s.logger.Info("DeleteBlackout: deleting blackout id=%d for tenant=%d by user=%d", blackoutID, tenantID, userID)

	if err := s.checkAdminAccess(ctx, tenantID, userID); err != nil {
		return err
	}

	if err := s.scheduleRepo.DeleteBlackout(ctx, tenantID, blackoutID); err != nil {
		if errors.Is(err, storageSchedule.ErrBlackoutNotFound) {
			s.logger.Warn("DeleteBlackout: blackout id=%d not found for tenant=%d", blackoutID, tenantID)
			return ErrBlackoutNotFound
		}
		s.logger.Error("DeleteBlackout: repository error for tenant=%d: %v", tenantID, err)
		return fmt.Errorf("%w: DeleteBlackout - repository error: %v", ErrInternal, err)
	}

	return nil
}

// GetPricingConfig возвращает конфигурацию прайсинга арендатора
// При отсутствии строки возвращаются безопасные дефолты
func (s *Service) GetPricingConfig(ctx context.Context, tenantID, userID int64) (*models.PricingConfigResponse, error) {
	s.logger.Info("GetPricingConfig: fetching config for tenant=%d by user=%d", tenantID, userID)

	if err := s.checkAdminAccess(ctx, tenantID, userID); err != nil {
		return nil, err
	}

	cfg, err := s.pricingRepo.GetConfig(ctx, tenantID)
	if err != nil {
		if errors.Is(err, storagePricing.ErrConfigNotFound) {
			return models.FromDomainConfig(domain.DefaultPricingConfig(tenantID)), nil
		}
		s.logger.Error("GetPricingConfig: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetPricingConfig - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(cfg), nil
}

// UpsertPricingConfig создает или обновляет конфигурацию прайсинга
// Доступно только администраторам арендатора. Запись валидируется строго,
// мягкая нормализация применяется только на чтении при расчёте
func (s *Service) UpsertPricingConfig(ctx context.Context, req *models.UpsertPricingConfigRequest) (*models.PricingConfigResponse, error) {
	s.logger.Info("UpsertPricingConfig: upserting config for tenant=%d by user=%d", req.TenantID, req.UserID)

	if err := s.checkAdminAccess(ctx, req.TenantID, req.UserID); err != nil {
		return nil, err
	}

	if math.IsNaN(req.TaxRate) || req.TaxRate < 0 || req.TaxRate > 1 {
		return nil, fmt.Errorf("%w: taxRate must be within [0, 1]", ErrInvalidInput)
	}
	if math.IsNaN(req.FreeRadiusMiles) || req.FreeRadiusMiles < 0 {
		return nil, fmt.Errorf("%w: freeRadiusMiles must be non-negative", ErrInvalidInput)
	}
	if math.IsNaN(req.SurchargePerMile) || req.SurchargePerMile < 0 {
		return nil, fmt.Errorf("%w: surchargePerMile must be non-negative", ErrInvalidInput)
	}
	for tier, multiplier := range req.VehicleTiers {
		if tier == "" || math.IsNaN(multiplier) || multiplier <= 0 {
			return nil, fmt.Errorf("%w: vehicle tier multipliers must be positive", ErrInvalidInput)
		}
	}

	cfg := &domain.PricingConfig{
		TenantID:     req.TenantID,
		VehicleTiers: req.VehicleTiers,
		TaxRate:      req.TaxRate,
		Distance: domain.DistancePolicy{
			FreeRadiusMiles:  req.FreeRadiusMiles,
			SurchargePerMile: req.SurchargePerMile,
		},
	}

	saved, err := s.pricingRepo.UpsertConfig(ctx, cfg)
	if err != nil {
		s.logger.Error("UpsertPricingConfig: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: UpsertPricingConfig - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertPricingConfig: saved config for tenant=%d", saved.TenantID)
	return models.FromDomainConfig(saved), nil
}

// Вспомогательные методы

// checkTenant проверяет существование и активность арендатора
func (s *Service) checkTenant(ctx context.Context, tenantID int64) error {
	if _, err := s.tenantClient.GetTenant(ctx, tenantID); err != nil {
		if errors.Is(err, tenantClient.ErrTenantNotFound) || errors.Is(err, tenantClient.ErrTenantInactive) {
			s.logger.Warn("checkTenant: tenant id=%d not found or inactive", tenantID)
			return ErrTenantNotFound
		}
		s.logger.Error("checkTenant: failed to get tenant id=%d: %v", tenantID, err)
		return fmt.Errorf("%w: checkTenant - failed to get tenant: %v", ErrInternal, err)
	}
	return nil
}

// checkAdminAccess проверяет, что пользователь - администратор арендатора
func (s *Service) checkAdminAccess(ctx context.Context, tenantID, userID int64) error {
	member, err := s.tenantClient.GetMember(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrMemberNotFound) {
			s.logger.Warn("checkAdminAccess: user=%d is not a member of tenant=%d", userID, tenantID)
			return ErrAccessDenied
		}
		s.logger.Error("checkAdminAccess: failed to get member tenant=%d user=%d: %v", tenantID, userID, err)
		return fmt.Errorf("%w: checkAdminAccess - failed to get member: %v", ErrInternal, err)
	}

	if !member.IsAdmin() {
		s.logger.Warn("checkAdminAccess: user=%d is not an admin of tenant=%d", userID, tenantID)
		return ErrAccessDenied
	}

	return nil
}
