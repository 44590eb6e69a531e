package models

import (
	"time"

	"github.com/evans-studio/detailor-booking/internal/domain"
	"github.com/evans-studio/detailor-booking/pkg/types"
)

// Request модели

// UpsertPatternRequest запрос на создание или обновление паттерна дня недели
type UpsertPatternRequest struct {
	UserID          int64  `json:"userId"`
	TenantID        int64  `json:"tenantId"`
	Weekday         int    `json:"weekday"` // 0 = воскресенье .. 6 = суббота
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	SlotDurationMin int    `json:"slotDurationMin"`
	Capacity        int    `json:"capacity"`
}

// ToDomain конвертирует request в domain модель
func (r *UpsertPatternRequest) ToDomain() (*domain.WorkPattern, error) {
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}
	return &domain.WorkPattern{
		TenantID:        r.TenantID,
		Weekday:         time.Weekday(r.Weekday),
		StartTime:       start,
		EndTime:         end,
		SlotDurationMin: r.SlotDurationMin,
		Capacity:        r.Capacity,
	}, nil
}

// CreateBlackoutRequest запрос на создание блэкаута
type CreateBlackoutRequest struct {
	UserID   int64     `json:"userId"`
	TenantID int64     `json:"tenantId"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Reason   *string   `json:"reason,omitempty"`
}

// UpsertPricingConfigRequest запрос на обновление конфигурации прайсинга
type UpsertPricingConfigRequest struct {
	UserID           int64              `json:"userId"`
	TenantID         int64              `json:"tenantId"`
	VehicleTiers     map[string]float64 `json:"vehicleTiers"`
	TaxRate          float64            `json:"taxRate"`
	FreeRadiusMiles  float64            `json:"freeRadiusMiles"`
	SurchargePerMile float64            `json:"surchargePerMile"`
}

// Response модели

// WorkPatternResponse паттерн дня недели
type WorkPatternResponse struct {
	ID              int64  `json:"id"`
	TenantID        int64  `json:"tenantId"`
	Weekday         int    `json:"weekday"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	SlotDurationMin int    `json:"slotDurationMin"`
	Capacity        int    `json:"capacity"`
}

// BlackoutResponse блэкаут
type BlackoutResponse struct {
	ID       int64     `json:"id"`
	TenantID int64     `json:"tenantId"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Reason   *string   `json:"reason,omitempty"`
}

// ScheduleResponse недельное расписание арендатора с блэкаутами окна
type ScheduleResponse struct {
	TenantID  int64                 `json:"tenantId"`
	Patterns  []WorkPatternResponse `json:"patterns"`
	Blackouts []BlackoutResponse    `json:"blackouts"`
}

// PricingConfigResponse конфигурация прайсинга арендатора
type PricingConfigResponse struct {
	TenantID         int64              `json:"tenantId"`
	VehicleTiers     map[string]float64 `json:"vehicleTiers"`
	TaxRate          float64            `json:"taxRate"`
	FreeRadiusMiles  float64            `json:"freeRadiusMiles"`
	SurchargePerMile float64            `json:"surchargePerMile"`
}

// Методы конвертации

// FromDomainPattern конвертирует domain модель в DTO
func FromDomainPattern(p *domain.WorkPattern) *WorkPatternResponse {
	if p == nil {
		return nil
	}
	return &WorkPatternResponse{
		ID:              p.ID,
		TenantID:        p.TenantID,
		Weekday:         int(p.Weekday),
		StartTime:       p.StartTime.String(),
		EndTime:         p.EndTime.String(),
		SlotDurationMin: p.SlotDurationMin,
		Capacity:        p.Capacity,
	}
}

// FromDomainBlackout конвертирует domain модель в DTO
func FromDomainBlackout(b *domain.Blackout) *BlackoutResponse {
	if b == nil {
		return nil
	}
	return &BlackoutResponse{
		ID:       b.ID,
		TenantID: b.TenantID,
		StartsAt: b.StartsAt,
		EndsAt:   b.EndsAt,
		Reason:   b.Reason,
	}
}

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.PricingConfig) *PricingConfigResponse {
	if c == nil {
		return nil
	}
	return &PricingConfigResponse{
		TenantID:         c.TenantID,
		VehicleTiers:     c.VehicleTiers,
		TaxRate:          c.TaxRate,
		FreeRadiusMiles:  c.Distance.FreeRadiusMiles,
		SurchargePerMile: c.Distance.SurchargePerMile,
	}
}
