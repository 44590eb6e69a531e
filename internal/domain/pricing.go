package domain

import "time"

// Service a bookable service offered by a tenant
type Service struct {
	ID              int64
	TenantID        int64
	Name            string
	BasePrice       float64
	BaseDurationMin int
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AddOn an optional extra on top of a service
type AddOn struct {
	ID         int64
	TenantID   int64
	Name       string
	PriceDelta float64
	Active     bool
}

// DistancePolicy настройки надбавки за выезд
type DistancePolicy struct {
	FreeRadiusMiles  float64
	SurchargePerMile float64
}

// PricingConfig per-tenant pricing settings, one row per tenant
type PricingConfig struct {
	TenantID     int64
	VehicleTiers map[string]float64 // tier -> multiplier
	TaxRate      float64            // [0, 1]
	Distance     DistancePolicy
	UpdatedAt    time.Time
}

// DefaultPricingConfig возвращает безопасные значения по умолчанию
// Используется, когда у арендатора нет строки конфигурации
func DefaultPricingConfig(tenantID int64) *PricingConfig {
	return &PricingConfig{
		TenantID:     tenantID,
		VehicleTiers: map[string]float64{},
		TaxRate:      0,
		Distance:     DistancePolicy{},
	}
}

// PriceBreakdown deterministic monetary breakdown of a booking or quote
// All monetary fields are rounded to 2 decimal places
type PriceBreakdown struct {
	Base              float64
	VehicleMultiplier float64
	Addons            float64
	DistanceSurcharge float64
	TaxRate           float64
	Tax               float64
	Total             float64
}
