package pricing

import (
	"math"

	"github.com/evans-studio/detailor-booking/internal/domain"
)

// Input входные данные расчёта стоимости
// Все числовые поля проходят мягкую нормализацию: отрицательные и NaN
// значения приводятся к безопасным дефолтам, а не считаются ошибкой.
// Это осознанная политика обратной совместимости со старыми квотами.
type Input struct {
	BasePrice     float64
	VehicleTier   string
	AddonDeltas   []float64
	DistanceMiles float64
}

// ComputeBreakdown вычисляет детерминированную разбивку стоимости
//
// Округление применяется ровно дважды: к distanceSurcharge и tax по
// отдельности и к итоговому total. Промежуточный subtotal не округляется,
// чтобы разбивка сходилась с точностью до цента.
func ComputeBreakdown(in Input, cfg *domain.PricingConfig) domain.PriceBreakdown {
	if cfg == nil {
		cfg = domain.DefaultPricingConfig(0)
	}

	base := sanitizeAmount(in.BasePrice)
	multiplier := tierMultiplier(cfg.VehicleTiers, in.VehicleTier)
	addons := addonsTotal(in.AddonDeltas)
	surcharge := distanceSurcharge(in.DistanceMiles, cfg.Distance)
	taxRate := sanitizeRate(cfg.TaxRate)

	subtotal := base*multiplier + addons + surcharge
	tax := round2(subtotal * taxRate)
	total := round2(subtotal + tax)

	return domain.PriceBreakdown{
		Base:              base,
		VehicleMultiplier: multiplier,
		Addons:            addons,
		DistanceSurcharge: surcharge,
		TaxRate:           taxRate,
		Tax:               tax,
		Total:             total,
	}
}

// tierMultiplier возвращает множитель класса автомобиля
// Неизвестный класс или некорректный множитель деградируют к 1
func tierMultiplier(tiers map[string]float64, tier string) float64 {
	m, ok := tiers[tier]
	if !ok || math.IsNaN(m) || m <= 0 {
		return 1
	}
	return m
}

// addonsTotal суммирует надбавки за доп. услуги, отрицательные отбрасываются
func addonsTotal(deltas []float64) float64 {
	total := 0.0
	for _, d := range deltas {
		total += sanitizeAmount(d)
	}
	return total
}

// distanceSurcharge надбавка за выезд: линейно за мили сверх бесплатного радиуса
func distanceSurcharge(miles float64, policy domain.DistancePolicy) float64 {
	miles = sanitizeAmount(miles)
	freeRadius := sanitizeAmount(policy.FreeRadiusMiles)
	perMile := sanitizeAmount(policy.SurchargePerMile)

	billable := miles - freeRadius
	if billable < 0 {
		billable = 0
	}

	return round2(billable * perMile)
}

// sanitizeAmount приводит отрицательные и NaN значения к нулю
func sanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// sanitizeRate приводит ставку налога к диапазону [0, 1]
func sanitizeRate(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// round2 округляет до 2 знаков после запятой
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
