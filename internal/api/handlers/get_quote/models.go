package get_quote

import (
	getQuote "github.com/evans-studio/detailor-booking/internal/usecase/get_quote"
)

// QuoteRequest запрос на расчёт стоимости
type QuoteRequest struct {
	ServiceID     int64   `json:"serviceId"`
	AddonIDs      []int64 `json:"addonIds,omitempty"`
	VehicleTier   string  `json:"vehicleTier,omitempty"`
	DistanceMiles float64 `json:"distanceMiles,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *QuoteRequest) ToUseCaseRequest(tenantID int64) *getQuote.Request {
	return &getQuote.Request{
		TenantID:      tenantID,
		ServiceID:     r.ServiceID,
		AddonIDs:      r.AddonIDs,
		VehicleTier:   r.VehicleTier,
		DistanceMiles: r.DistanceMiles,
	}
}

// QuoteResponse ответ с разбивкой стоимости
type QuoteResponse struct {
	TenantID          int64   `json:"tenantId"`
	ServiceID         int64   `json:"serviceId"`
	DurationMin       int     `json:"durationMin"`
	Base              float64 `json:"base"`
	VehicleMultiplier float64 `json:"vehicleMultiplier"`
	Addons            float64 `json:"addons"`
	DistanceSurcharge float64 `json:"distanceSurcharge"`
	TaxRate           float64 `json:"taxRate"`
	Tax               float64 `json:"tax"`
	Total             float64 `json:"total"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *getQuote.Response) *QuoteResponse {
	return &QuoteResponse{
		TenantID:          resp.TenantID,
		ServiceID:         resp.ServiceID,
		DurationMin:       resp.DurationMin,
		Base:              resp.Breakdown.Base,
		VehicleMultiplier: resp.Breakdown.VehicleMultiplier,
		Addons:            resp.Breakdown.Addons,
		DistanceSurcharge: resp.Breakdown.DistanceSurcharge,
		TaxRate:           resp.Breakdown.TaxRate,
		Tax:               resp.Breakdown.Tax,
		Total:             resp.Breakdown.Total,
	}
}
