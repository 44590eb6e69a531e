package get_quote

import "github.com/evans-studio/detailor-booking/internal/domain"

// Request входные данные для расчёта стоимости
type Request struct {
	TenantID      int64
	ServiceID     int64
	AddonIDs      []int64
	VehicleTier   string
	DistanceMiles float64
}

// Response результат расчёта
// Квота ни к чему не привязана и место в слоте не резервирует
type Response struct {
	TenantID    int64
	ServiceID   int64
	DurationMin int
	Breakdown   domain.PriceBreakdown
}
