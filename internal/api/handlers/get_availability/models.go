package get_availability

import (
	"time"

	"github.com/evans-studio/detailor-booking/internal/domain"
	getAvailability "github.com/evans-studio/detailor-booking/internal/usecase/get_availability"
)

// SlotResponse доступный слот
type SlotResponse struct {
	StartAt  time.Time `json:"startAt"`
	EndAt    time.Time `json:"endAt"`
	Capacity int       `json:"capacity"` // Остаточная ёмкость, всегда > 0
}

// AvailabilityResponse ответ со слотами окна
type AvailabilityResponse struct {
	TenantID    int64          `json:"tenantId"`
	WindowStart string         `json:"windowStart"` // YYYY-MM-DD
	WindowDays  int            `json:"windowDays"`
	Slots       []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartAt:  s.Start,
			EndAt:    s.End,
			Capacity: s.Capacity,
		})
	}

	return &AvailabilityResponse{
		TenantID:    resp.TenantID,
		WindowStart: resp.WindowStart.Format(domain.DateFormat),
		WindowDays:  resp.WindowDays,
		Slots:       slots,
	}
}
