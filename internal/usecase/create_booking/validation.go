package create_booking

import (
	"fmt"
	"time"

	"github.com/evans-studio/detailor-booking/internal/domain"
)

// validateRequest проверяет обязательные поля запроса
func validateRequest(req *Request, now time.Time) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	for _, id := range req.AddonIDs {
		if id <= 0 {
			return fmt.Errorf("%w: addon ids must be positive", ErrInvalidInput)
		}
	}
	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}
	if req.StartAt.Before(now) {
		return fmt.Errorf("%w: startAt must be in the future", ErrInvalidInput)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}
