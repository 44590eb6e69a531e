package get_availability

import (
	"time"

	"github.com/evans-studio/detailor-booking/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	TenantID    int64     // ID арендатора
	WindowStart time.Time // Начало окна; zero value = начало текущего дня UTC
	WindowDays  int       // Размер окна в днях; зажимается в [1, 60]
}

// Response модель ответа со списком доступных слотов
type Response struct {
	TenantID    int64         // ID арендатора
	WindowStart time.Time     // Фактическое начало окна (UTC, полночь)
	WindowDays  int           // Фактический размер окна после clamp
	Slots       []domain.Slot // Слоты с остаточной ёмкостью, по возрастанию start
}
