package tenantservice

// Tenant модель арендатора из TenantService
type Tenant struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Member роль пользователя внутри арендатора
type Member struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"` // admin | staff | customer
}

// IsAdmin возвращает true для администратора арендатора
func (m *Member) IsAdmin() bool {
	return m.Role == "admin"
}

// ErrorResponse модель ошибки от TenantService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
