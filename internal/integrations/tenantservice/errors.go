package tenantservice

import "errors"

var (
	// ErrTenantNotFound возвращается, когда арендатор не найден
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantInactive возвращается для деактивированного арендатора
	ErrTenantInactive = errors.New("tenant is inactive")

	// ErrMemberNotFound возвращается, когда пользователь не состоит в арендаторе
	ErrMemberNotFound = errors.New("user is not a member of tenant")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("tenantservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("tenantservice client: invalid response")
)
