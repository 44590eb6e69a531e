package create_booking

import "errors"

var (
	// ErrInvalidInput валидационная ошибка входных данных
	ErrInvalidInput = errors.New("invalid input")

	// ErrTenantNotFound арендатор не найден или неактивен
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrServiceNotFound услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("service not found")

	// ErrAddOnNotFound одна из доп. услуг не найдена
	ErrAddOnNotFound = errors.New("addon not found")

	// ErrSlotConflict интервал недоступен: вне рабочего времени,
	// пересекает блэкаут или ёмкость слота исчерпана
	ErrSlotConflict = errors.New("slot conflict")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("internal error")
)
