package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evans-studio/detailor-booking/internal/domain"
	bookingRepo "github.com/evans-studio/detailor-booking/internal/infra/storage/booking"
	tenantClient "github.com/evans-studio/detailor-booking/internal/integrations/tenantservice"
	"github.com/evans-studio/detailor-booking/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	tenantClient TenantServiceClient
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	tenantCli TenantServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		tenantClient: tenantCli,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - клиент может видеть только своё бронирование
// или если он администратор арендатора
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetTenantBookings получает бронирования арендатора с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению неактивных
// бронирований. Доступно только администраторам арендатора
func (s *Service) GetTenantBookings(ctx context.Context, req *models.GetTenantBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetTenantBookings: fetching bookings for tenant=%d, user=%d", req.TenantID, req.UserID)

	// Проверяем права доступа администратора
	if err := s.checkAdminAccess(ctx, req.TenantID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTenantBookings: invalid filter for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByTenantWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetTenantBookings: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: GetTenantBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Клиент может отменить только своё бронирование, администратор
// арендатора - любое. Отмена освобождает место в слоте
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	if err := s.checkUserAccess(ctx, booking, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
		return err
	}

	if len(req.CancellationReason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: cancellation reason too long", ErrInvalidInput)
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// UpdateStatus обновляет статус бронирования
// Доступно только администраторам арендатора. Переход из освобождающего
// статуса в блокирующий заново проверяет доступность интервала в
// serializable транзакции - у слота могло не остаться места
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if err := s.checkAdminAccess(ctx, booking.TenantID, req.UserID); err != nil {
		return err
	}

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: invalid status", ErrInvalidStatus)
	}

	// Реактивация: освобождённый интервал снова занимает место
	if domain.IsBlockingStatus(newStatus) && !booking.IsBlocking() {
		err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			if err := s.checkIntervalFree(txCtx, booking.TenantID, booking.StartAt, booking.EndAt, &booking.ID); err != nil {
				return err
			}
			return s.bookingRepo.UpdateStatus(txCtx, bookingID, newStatus)
		})
	} else {
		err = s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus)
	}
	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			s.logger.Warn("UpdateStatus: booking id=%d cannot return to slot: %v", bookingID, err)
			return err
		}
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: failed to update booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}

// Reschedule переносит бронирование на новое время, сохраняя длительность
// Новый интервал проверяется в serializable транзакции, своё же
// бронирование из подсчёта ёмкости исключается
func (s *Service) Reschedule(ctx context.Context, bookingID int64, req *models.RescheduleRequest) (*models.BookingResponse, error) {
	s.logger.Info("Reschedule: moving booking id=%d to %s by user=%d",
		bookingID, req.NewStartAt.Format(time.RFC3339), req.UserID)

	if req.NewStartAt.IsZero() {
		return nil, fmt.Errorf("%w: newStartAt is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Reschedule: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Reschedule: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Reschedule - repository error: %v", ErrInternal, err)
	}

	if booking.IsFinished() {
		s.logger.Warn("Reschedule: booking id=%d is finished, status=%s", bookingID, booking.Status)
		return nil, ErrCannotReschedule
	}

	if err := s.checkUserAccess(ctx, booking, req.UserID); err != nil {
		s.logger.Warn("Reschedule: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return nil, err
	}

	newStart := req.NewStartAt.UTC()
	newEnd := newStart.Add(booking.EndAt.Sub(booking.StartAt))

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.checkIntervalFree(txCtx, booking.TenantID, newStart, newEnd, &booking.ID); err != nil {
			return err
		}
		return s.bookingRepo.UpdateTimes(txCtx, bookingID, newStart, newEnd)
	})
	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			s.logger.Info("Reschedule: conflict for booking id=%d interval=[%s, %s): %v",
				bookingID, newStart.Format(time.RFC3339), newEnd.Format(time.RFC3339), err)
			return nil, err
		}
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Reschedule: transaction failed for booking id=%d: %v", bookingID, err)
		return nil, err
	}

	booking.StartAt = newStart
	booking.EndAt = newEnd

	s.logger.Info("Reschedule: successfully moved booking id=%d to [%s, %s)",
		bookingID, newStart.Format(time.RFC3339), newEnd.Format(time.RFC3339))
	return models.FromDomainBooking(booking), nil
}

// Вспомогательные методы

// checkIntervalFree перепроверяет доступность интервала внутри транзакции
// Чтение блокирующих бронирований идёт с FOR UPDATE
func (s *Service) checkIntervalFree(ctx context.Context, tenantID int64, start, end time.Time, excludeID *int64) error {
	patterns, err := s.scheduleRepo.GetPatternsByTenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("%w: failed to get work patterns: %v", ErrInternal, err)
	}

	var pattern *domain.WorkPattern
	for _, p := range patterns {
		if p.Weekday == start.Weekday() && p.Validate() == nil {
			pattern = p
			break
		}
	}
	if pattern == nil {
		return fmt.Errorf("%w: day is closed", ErrSlotConflict)
	}

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	dayStart, err := pattern.StartTime.Combine(day)
	if err != nil {
		return fmt.Errorf("%w: malformed work pattern: %v", ErrInternal, err)
	}
	dayEnd, err := pattern.EndTime.Combine(day)
	if err != nil {
		return fmt.Errorf("%w: malformed work pattern: %v", ErrInternal, err)
	}

	blackouts, err := s.scheduleRepo.GetBlackoutsInRange(ctx, tenantID, start, end)
	if err != nil {
		return fmt.Errorf("%w: failed to get blackouts: %v", ErrInternal, err)
	}

	existing, err := s.bookingRepo.GetBlockingInRange(ctx, tenantID, dayStart, dayEnd, excludeID)
	if err != nil {
		return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	if err := domain.CheckIntervalFree(pattern, start, end, blackouts, existing, excludeID); err != nil {
		return fmt.Errorf("%w: %v", ErrSlotConflict, err)
	}
	return nil
}

// checkUserAccess проверяет, что пользователь имеет доступ к бронированию
// Клиент видит своё бронирование, администратор арендатора - любое
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.CustomerID == userID {
		return nil
	}

	if err := s.checkAdminAccess(ctx, booking.TenantID, userID); err != nil {
		// Ошибка уже залогирована в checkAdminAccess
		return ErrAccessDenied
	}

	return nil
}

// checkAdminAccess проверяет, что пользователь - администратор арендатора
func (s *Service) checkAdminAccess(ctx context.Context, tenantID int64, userID int64) error {
	member, err := s.tenantClient.GetMember(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrMemberNotFound) {
			s.logger.Warn("checkAdminAccess: user=%d is not a member of tenant=%d", userID, tenantID)
			return ErrAccessDenied
		}
		s.logger.Error("checkAdminAccess: failed to get member tenant=%d user=%d: %v", tenantID, userID, err)
		return fmt.Errorf("%w: checkAdminAccess - failed to get member: %v", ErrInternal, err)
	}

	if !member.IsAdmin() {
		s.logger.Warn("checkAdminAccess: user=%d is not an admin of tenant=%d", userID, tenantID)
		return ErrAccessDenied
	}

	return nil
}
