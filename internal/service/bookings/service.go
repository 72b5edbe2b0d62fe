package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

// Service сервис жизненного цикла бронирований
type Service struct {
	bookingRepo  BookingRepository
	recorder     TransitionRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований.
// recorder может быть nil, если метрики отключены
func NewService(
	bookingRepo BookingRepository,
	recorder TransitionRecorder,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		bookingRepo:  bookingRepo,
		recorder:     recorder,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только своё бронирование, администратор - любое
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.load(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !actor.CanAccess(booking) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking, s.timeProvider.Now()), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по хранимому статусу
func (s *Service) GetUserBookings(ctx context.Context, actor domain.Actor, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d by user=%d", req.UserID, actor.UserID)

	if !actor.IsAdmin() && actor.UserID != req.UserID {
		s.logger.Warn("GetUserBookings: access denied for user=%d to bookings of user=%d", actor.UserID, req.UserID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, err
		}
		domainStatus = ptr.Ptr(status)
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings, s.timeProvider.Now()), nil
}

// GetActiveBooking возвращает текущее бронирование пользователя: подтверждённое,
// без выезда и не просроченное
func (s *Service) GetActiveBooking(ctx context.Context, actor domain.Actor) (*models.BookingResponse, error) {
	now := s.timeProvider.Now()

	bookings, err := s.bookingRepo.GetActiveByUserID(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("GetActiveBooking: repository error for user=%d: %v", actor.UserID, err)
		return nil, fmt.Errorf("%w: GetActiveBooking - repository error: %v", ErrInternal, err)
	}

	for _, b := range bookings {
		if b.HoldsReservation(now) {
			return models.FromDomainBooking(b, now), nil
		}
	}

	return nil, fmt.Errorf("%w: user=%d has no active booking", domain.ErrBookingNotFound, actor.UserID)
}

// GetTodayActive активный набор на сегодня для администратора:
// подтверждённые бронирования на текущую дату без выезда, с признаком опоздания
func (s *Service) GetTodayActive(ctx context.Context, actor domain.Actor) (*models.TodayListResponse, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("GetTodayActive: access denied for user=%d", actor.UserID)
		return nil, ErrAccessDenied
	}

	now := s.timeProvider.Now()
	today := domain.DateOnly(now)

	bookings, err := s.bookingRepo.GetByFilter(ctx, domain.BookingsFilter{
		StartDate:   &today,
		EndDate:     &today,
		Status:      ptr.Ptr(domain.StatusConfirmed),
		ExcludeLeft: true,
	})
	if err != nil {
		s.logger.Error("GetTodayActive: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetTodayActive - repository error: %v", ErrInternal, err)
	}

	active := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsActiveOn(now) {
			active = append(active, b)
		}
	}

	s.logger.Info("GetTodayActive: %d active bookings on %s", len(active), today.Format(domain.DateFormat))
	return models.FromDomainTodayList(active, now), nil
}

// load получает бронирование, переводя ошибки репозитория в ошибки сервиса
func (s *Service) load(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, fmt.Errorf("%w: id=%d", domain.ErrBookingNotFound, id)
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}
