package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

// Результаты переходов для метрик
const (
	resultOK       = "ok"
	resultRejected = "rejected"
	resultConflict = "conflict"
	resultError    = "error"
)

// transition описание перехода жизненного цикла
type transition struct {
	name      string
	adminOnly bool
	check     func(b *domain.Booking, now time.Time) error
	write     func(ctx context.Context, id int64, today time.Time) error
	apply     func(b *domain.Booking)
}

// MarkArrival отмечает въезд (только администратор)
func (s *Service) MarkArrival(ctx context.Context, actor domain.Actor, id int64) (*models.BookingResponse, error) {
	return s.run(ctx, actor, id, transition{
		name:      "MarkArrival",
		adminOnly: true,
		check:     domain.CheckArrival,
		write:     s.bookingRepo.MarkArrived,
		apply:     domain.ApplyArrival,
	})
}

// MarkExit отмечает выезд (только администратор). Статус не меняется
func (s *Service) MarkExit(ctx context.Context, actor domain.Actor, id int64) (*models.BookingResponse, error) {
	return s.run(ctx, actor, id, transition{
		name:      "MarkExit",
		adminOnly: true,
		check:     domain.CheckExit,
		write: func(ctx context.Context, id int64, _ time.Time) error {
			return s.bookingRepo.MarkLeft(ctx, id)
		},
		apply: domain.ApplyExit,
	})
}

// Cancel отменяет бронирование (владелец или администратор)
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, id int64) (*models.BookingResponse, error) {
	return s.run(ctx, actor, id, transition{
		name:  "Cancel",
		check: domain.CheckCancel,
		write: s.bookingRepo.Cancel,
		apply: domain.ApplyCancel,
	})
}

// run выполняет переход: чтение, проверка прав, проверка предусловия и условная запись.
// Если условная запись не прошла, бронирование перечитывается и возвращается
// причина отказа, актуальная на момент повторного чтения
func (s *Service) run(ctx context.Context, actor domain.Actor, id int64, t transition) (*models.BookingResponse, error) {
	s.logger.Info("%s: booking id=%d by user=%d", t.name, id, actor.UserID)

	now := s.timeProvider.Now()

	booking, err := s.load(ctx, t.name, id)
	if err != nil {
		s.record(t.name, err)
		return nil, err
	}

	if (t.adminOnly && !actor.IsAdmin()) || !actor.CanAccess(booking) {
		s.logger.Warn("%s: access denied for user=%d to booking id=%d", t.name, actor.UserID, id)
		s.record(t.name, ErrAccessDenied)
		return nil, ErrAccessDenied
	}

	if err := t.check(booking, now); err != nil {
		s.logger.Warn("%s: rejected booking id=%d: %v", t.name, id, err)
		s.record(t.name, err)
		return nil, err
	}

	err = t.write(ctx, id, domain.DateOnly(now))
	switch {
	case err == nil:
		t.apply(booking)
		s.logger.Info("%s: booking id=%d updated", t.name, id)
		s.record(t.name, nil)
		return models.FromDomainBooking(booking, now), nil

	case errors.Is(err, bookingRepo.ErrConditionNotMet):
		err = s.raceReason(ctx, t, id, now)
		s.logger.Warn("%s: lost concurrent update on booking id=%d: %v", t.name, id, err)
		s.record(t.name, err)
		return nil, err

	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.record(t.name, domain.ErrBookingNotFound)
		return nil, fmt.Errorf("%w: id=%d", domain.ErrBookingNotFound, id)

	default:
		s.logger.Error("%s: repository error for booking id=%d: %v", t.name, id, err)
		s.record(t.name, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, t.name, err)
	}
}

// raceReason перечитывает бронирование после проигранной гонки
func (s *Service) raceReason(ctx context.Context, t transition, id int64, now time.Time) error {
	fresh, err := s.load(ctx, t.name, id)
	if err != nil {
		return err
	}
	if err := t.check(fresh, now); err != nil {
		return err
	}
	return fmt.Errorf("%w: id=%d", domain.ErrConcurrentUpdate, id)
}

func (s *Service) record(op string, err error) {
	result := resultOK
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrConflict):
		result = resultConflict
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, ErrAccessDenied):
		result = resultRejected
	default:
		result = resultError
	}
	s.recorder.IncBookingTransition(op, result)
}
