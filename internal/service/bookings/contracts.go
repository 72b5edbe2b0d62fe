package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetActiveByUserID(ctx context.Context, userID int64) ([]*domain.Booking, error)
	GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	MarkArrived(ctx context.Context, id int64, today time.Time) error
	MarkLeft(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64, today time.Time) error
}

// TransitionRecorder учёт переходов жизненного цикла (метрики)
type TransitionRecorder interface {
	IncBookingTransition(operation, result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type nopRecorder struct{}

func (nopRecorder) IncBookingTransition(string, string) {}
