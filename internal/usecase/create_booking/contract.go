package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/userservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveByUserID(ctx context.Context, userID int64) ([]*domain.Booking, error)
	GetSlotNumbers(ctx context.Context, companyID int64, date time.Time) ([]string, error)
}

// CompanyRepository интерфейс репозитория компаний
type CompanyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
