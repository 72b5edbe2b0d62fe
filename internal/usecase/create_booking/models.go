package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Actor       domain.Actor     // От чьего имени выполняется запрос
	UserID      int64            // Для кого бронируется место (по умолчанию - сам Actor)
	CompanyID   int64            // ID компании (0 - взять из профиля пользователя)
	BookingDate time.Time        // Дата бронирования (без времени)
	ArrivalTime types.TimeString // Планируемое время въезда, "HH:MM"
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64
	UserID      int64
	CompanyID   int64
	SlotNumber  string
	BookingDate time.Time
	ArrivalTime types.TimeString
	Status      string
	HasArrived  bool
	HasLeft     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
