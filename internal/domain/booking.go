package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-ParkingService/pkg/types"
)

// BookingStatus хранимый статус бронирования
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	// StatusExpired может прийти из хранилища; сервис сам его не записывает,
	// просроченность вычисляется при чтении (см. IsExpired)
	StatusExpired BookingStatus = "expired"
)

// IsValid проверяет, что статус известен
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Booking бронирование парковочного места на один день
type Booking struct {
	ID          int64
	UserID      int64
	CompanyID   int64
	SlotNumber  string
	BookingDate time.Time
	ArrivalTime types.TimeString
	Status      BookingStatus
	HasArrived  bool
	HasLeft     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsConfirmed возвращает true для хранимого статуса confirmed
func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// IsCancelled возвращает true для отменённого бронирования
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsExpired возвращает true, если бронирование просрочено: статус expired в хранилище,
// либо подтверждённое бронирование, дата которого прошла, а въезда так и не было
func (b *Booking) IsExpired(now time.Time) bool {
	if b.Status == StatusExpired {
		return true
	}
	return b.IsConfirmed() && !b.HasArrived && DateBefore(b.BookingDate, now)
}

// IsActive активное бронирование: подтверждено и выезда ещё не было
func (b *Booking) IsActive() bool {
	return b.IsConfirmed() && !b.HasLeft
}

// HoldsReservation возвращает true, если бронирование занимает единственную
// разрешённую пользователю активную бронь на момент now
func (b *Booking) HoldsReservation(now time.Time) bool {
	return b.IsActive() && !b.IsExpired(now)
}

// IsActiveOn входит ли бронирование в активный набор на календарный день day
func (b *Booking) IsActiveOn(day time.Time) bool {
	return b.IsActive() && SameDate(b.BookingDate, day)
}

// IsNoShow прошедшее бронирование (confirmed или expired), на которое так и не приехали.
// Бронирование на сегодня или в будущем неявкой не считается
func (b *Booking) IsNoShow(now time.Time) bool {
	if b.Status != StatusConfirmed && b.Status != StatusExpired {
		return false
	}
	return !b.HasArrived && DateBefore(b.BookingDate, now)
}

// IsGuest бронирование гостевого места (определяется по префиксу номера места)
func (b *Booking) IsGuest(guestPrefix string) bool {
	return guestPrefix != "" && strings.HasPrefix(b.SlotNumber, guestPrefix)
}

// ArrivalAt момент запланированного въезда: дата бронирования + время въезда в часовом поясе loc
func (b *Booking) ArrivalAt(loc *time.Location) (time.Time, error) {
	return b.ArrivalTime.On(b.BookingDate, loc)
}

// IsOverdue въезда ещё не было, а запланированный момент въезда уже прошёл.
// Используется только для подсветки, на состояние не влияет
func (b *Booking) IsOverdue(now time.Time) bool {
	if b.HasArrived {
		return false
	}
	arrivalAt, err := b.ArrivalAt(now.Location())
	if err != nil {
		return false
	}
	return now.After(arrivalAt)
}

// Actor пользователь, от имени которого выполняется операция
type Actor struct {
	UserID int64
	Role   Role
}

// Role роль пользователя
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsAdmin возвращает true для администратора
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess владелец бронирования или администратор
func (a Actor) CanAccess(b *Booking) bool {
	return a.IsAdmin() || b.UserID == a.UserID
}

// BookingsFilter фильтр выборки бронирований
type BookingsFilter struct {
	CompanyIDs  []int64        // Пусто - все компании
	UserID      *int64         // Фильтр по пользователю (опционально)
	StartDate   *time.Time     // Начало периода включительно (опционально)
	EndDate     *time.Time     // Конец периода включительно (опционально)
	Status      *BookingStatus // Фильтр по статусу (опционально)
	ExcludeLeft bool           // Исключить бронирования, по которым уже был выезд
}
