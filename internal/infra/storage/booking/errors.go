package booking

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrConditionNotMet возвращается, когда условное обновление не затронуло ни одной строки:
	// бронирование существует, но его состояние уже не допускает переход
	ErrConditionNotMet = errors.New("booking.repository: transition condition not met")

	// ErrConflict возвращается при нарушении уникальности или сбое сериализации транзакции
	ErrConflict = errors.New("booking.repository: conflicting write")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)

// Коды ошибок PostgreSQL
const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
)

// IsConflict возвращает true, если ошибка вызвана конкурентной записью:
// нарушение уникальности или сбой сериализации (в том числе при коммите транзакции)
func IsConflict(err error) bool {
	if errors.Is(err, ErrConflict) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation || pqErr.Code == pqSerializationFailure
	}
	return false
}
