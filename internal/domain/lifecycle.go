package domain

import (
	"fmt"
	"time"
)

// Проверки предусловий переходов жизненного цикла.
// Возвращают nil, если переход допустим, иначе ошибку, объясняющую причину отказа.

// CheckArrival предусловие отметки въезда
func CheckArrival(b *Booking, now time.Time) error {
	switch {
	case b.IsCancelled():
		return fmt.Errorf("%w: booking id=%d is cancelled", ErrNotConfirmed, b.ID)
	case b.IsExpired(now):
		return fmt.Errorf("%w: booking id=%d is expired", ErrNotConfirmed, b.ID)
	case b.HasArrived:
		return fmt.Errorf("%w: booking id=%d", ErrAlreadyArrived, b.ID)
	}
	return nil
}

// CheckExit предусловие отметки выезда
func CheckExit(b *Booking, now time.Time) error {
	switch {
	case !b.IsConfirmed():
		return fmt.Errorf("%w: booking id=%d has status %s", ErrNotConfirmed, b.ID, b.Status)
	case b.HasLeft:
		return fmt.Errorf("%w: booking id=%d", ErrAlreadyExited, b.ID)
	case !b.HasArrived:
		return fmt.Errorf("%w: booking id=%d", ErrNotArrived, b.ID)
	}
	return nil
}

// CheckCancel предусловие отмены
func CheckCancel(b *Booking, now time.Time) error {
	switch {
	case b.IsCancelled():
		return fmt.Errorf("%w: booking id=%d is already cancelled", ErrNotConfirmed, b.ID)
	case b.IsExpired(now):
		return fmt.Errorf("%w: booking id=%d is expired", ErrNotConfirmed, b.ID)
	case b.HasLeft:
		return fmt.Errorf("%w: booking id=%d", ErrAlreadyExited, b.ID)
	}
	return nil
}

// ApplyArrival применяет отметку въезда к копии в памяти после успешной записи
func ApplyArrival(b *Booking) {
	b.HasArrived = true
}

// ApplyExit применяет отметку выезда
func ApplyExit(b *Booking) {
	b.HasLeft = true
}

// ApplyCancel применяет отмену
func ApplyCancel(b *Booking) {
	b.Status = StatusCancelled
}
