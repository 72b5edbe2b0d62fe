package domain

import (
	"errors"
	"fmt"
)

// Категории ошибок. Каждая конкретная причина оборачивает одну из них,
// поэтому вызывающий код может проверять как категорию, так и причину через errors.Is
var (
	// ErrValidation некорректный или недопустимый запрос
	ErrValidation = errors.New("validation error")

	// ErrConflict предусловие перехода не выполнено
	ErrConflict = errors.New("conflict")

	// ErrNotFound запрошенная сущность не найдена
	ErrNotFound = errors.New("not found")
)

var (
	ErrInvalidInput    = fmt.Errorf("%w: invalid input", ErrValidation)
	ErrDateNotAllowed  = fmt.Errorf("%w: date not allowed", ErrValidation)
	ErrUserNotApproved = fmt.Errorf("%w: user is not approved", ErrValidation)
	ErrCompanyMismatch = fmt.Errorf("%w: user does not belong to company", ErrValidation)

	ErrActiveBookingExists = fmt.Errorf("%w: user already has an active booking", ErrConflict)
	ErrAlreadyArrived      = fmt.Errorf("%w: booking already arrived", ErrConflict)
	ErrAlreadyExited       = fmt.Errorf("%w: booking already exited", ErrConflict)
	ErrNotArrived          = fmt.Errorf("%w: booking has not arrived yet", ErrConflict)
	ErrNotConfirmed        = fmt.Errorf("%w: booking is not confirmed", ErrConflict)
	ErrConcurrentUpdate    = fmt.Errorf("%w: booking was modified concurrently", ErrConflict)

	ErrBookingNotFound = fmt.Errorf("%w: booking", ErrNotFound)
	ErrCompanyNotFound = fmt.Errorf("%w: company", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("%w: user", ErrNotFound)
)
