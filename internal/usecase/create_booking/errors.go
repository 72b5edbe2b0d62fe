package create_booking

import "errors"

var (
	// ErrAccessDenied возвращается, когда пользователь бронирует от имени другого пользователя
	ErrAccessDenied = errors.New("create_booking: access denied")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
