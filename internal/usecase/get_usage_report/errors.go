package get_usage_report

import "errors"

var (
	// ErrAccessDenied возвращается, когда отчёт запрашивает не администратор
	ErrAccessDenied = errors.New("get_usage_report: access denied")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_usage_report: internal error")
)
