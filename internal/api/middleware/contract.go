package middleware

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// TokenVerifier проверяет токен доступа и возвращает пользователя
type TokenVerifier interface {
	Verify(token string) (*domain.Actor, error)
}

// HTTPMetrics принимает наблюдения по HTTP запросам
type HTTPMetrics interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
