package userservice

// User профиль пользователя из UserService
type User struct {
	ID        int64  `json:"userId"`
	CompanyID int64  `json:"companyId"`
	Approved  bool   `json:"approved"`
	Role      string `json:"role"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
