package get_usage_report

import (
	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request модель запроса отчёта об использовании
type Request struct {
	Actor  domain.Actor
	Year   int    // 0 - не задан
	Month  int    // 0 - не задан; задаётся только вместе с Year
	Search string // Подстрока названия компании, без учёта регистра
}

// Response отчёт за выбранный месяц
type Response struct {
	Period    *domain.Period       // nil, если бронирований нет совсем
	Available []domain.Period      // Месяцы, за которые есть бронирования, по возрастанию
	Rows      []domain.MonthlyUsage
}

// CostRequest запрос сводки стоимости компании
type CostRequest struct {
	Actor     domain.Actor
	CompanyID int64
}
