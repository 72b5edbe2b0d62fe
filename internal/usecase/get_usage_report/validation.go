package get_usage_report

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// requestedPeriod возвращает запрошенный месяц. Если месяц не задан, берётся текущий
func requestedPeriod(req *Request, now time.Time) (domain.Period, error) {
	if req.Year == 0 && req.Month == 0 {
		return domain.PeriodOf(now), nil
	}
	if req.Year <= 0 {
		return domain.Period{}, fmt.Errorf("%w: year must be positive", domain.ErrInvalidInput)
	}
	if req.Month < 1 || req.Month > 12 {
		return domain.Period{}, fmt.Errorf("%w: month must be in [1, 12]", domain.ErrInvalidInput)
	}
	return domain.Period{Year: req.Year, Month: time.Month(req.Month)}, nil
}
