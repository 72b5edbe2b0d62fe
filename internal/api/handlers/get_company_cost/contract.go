package get_company_cost

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	getUsageReport "github.com/m04kA/SMC-ParkingService/internal/usecase/get_usage_report"
)

type CostUseCase interface {
	CostSummary(ctx context.Context, req *getUsageReport.CostRequest) (*domain.CostSummary, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
