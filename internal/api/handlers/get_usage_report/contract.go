package get_usage_report

import (
	"context"

	getUsageReport "github.com/m04kA/SMC-ParkingService/internal/usecase/get_usage_report"
)

type UsageReportUseCase interface {
	Execute(ctx context.Context, req *getUsageReport.Request) (*getUsageReport.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
