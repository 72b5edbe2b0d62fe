package get_usage_report

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	getUsageReport "github.com/m04kA/SMC-ParkingService/internal/usecase/get_usage_report"
)

// UsageRowResponse строка отчёта. Денежные суммы сериализуются строками
type UsageRowResponse struct {
	CompanyID         int64           `json:"companyId"`
	CompanyName       string          `json:"companyName"`
	TotalBookings     int             `json:"totalBookings"`
	GuestBookings     int             `json:"guestBookings"`
	CancelledBookings int             `json:"cancelledBookings"`
	NoShowBookings    int             `json:"noShowBookings"`
	ProjectedCost     decimal.Decimal `json:"projectedCost"`
	ActualCost        decimal.Decimal `json:"actualCost"`
}

// UsageReportResponse HTTP response model
type UsageReportResponse struct {
	Period    *string            `json:"period"` // "2025-03", null если бронирований нет
	Available []string           `json:"availablePeriods"`
	Rows      []UsageRowResponse `json:"rows"`
}

// ToUseCaseRequest разбирает query параметры year, month и search
func ToUseCaseRequest(query url.Values, actor domain.Actor) (*getUsageReport.Request, error) {
	req := &getUsageReport.Request{
		Actor:  actor,
		Search: query.Get("search"),
	}

	yearStr, monthStr := query.Get("year"), query.Get("month")
	if (yearStr == "") != (monthStr == "") {
		return nil, fmt.Errorf("year and month must be set together")
	}
	if yearStr == "" {
		return req, nil
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return nil, fmt.Errorf("invalid year: %w", err)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return nil, fmt.Errorf("invalid month: %w", err)
	}

	req.Year = year
	req.Month = month
	return req, nil
}

// FromUseCaseResponse конвертирует отчёт use case в HTTP response
func FromUseCaseResponse(resp *getUsageReport.Response) *UsageReportResponse {
	out := &UsageReportResponse{
		Available: make([]string, 0, len(resp.Available)),
		Rows:      make([]UsageRowResponse, 0, len(resp.Rows)),
	}

	if resp.Period != nil {
		period := resp.Period.String()
		out.Period = &period
	}

	for _, p := range resp.Available {
		out.Available = append(out.Available, p.String())
	}

	for _, row := range resp.Rows {
		out.Rows = append(out.Rows, UsageRowResponse{
			CompanyID:         row.CompanyID,
			CompanyName:       row.CompanyName,
			TotalBookings:     row.Total,
			GuestBookings:     row.Guest,
			CancelledBookings: row.Cancelled,
			NoShowBookings:    row.NoShow,
			ProjectedCost:     row.Projected,
			ActualCost:        row.Actual,
		})
	}

	return out
}
