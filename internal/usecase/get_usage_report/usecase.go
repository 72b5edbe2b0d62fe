package get_usage_report

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	companyRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/company"
	"github.com/m04kA/SMC-ParkingService/internal/service/usage"
)

// UseCase use case отчёта об использовании мест и стоимости
type UseCase struct {
	bookingRepo  BookingRepository
	companyRepo  CompanyRepository
	pricing      domain.Pricing
	excluded     []int64
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// Компании из excluded (например, компания-оператор парковки) в отчёт не попадают
func NewUseCase(
	bookingRepo BookingRepository,
	companyRepo CompanyRepository,
	pricing domain.Pricing,
	excluded []int64,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		companyRepo:  companyRepo,
		pricing:      pricing,
		excluded:     excluded,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute строит отчёт за запрошенный месяц. Если по запрошенному месяцу нет бронирований,
// отчёт строится за первый доступный месяц
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetUsageReport: user=%d, year=%d, month=%d, search=%q",
		req.Actor.UserID, req.Year, req.Month, req.Search)

	if !req.Actor.IsAdmin() {
		uc.logger.Warn("GetUsageReport: access denied for user=%d", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	now := uc.timeProvider.Now()

	requested, err := requestedPeriod(req, now)
	if err != nil {
		uc.logger.Warn("GetUsageReport: validation failed: %v", err)
		return nil, err
	}

	companies, err := uc.companyRepo.List(ctx, uc.excluded)
	if err != nil {
		uc.logger.Error("GetUsageReport: failed to list companies: %v", err)
		return nil, fmt.Errorf("%w: failed to list companies: %v", ErrInternal, err)
	}

	resp := &Response{
		Available: []domain.Period{},
		Rows:      []domain.MonthlyUsage{},
	}
	if len(companies) == 0 {
		return resp, nil
	}

	ids := make([]int64, 0, len(companies))
	for _, c := range companies {
		ids = append(ids, c.ID)
	}

	bookings, err := uc.bookingRepo.GetByFilter(ctx, domain.BookingsFilter{CompanyIDs: ids})
	if err != nil {
		uc.logger.Error("GetUsageReport: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	resp.Available = usage.Periods(bookings)

	period, ok := usage.SelectPeriod(requested, resp.Available)
	if !ok {
		uc.logger.Info("GetUsageReport: no bookings yet, empty report")
		return resp, nil
	}
	if period != requested {
		uc.logger.Info("GetUsageReport: no bookings in %s, falling back to %s", requested, period)
	}

	resp.Period = &period
	resp.Rows = usage.Report(companies, bookings, period, req.Search, now, uc.pricing)

	uc.logger.Info("GetUsageReport: %d rows for %s", len(resp.Rows), period)
	return resp, nil
}

// CostSummary плановая стоимость закреплённых мест компании за месяц и год
func (uc *UseCase) CostSummary(ctx context.Context, req *CostRequest) (*domain.CostSummary, error) {
	if !req.Actor.IsAdmin() {
		uc.logger.Warn("CostSummary: access denied for user=%d", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	company, err := uc.companyRepo.GetByID(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, companyRepo.ErrCompanyNotFound) {
			uc.logger.Warn("CostSummary: company id=%d not found", req.CompanyID)
			return nil, fmt.Errorf("%w: id=%d", domain.ErrCompanyNotFound, req.CompanyID)
		}
		uc.logger.Error("CostSummary: failed to get company id=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}

	summary := usage.CostSummary(company, uc.pricing)
	return &summary, nil
}
