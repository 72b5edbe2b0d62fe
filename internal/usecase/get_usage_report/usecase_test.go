package get_usage_report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	companyRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/company"
	"github.com/m04kA/SMC-ParkingService/pkg/clock"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type mockCompanyRepo struct {
	mock.Mock
}

func (m *mockCompanyRepo) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*domain.Company), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCompanyRepo) List(ctx context.Context, exclude []int64) ([]*domain.Company, error) {
	args := m.Called(ctx, exclude)
	return args.Get(0).([]*domain.Company), args.Error(1)
}

var (
	now       = time.Date(2025, time.April, 10, 12, 0, 0, 0, time.UTC)
	admin     = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	acme      = &domain.Company{ID: 2, Name: "Acme", AllocatedParkingSlots: 10}
	globex    = &domain.Company{ID: 3, Name: "Globex", AllocatedParkingSlots: 4}
	excluded  = []int64{1}
	companies = []*domain.Company{acme, globex}
)

func bookingOn(companyID int64, date time.Time, slot string) *domain.Booking {
	return &domain.Booking{CompanyID: companyID, BookingDate: date, SlotNumber: slot, ArrivalTime: "09:00", Status: domain.StatusConfirmed}
}

func newUseCase(bookings *mockBookingRepo, comps *mockCompanyRepo) *UseCase {
	return NewUseCase(bookings, comps, domain.DefaultPricing(), excluded, clock.Fixed(now), logger.NewNop())
}

func setup(bookings []*domain.Booking) (*mockBookingRepo, *mockCompanyRepo) {
	br := &mockBookingRepo{}
	cr := &mockCompanyRepo{}
	cr.On("List", mock.Anything, excluded).Return(companies, nil)
	br.On("GetByFilter", mock.Anything, domain.BookingsFilter{CompanyIDs: []int64{2, 3}}).Return(bookings, nil)
	return br, cr
}

func TestExecuteDefaultsToCurrentPeriod(t *testing.T) {
	br, cr := setup([]*domain.Booking{
		bookingOn(2, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), "1"),
		bookingOn(2, time.Date(2025, time.April, 3, 0, 0, 0, 0, time.UTC), "GUEST-1"),
	})

	resp, err := newUseCase(br, cr).Execute(context.Background(), &Request{Actor: admin})
	require.NoError(t, err)
	require.NotNil(t, resp.Period)
	assert.Equal(t, domain.Period{Year: 2025, Month: time.April}, *resp.Period)
	assert.Len(t, resp.Available, 2)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, 1, resp.Rows[0].Guest)
	assert.True(t, resp.Rows[0].Actual.Equal(decimal.NewFromInt(15060)))
	assert.Equal(t, 0, resp.Rows[1].Total, "company without bookings gets a zero row")
	assert.True(t, resp.Rows[1].Projected.IsZero())
	assert.True(t, resp.Rows[1].Actual.IsZero())
}

func TestExecuteFallsBackToFirstAvailable(t *testing.T) {
	br, cr := setup([]*domain.Booking{
		bookingOn(3, time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC), "1"),
		bookingOn(2, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), "1"),
	})

	resp, err := newUseCase(br, cr).Execute(context.Background(), &Request{Actor: admin, Year: 2030, Month: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.Period{Year: 2025, Month: time.February}, *resp.Period)
}

func TestExecuteSearch(t *testing.T) {
	br, cr := setup([]*domain.Booking{
		bookingOn(2, time.Date(2025, time.April, 3, 0, 0, 0, 0, time.UTC), "1"),
	})

	resp, err := newUseCase(br, cr).Execute(context.Background(), &Request{Actor: admin, Search: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, resp.Period)
	assert.Empty(t, resp.Rows)
}

func TestExecuteWithoutBookings(t *testing.T) {
	br, cr := setup([]*domain.Booking{})

	resp, err := newUseCase(br, cr).Execute(context.Background(), &Request{Actor: admin})
	require.NoError(t, err)
	assert.Nil(t, resp.Period)
	assert.Empty(t, resp.Rows)
	assert.Empty(t, resp.Available)
}

func TestExecuteRejects(t *testing.T) {
	br, cr := &mockBookingRepo{}, &mockCompanyRepo{}
	uc := newUseCase(br, cr)

	_, err := uc.Execute(context.Background(), &Request{Actor: domain.Actor{UserID: 5, Role: domain.RoleUser}})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = uc.Execute(context.Background(), &Request{Actor: admin, Year: 2025, Month: 13})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Execute(context.Background(), &Request{Actor: admin, Month: 3})
	assert.ErrorIs(t, err, domain.ErrValidation)

	cr.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestExecuteRepositoryFailure(t *testing.T) {
	br := &mockBookingRepo{}
	cr := &mockCompanyRepo{}
	cr.On("List", mock.Anything, excluded).Return([]*domain.Company{}, errors.New("db down"))

	_, err := newUseCase(br, cr).Execute(context.Background(), &Request{Actor: admin})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestCostSummary(t *testing.T) {
	br := &mockBookingRepo{}
	cr := &mockCompanyRepo{}
	cr.On("GetByID", mock.Anything, int64(2)).Return(acme, nil)
	cr.On("GetByID", mock.Anything, int64(9)).Return(nil, companyRepo.ErrCompanyNotFound)

	uc := newUseCase(br, cr)

	summary, err := uc.CostSummary(context.Background(), &CostRequest{Actor: admin, CompanyID: 2})
	require.NoError(t, err)
	assert.True(t, summary.MonthlyCost.Equal(decimal.NewFromInt(15000)))
	assert.True(t, summary.YearlyCost.Equal(decimal.NewFromInt(182500)))

	_, err = uc.CostSummary(context.Background(), &CostRequest{Actor: admin, CompanyID: 9})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.CostSummary(context.Background(), &CostRequest{Actor: domain.Actor{UserID: 5}, CompanyID: 2})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
