package get_usage_report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	getUsageReport "github.com/m04kA/SMC-ParkingService/internal/usecase/get_usage_report"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *getUsageReport.Request) (*getUsageReport.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*getUsageReport.Response), args.Error(1)
}

var admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}

func serve(uc *mockUseCase, actor domain.Actor, query string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/reports/usage"+query, nil)
	r = r.WithContext(middleware.WithActor(r.Context(), actor))
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, r)
	return rec
}

func TestToUseCaseRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		year    int
		month   int
		search  string
		wantErr bool
	}{
		{name: "empty"},
		{name: "period and search", query: "year=2025&month=3&search=%20acme%20", year: 2025, month: 3, search: " acme "},
		{name: "year only", query: "year=2025", wantErr: true},
		{name: "month only", query: "month=3", wantErr: true},
		{name: "not a number", query: "year=2025&month=march", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			req, err := ToUseCaseRequest(query, admin)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.year, req.Year)
			assert.Equal(t, tt.month, req.Month)
			assert.Equal(t, tt.search, req.Search)
			assert.Equal(t, admin, req.Actor)
		})
	}
}

func TestHandleReport(t *testing.T) {
	period := domain.Period{Year: 2025, Month: time.March}
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *getUsageReport.Request) bool {
		return req.Year == 2025 && req.Month == 3
	})).Return(&getUsageReport.Response{
		Period:    &period,
		Available: []domain.Period{{Year: 2025, Month: time.February}, period},
		Rows: []domain.MonthlyUsage{{
			CompanyID:   2,
			CompanyName: "Acme",
			Period:      period,
			Total:       3,
			Guest:       1,
			Projected:   decimal.NewFromInt(15000),
			Actual:      decimal.NewFromInt(160),
		}},
	}, nil)

	rec := serve(uc, admin, "?year=2025&month=3")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "2025-03", body["period"])
	assert.Equal(t, []interface{}{"2025-02", "2025-03"}, body["availablePeriods"])

	rows := body["rows"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "Acme", row["companyName"])
	assert.Equal(t, "15000", row["projectedCost"])
	assert.Equal(t, "160", row["actualCost"])
	assert.Equal(t, float64(1), row["guestBookings"])
}

func TestHandleEmptyReport(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(&getUsageReport.Response{
		Available: []domain.Period{},
		Rows:      []domain.MonthlyUsage{},
	}, nil)

	rec := serve(uc, admin, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"period":null,"availablePeriods":[],"rows":[]}`, rec.Body.String())
}

func TestHandleErrors(t *testing.T) {
	user := domain.Actor{UserID: 10, Role: domain.RoleUser}

	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, getUsageReport.ErrAccessDenied).Once()
	assert.Equal(t, http.StatusForbidden, serve(uc, user, "").Code)

	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidInput).Once()
	assert.Equal(t, http.StatusBadRequest, serve(uc, admin, "?year=2025&month=13").Code)

	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, getUsageReport.ErrInternal).Once()
	assert.Equal(t, http.StatusInternalServerError, serve(uc, admin, "").Code)

	assert.Equal(t, http.StatusBadRequest, serve(&mockUseCase{}, admin, "?year=2025").Code)
}
