package get_user_bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetUserBookings(ctx context.Context, actor domain.Actor, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingListResponse), args.Error(1)
}

var actor = domain.Actor{UserID: 10, Role: domain.RoleUser}

func serve(svc *mockService, userID, query string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID+"/bookings"+query, nil)
	r = mux.SetURLVars(r, map[string]string{"userId": userID})
	r = r.WithContext(middleware.WithActor(r.Context(), actor))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, r)
	return rec
}

func TestHandlePassesStatusFilter(t *testing.T) {
	svc := &mockService{}
	svc.On("GetUserBookings", mock.Anything, actor, mock.MatchedBy(func(req *models.GetUserBookingsRequest) bool {
		return req.UserID == 10 && req.Status != nil && *req.Status == "cancelled"
	})).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1, Status: "cancelled"}}}, nil)

	rec := serve(svc, "10", "?status=cancelled")

	require.Equal(t, http.StatusOK, rec.Code)
	var body []models.BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "cancelled", body[0].Status)
	svc.AssertExpectations(t)
}

func TestHandleWithoutStatus(t *testing.T) {
	svc := &mockService{}
	svc.On("GetUserBookings", mock.Anything, actor, mock.MatchedBy(func(req *models.GetUserBookingsRequest) bool {
		return req.Status == nil
	})).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{}}, nil)

	rec := serve(svc, "10", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHandleErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "other user", err: bookings.ErrAccessDenied, code: http.StatusForbidden},
		{name: "bad status", err: domain.ErrInvalidInput, code: http.StatusBadRequest},
		{name: "internal", err: bookings.ErrInternal, code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetUserBookings", mock.Anything, actor, mock.Anything).Return(nil, tt.err)
			assert.Equal(t, tt.code, serve(svc, "11", "?status=unknown").Code)
		})
	}
}
