package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ParkingService/pkg/clock"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *mockRepo) GetActiveByUserID(ctx context.Context, userID int64) ([]*domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *mockRepo) GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *mockRepo) MarkArrived(ctx context.Context, id int64, today time.Time) error {
	return m.Called(ctx, id, today).Error(0)
}

func (m *mockRepo) MarkLeft(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) Cancel(ctx context.Context, id int64, today time.Time) error {
	return m.Called(ctx, id, today).Error(0)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) IncBookingTransition(operation, result string) {
	m.Called(operation, result)
}

var (
	now   = time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)
	today = domain.DateOnly(now)
	admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	owner = domain.Actor{UserID: 10, Role: domain.RoleUser}
)

func newService(repo *mockRepo) *Service {
	return NewService(repo, nil, clock.Fixed(now), logger.NewNop())
}

func booking(offset int) *domain.Booking {
	return &domain.Booking{
		ID:          7,
		UserID:      10,
		CompanyID:   2,
		SlotNumber:  "1",
		BookingDate: today.AddDate(0, 0, offset),
		ArrivalTime: "09:00",
		Status:      domain.StatusConfirmed,
	}
}

func TestMarkArrival(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("GetByID", ctx, int64(7)).Return(booking(0), nil).Once()
	repo.On("MarkArrived", ctx, int64(7), today).Return(nil).Once()

	resp, err := newService(repo).MarkArrival(ctx, admin, 7)
	require.NoError(t, err)
	assert.True(t, resp.HasArrived)
	assert.False(t, resp.HasLeft)
	assert.Equal(t, "confirmed", resp.Status)
	repo.AssertExpectations(t)
}

func TestMarkArrivalTwiceIsConflict(t *testing.T) {
	ctx := context.Background()
	arrived := booking(0)
	arrived.HasArrived = true

	repo := &mockRepo{}
	repo.On("GetByID", ctx, int64(7)).Return(arrived, nil).Once()

	_, err := newService(repo).MarkArrival(ctx, admin, 7)
	assert.ErrorIs(t, err, domain.ErrAlreadyArrived)
	assert.ErrorIs(t, err, domain.ErrConflict)
	repo.AssertNotCalled(t, "MarkArrived", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkArrivalRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("GetByID", ctx, int64(7)).Return(booking(0), nil).Once()

	_, err := newService(repo).MarkArrival(ctx, owner, 7)
	assert.ErrorIs(t, err, ErrAccessDenied)
	repo.AssertNotCalled(t, "MarkArrived", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkArrivalNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("GetByID", ctx, int64(7)).Return(nil, bookingRepo.ErrBookingNotFound).Once()

	_, err := newService(repo).MarkArrival(ctx, admin, 7)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkExitBeforeArrival(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("GetByID", ctx, int64(7)).Return(booking(0), nil).Once()

	_, err := newService(repo).MarkExit(ctx, admin, 7)
	assert.ErrorIs(t, err, domain.ErrNotArrived)
	repo.AssertNotCalled(t, "MarkLeft", mock.Anything, mock.Anything)
}

func TestMarkExitKeepsStatus(t *testing.T) {
	ctx := context.Background()
	arrived := booking(0)
	arrived.HasArrived = true

	repo := &mockRepo{}
	repo.On("GetByID", ctx, int64(7)).Return(arrived, nil).Once()
	repo.On("MarkLeft", ctx, int64(7)).Return(nil).Once()

	resp, err := newService(repo).MarkExit(ctx, admin, 7)
	require.NoError(t, err)
	assert.True(t, resp.HasArrived)
	assert.True(t, resp.HasLeft)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestCancelRejections(t *testing.T) {
	cancelled := booking(1)
	cancelled.Status = domain.StatusCancelled

	exited := booking(0)
	exited.HasArrived, exited.HasLeft = true, true

	tests := []struct {
		name    string
		booking *domain.Booking
		wantErr error
	}{
		{"already cancelled", cancelled, domain.ErrNotConfirmed},
		{"already exited", exited, domain.ErrAlreadyExited},
		{"expired", booking(-1), domain.ErrNotConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := &mockRepo{}
			repo.On("GetByID", ctx, int64(7)).Return(tt.booking, nil).Once()

			_, err := newService(repo).Cancel(ctx, owner, 7)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrConflict)
			repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCancelByOwnerAndStranger(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("GetByID", ctx, int64(7)).Return(booking(1), nil)
	repo.On("Cancel", ctx, int64(7), today).Return(nil).Once()

	svc := newService(repo)

	_, err := svc.Cancel(ctx, domain.Actor{UserID: 99, Role: domain.RoleUser}, 7)
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := svc.Cancel(ctx, owner, 7)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	repo.AssertNumberOfCalls(t, "Cancel", 1)
}

func TestLostRaceReportsCurrentReason(t *testing.T) {
	ctx := context.Background()
	arrived := booking(0)
	arrived.HasArrived = true

	repo := &mockRepo{}
	repo.On("GetByID", ctx, int64(7)).Return(booking(0), nil).Once()
	repo.On("MarkArrived", ctx, int64(7), today).Return(bookingRepo.ErrConditionNotMet).Once()
	repo.On("GetByID", ctx, int64(7)).Return(arrived, nil).Once()

	recorder := &mockRecorder{}
	recorder.On("IncBookingTransition", "MarkArrival", resultConflict).Once()

	svc := NewService(repo, recorder, clock.Fixed(now), logger.NewNop())
	_, err := svc.MarkArrival(ctx, admin, 7)

	assert.ErrorIs(t, err, domain.ErrAlreadyArrived)
	repo.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestLostRaceWithoutVisibleReason(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("GetByID", ctx, int64(7)).Return(booking(1), nil).Twice()
	repo.On("Cancel", ctx, int64(7), today).Return(bookingRepo.ErrConditionNotMet).Once()

	_, err := newService(repo).Cancel(ctx, admin, 7)
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRepositoryFailureIsInternal(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("GetByID", ctx, int64(7)).Return(booking(1), nil).Once()
	repo.On("Cancel", ctx, int64(7), today).Return(errors.New("connection reset")).Once()

	_, err := newService(repo).Cancel(ctx, owner, 7)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetByIDReportsExpiredStatus(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("GetByID", ctx, int64(7)).Return(booking(-2), nil).Once()

	resp, err := newService(repo).GetByID(ctx, owner, 7)
	require.NoError(t, err)
	assert.Equal(t, "expired", resp.Status)
}

func TestGetActiveBooking(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("GetActiveByUserID", ctx, int64(10)).Return([]*domain.Booking{booking(-1), booking(1)}, nil).Once()

	resp, err := newService(repo).GetActiveBooking(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, today.AddDate(0, 0, 1).Format(domain.DateFormat), resp.BookingDate)

	repo.On("GetActiveByUserID", ctx, int64(10)).Return([]*domain.Booking{booking(-1)}, nil).Once()
	_, err = newService(repo).GetActiveBooking(ctx, owner)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetUserBookingsAccess(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("GetByUserID", ctx, int64(10), ptr.Ptr(domain.StatusCancelled)).Return([]*domain.Booking{}, nil).Once()

	svc := newService(repo)

	resp, err := svc.GetUserBookings(ctx, owner, &models.GetUserBookingsRequest{UserID: 10, Status: ptr.Ptr("cancelled")})
	require.NoError(t, err)
	assert.Empty(t, resp.Bookings)

	_, err = svc.GetUserBookings(ctx, owner, &models.GetUserBookingsRequest{UserID: 11})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetUserBookings(ctx, owner, &models.GetUserBookingsRequest{UserID: 10, Status: ptr.Ptr("bogus")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetTodayActive(t *testing.T) {
	ctx := context.Background()
	late := booking(0)
	onTime := booking(0)
	onTime.ID = 8
	onTime.ArrivalTime = "18:00"
	arrived := booking(0)
	arrived.ID = 9
	arrived.HasArrived = true

	repo := &mockRepo{}
	repo.On("GetByFilter", ctx, mock.MatchedBy(func(f domain.BookingsFilter) bool {
		return f.ExcludeLeft && f.Status != nil && *f.Status == domain.StatusConfirmed &&
			f.StartDate != nil && f.StartDate.Equal(today) && f.EndDate != nil && f.EndDate.Equal(today)
	})).Return([]*domain.Booking{late, onTime, arrived}, nil).Once()

	svc := newService(repo)

	resp, err := svc.GetTodayActive(ctx, admin)
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 3)
	assert.Equal(t, "2025-03-14", resp.Date)
	assert.True(t, resp.Bookings[0].IsOverdue)
	assert.False(t, resp.Bookings[1].IsOverdue)
	assert.False(t, resp.Bookings[2].IsOverdue)

	_, err = svc.GetTodayActive(ctx, owner)
	assert.ErrorIs(t, err, ErrAccessDenied)
}
