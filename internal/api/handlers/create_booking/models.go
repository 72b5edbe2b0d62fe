package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	createBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ParkingService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid bookingDate")
	errInvalidTime = errors.New("invalid arrivalTime")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	UserID      int64  `json:"userId,omitempty"`    // По умолчанию - текущий пользователь
	CompanyID   int64  `json:"companyId,omitempty"` // По умолчанию - компания из профиля
	BookingDate string `json:"bookingDate"`         // "2025-10-15"
	ArrivalTime string `json:"arrivalTime"`         // "09:30"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64  `json:"bookingId"`
	UserID      int64  `json:"userId"`
	CompanyID   int64  `json:"companyId"`
	SlotNumber  string `json:"slotNumber"`
	BookingDate string `json:"bookingDate"`
	ArrivalTime string `json:"arrivalTime"`
	Status      string `json:"status"`
	HasArrived  bool   `json:"hasArrived"`
	HasLeft     bool   `json:"hasLeft"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	arrivalTime, err := types.NewTimeStringFromString(r.ArrivalTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createBooking.Request{
		Actor:       actor,
		UserID:      r.UserID,
		CompanyID:   r.CompanyID,
		BookingDate: bookingDate,
		ArrivalTime: arrivalTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		UserID:      resp.UserID,
		CompanyID:   resp.CompanyID,
		SlotNumber:  resp.SlotNumber,
		BookingDate: resp.BookingDate.Format(domain.DateFormat),
		ArrivalTime: resp.ArrivalTime.String(),
		Status:      resp.Status,
		HasArrived:  resp.HasArrived,
		HasLeft:     resp.HasLeft,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
