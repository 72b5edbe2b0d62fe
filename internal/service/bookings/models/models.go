package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64  `json:"bookingId"`
	UserID      int64  `json:"userId"`
	CompanyID   int64  `json:"companyId"`
	SlotNumber  string `json:"slotNumber"`
	BookingDate string `json:"bookingDate"` // "2025-10-15"
	ArrivalTime string `json:"arrivalTime"` // "09:30"
	Status      string `json:"status"`      // Статус на момент чтения: просроченное отдаётся как expired
	HasArrived  bool   `json:"hasArrived"`
	HasLeft     bool   `json:"hasLeft"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// TodayBookingResponse строка активного набора на сегодня
type TodayBookingResponse struct {
	BookingResponse
	IsOverdue bool `json:"isOverdue"`
}

// TodayListResponse активный набор на сегодня
type TodayListResponse struct {
	Date     string                 `json:"date"`
	Bookings []TodayBookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking, now time.Time) *BookingResponse {
	if b == nil {
		return nil
	}

	status := b.Status
	if b.IsExpired(now) {
		status = domain.StatusExpired
	}

	return &BookingResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		CompanyID:   b.CompanyID,
		SlotNumber:  b.SlotNumber,
		BookingDate: b.BookingDate.Format(domain.DateFormat),
		ArrivalTime: b.ArrivalTime.String(),
		Status:      string(status),
		HasArrived:  b.HasArrived,
		HasLeft:     b.HasLeft,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, now time.Time) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking, now); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainTodayList формирует активный набор с признаком опоздания
func FromDomainTodayList(bookings []*domain.Booking, now time.Time) *TodayListResponse {
	resp := &TodayListResponse{
		Date:     now.Format(domain.DateFormat),
		Bookings: make([]TodayBookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		resp.Bookings = append(resp.Bookings, TodayBookingResponse{
			BookingResponse: *FromDomainBooking(booking, now),
			IsOverdue:       booking.IsOverdue(now),
		})
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return s, nil
}
