package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUser      = "пользователь не авторизован"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "отменить бронирование может только владелец или администратор"
	msgNotConfirmed     = "бронирование уже отменено или просрочено"
	msgAlreadyExited    = "по бронированию уже отмечен выезд"
	msgConcurrentUpdate = "бронирование изменено параллельным запросом, повторите попытку"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	booking, err := h.service.Cancel(r.Context(), actor, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%d, user_id=%d", bookingID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrNotConfirmed):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Not confirmed: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotConfirmed)

		case errors.Is(err, domain.ErrAlreadyExited):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Already exited: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgAlreadyExited)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Concurrent update: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled: booking_id=%d, user_id=%d", bookingID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
