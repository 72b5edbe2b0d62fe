package mark_exit

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
	msgForbidden        = "отмечать выезд может только администратор"
	msgNotConfirmed     = "бронирование не подтверждено"
	msgNotArrived       = "въезд по бронированию ещё не отмечен"
	msgAlreadyExited    = "выезд уже отмечен"
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

// Handle PUT /api/v1/bookings/{bookingId}/exit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/exit - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/exit - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	booking, err := h.service.MarkExit(r.Context(), actor, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id}/exit - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id}/exit - Access denied: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrNotArrived):
			h.logger.Warn("PUT /bookings/{id}/exit - Not arrived: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotArrived)

		case errors.Is(err, domain.ErrAlreadyExited):
			h.logger.Warn("PUT /bookings/{id}/exit - Already exited: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgAlreadyExited)

		case errors.Is(err, domain.ErrNotConfirmed):
			h.logger.Warn("PUT /bookings/{id}/exit - Not confirmed: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotConfirmed)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("PUT /bookings/{id}/exit - Concurrent update: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		default:
			h.logger.Error("PUT /bookings/{id}/exit - Failed to mark exit: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/exit - Exit marked: booking_id=%d, slot=%s", bookingID, booking.SlotNumber)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
