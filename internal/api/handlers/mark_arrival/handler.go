package mark_arrival

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
	msgForbidden        = "отмечать въезд может только администратор"
	msgNotConfirmed     = "бронирование отменено или просрочено"
	msgAlreadyArrived   = "въезд уже отмечен"
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

// Handle PUT /api/v1/bookings/{bookingId}/arrived
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/arrived - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/arrived - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	booking, err := h.service.MarkArrival(r.Context(), actor, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id}/arrived - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id}/arrived - Access denied: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrAlreadyArrived):
			h.logger.Warn("PUT /bookings/{id}/arrived - Already arrived: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgAlreadyArrived)

		case errors.Is(err, domain.ErrNotConfirmed):
			h.logger.Warn("PUT /bookings/{id}/arrived - Not confirmed: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotConfirmed)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("PUT /bookings/{id}/arrived - Concurrent update: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		default:
			h.logger.Error("PUT /bookings/{id}/arrived - Failed to mark arrival: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/arrived - Arrival marked: booking_id=%d, slot=%s", bookingID, booking.SlotNumber)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
