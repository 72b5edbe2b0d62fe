package get_active_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const (
	msgMissingUser = "пользователь не авторизован"
	msgNoActive    = "активное бронирование не найдено"
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

// Handle GET /api/v1/bookings/active
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/active - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	booking, err := h.service.GetActiveBooking(r.Context(), actor)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			h.logger.Info("GET /bookings/active - No active booking: user_id=%d", actor.UserID)
			handlers.RespondNotFound(w, msgNoActive)
			return
		}
		h.logger.Error("GET /bookings/active - Failed to get active booking: user_id=%d, error=%v", actor.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, booking)
}
