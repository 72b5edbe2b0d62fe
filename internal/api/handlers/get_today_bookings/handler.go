package get_today_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings"
)

const (
	msgMissingUser = "пользователь не авторизован"
	msgForbidden   = "список на сегодня доступен только администратору"
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

// Handle GET /api/v1/admin/bookings/today
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /admin/bookings/today - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	result, err := h.service.GetTodayActive(r.Context(), actor)
	if err != nil {
		if errors.Is(err, bookings.ErrAccessDenied) {
			h.logger.Warn("GET /admin/bookings/today - Access denied: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		h.logger.Error("GET /admin/bookings/today - Failed to get bookings: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/bookings/today - %d active bookings on %s", len(result.Bookings), result.Date)
	handlers.RespondJSON(w, http.StatusOK, result)
}
