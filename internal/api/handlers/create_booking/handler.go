package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	createBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени въезда, ожидается HH:MM"
	msgMissingUser        = "пользователь не авторизован"
	msgForbidden          = "бронировать за другого пользователя может только администратор"
	msgInvalidInput       = "некорректные параметры бронирования"
	msgDateNotAllowed     = "бронирование на эту дату недоступно"
	msgUserNotApproved    = "регистрация пользователя не подтверждена"
	msgCompanyMismatch    = "пользователь не относится к указанной компании"
	msgUserNotFound       = "пользователь не найден"
	msgCompanyNotFound    = "компания не найдена"
	msgActiveBooking      = "у пользователя уже есть активное бронирование"
	msgConcurrentBooking  = "бронирование изменено параллельным запросом, повторите попытку"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings - Access denied: actor=%d, user_id=%d", actor.UserID, req.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrActiveBookingExists):
			h.logger.Warn("POST /bookings - Active booking exists: user_id=%d", useCaseReq.UserID)
			handlers.RespondConflict(w, msgActiveBooking)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /bookings - Concurrent booking: user_id=%d", useCaseReq.UserID)
			handlers.RespondConflict(w, msgConcurrentBooking)

		case errors.Is(err, domain.ErrUserNotFound):
			h.logger.Warn("POST /bookings - User not found: user_id=%d", useCaseReq.UserID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, domain.ErrCompanyNotFound):
			h.logger.Warn("POST /bookings - Company not found: company_id=%d", req.CompanyID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, domain.ErrDateNotAllowed):
			h.logger.Warn("POST /bookings - Date not allowed: user_id=%d, date=%s", useCaseReq.UserID, req.BookingDate)
			handlers.RespondBadRequest(w, msgDateNotAllowed)

		case errors.Is(err, domain.ErrUserNotApproved):
			h.logger.Warn("POST /bookings - User not approved: user_id=%d", useCaseReq.UserID)
			handlers.RespondBadRequest(w, msgUserNotApproved)

		case errors.Is(err, domain.ErrCompanyMismatch):
			h.logger.Warn("POST /bookings - Company mismatch: user_id=%d, company_id=%d", useCaseReq.UserID, req.CompanyID)
			handlers.RespondBadRequest(w, msgCompanyMismatch)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, error=%v", useCaseReq.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, slot=%s",
		result.ID, result.UserID, result.SlotNumber)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
