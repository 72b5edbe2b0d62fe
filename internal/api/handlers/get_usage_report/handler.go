package get_usage_report

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	getUsageReport "github.com/m04kA/SMC-ParkingService/internal/usecase/get_usage_report"
)

const (
	msgMissingUser   = "пользователь не авторизован"
	msgInvalidPeriod = "некорректный период, ожидаются year и month (1-12)"
	msgForbidden     = "отчёт доступен только администратору"
)

type Handler struct {
	useCase UsageReportUseCase
	logger  Logger
}

func NewHandler(useCase UsageReportUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/reports/usage
// Query params: year, month (опционально, вместе), search (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /reports/usage - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	req, err := ToUseCaseRequest(r.URL.Query(), actor)
	if err != nil {
		h.logger.Warn("GET /reports/usage - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getUsageReport.ErrAccessDenied):
			h.logger.Warn("GET /reports/usage - Access denied: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /reports/usage - Invalid period: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /reports/usage - Failed to build report: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /reports/usage - Report built: rows=%d", len(result.Rows))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
