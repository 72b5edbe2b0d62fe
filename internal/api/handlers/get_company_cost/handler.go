package get_company_cost

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	getUsageReport "github.com/m04kA/SMC-ParkingService/internal/usecase/get_usage_report"
)

const (
	msgInvalidCompanyID = "некорректный ID компании"
	msgMissingUser      = "пользователь не авторизован"
	msgForbidden        = "стоимость доступна только администратору"
	msgCompanyNotFound  = "компания не найдена"
)

type Handler struct {
	useCase CostUseCase
	logger  Logger
}

func NewHandler(useCase CostUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/companies/{companyId}/cost
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	companyID, err := handlers.PathInt64(r, "companyId")
	if err != nil {
		h.logger.Warn("GET /companies/{id}/cost - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /companies/{id}/cost - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	summary, err := h.useCase.CostSummary(r.Context(), &getUsageReport.CostRequest{
		Actor:     actor,
		CompanyID: companyID,
	})
	if err != nil {
		switch {
		case errors.Is(err, getUsageReport.ErrAccessDenied):
			h.logger.Warn("GET /companies/{id}/cost - Access denied: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrCompanyNotFound):
			h.logger.Warn("GET /companies/{id}/cost - Company not found: company_id=%d", companyID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		default:
			h.logger.Error("GET /companies/{id}/cost - Failed to get cost: company_id=%d, error=%v", companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(summary))
}
