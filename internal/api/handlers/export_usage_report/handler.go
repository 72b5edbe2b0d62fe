package export_usage_report

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	usageReport "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_usage_report"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	getUsageReport "github.com/m04kA/SMC-ParkingService/internal/usecase/get_usage_report"
)

const (
	msgMissingUser   = "пользователь не авторизован"
	msgInvalidPeriod = "некорректный период, ожидаются year и month (1-12)"
	msgForbidden     = "выгрузка отчёта доступна только администратору"
)

type Handler struct {
	useCase UsageReportUseCase
	writer  ReportWriter
	logger  Logger
}

func NewHandler(useCase UsageReportUseCase, writer ReportWriter, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		writer:  writer,
		logger:  logger,
	}
}

// Handle GET /api/v1/reports/usage/export
// Query params те же, что у GET /reports/usage
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /reports/usage/export - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	req, err := usageReport.ToUseCaseRequest(r.URL.Query(), actor)
	if err != nil {
		h.logger.Warn("GET /reports/usage/export - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getUsageReport.ErrAccessDenied):
			h.logger.Warn("GET /reports/usage/export - Access denied: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /reports/usage/export - Invalid period: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /reports/usage/export - Failed to build report: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Файл собирается целиком до отправки, чтобы ошибка записи вернулась как 500
	var buf bytes.Buffer
	if err := h.writer.Write(&buf, result.Period, result.Rows); err != nil {
		h.logger.Error("GET /reports/usage/export - Failed to write report: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	w.Header().Set("Content-Type", h.writer.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.writer.FileName(result.Period)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("GET /reports/usage/export - Failed to send report: error=%v", err)
		return
	}

	h.logger.Info("GET /reports/usage/export - Report exported: rows=%d", len(result.Rows))
}
