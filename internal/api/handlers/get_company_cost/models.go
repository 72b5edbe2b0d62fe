package get_company_cost

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// CostResponse HTTP response model
type CostResponse struct {
	CompanyID      int64           `json:"companyId"`
	CompanyName    string          `json:"companyName"`
	AllocatedSlots int             `json:"allocatedParkingSlots"`
	MonthlyCost    decimal.Decimal `json:"monthlyCost"`
	YearlyCost     decimal.Decimal `json:"yearlyCost"`
}

// FromDomain конвертирует сводку стоимости в HTTP response
func FromDomain(s *domain.CostSummary) *CostResponse {
	return &CostResponse{
		CompanyID:      s.CompanyID,
		CompanyName:    s.CompanyName,
		AllocatedSlots: s.AllocatedSlots,
		MonthlyCost:    s.MonthlyCost,
		YearlyCost:     s.YearlyCost,
	}
}
