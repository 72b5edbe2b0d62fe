package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", domain.ErrInvalidInput)
	}

	if req.CompanyID < 0 {
		return fmt.Errorf("%w: companyID must not be negative", domain.ErrInvalidInput)
	}

	if req.BookingDate.IsZero() {
		return fmt.Errorf("%w: bookingDate is required", domain.ErrInvalidInput)
	}

	if req.ArrivalTime.IsZero() {
		return fmt.Errorf("%w: arrivalTime is required", domain.ErrInvalidInput)
	}

	if err := req.ArrivalTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid arrivalTime format: %v", domain.ErrInvalidInput, err)
	}

	return nil
}
