package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	companyRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/company"
	userClient "github.com/m04kA/SMC-ParkingService/internal/integrations/userservice"
)

const operation = "Create"

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	companyRepo  CompanyRepository
	userClient   UserServiceClient
	txManager    TransactionManager
	recorder     TransitionRecorder
	timeProvider TimeProvider
	window       domain.BookingWindow
	guestPrefix  string
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. recorder может быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	companyRepo CompanyRepository,
	userClient UserServiceClient,
	txManager TransactionManager,
	recorder TransitionRecorder,
	timeProvider TimeProvider,
	window domain.BookingWindow,
	guestPrefix string,
	logger Logger,
) *UseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		companyRepo:  companyRepo,
		userClient:   userClient,
		txManager:    txManager,
		recorder:     recorder,
		timeProvider: timeProvider,
		window:       window,
		guestPrefix:  guestPrefix,
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка единственного активного бронирования и выбор места выполняются
// в сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.record(err)
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	if req.UserID == 0 {
		req.UserID = req.Actor.UserID
	}

	uc.logger.Info("CreateBooking: user=%d, company=%d, date=%s, arrival=%s",
		req.UserID, req.CompanyID, req.BookingDate.Format(domain.DateFormat), req.ArrivalTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// Бронировать за другого пользователя может только администратор
	if req.UserID != req.Actor.UserID && !req.Actor.IsAdmin() {
		uc.logger.Warn("CreateBooking: user=%d tried to book for user=%d", req.Actor.UserID, req.UserID)
		return nil, ErrAccessDenied
	}

	now := uc.timeProvider.Now()

	// 2. Профиль пользователя: компания и одобрение регистрации
	user, err := uc.userClient.GetUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: user id=%d not found", req.UserID)
			return nil, fmt.Errorf("%w: id=%d", domain.ErrUserNotFound, req.UserID)
		}
		uc.logger.Error("CreateBooking: failed to get user id=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}

	if !user.Approved {
		uc.logger.Warn("CreateBooking: user id=%d is not approved", req.UserID)
		return nil, fmt.Errorf("%w: id=%d", domain.ErrUserNotApproved, req.UserID)
	}

	companyID := req.CompanyID
	if companyID == 0 {
		companyID = user.CompanyID
	}
	if user.CompanyID != companyID {
		uc.logger.Warn("CreateBooking: user id=%d belongs to company=%d, requested company=%d",
			req.UserID, user.CompanyID, companyID)
		return nil, fmt.Errorf("%w: user=%d company=%d", domain.ErrCompanyMismatch, req.UserID, companyID)
	}

	// 3. Компания
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, companyRepo.ErrCompanyNotFound) {
			uc.logger.Warn("CreateBooking: company id=%d not found", companyID)
			return nil, fmt.Errorf("%w: id=%d", domain.ErrCompanyNotFound, companyID)
		}
		uc.logger.Error("CreateBooking: failed to get company id=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}

	// 4. Окно бронирования: с завтрашнего дня на window.Days дней
	if err := uc.window.Validate(req.BookingDate, now); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	var result *domain.Booking

	// 5. Сериализуемая транзакция
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Активные бронирования пользователя с блокировкой (FOR UPDATE)
		active, err := uc.bookingRepo.GetActiveByUserID(txCtx, req.UserID)
		if err != nil {
			return uc.repoError("failed to get active bookings", err)
		}
		for _, b := range active {
			if b.HoldsReservation(now) {
				uc.logger.Warn("CreateBooking: user id=%d already has booking id=%d on %s",
					req.UserID, b.ID, b.BookingDate.Format(domain.DateFormat))
				return fmt.Errorf("%w: booking id=%d", domain.ErrActiveBookingExists, b.ID)
			}
		}

		// 5.2. Выбор места
		taken, err := uc.bookingRepo.GetSlotNumbers(txCtx, company.ID, req.BookingDate)
		if err != nil {
			return uc.repoError("failed to get taken slots", err)
		}
		slot := allocateSlot(taken, company.AllocatedParkingSlots, uc.guestPrefix)

		uc.logger.Info("CreateBooking: company=%d has %d/%d slots taken on %s, assigned slot=%s",
			company.ID, len(taken), company.AllocatedParkingSlots, req.BookingDate.Format(domain.DateFormat), slot)

		// 5.3. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			UserID:      req.UserID,
			CompanyID:   company.ID,
			SlotNumber:  slot,
			BookingDate: domain.DateOnly(req.BookingDate),
			ArrivalTime: req.ArrivalTime,
			Status:      domain.StatusConfirmed,
		})
		if err != nil {
			return uc.repoError("failed to create booking", err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Сбой сериализации: параллельное бронирование того же пользователя или того же места
		if bookingRepo.IsConflict(err) {
			uc.logger.Warn("CreateBooking: concurrent booking for user id=%d: %v", req.UserID, err)
			return nil, fmt.Errorf("%w: user=%d", domain.ErrConcurrentUpdate, req.UserID)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d slot=%s", result.ID, result.SlotNumber)

	return &Response{
		ID:          result.ID,
		UserID:      result.UserID,
		CompanyID:   result.CompanyID,
		SlotNumber:  result.SlotNumber,
		BookingDate: result.BookingDate,
		ArrivalTime: result.ArrivalTime,
		Status:      string(result.Status),
		HasArrived:  result.HasArrived,
		HasLeft:     result.HasLeft,
		CreatedAt:   result.CreatedAt,
		UpdatedAt:   result.UpdatedAt,
	}, nil
}

// repoError оставляет конфликты записи распознаваемыми, остальное - внутренняя ошибка
func (uc *UseCase) repoError(msg string, err error) error {
	if bookingRepo.IsConflict(err) {
		return err
	}
	uc.logger.Error("CreateBooking: %s: %v", msg, err)
	return fmt.Errorf("%w: %s: %v", ErrInternal, msg, err)
}

func (uc *UseCase) record(err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrConflict):
		result = "conflict"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound), errors.Is(err, ErrAccessDenied):
		result = "rejected"
	default:
		result = "error"
	}
	uc.recorder.IncBookingTransition(operation, result)
}
