package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	directoryClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/providerdirectory"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slots"
)

// UseCase use case для создания резервации
type UseCase struct {
	reservationRepo ReservationRepository
	serviceRepo     ServiceRepository
	slotChecker     SlotChecker
	directoryClient ProviderDirectoryClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// loc — бизнес-часовой пояс сервиса; nil означает UTC
func NewUseCase(
	reservationRepo ReservationRepository,
	serviceRepo ServiceRepository,
	slotChecker SlotChecker,
	directoryClient ProviderDirectoryClient,
	txManager TransactionManager,
	loc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		serviceRepo:     serviceRepo,
		slotChecker:     slotChecker,
		directoryClient: directoryClient,
		txManager:       txManager,
		timeProvider:    NewRealTimeProvider(loc),
		logger:          logger,
	}
}

// Execute выполняет use case создания резервации
// Использует сериализуемую транзакцию для предотвращения гонки данных:
// проверка доступности слота и сохранение резервации читают и пишут
// одно и то же состояние, поэтому два конкурентных чекаута на последний
// слот не пройдут оба
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: customer=%d, booking=%d, provider=%d, service=%d, date=%s, time=%s",
		req.CustomerID, req.BookingID, req.ProviderID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Дата резервации не может быть в прошлом
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("CreateReservation: date=%s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 4. Получаем услугу с правилами слотов
	service, err := uc.serviceRepo.FindByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateReservation: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateReservation: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Проверяем, что провайдер оказывает услугу
	if !service.IsEligibleProvider(req.ProviderID) {
		uc.logger.Warn("CreateReservation: provider=%d does not offer service=%d", req.ProviderID, req.ServiceID)
		return nil, ErrProviderNotEligible
	}

	// 6. Проверяем провайдера по справочнику.
	// При недоступности справочника пропускаем проверку: отказ в бронировании
	// из-за упавшего вспомогательного сервиса хуже редкой брони у
	// отключенного провайдера
	provider, err := uc.directoryClient.GetProviderWithGracefulDegradation(ctx, req.ProviderID)
	switch {
	case err == nil:
		if err := validateProvider(provider, req.LocationID); err != nil {
			uc.logger.Warn("CreateReservation: provider validation failed: %v", err)
			return nil, err
		}
	case errors.Is(err, directoryClient.ErrProviderNotFound):
		uc.logger.Warn("CreateReservation: provider id=%d not found in directory", req.ProviderID)
		return nil, ErrProviderNotFound
	case errors.Is(err, directoryClient.ErrServiceDegraded):
		uc.logger.Warn("CreateReservation: provider directory degraded, skipping provider check for id=%d", req.ProviderID)
	default:
		uc.logger.Error("CreateReservation: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	// 7. Вычисляем окно услуги и буферное окно
	duration := service.DurationFor(req.ProviderID)

	serviceEnd, err := req.StartTime.AddMinutes(duration)
	if err != nil {
		uc.logger.Warn("CreateReservation: invalid service window: %v", err)
		return nil, fmt.Errorf("%w: service window: %v", ErrInvalidInput, err)
	}
	bufferStart, err := req.StartTime.AddMinutes(-service.BufferBeforeMinutes)
	if err != nil {
		uc.logger.Warn("CreateReservation: invalid buffer window: %v", err)
		return nil, fmt.Errorf("%w: buffer window: %v", ErrInvalidInput, err)
	}
	bufferEnd, err := serviceEnd.AddMinutes(service.BufferAfterMinutes)
	if err != nil {
		uc.logger.Warn("CreateReservation: invalid buffer window: %v", err)
		return nil, fmt.Errorf("%w: buffer window: %v", ErrInvalidInput, err)
	}

	// 8. Конвертируем остальные позиции корзины в блокирующие интервалы
	cartItems, err := bufferedCartItems(service, req.CartItems)
	if err != nil {
		uc.logger.Warn("CreateReservation: invalid cart items: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Переменная для хранения результата
	var result *domain.Reservation

	// 9. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 9.1. Проверяем, что слот всё ещё доступен.
		// Внутри транзакции выборка резерваций блокирует строки (FOR UPDATE),
		// поэтому конкурентный чекаут дождется коммита и увидит новую резервацию
		available, err := uc.slotChecker.IsSlotStillAvailable(txCtx, &slots.SingleSlotQuery{
			Service:    service,
			ProviderID: req.ProviderID,
			LocationID: req.LocationID,
			Date:       req.Date,
			StartTime:  req.StartTime,
			CartItems:  cartItems,
		})
		if err != nil {
			uc.logger.Error("CreateReservation: slot availability check failed: %v", err)
			return fmt.Errorf("%w: slot availability check: %v", ErrInternal, err)
		}
		if !available {
			uc.logger.Warn("CreateReservation: slot date=%s time=%s provider=%d is not available",
				req.Date.Format(domain.DateFormat), req.StartTime, req.ProviderID)
			return ErrSlotNotAvailable
		}

		// 9.2. Создаем резервацию с денормализацией данных услуги
		reservation := &domain.Reservation{
			BookingID:    req.BookingID,
			CustomerID:   req.CustomerID,
			ProviderID:   req.ProviderID,
			LocationID:   req.LocationID,
			ServiceID:    req.ServiceID,
			Date:         req.Date,
			ServiceStart: req.StartTime,
			ServiceEnd:   serviceEnd,
			BufferStart:  bufferStart,
			BufferEnd:    bufferEnd,
			Capacity:     domain.MinSlotCapacity,
			Status:       domain.StatusConfirmed,
			// Денормализация данных услуги
			ServiceName:  service.Name,
			ServicePrice: servicePrice(service, req.ProviderID),
			// Заметки
			Notes: req.Notes,
		}

		// 9.3. Сохраняем резервацию
		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d", result.ID)

	// Конвертируем в response
	return &Response{
		ID:           result.ID,
		BookingID:    result.BookingID,
		CustomerID:   result.CustomerID,
		ProviderID:   result.ProviderID,
		LocationID:   result.LocationID,
		ServiceID:    result.ServiceID,
		Date:         result.Date,
		StartTime:    result.ServiceStart,
		EndTime:      result.ServiceEnd,
		BufferStart:  result.BufferStart,
		BufferEnd:    result.BufferEnd,
		Status:       string(result.Status),
		ServiceName:  result.ServiceName,
		ServicePrice: result.ServicePrice,
		Notes:        result.Notes,
		CreatedAt:    result.CreatedAt,
		UpdatedAt:    result.UpdatedAt,
		Events:       []domain.Event{domain.NewReservationCreated(result, now)},
	}, nil
}
