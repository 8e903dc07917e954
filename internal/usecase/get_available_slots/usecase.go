package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slots"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	serviceRepo  ServiceRepository
	aggregator   SlotAggregator
	timeProvider TimeProvider
	logger       Logger
	maxRangeDays int
	defaultStep  int
}

// NewUseCase создает новый экземпляр use case.
// maxRangeDays ограничивает длину запрашиваемого диапазона дат,
// defaultStep задает шаг сетки слотов для запросов без step; 0 — значения
// по умолчанию. loc — бизнес-часовой пояс сервиса; nil означает UTC
func NewUseCase(
	serviceRepo ServiceRepository,
	aggregator SlotAggregator,
	maxRangeDays int,
	defaultStep int,
	loc *time.Location,
	logger Logger,
) *UseCase {
	if maxRangeDays <= 0 {
		maxRangeDays = domain.DefaultMaxRangeDays
	}
	if defaultStep <= 0 {
		defaultStep = domain.DefaultStepMinutes
	}
	return &UseCase{
		serviceRepo:  serviceRepo,
		aggregator:   aggregator,
		timeProvider: NewRealTimeProvider(loc),
		logger:       logger,
		maxRangeDays: maxRangeDays,
		defaultStep:  defaultStep,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, service=%d, providers=%v, from=%s",
		req.UserID, req.ServiceID, req.ProviderIDs, req.FromDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Дата начала диапазона не может быть в прошлом
	if isDateInPast(req.FromDate, now) {
		uc.logger.Warn("GetAvailableSlots: fromDate=%s is in the past", req.FromDate.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 4. Приводим диапазон дат к допустимым границам
	fromDate, toDate := clampDateRange(req.FromDate, req.ToDate, uc.maxRangeDays)

	// 5. Получаем услугу с правилами слотов
	service, err := uc.serviceRepo.FindByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 6. Проверяем, что запрошенные провайдеры оказывают услугу
	if err := validateProviderScope(service, req.ProviderIDs); err != nil {
		uc.logger.Warn("GetAvailableSlots: provider scope validation failed: %v", err)
		return nil, err
	}

	// 7. Конвертируем позиции корзины в блокирующие интервалы с буферами
	cartItems, err := bufferedCartItems(service, req.CartItems)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid cart items: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	format := slots.FormatCompact
	if req.Detailed {
		format = slots.FormatDetailed
	}

	step := req.StepMinutes
	if step == 0 {
		step = uc.defaultStep
	}

	// 8. Вычисляем доступные слоты
	result, err := uc.aggregator.AvailableSlots(ctx, &slots.Query{
		Service:           service,
		ProviderIDs:       req.ProviderIDs,
		LocationIDs:       req.LocationIDs,
		FromDate:          fromDate,
		ToDate:            toDate,
		StepMinutes:       step,
		SinceNow:          req.SinceNow,
		SkipEmptyDays:     req.SkipEmptyDays,
		Format:            format,
		CartItems:         cartItems,
		ExcludeBookingIDs: req.ExcludeBookingIDs,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: aggregation failed for service=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: aggregation failed: %v", ErrInternal, err)
	}

	resp := buildResponse(req.ServiceID, fromDate, toDate, result)

	uc.logger.Info("GetAvailableSlots: generated slots for service=%d across %d days",
		req.ServiceID, len(resp.Days))

	return resp, nil
}

// buildResponse конвертирует результат агрегатора в response модель
func buildResponse(serviceID int64, fromDate, toDate time.Time, result *slots.Result) *Response {
	resp := &Response{
		ServiceID: serviceID,
		FromDate:  fromDate,
		ToDate:    toDate,
		Days:      make([]Day, 0, len(result.Days)),
	}

	for _, day := range result.Days {
		slotsOut := make([]Slot, 0, len(day.Slots))
		for _, s := range day.Slots {
			slot := Slot{
				StartTime:       s.StartTime,
				DurationMinutes: s.DurationMinutes,
				AvailableSpots:  s.AvailableSpots,
				TotalSpots:      s.TotalSpots,
			}
			for _, opt := range s.Options {
				slot.Options = append(slot.Options, Option{
					ProviderID: opt.ProviderID,
					LocationID: opt.LocationID,
				})
			}
			slotsOut = append(slotsOut, slot)
		}
		resp.Days = append(resp.Days, Day{Date: day.Date, Slots: slotsOut})
	}

	return resp
}
