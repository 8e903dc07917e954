package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/timeperiod"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Aggregator вычисляет доступные слоты услуги, разворачивая калькулятор
// доступности по всем допустимым парам (провайдер, локация).
// Сервис не хранит состояния: расписания и резервации читаются заново
// при каждом вызове, поэтому он безопасен для конкурентного использования.
type Aggregator struct {
	scheduleRepo    ScheduleRepository
	reservationRepo ReservationRepository
	calc            AvailabilityCalculator
	timeProvider    TimeProvider
	logger          Logger
}

// NewAggregator создает новый агрегатор слотов.
// loc — бизнес-часовой пояс сервиса для фильтра lead time; nil означает UTC
func NewAggregator(
	schedules ScheduleRepository,
	reservations ReservationRepository,
	calc AvailabilityCalculator,
	loc *time.Location,
	logger Logger,
) *Aggregator {
	return &Aggregator{
		scheduleRepo:    schedules,
		reservationRepo: reservations,
		calc:            calc,
		timeProvider:    NewRealTimeProvider(loc),
		logger:          logger,
	}
}

// AvailableSlots вычисляет доступные слоты по запросу.
//
// Резервации всех провайдеров диапазона загружаются одним запросом,
// а не по одному на пару (провайдер, локация). Пустой итог (нет
// допустимых провайдеров, нет открытых часов) — не ошибка.
func (a *Aggregator) AvailableSlots(ctx context.Context, q *Query) (*Result, error) {
	if q.Service == nil {
		return nil, ErrNilService
	}
	if q.FromDate.After(q.ToDate) {
		return nil, ErrInvalidRange
	}

	step := q.StepMinutes
	if step == 0 {
		step = domain.DefaultStepMinutes
	}
	if step < 0 {
		return nil, ErrInvalidStep
	}

	providers := resolveProviderScope(q.Service, q.ProviderIDs)
	if len(providers) == 0 {
		a.logger.Info("AvailableSlots: service=%d has no eligible providers in scope", q.Service.ID)
		return &Result{Days: []DaySlots{}}, nil
	}

	// Загружаем резервации один раз на весь запрос
	reservations, err := a.reservationRepo.FindAll(ctx, domain.ReservationFilter{
		ProviderIDs:       providers,
		FromDate:          &q.FromDate,
		ToDate:            &q.ToDate,
		ExcludeBookingIDs: q.ExcludeBookingIDs,
		IncludeInactive:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load reservations: %v", ErrInternal, err)
	}

	blockers, err := collectBlockers(reservations, q.CartItems, q.LocationIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to collect blockers: %v", ErrInternal, err)
	}

	now := a.timeProvider.Now()
	days := make(map[string]dayAccumulator)

	for _, providerID := range providers {
		schedule, err := a.scheduleRepo.FindByProvider(ctx, providerID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				// Провайдер без расписания не дает слотов
				a.logger.Warn("AvailableSlots: provider=%d has no schedule", providerID)
				continue
			}
			return nil, fmt.Errorf("%w: failed to load schedule for provider=%d: %v", ErrInternal, providerID, err)
		}

		if err := a.accumulateProvider(q, schedule, providerID, step, now, blockers, days); err != nil {
			return nil, err
		}
	}

	return a.buildResult(q, days), nil
}

// IsSlotStillAvailable проверяет, что конкретный слот всё ещё присутствует
// в детальной выдаче агрегатора. Используется на пути коммита бронирования
// для защиты от двойного бронирования: вызов внутри сериализуемой
// транзакции читает самое свежее состояние резерваций.
func (a *Aggregator) IsSlotStillAvailable(ctx context.Context, q *SingleSlotQuery) (bool, error) {
	if q.Service == nil {
		return false, ErrNilService
	}

	query := &Query{
		Service:           q.Service,
		ProviderIDs:       []int64{q.ProviderID},
		FromDate:          q.Date,
		ToDate:            q.Date,
		SinceNow:          true,
		Format:            FormatDetailed,
		CartItems:         q.CartItems,
		ExcludeBookingIDs: q.ExcludeBookingIDs,
	}
	if q.LocationID > 0 {
		query.LocationIDs = []int64{q.LocationID}
	}

	result, err := a.AvailableSlots(ctx, query)
	if err != nil {
		return false, err
	}

	want := domain.SlotOption{ProviderID: q.ProviderID, LocationID: q.LocationID}
	dateStr := q.Date.Format(domain.DateFormat)

	for _, day := range result.Days {
		if day.Date.Format(domain.DateFormat) != dateStr {
			continue
		}
		for _, slot := range day.Slots {
			if slot.StartTime != q.StartTime || slot.IsFull() {
				continue
			}
			for _, opt := range slot.Options {
				if opt == want {
					return true, nil
				}
			}
		}
	}

	return false, nil
}

// accumulateProvider добавляет слоты одного провайдера в аккумуляторы дней
func (a *Aggregator) accumulateProvider(
	q *Query,
	schedule *domain.Schedule,
	providerID int64,
	step int,
	now time.Time,
	blockers map[blockerKey][]timeperiod.TimePeriod,
	days map[string]dayAccumulator,
) error {
	duration := q.Service.DurationFor(providerID)
	capacity := q.Service.MaxCapacityFor(providerID)
	if capacity < domain.MinSlotCapacity {
		capacity = domain.MinSlotCapacity
	}

	// Минимально допустимое начало слота при включенном фильтре lead time
	var minStart time.Time
	if q.SinceNow {
		minStart = now.Add(time.Duration(q.Service.TimeBeforeBookingMinutes) * time.Minute)
	}

	locations := q.LocationIDs
	if len(locations) == 0 {
		locations = schedule.LocationIDs()
	}
	if len(locations) == 0 {
		// Расписание целиком из переопределений без привязки к локациям
		locations = []int64{0}
	}

	for _, locationID := range locations {
		// Блокировки не передаются калькулятору: для подсчета мест нужны
		// исходные открытые интервалы, пересечения считаются по окнам слотов
		openDays, err := a.calc.WorkingHoursForRange(schedule, []int64{locationID}, q.FromDate, q.ToDate, nil, true)
		if err != nil {
			return fmt.Errorf("%w: working hours for provider=%d: %v", ErrInternal, providerID, err)
		}

		for _, openDay := range openDays {
			dateStr := openDay.Date.Format(domain.DateFormat)
			dayBlockers := blockers[blockerKey{providerID: providerID, date: dateStr}]

			for _, period := range openDay.Periods {
				for _, start := range generateStartTimes(period, step, duration) {
					if q.SinceNow && start.Before(minStart) {
						continue
					}

					window := timeperiod.TimePeriod{
						Start: start,
						End:   start.Add(time.Duration(duration) * time.Minute),
					}
					spots := capacity - countOverlapping(window, dayBlockers)
					if spots <= 0 {
						continue
					}

					day, ok := days[dateStr]
					if !ok {
						day = make(dayAccumulator)
						days[dateStr] = day
					}
					day.add(
						types.NewTimeString(start),
						duration,
						spots,
						capacity,
						domain.SlotOption{ProviderID: providerID, LocationID: locationID},
					)
				}
			}
		}
	}

	return nil
}

// buildResult собирает детерминированный результат: дни по возрастанию,
// внутри дня времена начала по возрастанию
func (a *Aggregator) buildResult(q *Query, days map[string]dayAccumulator) *Result {
	result := &Result{Days: make([]DaySlots, 0, len(days))}

	for date := q.FromDate; !date.After(q.ToDate); date = date.AddDate(0, 0, 1) {
		dateStr := date.Format(domain.DateFormat)
		day, ok := days[dateStr]
		if !ok || len(day) == 0 {
			if q.SkipEmptyDays {
				continue
			}
			result.Days = append(result.Days, DaySlots{Date: date, Slots: []domain.AvailableSlot{}})
			continue
		}
		result.Days = append(result.Days, DaySlots{Date: date, Slots: day.toSlots(q.Format)})
	}

	return result
}
