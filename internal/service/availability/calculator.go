package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/timeperiod"
)

// Calculator вычисляет итоговые рабочие интервалы провайдера на дату:
// недельный шаблон либо переопределение, минус выходные и занятые
// (с буферами) интервалы. Сервис не хранит состояния и безопасен
// для конкурентного использования.
type Calculator struct {
	logger Logger
}

// NewCalculator создает новый калькулятор доступности
func NewCalculator(logger Logger) *Calculator {
	return &Calculator{logger: logger}
}

// WorkingHoursForDate вычисляет открытые интервалы провайдера на дату.
//
// Алгоритм:
//  1. Дата в daysOff → пустой результат.
//  2. Дата в customWorkdays → базовая доступность равна интервалу
//     переопределения (шаблон и фильтр локаций игнорируются).
//  3. Иначе базовая доступность — объединение work-записей шаблона
//     на этот день недели, отфильтрованных по допустимым локациям.
//  4. Из базовой доступности вычитаются все blocked-интервалы
//     (буферные окна резерваций и позиций корзины).
//
// locationIDs: пустой список означает "все локации".
// blocked-интервалы должны быть привязаны к той же дате.
func (c *Calculator) WorkingHoursForDate(
	schedule *domain.Schedule,
	locationIDs []int64,
	date time.Time,
	blocked []timeperiod.TimePeriod,
) (timeperiod.TimePeriods, error) {
	if schedule == nil {
		return nil, ErrNilSchedule
	}

	// 1. Выходной день перекрывает всё
	if schedule.IsDayOff(date) {
		return timeperiod.TimePeriods{}, nil
	}

	base := timeperiod.TimePeriods{}

	// 2. Переопределение шаблона для конкретных дат
	if custom := schedule.CustomWorkdayFor(date); custom != nil {
		if custom.IsDayOff() {
			// Пустое переопределение эквивалентно выходному
			return timeperiod.TimePeriods{}, nil
		}
		period, err := custom.PeriodOn(date)
		if err != nil {
			return nil, fmt.Errorf("%w: custom workday for provider=%d: %v", ErrInternal, schedule.ProviderID, err)
		}
		base = base.Merge(period)
	} else {
		// 3. Недельный шаблон: только work-записи в допустимых локациях
		for _, entry := range schedule.EntriesFor(date.Weekday()) {
			if entry.Activity != domain.ActivityWork {
				continue
			}
			if !locationAllowed(entry.LocationID, locationIDs) {
				continue
			}
			period, err := entry.PeriodOn(date)
			if err != nil {
				return nil, fmt.Errorf("%w: timetable entry for provider=%d: %v", ErrInternal, schedule.ProviderID, err)
			}
			base = base.Merge(period)
		}
	}

	// 4. Вычитаем занятые интервалы
	for _, b := range blocked {
		base = base.Diff(b)
	}

	return base, nil
}

// DayHours рабочие интервалы одного дня
type DayHours struct {
	Date    time.Time
	Periods timeperiod.TimePeriods
}

// WorkingHoursForRange вычисляет открытые интервалы для каждой даты
// диапазона [from, to] включительно. blockedByDate ключуется датой
// в формате YYYY-MM-DD. При skipEmpty дни без доступности опускаются.
func (c *Calculator) WorkingHoursForRange(
	schedule *domain.Schedule,
	locationIDs []int64,
	from, to time.Time,
	blockedByDate map[string][]timeperiod.TimePeriod,
	skipEmpty bool,
) ([]DayHours, error) {
	if schedule == nil {
		return nil, ErrNilSchedule
	}
	if from.After(to) {
		return nil, ErrInvalidRange
	}

	result := make([]DayHours, 0)

	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		blocked := blockedByDate[date.Format(domain.DateFormat)]
		periods, err := c.WorkingHoursForDate(schedule, locationIDs, date, blocked)
		if err != nil {
			return nil, err
		}
		if skipEmpty && periods.IsEmpty() {
			continue
		}
		result = append(result, DayHours{Date: date, Periods: periods})
	}

	return result, nil
}

// locationAllowed проверяет, что локация входит в фильтр.
// Пустой фильтр разрешает все локации.
func locationAllowed(locationID int64, allowed []int64) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, id := range allowed {
		if id == locationID {
			return true
		}
	}
	return false
}
