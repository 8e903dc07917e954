package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/timeperiod"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Activity тип активности в расписании провайдера.
// Только ActivityWork учитывается при расчете доступности.
type Activity string

const (
	ActivityWork  Activity = "work"
	ActivityLunch Activity = "lunch"
	ActivityBreak Activity = "break"
)

// IsValid проверяет, что активность известна
func (a Activity) IsValid() bool {
	return a == ActivityWork || a == ActivityLunch || a == ActivityBreak
}

// TimetableEntry одна запись недельного расписания: активность
// с привязкой к локации и времени суток
type TimetableEntry struct {
	Activity   Activity         `json:"activity"`
	LocationID int64            `json:"locationId"`
	StartTime  types.TimeString `json:"startTime"`
	EndTime    types.TimeString `json:"endTime"`
}

// PeriodOn привязывает запись расписания к конкретной дате
func (e TimetableEntry) PeriodOn(date time.Time) (timeperiod.TimePeriod, error) {
	start, err := e.StartTime.OnDate(date)
	if err != nil {
		return timeperiod.TimePeriod{}, err
	}
	end, err := e.EndTime.OnDate(date)
	if err != nil {
		return timeperiod.TimePeriod{}, err
	}
	return timeperiod.New(start, end)
}

// DateRange диапазон дат [From, To] включительно (время игнорируется)
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// ContainsDate возвращает true, если date попадает в диапазон
func (r DateRange) ContainsDate(date time.Time) bool {
	d := truncateToDay(date)
	return !d.Before(truncateToDay(r.From)) && !d.After(truncateToDay(r.To))
}

// CustomWorkday переопределение недельного расписания для диапазона дат:
// на эти даты недельный шаблон полностью заменяется указанным интервалом.
// Пустой интервал (StartTime == EndTime) эквивалентен выходному дню.
type CustomWorkday struct {
	Range     DateRange        `json:"range"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
}

// IsDayOff возвращает true, если переопределение не оставляет рабочего времени
func (c CustomWorkday) IsDayOff() bool {
	return c.StartTime.IsZero() || c.EndTime.IsZero() || c.StartTime == c.EndTime
}

// PeriodOn привязывает переопределение к конкретной дате
func (c CustomWorkday) PeriodOn(date time.Time) (timeperiod.TimePeriod, error) {
	start, err := c.StartTime.OnDate(date)
	if err != nil {
		return timeperiod.TimePeriod{}, err
	}
	end, err := c.EndTime.OnDate(date)
	if err != nil {
		return timeperiod.TimePeriod{}, err
	}
	return timeperiod.New(start, end)
}

// Schedule рабочее расписание одного провайдера.
// Редактируется администратором; движок доступности читает его без изменений.
type Schedule struct {
	ID         int64
	ProviderID int64

	// Недельный шаблон: записи активностей по дням недели
	Timetable map[time.Weekday][]TimetableEntry

	// Выходные диапазоны дат (полностью перекрывают шаблон)
	DaysOff []DateRange

	// Переопределения шаблона для конкретных диапазонов дат
	CustomWorkdays []CustomWorkday

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDayOff возвращает true, если дата попадает в один из выходных диапазонов
func (s *Schedule) IsDayOff(date time.Time) bool {
	for _, r := range s.DaysOff {
		if r.ContainsDate(date) {
			return true
		}
	}
	return false
}

// CustomWorkdayFor возвращает переопределение расписания для даты, если оно есть
func (s *Schedule) CustomWorkdayFor(date time.Time) *CustomWorkday {
	for i := range s.CustomWorkdays {
		if s.CustomWorkdays[i].Range.ContainsDate(date) {
			return &s.CustomWorkdays[i]
		}
	}
	return nil
}

// EntriesFor возвращает записи недельного шаблона для дня недели
func (s *Schedule) EntriesFor(weekday time.Weekday) []TimetableEntry {
	if s.Timetable == nil {
		return nil
	}
	return s.Timetable[weekday]
}

// LocationIDs возвращает список всех локаций, встречающихся в расписании
func (s *Schedule) LocationIDs() []int64 {
	seen := make(map[int64]struct{})
	result := make([]int64, 0)
	for _, entries := range s.Timetable {
		for _, e := range entries {
			if _, ok := seen[e.LocationID]; !ok {
				seen[e.LocationID] = struct{}{}
				result = append(result, e.LocationID)
			}
		}
	}
	return result
}

// truncateToDay обнуляет время, оставляя только дату
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
