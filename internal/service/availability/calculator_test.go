package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/timeperiod"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// monday тестовая дата, понедельник
var monday = time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func entry(activity domain.Activity, locationID int64, start, end string) domain.TimetableEntry {
	return domain.TimetableEntry{
		Activity:   activity,
		LocationID: locationID,
		StartTime:  types.TimeString(start),
		EndTime:    types.TimeString(end),
	}
}

// workSchedule расписание: понедельник 09:00-12:00 и 13:00-17:00 в локации 1
func workSchedule() *domain.Schedule {
	return &domain.Schedule{
		ID:         1,
		ProviderID: 10,
		Timetable: map[time.Weekday][]domain.TimetableEntry{
			time.Monday: {
				entry(domain.ActivityWork, 1, "09:00", "12:00"),
				entry(domain.ActivityLunch, 1, "12:00", "13:00"),
				entry(domain.ActivityWork, 1, "13:00", "17:00"),
			},
		},
	}
}

func blockedPeriod(t *testing.T, date time.Time, start, end string) timeperiod.TimePeriod {
	t.Helper()
	p, err := timeperiod.Parse(start+"-"+end, date)
	require.NoError(t, err)
	return p
}

func TestWorkingHoursForDate_WeeklyTemplate(t *testing.T) {
	calc := NewCalculator(nopLogger{})

	got, err := calc.WorkingHoursForDate(workSchedule(), nil, monday, nil)
	require.NoError(t, err)
	assert.Equal(t, "09:00-12:00, 13:00-17:00", got.String(), "only work entries count")

	// Вторник в шаблоне отсутствует
	tuesday := monday.AddDate(0, 0, 1)
	got, err = calc.WorkingHoursForDate(workSchedule(), nil, tuesday, nil)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestWorkingHoursForDate_DayOffDominates(t *testing.T) {
	calc := NewCalculator(nopLogger{})

	schedule := workSchedule()
	schedule.DaysOff = []domain.DateRange{{From: monday, To: monday}}
	// Переопределение на ту же дату не должно оживить выходной
	schedule.CustomWorkdays = []domain.CustomWorkday{{
		Range:     domain.DateRange{From: monday, To: monday},
		StartTime: "10:00",
		EndTime:   "15:00",
	}}

	got, err := calc.WorkingHoursForDate(schedule, nil, monday, nil)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestWorkingHoursForDate_CustomWorkdayReplacesTemplate(t *testing.T) {
	calc := NewCalculator(nopLogger{})

	schedule := workSchedule()
	schedule.CustomWorkdays = []domain.CustomWorkday{{
		Range:     domain.DateRange{From: monday, To: monday},
		StartTime: "13:00",
		EndTime:   "14:00",
	}}

	got, err := calc.WorkingHoursForDate(schedule, nil, monday, nil)
	require.NoError(t, err)
	assert.Equal(t, "13:00-14:00", got.String(), "template is fully replaced")

	// Фильтр локаций не применяется к переопределению
	got, err = calc.WorkingHoursForDate(schedule, []int64{99}, monday, nil)
	require.NoError(t, err)
	assert.Equal(t, "13:00-14:00", got.String())
}

func TestWorkingHoursForDate_EmptyCustomWorkdayIsDayOff(t *testing.T) {
	calc := NewCalculator(nopLogger{})

	schedule := workSchedule()
	schedule.CustomWorkdays = []domain.CustomWorkday{{
		Range: domain.DateRange{From: monday, To: monday},
	}}

	got, err := calc.WorkingHoursForDate(schedule, nil, monday, nil)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestWorkingHoursForDate_LocationFilter(t *testing.T) {
	calc := NewCalculator(nopLogger{})

	schedule := workSchedule()
	schedule.Timetable[time.Monday] = append(schedule.Timetable[time.Monday],
		entry(domain.ActivityWork, 2, "18:00", "20:00"))

	got, err := calc.WorkingHoursForDate(schedule, []int64{2}, monday, nil)
	require.NoError(t, err)
	assert.Equal(t, "18:00-20:00", got.String())

	got, err = calc.WorkingHoursForDate(schedule, []int64{1}, monday, nil)
	require.NoError(t, err)
	assert.Equal(t, "09:00-12:00, 13:00-17:00", got.String())

	// Пустой фильтр — все локации
	got, err = calc.WorkingHoursForDate(schedule, nil, monday, nil)
	require.NoError(t, err)
	assert.Equal(t, "09:00-12:00, 13:00-17:00, 18:00-20:00", got.String())
}

func TestWorkingHoursForDate_BlockedSubtraction(t *testing.T) {
	calc := NewCalculator(nopLogger{})

	blocked := []timeperiod.TimePeriod{
		blockedPeriod(t, monday, "10:00", "10:30"),
		blockedPeriod(t, monday, "13:00", "17:00"),
	}

	got, err := calc.WorkingHoursForDate(workSchedule(), nil, monday, blocked)
	require.NoError(t, err)
	assert.Equal(t, "09:00-10:00, 10:30-12:00", got.String())
}

func TestWorkingHoursForDate_NilSchedule(t *testing.T) {
	calc := NewCalculator(nopLogger{})

	_, err := calc.WorkingHoursForDate(nil, nil, monday, nil)
	assert.ErrorIs(t, err, ErrNilSchedule)
}

func TestWorkingHoursForRange(t *testing.T) {
	calc := NewCalculator(nopLogger{})

	schedule := workSchedule()
	to := monday.AddDate(0, 0, 2) // пн-ср, шаблон заполнен только на понедельник

	days, err := calc.WorkingHoursForRange(schedule, nil, monday, to, nil, false)
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, "09:00-12:00, 13:00-17:00", days[0].Periods.String())
	assert.True(t, days[1].Periods.IsEmpty())
	assert.True(t, days[2].Periods.IsEmpty())

	// skipEmpty опускает пустые дни
	days, err = calc.WorkingHoursForRange(schedule, nil, monday, to, nil, true)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, monday, days[0].Date)
}

func TestWorkingHoursForRange_InvalidRange(t *testing.T) {
	calc := NewCalculator(nopLogger{})

	_, err := calc.WorkingHoursForRange(workSchedule(), nil, monday, monday.AddDate(0, 0, -1), nil, false)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestWorkingHoursForRange_BlockedByDate(t *testing.T) {
	calc := NewCalculator(nopLogger{})

	nextMonday := monday.AddDate(0, 0, 7)
	blockedByDate := map[string][]timeperiod.TimePeriod{
		monday.Format(domain.DateFormat): {blockedPeriod(t, monday, "09:00", "12:00")},
	}

	days, err := calc.WorkingHoursForRange(workSchedule(), nil, monday, nextMonday, blockedByDate, true)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "13:00-17:00", days[0].Periods.String(), "blocked morning removed")
	assert.Equal(t, "09:00-12:00, 13:00-17:00", days[1].Periods.String(), "next week untouched")
}
