package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// monday тестовая дата, понедельник
var monday = time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type fakeScheduleRepo struct {
	schedules map[int64]*domain.Schedule
}

func (f *fakeScheduleRepo) FindByProvider(_ context.Context, providerID int64) (*domain.Schedule, error) {
	s, ok := f.schedules[providerID]
	if !ok {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	return s, nil
}

type fakeReservationRepo struct {
	reservations []*domain.Reservation
	lastFilter   domain.ReservationFilter
}

func (f *fakeReservationRepo) FindAll(_ context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	f.lastFilter = filter

	result := make([]*domain.Reservation, 0)
	for _, r := range f.reservations {
		if !filter.IncludeInactive && !r.IsActive() {
			continue
		}
		if excluded(filter.ExcludeBookingIDs, r.BookingID) {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func excluded(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// mondaySchedule расписание: понедельник 09:00-12:00 в локации 1
func mondaySchedule(providerID int64) *domain.Schedule {
	return &domain.Schedule{
		ID:         providerID,
		ProviderID: providerID,
		Timetable: map[time.Weekday][]domain.TimetableEntry{
			time.Monday: {{
				Activity:   domain.ActivityWork,
				LocationID: 1,
				StartTime:  "09:00",
				EndTime:    "12:00",
			}},
		},
	}
}

func testService() *domain.Service {
	return &domain.Service{
		ID:              1,
		Name:            "Маникюр",
		DurationMinutes: 30,
		MinCapacity:     1,
		MaxCapacity:     1,
		ProviderIDs:     []int64{10},
	}
}

func reservation(bookingID, providerID int64, start, end, bufStart, bufEnd types.TimeString) *domain.Reservation {
	return &domain.Reservation{
		ID:           bookingID,
		BookingID:    bookingID,
		CustomerID:   100,
		ProviderID:   providerID,
		LocationID:   1,
		ServiceID:    1,
		Date:         monday,
		ServiceStart: start,
		ServiceEnd:   end,
		BufferStart:  bufStart,
		BufferEnd:    bufEnd,
		Capacity:     1,
		Status:       domain.StatusConfirmed,
	}
}

func newTestAggregator(schedules map[int64]*domain.Schedule, reservations []*domain.Reservation) (*Aggregator, *fakeReservationRepo) {
	resRepo := &fakeReservationRepo{reservations: reservations}
	agg := NewAggregator(
		&fakeScheduleRepo{schedules: schedules},
		resRepo,
		availability.NewCalculator(nopLogger{}),
		time.UTC,
		nopLogger{},
	)
	agg.timeProvider = &fixedTime{now: monday}
	return agg, resRepo
}

func TestRealTimeProviderAnchorsToConfiguredZone(t *testing.T) {
	local := time.FixedZone("UTC-5", -5*60*60)
	provider := NewRealTimeProvider(local)

	// Слоты привязаны к UTC без зоны, поэтому "сейчас" для фильтра
	// lead time — это время стены в настроенном поясе на той же оси
	got := provider.Now()
	wall := time.Now().In(local)
	want := time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), 0, time.UTC)

	assert.Equal(t, time.UTC, got.Location())
	assert.WithinDuration(t, want, got, time.Minute)
}

func startTimes(day DaySlots) []string {
	out := make([]string, 0, len(day.Slots))
	for _, s := range day.Slots {
		out = append(out, s.StartTime.String())
	}
	return out
}

func singleDayQuery(service *domain.Service) *Query {
	return &Query{
		Service:  service,
		FromDate: monday,
		ToDate:   monday,
	}
}

func TestAvailableSlots_BaseGrid(t *testing.T) {
	agg, _ := newTestAggregator(map[int64]*domain.Schedule{10: mondaySchedule(10)}, nil)

	result, err := agg.AvailableSlots(context.Background(), singleDayQuery(testService()))
	require.NoError(t, err)
	require.Len(t, result.Days, 1)

	// Последний кандидат 11:30: окно 11:30-12:00 ещё помещается в открытый интервал
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, startTimes(result.Days[0]))
}

func TestAvailableSlots_ReservationBlocks(t *testing.T) {
	agg, _ := newTestAggregator(
		map[int64]*domain.Schedule{10: mondaySchedule(10)},
		[]*domain.Reservation{reservation(1, 10, "10:00", "10:30", "10:00", "10:30")},
	)

	result, err := agg.AvailableSlots(context.Background(), singleDayQuery(testService()))
	require.NoError(t, err)
	require.Len(t, result.Days, 1)

	assert.Equal(t, []string{"09:00", "09:30", "10:30", "11:00", "11:30"}, startTimes(result.Days[0]))
}

func TestAvailableSlots_BufferWindowBlocks(t *testing.T) {
	// Буфер после услуги 10:30-10:45 выбивает и слот 10:30-11:00
	agg, _ := newTestAggregator(
		map[int64]*domain.Schedule{10: mondaySchedule(10)},
		[]*domain.Reservation{reservation(1, 10, "10:00", "10:30", "10:00", "10:45")},
	)

	result, err := agg.AvailableSlots(context.Background(), singleDayQuery(testService()))
	require.NoError(t, err)
	require.Len(t, result.Days, 1)

	assert.Equal(t, []string{"09:00", "09:30", "11:00", "11:30"}, startTimes(result.Days[0]))
}

func TestAvailableSlots_CancelledDoesNotBlock(t *testing.T) {
	cancelled := reservation(1, 10, "10:00", "10:30", "10:00", "10:30")
	cancelled.Status = domain.StatusCancelledByCustomer

	agg, resRepo := newTestAggregator(
		map[int64]*domain.Schedule{10: mondaySchedule(10)},
		[]*domain.Reservation{cancelled},
	)

	result, err := agg.AvailableSlots(context.Background(), singleDayQuery(testService()))
	require.NoError(t, err)
	require.Len(t, result.Days, 1)

	assert.Len(t, result.Days[0].Slots, 6)
	assert.False(t, resRepo.lastFilter.IncludeInactive)
}

func TestAvailableSlots_ExcludeBookingIDs(t *testing.T) {
	agg, _ := newTestAggregator(
		map[int64]*domain.Schedule{10: mondaySchedule(10)},
		[]*domain.Reservation{reservation(42, 10, "10:00", "10:30", "10:00", "10:30")},
	)

	q := singleDayQuery(testService())
	q.ExcludeBookingIDs = []int64{42}

	result, err := agg.AvailableSlots(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, result.Days, 1)

	assert.Len(t, result.Days[0].Slots, 6, "own cart reservation must not block")
}

func TestAvailableSlots_CartItemBlocks(t *testing.T) {
	agg, _ := newTestAggregator(map[int64]*domain.Schedule{10: mondaySchedule(10)}, nil)

	q := singleDayQuery(testService())
	q.CartItems = []CartItem{{
		ProviderID: 10,
		Date:       monday,
		StartTime:  "10:00",
		EndTime:    "10:45",
	}}

	result, err := agg.AvailableSlots(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, result.Days, 1)

	assert.Equal(t, []string{"09:00", "09:30", "11:00", "11:30"}, startTimes(result.Days[0]))
}

func TestAvailableSlots_CustomWorkdayOverride(t *testing.T) {
	schedule := mondaySchedule(10)
	schedule.CustomWorkdays = []domain.CustomWorkday{{
		Range:     domain.DateRange{From: monday, To: monday},
		StartTime: "13:00",
		EndTime:   "14:00",
	}}

	agg, _ := newTestAggregator(map[int64]*domain.Schedule{10: schedule}, nil)

	result, err := agg.AvailableSlots(context.Background(), singleDayQuery(testService()))
	require.NoError(t, err)
	require.Len(t, result.Days, 1)

	assert.Equal(t, []string{"13:00", "13:30"}, startTimes(result.Days[0]))
}

func TestAvailableSlots_LeadTimeFilter(t *testing.T) {
	agg, _ := newTestAggregator(map[int64]*domain.Schedule{10: mondaySchedule(10)}, nil)
	agg.timeProvider = &fixedTime{now: time.Date(2025, 11, 3, 9, 15, 0, 0, time.UTC)}

	service := testService()
	service.TimeBeforeBookingMinutes = 60

	q := singleDayQuery(service)
	q.SinceNow = true

	result, err := agg.AvailableSlots(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, result.Days, 1)

	// now=09:15 + 60 минут → первый допустимый старт 10:30
	assert.Equal(t, []string{"10:30", "11:00", "11:30"}, startTimes(result.Days[0]))
}

func TestAvailableSlots_CapacityCounting(t *testing.T) {
	service := testService()
	service.MaxCapacity = 2

	agg, _ := newTestAggregator(
		map[int64]*domain.Schedule{10: mondaySchedule(10)},
		[]*domain.Reservation{reservation(1, 10, "10:00", "10:30", "10:00", "10:30")},
	)

	result, err := agg.AvailableSlots(context.Background(), singleDayQuery(service))
	require.NoError(t, err)
	require.Len(t, result.Days, 1)
	require.Len(t, result.Days[0].Slots, 6, "slot stays available while capacity remains")

	for _, slot := range result.Days[0].Slots {
		switch slot.StartTime {
		case "10:00":
			assert.Equal(t, 1, slot.AvailableSpots)
		default:
			assert.Equal(t, 2, slot.AvailableSpots)
		}
		assert.Equal(t, 2, slot.TotalSpots)
	}
}

func TestAvailableSlots_VariationOverridesDuration(t *testing.T) {
	service := testService()
	service.Variations = []domain.ProviderVariation{{ProviderID: 10, DurationMinutes: ptr.Ptr(60)}}

	agg, _ := newTestAggregator(map[int64]*domain.Schedule{10: mondaySchedule(10)}, nil)

	result, err := agg.AvailableSlots(context.Background(), singleDayQuery(service))
	require.NoError(t, err)
	require.Len(t, result.Days, 1)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, startTimes(result.Days[0]))
	for _, slot := range result.Days[0].Slots {
		assert.Equal(t, 60, slot.DurationMinutes)
	}
}

func TestAvailableSlots_DetailedOptions(t *testing.T) {
	service := testService()
	service.ProviderIDs = []int64{10, 11}

	agg, _ := newTestAggregator(map[int64]*domain.Schedule{
		10: mondaySchedule(10),
		11: mondaySchedule(11),
	}, nil)

	q := singleDayQuery(service)
	q.Format = FormatDetailed

	result, err := agg.AvailableSlots(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, result.Days, 1)
	require.NotEmpty(t, result.Days[0].Slots)

	first := result.Days[0].Slots[0]
	require.Len(t, first.Options, 2)
	assert.Equal(t, domain.SlotOption{ProviderID: 10, LocationID: 1}, first.Options[0])
	assert.Equal(t, domain.SlotOption{ProviderID: 11, LocationID: 1}, first.Options[1])
}

func TestAvailableSlots_CompactOmitsOptions(t *testing.T) {
	agg, _ := newTestAggregator(map[int64]*domain.Schedule{10: mondaySchedule(10)}, nil)

	q := singleDayQuery(testService())
	q.Format = FormatCompact

	result, err := agg.AvailableSlots(context.Background(), q)
	require.NoError(t, err)
	for _, slot := range result.Days[0].Slots {
		assert.Nil(t, slot.Options)
	}
}

func TestAvailableSlots_SkipEmptyDays(t *testing.T) {
	agg, _ := newTestAggregator(map[int64]*domain.Schedule{10: mondaySchedule(10)}, nil)

	q := singleDayQuery(testService())
	q.ToDate = monday.AddDate(0, 0, 2) // вторник и среда отсутствуют в шаблоне

	result, err := agg.AvailableSlots(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, result.Days, 3, "empty days present by default")
	assert.Empty(t, result.Days[1].Slots)

	q.SkipEmptyDays = true
	result, err = agg.AvailableSlots(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, result.Days, 1)
	assert.Equal(t, monday, result.Days[0].Date)
}

func TestAvailableSlots_ProviderScopeCannotExpand(t *testing.T) {
	agg, _ := newTestAggregator(map[int64]*domain.Schedule{10: mondaySchedule(10)}, nil)

	q := singleDayQuery(testService())
	q.ProviderIDs = []int64{99} // не оказывает услугу

	result, err := agg.AvailableSlots(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
}

func TestAvailableSlots_ProviderWithoutScheduleSkipped(t *testing.T) {
	service := testService()
	service.ProviderIDs = []int64{10, 11} // у 11 нет расписания

	agg, _ := newTestAggregator(map[int64]*domain.Schedule{10: mondaySchedule(10)}, nil)

	result, err := agg.AvailableSlots(context.Background(), singleDayQuery(service))
	require.NoError(t, err)
	assert.Len(t, result.Days[0].Slots, 6)
}

func TestAvailableSlots_Validation(t *testing.T) {
	agg, _ := newTestAggregator(map[int64]*domain.Schedule{10: mondaySchedule(10)}, nil)

	_, err := agg.AvailableSlots(context.Background(), &Query{FromDate: monday, ToDate: monday})
	assert.ErrorIs(t, err, ErrNilService)

	q := singleDayQuery(testService())
	q.FromDate = monday.AddDate(0, 0, 1)
	_, err = agg.AvailableSlots(context.Background(), q)
	assert.ErrorIs(t, err, ErrInvalidRange)

	q = singleDayQuery(testService())
	q.StepMinutes = -15
	_, err = agg.AvailableSlots(context.Background(), q)
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestIsSlotStillAvailable(t *testing.T) {
	agg, _ := newTestAggregator(
		map[int64]*domain.Schedule{10: mondaySchedule(10)},
		[]*domain.Reservation{reservation(1, 10, "10:00", "10:30", "10:00", "10:30")},
	)

	base := SingleSlotQuery{
		Service:    testService(),
		ProviderID: 10,
		LocationID: 1,
		Date:       monday,
	}

	free := base
	free.StartTime = "09:00"
	ok, err := agg.IsSlotStillAvailable(context.Background(), &free)
	require.NoError(t, err)
	assert.True(t, ok)

	taken := base
	taken.StartTime = "10:00"
	ok, err = agg.IsSlotStillAvailable(context.Background(), &taken)
	require.NoError(t, err)
	assert.False(t, ok)

	wrongLocation := base
	wrongLocation.StartTime = "09:00"
	wrongLocation.LocationID = 2
	ok, err = agg.IsSlotStillAvailable(context.Background(), &wrongLocation)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsSlotStillAvailable_CartBlocks(t *testing.T) {
	agg, _ := newTestAggregator(map[int64]*domain.Schedule{10: mondaySchedule(10)}, nil)

	q := SingleSlotQuery{
		Service:    testService(),
		ProviderID: 10,
		LocationID: 1,
		Date:       monday,
		StartTime:  "10:00",
		CartItems: []CartItem{{
			ProviderID: 10,
			Date:       monday,
			StartTime:  "10:00",
			EndTime:    "10:30",
		}},
	}

	ok, err := agg.IsSlotStillAvailable(context.Background(), &q)
	require.NoError(t, err)
	assert.False(t, ok)
}
