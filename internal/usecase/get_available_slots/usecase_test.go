package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slots"
)

var testDate = time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type fakeServiceRepo struct {
	service *domain.Service
}

func (f *fakeServiceRepo) FindByID(_ context.Context, id int64) (*domain.Service, error) {
	if f.service == nil || f.service.ID != id {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return f.service, nil
}

type fakeAggregator struct {
	result    *slots.Result
	lastQuery *slots.Query
}

func (f *fakeAggregator) AvailableSlots(_ context.Context, q *slots.Query) (*slots.Result, error) {
	f.lastQuery = q
	if f.result == nil {
		return &slots.Result{Days: []slots.DaySlots{}}, nil
	}
	return f.result, nil
}

func testService() *domain.Service {
	return &domain.Service{
		ID:                  1,
		Name:                "Маникюр",
		DurationMinutes:     30,
		BufferBeforeMinutes: 15,
		BufferAfterMinutes:  15,
		MinCapacity:         1,
		MaxCapacity:         1,
		ProviderIDs:         []int64{10},
	}
}

func newFixture(service *domain.Service) (*UseCase, *fakeAggregator) {
	agg := &fakeAggregator{}
	uc := NewUseCase(&fakeServiceRepo{service: service}, agg, 14, 30, time.UTC, nopLogger{})
	uc.timeProvider = &fixedTime{now: testDate}
	return uc, agg
}

func TestExecute_QueryAssembly(t *testing.T) {
	uc, agg := newFixture(testService())

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID:   1,
		ProviderIDs: []int64{10},
		LocationIDs: []int64{1},
		FromDate:    testDate,
		ToDate:      testDate.AddDate(0, 0, 2),
		Detailed:    true,
		SinceNow:    true,
	})
	require.NoError(t, err)

	require.NotNil(t, agg.lastQuery)
	assert.Equal(t, []int64{10}, agg.lastQuery.ProviderIDs)
	assert.Equal(t, []int64{1}, agg.lastQuery.LocationIDs)
	assert.True(t, agg.lastQuery.SinceNow)
	assert.Equal(t, slots.FormatDetailed, agg.lastQuery.Format)
	assert.Equal(t, 30, agg.lastQuery.StepMinutes, "configured default step")
}

func TestExecute_SinceNowPassThrough(t *testing.T) {
	uc, agg := newFixture(testService())

	// Фильтр lead time — опция вызывающей стороны, а не константа
	_, err := uc.Execute(context.Background(), &Request{
		ServiceID: 1,
		FromDate:  testDate,
		SinceNow:  false,
	})
	require.NoError(t, err)
	assert.False(t, agg.lastQuery.SinceNow)

	_, err = uc.Execute(context.Background(), &Request{
		ServiceID: 1,
		FromDate:  testDate,
		SinceNow:  true,
	})
	require.NoError(t, err)
	assert.True(t, agg.lastQuery.SinceNow)
}

func TestExecute_ResponseConversion(t *testing.T) {
	uc, agg := newFixture(testService())
	agg.result = &slots.Result{Days: []slots.DaySlots{{
		Date: testDate,
		Slots: []domain.AvailableSlot{{
			StartTime:       "10:00",
			DurationMinutes: 30,
			AvailableSpots:  1,
			TotalSpots:      1,
			Options:         []domain.SlotOption{{ProviderID: 10, LocationID: 1}},
		}},
	}}}

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: 1,
		FromDate:  testDate,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ServiceID)
	assert.Equal(t, testDate, resp.FromDate)
	assert.Equal(t, testDate, resp.ToDate, "zero toDate means a single day")
	require.Len(t, resp.Days, 1)
	require.Len(t, resp.Days[0].Slots, 1)
	assert.Equal(t, Option{ProviderID: 10, LocationID: 1}, resp.Days[0].Slots[0].Options[0])
}

func TestExecute_RangeClampedToMax(t *testing.T) {
	uc, agg := newFixture(testService())

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: 1,
		FromDate:  testDate,
		ToDate:    testDate.AddDate(0, 0, 100),
	})
	require.NoError(t, err)

	wantTo := testDate.AddDate(0, 0, 13) // maxRangeDays=14, включая fromDate
	assert.Equal(t, wantTo, resp.ToDate)
	assert.Equal(t, wantTo, agg.lastQuery.ToDate)
}

func TestExecute_PastFromDate(t *testing.T) {
	uc, _ := newFixture(testService())

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID: 1,
		FromDate:  testDate.AddDate(0, 0, -1),
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc, _ := newFixture(testService())

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 999, FromDate: testDate})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ForeignProviderRejected(t *testing.T) {
	uc, _ := newFixture(testService())

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID:   1,
		FromDate:    testDate,
		ProviderIDs: []int64{99},
	})
	assert.ErrorIs(t, err, ErrProviderNotEligible)
}

func TestExecute_InvalidDateRange(t *testing.T) {
	uc, _ := newFixture(testService())

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID: 1,
		FromDate:  testDate,
		ToDate:    testDate.AddDate(0, 0, -1),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestExecute_CartItemsExpandedWithBuffers(t *testing.T) {
	uc, agg := newFixture(testService())

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID: 1,
		FromDate:  testDate,
		CartItems: []CartItemInput{{
			ProviderID: 10,
			Date:       testDate,
			StartTime:  "12:00",
		}},
	})
	require.NoError(t, err)

	require.Len(t, agg.lastQuery.CartItems, 1)
	item := agg.lastQuery.CartItems[0]
	assert.Equal(t, "11:45", item.StartTime.String())
	assert.Equal(t, "12:45", item.EndTime.String())
}

func TestIsDateInPast_ZoneIndependent(t *testing.T) {
	local := time.FixedZone("UTC-5", -5*60*60)

	// Поздний вечер по местному времени: календарная дата та же,
	// хотя как мгновение это уже следующие сутки UTC
	now := time.Date(2025, 11, 3, 23, 0, 0, 0, local)
	assert.False(t, isDateInPast(testDate, now))

	assert.True(t, isDateInPast(testDate.AddDate(0, 0, -1), now))
	assert.False(t, isDateInPast(testDate.AddDate(0, 0, 1), now))
}

func TestRealTimeProviderAnchorsToConfiguredZone(t *testing.T) {
	local := time.FixedZone("UTC-5", -5*60*60)
	provider := NewRealTimeProvider(local)

	got := provider.Now()
	wall := time.Now().In(local)
	want := time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), 0, time.UTC)

	assert.Equal(t, time.UTC, got.Location())
	assert.WithinDuration(t, want, got, time.Minute)
}

func TestClampDateRange(t *testing.T) {
	from := testDate

	// Нулевой конец — один день
	gotFrom, gotTo := clampDateRange(from, time.Time{}, 14)
	assert.Equal(t, from, gotFrom)
	assert.Equal(t, from, gotTo)

	// Диапазон в пределах лимита не меняется
	_, gotTo = clampDateRange(from, from.AddDate(0, 0, 5), 14)
	assert.Equal(t, from.AddDate(0, 0, 5), gotTo)

	// Длинный диапазон обрезается справа
	_, gotTo = clampDateRange(from, from.AddDate(0, 0, 50), 14)
	assert.Equal(t, from.AddDate(0, 0, 13), gotTo)
}
