package create_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/providerdirectory"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

var testDate = time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type fakeReservationRepo struct {
	created *domain.Reservation
	err     error
}

func (f *fakeReservationRepo) Create(_ context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	created := *r
	created.ID = 1
	f.created = &created
	return &created, nil
}

type fakeServiceRepo struct {
	service *domain.Service
}

func (f *fakeServiceRepo) FindByID(_ context.Context, id int64) (*domain.Service, error) {
	if f.service == nil || f.service.ID != id {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return f.service, nil
}

type fakeSlotChecker struct {
	available bool
	lastQuery *slots.SingleSlotQuery
}

func (f *fakeSlotChecker) IsSlotStillAvailable(_ context.Context, q *slots.SingleSlotQuery) (bool, error) {
	f.lastQuery = q
	return f.available, nil
}

type fakeDirectory struct {
	provider *providerdirectory.Provider
	err      error
}

func (f *fakeDirectory) GetProviderWithGracefulDegradation(_ context.Context, _ int64) (*providerdirectory.Provider, error) {
	return f.provider, f.err
}

// fakeTxManager выполняет функцию без настоящей транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	uc          *UseCase
	reservation *fakeReservationRepo
	checker     *fakeSlotChecker
	directory   *fakeDirectory
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
		Price:               ptr.Ptr(1500.0),
		ProviderIDs:         []int64{10},
	}
}

func activeProvider() *providerdirectory.Provider {
	return &providerdirectory.Provider{
		ID:          10,
		Name:        "Салон на Тверской",
		IsActive:    true,
		LocationIDs: []int64{1, 2},
	}
}

func newFixture(service *domain.Service, directory *fakeDirectory) *fixture {
	resRepo := &fakeReservationRepo{}
	checker := &fakeSlotChecker{available: true}

	uc := NewUseCase(resRepo, &fakeServiceRepo{service: service}, checker, directory, fakeTxManager{}, time.UTC, nopLogger{})
	uc.timeProvider = &fixedTime{now: testDate}

	return &fixture{uc: uc, reservation: resRepo, checker: checker, directory: directory}
}

func validRequest() *Request {
	return &Request{
		CustomerID: 100,
		BookingID:  7,
		ProviderID: 10,
		LocationID: 1,
		ServiceID:  1,
		Date:       testDate,
		StartTime:  "10:00",
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(testService(), &fakeDirectory{provider: activeProvider()})

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Окно услуги и буферное окно
	assert.Equal(t, "10:00", resp.StartTime.String())
	assert.Equal(t, "10:30", resp.EndTime.String())
	assert.Equal(t, "09:45", resp.BufferStart.String())
	assert.Equal(t, "10:45", resp.BufferEnd.String())

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, "Маникюр", resp.ServiceName)
	assert.Equal(t, 1500.0, resp.ServicePrice)

	require.Len(t, resp.Events, 1)
	assert.Equal(t, domain.EventReservationCreated, resp.Events[0].Type)
	assert.Equal(t, resp.ID, resp.Events[0].ReservationID)
	assert.Equal(t, testDate, resp.Events[0].OccurredAt)

	require.NotNil(t, f.reservation.created)
	assert.Equal(t, domain.MinSlotCapacity, f.reservation.created.Capacity)
}

func TestExecute_VariationOverridesPriceAndDuration(t *testing.T) {
	service := testService()
	service.Variations = []domain.ProviderVariation{{
		ProviderID:      10,
		DurationMinutes: ptr.Ptr(60),
		Price:           ptr.Ptr(2000.0),
	}}

	f := newFixture(service, &fakeDirectory{provider: activeProvider()})

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "11:00", resp.EndTime.String())
	assert.Equal(t, 2000.0, resp.ServicePrice)
}

func TestExecute_SlotNotAvailable(t *testing.T) {
	f := newFixture(testService(), &fakeDirectory{provider: activeProvider()})
	f.checker.available = false

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, f.reservation.created, "reservation must not be persisted")
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newFixture(testService(), &fakeDirectory{provider: activeProvider()})

	req := validRequest()
	req.ServiceID = 999

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ProviderNotEligible(t *testing.T) {
	f := newFixture(testService(), &fakeDirectory{provider: activeProvider()})

	req := validRequest()
	req.ProviderID = 99

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrProviderNotEligible)
}

func TestExecute_ProviderInactive(t *testing.T) {
	provider := activeProvider()
	provider.IsActive = false
	f := newFixture(testService(), &fakeDirectory{provider: provider})

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrProviderInactive)
}

func TestExecute_UnknownLocation(t *testing.T) {
	f := newFixture(testService(), &fakeDirectory{provider: activeProvider()})

	req := validRequest()
	req.LocationID = 77

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestExecute_ProviderMissingInDirectory(t *testing.T) {
	f := newFixture(testService(), &fakeDirectory{err: providerdirectory.ErrProviderNotFound})

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestExecute_DegradedDirectorySkipsCheck(t *testing.T) {
	f := newFixture(testService(), &fakeDirectory{err: providerdirectory.ErrServiceDegraded})

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err, "booking must survive a degraded directory")
	assert.NotZero(t, resp.ID)
}

func TestExecute_SameDayLateEveningAccepted(t *testing.T) {
	f := newFixture(testService(), &fakeDirectory{provider: activeProvider()})

	// Поздний вечер дня резервации в западном поясе: как мгновение это уже
	// следующие сутки UTC, но календарная дата ещё не прошла
	local := time.FixedZone("UTC-5", -5*60*60)
	f.uc.timeProvider = &fixedTime{now: time.Date(2025, 11, 3, 23, 0, 0, 0, local)}

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture(testService(), &fakeDirectory{provider: activeProvider()})

	req := validRequest()
	req.Date = testDate.AddDate(0, 0, -1)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_CartItemsExpandedWithBuffers(t *testing.T) {
	f := newFixture(testService(), &fakeDirectory{provider: activeProvider()})

	req := validRequest()
	req.CartItems = []CartItemInput{{
		ProviderID: 10,
		Date:       testDate,
		StartTime:  "12:00",
	}}

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, f.checker.lastQuery)
	require.Len(t, f.checker.lastQuery.CartItems, 1)

	item := f.checker.lastQuery.CartItems[0]
	assert.Equal(t, "11:45", item.StartTime.String(), "buffer before is included")
	assert.Equal(t, "12:45", item.EndTime.String(), "duration plus buffer after")
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(testService(), &fakeDirectory{provider: activeProvider()})

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero customer", func(r *Request) { r.CustomerID = 0 }},
		{"zero booking", func(r *Request) { r.BookingID = 0 }},
		{"negative location", func(r *Request) { r.LocationID = -1 }},
		{"missing date", func(r *Request) { r.Date = time.Time{} }},
		{"missing start time", func(r *Request) { r.StartTime = "" }},
		{"malformed start time", func(r *Request) { r.StartTime = "25:99" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
