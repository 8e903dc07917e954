package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/providerdirectory"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slots"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Service, error)
}

// SlotChecker интерфейс проверки доступности конкретного слота
type SlotChecker interface {
	IsSlotStillAvailable(ctx context.Context, q *slots.SingleSlotQuery) (bool, error)
}

// ProviderDirectoryClient интерфейс клиента справочника провайдеров
type ProviderDirectoryClient interface {
	GetProviderWithGracefulDegradation(ctx context.Context, providerID int64) (*providerdirectory.Provider, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production.
// Возвращает время стены в бизнес-часовом поясе, привязанное к UTC:
// даты запросов разбираются без зоны, сравнение идет на одной оси
type RealTimeProvider struct {
	loc *time.Location
}

// NewRealTimeProvider создает провайдер времени; nil означает UTC
func NewRealTimeProvider(loc *time.Location) *RealTimeProvider {
	if loc == nil {
		loc = time.UTC
	}
	return &RealTimeProvider{loc: loc}
}

// Now возвращает текущее время стены в настроенном поясе с привязкой к UTC
func (p *RealTimeProvider) Now() time.Time {
	now := time.Now().In(p.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.UTC)
}
