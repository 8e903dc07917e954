package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slots"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Service, error)
}

// SlotAggregator интерфейс агрегатора доступных слотов
type SlotAggregator interface {
	AvailableSlots(ctx context.Context, q *slots.Query) (*slots.Result, error)
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
