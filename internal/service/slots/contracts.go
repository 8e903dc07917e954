package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/timeperiod"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	// FindByProvider возвращает расписание провайдера
	FindByProvider(ctx context.Context, providerID int64) (*domain.Schedule, error)
}

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	// FindAll возвращает резервации по фильтру
	FindAll(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

// AvailabilityCalculator интерфейс калькулятора рабочих часов
type AvailabilityCalculator interface {
	WorkingHoursForRange(
		schedule *domain.Schedule,
		locationIDs []int64,
		from, to time.Time,
		blockedByDate map[string][]timeperiod.TimePeriod,
		skipEmpty bool,
	) ([]availability.DayHours, error)
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
// Даты и времена доменной модели хранятся без зоны (разбираются как UTC),
// поэтому текущее время приводится к времени стены в бизнес-часовом поясе
// и привязывается к той же оси UTC
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
