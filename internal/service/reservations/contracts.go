package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByCustomer(ctx context.Context, filter domain.CustomerReservationsFilter) ([]*domain.Reservation, error)
	FindAll(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
	Cancel(ctx context.Context, id int64, status domain.ReservationStatus, reason string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production.
// Возвращает время стены в бизнес-часовом поясе, привязанное к UTC:
// даты и времена доменной модели хранятся без зоны
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
