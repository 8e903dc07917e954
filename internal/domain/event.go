package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType тип доменного события
type EventType string

const (
	EventReservationCreated   EventType = "reservation.created"
	EventReservationCancelled EventType = "reservation.cancelled"
)

// Event доменное событие, порождаемое операциями записи.
// События возвращаются вызывающему коду явным списком и диспатчатся
// отдельным компонентом, а не неявными колбэками внутри вычислений.
type Event struct {
	ID            string
	Type          EventType
	OccurredAt    time.Time
	ReservationID int64
	BookingID     int64
	ProviderID    int64
	CustomerID    int64
}

// NewReservationCreated создает событие о созданной резервации
func NewReservationCreated(r *Reservation, now time.Time) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          EventReservationCreated,
		OccurredAt:    now,
		ReservationID: r.ID,
		BookingID:     r.BookingID,
		ProviderID:    r.ProviderID,
		CustomerID:    r.CustomerID,
	}
}

// NewReservationCancelled создает событие об отмененной резервации
func NewReservationCancelled(r *Reservation, now time.Time) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          EventReservationCancelled,
		OccurredAt:    now,
		ReservationID: r.ID,
		BookingID:     r.BookingID,
		ProviderID:    r.ProviderID,
		CustomerID:    r.CustomerID,
	}
}
