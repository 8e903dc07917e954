package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/timeperiod"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ReservationStatus статус резервации
type ReservationStatus string

const (
	StatusPending             ReservationStatus = "pending"
	StatusConfirmed           ReservationStatus = "confirmed"
	StatusCompleted           ReservationStatus = "completed"
	StatusCancelledByCustomer ReservationStatus = "cancelled_by_customer"
	StatusCancelledByProvider ReservationStatus = "cancelled_by_provider"
	StatusNoShow              ReservationStatus = "no_show"
)

// Reservation занятый интервал времени провайдера: одна запись на услугу.
// ServiceStart/ServiceEnd — оплачиваемое окно услуги; BufferStart/BufferEnd —
// расширенное буферами окно, которое блокирует соседние брони,
// но само недоступно для бронирования. Буферное окно всегда содержит окно услуги.
type Reservation struct {
	ID         int64
	BookingID  int64
	CustomerID int64
	ProviderID int64
	LocationID int64
	ServiceID  int64

	Date time.Time

	ServiceStart types.TimeString
	ServiceEnd   types.TimeString
	BufferStart  types.TimeString
	BufferEnd    types.TimeString

	Capacity int
	Status   ReservationStatus

	// Денормализованные данные для истории
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если резервация блокирует время провайдера
func (r *Reservation) IsActive() bool {
	return r.Status != StatusCancelledByCustomer &&
		r.Status != StatusCancelledByProvider &&
		r.Status != StatusNoShow
}

// CanBeCancelled возвращает true, если резервацию можно отменить
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsCancelled возвращает true, если резервация была отменена
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelledByCustomer || r.Status == StatusCancelledByProvider
}

// ServicePeriod возвращает окно услуги, привязанное к дате резервации
func (r *Reservation) ServicePeriod() (timeperiod.TimePeriod, error) {
	start, err := r.ServiceStart.OnDate(r.Date)
	if err != nil {
		return timeperiod.TimePeriod{}, err
	}
	end, err := r.ServiceEnd.OnDate(r.Date)
	if err != nil {
		return timeperiod.TimePeriod{}, err
	}
	return timeperiod.New(start, end)
}

// BufferPeriod возвращает буферное окно, привязанное к дате резервации.
// Именно это окно вычитается из доступности провайдера.
func (r *Reservation) BufferPeriod() (timeperiod.TimePeriod, error) {
	start, err := r.BufferStart.OnDate(r.Date)
	if err != nil {
		return timeperiod.TimePeriod{}, err
	}
	end, err := r.BufferEnd.OnDate(r.Date)
	if err != nil {
		return timeperiod.TimePeriod{}, err
	}
	return timeperiod.New(start, end)
}

// ReservationFilter фильтр для выборки резерваций
type ReservationFilter struct {
	ProviderIDs []int64            // Обязательный: хотя бы один провайдер
	FromDate    *time.Time         // Начало периода (опционально)
	ToDate      *time.Time         // Конец периода (опционально)
	LocationID  *int64             // Фильтр по локации (опционально)
	Status      *ReservationStatus // Фильтр по статусу (опционально)

	// Исключить резервации этих бронирований (корзина текущего пользователя)
	ExcludeBookingIDs []int64

	// Включать ли отмененные и no-show резервации
	IncludeInactive bool
}

// CustomerReservationsFilter фильтр для истории резерваций клиента
type CustomerReservationsFilter struct {
	CustomerID int64
	Status     *ReservationStatus
}
