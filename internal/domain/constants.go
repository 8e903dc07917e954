package domain

// Default scheduling values
const (
	DefaultStepMinutes              = 30
	DefaultTimeBeforeBookingMinutes = 60 // 1 hour
	DefaultMaxRangeDays             = 366
)

// Business validation constants
const (
	MinDurationMinutes          = 5
	MaxDurationMinutes          = 480 // 8 hours
	MinBufferMinutes            = 0
	MaxBufferMinutes            = 240
	MinSlotCapacity             = 1
	MaxSlotCapacity             = 100
	MinTimeBeforeBookingMinutes = 0
	MaxTimeBeforeBookingMinutes = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, которые не блокируют время провайдера.
// Используется при выборке резерваций для расчета доступности.
var InactiveStatuses = []ReservationStatus{
	StatusCancelledByCustomer,
	StatusCancelledByProvider,
	StatusNoShow,
}

// ActiveStatuses список статусов активных резерваций
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
