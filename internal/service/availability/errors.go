package availability

import "errors"

var (
	// ErrNilSchedule возвращается, когда вместо расписания передан nil.
	// Это ошибка программирования, а не отсутствие данных.
	ErrNilSchedule = errors.New("availability: nil schedule")

	// ErrInvalidRange возвращается, когда начало диапазона дат позже конца
	ErrInvalidRange = errors.New("availability: from date is after to date")

	// ErrInternal возвращается при внутренних ошибках расчета
	ErrInternal = errors.New("availability: internal error")
)
