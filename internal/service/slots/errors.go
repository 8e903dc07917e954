package slots

import "errors"

var (
	// ErrNilService возвращается, когда вместо услуги передан nil.
	// Неизвестный serviceID должен быть отсечен выше; это ошибка программирования.
	ErrNilService = errors.New("slots: nil service")

	// ErrInvalidRange возвращается, когда начало диапазона дат позже конца
	ErrInvalidRange = errors.New("slots: from date is after to date")

	// ErrInvalidStep возвращается при некорректном шаге дискретизации
	ErrInvalidStep = errors.New("slots: step must be positive")

	// ErrInternal возвращается при внутренних ошибках агрегатора
	ErrInternal = errors.New("slots: internal error")
)
