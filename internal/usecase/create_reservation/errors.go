package create_reservation

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_reservation: service not found")

	// ErrProviderNotFound возвращается, когда провайдер не найден в справочнике
	ErrProviderNotFound = errors.New("create_reservation: provider not found")

	// ErrProviderNotEligible возвращается, когда провайдер не оказывает услугу
	ErrProviderNotEligible = errors.New("create_reservation: provider does not offer this service")

	// ErrProviderInactive возвращается, когда провайдер отключен в справочнике
	ErrProviderInactive = errors.New("create_reservation: provider is inactive")

	// ErrLocationNotFound возвращается, когда локация не принадлежит провайдеру
	ErrLocationNotFound = errors.New("create_reservation: location not found for provider")

	// ErrInvalidDate возвращается при некорректной дате резервации
	ErrInvalidDate = errors.New("create_reservation: invalid reservation date")

	// ErrSlotNotAvailable возвращается, когда выбранный слот уже занят
	ErrSlotNotAvailable = errors.New("create_reservation: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
