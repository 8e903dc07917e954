package providerdirectory

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден в справочнике
	ErrProviderNotFound = errors.New("provider not found in directory")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("providerdirectory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("providerdirectory client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что справочник провайдеров недоступен и проверку
	// активности провайдера следует пропустить
	ErrServiceDegraded = errors.New("providerdirectory unavailable: graceful degradation applied")
)
