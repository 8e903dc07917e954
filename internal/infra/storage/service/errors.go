package service

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service.repository: service not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("service.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("service.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("service.repository: failed to scan row")

	// ErrMarshal возвращается при ошибке сериализации данных услуги в JSON
	ErrMarshal = errors.New("service.repository: failed to marshal service data")

	// ErrUnmarshal возвращается при ошибке разбора JSON данных услуги
	ErrUnmarshal = errors.New("service.repository: failed to unmarshal service data")
)
