package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/providerdirectory"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slots"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}

	if req.LocationID < 0 {
		return fmt.Errorf("%w: locationID must be non-negative", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	for i, item := range req.CartItems {
		if item.ProviderID <= 0 {
			return fmt.Errorf("%w: cart item %d: providerID must be positive", ErrInvalidInput, i)
		}
		if item.Date.IsZero() {
			return fmt.Errorf("%w: cart item %d: date is required", ErrInvalidInput, i)
		}
		if err := item.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: cart item %d: invalid startTime: %v", ErrInvalidInput, i, err)
		}
	}

	return nil
}

// validateProvider проверяет данные провайдера из справочника.
// При graceful degradation (nil провайдер без ошибки не бывает, но ошибка
// обрабатывается вызывающим кодом) проверки пропускаются
func validateProvider(provider *providerdirectory.Provider, locationID int64) error {
	if !provider.IsActive {
		return ErrProviderInactive
	}

	// Локация 0 означает расписание без привязки к локациям
	if locationID == 0 {
		return nil
	}

	for _, id := range provider.LocationIDs {
		if id == locationID {
			return nil
		}
	}

	return ErrLocationNotFound
}

// bufferedCartItems конвертирует позиции корзины в блокирующие интервалы.
// Интервал позиции расширяется буферами услуги, как у сохраненной резервации
func bufferedCartItems(service *domain.Service, items []CartItemInput) ([]slots.CartItem, error) {
	result := make([]slots.CartItem, 0, len(items))

	for i, item := range items {
		duration := service.DurationFor(item.ProviderID)

		start, err := item.StartTime.AddMinutes(-service.BufferBeforeMinutes)
		if err != nil {
			return nil, fmt.Errorf("cart item %d: buffer start: %v", i, err)
		}
		end, err := item.StartTime.AddMinutes(duration + service.BufferAfterMinutes)
		if err != nil {
			return nil, fmt.Errorf("cart item %d: buffer end: %v", i, err)
		}

		result = append(result, slots.CartItem{
			ProviderID: item.ProviderID,
			Date:       item.Date,
			StartTime:  start,
			EndTime:    end,
		})
	}

	return result, nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня).
// Сравниваются только календарные даты каждой из сторон: зоны аргументов
// на результат не влияют
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}

// servicePrice извлекает цену услуги для провайдера.
// Если цена не указана (nil), возвращает 0.0
func servicePrice(service *domain.Service, providerID int64) float64 {
	if price := service.PriceFor(providerID); price != nil {
		return *price
	}
	return 0.0
}
