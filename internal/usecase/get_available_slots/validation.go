package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slots"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.FromDate.IsZero() {
		return fmt.Errorf("%w: fromDate is required", ErrInvalidInput)
	}

	if !req.ToDate.IsZero() && req.ToDate.Before(req.FromDate) {
		return ErrInvalidDateRange
	}

	if req.StepMinutes < 0 {
		return fmt.Errorf("%w: stepMinutes must be non-negative", ErrInvalidInput)
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

// validateProviderScope проверяет, что все запрошенные провайдеры оказывают услугу
func validateProviderScope(service *domain.Service, providerIDs []int64) error {
	for _, id := range providerIDs {
		if !service.IsEligibleProvider(id) {
			return fmt.Errorf("%w: provider=%d", ErrProviderNotEligible, id)
		}
	}
	return nil
}

// clampDateRange приводит диапазон дат к допустимым границам.
// Нулевой конец диапазона означает запрос на один день; диапазон
// длиннее maxRangeDays обрезается справа.
func clampDateRange(from, to time.Time, maxRangeDays int) (time.Time, time.Time) {
	if to.IsZero() {
		to = from
	}

	maxTo := from.AddDate(0, 0, maxRangeDays-1)
	if to.After(maxTo) {
		to = maxTo
	}

	return from, to
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня).
// Сравниваются только календарные даты каждой из сторон: зоны аргументов
// на результат не влияют
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
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
