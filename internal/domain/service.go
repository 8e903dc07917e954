package domain

import "time"

// Service представляет услугу, доступную для бронирования.
// Правила слотов (длительность, буферы, вместимость, минимальное время
// до брони) задаются на уровне услуги и могут переопределяться
// вариациями для конкретных провайдеров.
type Service struct {
	ID   int64
	Name string

	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int

	MinCapacity int
	MaxCapacity int

	// Минимальное время в минутах между "сейчас" и началом слота
	TimeBeforeBookingMinutes int

	Price *float64

	// Провайдеры, которые могут оказывать услугу
	ProviderIDs []int64

	// Переопределения параметров для конкретных провайдеров
	Variations []ProviderVariation

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProviderVariation переопределение параметров услуги для одного провайдера.
// nil-поле означает "использовать значение услуги".
type ProviderVariation struct {
	ProviderID      int64
	DurationMinutes *int
	MaxCapacity     *int
	Price           *float64
}

// IsEligibleProvider возвращает true, если провайдер может оказывать услугу
func (s *Service) IsEligibleProvider(providerID int64) bool {
	for _, id := range s.ProviderIDs {
		if id == providerID {
			return true
		}
	}
	return false
}

// variationFor возвращает вариацию для провайдера, если она есть
func (s *Service) variationFor(providerID int64) *ProviderVariation {
	for i := range s.Variations {
		if s.Variations[i].ProviderID == providerID {
			return &s.Variations[i]
		}
	}
	return nil
}

// DurationFor возвращает длительность услуги для провайдера
// с учетом вариации
func (s *Service) DurationFor(providerID int64) int {
	if v := s.variationFor(providerID); v != nil && v.DurationMinutes != nil {
		return *v.DurationMinutes
	}
	return s.DurationMinutes
}

// MaxCapacityFor возвращает вместимость слота для провайдера
// с учетом вариации
func (s *Service) MaxCapacityFor(providerID int64) int {
	if v := s.variationFor(providerID); v != nil && v.MaxCapacity != nil {
		return *v.MaxCapacity
	}
	return s.MaxCapacity
}

// PriceFor возвращает цену услуги для провайдера с учетом вариации
func (s *Service) PriceFor(providerID int64) *float64 {
	if v := s.variationFor(providerID); v != nil && v.Price != nil {
		return v.Price
	}
	return s.Price
}
