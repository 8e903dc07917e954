package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// UpdateRulesRequest запрос на обновление правил слотов услуги
// Все поля опциональны - обновляются только переданные значения
type UpdateRulesRequest struct {
	UserID                   int64    `json:"userId"`
	DurationMinutes          *int     `json:"durationMinutes,omitempty"`
	BufferBeforeMinutes      *int     `json:"bufferBeforeMinutes,omitempty"`
	BufferAfterMinutes       *int     `json:"bufferAfterMinutes,omitempty"`
	MinCapacity              *int     `json:"minCapacity,omitempty"`
	MaxCapacity              *int     `json:"maxCapacity,omitempty"`
	TimeBeforeBookingMinutes *int     `json:"timeBeforeBookingMinutes,omitempty"`
	Price                    *float64 `json:"price,omitempty"`

	// Полная замена списка вариаций, если передан
	Variations []VariationModel `json:"variations,omitempty"`
}

// VariationModel переопределение параметров услуги для одного провайдера
type VariationModel struct {
	ProviderID      int64    `json:"providerId"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	MaxCapacity     *int     `json:"maxCapacity,omitempty"`
	Price           *float64 `json:"price,omitempty"`
}

// ApplyToService применяет обновления к существующей услуге
// Обновляются только непустые (not nil) поля из request
func (r *UpdateRulesRequest) ApplyToService(service *domain.Service) {
	if r.DurationMinutes != nil {
		service.DurationMinutes = *r.DurationMinutes
	}
	if r.BufferBeforeMinutes != nil {
		service.BufferBeforeMinutes = *r.BufferBeforeMinutes
	}
	if r.BufferAfterMinutes != nil {
		service.BufferAfterMinutes = *r.BufferAfterMinutes
	}
	if r.MinCapacity != nil {
		service.MinCapacity = *r.MinCapacity
	}
	if r.MaxCapacity != nil {
		service.MaxCapacity = *r.MaxCapacity
	}
	if r.TimeBeforeBookingMinutes != nil {
		service.TimeBeforeBookingMinutes = *r.TimeBeforeBookingMinutes
	}
	if r.Price != nil {
		service.Price = r.Price
	}
	if r.Variations != nil {
		variations := make([]domain.ProviderVariation, 0, len(r.Variations))
		for _, v := range r.Variations {
			variations = append(variations, domain.ProviderVariation{
				ProviderID:      v.ProviderID,
				DurationMinutes: v.DurationMinutes,
				MaxCapacity:     v.MaxCapacity,
				Price:           v.Price,
			})
		}
		service.Variations = variations
	}
}

// Response модели

// RulesResponse ответ с правилами слотов услуги
type RulesResponse struct {
	ID                       int64            `json:"id"`
	Name                     string           `json:"name"`
	DurationMinutes          int              `json:"durationMinutes"`
	BufferBeforeMinutes      int              `json:"bufferBeforeMinutes"`
	BufferAfterMinutes       int              `json:"bufferAfterMinutes"`
	MinCapacity              int              `json:"minCapacity"`
	MaxCapacity              int              `json:"maxCapacity"`
	TimeBeforeBookingMinutes int              `json:"timeBeforeBookingMinutes"`
	Price                    *float64         `json:"price,omitempty"`
	ProviderIDs              []int64          `json:"providerIds"`
	Variations               []VariationModel `json:"variations,omitempty"`
	CreatedAt                time.Time        `json:"createdAt"`
	UpdatedAt                time.Time        `json:"updatedAt"`
}

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *RulesResponse {
	if s == nil {
		return nil
	}

	resp := &RulesResponse{
		ID:                       s.ID,
		Name:                     s.Name,
		DurationMinutes:          s.DurationMinutes,
		BufferBeforeMinutes:      s.BufferBeforeMinutes,
		BufferAfterMinutes:       s.BufferAfterMinutes,
		MinCapacity:              s.MinCapacity,
		MaxCapacity:              s.MaxCapacity,
		TimeBeforeBookingMinutes: s.TimeBeforeBookingMinutes,
		Price:                    s.Price,
		ProviderIDs:              s.ProviderIDs,
		CreatedAt:                s.CreatedAt,
		UpdatedAt:                s.UpdatedAt,
	}

	for _, v := range s.Variations {
		resp.Variations = append(resp.Variations, VariationModel{
			ProviderID:      v.ProviderID,
			DurationMinutes: v.DurationMinutes,
			MaxCapacity:     v.MaxCapacity,
			Price:           v.Price,
		})
	}

	return resp
}
