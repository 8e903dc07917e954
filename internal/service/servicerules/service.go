package servicerules

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/internal/service/servicerules/models"
)

// Service сервис для работы с правилами слотов услуг
type Service struct {
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса правил слотов
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// GetByID получает правила слотов услуги
// Публичный метод - доступен всем
func (s *Service) GetByID(ctx context.Context, id int64) (*models.RulesResponse, error) {
	s.logger.Info("GetByID: fetching service rules id=%d", id)

	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("GetByID: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched service rules id=%d", id)
	return models.FromDomainService(service), nil
}

// Update обновляет правила слотов услуги
// Доступно только провайдерам, оказывающим услугу
// Поддерживает частичное обновление - обновляются только указанные поля
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateRulesRequest) (*models.RulesResponse, error) {
	s.logger.Info("Update: updating service rules id=%d by user=%d", id, req.UserID)

	// 1. Получаем существующую услугу
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("Update: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// 2. Проверяем права доступа (только провайдер услуги)
	if !service.IsEligibleProvider(req.UserID) {
		s.logger.Warn("Update: user=%d is not a provider of service=%d", req.UserID, id)
		return nil, ErrAccessDenied
	}

	// 3. Применяем обновления к копии и валидируем результат
	tempService := *service
	req.ApplyToService(&tempService)

	if err := validateRules(&tempService); err != nil {
		s.logger.Warn("Update: validation failed for service id=%d: %v", id, err)
		return nil, err
	}

	// 4. Применяем обновления к оригинальной услуге
	req.ApplyToService(service)

	// 5. Обновляем услугу в БД
	updated, err := s.serviceRepo.Update(ctx, id, service)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("Update: service id=%d not found during update", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated service rules id=%d", id)
	return models.FromDomainService(updated), nil
}

// validateRules валидирует правила слотов услуги
func validateRules(service *domain.Service) error {
	if service.DurationMinutes < domain.MinDurationMinutes || service.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	if service.BufferBeforeMinutes < domain.MinBufferMinutes || service.BufferBeforeMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferBeforeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBufferMinutes, domain.MaxBufferMinutes)
	}

	if service.BufferAfterMinutes < domain.MinBufferMinutes || service.BufferAfterMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferAfterMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBufferMinutes, domain.MaxBufferMinutes)
	}

	if service.MaxCapacity < domain.MinSlotCapacity || service.MaxCapacity > domain.MaxSlotCapacity {
		return fmt.Errorf("%w: maxCapacity must be between %d and %d",
			ErrInvalidInput, domain.MinSlotCapacity, domain.MaxSlotCapacity)
	}

	if service.MinCapacity < 0 || service.MinCapacity > service.MaxCapacity {
		return fmt.Errorf("%w: minCapacity must be between 0 and maxCapacity", ErrInvalidInput)
	}

	if service.TimeBeforeBookingMinutes < domain.MinTimeBeforeBookingMinutes ||
		service.TimeBeforeBookingMinutes > domain.MaxTimeBeforeBookingMinutes {
		return fmt.Errorf("%w: timeBeforeBookingMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinTimeBeforeBookingMinutes, domain.MaxTimeBeforeBookingMinutes)
	}

	for _, v := range service.Variations {
		if !service.IsEligibleProvider(v.ProviderID) {
			return fmt.Errorf("%w: variation for provider=%d, which does not offer the service",
				ErrInvalidInput, v.ProviderID)
		}
		if v.DurationMinutes != nil && (*v.DurationMinutes < domain.MinDurationMinutes || *v.DurationMinutes > domain.MaxDurationMinutes) {
			return fmt.Errorf("%w: variation durationMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
		}
		if v.MaxCapacity != nil && (*v.MaxCapacity < domain.MinSlotCapacity || *v.MaxCapacity > domain.MaxSlotCapacity) {
			return fmt.Errorf("%w: variation maxCapacity must be between %d and %d",
				ErrInvalidInput, domain.MinSlotCapacity, domain.MaxSlotCapacity)
		}
	}

	return nil
}
