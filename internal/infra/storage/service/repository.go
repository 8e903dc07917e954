package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с услугами и их вариациями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую услугу
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	providerIDs, err := marshalJSON(service.ProviderIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - provider ids: %v", ErrMarshal, err)
	}
	variations, err := marshalJSON(service.Variations)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - variations: %v", ErrMarshal, err)
	}

	query, args, err := psqlbuilder.Insert("services").
		Columns(
			"name",
			"duration_minutes",
			"buffer_before_minutes",
			"buffer_after_minutes",
			"min_capacity",
			"max_capacity",
			"time_before_booking_minutes",
			"price",
			"provider_ids",
			"variations",
		).
		Values(
			service.Name,
			service.DurationMinutes,
			service.BufferBeforeMinutes,
			service.BufferAfterMinutes,
			service.MinCapacity,
			service.MaxCapacity,
			service.TimeBeforeBookingMinutes,
			service.Price,
			providerIDs,
			variations,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	return service, nil
}

// FindByID получает услугу по ID вместе с вариациями провайдеров
func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"duration_minutes",
		"buffer_before_minutes",
		"buffer_after_minutes",
		"min_capacity",
		"max_capacity",
		"time_before_booking_minutes",
		"price",
		"provider_ids",
		"variations",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindByID - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	var providerIDs, variations []byte
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.Name,
		&service.DurationMinutes,
		&service.BufferBeforeMinutes,
		&service.BufferAfterMinutes,
		&service.MinCapacity,
		&service.MaxCapacity,
		&service.TimeBeforeBookingMinutes,
		&service.Price,
		&providerIDs,
		&variations,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindByID - scan service: %v", ErrScanRow, err)
	}

	if err := unmarshalJSON(providerIDs, &service.ProviderIDs); err != nil {
		return nil, fmt.Errorf("%w: FindByID - provider ids: %v", ErrUnmarshal, err)
	}
	if err := unmarshalJSON(variations, &service.Variations); err != nil {
		return nil, fmt.Errorf("%w: FindByID - variations: %v", ErrUnmarshal, err)
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	return &service, nil
}

// Update обновляет правила слотов услуги
func (r *Repository) Update(ctx context.Context, id int64, service *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	providerIDs, err := marshalJSON(service.ProviderIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - provider ids: %v", ErrMarshal, err)
	}
	variations, err := marshalJSON(service.Variations)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - variations: %v", ErrMarshal, err)
	}

	query, args, err := psqlbuilder.Update("services").
		Set("name", service.Name).
		Set("duration_minutes", service.DurationMinutes).
		Set("buffer_before_minutes", service.BufferBeforeMinutes).
		Set("buffer_after_minutes", service.BufferAfterMinutes).
		Set("min_capacity", service.MinCapacity).
		Set("max_capacity", service.MaxCapacity).
		Set("time_before_booking_minutes", service.TimeBeforeBookingMinutes).
		Set("price", service.Price).
		Set("provider_ids", providerIDs).
		Set("variations", variations).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	service.ID = id
	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	return service, nil
}

// Delete удаляет услугу
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrServiceNotFound
	}

	return nil
}

func marshalJSON(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func unmarshalJSON(data []byte, dst any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}
