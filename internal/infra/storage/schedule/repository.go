package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с расписаниями провайдеров.
// Недельный шаблон, выходные и переопределения хранятся в JSONB-колонках:
// расписание всегда читается и пишется целиком.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindByProvider возвращает расписание провайдера
func (r *Repository) FindByProvider(ctx context.Context, providerID int64) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"provider_id",
		"timetable",
		"days_off",
		"custom_workdays",
		"created_at",
		"updated_at",
	).
		From("schedules").
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindByProvider - build select query: %v", ErrBuildQuery, err)
	}

	var (
		schedule             domain.Schedule
		timetableRaw         []byte
		daysOffRaw           []byte
		customWorkdaysRaw    []byte
		createdAt, updatedAt sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&schedule.ID,
		&schedule.ProviderID,
		&timetableRaw,
		&daysOffRaw,
		&customWorkdaysRaw,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindByProvider - scan schedule: %v", ErrScanRow, err)
	}

	if schedule.Timetable, err = unmarshalTimetable(timetableRaw); err != nil {
		return nil, err
	}
	if err = unmarshalJSON(daysOffRaw, &schedule.DaysOff); err != nil {
		return nil, err
	}
	if err = unmarshalJSON(customWorkdaysRaw, &schedule.CustomWorkdays); err != nil {
		return nil, err
	}

	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time

	return &schedule, nil
}

// Upsert создает или полностью заменяет расписание провайдера.
// Вызывается административным контуром при редактировании расписания.
func (r *Repository) Upsert(ctx context.Context, schedule *domain.Schedule) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	timetableRaw, err := marshalTimetable(schedule.Timetable)
	if err != nil {
		return nil, err
	}
	daysOffRaw, err := marshalJSON(schedule.DaysOff)
	if err != nil {
		return nil, err
	}
	customWorkdaysRaw, err := marshalJSON(schedule.CustomWorkdays)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("schedules").
		Columns(
			"provider_id",
			"timetable",
			"days_off",
			"custom_workdays",
		).
		Values(
			schedule.ProviderID,
			timetableRaw,
			daysOffRaw,
			customWorkdaysRaw,
		).
		Suffix(`ON CONFLICT (provider_id) DO UPDATE SET
			timetable = EXCLUDED.timetable,
			days_off = EXCLUDED.days_off,
			custom_workdays = EXCLUDED.custom_workdays,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&schedule.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time

	return schedule, nil
}

// Delete удаляет расписание провайдера
func (r *Repository) Delete(ctx context.Context, providerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("schedules").
		Where(squirrel.Eq{"provider_id": providerID}).
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
		return ErrScheduleNotFound
	}

	return nil
}

// weekdayNames имена дней недели для JSON-ключей шаблона
var weekdayNames = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
	time.Sunday:    "sunday",
}

// marshalTimetable сериализует шаблон с именами дней недели в ключах
func marshalTimetable(timetable map[time.Weekday][]domain.TimetableEntry) ([]byte, error) {
	named := make(map[string][]domain.TimetableEntry, len(timetable))
	for weekday, entries := range timetable {
		named[weekdayNames[weekday]] = entries
	}

	raw, err := json.Marshal(named)
	if err != nil {
		return nil, fmt.Errorf("%w: timetable: %v", ErrMarshal, err)
	}
	return raw, nil
}

// unmarshalTimetable разбирает шаблон из JSON с именами дней недели
func unmarshalTimetable(raw []byte) (map[time.Weekday][]domain.TimetableEntry, error) {
	if len(raw) == 0 {
		return map[time.Weekday][]domain.TimetableEntry{}, nil
	}

	var named map[string][]domain.TimetableEntry
	if err := json.Unmarshal(raw, &named); err != nil {
		return nil, fmt.Errorf("%w: timetable: %v", ErrUnmarshal, err)
	}

	result := make(map[time.Weekday][]domain.TimetableEntry, len(named))
	for name, entries := range named {
		weekday, ok := weekdayByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: timetable: unknown weekday %q", ErrUnmarshal, name)
		}
		result[weekday] = entries
	}
	return result, nil
}

// weekdayByName возвращает день недели по имени
func weekdayByName(name string) (time.Weekday, bool) {
	for weekday, n := range weekdayNames {
		if n == strings.ToLower(name) {
			return weekday, true
		}
	}
	return 0, false
}

// marshalJSON сериализует значение в JSONB
func marshalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarshal, err)
	}
	return raw, nil
}

// unmarshalJSON разбирает JSONB-колонку; пустое значение оставляет nil
func unmarshalJSON(raw []byte, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrUnmarshal, err)
	}
	return nil
}
