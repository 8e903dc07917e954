package timeperiod

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var (
	// ErrInvalidPeriod возвращается, когда начало периода позже его конца
	ErrInvalidPeriod = errors.New("timeperiod: start is after end")

	// ErrInvalidFormat возвращается при некорректном формате строки периода
	ErrInvalidFormat = errors.New("timeperiod: invalid period format, expected HH:MM-HH:MM")
)

// TimePeriod represents a single time interval [Start, End) on absolute timestamps.
// Immutable value type: all operations return new values.
type TimePeriod struct {
	Start time.Time
	End   time.Time
}

// New создает период, проверяя инвариант Start <= End
func New(start, end time.Time) (TimePeriod, error) {
	if start.After(end) {
		return TimePeriod{}, fmt.Errorf("%w: %s > %s", ErrInvalidPeriod, start, end)
	}
	return TimePeriod{Start: start, End: end}, nil
}

// Parse парсит строку "HH:MM-HH:MM" и привязывает её к дате date
func Parse(s string, date time.Time) (TimePeriod, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return TimePeriod{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	startTS, err := types.NewTimeStringFromString(parts[0])
	if err != nil {
		return TimePeriod{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	endTS, err := types.NewTimeStringFromString(parts[1])
	if err != nil {
		return TimePeriod{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	start, err := startTS.OnDate(date)
	if err != nil {
		return TimePeriod{}, err
	}
	end, err := endTS.OnDate(date)
	if err != nil {
		return TimePeriod{}, err
	}

	return New(start, end)
}

// IsZero возвращает true для незаполненного периода
func (p TimePeriod) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// IsEmpty возвращает true, если период не содержит ни одной точки
func (p TimePeriod) IsEmpty() bool {
	return !p.Start.Before(p.End)
}

// Duration возвращает длительность периода
func (p TimePeriod) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// Overlaps возвращает true, если периоды действительно пересекаются.
// Граничащие периоды (конец одного равен началу другого) НЕ пересекаются.
func (p TimePeriod) Overlaps(other TimePeriod) bool {
	return p.Start.Before(other.End) && other.Start.Before(p.End)
}

// Touches возвращает true, если периоды граничат без пересечения
func (p TimePeriod) Touches(other TimePeriod) bool {
	return p.End.Equal(other.Start) || other.End.Equal(p.Start)
}

// Contains возвращает true, если точка t лежит внутри периода [Start, End)
func (p TimePeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// ContainsPeriod возвращает true, если other целиком лежит внутри p
func (p TimePeriod) ContainsPeriod(other TimePeriod) bool {
	return !other.Start.Before(p.Start) && !other.End.After(p.End)
}

// Intersect возвращает пересечение периодов (пустой период, если пересечения нет)
func (p TimePeriod) Intersect(other TimePeriod) TimePeriod {
	start := p.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := p.End
	if other.End.Before(end) {
		end = other.End
	}
	if !start.Before(end) {
		return TimePeriod{}
	}
	return TimePeriod{Start: start, End: end}
}

// AnchorTo переносит время периода на указанную дату, сохраняя время суток
func (p TimePeriod) AnchorTo(date time.Time) TimePeriod {
	anchor := func(t time.Time) time.Time {
		return time.Date(date.Year(), date.Month(), date.Day(),
			t.Hour(), t.Minute(), t.Second(), 0, date.Location())
	}
	return TimePeriod{Start: anchor(p.Start), End: anchor(p.End)}
}

// String возвращает каноническое представление "HH:MM-HH:MM"
func (p TimePeriod) String() string {
	return fmt.Sprintf("%s-%s", p.Start.Format("15:04"), p.End.Format("15:04"))
}

// StringDated возвращает представление с датой "YYYY-MM-DD HH:MM-HH:MM"
func (p TimePeriod) StringDated() string {
	return fmt.Sprintf("%s %s", p.Start.Format("2006-01-02"), p.String())
}
