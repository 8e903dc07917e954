package timeperiod

import (
	"sort"
	"strings"
)

// TimePeriods is an ordered collection of non-overlapping, non-adjacent periods
// sorted ascending by start time. The zero value (nil) is valid and represents
// "no availability".
//
// Инвариант: после любой последовательности Merge/Diff никакие два периода
// не пересекаются и не граничат (граничащие склеиваются в один).
type TimePeriods []TimePeriod

// Merge вставляет период в коллекцию, склеивая все пересекающиеся
// и граничащие с ним периоды в один. Пустые периоды игнорируются.
func (ps TimePeriods) Merge(period TimePeriod) TimePeriods {
	if period.IsEmpty() {
		return ps
	}

	result := make(TimePeriods, 0, len(ps)+1)
	merged := period

	for _, existing := range ps {
		if existing.Overlaps(merged) || existing.Touches(merged) {
			// Расширяем вставляемый период до объединения
			if existing.Start.Before(merged.Start) {
				merged.Start = existing.Start
			}
			if existing.End.After(merged.End) {
				merged.End = existing.End
			}
			continue
		}
		result = append(result, existing)
	}

	result = append(result, merged)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})

	return result
}

// MergeAll вставляет несколько периодов по очереди
func (ps TimePeriods) MergeAll(periods ...TimePeriod) TimePeriods {
	result := ps
	for _, p := range periods {
		result = result.Merge(p)
	}
	return result
}

// Diff вычитает период из коллекции. Каждый пересекающийся период заменяется
// нулём, одним или двумя остатками: нулём, если он поглощён целиком, двумя,
// если вычитаемый период лежит строго внутри. Непересекающиеся периоды
// остаются без изменений.
func (ps TimePeriods) Diff(period TimePeriod) TimePeriods {
	if period.IsEmpty() {
		return ps
	}

	result := make(TimePeriods, 0, len(ps)+1)

	for _, existing := range ps {
		if !existing.Overlaps(period) {
			result = append(result, existing)
			continue
		}

		// Левый остаток
		if existing.Start.Before(period.Start) {
			result = append(result, TimePeriod{Start: existing.Start, End: period.Start})
		}
		// Правый остаток
		if period.End.Before(existing.End) {
			result = append(result, TimePeriod{Start: period.End, End: existing.End})
		}
	}

	return result
}

// DiffAll вычитает несколько периодов по очереди
func (ps TimePeriods) DiffAll(periods ...TimePeriod) TimePeriods {
	result := ps
	for _, p := range periods {
		result = result.Diff(p)
	}
	return result
}

// ContainsPeriod возвращает true, если period целиком лежит внутри
// одного из периодов коллекции
func (ps TimePeriods) ContainsPeriod(period TimePeriod) bool {
	for _, existing := range ps {
		if existing.ContainsPeriod(period) {
			return true
		}
	}
	return false
}

// IsEmpty возвращает true, если коллекция не содержит ни одного периода
func (ps TimePeriods) IsEmpty() bool {
	return len(ps) == 0
}

// Clone возвращает копию коллекции
func (ps TimePeriods) Clone() TimePeriods {
	if ps == nil {
		return nil
	}
	result := make(TimePeriods, len(ps))
	copy(result, ps)
	return result
}

// String возвращает представление вида "09:00-12:00, 13:00-17:00"
func (ps TimePeriods) String() string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
