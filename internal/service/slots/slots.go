package slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/timeperiod"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// generateStartTimes дискретизирует открытый интервал в кандидатов начала слота.
// Кандидат t попадает в результат, только если окно [t, t+duration)
// целиком помещается в открытый интервал. Буферы услуги блокируют чужие
// слоты, но сами не обязаны быть "открытыми" — здесь проверяется только
// оплачиваемое окно.
func generateStartTimes(open timeperiod.TimePeriod, stepMinutes, durationMinutes int) []time.Time {
	step := time.Duration(stepMinutes) * time.Minute
	duration := time.Duration(durationMinutes) * time.Minute

	starts := make([]time.Time, 0)
	for t := open.Start; !t.Add(duration).After(open.End); t = t.Add(step) {
		starts = append(starts, t)
	}
	return starts
}

// countOverlapping подсчитывает количество блокирующих интервалов,
// действительно пересекающихся с окном слота. Строгие неравенства:
// граничащие интервалы не считаются пересечением.
//
// Примеры:
// - Слот 11:30-12:00, блокировка 11:20-11:40 → ЕСТЬ пересечение
// - Слот 11:30-12:00, блокировка 11:00-11:30 → НЕТ пересечения (граничат)
// - Слот 11:30-12:00, блокировка 12:00-12:30 → НЕТ пересечения (граничат)
func countOverlapping(slot timeperiod.TimePeriod, blockers []timeperiod.TimePeriod) int {
	count := 0
	for _, b := range blockers {
		if b.Overlaps(slot) {
			count++
		}
	}
	return count
}

// blockerKey ключ карты блокировок: провайдер + дата
type blockerKey struct {
	providerID int64
	date       string // YYYY-MM-DD
}

// collectBlockers строит карту блокирующих интервалов из резерваций
// и позиций корзины.
//
// Правило локаций сохранено из исходной системы: без фильтра локаций
// резервация блокирует весь день провайдера на всех локациях;
// при заданном фильтре блокируют только резервации на этих локациях.
// Позиции корзины не несут локации и блокируют всегда.
func collectBlockers(
	reservations []*domain.Reservation,
	cartItems []CartItem,
	locationFilter []int64,
) (map[blockerKey][]timeperiod.TimePeriod, error) {
	blockers := make(map[blockerKey][]timeperiod.TimePeriod)

	for _, res := range reservations {
		if !res.IsActive() {
			continue
		}
		if len(locationFilter) > 0 && !containsID(locationFilter, res.LocationID) {
			continue
		}
		period, err := res.BufferPeriod()
		if err != nil {
			return nil, err
		}
		key := blockerKey{providerID: res.ProviderID, date: res.Date.Format(domain.DateFormat)}
		blockers[key] = append(blockers[key], period)
	}

	for _, item := range cartItems {
		period, err := item.Period()
		if err != nil {
			return nil, err
		}
		key := blockerKey{providerID: item.ProviderID, date: item.Date.Format(domain.DateFormat)}
		blockers[key] = append(blockers[key], period)
	}

	return blockers, nil
}

// slotAccumulator собирает слот одного времени начала по всем парам
// (провайдер, локация)
type slotAccumulator struct {
	durationMinutes int
	availableSpots  int
	totalSpots      int
	options         []domain.SlotOption
}

// dayAccumulator собирает слоты одного дня: время начала -> аккумулятор
type dayAccumulator map[types.TimeString]*slotAccumulator

// add учитывает одну пару (провайдер, локация) для времени начала
func (d dayAccumulator) add(start types.TimeString, durationMinutes, spots, total int, option domain.SlotOption) {
	acc, ok := d[start]
	if !ok {
		acc = &slotAccumulator{durationMinutes: durationMinutes}
		d[start] = acc
	}

	// Для слота, обслуживаемого несколькими парами, показываем
	// наибольшее количество свободных мест среди них
	if spots > acc.availableSpots {
		acc.availableSpots = spots
		acc.totalSpots = total
		acc.durationMinutes = durationMinutes
	}

	for _, existing := range acc.options {
		if existing == option {
			return
		}
	}
	acc.options = append(acc.options, option)
}

// toSlots превращает аккумулятор дня в отсортированный список слотов.
// В компактном формате пары (провайдер, локация) опускаются.
func (d dayAccumulator) toSlots(format Format) []domain.AvailableSlot {
	starts := make([]types.TimeString, 0, len(d))
	for start := range d {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].IsBefore(starts[j]) })

	result := make([]domain.AvailableSlot, 0, len(starts))
	for _, start := range starts {
		acc := d[start]
		slot := domain.AvailableSlot{
			StartTime:       start,
			DurationMinutes: acc.durationMinutes,
			AvailableSpots:  acc.availableSpots,
			TotalSpots:      acc.totalSpots,
		}
		if format == FormatDetailed {
			options := make([]domain.SlotOption, len(acc.options))
			copy(options, acc.options)
			sort.Slice(options, func(i, j int) bool {
				if options[i].ProviderID != options[j].ProviderID {
					return options[i].ProviderID < options[j].ProviderID
				}
				return options[i].LocationID < options[j].LocationID
			})
			slot.Options = options
		}
		result = append(result, slot)
	}

	return result
}

// resolveProviderScope возвращает итоговый список провайдеров запроса:
// пересечение фильтра с провайдерами услуги (фильтр не может расширить
// список допустимых провайдеров)
func resolveProviderScope(service *domain.Service, filter []int64) []int64 {
	if len(filter) == 0 {
		scope := make([]int64, len(service.ProviderIDs))
		copy(scope, service.ProviderIDs)
		return scope
	}

	scope := make([]int64, 0, len(filter))
	for _, id := range filter {
		if service.IsEligibleProvider(id) {
			scope = append(scope, id)
		}
	}
	return scope
}

// containsID проверяет вхождение id в список
func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
