package slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/timeperiod"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Format формат выдачи слотов
type Format string

const (
	// FormatCompact дата -> отсортированные времена начала,
	// дедуплицированные по провайдерам и локациям
	FormatCompact Format = "compact"

	// FormatDetailed дата -> время начала -> пары (провайдер, локация)
	FormatDetailed Format = "detailed"
)

// CartItem позиция корзины, ещё не сохраненная в БД.
// Блокирует время провайдера наравне с резервациями, чтобы два
// почти одновременных чекаута не получили один и тот же слот.
type CartItem struct {
	ProviderID int64
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
}

// Period возвращает интервал позиции, привязанный к её дате
func (c CartItem) Period() (timeperiod.TimePeriod, error) {
	start, err := c.StartTime.OnDate(c.Date)
	if err != nil {
		return timeperiod.TimePeriod{}, err
	}
	end, err := c.EndTime.OnDate(c.Date)
	if err != nil {
		return timeperiod.TimePeriod{}, err
	}
	return timeperiod.New(start, end)
}

// Query запрос на вычисление доступных слотов
type Query struct {
	Service *domain.Service

	// Фильтр провайдеров; пустой — все провайдеры услуги
	ProviderIDs []int64

	// Фильтр локаций; пустой — все локации
	LocationIDs []int64

	FromDate time.Time
	ToDate   time.Time

	// Шаг дискретизации в минутах; 0 — значение по умолчанию
	StepMinutes int

	// Отбрасывать слоты раньше now + timeBeforeBooking
	SinceNow bool

	// Опускать дни без слотов
	SkipEmptyDays bool

	Format Format

	// Позиции корзины, блокирующие время до сохранения
	CartItems []CartItem

	// Исключить резервации этих бронирований из блокирующих
	// (собственная корзина пользователя уже учтена в CartItems)
	ExcludeBookingIDs []int64
}

// SingleSlotQuery запрос на проверку одного конкретного слота
type SingleSlotQuery struct {
	Service    *domain.Service
	ProviderID int64
	LocationID int64
	Date       time.Time
	StartTime  types.TimeString

	CartItems         []CartItem
	ExcludeBookingIDs []int64
}

// DaySlots слоты одного дня, отсортированные по времени начала
type DaySlots struct {
	Date  time.Time
	Slots []domain.AvailableSlot
}

// Result результат агрегации слотов; дни отсортированы по возрастанию
type Result struct {
	Days []DaySlots
}

// IsEmpty возвращает true, если результат не содержит ни одного слота
func (r *Result) IsEmpty() bool {
	for _, day := range r.Days {
		if len(day.Slots) > 0 {
			return false
		}
	}
	return true
}
