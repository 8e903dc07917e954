package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CartItemInput позиция корзины пользователя, блокирующая время до сохранения
type CartItemInput struct {
	ProviderID int64            // ID провайдера
	Date       time.Time        // Дата позиции (без времени)
	StartTime  types.TimeString // Время начала услуги (например, "10:00")
}

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID      int64     // ID пользователя (для логирования, не влияет на результат)
	ServiceID   int64     // ID услуги
	ProviderIDs []int64   // Фильтр провайдеров (опционально)
	LocationIDs []int64   // Фильтр локаций (опционально)
	FromDate    time.Time // Начало диапазона дат (без времени)
	ToDate      time.Time // Конец диапазона дат; нулевая — один день FromDate
	StepMinutes int       // Шаг дискретизации в минутах; 0 — значение по умолчанию

	Detailed      bool // Детальный формат выдачи с парами (провайдер, локация)
	SkipEmptyDays bool // Опускать дни без слотов
	SinceNow      bool // Не предлагать слоты раньше now + timeBeforeBooking

	CartItems         []CartItemInput // Позиции корзины пользователя
	ExcludeBookingIDs []int64         // Бронирования, исключаемые из блокирующих
}

// Response модель ответа со списком доступных слотов по дням
type Response struct {
	ServiceID int64     // ID услуги
	FromDate  time.Time // Начало диапазона
	ToDate    time.Time // Конец диапазона
	Days      []Day     // Дни с доступными слотами
}

// Day слоты одного дня
type Day struct {
	Date  time.Time // Дата
	Slots []Slot    // Слоты, отсортированные по времени начала
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes int              // Длительность слота в минутах
	AvailableSpots  int              // Количество свободных мест
	TotalSpots      int              // Общее количество мест
	Options         []Option         // Заполняется только в детальном формате
}

// Option пара (провайдер, локация), способная обслужить слот
type Option struct {
	ProviderID int64
	LocationID int64
}
