package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CartItemInput другая позиция той же корзины, блокирующая время до сохранения
type CartItemInput struct {
	ProviderID int64            // ID провайдера
	Date       time.Time        // Дата позиции (без времени)
	StartTime  types.TimeString // Время начала услуги (например, "10:00")
}

// Request модель запроса на создание резервации
type Request struct {
	CustomerID int64            // ID клиента
	BookingID  int64            // ID бронирования (чекаут может содержать несколько резерваций)
	ProviderID int64            // ID провайдера
	LocationID int64            // ID локации провайдера
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата резервации (без времени)
	StartTime  types.TimeString // Время начала услуги (например, "10:00")
	Notes      *string          // Дополнительные заметки (опционально)

	// Остальные позиции корзины: блокируют время наравне с резервациями,
	// чтобы две позиции одного чекаута не заняли один слот
	CartItems []CartItemInput
}

// Response модель ответа с созданной резервацией
type Response struct {
	ID         int64 // ID созданной резервации
	BookingID  int64 // ID бронирования
	CustomerID int64 // ID клиента
	ProviderID int64 // ID провайдера
	LocationID int64 // ID локации
	ServiceID  int64 // ID услуги

	Date        time.Time        // Дата резервации
	StartTime   types.TimeString // Время начала услуги
	EndTime     types.TimeString // Время конца услуги
	BufferStart types.TimeString // Начало буферного окна
	BufferEnd   types.TimeString // Конец буферного окна

	Status string // Статус резервации

	// Денормализованные данные
	ServiceName  string  // Название услуги
	ServicePrice float64 // Цена услуги
	Notes        *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления

	// Доменные события, порожденные операцией; диспатчатся вызывающим кодом
	Events []domain.Event
}
