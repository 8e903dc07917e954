package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createReservation "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	BookingID  int64   `json:"bookingId"`
	ProviderID int64   `json:"providerId"`
	LocationID int64   `json:"locationId"`
	ServiceID  int64   `json:"serviceId"`
	Date       string  `json:"date"`      // "2025-11-03"
	StartTime  string  `json:"startTime"` // "10:00"
	Notes      *string `json:"notes,omitempty"`

	// Остальные позиции той же корзины
	CartItems []CartItemModel `json:"cartItems,omitempty"`
}

// CartItemModel позиция корзины в HTTP запросе
type CartItemModel struct {
	ProviderID int64  `json:"providerId"`
	Date       string `json:"date"`      // "2025-11-03"
	StartTime  string `json:"startTime"` // "10:00"
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID         int64 `json:"id"`
	BookingID  int64 `json:"bookingId"`
	CustomerID int64 `json:"customerId"`
	ProviderID int64 `json:"providerId"`
	LocationID int64 `json:"locationId"`
	ServiceID  int64 `json:"serviceId"`

	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	BufferStart string `json:"bufferStart"`
	BufferEnd   string `json:"bufferEnd"`

	Status       string  `json:"status"`
	ServiceName  string  `json:"serviceName"`
	ServicePrice float64 `json:"servicePrice"`
	Notes        *string `json:"notes,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(customerID int64) (*createReservation.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %v", err)
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %v", err)
	}

	cartItems := make([]createReservation.CartItemInput, 0, len(r.CartItems))
	for i, item := range r.CartItems {
		itemDate, err := time.Parse(domain.DateFormat, item.Date)
		if err != nil {
			return nil, fmt.Errorf("cartItems[%d].date: %v", i, err)
		}
		itemStart, err := types.NewTimeStringFromString(item.StartTime)
		if err != nil {
			return nil, fmt.Errorf("cartItems[%d].startTime: %v", i, err)
		}
		cartItems = append(cartItems, createReservation.CartItemInput{
			ProviderID: item.ProviderID,
			Date:       itemDate,
			StartTime:  itemStart,
		})
	}

	return &createReservation.Request{
		CustomerID: customerID,
		BookingID:  r.BookingID,
		ProviderID: r.ProviderID,
		LocationID: r.LocationID,
		ServiceID:  r.ServiceID,
		Date:       date,
		StartTime:  startTime,
		Notes:      r.Notes,
		CartItems:  cartItems,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:           resp.ID,
		BookingID:    resp.BookingID,
		CustomerID:   resp.CustomerID,
		ProviderID:   resp.ProviderID,
		LocationID:   resp.LocationID,
		ServiceID:    resp.ServiceID,
		Date:         resp.Date.Format(domain.DateFormat),
		StartTime:    resp.StartTime.String(),
		EndTime:      resp.EndTime.String(),
		BufferStart:  resp.BufferStart.String(),
		BufferEnd:    resp.BufferEnd.String(),
		Status:       resp.Status,
		ServiceName:  resp.ServiceName,
		ServicePrice: resp.ServicePrice,
		Notes:        resp.Notes,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    resp.UpdatedAt.Format(time.RFC3339),
	}
}
