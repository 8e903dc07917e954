package get_available_slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// SlotsQueryRequest HTTP request model для POST запроса слотов с корзиной
type SlotsQueryRequest struct {
	ProviderIDs   []int64         `json:"providerIds,omitempty"`
	LocationIDs   []int64         `json:"locationIds,omitempty"`
	FromDate      string          `json:"fromDate"`           // "2025-11-03"
	ToDate        string          `json:"toDate,omitempty"`   // "2025-11-10"
	StepMinutes   int             `json:"stepMinutes,omitempty"`
	Detailed      bool            `json:"detailed,omitempty"`
	SkipEmptyDays bool            `json:"skipEmptyDays,omitempty"`
	SinceNow      *bool           `json:"sinceNow,omitempty"` // по умолчанию true
	CartItems     []CartItemModel `json:"cartItems,omitempty"`

	ExcludeBookingIDs []int64 `json:"excludeBookingIds,omitempty"`
}

// CartItemModel позиция корзины в HTTP запросе
type CartItemModel struct {
	ProviderID int64  `json:"providerId"`
	Date       string `json:"date"`      // "2025-11-03"
	StartTime  string `json:"startTime"` // "10:00"
}

// SlotsResponse HTTP response model
type SlotsResponse struct {
	ServiceID int64      `json:"serviceId"`
	FromDate  string     `json:"fromDate"`
	ToDate    string     `json:"toDate"`
	Days      []DayModel `json:"days"`
}

// DayModel слоты одного дня
type DayModel struct {
	Date  string      `json:"date"`
	Slots []SlotModel `json:"slots"`
}

// SlotModel временной слот
type SlotModel struct {
	StartTime       string        `json:"startTime"`
	DurationMinutes int           `json:"durationMinutes"`
	AvailableSpots  int           `json:"availableSpots"`
	TotalSpots      int           `json:"totalSpots"`
	Options         []OptionModel `json:"options,omitempty"`
}

// OptionModel пара (провайдер, локация)
type OptionModel struct {
	ProviderID int64 `json:"providerId"`
	LocationID int64 `json:"locationId"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SlotsQueryRequest) ToUseCaseRequest(serviceID, userID int64) (*getSlots.Request, error) {
	fromDate, err := time.Parse(domain.DateFormat, r.FromDate)
	if err != nil {
		return nil, fmt.Errorf("fromDate: %v", err)
	}

	var toDate time.Time
	if r.ToDate != "" {
		toDate, err = time.Parse(domain.DateFormat, r.ToDate)
		if err != nil {
			return nil, fmt.Errorf("toDate: %v", err)
		}
	}

	cartItems := make([]getSlots.CartItemInput, 0, len(r.CartItems))
	for i, item := range r.CartItems {
		date, err := time.Parse(domain.DateFormat, item.Date)
		if err != nil {
			return nil, fmt.Errorf("cartItems[%d].date: %v", i, err)
		}
		startTime, err := types.NewTimeStringFromString(item.StartTime)
		if err != nil {
			return nil, fmt.Errorf("cartItems[%d].startTime: %v", i, err)
		}
		cartItems = append(cartItems, getSlots.CartItemInput{
			ProviderID: item.ProviderID,
			Date:       date,
			StartTime:  startTime,
		})
	}

	// Фильтр lead time включен по умолчанию: выключается только явно
	sinceNow := true
	if r.SinceNow != nil {
		sinceNow = *r.SinceNow
	}

	return &getSlots.Request{
		UserID:            userID,
		ServiceID:         serviceID,
		ProviderIDs:       r.ProviderIDs,
		LocationIDs:       r.LocationIDs,
		FromDate:          fromDate,
		ToDate:            toDate,
		StepMinutes:       r.StepMinutes,
		Detailed:          r.Detailed,
		SkipEmptyDays:     r.SkipEmptyDays,
		SinceNow:          sinceNow,
		CartItems:         cartItems,
		ExcludeBookingIDs: r.ExcludeBookingIDs,
	}, nil
}

// FromQueryParams собирает SlotsQueryRequest из query параметров GET запроса
func FromQueryParams(query map[string][]string) (*SlotsQueryRequest, error) {
	get := func(key string) string {
		if values := query[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}

	req := &SlotsQueryRequest{
		FromDate: get("fromDate"),
		ToDate:   get("toDate"),
	}

	var err error
	if req.ProviderIDs, err = parseIDList(get("providerIds")); err != nil {
		return nil, fmt.Errorf("providerIds: %v", err)
	}
	if req.LocationIDs, err = parseIDList(get("locationIds")); err != nil {
		return nil, fmt.Errorf("locationIds: %v", err)
	}

	if raw := get("stepMinutes"); raw != "" {
		if req.StepMinutes, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("stepMinutes: %v", err)
		}
	}

	req.Detailed = get("detailed") == "true"
	req.SkipEmptyDays = get("skipEmptyDays") == "true"

	if raw := get("sinceNow"); raw != "" {
		sinceNow := raw == "true"
		req.SinceNow = &sinceNow
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlots.Response) *SlotsResponse {
	out := &SlotsResponse{
		ServiceID: resp.ServiceID,
		FromDate:  resp.FromDate.Format(domain.DateFormat),
		ToDate:    resp.ToDate.Format(domain.DateFormat),
		Days:      make([]DayModel, 0, len(resp.Days)),
	}

	for _, day := range resp.Days {
		dayModel := DayModel{
			Date:  day.Date.Format(domain.DateFormat),
			Slots: make([]SlotModel, 0, len(day.Slots)),
		}
		for _, slot := range day.Slots {
			slotModel := SlotModel{
				StartTime:       slot.StartTime.String(),
				DurationMinutes: slot.DurationMinutes,
				AvailableSpots:  slot.AvailableSpots,
				TotalSpots:      slot.TotalSpots,
			}
			for _, opt := range slot.Options {
				slotModel.Options = append(slotModel.Options, OptionModel{
					ProviderID: opt.ProviderID,
					LocationID: opt.LocationID,
				})
			}
			dayModel.Slots = append(dayModel.Slots, slotModel)
		}
		out.Days = append(out.Days, dayModel)
	}

	return out
}

// parseIDList разбирает список ID из строки вида "1,2,3"
func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
