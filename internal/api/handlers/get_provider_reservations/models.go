package get_provider_reservations

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/reservations/models"
)

// ToServiceRequest собирает запрос к сервису из path и query параметров
func ToServiceRequest(providerID, userID int64, locationIDStr, statusStr, fromDateStr, toDateStr, includeInactiveStr string) (*models.GetProviderReservationsRequest, error) {
	req := &models.GetProviderReservationsRequest{
		UserID:     userID,
		ProviderID: providerID,
	}

	if locationIDStr != "" {
		locationID, err := strconv.ParseInt(locationIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("locationId: %v", err)
		}
		req.LocationID = &locationID
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if fromDateStr != "" {
		fromDate, err := time.Parse(domain.DateFormat, fromDateStr)
		if err != nil {
			return nil, fmt.Errorf("fromDate: %v", err)
		}
		req.FromDate = &fromDate
	}

	if toDateStr != "" {
		toDate, err := time.Parse(domain.DateFormat, toDateStr)
		if err != nil {
			return nil, fmt.Errorf("toDate: %v", err)
		}
		req.ToDate = &toDate
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("includeInactive: %v", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
