package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	getSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidServiceID    = "некорректный ID услуги"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidParams       = "некорректные параметры запроса"
	msgServiceNotFound     = "услуга не найдена"
	msgProviderNotEligible = "провайдер не оказывает эту услугу"
	msgInvalidDate         = "некорректная дата запроса"
	msgInvalidDateRange    = "некорректный диапазон дат"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/slots
// Query params: providerIds, locationIds, fromDate, toDate, stepMinutes,
// detailed, skipEmptyDays (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := h.parseServiceID(w, r)
	if !ok {
		return
	}

	req, err := FromQueryParams(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /services/{id}/slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	h.execute(w, r, serviceID, req)
}

// HandleQuery POST /api/v1/services/{serviceId}/slots/query
// Вариант с телом запроса: принимает позиции корзины, блокирующие время
// до сохранения, и исключаемые бронирования
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := h.parseServiceID(w, r)
	if !ok {
		return
	}

	var req SlotsQueryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /services/{id}/slots/query - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	h.execute(w, r, serviceID, &req)
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request, serviceID int64, req *SlotsQueryRequest) {
	// userID опционален: выдача слотов доступна и анонимным запросам
	userID, _ := middleware.GetUserID(r.Context())

	useCaseReq, err := req.ToUseCaseRequest(serviceID, userID)
	if err != nil {
		h.logger.Warn("GET /services/{id}/slots - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getSlots.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/slots - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getSlots.ErrProviderNotEligible):
			h.logger.Warn("GET /services/{id}/slots - Provider not eligible: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgProviderNotEligible)

		case errors.Is(err, getSlots.ErrInvalidDate):
			h.logger.Warn("GET /services/{id}/slots - Invalid date: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getSlots.ErrInvalidDateRange):
			h.logger.Warn("GET /services/{id}/slots - Invalid date range: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, getSlots.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/slots - Invalid input: service_id=%d, error=%v", serviceID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /services/{id}/slots - Failed to get slots: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/slots - Slots retrieved successfully: service_id=%d, days=%d",
		serviceID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func (h *Handler) parseServiceID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	vars := mux.Vars(r)
	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return 0, false
	}
	return serviceID, true
}
