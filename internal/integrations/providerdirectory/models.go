package providerdirectory

// Provider модель провайдера из справочника
type Provider struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	IsActive    bool    `json:"is_active"`
	LocationIDs []int64 `json:"location_ids"`
	Timezone    string  `json:"timezone"`
}

// ErrorResponse модель ошибки от справочника провайдеров
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
