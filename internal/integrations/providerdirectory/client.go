package providerdirectory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы со справочником провайдеров
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента справочника провайдеров
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetProvider получает данные провайдера по ID
func (c *Client) GetProvider(ctx context.Context, providerID int64) (*Provider, error) {
	url := fmt.Sprintf("%s/internal/providers/%d", c.baseURL, providerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid provider ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrProviderNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var provider Provider
	if err := json.NewDecoder(resp.Body).Decode(&provider); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &provider, nil
}

// GetProviderWithGracefulDegradation получает данные провайдера с graceful degradation
// При недоступности справочника возвращает ErrServiceDegraded, что позволяет
// пропустить проверку активности провайдера вместо отказа в бронировании
func (c *Client) GetProviderWithGracefulDegradation(ctx context.Context, providerID int64) (*Provider, error) {
	c.log.Info("Fetching provider provider_id=%d", providerID)

	provider, err := c.GetProvider(ctx, providerID)
	if err != nil {
		// Отсутствие провайдера в справочнике - бизнес-ошибка,
		// пробрасываем её дальше
		if errors.Is(err, ErrProviderNotFound) {
			c.log.Info("Provider not found in directory provider_id=%d", providerID)
			return nil, err
		}

		// Для всех остальных ошибок (недоступность сервиса, timeout, ошибки парсинга и т.д.)
		// применяем graceful degradation - возвращаем ErrServiceDegraded с контекстом
		// Повышаем уровень логирования до ERROR, чтобы быстрее заметить проблему
		c.log.Error("Provider directory unavailable, applying graceful degradation for provider_id=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: provider_id=%d, error=%v", ErrServiceDegraded, providerID, err)
	}

	c.log.Info("Successfully fetched provider provider_id=%d, is_active=%t", providerID, provider.IsActive)
	return provider, nil
}
