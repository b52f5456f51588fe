package sensor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Bridge управляет сенсорным мостом через HTTP (Infrastructure Layer).
// Мост принимает POST /start и POST /stop; повторный start или stop
// не является ошибкой (идемпотентность по контракту моста).
type Bridge struct {
	baseURL string
	client  *http.Client
}

// bridgeStatus представляет ответ моста на команды управления
type bridgeStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// NewBridge создает новый клиент сенсорного моста
func NewBridge(baseURL string) *Bridge {
	return &Bridge{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Start включает сбор данных пульса. Вызов при уже запущенном сборе - no-op.
func (b *Bridge) Start(ctx context.Context) error {
	status, err := b.post(ctx, "/start")
	if err != nil {
		return fmt.Errorf("failed to start sensor bridge: %w", err)
	}

	switch status.Status {
	case "started":
		log.Printf("[SENSOR] Bridge acquisition started")
	case "already_running":
		// Уже запущен - идемпотентный вызов
	default:
		return fmt.Errorf("unexpected bridge status: %s", status.Status)
	}

	return nil
}

// Stop выключает сбор данных пульса. Вызов при остановленном сборе - no-op.
func (b *Bridge) Stop(ctx context.Context) error {
	status, err := b.post(ctx, "/stop")
	if err != nil {
		return fmt.Errorf("failed to stop sensor bridge: %w", err)
	}

	switch status.Status {
	case "stopped":
		log.Printf("[SENSOR] Bridge acquisition stopped")
	case "not_running":
		// Уже остановлен - идемпотентный вызов
	default:
		return fmt.Errorf("unexpected bridge status: %s", status.Status)
	}

	return nil
}

func (b *Bridge) post(ctx context.Context, path string) (*bridgeStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Мост отвечает 400 на повторный start/stop, но тело содержит
	// корректный статус - декодируем его в любом случае
	var status bridgeStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode bridge response: %w", err)
	}

	return &status, nil
}
