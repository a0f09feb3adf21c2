// Package homeassistant реализует клиент для работы с Home Assistant API.
package homeassistant

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"pantrybot/internal/model"

	"go.uber.org/zap"
)

// API интерфейс клиента Home Assistant
type API interface {
	GetState(ctx context.Context, creds Credentials, entityID string) (*State, error)
	AddItem(ctx context.Context, creds Credentials, req AddItemRequest) error
	UpdateItem(ctx context.Context, creds Credentials, req UpdateItemRequest) error
	GetItems(ctx context.Context, creds Credentials, entityID string) ([]model.TodoItem, error)
}

// Client представляет клиент Home Assistant REST API
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

var _ API = (*Client)(nil)

// NewClient создает новый клиент с настроенным пулом соединений
func NewClient(config Config, logger *zap.Logger) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ResponseHeaderTimeout: config.ResponseHeaderTimeout,
		DisableKeepAlives:     config.DisableKeepAlives,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: false,
			MinVersion:         tls.VersionTLS12,
		},
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: logger,
	}
}

// GetState возвращает состояние сущности. Используется проверкой
// соединения для валидации адреса, токена и идентификатора списка.
func (c *Client) GetState(ctx context.Context, creds Credentials, entityID string) (*State, error) {
	url := fmt.Sprintf("%s/api/states/%s", creds.APIURL, entityID)

	body, err := c.do(ctx, http.MethodGet, url, creds.Token, nil)
	if err != nil {
		return nil, err
	}

	var state State
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("failed to decode state response: %w", err)
	}

	return &state, nil
}

// AddItem добавляет элемент в список через сервис todo.add_item
func (c *Client) AddItem(ctx context.Context, creds Credentials, req AddItemRequest) error {
	url := fmt.Sprintf("%s/api/services/todo/add_item", creds.APIURL)

	_, err := c.do(ctx, http.MethodPost, url, creds.Token, req)
	return err
}

// UpdateItem обновляет элемент списка через сервис todo.update_item
func (c *Client) UpdateItem(ctx context.Context, creds Credentials, req UpdateItemRequest) error {
	url := fmt.Sprintf("%s/api/services/todo/update_item", creds.APIURL)

	_, err := c.do(ctx, http.MethodPost, url, creds.Token, req)
	return err
}

// getItemsResponse ответ сервиса todo.get_items c return_response
type getItemsResponse struct {
	ServiceResponse map[string]struct {
		Items []model.TodoItem `json:"items"`
	} `json:"service_response"`
}

// GetItems возвращает элементы списка через сервис todo.get_items
func (c *Client) GetItems(ctx context.Context, creds Credentials, entityID string) ([]model.TodoItem, error) {
	url := fmt.Sprintf("%s/api/services/todo/get_items?return_response", creds.APIURL)

	body, err := c.do(ctx, http.MethodPost, url, creds.Token, map[string]string{
		"entity_id": entityID,
	})
	if err != nil {
		return nil, err
	}

	var response getItemsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode get_items response: %w", err)
	}

	entry, ok := response.ServiceResponse[entityID]
	if !ok {
		return nil, fmt.Errorf("get_items response has no entry for %s", entityID)
	}

	return entry.Items, nil
}

// do выполняет запрос с bearer-авторизацией и возвращает тело ответа
func (c *Client) do(ctx context.Context, method, url, token string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("Sending request to Home Assistant",
		zap.String("method", method),
		zap.String("url", url))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close response body", zap.Error(err))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Home Assistant returned error status",
			zap.Int("status_code", resp.StatusCode),
			zap.String("url", url))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	return body, nil
}
