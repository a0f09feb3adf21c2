// Package llm реализует клиент для работы с LLM API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// maxContinuations ограничивает число продолжений обрезанного ответа
const maxContinuations = 3

// Client представляет клиент для работы с LLM API
type Client struct {
	baseURL     string
	model       string
	httpClient  *http.Client
	logger      *zap.Logger
	delay       time.Duration
	lastRequest time.Time
	mu          sync.Mutex
	// Метрики
	requestCount    int64
	successCount    int64
	errorCount      int64
	lastRequestTime time.Time
}

// Config конфигурация для LLM клиента
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	Delay   time.Duration
}

// Request структура запроса к LLM
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream"`
}

// Message сообщение в чате
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response ответ от LLM
type Response struct {
	Choices []Choice `json:"choices"`
}

// Choice выбор из ответа
type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// NewClient создает новый LLM клиент
func NewClient(config Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL: config.BaseURL,
		model:   config.Model,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:      logger,
		delay:       config.Delay,
		lastRequest: time.Time{},
	}
}

// Complete выполняет chat completion. API-ключ передается в вызов:
// пользователь может сменить сохраненный ключ без перезапуска бота.
// Если ответ обрезан по длине, он продолжается follow-up запросами,
// а части склеиваются.
func (c *Client) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	if err := c.enforceRateLimit(); err != nil {
		return "", fmt.Errorf("rate limit enforcement failed: %w", err)
	}

	c.logger.Info("Sending completion request to LLM",
		zap.Int("prompt_length", len(prompt)))

	parts := make([]string, 0, 1)
	current := prompt

	for i := 0; i <= maxContinuations; i++ {
		content, finishReason, err := c.sendRequest(ctx, apiKey, current)
		if err != nil {
			c.incrementError()
			return "", fmt.Errorf("failed to send request to LLM: %w", err)
		}

		parts = append(parts, content)

		if finishReason != "length" {
			break
		}

		// Ответ обрезан: продолжаем с уже полученного текста
		c.logger.Debug("Completion truncated, requesting continuation",
			zap.Int("continuation", i+1))
		current = content
	}

	c.incrementSuccess()

	result := ""
	for _, part := range parts {
		result += part
	}

	c.logger.Info("Received completion from LLM",
		zap.Int("response_length", len(result)),
		zap.Int("parts", len(parts)))

	return result, nil
}

// enforceRateLimit применяет задержку между запросами
func (c *Client) enforceRateLimit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if !c.lastRequest.IsZero() {
		elapsed := now.Sub(c.lastRequest)
		if elapsed < c.delay {
			sleepDuration := c.delay - elapsed
			c.logger.Debug("Rate limiting: sleeping",
				zap.Duration("sleep_duration", sleepDuration),
				zap.Duration("delay", c.delay))
			time.Sleep(sleepDuration)
		}
	}

	c.lastRequest = time.Now()
	c.requestCount++
	c.lastRequestTime = now
	return nil
}

// GetMetrics возвращает метрики LLM клиента
func (c *Client) GetMetrics() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	return map[string]interface{}{
		"total_requests":      c.requestCount,
		"successful_requests": c.successCount,
		"failed_requests":     c.errorCount,
		"last_request_time":   c.lastRequestTime,
		"delay_ms":            c.delay.Milliseconds(),
	}
}

// incrementSuccess увеличивает счетчик успешных запросов
func (c *Client) incrementSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successCount++
}

// incrementError увеличивает счетчик неудачных запросов
func (c *Client) incrementError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorCount++
}

// sendRequest отправляет один запрос к LLM API
func (c *Client) sendRequest(ctx context.Context, apiKey, prompt string) (string, string, error) {
	request := Request{
		Model: c.model,
		Messages: []Message{
			{
				Role:    "developer",
				Content: prompt,
			},
		},
		Stream: false,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	c.logger.Debug("Sending request to LLM", zap.String("url", req.URL.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close response body", zap.Error(err))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("LLM API returned status %d: %s", resp.StatusCode, string(body))
	}

	var response Response
	if err := json.Unmarshal(body, &response); err != nil {
		return "", "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", "", fmt.Errorf("LLM response has no choices")
	}

	choice := response.Choices[0]
	return choice.Message.Content, choice.FinishReason, nil
}
