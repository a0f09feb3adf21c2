// Package products реализует клиент справочника Open Food Facts.
package products

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pantrybot/internal/model"

	"go.uber.org/zap"
)

// maxCategories ограничивает число категорий в описании продукта
const maxCategories = 3

// API интерфейс поиска продуктов по штрихкоду
type API interface {
	GetProduct(ctx context.Context, barcode string) (*model.Product, error)
}

// Client представляет клиент Open Food Facts v2 API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ API = (*Client)(nil)

// NewClient создает новый клиент справочника продуктов
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// productResponse ответ v2 API на запрос продукта
type productResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductNameFr string `json:"product_name_fr"`
		ProductNameEn string `json:"product_name_en"`
		ProductName   string `json:"product_name"`
		Categories    string `json:"categories"`
		ImageURL      string `json:"image_url"`
	} `json:"product"`
}

// GetProduct возвращает данные продукта по штрихкоду.
// Название выбирается по цепочке fr -> en -> базовое, описание
// собирается из первых трех категорий.
func (c *Client) GetProduct(ctx context.Context, barcode string) (*model.Product, error) {
	url := fmt.Sprintf("%s/api/v2/product/%s", c.baseURL, barcode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug("Looking up product", zap.String("barcode", barcode))

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

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product lookup returned status %d for barcode %s", resp.StatusCode, barcode)
	}

	var response productResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}

	name := response.Product.ProductNameFr
	if name == "" {
		name = response.Product.ProductNameEn
	}
	if name == "" {
		name = response.Product.ProductName
	}
	if name == "" {
		return nil, fmt.Errorf("product %s not found", barcode)
	}

	return &model.Product{
		Barcode:     barcode,
		Name:        name,
		Description: buildDescription(response.Product.Categories),
		ImageURL:    response.Product.ImageURL,
	}, nil
}

// buildDescription собирает описание из первых категорий продукта
func buildDescription(categories string) string {
	if categories == "" {
		return "N/A"
	}

	parts := strings.Split(categories, ",")
	if len(parts) > maxCategories {
		parts = parts[:maxCategories]
	}
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}

	return strings.Join(parts, ", ")
}
