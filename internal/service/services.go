// Package service содержит бизнес-логику приложения.
package service

import (
	"context"
	"errors"

	"pantrybot/internal/binding"
	"pantrybot/internal/config"
	"pantrybot/internal/external/homeassistant"
	"pantrybot/internal/external/llm"
	"pantrybot/internal/external/products"
	"pantrybot/internal/model"
	"pantrybot/internal/session"
	"pantrybot/internal/storage"

	"go.uber.org/zap"
)

// Ошибки уровня сервисов, на которые реагируют обработчики.
var (
	// ErrNotConfigured возвращается, когда зависимые от сети действия
	// заблокированы: конфигурация сессии не загружена или неполна.
	ErrNotConfigured = errors.New("session is not configured")
	// ErrNoItems возвращается генератором рецептов при пустом списке.
	ErrNoItems = errors.New("no cached list items")
	// ErrNoAPIKey возвращается, когда ключ LLM API не настроен.
	ErrNoAPIKey = errors.New("LLM API key is not configured")
)

// Services содержит все сервисы приложения
type Services struct {
	Session  *session.Manager
	Registry *session.Registry
	Settings *SettingsService
	Items    *ItemsService
	Recipe   *RecipeService
	Products products.API
}

// NewServices создает все сервисы поверх хранилища и внешних клиентов
func NewServices(db *storage.Postgres, cfg *config.Config, logger *zap.Logger) *Services {
	cache := binding.NewCache(db.GetSettingRepository(), logger)

	sessionManager := session.NewManager(cache, logger)
	registry := session.NewRegistry(db.GetProfileRepository(), logger)

	haClient := homeassistant.NewClient(homeassistant.Config{
		Timeout:               cfg.HTTPClientConfig.RequestTimeout,
		MaxIdleConns:          cfg.HTTPClientConfig.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.HTTPClientConfig.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.HTTPClientConfig.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.HTTPClientConfig.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.HTTPClientConfig.ResponseHeaderTimeout,
		DisableKeepAlives:     cfg.HTTPClientConfig.DisableKeepAlives,
	}, logger)

	llmClient := llm.NewClient(llm.Config{
		BaseURL: cfg.LLMConfig.BaseURL,
		Model:   cfg.LLMConfig.Model,
		Timeout: cfg.LLMConfig.Timeout,
		Delay:   cfg.LLMConfig.Delay,
	}, logger)

	productsClient := products.NewClient(cfg.ProductsBaseURL, cfg.ProductsTimeout, logger)

	productsBinding := binding.New(cache, model.KeyProducts, []model.TodoItem(nil))

	return &Services{
		Session:  sessionManager,
		Registry: registry,
		Settings: NewSettingsService(sessionManager, registry, haClient, logger),
		Items:    NewItemsService(sessionManager, haClient, productsBinding, logger),
		Recipe:   NewRecipeService(productsBinding, binding.New(cache, model.KeyOpenAIKey, ""), llmClient, cfg.LLMConfig.APIKey, logger),
		Products: productsClient,
	}
}

// Load выполняет первоначальную загрузку всех привязок.
// Порядок завершения загрузок не гарантируется, готовность каждой
// привязки отслеживается отдельно.
func (s *Services) Load(ctx context.Context) {
	s.Session.Load(ctx)
	s.Items.Load(ctx)
	s.Recipe.Load(ctx)
}
