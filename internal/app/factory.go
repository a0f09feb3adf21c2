// Package app содержит фабрику компонентов приложения.
package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"pantrybot/internal/config"
	"pantrybot/internal/external/telegram"
	"pantrybot/internal/health"
	"pantrybot/internal/middleware"
	"pantrybot/internal/service"
	"pantrybot/internal/storage"
)

// ComponentFactory создает компоненты приложения
type ComponentFactory struct {
	config *config.Config
	logger *zap.Logger
}

// NewComponentFactory создает новую фабрику компонентов
func NewComponentFactory(config *config.Config, logger *zap.Logger) *ComponentFactory {
	if config == nil {
		logger.Fatal("Config cannot be nil")
	}
	if logger == nil {
		panic("Logger cannot be nil")
	}

	return &ComponentFactory{
		config: config,
		logger: logger,
	}
}

// CreateDatabase создает подключение к базе данных
func (f *ComponentFactory) CreateDatabase() (*storage.Postgres, error) {
	if f.config.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := storage.NewPostgres(f.config.DatabaseURL, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	f.logger.Info("Database connection created successfully")
	return db, nil
}

// CreateTelegramClient создает клиент Telegram
func (f *ComponentFactory) CreateTelegramClient() (*telegram.Client, error) {
	if f.config.BotToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	client, err := telegram.NewClient(f.config.BotToken, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}

	f.logger.Info("Telegram client created successfully")
	return client, nil
}

// CreateServices создает все сервисы
func (f *ComponentFactory) CreateServices(db *storage.Postgres) (*service.Services, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	services := service.NewServices(db, f.config, f.logger)
	f.logger.Info("Services created successfully")
	return services, nil
}

// CreateMiddleware создает middleware
func (f *ComponentFactory) CreateMiddleware() *middleware.Middleware {
	middlewareManager := middleware.New(f.config, f.logger)
	f.logger.Info("Middleware created successfully")
	return middlewareManager
}

// CreateHealthServer создает сервер health check
func (f *ComponentFactory) CreateHealthServer(db *storage.Postgres, services *service.Services) (*health.Server, error) {
	if !f.config.HealthCheckEnabled {
		f.logger.Info("Health check server is disabled")
		return nil, nil
	}

	if f.config.HealthPort == "" {
		return nil, fmt.Errorf("health port is required when health check is enabled")
	}

	server := health.NewHealthServer(f.config.HealthPort, f.logger, db, services.Session)
	f.logger.Info("Health check server created", zap.String("port", f.config.HealthPort))
	return server, nil
}

// CreateAppDataDirectory создает директорию данных приложения
func (f *ComponentFactory) CreateAppDataDirectory() error {
	dataDir := f.config.GetAppDataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		f.logger.Error("Failed to create app data directory", zap.String("dir", dataDir), zap.Error(err))
		return fmt.Errorf("failed to create app data directory: %w", err)
	}
	f.logger.Info("App data directory ready", zap.String("dir", dataDir))
	return nil
}

// CreateBot создает полный экземпляр бота со всеми зависимостями
func (f *ComponentFactory) CreateBot() (*Bot, error) {
	if err := f.CreateAppDataDirectory(); err != nil {
		return nil, fmt.Errorf("failed to create app data directory: %w", err)
	}

	db, err := f.CreateDatabase()
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	services, err := f.CreateServices(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create services: %w", err)
	}

	tgClient, err := f.CreateTelegramClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}

	healthServer, err := f.CreateHealthServer(db, services)
	if err != nil {
		return nil, fmt.Errorf("failed to create health server: %w", err)
	}

	middlewareManager := f.CreateMiddleware()

	bot, err := NewBot(f.config, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	bot.db = db
	bot.telegram = tgClient
	bot.health = healthServer
	bot.services = services
	bot.middleware = middlewareManager

	f.logger.Info("Bot created successfully with all dependencies")
	return bot, nil
}

// ValidateConfig проверяет конфигурацию на корректность
func (f *ComponentFactory) ValidateConfig() error {
	if f.config == nil {
		return fmt.Errorf("config is nil")
	}

	if err := f.config.Validate(); err != nil {
		return err
	}

	f.logger.Info("Configuration validation passed")
	return nil
}
