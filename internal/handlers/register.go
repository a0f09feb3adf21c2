// Package handlers содержит регистрацию маршрутов.
package handlers

import (
	"pantrybot/internal/external/telegram"
	"pantrybot/internal/keyboard"
	"pantrybot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// RegisterRoutes регистрирует все маршруты
func RegisterRoutes(services *service.Services, logger *zap.Logger) *Handlers {
	keyboardManager := keyboard.NewManager(logger)

	// BotAPI будет установлен позже
	return New(services, keyboardManager, logger)
}

// RegisterRoutesWithBotAPI регистрирует все маршруты с BotAPI
func RegisterRoutesWithBotAPI(services *service.Services, logger *zap.Logger, botAPI telegram.BotAPI) *Handlers {
	keyboardManager := keyboard.NewManager(logger)

	handlers := New(services, keyboardManager, logger)
	handlers.SetBotAPI(botAPI)

	return handlers
}

// RegisterBotCommands регистрирует команды бота
func (h *Handlers) RegisterBotCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Начать работу с ботом"},
		{Command: "help", Description: "Показать справку"},
		{Command: "settings", Description: "Текущая конфигурация"},
		{Command: "check", Description: "Проверить подключение"},
		{Command: "profiles", Description: "Сохраненные профили"},
		{Command: "list", Description: "Показать список покупок"},
		{Command: "recipe", Description: "Предложить рецепты"},
		{Command: "scan", Description: "Найти продукт и добавить в список"},
	}
}
