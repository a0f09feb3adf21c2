// Package app содержит маршрутизацию команд.
package app

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"pantrybot/internal/config"
	"pantrybot/internal/external/telegram"
	"pantrybot/internal/handlers"
	"pantrybot/internal/middleware"
	"pantrybot/internal/service"
)

// Router обрабатывает маршрутизацию команд
type Router struct {
	handlers   *handlers.Handlers
	middleware *middleware.Middleware
	logger     *zap.Logger
}

// NewRouter создает новый роутер
func NewRouter(services *service.Services, config *config.Config, logger *zap.Logger) *Router {
	return &Router{
		handlers:   handlers.RegisterRoutes(services, logger),
		middleware: middleware.New(config, logger),
		logger:     logger,
	}
}

// NewRouterWithBotAPI создает новый роутер с BotAPI
func NewRouterWithBotAPI(services *service.Services, config *config.Config, logger *zap.Logger, botAPI telegram.BotAPI) *Router {
	return &Router{
		handlers:   handlers.RegisterRoutesWithBotAPI(services, logger, botAPI),
		middleware: middleware.New(config, logger),
		logger:     logger,
	}
}

// HandleUpdate обрабатывает обновление от Telegram
func (r *Router) HandleUpdate(update tgbotapi.Update) {
	// Применяем все middleware
	r.middleware.ProcessWithMiddleware(update, func(update tgbotapi.Update) {
		if update.Message != nil {
			r.handleMessage(update.Message)
		}
	})
}

// handleMessage обрабатывает текстовые сообщения
func (r *Router) handleMessage(message *tgbotapi.Message) {
	if !message.IsCommand() {
		return
	}

	command := strings.ToLower(message.Command())

	switch command {
	case "start":
		r.handlers.Start(message)
	case "help":
		r.handlers.Help(message)
	case "settings":
		r.handlers.Settings(message)
	case "seturl":
		r.adminOnly(message, r.handlers.SetURL)
	case "settoken":
		r.adminOnly(message, r.handlers.SetToken)
	case "setlist":
		r.adminOnly(message, r.handlers.SetList)
	case "check":
		r.adminOnly(message, r.handlers.Check)
	case "hide":
		r.handlers.Hide(message)
	case "setkey":
		r.adminOnly(message, r.handlers.SetKey)
	case "profiles":
		r.handlers.Profiles(message)
	case "use":
		r.adminOnly(message, r.handlers.Use)
	case "forget":
		r.adminOnly(message, r.handlers.Forget)
	case "scan":
		r.handlers.Scan(message)
	case "product":
		r.handlers.Product(message)
	case "add":
		r.handlers.Add(message)
	case "list":
		r.handlers.List(message)
	case "recipe":
		r.handlers.Recipe(message)
	default:
		r.handlers.Unknown(message)
	}
}

// adminOnly пропускает команду через middleware проверки администратора
func (r *Router) adminOnly(message *tgbotapi.Message, handler func(*tgbotapi.Message)) {
	update := tgbotapi.Update{Message: message}
	r.middleware.GetAdminMiddleware()(update, func(update tgbotapi.Update) {
		handler(update.Message)
	})
}

// RegisterBotCommands регистрирует команды бота
func (r *Router) RegisterBotCommands() []tgbotapi.BotCommand {
	return r.handlers.RegisterBotCommands()
}
