// Package middleware содержит middleware для проверки прав администратора.
package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"pantrybot/internal/config"
)

// AdminOnlyMiddleware ограничивает доступ только администратору.
// Пустое имя администратора отключает проверку: бот остается
// открытым для всех членов домохозяйства.
func AdminOnlyMiddleware(adminUsername string, logger *zap.Logger) func(update tgbotapi.Update, next func(tgbotapi.Update)) {
	return func(update tgbotapi.Update, next func(tgbotapi.Update)) {
		if adminUsername == "" || update.Message == nil {
			next(update)
			return
		}

		if update.Message.From == nil {
			logger.Warn("No user information in message")
			return
		}

		if update.Message.From.UserName != adminUsername {
			user := getUserIdentifier(update.Message.From)
			logger.Warn("Unauthorized access attempt",
				zap.String("command", update.Message.Command()),
				zap.String("user", user),
				zap.String("expected_admin", adminUsername))
			return
		}

		next(update)
	}
}

// AdminOnlyMiddlewareWithConfig ограничивает доступ только администратору с использованием конфигурации
func AdminOnlyMiddlewareWithConfig(config *config.Config, logger *zap.Logger) func(update tgbotapi.Update, next func(tgbotapi.Update)) {
	return AdminOnlyMiddleware(config.AdminUsername, logger)
}
