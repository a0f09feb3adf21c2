// Package handlers содержит обработчики команд.
package handlers

import (
	"errors"
	"fmt"
	"strings"

	"pantrybot/internal/external/homeassistant"
	"pantrybot/internal/external/telegram"
	"pantrybot/internal/keyboard"
	"pantrybot/internal/model"
	"pantrybot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Handlers содержит все обработчики команд
type Handlers struct {
	services *service.Services
	logger   *zap.Logger
	keyboard keyboard.ManagerInterface
	botAPI   telegram.BotAPI
}

// New создает новый экземпляр обработчиков
func New(services *service.Services, keyboard keyboard.ManagerInterface, logger *zap.Logger) *Handlers {
	return &Handlers{
		services: services,
		logger:   logger,
		keyboard: keyboard,
	}
}

// SetBotAPI устанавливает API для отправки сообщений
func (h *Handlers) SetBotAPI(botAPI telegram.BotAPI) {
	h.botAPI = botAPI
}

// sendMessage отправляет текстовое сообщение
func (h *Handlers) sendMessage(chatID int64, text string) {
	if h.botAPI == nil {
		h.logger.Error("Bot API is not set, message dropped", zap.Int64("chat_id", chatID))
		return
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.botAPI.Send(msg); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

// sendMessageWithMarkup отправляет сообщение с клавиатурой
func (h *Handlers) sendMessageWithMarkup(chatID int64, text string, markup tgbotapi.ReplyKeyboardMarkup) {
	if h.botAPI == nil {
		h.logger.Error("Bot API is not set, message dropped", zap.Int64("chat_id", chatID))
		return
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := h.botAPI.Send(msg); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

// sendServiceError переводит ошибку сервиса в понятное пользователю сообщение.
// Каждое инициированное пользователем сетевое действие сообщает о неудаче.
func (h *Handlers) sendServiceError(chatID int64, err error) {
	var statusErr *homeassistant.StatusError
	var validationErrs model.ValidationErrors

	switch {
	case errors.Is(err, service.ErrNotConfigured):
		h.sendMessage(chatID, "⚙️ Подключение не настроено. Задайте адрес, токен и список:\n/seturl, /settoken, /setlist, затем /check")
	case errors.Is(err, service.ErrNoItems):
		h.sendMessage(chatID, "📭 Локальный кэш списка пуст. Сначала выполните /list")
	case errors.Is(err, service.ErrNoAPIKey):
		h.sendMessage(chatID, "🔑 Ключ LLM API не настроен. Сохраните его командой /setkey <ключ>")
	case errors.As(err, &validationErrs):
		lines := make([]string, 0, len(validationErrs))
		for _, ve := range validationErrs {
			lines = append(lines, fmt.Sprintf("• %s: %s", ve.Field, ve.Message))
		}
		h.sendMessage(chatID, "⚠️ Проверьте введенные данные:\n"+strings.Join(lines, "\n"))
	case errors.As(err, &statusErr):
		h.sendMessage(chatID, fmt.Sprintf("❌ Сервис ответил ошибкой: %s", statusErr.Status))
	default:
		h.sendMessage(chatID, fmt.Sprintf("❌ Ошибка: %v", err))
	}
}

// maskSecret скрывает секретное значение, оставляя хвост для опознания
func maskSecret(value string) string {
	if value == "" {
		return "(не задано)"
	}
	if len(value) <= 4 {
		return "••••"
	}
	return "••••" + value[len(value)-4:]
}
