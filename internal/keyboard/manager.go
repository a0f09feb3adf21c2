// Package keyboard содержит управление клавиатурами бота.
package keyboard

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// ManagerInterface определяет интерфейс менеджера клавиатур
type ManagerInterface interface {
	MainKeyboard() tgbotapi.ReplyKeyboardMarkup
}

// Manager управляет клавиатурами бота
type Manager struct {
	logger *zap.Logger
}

// NewManager создает новый менеджер клавиатур
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		logger: logger,
	}
}

var _ ManagerInterface = (*Manager)(nil)

// MainKeyboard возвращает основную клавиатуру с частыми командами
func (m *Manager) MainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/list"),
			tgbotapi.NewKeyboardButton("/recipe"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/settings"),
			tgbotapi.NewKeyboardButton("/profiles"),
			tgbotapi.NewKeyboardButton("/help"),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}
