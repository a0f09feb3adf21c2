// Package telegram содержит интеграцию с Telegram Bot API.
package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPI определяет интерфейс отправки сообщений и запросов к Telegram.
// Выделен для подмены в тестах обработчиков.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// RouterInterface определяет интерфейс для роутера
type RouterInterface interface {
	HandleUpdate(update tgbotapi.Update)
	RegisterBotCommands() []tgbotapi.BotCommand
}
