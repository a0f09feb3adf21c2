// Package telegram содержит интеграцию с Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Client представляет клиент Telegram Bot API
type Client struct {
	bot    *tgbotapi.BotAPI
	router RouterInterface
	logger *zap.Logger
}

// NewClient создает новый клиент Telegram
func NewClient(botToken string, logger *zap.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	bot.Debug = false
	logger.Info("Telegram bot created", zap.String("username", bot.Self.UserName))

	return &Client{
		bot:    bot,
		logger: logger,
	}, nil
}

// API возвращает низкоуровневый BotAPI для обработчиков
func (c *Client) API() BotAPI {
	return c.bot
}

// Start запускает обработку обновлений
func (c *Client) Start(ctx context.Context, router RouterInterface) error {
	c.router = router

	c.logger.Info("Bot started", zap.String("username", c.bot.Self.UserName))

	// Удаляем webhook если есть
	_, err := c.bot.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true})
	if err != nil {
		c.logger.Error("Failed to delete webhook", zap.Error(err))
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	// Настраиваем команды бота
	commands := c.router.RegisterBotCommands()
	_, err = c.bot.Request(tgbotapi.NewSetMyCommands(commands...))
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return fmt.Errorf("failed to set bot commands: %w", err)
	}

	// Настраиваем long polling
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message"}

	c.logger.Info("Starting to fetch updates")
	updatesChan := c.bot.GetUpdatesChan(u)
	if updatesChan == nil {
		return fmt.Errorf("failed to create updates channel")
	}

	reconnectDelay := 10 * time.Second

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Update loop cancelled by context")
			return ctx.Err()
		case update, ok := <-updatesChan:
			if !ok {
				c.logger.Warn("Update channel closed, will try to reconnect after delay")
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(reconnectDelay):
					return fmt.Errorf("update channel closed, reconnecting")
				}
			}

			c.processUpdate(update)
		}
	}
}

// processUpdate обрабатывает одно обновление
func (c *Client) processUpdate(update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	c.logger.Debug("Received message",
		zap.String("text", update.Message.Text),
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.Int("update_id", update.UpdateID))

	// Пропускаем вложения файлов (не обрабатываем)
	if update.Message.Document != nil {
		return
	}

	// Обрабатываем только команды
	if !update.Message.IsCommand() {
		return
	}

	c.router.HandleUpdate(update)
}
