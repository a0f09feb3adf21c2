// Package main запускает Telegram-бота PantryBot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pantrybot/internal/app"
	"pantrybot/internal/config"
	"pantrybot/pkg/logger"
)

func main() {
	// Инициализация логгера
	log := logger.New()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Создание контекста
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обработка сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutdown signal received")
		cancel()
	}()

	// Создание и запуск бота через фабрику
	bot, err := app.NewBotWithFactory(cfg, log)
	if err != nil {
		log.Fatal("Failed to create bot", zap.Error(err))
	}

	// Запуск бота
	if err := bot.Start(ctx); err != nil && err != context.Canceled {
		log.Error("Bot stopped with error", zap.Error(err))
		if stopErr := bot.Stop(); stopErr != nil {
			log.Error("Failed to stop bot", zap.Error(stopErr))
		}
		os.Exit(1)
	}

	if err := bot.Stop(); err != nil {
		log.Error("Failed to stop bot", zap.Error(err))
	}

	log.Info("Bot stopped successfully")
}
