// Package middleware содержит middleware для debounce.
package middleware

import (
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Команды с особыми таймаутами дебаунса. Проверка подключения и
// генерация рецептов ходят во внешние API и не должны запускаться
// повторно, пока предыдущий запрос еще выполняется.
var commandDebounceTimeouts = map[string]time.Duration{
	"check":  5 * time.Second,
	"recipe": 15 * time.Second,
}

// DebouncerInterface определяет интерфейс для debouncer
type DebouncerInterface interface {
	// CanProcessRequest проверяет, можно ли обработать запрос
	CanProcessRequest(key string) bool
	// CanProcessRequestWithTimeout проверяет, можно ли обработать запрос с кастомным таймаутом
	CanProcessRequestWithTimeout(key string, timeout time.Duration) bool
	// Cleanup очищает устаревшие записи
	Cleanup()
}

// Debouncer предотвращает двойные клики с таймаутом контекста
type Debouncer struct {
	requests map[string]time.Time
	mu       sync.RWMutex
	timeout  time.Duration
	logger   *zap.Logger
}

var _ DebouncerInterface = (*Debouncer)(nil)

// NewDebouncer создает новый debouncer
func NewDebouncer(timeout time.Duration, logger *zap.Logger) *Debouncer {
	return &Debouncer{
		requests: make(map[string]time.Time),
		timeout:  timeout,
		logger:   logger,
	}
}

// CanProcessRequest проверяет, можно ли обработать запрос
func (d *Debouncer) CanProcessRequest(key string) bool {
	return d.CanProcessRequestWithTimeout(key, d.timeout)
}

// CanProcessRequestWithTimeout проверяет, можно ли обработать запрос с кастомным таймаутом
func (d *Debouncer) CanProcessRequestWithTimeout(key string, timeout time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	lastRequest, exists := d.requests[key]

	if !exists || now.Sub(lastRequest) > timeout {
		d.requests[key] = now
		return true
	}

	return false
}

// Cleanup очищает устаревшие записи
func (d *Debouncer) Cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	for key, lastRequest := range d.requests {
		if now.Sub(lastRequest) > d.timeout {
			delete(d.requests, key)
		}
	}
}

// DebounceMiddleware предотвращает двойные вызовы команд
func DebounceMiddleware(debouncer DebouncerInterface, logger *zap.Logger) func(update tgbotapi.Update, next func(tgbotapi.Update)) {
	return func(update tgbotapi.Update, next func(tgbotapi.Update)) {
		if update.Message == nil {
			next(update)
			return
		}

		command := update.Message.Command()
		key := fmt.Sprintf("%d:%s", update.Message.Chat.ID, command)

		timeout, hasCustomTimeout := commandDebounceTimeouts[command]
		var canProcess bool

		if hasCustomTimeout {
			canProcess = debouncer.CanProcessRequestWithTimeout(key, timeout)
		} else {
			canProcess = debouncer.CanProcessRequest(key)
		}

		if !canProcess {
			user := getUserIdentifier(update.Message.From)
			logger.Info("Command debounced",
				zap.String("command", command),
				zap.Int64("chat_id", update.Message.Chat.ID),
				zap.String("user", user),
				zap.Int("update_id", update.UpdateID),
				zap.Duration("timeout", timeout))

			return
		}

		next(update)
	}
}
