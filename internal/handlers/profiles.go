package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"pantrybot/internal/model"
)

// Profiles показывает сохраненные профили подключения
func (h *Handlers) Profiles(message *tgbotapi.Message) {
	profiles, err := h.services.Registry.List(context.Background())
	if err != nil {
		h.sendServiceError(message.Chat.ID, err)
		return
	}

	if len(profiles) == 0 {
		h.sendMessage(message.Chat.ID, "📭 Нет сохраненных профилей. Выполните /check для сохранения текущей конфигурации")
		return
	}

	active := h.services.Session.Snapshot()

	var sb strings.Builder
	sb.WriteString("💾 Сохраненные профили:\n\n")
	for i, profile := range profiles {
		marker := " "
		if profile.SameConnection(active) {
			marker = "▶"
		}
		name := profile.EntityName
		if name == "" {
			name = profile.EntityID
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s — %s\n", marker, i+1, name, profile.APIURL))
	}
	sb.WriteString("\nПереключение: /use <номер>, удаление: /forget <номер>")

	h.sendMessage(message.Chat.ID, sb.String())
}

// Use обрабатывает команду /use: переключение на профиль по номеру
func (h *Handlers) Use(message *tgbotapi.Message) {
	ctx := context.Background()

	profile, ok := h.profileByIndex(ctx, message)
	if !ok {
		return
	}

	if err := h.services.Registry.Select(ctx, h.services.Session, profile); err != nil {
		h.sendServiceError(message.Chat.ID, err)
		return
	}

	name := profile.EntityName
	if name == "" {
		name = profile.EntityID
	}
	h.sendMessage(message.Chat.ID, fmt.Sprintf("✅ Профиль %s активирован", name))
}

// Forget обрабатывает команду /forget: удаление профиля по номеру
func (h *Handlers) Forget(message *tgbotapi.Message) {
	ctx := context.Background()

	profile, ok := h.profileByIndex(ctx, message)
	if !ok {
		return
	}

	removed, err := h.services.Registry.Remove(ctx, profile)
	if err != nil {
		h.sendServiceError(message.Chat.ID, err)
		return
	}

	if !removed {
		h.sendMessage(message.Chat.ID, "Профиль уже удален")
		return
	}

	h.logger.Info("Profile removed",
		zap.String("api_url", profile.APIURL),
		zap.String("entity_id", profile.EntityID))
	h.sendMessage(message.Chat.ID, "🗑 Профиль удален")
}

// profileByIndex разбирает номер профиля из аргументов команды.
// Нумерация для пользователя начинается с единицы.
func (h *Handlers) profileByIndex(ctx context.Context, message *tgbotapi.Message) (model.ConfigProfile, bool) {
	arg := strings.TrimSpace(message.CommandArguments())

	index, err := strconv.Atoi(arg)
	if err != nil || index < 1 {
		h.sendMessage(message.Chat.ID, fmt.Sprintf("Использование: /%s <номер>", message.Command()))
		return model.ConfigProfile{}, false
	}

	profiles, listErr := h.services.Registry.List(ctx)
	if listErr != nil {
		h.sendServiceError(message.Chat.ID, listErr)
		return model.ConfigProfile{}, false
	}

	if index > len(profiles) {
		h.sendMessage(message.Chat.ID, fmt.Sprintf("Нет профиля с номером %d, всего профилей: %d", index, len(profiles)))
		return model.ConfigProfile{}, false
	}

	return profiles[index-1], true
}
