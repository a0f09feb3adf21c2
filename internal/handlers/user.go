// Package handlers содержит обработчики пользовательских команд.
package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Start обрабатывает команду /start
func (h *Handlers) Start(message *tgbotapi.Message) {
	text := "Добро пожаловать! Я помогаю вести список покупок в Home Assistant.\n" +
		"Начните с настройки подключения: /help"
	h.sendMessageWithMarkup(message.Chat.ID, text, h.keyboard.MainKeyboard())
}

// Help обрабатывает команду /help
func (h *Handlers) Help(message *tgbotapi.Message) {
	text := "Доступные команды:\n" +
		"\n/settings - Текущая конфигурация подключения\n" +
		"/seturl <url> - Адрес Home Assistant\n" +
		"/settoken <токен> - Токен доступа\n" +
		"/setlist <entity_id> - Идентификатор списка (например todo.fridge)\n" +
		"/check - Проверить подключение и сохранить конфигурацию\n" +
		"/hide - Показать/скрыть секреты в настройках\n" +
		"/setkey <ключ> - Ключ LLM API для рецептов\n" +
		"\n/profiles - Сохраненные профили подключения\n" +
		"/use <номер> - Переключиться на профиль\n" +
		"/forget <номер> - Удалить профиль\n" +
		"\n/product <штрихкод> - Найти продукт по штрихкоду\n" +
		"/scan <штрихкод> - Найти продукт и добавить в список\n" +
		"/add <название> | <описание> | <гггг-мм-дд> - Добавить в список\n" +
		"/list - Показать список\n" +
		"/recipe - Предложить рецепты из списка"
	h.sendMessageWithMarkup(message.Chat.ID, text, h.keyboard.MainKeyboard())
}

// Settings показывает активную конфигурацию сессии
func (h *Handlers) Settings(message *tgbotapi.Message) {
	sess := h.services.Session

	apiURL := sess.APIURL.Value()
	token := sess.Token.Value()
	entityID := sess.EntityID.Value()

	if sess.HideSecrets.Value() {
		apiURL = maskSecret(apiURL)
		token = maskSecret(token)
	} else {
		if apiURL == "" {
			apiURL = "(не задано)"
		}
		if token == "" {
			token = "(не задано)"
		}
	}
	if entityID == "" {
		entityID = "(не задано)"
	}

	entityName := sess.EntityName.Value()
	if entityName == "" {
		entityName = "—"
	}

	ready := "нет"
	if sess.Ready() {
		ready = "да"
	}

	text := "📋 Текущая конфигурация:\n\n" +
		fmt.Sprintf("🌐 Адрес: %s\n", apiURL) +
		fmt.Sprintf("🔑 Токен: %s\n", token) +
		fmt.Sprintf("📝 Список: %s (%s)\n", entityID, entityName) +
		fmt.Sprintf("📡 Состояние: %s\n", sess.Status()) +
		fmt.Sprintf("✅ Готовность: %s", ready)

	h.sendMessage(message.Chat.ID, text)
}

// SetURL обрабатывает команду /seturl
func (h *Handlers) SetURL(message *tgbotapi.Message) {
	value := strings.TrimSpace(message.CommandArguments())
	ctx := context.Background()

	if value == "" {
		if err := h.services.Session.APIURL.Set(ctx, ""); err != nil {
			h.sendServiceError(message.Chat.ID, err)
			return
		}
		h.sendMessage(message.Chat.ID, "🌐 Адрес очищен")
		return
	}

	if err := h.services.Session.APIURL.Set(ctx, strings.TrimRight(value, "/")); err != nil {
		h.sendServiceError(message.Chat.ID, err)
		return
	}
	h.sendMessage(message.Chat.ID, "🌐 Адрес сохранен. Выполните /check для проверки")
}

// SetToken обрабатывает команду /settoken
func (h *Handlers) SetToken(message *tgbotapi.Message) {
	value := strings.TrimSpace(message.CommandArguments())
	ctx := context.Background()

	if err := h.services.Session.Token.Set(ctx, value); err != nil {
		h.sendServiceError(message.Chat.ID, err)
		return
	}

	if value == "" {
		h.sendMessage(message.Chat.ID, "🔑 Токен очищен")
		return
	}
	h.sendMessage(message.Chat.ID, "🔑 Токен сохранен. Выполните /check для проверки")
}

// SetList обрабатывает команду /setlist
func (h *Handlers) SetList(message *tgbotapi.Message) {
	value := strings.TrimSpace(message.CommandArguments())
	ctx := context.Background()

	if value == "" {
		// Очистка идентификатора сбрасывает производные поля
		if err := h.services.Session.ClearEntityID(ctx); err != nil {
			h.sendServiceError(message.Chat.ID, err)
			return
		}
		h.sendMessage(message.Chat.ID, "📝 Список очищен")
		return
	}

	if err := h.services.Session.EntityID.Set(ctx, value); err != nil {
		h.sendServiceError(message.Chat.ID, err)
		return
	}
	h.sendMessage(message.Chat.ID, "📝 Список сохранен. Выполните /check для проверки")
}

// Check обрабатывает команду /check: проверка соединения
func (h *Handlers) Check(message *tgbotapi.Message) {
	sess := h.services.Session

	result, err := h.services.Settings.CheckConnection(
		context.Background(),
		sess.APIURL.Value(),
		sess.Token.Value(),
		sess.EntityID.Value(),
	)
	if err != nil {
		h.logger.Warn("Connection check failed", zap.Error(err))
		h.sendServiceError(message.Chat.ID, err)
		return
	}

	text := fmt.Sprintf("✅ Подключение к %s успешно\n📝 Список: %s (иконка: %s)",
		result.APIURL, result.EntityName, result.EntityIcon)
	if result.ProfileAdded {
		text += "\n💾 Профиль сохранен в реестре"
	}

	h.sendMessage(message.Chat.ID, text)
}

// Hide переключает скрытие секретов в настройках
func (h *Handlers) Hide(message *tgbotapi.Message) {
	sess := h.services.Session
	hide := !sess.HideSecrets.Value()

	if err := sess.HideSecrets.Set(context.Background(), hide); err != nil {
		h.sendServiceError(message.Chat.ID, err)
		return
	}

	if hide {
		h.sendMessage(message.Chat.ID, "🙈 Секреты скрыты")
	} else {
		h.sendMessage(message.Chat.ID, "👁 Секреты показаны")
	}
}

// SetKey сохраняет ключ LLM API
func (h *Handlers) SetKey(message *tgbotapi.Message) {
	key := strings.TrimSpace(message.CommandArguments())

	if err := h.services.Recipe.SetAPIKey(context.Background(), key); err != nil {
		h.sendServiceError(message.Chat.ID, err)
		return
	}

	h.sendMessage(message.Chat.ID, "🔑 Ключ LLM API сохранен")
}

// Product обрабатывает команду /product: поиск по штрихкоду
func (h *Handlers) Product(message *tgbotapi.Message) {
	barcode := strings.TrimSpace(message.CommandArguments())
	if barcode == "" {
		h.sendMessage(message.Chat.ID, "Использование: /product <штрихкод>")
		return
	}

	product, err := h.services.Products.GetProduct(context.Background(), barcode)
	if err != nil {
		h.logger.Warn("Product lookup failed",
			zap.String("barcode", barcode),
			zap.Error(err))
		h.sendServiceError(message.Chat.ID, err)
		return
	}

	text := fmt.Sprintf("🛒 %s\n🏷 %s", product.Name, product.Description)
	if product.ImageURL != "" {
		text += "\n🖼 " + product.ImageURL
	}
	text += fmt.Sprintf("\n\nДобавить: /scan %s", barcode)

	h.sendMessage(message.Chat.ID, text)
}

// Scan обрабатывает команду /scan: поиск по штрихкоду и добавление
func (h *Handlers) Scan(message *tgbotapi.Message) {
	barcode := strings.TrimSpace(message.CommandArguments())
	if barcode == "" {
		h.sendMessage(message.Chat.ID, "Использование: /scan <штрихкод>")
		return
	}

	ctx := context.Background()

	product, err := h.services.Products.GetProduct(ctx, barcode)
	if err != nil {
		h.logger.Warn("Product lookup failed",
			zap.String("barcode", barcode),
			zap.Error(err))
		h.sendServiceError(message.Chat.ID, err)
		return
	}

	if err := h.services.Items.Add(ctx, product.Name, product.Description, ""); err != nil {
		h.sendServiceError(message.Chat.ID, err)
		return
	}

	h.sendMessage(message.Chat.ID, fmt.Sprintf("✅ %s добавлен в список", product.Name))
}

// Add обрабатывает команду /add: название | описание | срок
func (h *Handlers) Add(message *tgbotapi.Message) {
	args := message.CommandArguments()
	if strings.TrimSpace(args) == "" {
		h.sendMessage(message.Chat.ID, "Использование: /add <название> | <описание> | <гггг-мм-дд>")
		return
	}

	parts := strings.SplitN(args, "|", 3)
	name := strings.TrimSpace(parts[0])
	description := ""
	dueDate := ""
	if len(parts) > 1 {
		description = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		dueDate = strings.TrimSpace(parts[2])
	}

	if err := h.services.Items.Add(context.Background(), name, description, dueDate); err != nil {
		h.sendServiceError(message.Chat.ID, err)
		return
	}

	h.sendMessage(message.Chat.ID, fmt.Sprintf("✅ %s добавлен в список", name))
}

// List обрабатывает команду /list
func (h *Handlers) List(message *tgbotapi.Message) {
	items, err := h.services.Items.List(context.Background())
	if err != nil {
		h.sendServiceError(message.Chat.ID, err)
		return
	}

	if len(items) == 0 {
		h.sendMessage(message.Chat.ID, "📭 Список пуст")
		return
	}

	entityName := h.services.Session.EntityName.Value()
	if entityName == "" {
		entityName = h.services.Session.EntityID.Value()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 %s:\n\n", entityName))
	for _, item := range items {
		if item.Due != "" {
			sb.WriteString(fmt.Sprintf("• %s (до %s)\n", item.Summary, item.Due))
		} else {
			sb.WriteString(fmt.Sprintf("• %s\n", item.Summary))
		}
	}

	h.sendMessage(message.Chat.ID, sb.String())
}

// Recipe обрабатывает команду /recipe
func (h *Handlers) Recipe(message *tgbotapi.Message) {
	languageCode := ""
	if message.From != nil {
		languageCode = message.From.LanguageCode
	}

	h.sendMessage(message.Chat.ID, "🍳 Подбираю рецепты из вашего списка...")

	recipe, err := h.services.Recipe.Generate(context.Background(), languageCode)
	if err != nil {
		h.sendServiceError(message.Chat.ID, err)
		return
	}

	h.sendMessage(message.Chat.ID, recipe)
}

// Unknown обрабатывает неизвестные команды
func (h *Handlers) Unknown(message *tgbotapi.Message) {
	h.sendMessage(message.Chat.ID, "Неизвестная команда. Список команд: /help")
}
