// Package service содержит бизнес-логику приложения.
package service

import (
	"context"
	"fmt"
	"time"

	"pantrybot/internal/binding"
	"pantrybot/internal/external/homeassistant"
	"pantrybot/internal/model"
	"pantrybot/internal/session"

	"go.uber.org/zap"
)

// ItemsService содержит бизнес-логику работы со списком покупок
type ItemsService struct {
	session  *session.Manager
	ha       homeassistant.API
	products *binding.Binding[[]model.TodoItem]
	logger   *zap.Logger
	now      func() time.Time
}

// NewItemsService создает новый сервис списка
func NewItemsService(sessionManager *session.Manager, ha homeassistant.API, products *binding.Binding[[]model.TodoItem], logger *zap.Logger) *ItemsService {
	return &ItemsService{
		session:  sessionManager,
		ha:       ha,
		products: products,
		logger:   logger,
		now:      time.Now,
	}
}

// Load выполняет первоначальную загрузку кэша элементов списка
func (s *ItemsService) Load(ctx context.Context) {
	s.products.Load(ctx)
}

// CachedItems возвращает последние полученные элементы списка
func (s *ItemsService) CachedItems() []model.TodoItem {
	return s.products.Value()
}

func (s *ItemsService) creds() homeassistant.Credentials {
	return homeassistant.Credentials{
		APIURL: s.session.APIURL.Value(),
		Token:  s.session.Token.Value(),
	}
}

// Add добавляет элемент в список. Прошедшая дата срока годности
// заменяется сегодняшней при добавлении, после чего исходная дата
// восстанавливается через todo.update_item: Home Assistant отклоняет
// добавление с датой в прошлом.
func (s *ItemsService) Add(ctx context.Context, name, description, dueDate string) error {
	if !s.session.Ready() {
		return ErrNotConfigured
	}

	today := s.now().Format("2006-01-02")
	if dueDate == "" {
		dueDate = today
	}

	var errs model.ValidationErrors
	if err := model.ValidateRequired("item", name); err != nil {
		errs = append(errs, err.(model.ValidationError))
	}
	if err := model.ValidateDueDate("due_date", dueDate); err != nil {
		errs = append(errs, err.(model.ValidationError))
	}
	if errs.HasErrors() {
		return errs
	}

	entityID := s.session.EntityID.Value()
	isPastDue := dueDate < today

	effectiveDue := dueDate
	if isPastDue {
		effectiveDue = today
	}

	if err := s.ha.AddItem(ctx, s.creds(), homeassistant.AddItemRequest{
		EntityID:    entityID,
		Item:        name,
		Description: description,
		DueDate:     effectiveDue,
	}); err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}

	if isPastDue {
		if err := s.ha.UpdateItem(ctx, s.creds(), homeassistant.UpdateItemRequest{
			EntityID: entityID,
			Item:     name,
			DueDate:  dueDate,
		}); err != nil {
			return fmt.Errorf("failed to restore past due date: %w", err)
		}
	}

	s.logger.Info("Item added to list",
		zap.String("item", name),
		zap.String("due_date", dueDate),
		zap.Bool("past_due", isPastDue))

	return nil
}

// List запрашивает элементы списка и обновляет локальный кэш,
// которым пользуется генератор рецептов.
func (s *ItemsService) List(ctx context.Context) ([]model.TodoItem, error) {
	if !s.session.Ready() {
		return nil, ErrNotConfigured
	}

	items, err := s.ha.GetItems(ctx, s.creds(), s.session.EntityID.Value())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch list items: %w", err)
	}

	// Ошибка записи кэша не мешает показать полученный список
	if err := s.products.Set(ctx, items); err != nil {
		s.logger.Warn("Failed to cache list items", zap.Error(err))
	}

	return items, nil
}
