package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"pantrybot/internal/binding"
	"pantrybot/internal/model"
	"pantrybot/internal/session"
)

type itemsFixture struct {
	service  *ItemsService
	products *binding.Binding[[]model.TodoItem]
	store    *memStore
	ha       *fakeHA
}

func newItemsFixture(t *testing.T, configured bool) *itemsFixture {
	t.Helper()

	logger := zap.NewNop()
	store := newMemStore()
	cache := binding.NewCache(store, logger)
	sessionManager := session.NewManager(cache, logger)

	if configured {
		if err := sessionManager.Apply(context.Background(), model.ConfigProfile{
			APIURL:   "http://ha.local:8123",
			Token:    "secret",
			EntityID: "todo.fridge",
		}); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
	}

	ha := &fakeHA{}
	products := binding.New(cache, model.KeyProducts, []model.TodoItem(nil))
	service := NewItemsService(sessionManager, ha, products, logger)
	// Фиксированное "сегодня" для детерминированных проверок дат
	service.now = func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	}

	return &itemsFixture{
		service:  service,
		products: products,
		store:    store,
		ha:       ha,
	}
}

func TestItemsService_AddRequiresConfiguration(t *testing.T) {
	f := newItemsFixture(t, false)

	err := f.service.Add(context.Background(), "milk", "", "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Add() error = %v, want ErrNotConfigured", err)
	}
}

func TestItemsService_AddDefaultsDueDateToToday(t *testing.T) {
	f := newItemsFixture(t, true)

	if err := f.service.Add(context.Background(), "milk", "dairy", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if len(f.ha.addCalls) != 1 {
		t.Fatalf("len(addCalls) = %d, want 1", len(f.ha.addCalls))
	}
	call := f.ha.addCalls[0]
	if call.DueDate != "2026-08-31" {
		t.Errorf("DueDate = %q, want today", call.DueDate)
	}
	if call.EntityID != "todo.fridge" {
		t.Errorf("EntityID = %q", call.EntityID)
	}
	if call.Description != "dairy" {
		t.Errorf("Description = %q", call.Description)
	}
	if len(f.ha.updateCalls) != 0 {
		t.Errorf("len(updateCalls) = %d, want 0 for non-past date", len(f.ha.updateCalls))
	}
}

func TestItemsService_AddFutureDueDate(t *testing.T) {
	f := newItemsFixture(t, true)

	if err := f.service.Add(context.Background(), "milk", "", "2026-09-15"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if f.ha.addCalls[0].DueDate != "2026-09-15" {
		t.Errorf("DueDate = %q, want future date unchanged", f.ha.addCalls[0].DueDate)
	}
	if len(f.ha.updateCalls) != 0 {
		t.Errorf("len(updateCalls) = %d, want 0", len(f.ha.updateCalls))
	}
}

func TestItemsService_AddPastDueDateClampsAndRestores(t *testing.T) {
	f := newItemsFixture(t, true)

	if err := f.service.Add(context.Background(), "old yogurt", "", "2026-08-15"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// Добавление идет с сегодняшней датой: Home Assistant отклоняет
	// даты в прошлом
	if got := f.ha.addCalls[0].DueDate; got != "2026-08-31" {
		t.Errorf("add DueDate = %q, want clamped to today", got)
	}

	// Исходная дата восстанавливается через update_item
	if len(f.ha.updateCalls) != 1 {
		t.Fatalf("len(updateCalls) = %d, want 1", len(f.ha.updateCalls))
	}
	update := f.ha.updateCalls[0]
	if update.DueDate != "2026-08-15" {
		t.Errorf("update DueDate = %q, want original past date", update.DueDate)
	}
	if update.Item != "old yogurt" {
		t.Errorf("update Item = %q", update.Item)
	}
}

func TestItemsService_AddValidation(t *testing.T) {
	tests := []struct {
		name    string
		item    string
		dueDate string
	}{
		{name: "empty item", item: "", dueDate: ""},
		{name: "malformed date", item: "milk", dueDate: "31-08-2026"},
		{name: "impossible date", item: "milk", dueDate: "2026-02-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newItemsFixture(t, true)

			err := f.service.Add(context.Background(), tt.item, "", tt.dueDate)
			if err == nil {
				t.Fatal("Expected validation error")
			}

			var errs model.ValidationErrors
			if !errors.As(err, &errs) {
				t.Errorf("error = %v, want ValidationErrors", err)
			}
			if len(f.ha.addCalls) != 0 {
				t.Errorf("len(addCalls) = %d, want 0", len(f.ha.addCalls))
			}
		})
	}
}

func TestItemsService_ListRequiresConfiguration(t *testing.T) {
	f := newItemsFixture(t, false)

	_, err := f.service.List(context.Background())
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("List() error = %v, want ErrNotConfigured", err)
	}
}

func TestItemsService_ListCachesItems(t *testing.T) {
	f := newItemsFixture(t, true)
	f.ha.items = []model.TodoItem{
		{Summary: "milk", Due: "2026-09-02", Status: "needs_action"},
		{Summary: "eggs", Status: "needs_action"},
	}

	items, err := f.service.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	// Кэш используется генератором рецептов без похода в сеть
	cached := f.service.CachedItems()
	if len(cached) != 2 || cached[0].Summary != "milk" {
		t.Errorf("CachedItems() = %v", cached)
	}
}

func TestItemsService_ListCacheWriteFailureStillReturnsItems(t *testing.T) {
	f := newItemsFixture(t, true)
	f.ha.items = []model.TodoItem{{Summary: "milk"}}
	f.store.setErr = errors.New("disk full")

	items, err := f.service.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 {
		t.Errorf("len(items) = %d, want 1 despite cache failure", len(items))
	}
}
