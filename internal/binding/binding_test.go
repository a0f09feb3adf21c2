package binding

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

// fakeStore реализует Store поверх map с инъекцией ошибок
type fakeStore struct {
	values   map[string]string
	getErr   error
	setErr   error
	getCalls int
	setCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]string)}
}

func (s *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	s.getCalls++
	if s.getErr != nil {
		return "", false, s.getErr
	}
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *fakeStore) Set(_ context.Context, key, value string) error {
	s.setCalls++
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	return nil
}

func TestBinding_DefaultBeforeLoad(t *testing.T) {
	cache := NewCache(newFakeStore(), zap.NewNop())
	b := New(cache, "api_url", "fallback")

	if b.Loaded() {
		t.Error("Expected binding to be not loaded before Load")
	}
	if got := b.Value(); got != "fallback" {
		t.Errorf("Value() = %q, want %q", got, "fallback")
	}
}

func TestBinding_LoadAbsentKey(t *testing.T) {
	cache := NewCache(newFakeStore(), zap.NewNop())
	b := New(cache, "api_url", "fallback")

	b.Load(context.Background())

	if !b.Loaded() {
		t.Error("Expected binding to be loaded after Load")
	}
	if err := b.LoadErr(); err != nil {
		t.Errorf("LoadErr() = %v, want nil", err)
	}
	if got := b.Value(); got != "fallback" {
		t.Errorf("Value() = %q, want default %q", got, "fallback")
	}
}

func TestBinding_SetAndValue(t *testing.T) {
	store := newFakeStore()
	cache := NewCache(store, zap.NewNop())
	b := New(cache, "api_url", "")

	if err := b.Set(context.Background(), "http://ha.local:8123"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if got := b.Value(); got != "http://ha.local:8123" {
		t.Errorf("Value() = %q, want %q", got, "http://ha.local:8123")
	}

	// Значение должно быть JSON-кодированным в хранилище
	if raw := store.values["api_url"]; raw != `"http://ha.local:8123"` {
		t.Errorf("stored raw = %q, want JSON string", raw)
	}

	// Set помечает ключ загруженным: хранилище уже знает значение
	if !b.Loaded() {
		t.Error("Expected binding to be loaded after Set")
	}
}

func TestBinding_LoadOncePerKey(t *testing.T) {
	store := newFakeStore()
	store.values["token"] = `"secret"`
	cache := NewCache(store, zap.NewNop())

	first := New(cache, "token", "")
	second := New(cache, "token", "")

	first.Load(context.Background())
	second.Load(context.Background())

	if store.getCalls != 1 {
		t.Errorf("store.getCalls = %d, want 1", store.getCalls)
	}

	// Обе привязки видят одно значение
	if first.Value() != "secret" || second.Value() != "secret" {
		t.Errorf("bindings disagree: %q vs %q", first.Value(), second.Value())
	}
}

func TestBinding_SetVisibleToSharedBindings(t *testing.T) {
	cache := NewCache(newFakeStore(), zap.NewNop())
	first := New(cache, "entity_id", "")
	second := New(cache, "entity_id", "")

	if err := first.Set(context.Background(), "todo.fridge"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if got := second.Value(); got != "todo.fridge" {
		t.Errorf("shared binding Value() = %q, want %q", got, "todo.fridge")
	}
}

func TestBinding_ReadFailureStillLoaded(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	cache := NewCache(store, zap.NewNop())
	b := New(cache, "api_url", "fallback")

	b.Load(context.Background())

	// Неудачное чтение завершает загрузку, иначе зависимые операции
	// никогда не разблокируются
	if !b.Loaded() {
		t.Error("Expected binding to be loaded after failed read")
	}
	if err := b.LoadErr(); err == nil {
		t.Error("Expected LoadErr to retain the read error")
	}
	if got := b.Value(); got != "fallback" {
		t.Errorf("Value() = %q, want default after failed read", got)
	}
}

func TestBinding_WriteFailureKeepsOldValue(t *testing.T) {
	store := newFakeStore()
	cache := NewCache(store, zap.NewNop())
	b := New(cache, "token", "")

	if err := b.Set(context.Background(), "old"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	store.setErr = errors.New("disk full")
	if err := b.Set(context.Background(), "new"); err == nil {
		t.Fatal("Expected Set to fail")
	}

	// Видимое значение не меняется, пока запись не подтверждена
	if got := b.Value(); got != "old" {
		t.Errorf("Value() = %q, want %q after failed write", got, "old")
	}
}

func TestBinding_UndecodableValueFallsBack(t *testing.T) {
	store := newFakeStore()
	store.values["hide_secrets"] = "not-json"
	cache := NewCache(store, zap.NewNop())
	b := New(cache, "hide_secrets", true)

	b.Load(context.Background())

	if got := b.Value(); got != true {
		t.Errorf("Value() = %v, want default true for undecodable raw", got)
	}
}

func TestBinding_TypedValues(t *testing.T) {
	cache := NewCache(newFakeStore(), zap.NewNop())

	flag := New(cache, "hide_secrets", true)
	if err := flag.Set(context.Background(), false); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if flag.Value() != false {
		t.Error("Expected bool binding to round-trip false")
	}

	type item struct {
		Summary string `json:"summary"`
	}
	list := New(cache, "products", []item(nil))
	if err := list.Set(context.Background(), []item{{Summary: "milk"}}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got := list.Value()
	if len(got) != 1 || got[0].Summary != "milk" {
		t.Errorf("slice binding Value() = %v", got)
	}
}
