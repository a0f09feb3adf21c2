package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"pantrybot/internal/binding"
	"pantrybot/internal/external/homeassistant"
	"pantrybot/internal/model"
	"pantrybot/internal/session"
)

// memStore реализует binding.Store в памяти
type memStore struct {
	values map[string]string
	setErr error
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (s *memStore) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	return nil
}

// memProfileRepo реализует model.ProfileRepository в памяти
type memProfileRepo struct {
	profiles []model.ConfigProfile
	addErr   error
}

func (r *memProfileRepo) List(_ context.Context) ([]model.ConfigProfile, error) {
	return r.profiles, nil
}

func (r *memProfileRepo) Add(_ context.Context, profile model.ConfigProfile) (bool, error) {
	if r.addErr != nil {
		return false, r.addErr
	}
	for _, existing := range r.profiles {
		if existing.SameConnection(profile) {
			return false, nil
		}
	}
	r.profiles = append(r.profiles, profile)
	return true, nil
}

func (r *memProfileRepo) Remove(_ context.Context, profile model.ConfigProfile) (bool, error) {
	for i, existing := range r.profiles {
		if existing.SameConnection(profile) {
			r.profiles = append(r.profiles[:i], r.profiles[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fakeHA реализует homeassistant.API с записью вызовов
type fakeHA struct {
	state       *homeassistant.State
	stateErr    error
	getStates   int
	addCalls    []homeassistant.AddItemRequest
	addErr      error
	updateCalls []homeassistant.UpdateItemRequest
	updateErr   error
	items       []model.TodoItem
	itemsErr    error
}

func (f *fakeHA) GetState(_ context.Context, _ homeassistant.Credentials, _ string) (*homeassistant.State, error) {
	f.getStates++
	if f.stateErr != nil {
		return nil, f.stateErr
	}
	return f.state, nil
}

func (f *fakeHA) AddItem(_ context.Context, _ homeassistant.Credentials, req homeassistant.AddItemRequest) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.addCalls = append(f.addCalls, req)
	return nil
}

func (f *fakeHA) UpdateItem(_ context.Context, _ homeassistant.Credentials, req homeassistant.UpdateItemRequest) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updateCalls = append(f.updateCalls, req)
	return nil
}

func (f *fakeHA) GetItems(_ context.Context, _ homeassistant.Credentials, _ string) ([]model.TodoItem, error) {
	if f.itemsErr != nil {
		return nil, f.itemsErr
	}
	return f.items, nil
}

type settingsFixture struct {
	service  *SettingsService
	session  *session.Manager
	registry *session.Registry
	repo     *memProfileRepo
	store    *memStore
	ha       *fakeHA
}

func newSettingsFixture() *settingsFixture {
	logger := zap.NewNop()
	store := newMemStore()
	cache := binding.NewCache(store, logger)
	sessionManager := session.NewManager(cache, logger)
	repo := &memProfileRepo{}
	registry := session.NewRegistry(repo, logger)
	ha := &fakeHA{
		state: &homeassistant.State{
			EntityID: "todo.fridge",
			Attributes: homeassistant.StateAttributes{
				Icon:         "mdi:fridge",
				FriendlyName: "Fridge List",
			},
		},
	}

	return &settingsFixture{
		service:  NewSettingsService(sessionManager, registry, ha, logger),
		session:  sessionManager,
		registry: registry,
		repo:     repo,
		store:    store,
		ha:       ha,
	}
}

func TestSettingsService_CheckConnectionSuccess(t *testing.T) {
	f := newSettingsFixture()

	result, err := f.service.CheckConnection(context.Background(), "http://ha.local:8123", "secret", "todo.fridge")
	if err != nil {
		t.Fatalf("CheckConnection() error = %v", err)
	}

	if result.EntityIcon != "fridge" {
		t.Errorf("EntityIcon = %q, want %q", result.EntityIcon, "fridge")
	}
	if result.EntityName != "Fridge List" {
		t.Errorf("EntityName = %q, want %q", result.EntityName, "Fridge List")
	}
	if !result.ProfileAdded {
		t.Error("Expected profile to be recorded on first check")
	}

	if !f.session.Ready() {
		t.Error("Expected session to be ready after successful check")
	}
	if f.session.Status() != session.StatusConfigured {
		t.Errorf("Status() = %v, want configured", f.session.Status())
	}
	if len(f.repo.profiles) != 1 {
		t.Errorf("len(profiles) = %d, want 1", len(f.repo.profiles))
	}
}

func TestSettingsService_CheckConnectionTrimsInput(t *testing.T) {
	f := newSettingsFixture()

	result, err := f.service.CheckConnection(context.Background(), "  http://ha.local:8123/  ", " secret ", " todo.fridge ")
	if err != nil {
		t.Fatalf("CheckConnection() error = %v", err)
	}

	if result.APIURL != "http://ha.local:8123" {
		t.Errorf("APIURL = %q, want trimmed without trailing slash", result.APIURL)
	}
	if got := f.session.EntityID.Value(); got != "todo.fridge" {
		t.Errorf("EntityID = %q, want trimmed", got)
	}
}

func TestSettingsService_RepeatedCheckDoesNotDuplicateProfile(t *testing.T) {
	f := newSettingsFixture()
	ctx := context.Background()

	first, err := f.service.CheckConnection(ctx, "http://ha.local:8123", "secret", "todo.fridge")
	if err != nil {
		t.Fatalf("first CheckConnection() error = %v", err)
	}
	if !first.ProfileAdded {
		t.Error("Expected first check to record a profile")
	}

	second, err := f.service.CheckConnection(ctx, "http://ha.local:8123", "secret", "todo.fridge")
	if err != nil {
		t.Fatalf("second CheckConnection() error = %v", err)
	}
	if second.ProfileAdded {
		t.Error("Expected duplicate profile to be skipped silently")
	}
	if len(f.repo.profiles) != 1 {
		t.Errorf("len(profiles) = %d, want 1", len(f.repo.profiles))
	}
}

func TestSettingsService_CheckConnectionFailurePersistsNothing(t *testing.T) {
	f := newSettingsFixture()
	f.ha.stateErr = &homeassistant.StatusError{
		StatusCode: http.StatusUnauthorized,
		Status:     "401 Unauthorized",
	}

	_, err := f.service.CheckConnection(context.Background(), "http://ha.local:8123", "bad-token", "todo.fridge")
	if err == nil {
		t.Fatal("Expected CheckConnection to fail")
	}

	var statusErr *homeassistant.StatusError
	if !errors.As(err, &statusErr) {
		t.Errorf("error = %v, want StatusError", err)
	}

	// Неудачная проверка ничего не сохраняет
	if len(f.store.values) != 0 {
		t.Errorf("store has %d persisted keys after failed check, want 0", len(f.store.values))
	}
	if len(f.repo.profiles) != 0 {
		t.Errorf("len(profiles) = %d after failed check, want 0", len(f.repo.profiles))
	}
	if f.session.Status() != session.StatusFailed {
		t.Errorf("Status() = %v, want failed", f.session.Status())
	}
}

func TestSettingsService_CheckConnectionValidation(t *testing.T) {
	tests := []struct {
		name     string
		apiURL   string
		token    string
		entityID string
	}{
		{name: "all empty", apiURL: "", token: "", entityID: ""},
		{name: "bad url", apiURL: "not-a-url", token: "secret", entityID: "todo.fridge"},
		{name: "bad entity id", apiURL: "http://ha.local:8123", token: "secret", entityID: "fridge"},
		{name: "missing token", apiURL: "http://ha.local:8123", token: "", entityID: "todo.fridge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSettingsFixture()

			_, err := f.service.CheckConnection(context.Background(), tt.apiURL, tt.token, tt.entityID)
			if err == nil {
				t.Fatal("Expected validation error")
			}

			var errs model.ValidationErrors
			if !errors.As(err, &errs) {
				t.Errorf("error = %v, want ValidationErrors", err)
			}

			// Ошибки валидации разрешаются без сетевого вызова
			if f.ha.getStates != 0 {
				t.Errorf("GetState called %d times, want 0", f.ha.getStates)
			}
		})
	}
}

func TestSettingsService_RegistryFailureDoesNotFailCheck(t *testing.T) {
	f := newSettingsFixture()
	f.repo.addErr = errors.New("database is down")

	result, err := f.service.CheckConnection(context.Background(), "http://ha.local:8123", "secret", "todo.fridge")
	if err != nil {
		t.Fatalf("CheckConnection() error = %v", err)
	}

	if result.ProfileAdded {
		t.Error("Expected ProfileAdded to be false on registry error")
	}
	if f.session.Status() != session.StatusConfigured {
		t.Errorf("Status() = %v, want configured despite registry error", f.session.Status())
	}
}

func TestParseEntityIcon(t *testing.T) {
	tests := []struct {
		attribute string
		want      string
	}{
		{"mdi:fridge", "fridge"},
		{"mdi:format-list-checks", "format-list-checks"},
		{"", session.DefaultEntityIcon},
		{"fridge", session.DefaultEntityIcon},
		{"mdi:", session.DefaultEntityIcon},
	}

	for _, tt := range tests {
		if got := ParseEntityIcon(tt.attribute); got != tt.want {
			t.Errorf("ParseEntityIcon(%q) = %q, want %q", tt.attribute, got, tt.want)
		}
	}
}
