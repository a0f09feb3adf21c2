// Package session содержит активную конфигурацию сессии и ее состояние.
package session

import (
	"context"
	"fmt"
	"sync"

	"pantrybot/internal/binding"
	"pantrybot/internal/model"

	"go.uber.org/zap"
)

// DefaultEntityIcon используется, пока проверка соединения не получила
// настоящую иконку сущности из Home Assistant.
const DefaultEntityIcon = "help"

// Status представляет состояние жизненного цикла конфигурации
type Status int

const (
	StatusUnconfigured Status = iota
	StatusChecking
	StatusConfigured
	StatusFailed
)

// String возвращает строковое представление статуса
func (s Status) String() string {
	switch s {
	case StatusUnconfigured:
		return "unconfigured"
	case StatusChecking:
		return "checking"
	case StatusConfigured:
		return "configured"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Manager объединяет привязки активной конфигурации сессии.
// Поля entity_icon и entity_name заполняются только успешной проверкой
// соединения, пользователь их напрямую не вводит.
type Manager struct {
	APIURL      *binding.Binding[string]
	Token       *binding.Binding[string]
	EntityID    *binding.Binding[string]
	EntityIcon  *binding.Binding[string]
	EntityName  *binding.Binding[string]
	HideSecrets *binding.Binding[bool]

	mu     sync.Mutex
	status Status
	logger *zap.Logger
}

// NewManager создает менеджер сессии поверх общего кэша настроек
func NewManager(cache *binding.Cache, logger *zap.Logger) *Manager {
	return &Manager{
		APIURL:      binding.New(cache, model.KeyAPIURL, ""),
		Token:       binding.New(cache, model.KeyToken, ""),
		EntityID:    binding.New(cache, model.KeyEntityID, ""),
		EntityIcon:  binding.New(cache, model.KeyEntityIcon, DefaultEntityIcon),
		EntityName:  binding.New(cache, model.KeyEntityName, ""),
		HideSecrets: binding.New(cache, model.KeyHideSecrets, true),
		status:      StatusUnconfigured,
		logger:      logger,
	}
}

// Load выполняет первоначальную загрузку всех привязок сессии.
// Порядок завершения отдельных загрузок не гарантируется, поэтому
// готовность вычисляется по каждой привязке отдельно.
func (m *Manager) Load(ctx context.Context) {
	m.APIURL.Load(ctx)
	m.Token.Load(ctx)
	m.EntityID.Load(ctx)
	m.EntityIcon.Load(ctx)
	m.EntityName.Load(ctx)
	m.HideSecrets.Load(ctx)

	if m.Ready() {
		m.setStatus(StatusConfigured)
	}
}

// Ready вычисляет готовность зависимых операций: все обязательные поля
// загружены и непусты. Предикат не имеет побочных эффектов.
func (m *Manager) Ready() bool {
	return m.APIURL.Loaded() && m.Token.Loaded() && m.EntityID.Loaded() &&
		m.APIURL.Value() != "" && m.Token.Value() != "" && m.EntityID.Value() != ""
}

// Status возвращает текущее состояние жизненного цикла конфигурации
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// BeginCheck переводит конфигурацию в состояние проверки
func (m *Manager) BeginCheck() {
	m.setStatus(StatusChecking)
}

// FinishCheck фиксирует исход проверки соединения
func (m *Manager) FinishCheck(ok bool) {
	if ok {
		m.setStatus(StatusConfigured)
	} else {
		m.setStatus(StatusFailed)
	}
}

func (m *Manager) setStatus(status Status) {
	m.mu.Lock()
	old := m.status
	m.status = status
	m.mu.Unlock()

	if old != status {
		m.logger.Debug("Session status changed",
			zap.String("from", old.String()),
			zap.String("to", status.String()))
	}
}

// Snapshot возвращает снимок текущих полей сессии как профиль
func (m *Manager) Snapshot() model.ConfigProfile {
	return model.ConfigProfile{
		APIURL:     m.APIURL.Value(),
		Token:      m.Token.Value(),
		EntityID:   m.EntityID.Value(),
		EntityIcon: m.EntityIcon.Value(),
		EntityName: m.EntityName.Value(),
	}
}

// Apply копирует поля профиля в активные привязки сессии.
// Проверка соединения не выполняется: сохраненный профиль считается
// проверенным в момент его создания.
func (m *Manager) Apply(ctx context.Context, profile model.ConfigProfile) error {
	if err := m.APIURL.Set(ctx, profile.APIURL); err != nil {
		return fmt.Errorf("failed to apply api url: %w", err)
	}
	if err := m.Token.Set(ctx, profile.Token); err != nil {
		return fmt.Errorf("failed to apply token: %w", err)
	}
	if err := m.EntityID.Set(ctx, profile.EntityID); err != nil {
		return fmt.Errorf("failed to apply entity id: %w", err)
	}

	icon := profile.EntityIcon
	if icon == "" {
		icon = DefaultEntityIcon
	}
	if err := m.EntityIcon.Set(ctx, icon); err != nil {
		return fmt.Errorf("failed to apply entity icon: %w", err)
	}
	if err := m.EntityName.Set(ctx, profile.EntityName); err != nil {
		return fmt.Errorf("failed to apply entity name: %w", err)
	}

	m.setStatus(StatusConfigured)
	return nil
}

// ClearEntityID очищает идентификатор сущности и сбрасывает производные
// поля к значениям-заглушкам.
func (m *Manager) ClearEntityID(ctx context.Context) error {
	if err := m.EntityID.Set(ctx, ""); err != nil {
		return err
	}
	if err := m.EntityIcon.Set(ctx, DefaultEntityIcon); err != nil {
		return err
	}
	return m.EntityName.Set(ctx, "")
}
