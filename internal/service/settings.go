// Package service содержит бизнес-логику приложения.
package service

import (
	"context"
	"fmt"
	"strings"

	"pantrybot/internal/external/homeassistant"
	"pantrybot/internal/model"
	"pantrybot/internal/session"

	"go.uber.org/zap"
)

// SettingsService содержит бизнес-логику для работы с конфигурацией сессии
type SettingsService struct {
	session  *session.Manager
	registry *session.Registry
	ha       homeassistant.API
	logger   *zap.Logger
}

// NewSettingsService создает новый сервис настроек
func NewSettingsService(sessionManager *session.Manager, registry *session.Registry, ha homeassistant.API, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		session:  sessionManager,
		registry: registry,
		ha:       ha,
		logger:   logger,
	}
}

// CheckResult представляет исход успешной проверки соединения
type CheckResult struct {
	APIURL       string
	EntityIcon   string
	EntityName   string
	ProfileAdded bool
}

// CheckConnection проверяет конфигурацию запросом состояния сущности.
// При успехе сначала сохраняются три введенных пользователем поля,
// затем производные icon/name, и последним шагом профиль добавляется
// в реестр. При любой ошибке ничего не сохраняется.
func (s *SettingsService) CheckConnection(ctx context.Context, apiURL, token, entityID string) (*CheckResult, error) {
	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	token = strings.TrimSpace(token)
	entityID = strings.TrimSpace(entityID)

	if err := s.validate(apiURL, token, entityID); err != nil {
		// Ошибки валидации разрешаются локально и не доходят до сети
		return nil, err
	}

	s.session.BeginCheck()

	state, err := s.ha.GetState(ctx, homeassistant.Credentials{APIURL: apiURL, Token: token}, entityID)
	if err != nil {
		s.session.FinishCheck(false)
		return nil, err
	}

	icon := ParseEntityIcon(state.Attributes.Icon)
	name := state.Attributes.FriendlyName

	// Сначала пользовательские поля, затем производные.
	if err := s.session.APIURL.Set(ctx, apiURL); err != nil {
		s.session.FinishCheck(false)
		return nil, fmt.Errorf("failed to persist api url: %w", err)
	}
	if err := s.session.Token.Set(ctx, token); err != nil {
		s.session.FinishCheck(false)
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}
	if err := s.session.EntityID.Set(ctx, entityID); err != nil {
		s.session.FinishCheck(false)
		return nil, fmt.Errorf("failed to persist entity id: %w", err)
	}
	if err := s.session.EntityIcon.Set(ctx, icon); err != nil {
		s.session.FinishCheck(false)
		return nil, fmt.Errorf("failed to persist entity icon: %w", err)
	}
	if err := s.session.EntityName.Set(ctx, name); err != nil {
		s.session.FinishCheck(false)
		return nil, fmt.Errorf("failed to persist entity name: %w", err)
	}

	// Реестр обновляется последним, когда конфигурация уже сохранена
	added, err := s.registry.Add(ctx, model.ConfigProfile{
		APIURL:     apiURL,
		Token:      token,
		EntityID:   entityID,
		EntityIcon: icon,
		EntityName: name,
	})
	if err != nil {
		// Проверка прошла, конфигурация сохранена: ошибку реестра
		// не превращаем в ошибку проверки
		s.logger.Warn("Failed to record config profile", zap.Error(err))
		added = false
	}

	s.session.FinishCheck(true)

	s.logger.Info("Connection check succeeded",
		zap.String("api_url", apiURL),
		zap.String("entity_id", entityID),
		zap.String("entity_name", name))

	return &CheckResult{
		APIURL:       apiURL,
		EntityIcon:   icon,
		EntityName:   name,
		ProfileAdded: added,
	}, nil
}

// validate выполняет синхронную проверку полей до любого сетевого вызова
func (s *SettingsService) validate(apiURL, token, entityID string) error {
	var errs model.ValidationErrors

	if err := model.ValidateRequired("api_url", apiURL); err != nil {
		errs = append(errs, err.(model.ValidationError))
	} else if err := model.ValidateURL("api_url", apiURL); err != nil {
		errs = append(errs, err.(model.ValidationError))
	}

	if err := model.ValidateRequired("token", token); err != nil {
		errs = append(errs, err.(model.ValidationError))
	}

	if err := model.ValidateRequired("entity_id", entityID); err != nil {
		errs = append(errs, err.(model.ValidationError))
	} else if err := model.ValidateEntityID("entity_id", entityID); err != nil {
		errs = append(errs, err.(model.ValidationError))
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ParseEntityIcon извлекает имя иконки из атрибута формата "mdi:<name>".
// Для пустого или неожиданного значения возвращается заглушка.
func ParseEntityIcon(attribute string) string {
	parts := strings.SplitN(attribute, ":", 2)
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}
	return session.DefaultEntityIcon
}
