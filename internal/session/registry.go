// Package session содержит реестр сохраненных профилей конфигурации.
package session

import (
	"context"
	"fmt"

	"pantrybot/internal/model"

	"go.uber.org/zap"
)

// Registry управляет упорядоченным реестром проверенных профилей.
// Реестр единолично владеет последовательностью, другие компоненты
// не изменяют ее напрямую.
type Registry struct {
	repo   model.ProfileRepository
	logger *zap.Logger
}

// NewRegistry создает реестр профилей поверх репозитория
func NewRegistry(repo model.ProfileRepository, logger *zap.Logger) *Registry {
	return &Registry{
		repo:   repo,
		logger: logger,
	}
}

// List возвращает профили в порядке добавления
func (r *Registry) List(ctx context.Context) ([]model.ConfigProfile, error) {
	return r.repo.List(ctx)
}

// Add добавляет профиль, молча пропуская дубликаты по тройке
// (api_url, token, entity_id). Возвращает true при фактической вставке.
func (r *Registry) Add(ctx context.Context, profile model.ConfigProfile) (bool, error) {
	added, err := r.repo.Add(ctx, profile)
	if err != nil {
		return false, fmt.Errorf("failed to add profile: %w", err)
	}
	return added, nil
}

// Remove удаляет профиль по тройке уникальности.
// Удаление несуществующего профиля не является ошибкой.
func (r *Registry) Remove(ctx context.Context, profile model.ConfigProfile) (bool, error) {
	removed, err := r.repo.Remove(ctx, profile)
	if err != nil {
		return false, fmt.Errorf("failed to remove profile: %w", err)
	}

	if removed {
		r.logger.Info("Config profile removed",
			zap.String("api_url", profile.APIURL),
			zap.String("entity_id", profile.EntityID))
	}

	return removed, nil
}

// Select копирует поля профиля в активную сессию без повторной проверки
func (r *Registry) Select(ctx context.Context, manager *Manager, profile model.ConfigProfile) error {
	if err := manager.Apply(ctx, profile); err != nil {
		return fmt.Errorf("failed to select profile: %w", err)
	}

	r.logger.Info("Config profile selected",
		zap.String("api_url", profile.APIURL),
		zap.String("entity_id", profile.EntityID))

	return nil
}
