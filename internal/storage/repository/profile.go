// Package repository содержит репозитории для работы с базой данных.
package repository

import (
	"context"
	"fmt"

	"pantrybot/internal/model"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ProfileRepository реализует реестр профилей конфигурации
type ProfileRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewProfileRepository создает новый репозиторий профилей
func NewProfileRepository(db *bun.DB, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

var _ model.ProfileRepository = (*ProfileRepository)(nil)

// List возвращает профили в порядке добавления
func (r *ProfileRepository) List(ctx context.Context) ([]model.ConfigProfile, error) {
	var profiles []model.ConfigProfile

	err := r.db.NewSelect().
		Model(&profiles).
		Order("id ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, nil
}

// Add добавляет профиль, если тройка (api_url, token, entity_id) еще не представлена
func (r *ProfileRepository) Add(ctx context.Context, profile model.ConfigProfile) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*model.ConfigProfile)(nil)).
		Where("api_url = ?", profile.APIURL).
		Where("token = ?", profile.Token).
		Where("entity_id = ?", profile.EntityID).
		Exists(ctx)

	if err != nil {
		return false, fmt.Errorf("failed to check profile existence: %w", err)
	}

	if exists {
		// Дубликаты пропускаются молча
		return false, nil
	}

	if _, err := r.db.NewInsert().
		Model(&profile).
		Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to insert profile: %w", err)
	}

	r.logger.Info("Config profile added",
		zap.String("api_url", profile.APIURL),
		zap.String("entity_id", profile.EntityID))

	return true, nil
}

// Remove удаляет профиль по тройке уникальности
func (r *ProfileRepository) Remove(ctx context.Context, profile model.ConfigProfile) (bool, error) {
	res, err := r.db.NewDelete().
		Model((*model.ConfigProfile)(nil)).
		Where("api_url = ?", profile.APIURL).
		Where("token = ?", profile.Token).
		Where("entity_id = ?", profile.EntityID).
		Exec(ctx)

	if err != nil {
		return false, fmt.Errorf("failed to delete profile: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}
