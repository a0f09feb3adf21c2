// Package repository содержит репозитории для работы с базой данных.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"pantrybot/internal/model"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// SettingRepository реализует key-value хранилище настроек
type SettingRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewSettingRepository создает новый репозиторий настроек
func NewSettingRepository(db *bun.DB, logger *zap.Logger) *SettingRepository {
	return &SettingRepository{
		db:     db,
		logger: logger,
	}
}

var _ model.SettingRepository = (*SettingRepository)(nil)

// Get возвращает сырое значение по ключу и признак его наличия
func (r *SettingRepository) Get(ctx context.Context, key string) (string, bool, error) {
	setting := new(model.Setting)

	err := r.db.NewSelect().
		Model(setting).
		Where("key = ?", key).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, model.StorageReadError{Key: key, Err: err}
	}

	return setting.Value, true, nil
}

// Set сохраняет сырое значение по ключу
func (r *SettingRepository) Set(ctx context.Context, key, value string) error {
	setting := &model.Setting{
		Key:   key,
		Value: value,
	}

	_, err := r.db.NewInsert().
		Model(setting).
		On("CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		Exec(ctx)

	if err != nil {
		return model.StorageWriteError{Key: key, Err: err}
	}

	return nil
}
