// Package model содержит модели данных приложения.
package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Ключи пользовательских настроек в key-value хранилище.
const (
	KeyAPIURL      = "api_url"
	KeyToken       = "token"
	KeyEntityID    = "entity_id"
	KeyEntityIcon  = "entity_icon"
	KeyEntityName  = "entity_name"
	KeyHideSecrets = "hide_secrets"
	KeyOpenAIKey   = "openai_key"
	KeyProducts    = "products"
)

// Setting представляет одну запись key-value хранилища настроек.
// Значение хранится как JSON-кодированная строка.
type Setting struct {
	bun.BaseModel `bun:"table:settings"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	Key       string    `bun:"key,unique,notnull" json:"key"`
	Value     string    `bun:"value,notnull" json:"value"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// SettingRepository определяет интерфейс key-value хранилища.
// Каждый ключ независим, атомарность между ключами не гарантируется.
type SettingRepository interface {
	// Get возвращает сырое значение и признак его наличия.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set сохраняет сырое значение по ключу.
	Set(ctx context.Context, key, value string) error
}

// StorageReadError представляет ошибку чтения из хранилища
type StorageReadError struct {
	Key string
	Err error
}

func (e StorageReadError) Error() string {
	return fmt.Sprintf("storage read failed for key %q: %v", e.Key, e.Err)
}

// Unwrap возвращает исходную ошибку
func (e StorageReadError) Unwrap() error {
	return e.Err
}

// StorageWriteError представляет ошибку записи в хранилище
type StorageWriteError struct {
	Key string
	Err error
}

func (e StorageWriteError) Error() string {
	return fmt.Sprintf("storage write failed for key %q: %v", e.Key, e.Err)
}

// Unwrap возвращает исходную ошибку
func (e StorageWriteError) Unwrap() error {
	return e.Err
}
