// Package model содержит модели данных приложения.
package model

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// ConfigProfile представляет сохраненный снимок проверенной конфигурации.
// Уникальность определяется тройкой (api_url, token, entity_id).
type ConfigProfile struct {
	bun.BaseModel `bun:"table:profiles"`

	ID         int       `bun:"id,pk,autoincrement" json:"id"`
	APIURL     string    `bun:"api_url,notnull" json:"api_url"`
	Token      string    `bun:"token,notnull" json:"token"`
	EntityID   string    `bun:"entity_id,notnull" json:"entity_id"`
	EntityIcon string    `bun:"entity_icon" json:"entity_icon"`
	EntityName string    `bun:"entity_name" json:"entity_name"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// SameConnection сообщает, совпадает ли профиль по тройке уникальности
func (p ConfigProfile) SameConnection(other ConfigProfile) bool {
	return p.APIURL == other.APIURL && p.Token == other.Token && p.EntityID == other.EntityID
}

// ProfileRepository определяет интерфейс реестра профилей конфигурации
type ProfileRepository interface {
	// List возвращает профили в порядке добавления.
	List(ctx context.Context) ([]ConfigProfile, error)
	// Add добавляет профиль, если тройка (api_url, token, entity_id)
	// еще не представлена. Возвращает true при фактической вставке.
	Add(ctx context.Context, profile ConfigProfile) (bool, error)
	// Remove удаляет профиль по тройке уникальности. Возвращает true,
	// если запись существовала.
	Remove(ctx context.Context, profile ConfigProfile) (bool, error)
}
