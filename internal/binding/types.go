// Package binding содержит типы для реактивной привязки настроек.
package binding

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Store определяет интерфейс источника сырых значений
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// entry хранит состояние одного ключа после первоначальной загрузки.
// loaded становится true после первой попытки чтения независимо от
// ее исхода, чтобы зависимые проверки готовности не ждали вечно.
type entry struct {
	raw     string
	present bool
	err     error
}

// Cache представляет общий для процесса кэш значений по ключам.
// Все привязки к одному ключу разделяют одну загрузку и одно значение.
type Cache struct {
	store   Store
	logger  *zap.Logger
	mu      sync.Mutex
	entries map[string]*entry
}

// NewCache создает новый кэш поверх хранилища
func NewCache(store Store, logger *zap.Logger) *Cache {
	return &Cache{
		store:   store,
		logger:  logger,
		entries: make(map[string]*entry),
	}
}
