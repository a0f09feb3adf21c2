// Package binding реализует кэш значений key-value хранилища.
package binding

import (
	"context"

	"go.uber.org/zap"
)

// Load выполняет первоначальное чтение ключа, если оно еще не выполнялось.
// Повторные вызовы не обращаются к хранилищу.
func (c *Cache) Load(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		return
	}

	raw, present, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Error("Failed to load setting",
			zap.String("key", key),
			zap.Error(err))
		// Ключ считается загруженным, ошибка сохраняется
		c.entries[key] = &entry{err: err}
		return
	}

	c.entries[key] = &entry{raw: raw, present: present}
}

// Loaded сообщает, завершилась ли первоначальная загрузка ключа
func (c *Cache) Loaded(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	return ok
}

// Raw возвращает сырое значение ключа и признак его наличия.
// До завершения загрузки значение считается отсутствующим.
func (c *Cache) Raw(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !e.present {
		return "", false
	}
	return e.raw, true
}

// LoadErr возвращает ошибку первоначальной загрузки ключа, если она была
func (c *Cache) LoadErr(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		return e.err
	}
	return nil
}

// SetRaw сохраняет сырое значение в хранилище и, только после успешной
// записи, обновляет кэш. При ошибке записи видимое значение не меняется.
func (c *Cache) SetRaw(ctx context.Context, key, raw string) error {
	if err := c.store.Set(ctx, key, raw); err != nil {
		c.logger.Error("Failed to persist setting",
			zap.String("key", key),
			zap.Error(err))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{raw: raw, present: true}
	return nil
}
