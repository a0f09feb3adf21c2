// Package binding реализует типизированные привязки к key-value хранилищу.
package binding

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Binding представляет типизированную привязку к одному ключу хранилища.
// Значение кодируется в JSON. Привязки к одному ключу разделяют кэш,
// поэтому все потребители видят одно согласованное значение.
type Binding[T any] struct {
	cache   *Cache
	key     string
	initial T
}

// New создает привязку к ключу с значением по умолчанию
func New[T any](cache *Cache, key string, initial T) *Binding[T] {
	return &Binding[T]{
		cache:   cache,
		key:     key,
		initial: initial,
	}
}

// Key возвращает ключ хранилища
func (b *Binding[T]) Key() string {
	return b.key
}

// Load выполняет первоначальную загрузку значения, если она еще не выполнялась
func (b *Binding[T]) Load(ctx context.Context) {
	b.cache.Load(ctx, b.key)
}

// Loaded сообщает, завершилась ли первоначальная загрузка
func (b *Binding[T]) Loaded() bool {
	return b.cache.Loaded(b.key)
}

// LoadErr возвращает ошибку первоначальной загрузки, если она была
func (b *Binding[T]) LoadErr() error {
	return b.cache.LoadErr(b.key)
}

// Value возвращает текущее значение. Пока значение не загружено или
// отсутствует в хранилище, возвращается значение по умолчанию.
func (b *Binding[T]) Value() T {
	raw, ok := b.cache.Raw(b.key)
	if !ok {
		return b.initial
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		b.cache.logger.Warn("Failed to decode stored setting, using default",
			zap.String("key", b.key),
			zap.Error(err))
		return b.initial
	}

	return value
}

// Set кодирует значение в JSON и сохраняет его. Видимое значение
// обновляется только после успешной записи в хранилище.
func (b *Binding[T]) Set(ctx context.Context, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return b.cache.SetRaw(ctx, b.key, string(raw))
}
