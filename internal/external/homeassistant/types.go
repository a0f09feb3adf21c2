// Package homeassistant содержит типы для работы с Home Assistant API.
package homeassistant

import (
	"fmt"
	"time"
)

// Config конфигурация для Home Assistant клиента
type Config struct {
	Timeout               time.Duration
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	DisableKeepAlives     bool
}

// Credentials содержит адрес и токен активной сессии.
// Передаются в каждый вызов: сессия может быть перенастроена на лету.
type Credentials struct {
	APIURL string
	Token  string
}

// State представляет состояние сущности из GET /api/states/{entity_id}
type State struct {
	EntityID   string          `json:"entity_id"`
	StateValue string          `json:"state"`
	Attributes StateAttributes `json:"attributes"`
}

// StateAttributes содержит интересующие нас атрибуты сущности
type StateAttributes struct {
	Icon         string `json:"icon"`
	FriendlyName string `json:"friendly_name"`
}

// AddItemRequest тело запроса todo.add_item
type AddItemRequest struct {
	EntityID    string `json:"entity_id"`
	Item        string `json:"item"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

// UpdateItemRequest тело запроса todo.update_item
type UpdateItemRequest struct {
	EntityID string `json:"entity_id"`
	Item     string `json:"item"`
	DueDate  string `json:"due_date"`
}

// StatusError представляет ответ Home Assistant с кодом вне 2xx
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("home assistant returned %s", e.Status)
}
