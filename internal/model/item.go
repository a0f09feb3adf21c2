// Package model содержит модели данных приложения.
package model

// TodoItem представляет элемент списка в Home Assistant.
// Состав полей за пределами summary/due для нас непрозрачен.
type TodoItem struct {
	UID     string `json:"uid,omitempty"`
	Summary string `json:"summary"`
	Due     string `json:"due,omitempty"`
	Status  string `json:"status,omitempty"`
}

// Product представляет результат поиска продукта по штрихкоду
type Product struct {
	Barcode     string
	Name        string
	Description string
	ImageURL    string
}
