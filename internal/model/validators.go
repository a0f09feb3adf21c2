// Package model содержит валидаторы для моделей.
package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ValidationError представляет ошибку валидации
type ValidationError struct {
	Field   string
	Message string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors представляет множество ошибок валидации
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// HasErrors проверяет, есть ли ошибки валидации
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

var (
	// Regex для проверки URL
	urlRegex = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)

	// Regex для проверки entity id Home Assistant (domain.object_id)
	entityIDRegex = regexp.MustCompile(`^[a-z_]+\.[a-zA-Z0-9_]+$`)

	// Regex для проверки даты в формате yyyy-mm-dd
	dueDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidateRequired проверяет, что поле не пустое
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidateURL проверяет формат URL
func ValidateURL(field, value string) error {
	if !urlRegex.MatchString(value) {
		return ValidationError{Field: field, Message: "must be a valid http(s) URL"}
	}
	return nil
}

// ValidateEntityID проверяет формат entity id
func ValidateEntityID(field, value string) error {
	if !entityIDRegex.MatchString(value) {
		return ValidationError{Field: field, Message: "must look like todo.my_list"}
	}
	return nil
}

// ValidateDueDate проверяет формат и корректность даты yyyy-mm-dd
func ValidateDueDate(field, value string) error {
	if !dueDateRegex.MatchString(value) {
		return ValidationError{Field: field, Message: "must be in yyyy-mm-dd format"}
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return ValidationError{Field: field, Message: "must be a valid date"}
	}
	return nil
}
