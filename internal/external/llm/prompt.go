// Package llm содержит построение промптов.
package llm

import (
	"fmt"
	"strings"

	"pantrybot/internal/model"
)

// BuildRecipePrompt собирает промпт генератора рецептов из элементов
// списка. Ответ запрашивается на языке пользователя.
func BuildRecipePrompt(items []model.TodoItem, language string) string {
	ingredients := make([]string, 0, len(items))
	for _, item := range items {
		if item.Due != "" {
			ingredients = append(ingredients, fmt.Sprintf("%s (%s)", item.Summary, item.Due))
		} else {
			ingredients = append(ingredients, item.Summary)
		}
	}

	prompt := []string{
		"I want you to suggest 2 or 3 recipes using the ingredients I'm going to provide: ",
		strings.Join(ingredients, ", "),
		"Favors ingredients with best-before dates.",
		"Assume I have basic ingredients (oil, condiments, starches, etc.).",
		fmt.Sprintf("Also, even though I'm asking you in English, answer absolutely in the language: %s.", language),
	}

	return strings.Join(prompt, "\n")
}
