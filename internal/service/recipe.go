// Package service содержит бизнес-логику приложения.
package service

import (
	"context"
	"fmt"

	"pantrybot/internal/binding"
	"pantrybot/internal/external/llm"
	"pantrybot/internal/model"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// supportedLanguages — языки, на которых бот умеет просить ответ
var supportedLanguages = []language.Tag{
	language.English, // fallback
	language.French,
	language.German,
	language.Spanish,
	language.Russian,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// RecipeService содержит бизнес-логику генерации рецептов
type RecipeService struct {
	products    *binding.Binding[[]model.TodoItem]
	apiKey      *binding.Binding[string]
	llm         *llm.Client
	fallbackKey string
	logger      *zap.Logger
}

// NewRecipeService создает новый сервис рецептов
func NewRecipeService(products *binding.Binding[[]model.TodoItem], apiKey *binding.Binding[string], llmClient *llm.Client, fallbackKey string, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		products:    products,
		apiKey:      apiKey,
		llm:         llmClient,
		fallbackKey: fallbackKey,
		logger:      logger,
	}
}

// Load выполняет первоначальную загрузку сохраненного API-ключа
func (s *RecipeService) Load(ctx context.Context) {
	s.apiKey.Load(ctx)
}

// SetAPIKey сохраняет пользовательский API-ключ LLM
func (s *RecipeService) SetAPIKey(ctx context.Context, key string) error {
	if err := model.ValidateRequired("api_key", key); err != nil {
		return err
	}
	return s.apiKey.Set(ctx, key)
}

// HasAPIKey сообщает, настроен ли ключ LLM API
func (s *RecipeService) HasAPIKey() bool {
	return s.resolveKey() != ""
}

// resolveKey возвращает действующий ключ: сохраненный пользователем
// имеет приоритет над ключом из окружения.
func (s *RecipeService) resolveKey() string {
	if key := s.apiKey.Value(); key != "" {
		return key
	}
	return s.fallbackKey
}

// Generate строит промпт из закэшированных элементов списка и
// запрашивает у LLM 2-3 рецепта на языке пользователя.
func (s *RecipeService) Generate(ctx context.Context, languageCode string) (string, error) {
	items := s.products.Value()
	if len(items) == 0 {
		return "", ErrNoItems
	}

	key := s.resolveKey()
	if key == "" {
		return "", ErrNoAPIKey
	}

	lang := MatchLanguage(languageCode)
	prompt := llm.BuildRecipePrompt(items, lang)

	s.logger.Info("Generating recipe suggestion",
		zap.Int("items", len(items)),
		zap.String("language", lang))

	recipe, err := s.llm.Complete(ctx, key, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate recipe: %w", err)
	}

	return recipe, nil
}

// MatchLanguage сопоставляет код языка Telegram с поддерживаемым
// языком ответа. Неизвестные коды получают английский.
func MatchLanguage(code string) string {
	if code == "" {
		return language.English.String()
	}

	tag, _, conf := languageMatcher.Match(language.Make(code))
	if conf == language.No {
		return language.English.String()
	}

	base, _ := tag.Base()
	return base.String()
}
