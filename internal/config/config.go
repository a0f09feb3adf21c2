// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config представляет конфигурацию приложения
type Config struct {
	// Database
	DatabaseURL string

	// Telegram
	BotToken      string
	AdminUsername string

	// Home Assistant (значения по умолчанию, пока сессия не настроена через бота)
	DefaultAPIURL   string
	DefaultEntityID string

	// Open Food Facts
	ProductsBaseURL string
	ProductsTimeout time.Duration

	// Health
	HealthPort         string
	HealthCheckEnabled bool

	// Logging
	LogLevel string

	// HTTP Client
	HTTPClientConfig HTTPClientConfig

	// Timezone
	Timezone string

	// App Data Directory
	AppDataDir string

	// LLM
	LLMConfig LLMConfig
}

// HTTPClientConfig представляет конфигурацию HTTP клиента
type HTTPClientConfig struct {
	RequestTimeout        time.Duration
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	DisableKeepAlives     bool
}

// LLMConfig представляет конфигурацию LLM клиента
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	Delay   time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	if err := godotenv.Load(); err != nil {
		// Игнорируем ошибку если файл не найден
	}

	config := &Config{
		DatabaseURL:        getEnv("DB_DSN", ""),
		BotToken:           getEnv("BOT_TOKEN", ""),
		AdminUsername:      getEnv("ADMIN_USERNAME", ""),
		DefaultAPIURL:      getEnv("HA_API_URL", ""),
		DefaultEntityID:    getEnv("HA_ENTITY_ID", ""),
		ProductsBaseURL:    getEnv("PRODUCTS_BASE_URL", "https://world.openfoodfacts.org"),
		ProductsTimeout:    getEnvDuration("PRODUCTS_TIMEOUT", 15*time.Second),
		HealthPort:         getEnv("HEALTH_PORT", "8080"),
		HealthCheckEnabled: getEnvBool("HEALTH_CHECK_ENABLED", true),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		HTTPClientConfig: HTTPClientConfig{
			RequestTimeout:        getEnvDuration("HTTP_REQUEST_TIMEOUT", 30*time.Second),
			MaxIdleConns:          getEnvInt("HTTP_MAX_IDLE_CONNS", 100),
			MaxIdleConnsPerHost:   getEnvInt("HTTP_MAX_IDLE_CONNS_PER_HOST", 10),
			IdleConnTimeout:       getEnvDuration("HTTP_IDLE_CONN_TIMEOUT", 90*time.Second),
			TLSHandshakeTimeout:   getEnvDuration("HTTP_TLS_HANDSHAKE_TIMEOUT", 10*time.Second),
			ResponseHeaderTimeout: getEnvDuration("HTTP_RESPONSE_HEADER_TIMEOUT", 30*time.Second),
			DisableKeepAlives:     getEnvBool("HTTP_DISABLE_KEEP_ALIVES", false),
		},
		Timezone:   getEnv("TIMEZONE", "Europe/Paris"),
		AppDataDir: getEnv("APP_DATA_DIR", "./data"),
		LLMConfig: LLMConfig{
			BaseURL: getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  getEnv("LLM_API_KEY", ""),
			Model:   getEnv("LLM_MODEL", "gpt-4o-mini"),
			Timeout: getEnvDuration("LLM_TIMEOUT", 2*time.Minute),
			Delay:   getEnvDuration("LLM_REQUEST_DELAY", 1*time.Second),
		},
	}

	// Валидация обязательных полей
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	if c.HealthCheckEnabled {
		port, err := strconv.Atoi(c.HealthPort)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("HEALTH_PORT must be a valid port number")
		}
	}

	if c.LLMConfig.Model == "" {
		return fmt.Errorf("LLM_MODEL is required")
	}

	return nil
}

// GetAppDataDir возвращает директорию данных приложения
func (c *Config) GetAppDataDir() string {
	return c.AppDataDir
}

// getEnv получает переменную окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как time.Duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvBool получает переменную окружения как bool
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
