package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config содержит конфигурацию приложения
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	AI          AIConfig
	CORS        CORSConfig
}

// ServerConfig содержит конфигурацию HTTP-сервера
type ServerConfig struct {
	Port                int
	BasePath            string
	ReadTimeoutSeconds  int
	WriteTimeoutSeconds int
	IdleTimeoutSeconds  int
}

// DatabaseConfig содержит конфигурацию подключения к MongoDB
type DatabaseConfig struct {
	URI                           string
	Name                          string
	MaxPoolSize                   int
	MinPoolSize                   int
	ConnectTimeoutSeconds         int
	SocketTimeoutSeconds          int
	ServerSelectionTimeoutSeconds int
	ConnectMaxAttempts            int
	ConnectBaseDelayMillis        int
}

// AIConfig содержит конфигурацию для AI API
type AIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     int
	MaxAttempts int
}

// CORSConfig содержит конфигурацию CORS
type CORSConfig struct {
	AllowedOrigins []string
}

// Load загружает конфигурацию из переменных окружения
func Load(env string) (Config, error) {
	cfg := Config{
		Environment: env,
		Server: ServerConfig{
			Port:                getEnvInt("SERVER_PORT", 8080),
			BasePath:            getEnvStr("SERVER_BASE_PATH", "/api"),
			ReadTimeoutSeconds:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeoutSeconds: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeoutSeconds:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			URI:                           getEnvStr("MONGODB_URI", "mongodb://localhost:27017"),
			Name:                          getEnvStr("MONGODB_DATABASE", "debate"),
			MaxPoolSize:                   getEnvInt("MONGODB_MAX_POOL_SIZE", 10),
			MinPoolSize:                   getEnvInt("MONGODB_MIN_POOL_SIZE", 1),
			ConnectTimeoutSeconds:         getEnvInt("MONGODB_CONNECT_TIMEOUT", 10),
			SocketTimeoutSeconds:          getEnvInt("MONGODB_SOCKET_TIMEOUT", 45),
			ServerSelectionTimeoutSeconds: getEnvInt("MONGODB_SERVER_SELECTION_TIMEOUT", 10),
			ConnectMaxAttempts:            getEnvInt("MONGODB_CONNECT_MAX_ATTEMPTS", 3),
			ConnectBaseDelayMillis:        getEnvInt("MONGODB_CONNECT_BASE_DELAY_MS", 500),
		},
		AI: AIConfig{
			APIKey:      getEnvStr("AI_API_KEY", ""),
			Model:       getEnvStr("AI_MODEL", "gpt-4o-mini"),
			BaseURL:     getEnvStr("AI_BASE_URL", "https://api.openai.com/v1"),
			Timeout:     getEnvInt("AI_TIMEOUT", 60),
			MaxAttempts: getEnvInt("AI_MAX_ATTEMPTS", 3),
		},
		CORS: CORSConfig{
			AllowedOrigins: strings.Split(getEnvStr("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),
		},
	}

	// Проверка обязательных настроек.
	// Отсутствие AI_API_KEY не фатально: сервер работает, а эндпоинты
	// генерации возвращают структурированную ошибку.
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return cfg, fmt.Errorf("неверный порт сервера: %d", cfg.Server.Port)
	}
	if cfg.Database.URI == "" {
		return cfg, fmt.Errorf("MONGODB_URI not set")
	}
	if cfg.Database.Name == "" {
		return cfg, fmt.Errorf("MONGODB_DATABASE not set")
	}
	if cfg.Database.MaxPoolSize < cfg.Database.MinPoolSize {
		return cfg, fmt.Errorf("максимальный размер пула (%d) меньше минимального (%d)",
			cfg.Database.MaxPoolSize, cfg.Database.MinPoolSize)
	}

	return cfg, nil
}

// IsProduction возвращает true для production-окружения
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnvStr возвращает строковое значение из переменной окружения или значение по умолчанию
func getEnvStr(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt возвращает целочисленное значение из переменной окружения или значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
