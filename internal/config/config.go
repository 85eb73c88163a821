package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config содержит параметры запуска API и бота.
type Config struct {
	APIPort string

	DatabaseURL   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPass        string
	DBName        string
	DBSSLMode     string
	MigrationsDir string

	ChatAPIURL        string
	ChatBackend       string // "remote" или "gemini"
	GeminiAPIKey      string
	GeminiModel       string
	AirbnbAPIURL      string
	HTTPTimeout       time.Duration
	HTTPRetryAttempts uint

	AuthJWTSecret string
	AuthIssuer    string
	AuthAudience  string

	OAuthClientID     string
	OAuthClientSecret string
	OAuthAuthURL      string
	OAuthTokenURL     string
	OAuthRedirectURL  string
	OAuthLogoutURL    string
	CookieHashKey     string

	BotToken string

	LogLevel string
	LogDev   bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("CHAT_API_URL", "https://api.koncii.co")
	v.SetDefault("CHAT_BACKEND", "remote")
	v.SetDefault("AIRBNB_API_URL", "https://api.koncii.co/mcp-airbnb")
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("HTTP_RETRY_ATTEMPTS", 2)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DEV", false)
}

// Load читает .env (если есть) и переменные окружения.
func Load(envFiles ...string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		APIPort:           v.GetString("API_PORT"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBUser:            v.GetString("DB_USER"),
		DBPass:            v.GetString("DB_PASS"),
		DBName:            v.GetString("DB_NAME"),
		DBSSLMode:         v.GetString("DB_SSLMODE"),
		MigrationsDir:     v.GetString("MIGRATIONS_DIR"),
		ChatAPIURL:        v.GetString("CHAT_API_URL"),
		ChatBackend:       strings.ToLower(v.GetString("CHAT_BACKEND")),
		GeminiAPIKey:      v.GetString("GEMINI_API_KEY"),
		GeminiModel:       v.GetString("GEMINI_MODEL"),
		AirbnbAPIURL:      v.GetString("AIRBNB_API_URL"),
		HTTPTimeout:       v.GetDuration("HTTP_TIMEOUT"),
		HTTPRetryAttempts: v.GetUint("HTTP_RETRY_ATTEMPTS"),
		AuthJWTSecret:     v.GetString("AUTH_JWT_SECRET"),
		AuthIssuer:        v.GetString("AUTH_ISSUER"),
		AuthAudience:      v.GetString("AUTH_AUDIENCE"),
		OAuthClientID:     v.GetString("OAUTH_CLIENT_ID"),
		OAuthClientSecret: v.GetString("OAUTH_CLIENT_SECRET"),
		OAuthAuthURL:      v.GetString("OAUTH_AUTH_URL"),
		OAuthTokenURL:     v.GetString("OAUTH_TOKEN_URL"),
		OAuthRedirectURL:  v.GetString("OAUTH_REDIRECT_URL"),
		OAuthLogoutURL:    v.GetString("OAUTH_LOGOUT_URL"),
		CookieHashKey:     v.GetString("COOKIE_HASH_KEY"),
		BotToken:          v.GetString("BOT_TOKEN"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogDev:            v.GetBool("LOG_DEV"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.ChatBackend {
	case "remote", "gemini":
	default:
		return fmt.Errorf("неизвестный CHAT_BACKEND %q (ожидается remote или gemini)", c.ChatBackend)
	}
	if c.ChatBackend == "gemini" && c.GeminiAPIKey == "" {
		return fmt.Errorf("для CHAT_BACKEND=gemini нужен GEMINI_API_KEY")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT должен быть положительным")
	}
	return nil
}

// DSN возвращает строку подключения к PostgreSQL.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName, c.DBSSLMode)
}

// OAuthConfigured сообщает, заданы ли параметры провайдера идентификации.
func (c *Config) OAuthConfigured() bool {
	return c.OAuthClientID != "" && c.OAuthTokenURL != "" && c.OAuthAuthURL != ""
}

// LogoutURL возвращает адрес выхода у провайдера с возвратом на returnTo.
func (c *Config) LogoutURL(returnTo string) string {
	if c.OAuthLogoutURL == "" {
		return ""
	}
	u, err := url.Parse(c.OAuthLogoutURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	if c.OAuthClientID != "" {
		q.Set("client_id", c.OAuthClientID)
	}
	if returnTo != "" {
		q.Set("returnTo", returnTo)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
