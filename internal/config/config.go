package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBConn   string
	LogLevel string

	JWTSecret string

	// Advisory model settings
	GeminiAPIKey    string
	GeminiModel     string
	FallbackModels  []string
	Temperature     float64
	MaxOutputTokens int

	// Policy thresholds
	MinScore float64
	MaxDTI   float64
	MaxLTV   float64

	// Floating key-rate source
	KeyRateURL string

	// Decision notification email
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string

	// Audit retention for stored decisions
	DecisionRetentionDays int
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		DBConn:   getEnv("DB_CONN", "host=localhost port=5432 user=test password=test dbname=credit sslmode=disable"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),

		JWTSecret: getEnv("JWT_SECRET", "secret"),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", "")),
		GeminiModel:     getEnv("GEMINI_MODEL", "models/gemini-2.5-flash-lite-preview-06-17"),
		FallbackModels:  splitCSV(getEnv("FALLBACK_MODELS", "")),
		Temperature:     getEnvFloat("TEMPERATURE", 0.3),
		MaxOutputTokens: getEnvInt("MAX_OUTPUT_TOKENS", 512),

		MinScore: getEnvFloat("MIN_SCORE", 700),
		MaxDTI:   getEnvFloat("MAX_DTI", 0.45),
		MaxLTV:   getEnvFloat("MAX_LTV", 0.9),

		KeyRateURL: getEnv("KEY_RATE_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", ""),

		DecisionRetentionDays: getEnvInt("DECISION_RETENTION_DAYS", 90),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// SMTPConfigured reports whether decision notification emails can be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SenderEmail != ""
}

// cleanEnv strips a single layer of surrounding quotes, which .env files
// sometimes carry over into values.
func cleanEnv(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 {
		if (v[0] == '\'' && v[len(v)-1] == '\'') || (v[0] == '"' && v[len(v)-1] == '"') {
			v = v[1 : len(v)-1]
		}
	}
	return strings.TrimSpace(v)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		if cleaned := cleanEnv(value); cleaned != "" {
			return cleaned
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(cleanEnv(value), 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(cleanEnv(value)); err == nil {
			return n
		}
	}
	return defaultVal
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
