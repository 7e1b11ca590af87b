package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI       string
	MongoDatabase  string
	RedisURL       string
	JWTSecret      string
	ServerPort     string
	SMTPFrom       string
	ReportEmail    string
	SyncFlushSecs  int
	PingIntervalMS int
}

func Load() *Config {
	// .env é opcional em produção, as variáveis vêm do ambiente
	godotenv.Load()

	return &Config{
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "dashboardfinanceiro"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:      getEnv("JWT_SECRET", "my_secret_key"),
		ServerPort:     getEnv("PORT", "8080"),
		SMTPFrom:       getEnv("SMTP_FROM", ""),
		ReportEmail:    getEnv("REPORT_EMAIL", ""),
		SyncFlushSecs:  getEnvAsInt("SYNC_FLUSH_SECONDS", 60),
		PingIntervalMS: getEnvAsInt("PING_INTERVAL_MS", 15000),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
