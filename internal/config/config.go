package config

import (
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "default-secret-change-in-production"

// Config содержит конфигурацию приложения.
type Config struct {
	RunAddress       string
	DatabaseURI      string
	RedisAddress     string
	JWTSecret        string
	TokenExpiration  time.Duration
	SnapshotInterval time.Duration
	IdempotencyTTL   time.Duration
}

// Load загружает конфигурацию из флагов командной строки и переменных окружения.
// Приоритет: переменные окружения > флаги > значения по умолчанию.
// Если рядом лежит .env, его значения попадают в окружение, но не перетирают уже заданные.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "адрес и порт запуска сервиса")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "строка подключения к PostgreSQL")
	flag.StringVar(&cfg.RedisAddress, "r", "", "адрес Redis для ключей идемпотентности")
	flag.DurationVar(&cfg.TokenExpiration, "t", 24*time.Hour, "время жизни JWT")
	flag.DurationVar(&cfg.SnapshotInterval, "s", time.Hour, "период обновления срезов балансов, 0 отключает")
	flag.Parse()

	if envRunAddr := os.Getenv("RUN_ADDRESS"); envRunAddr != "" {
		cfg.RunAddress = envRunAddr
	}
	if envDBURI := os.Getenv("DATABASE_URI"); envDBURI != "" {
		cfg.DatabaseURI = envDBURI
	}
	if envRedis := os.Getenv("REDIS_ADDRESS"); envRedis != "" {
		cfg.RedisAddress = envRedis
	}

	cfg.TokenExpiration = durationFromEnv("TOKEN_EXPIRATION", cfg.TokenExpiration)
	cfg.SnapshotInterval = durationFromEnv("SNAPSHOT_INTERVAL", cfg.SnapshotInterval)
	cfg.IdempotencyTTL = durationFromEnv("IDEMPOTENCY_TTL", 24*time.Hour)

	// JWT секрет
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret
	}

	return cfg
}

// durationFromEnv возвращает fallback, если переменная не задана или не парсится.
func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
