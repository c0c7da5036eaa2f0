package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	MongoURI       string
	MongoDB        string
	RedisAddr      string
	JWTSecret      string
	LogMode        string
	SessionTTL     time.Duration
	LeaderboardTTL time.Duration
	AllowedOrigins []string
}

// Load reads the environment, preloading a .env file when one exists.
// A missing .env is not an error.
func Load() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		Port:           getEnv("PORT", "8080"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "studyhub"),
		RedisAddr:      strings.TrimPrefix(getEnv("REDIS_URI", "localhost:6379"), "redis://"),
		JWTSecret:      getEnv("JWT_SECRET", "studyhub-dev-secret"),
		LogMode:        getEnv("LOG_MODE", "dev"),
		SessionTTL:     getDuration("SESSION_TTL", 24*time.Hour),
		LeaderboardTTL: getDuration("LEADERBOARD_TTL", 5*time.Minute),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
