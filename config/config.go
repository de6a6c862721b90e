package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"message-api/internal/redis"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	AppMode string
	LogMode string

	// StoreBackend selects persistence: "postgres" or "memory".
	StoreBackend string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBMaxOpen  int
	DBMaxIdle  int

	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	RateLimitWrites    int
	RateLimitWindowSec int
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	limits := redis.DefaultRateLimitConfig()

	return &Config{
		AppPort:            getEnv("APP_PORT", "3000"),
		AppMode:            getEnv("APP_MODE", "debug"),
		LogMode:            getEnv("LOG_MODE", "development"),
		StoreBackend:       getEnv("STORE_BACKEND", "postgres"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", "postgres"),
		DBName:             getEnv("DB_NAME", "message_api"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBMaxOpen:          getEnvAsInt("DB_MAX_OPEN", 100),
		DBMaxIdle:          getEnvAsInt("DB_MAX_IDLE", 10),
		RedisEnabled:       getEnvAsBool("REDIS_ENABLED", false),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnv("REDIS_PORT", "6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		RateLimitWrites:    getEnvAsInt("RATE_LIMIT_WRITES", limits.WriteLimit),
		RateLimitWindowSec: getEnvAsInt("RATE_LIMIT_WINDOW_SEC", int(limits.WriteWindow.Seconds())),
	}
}

// DSN builds the postgres connection string for gorm.
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=disable TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}
