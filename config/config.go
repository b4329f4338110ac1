package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const defaultMongoDB = "molo_users"

// Config holds everything the service reads from the environment.
type Config struct {
	Port           string        `validate:"required,numeric"`
	MongoURI       string        `validate:"required,uri"`
	MongoDB        string        `validate:"required"`
	AWSRegion      string        `validate:"required"`
	S3Bucket       string        `validate:"required"`
	PhotoURLTTL    time.Duration `validate:"gt=0"`
	JWTSecret      string        `validate:"required"`
	RedisAddr      string        `validate:"omitempty,hostname_port"`
	RedisPassword  string
	LogLevel       string        `validate:"oneof=trace debug info warn error"`
	LogFormat      string        `validate:"oneof=json console"`
	RateLimit      int           `validate:"gte=0"`
	RequestTimeout time.Duration `validate:"gt=0"`
}

// LoadConfig loads environment variables (optionally from a .env file) and validates them.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using system environment variables")
	}

	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017/"+defaultMongoDB)

	cfg := &Config{
		Port:           getEnv("PORT", "9000"),
		MongoURI:       mongoURI,
		MongoDB:        getEnv("MONGO_DB", databaseFromURI(mongoURI)),
		AWSRegion:      getEnv("AWS_REGION", "eu-central-1"),
		S3Bucket:       getEnv("S3_BUCKET", "molo-user-photos"),
		PhotoURLTTL:    time.Duration(getEnvInt("S3_GET_TTL_SEC", 3600)) * time.Second,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "json")),
		RateLimit:      getEnvInt("RATE_LIMIT_PER_MIN", 0),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 15)) * time.Second,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt falls back to def when the variable is unset or not an integer.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid integer in environment, using default")
		return def
	}
	return n
}

// databaseFromURI returns the database named in the URI path, e.g. "molo_users" in
// mongodb://host:27017/molo_users.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultMongoDB
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultMongoDB
}
