package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`

	// Correlation / geofence
	MergeRadiusMeters       float64       `env:"MERGE_RADIUS_METERS" envDefault:"500"`
	DefaultLatitude         float64       `env:"DEFAULT_LAT" envDefault:"28.6139"`
	DefaultLongitude        float64       `env:"DEFAULT_LNG" envDefault:"77.2090"`
	NearbyAlertRadiusMeters float64       `env:"NEARBY_ALERT_RADIUS_METERS" envDefault:"5000"`
	AlertTTL                time.Duration `env:"ALERT_TTL" envDefault:"1h"`

	// Uploads
	UploadDir      string `env:"UPLOAD_DIR" envDefault:"uploads"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"16777216"`

	// Verification pool
	VerifyWorkers     int           `env:"VERIFY_WORKERS" envDefault:"4"`
	VerifyQueueSize   int           `env:"VERIFY_QUEUE_SIZE" envDefault:"64"`
	VerifyMaxAttempts int           `env:"VERIFY_MAX_ATTEMPTS" envDefault:"5"`
	VerifyBaseDelay   time.Duration `env:"VERIFY_BASE_DELAY" envDefault:"100ms"`
	VerifyTimeout     time.Duration `env:"VERIFY_TIMEOUT" envDefault:"60s"`

	// Image analysis
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL" envDefault:"claude-sonnet-4-5"`

	// SMS gateway
	TwilioAuthToken string `env:"TWILIO_AUTH_TOKEN"`
	PublicBaseURL   string `env:"PUBLIC_BASE_URL"`

	// Geocoder
	GeocoderURL       string `env:"GEOCODER_URL" envDefault:"https://nominatim.openstreetmap.org/search"`
	GeocoderUserAgent string `env:"GEOCODER_USER_AGENT" envDefault:"crisis-broadcasting-system/1.0"`

	// Kafka export
	KafkaBrokers []string `env:"KAFKA_BROKERS"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"crisis.broadcast"`

	// Rate limit for public ingestion endpoints
	IngestRatePerSecond float64 `env:"INGEST_RATE_PER_SECOND" envDefault:"5"`
	IngestBurst         int     `env:"INGEST_BURST" envDefault:"10"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		WebhookURL:        os.Getenv("WEBHOOK_URL"),
		WebhookSecret:     os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:    getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries: getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:  getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),

		MergeRadiusMeters:       getEnvAsFloat("MERGE_RADIUS_METERS", 500),
		DefaultLatitude:         getEnvAsFloat("DEFAULT_LAT", 28.6139),
		DefaultLongitude:        getEnvAsFloat("DEFAULT_LNG", 77.2090),
		NearbyAlertRadiusMeters: getEnvAsFloat("NEARBY_ALERT_RADIUS_METERS", 5000),
		AlertTTL:                getEnvAsDuration("ALERT_TTL", time.Hour),

		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 16<<20)),

		VerifyWorkers:     getEnvAsInt("VERIFY_WORKERS", 4),
		VerifyQueueSize:   getEnvAsInt("VERIFY_QUEUE_SIZE", 64),
		VerifyMaxAttempts: getEnvAsInt("VERIFY_MAX_ATTEMPTS", 5),
		VerifyBaseDelay:   getEnvAsDuration("VERIFY_BASE_DELAY", 100*time.Millisecond),
		VerifyTimeout:     getEnvAsDuration("VERIFY_TIMEOUT", 60*time.Second),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5"),

		TwilioAuthToken: os.Getenv("TWILIO_AUTH_TOKEN"),
		PublicBaseURL:   strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),

		GeocoderURL:       getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "crisis-broadcasting-system/1.0"),

		KafkaBrokers: getEnvAsList("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "crisis.broadcast"),

		IngestRatePerSecond: getEnvAsFloat("INGEST_RATE_PER_SECOND", 5),
		IngestBurst:         getEnvAsInt("INGEST_BURST", 10),
	}

	// Загрузка API ключей
	cfg.APIKeys = getEnvAsList("API_KEYS")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет конфигурацию и возвращает все найденные проблемы сразу
func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL environment variable is required"))
	}
	if c.MergeRadiusMeters <= 0 {
		errs = append(errs, fmt.Errorf("MERGE_RADIUS_METERS must be positive, got %v", c.MergeRadiusMeters))
	}
	if c.DefaultLatitude < -90 || c.DefaultLatitude > 90 {
		errs = append(errs, fmt.Errorf("DEFAULT_LAT out of range: %v", c.DefaultLatitude))
	}
	if c.DefaultLongitude < -180 || c.DefaultLongitude > 180 {
		errs = append(errs, fmt.Errorf("DEFAULT_LNG out of range: %v", c.DefaultLongitude))
	}
	if c.VerifyWorkers < 1 {
		errs = append(errs, errors.New("VERIFY_WORKERS must be at least 1"))
	}
	if c.VerifyQueueSize < 1 {
		errs = append(errs, errors.New("VERIFY_QUEUE_SIZE must be at least 1"))
	}
	if c.VerifyMaxAttempts < 1 {
		errs = append(errs, errors.New("VERIFY_MAX_ATTEMPTS must be at least 1"))
	}
	if c.WebhookMaxRetries < 1 {
		errs = append(errs, errors.New("WEBHOOK_MAX_RETRIES must be at least 1"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if c.IngestRatePerSecond <= 0 || c.IngestBurst < 1 {
		errs = append(errs, errors.New("INGEST_RATE_PER_SECOND and INGEST_BURST must be positive"))
	}

	return errors.Join(errs...)
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat возвращает значение переменной окружения как float64 или значение по умолчанию
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

// getEnvAsList разбивает значение по запятым, пустые элементы отбрасываются
func getEnvAsList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
