package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config contém todas as configurações da aplicação
type Config struct {
	Env       string
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	JWT       JWTConfig
	Geocoding GeocodingConfig
	Storage   StorageConfig
	Logging   LoggingConfig
	CORS      CORSConfig
	I18n      I18nConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	BaseURL         string // URL base da API para construir URIs RFC 7807
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxConns     int
	MinConns     int
	MaxIdleTime  int
	QueryTimeout time.Duration
	AutoMigrate  bool
}

type RedisConfig struct {
	URL string // vazio desativa o cache
}

type RabbitMQConfig struct {
	URL      string // vazio desativa a publicação de eventos
	Exchange string
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type GeocodingConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	CacheTTL  time.Duration
}

type StorageConfig struct {
	UploadDir   string
	MaxFileSize int64
	MaxFiles    int
}

type LoggingConfig struct {
	Level string
}

type CORSConfig struct {
	AllowedOrigins string
}

type I18nConfig struct {
	LocalesDir      string
	DefaultLanguage string
}

type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string // vazio desativa a exportação de traces
	Insecure     bool
}

// IsProduction indica se a aplicação roda em produção
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load carrega as configurações do ambiente (e de um .env opcional)
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "5000")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("API_BASE_URL", "http://localhost:5000")
	v.SetDefault("SHUTDOWN_TIMEOUT", "5s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "revistete")
	v.SetDefault("DB_PASS", "revistete")
	v.SetDefault("DB_NAME", "revistete")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_TIME", 300)
	v.SetDefault("DB_QUERY_TIMEOUT", "5s")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("RABBITMQ_EXCHANGE", "revistete.events")

	v.SetDefault("JWT_EXPIRY", "7d")

	v.SetDefault("GEOCODING_BASE_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODING_USER_AGENT", "ReVistete/1.0")
	v.SetDefault("GEOCODING_TIMEOUT", "10s")
	v.SetDefault("GEOCODING_CACHE_TTL", "24h")

	v.SetDefault("STORAGE_UPLOAD_DIR", "./uploads")
	v.SetDefault("STORAGE_MAX_FILE_SIZE", 5*1024*1024)
	v.SetDefault("STORAGE_MAX_FILES", 10)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("I18N_LOCALES_DIR", "./internal/infrastructure/i18n/locales")
	v.SetDefault("I18N_DEFAULT_LANGUAGE", "es")

	v.SetDefault("OTEL_SERVICE_NAME", "revistete-backend")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", true)
}

func fromViper(v *viper.Viper) (*Config, error) {
	shutdown, err := ParseDuration(v.GetString("SHUTDOWN_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	queryTimeout, err := ParseDuration(v.GetString("DB_QUERY_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_QUERY_TIMEOUT: %w", err)
	}
	jwtExpiry, err := ParseDuration(v.GetString("JWT_EXPIRY"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY: %w", err)
	}
	geoTimeout, err := ParseDuration(v.GetString("GEOCODING_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid GEOCODING_TIMEOUT: %w", err)
	}
	geoCacheTTL, err := ParseDuration(v.GetString("GEOCODING_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid GEOCODING_CACHE_TTL: %w", err)
	}

	config := &Config{
		Env: v.GetString("ENV"),
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			Host:            v.GetString("HOST"),
			BaseURL:         v.GetString("API_BASE_URL"),
			ShutdownTimeout: shutdown,
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASS"),
			DBName:       v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			MaxConns:     v.GetInt("DB_MAX_CONNS"),
			MinConns:     v.GetInt("DB_MIN_CONNS"),
			MaxIdleTime:  v.GetInt("DB_MAX_IDLE_TIME"),
			QueryTimeout: queryTimeout,
			AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Expiry: jwtExpiry,
		},
		Geocoding: GeocodingConfig{
			BaseURL:   v.GetString("GEOCODING_BASE_URL"),
			UserAgent: v.GetString("GEOCODING_USER_AGENT"),
			Timeout:   geoTimeout,
			CacheTTL:  geoCacheTTL,
		},
		Storage: StorageConfig{
			UploadDir:   v.GetString("STORAGE_UPLOAD_DIR"),
			MaxFileSize: v.GetInt64("STORAGE_MAX_FILE_SIZE"),
			MaxFiles:    v.GetInt("STORAGE_MAX_FILES"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		},
		I18n: I18nConfig{
			LocalesDir:      v.GetString("I18N_LOCALES_DIR"),
			DefaultLanguage: v.GetString("I18N_DEFAULT_LANGUAGE"),
		},
		Telemetry: TelemetryConfig{
			ServiceName:  v.GetString("OTEL_SERVICE_NAME"),
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Insecure:     v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
		},
	}

	if config.JWT.Secret == "" {
		if config.IsProduction() {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		config.JWT.Secret = "dev-secret-change-me"
	}

	return config, nil
}

// ParseDuration aceita a sintaxe de time.ParseDuration e o sufixo "d" (dias)
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid day duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

// DSN retorna a connection string do PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}
