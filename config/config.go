package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port           int           `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeout    time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	MaxHeaderBytes int           `yaml:"max_header_bytes" envconfig:"SERVER_MAX_HEADER_BYTES"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" envconfig:"DB_HOST"`
	Port     int    `yaml:"port" envconfig:"DB_PORT"`
	User     string `yaml:"user" envconfig:"DB_USER"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name     string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode  string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type JWTConfig struct {
	Secret        string        `yaml:"secret" envconfig:"JWT_SECRET"`
	RefreshSecret string        `yaml:"refresh_secret" envconfig:"JWT_REFRESH_SECRET"`
	Issuer        string        `yaml:"issuer" envconfig:"JWT_ISSUER"`
	AccessExpiry  time.Duration `yaml:"access_expiry" envconfig:"JWT_ACCESS_EXPIRY"`
	RefreshExpiry time.Duration `yaml:"refresh_expiry" envconfig:"JWT_REFRESH_EXPIRY"`
}

type RedisConfig struct {
	URL string `yaml:"url" envconfig:"REDIS_URL"`
}

type SMTPConfig struct {
	Host     string `yaml:"host" envconfig:"SMTP_HOST"`
	Port     int    `yaml:"port" envconfig:"SMTP_PORT"`
	Username string `yaml:"username" envconfig:"SMTP_USERNAME"`
	Password string `yaml:"password" envconfig:"SMTP_PASSWORD"`
	From     string `yaml:"from" envconfig:"SMTP_FROM"`
}

type StorageConfig struct {
	Region  string `yaml:"region" envconfig:"S3_REGION"`
	Bucket  string `yaml:"bucket" envconfig:"S3_BUCKET"`
	BaseURL string `yaml:"base_url" envconfig:"S3_BASE_URL"`
}

type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" envconfig:"RATELIMIT_ENABLED"`
	RequestsPerSecond float64 `yaml:"requests_per_second" envconfig:"RATELIMIT_RPS"`
	Burst             int     `yaml:"burst" envconfig:"RATELIMIT_BURST"`
}

type SecurityConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" envconfig:"CORS_ALLOWED_ORIGINS"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

type UploadConfig struct {
	MaxSizeBytes int64 `yaml:"max_size_bytes" envconfig:"UPLOAD_MAX_SIZE_BYTES"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Redis     RedisConfig     `yaml:"redis"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Storage   StorageConfig   `yaml:"storage"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Security  SecurityConfig  `yaml:"security"`
	Uploads   UploadConfig    `yaml:"uploads"`
}

// LoadConfig reads config.yml then applies environment overrides on top.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process env overrides: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.max_header_bytes", 1<<20)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("jwt.issuer", "marketplace-api")
	viper.SetDefault("jwt.access_expiry", "24h")
	viper.SetDefault("jwt.refresh_expiry", "720h")
	viper.SetDefault("ratelimit.enabled", true)
	viper.SetDefault("ratelimit.requests_per_second", 50.0)
	viper.SetDefault("ratelimit.burst", 100)
	viper.SetDefault("uploads.max_size_bytes", 10<<20)
	viper.SetDefault("smtp.port", 587)
}
