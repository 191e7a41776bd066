package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the API server needs at startup.
type Config struct {
	Port     string `mapstructure:"PORT"`
	AppEnv   string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBDriver       string `mapstructure:"DB_DRIVER"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DBMaxIdleConns int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`
	OTPSecret string        `mapstructure:"OTP_SECRET"`
	AdminCode string        `mapstructure:"ADMIN_CODE"`

	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
	FrontendURL string   `mapstructure:"FRONTEND_URL"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`

	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	UploadDir     string `mapstructure:"UPLOAD_DIR"`
	R2AccountID   string `mapstructure:"R2_ACCOUNT_ID"`
	R2Bucket      string `mapstructure:"R2_BUCKET"`
	R2AccessKey   string `mapstructure:"R2_ACCESS_KEY"`
	R2SecretKey   string `mapstructure:"R2_SECRET_KEY"`

	RedisURL    string `mapstructure:"REDIS_URL"`
	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`

	NotificationStore string `mapstructure:"NOTIFICATION_STORE"`
}

var keys = []string{
	"PORT", "APP_ENV", "LOG_LEVEL",
	"DB_DRIVER", "DATABASE_URL", "DB_MAX_IDLE_CONNS", "DB_MAX_OPEN_CONNS",
	"JWT_SECRET", "JWT_TTL", "OTP_SECRET", "ADMIN_CODE",
	"CORS_ORIGINS", "FRONTEND_URL",
	"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URL",
	"STORAGE_DRIVER", "UPLOAD_DIR", "R2_ACCOUNT_ID", "R2_BUCKET", "R2_ACCESS_KEY", "R2_SECRET_KEY",
	"REDIS_URL", "RABBITMQ_URL",
	"GEMINI_API_KEY", "GEMINI_MODEL",
	"NOTIFICATION_STORE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5002")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=password dbname=joblocal port=5432 sslmode=disable")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("JWT_TTL", "720h")
	v.SetDefault("OTP_SECRET", "jobportal-secret-key")
	v.SetDefault("ADMIN_CODE", "ADMIN123")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001,http://localhost:3002,http://localhost:3003")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("GOOGLE_REDIRECT_URL", "http://localhost:5002/api/auth/google/callback")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("NOTIFICATION_STORE", "memory")
}

// Load reads .env (if present), an optional config.yaml and the process
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	v.AutomaticEnv()
	// AutomaticEnv only applies to keys viper already knows about when unmarshalling.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the server cannot run with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("config: JWT_SECRET must be set outside development")
		}
		c.JWTSecret = "joblocal-dev-secret"
	}
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.StorageDriver {
	case "local":
	case "s3":
		if c.R2AccountID == "" || c.R2Bucket == "" || c.R2AccessKey == "" || c.R2SecretKey == "" {
			return errors.New("config: STORAGE_DRIVER=s3 requires R2_ACCOUNT_ID, R2_BUCKET, R2_ACCESS_KEY and R2_SECRET_KEY")
		}
	default:
		return fmt.Errorf("config: unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.NotificationStore {
	case "memory", "database":
	default:
		return fmt.Errorf("config: unsupported NOTIFICATION_STORE %q", c.NotificationStore)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// GoogleEnabled reports whether the Google OAuth flow can be offered.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
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
