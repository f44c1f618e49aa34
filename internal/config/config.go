package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Redis    *RedisConfig    `mapstructure:"redis"`
	Stripe   *StripeConfig   `mapstructure:"stripe"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	JWTTTL             time.Duration `mapstructure:"jwt_ttl"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	PageSize           int           `mapstructure:"page_size"`
	LogLevel           string        `mapstructure:"log_level"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
	URL      string `mapstructure:"url"`
}

// DSN returns the configured URL when set, otherwise a keyword/value string.
func (c *PostgresConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

// Enabled reports whether a Redis address was configured.
func (c *RedisConfig) Enabled() bool {
	return c != nil && c.Addr != ""
}

type StripeConfig struct {
	SecretKey  string `mapstructure:"secret_key"`
	Currency   string `mapstructure:"currency"`
	SuccessURL string `mapstructure:"success_url"`
	CancelURL  string `mapstructure:"cancel_url"`
}

var errMissingSection = errors.New("config section is missing")

// Load reads the YAML file at path. Environment variables override file
// values using upper-case keys joined by underscores, e.g. API_PORT.
func Load(path string) (*AppConfig, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	return decode(v)
}

// Watch calls onChange with the freshly decoded config every time the file
// at path changes on disk.
func Watch(path string, onChange func(*AppConfig)) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		conf, err := decode(v)
		if err != nil {
			return
		}
		onChange(conf)
	})
	v.WatchConfig()
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.jwt_ttl", 72*time.Hour)
	v.SetDefault("api.page_size", 10)
	v.SetDefault("api.log_level", "info")
	v.SetDefault("gin.mode", "release")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.lock_ttl", 30*time.Second)
	v.SetDefault("stripe.currency", "usd")

	// Keys that only come from the environment must be bound explicitly.
	_ = v.BindEnv("postgres.url", "DATABASE_URL")
	_ = v.BindEnv("stripe.secret_key", "STRIPE_SECRET_KEY")
	_ = v.BindEnv("api.jwt_signing_key", "JWT_SIGNING_KEY")

	return v
}

func decode(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("conf.Validate -> %w", err)
	}

	return conf, nil
}

func (c *AppConfig) Validate() error {
	if c.API == nil || c.Gin == nil || c.Postgres == nil || c.Stripe == nil {
		return errMissingSection
	}
	if c.Redis == nil {
		c.Redis = &RedisConfig{}
	}

	return validation.ValidateStruct(
		c.API,
		validation.Field(&c.API.Port, validation.Required),
		validation.Field(&c.API.JWTSigningKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.API.PageSize, validation.Required, validation.Min(1)),
		validation.Field(&c.API.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}
