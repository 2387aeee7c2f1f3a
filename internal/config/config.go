package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	Log    LogConfig
	HTTP   HTTPConfig
}

type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type MongoConfig struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// HTTPConfig tunes the request middleware stack.
type HTTPConfig struct {
	MaxBodyBytes       int64
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	EnableHSTS         bool
}

var defaults = map[string]any{
	"app_addr":              ":3000",
	"http_read_timeout":     "5s",
	"http_write_timeout":    "10s",
	"http_idle_timeout":     "60s",
	"shutdown_timeout":      "10s",
	"mongo_uri":             "mongodb://localhost:27017",
	"mongo_database":        "bookmanager",
	"mongo_collection":      "books",
	"mongo_connect_timeout": "5s",
	"log_level":             "info",
	"log_format":            "text",
	"max_body_bytes":        1 << 20,
	"cors_allowed_origins":  "",
	"rate_limit_rps":        0,
	"rate_limit_burst":      20,
	"enable_hsts":           false,
}

// LoadEnvFiles loads .env and .env.local without overriding the environment
// provided by the runtime (e.g. Docker).
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load reads the configuration from the environment, falling back to defaults.
// If CONFIG_FILE is set, that file is read first and environment variables
// still take precedence over it.
func Load() (*Config, error) {
	LoadEnvFiles()

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:            v.GetString("app_addr"),
			ReadTimeout:     v.GetDuration("http_read_timeout"),
			WriteTimeout:    v.GetDuration("http_write_timeout"),
			IdleTimeout:     v.GetDuration("http_idle_timeout"),
			ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		},
		Mongo: MongoConfig{
			URI:            v.GetString("mongo_uri"),
			Database:       v.GetString("mongo_database"),
			Collection:     v.GetString("mongo_collection"),
			ConnectTimeout: v.GetDuration("mongo_connect_timeout"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log_level")),
			Format: strings.ToLower(v.GetString("log_format")),
		},
		HTTP: HTTPConfig{
			MaxBodyBytes:       v.GetInt64("max_body_bytes"),
			CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
			RateLimitRPS:       v.GetFloat64("rate_limit_rps"),
			RateLimitBurst:     v.GetInt("rate_limit_burst"),
			EnableHSTS:         v.GetBool("enable_hsts"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("APP_ADDR must not be empty"))
	}
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("MONGO_URI must not be empty"))
	}
	if c.Mongo.Database == "" {
		errs = append(errs, errors.New("MONGO_DATABASE must not be empty"))
	}
	if c.Mongo.Collection == "" {
		errs = append(errs, errors.New("MONGO_COLLECTION must not be empty"))
	}
	if c.Mongo.ConnectTimeout <= 0 {
		errs = append(errs, errors.New("MONGO_CONNECT_TIMEOUT must be positive"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q is not one of text, json", c.Log.Format))
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	if c.HTTP.RateLimitRPS < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must not be negative"))
	}
	if c.HTTP.RateLimitRPS > 0 && c.HTTP.RateLimitBurst < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled"))
	}

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
