package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

var validate = validator.New()

type Config struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" validate:"oneof=json text"`

	GRPCPort int `yaml:"grpc_port" env:"GRPC_PORT" validate:"min=1,max=65535"`
	HTTPPort int `yaml:"http_port" env:"HTTP_PORT" validate:"min=1,max=65535"`

	StoreBackend   string `yaml:"store_backend" env:"STORE_BACKEND" validate:"oneof=memory badger redis"`
	BadgerPath     string `yaml:"badger_path" env:"BADGER_PATH" validate:"required_if=StoreBackend badger"`
	RedisAddr      string `yaml:"redis_addr" env:"REDIS_ADDR" validate:"required_if=StoreBackend redis"`
	RedisKeyPrefix string `yaml:"redis_key_prefix" env:"REDIS_KEY_PREFIX" validate:"required"`
	RedisChannel   string `yaml:"redis_channel" env:"REDIS_CHANNEL" validate:"required"`

	DefaultUser       string        `yaml:"default_user" env:"DEFAULT_USER" validate:"required"`
	FeedBufferSize    int           `yaml:"feed_buffer_size" env:"FEED_BUFFER_SIZE" validate:"min=1"`
	FeedRetryInterval time.Duration `yaml:"feed_retry_interval" env:"FEED_RETRY_INTERVAL" validate:"gt=0"`

	AllowedOrigins   string        `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	WSMaxMessageSize int64         `yaml:"ws_max_message_size" env:"WS_MAX_MESSAGE_SIZE" validate:"min=1"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" validate:"gt=0"`

	// The archiver resumes from the highest archived id, which only lines up
	// with a log that survives restarts.
	ArchiveBucket          string        `yaml:"archive_bucket" env:"ARCHIVE_BUCKET" validate:"excluded_if=StoreBackend memory"`
	ArchiveRegion          string        `yaml:"archive_region" env:"ARCHIVE_REGION" validate:"required_with=ArchiveBucket"`
	ArchiveEndpoint        string        `yaml:"archive_endpoint" env:"ARCHIVE_ENDPOINT"`
	ArchiveRoleARN         string        `yaml:"archive_role_arn" env:"ARCHIVE_ROLE_ARN"`
	ArchiveAccessKeyID     string        `yaml:"archive_access_key_id" env:"ARCHIVE_ACCESS_KEY_ID"`
	ArchiveSecretAccessKey string        `yaml:"archive_secret_access_key" env:"ARCHIVE_SECRET_ACCESS_KEY" validate:"required_with=ArchiveAccessKeyID"`
	ArchivePrefix          string        `yaml:"archive_prefix" env:"ARCHIVE_PREFIX"`
	ArchiveBatchSize       int           `yaml:"archive_batch_size" env:"ARCHIVE_BATCH_SIZE" validate:"min=1"`
	ArchiveFlushInterval   time.Duration `yaml:"archive_flush_interval" env:"ARCHIVE_FLUSH_INTERVAL" validate:"gt=0"`
	ArchiveMaxRetries      int           `yaml:"archive_max_retries" env:"ARCHIVE_MAX_RETRIES" validate:"min=0"`
}

func Default() Config {
	return Config{
		LogLevel:             "info",
		LogFormat:            "json",
		GRPCPort:             56000,
		HTTPPort:             8080,
		StoreBackend:         BackendMemory,
		BadgerPath:           "./data",
		RedisAddr:            "localhost:6379",
		RedisKeyPrefix:       "relay",
		RedisChannel:         "relay:appended",
		DefaultUser:          "Anonymous",
		FeedBufferSize:       64,
		FeedRetryInterval:    time.Second,
		AllowedOrigins:       "*",
		WSMaxMessageSize:     4096,
		ShutdownTimeout:      5 * time.Second,
		ArchivePrefix:        "relay",
		ArchiveBatchSize:     500,
		ArchiveFlushInterval: time.Minute,
		ArchiveMaxRetries:    3,
	}
}

// Load layers the configuration: defaults, then the optional YAML file at
// path, then .env, then the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("os.ReadFile: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("yaml.Unmarshal: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("godotenv.Load: %w", err)
	}

	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("env.UnmarshalFromEnviron: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.StoreBackend = strings.ToLower(cfg.StoreBackend)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate.Struct: %w", err)
	}

	return &cfg, nil
}

func (c Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}

func (c Config) ArchiveEnabled() bool {
	return c.ArchiveBucket != ""
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
