package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Auth        AuthConfig        `mapstructure:"auth" validate:"required"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Generation  GenerationConfig  `mapstructure:"generation"`
	Progression ProgressionConfig `mapstructure:"progression"`
	SRS         SRSConfig         `mapstructure:"srs"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL              string        `mapstructure:"url" validate:"required,url"`
	// MaxOpenConns must leave room for generation, which holds one
	// connection for the advisory lock while writing through another.
	MaxOpenConns     int           `mapstructure:"max_open_conns" validate:"gte=2"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// Role claim value that grants access to admin endpoints.
	AdminRole string `mapstructure:"admin_role" validate:"required"`
	// Lifetime of tokens minted by cmd/token for local development.
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"gt=0"`
}

// RedisConfig configures the distributed generation lock. An empty Addr
// falls back to Postgres advisory locks.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"gte=0,lte=15"`
	LockTTL  time.Duration `mapstructure:"lock_ttl" validate:"gt=0"`
}

// GenerationConfig controls the question generation job.
type GenerationConfig struct {
	// Interval between scheduled regeneration runs. Zero disables the schedule.
	Interval time.Duration `mapstructure:"schedule_interval" validate:"gte=0"`
	// Translation language used for prompts. Empty means the pair's
	// source language.
	NativeLanguage string `mapstructure:"native_language" validate:"omitempty,alpha,min=2,max=8"`
	// Seed for the distractor shuffles. Zero seeds from the clock.
	Seed uint64 `mapstructure:"seed"`
	// Background workers that generate questions for newly unlocked lessons.
	Workers   int `mapstructure:"workers" validate:"gte=1,lte=32"`
	QueueSize int `mapstructure:"queue_size" validate:"gte=1"`
}

// ProgressionConfig tunes lesson completion.
type ProgressionConfig struct {
	// Retries of a completion transaction that lost a concurrency race.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	// Base delay of the exponential retry backoff.
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay" validate:"gt=0"`
}

// SRSConfig tunes the review scheduler.
type SRSConfig struct {
	MaxIntervalDays int `mapstructure:"max_interval_days" validate:"gte=1"`
}
