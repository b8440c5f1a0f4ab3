package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"teamhub/internal/identity"
	"teamhub/internal/storage"
)

// Config: полная конфигурация сервиса.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Records  RecordsConfig  `mapstructure:"records"`
	Identity IdentityConfig `mapstructure:"identity"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Session  SessionConfig  `mapstructure:"session"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// Validate проверяет обязательные поля.
func (c Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	u, err := url.Parse(c.Records.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("records.base_url must be an absolute URL, got %q", c.Records.BaseURL)
	}
	if c.Records.RequestDelay < 0 {
		return errors.New("records.request_delay must not be negative")
	}
	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for sqlite driver")
		}
	case "redis":
		if c.Storage.RedisURL == "" {
			return errors.New("storage.redis_url is required for redis driver")
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return errors.New("storage.postgres_dsn is required for postgres driver")
		}
	default:
		return fmt.Errorf("%w: %q", storage.ErrUnknownDriver, c.Storage.Driver)
	}
	return nil
}

// ServerAddr возвращает host:port для HTTP-сервера.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ServerConfig: параметры HTTP-сервера.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig: настройки логгера.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// SlogLevel переводит строковый уровень в slog.Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return lvl, nil
}

// RecordsConfig: подключение к Record API.
type RecordsConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RequestDelay time.Duration `mapstructure:"request_delay"`
}

// IdentityConfig: настройки заглушки сервиса аутентификации.
type IdentityConfig struct {
	LatencyEnabled bool `mapstructure:"latency_enabled"`
}

// Latency возвращает задержки операций: стандартные или нулевые.
func (i IdentityConfig) Latency() identity.Latency {
	if !i.LatencyEnabled {
		return identity.Latency{}
	}
	return identity.DefaultLatency
}

// StorageConfig: выбор бэкенда клиентского хранилища.
type StorageConfig struct {
	Driver      string `mapstructure:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	RedisURL    string `mapstructure:"redis_url"`
	RedisPrefix string `mapstructure:"redis_prefix"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// Options переводит секцию в параметры storage.Open.
func (s StorageConfig) Options() storage.Config {
	return storage.Config{
		Driver:      s.Driver,
		SQLitePath:  s.SQLitePath,
		RedisURL:    s.RedisURL,
		RedisPrefix: s.RedisPrefix,
		PostgresDSN: s.PostgresDSN,
	}
}

// SessionConfig: поведение охраны маршрутов.
type SessionConfig struct {
	// StrictGuard: непроверенная восстановленная сессия считается загружающейся.
	StrictGuard bool `mapstructure:"strict_guard"`
}

// CORSConfig: разрешённые источники для браузерного клиента.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}
