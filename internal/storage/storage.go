// Package storage реализует долговременное key-value хранилище клиента,
// в котором сессия держит токен и сериализованного пользователя между перезапусками.
package storage

import (
	"context"
	"errors"
	"fmt"
)

const (
	// KeyToken: ключ bearer-токена.
	KeyToken = "auth_token"
	// KeyUser: ключ JSON-представления пользователя сессии.
	KeyUser = "auth_user"
)

// ErrUnknownDriver возвращается, если в конфигурации указан неподдерживаемый драйвер.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Storage описывает строковое key-value хранилище.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Config выбирает и настраивает бэкенд хранилища.
type Config struct {
	Driver      string
	SQLitePath  string
	RedisURL    string
	RedisPrefix string
	PostgresDSN string
}

// Open открывает хранилище по имени драйвера: memory, sqlite, redis или postgres.
func Open(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		return NewSQLite(ctx, cfg.SQLitePath)
	case "redis":
		return NewRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
	case "postgres":
		return NewPostgres(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
