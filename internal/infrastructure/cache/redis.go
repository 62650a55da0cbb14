package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dalvarezq/frescura-api/internal/application/scanner"
)

var _ scanner.Cache = (*Redis)(nil)

// Redis cache compartido para despliegues con varias instancias: el TTL lo
// gestiona el propio Redis y los valores viajan como JSON.
type Redis struct {
	client *redis.Client
}

// NewRedis construye el cache sobre Redis y verifica conectividad con Ping.
func NewRedis(redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client}, nil
}

// Get devuelve (nil, nil) si la clave no existe o ya expiró.
func (r *Redis) Get(ctx context.Context, key string) (*scanner.ScanResult, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var result scanner.ScanResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("redis unmarshal: %w", err)
	}
	return &result, nil
}

// Set guarda el valor como JSON con el TTL dado.
func (r *Redis) Set(ctx context.Context, key string, value *scanner.ScanResult, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis marshal: %w", err)
	}
	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close cierra el pool de conexiones.
func (r *Redis) Close() error {
	return r.client.Close()
}
