package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client é o contrato de cache usado pelos repositórios (cache-aside) e pelo rate limiter.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	GetInt(ctx context.Context, key string) (int, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Incr(ctx context.Context, key string, expiration time.Duration) (int, error)
	Delete(ctx context.Context, keys ...string) error
}

// ErrCacheMiss é retornado quando a chave não existe no cache.
var ErrCacheMiss = redis.Nil

// RedisClient implementa Client sobre o go-redis.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient conecta no Redis e confirma com PING.
func NewRedisClient(addr string) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr, // e.g. "localhost:6379"
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("falha ao conectar no Redis em %s: %w", addr, err)
	}

	return &RedisClient{rdb: rdb}, nil
}

// Get recupera o valor de uma chave. Chave ausente devolve ErrCacheMiss.
func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// GetInt lê um contador. Chave ausente devolve ErrCacheMiss.
func (c *RedisClient) GetInt(ctx context.Context, key string) (int, error) {
	val, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("valor não numérico na chave %s: %w", key, err)
	}
	return n, nil
}

// Set grava um valor com expiração.
func (c *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// Incr incrementa o contador e, no primeiro incremento, define a expiração da janela.
func (c *RedisClient) Incr(ctx context.Context, key string, expiration time.Duration) (int, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, expiration).Err(); err != nil {
			return 0, err
		}
	}
	return int(n), nil
}

// Delete remove as chaves informadas. Chaves inexistentes são ignoradas.
func (c *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close fecha o pool de conexões.
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}
