package metastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-menufields/pkg/platform"
)

// DefaultRedisPrefix namespaces the per-item hashes.
const DefaultRedisPrefix = "menufields:item:"

// RedisClient is the subset of go-redis methods the store uses.
type RedisClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	Close() error
}

// RedisConfig configures NewRedis.
type RedisConfig struct {
	Address  string `json:"address" yaml:"address"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	Prefix   string `json:"prefix" yaml:"prefix"`
}

// Redis stores each item's metadata in one hash. Values are written as
// strings (non-string values JSON encoded) and always read back as strings;
// bind a sanitizer to recover typed values.
type Redis struct {
	client RedisClient
	prefix string
}

var (
	_ platform.MetaStore  = (*Redis)(nil)
	_ platform.Normalizer = (*Redis)(nil)
)

// NewRedis connects to Redis and verifies the connection with PING.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	if cfg.Address == "" {
		return nil, errors.New("metastore: redis address is required")
	}
	opts := &redis.Options{
		Addr: cfg.Address,
		DB:   cfg.DB,
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("metastore: redis ping %s: %w", cfg.Address, err)
	}
	return NewRedisWithClient(client, cfg.Prefix), nil
}

// NewRedisWithClient wraps an existing client. An empty prefix falls back to
// DefaultRedisPrefix.
func NewRedisWithClient(client RedisClient, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

// Get implements platform.MetaStore.
func (r *Redis) Get(ctx context.Context, itemID int, key string) (any, error) {
	val, err := r.client.HGet(ctx, r.hashKey(itemID), key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("metastore: redis hget %s: %w", key, err)
	}
	return val, nil
}

// Set implements platform.MetaStore.
func (r *Redis) Set(ctx context.Context, itemID int, key string, value any) error {
	encoded, err := encodeValue(value)
	if err != nil {
		return fmt.Errorf("metastore: encode %s: %w", key, err)
	}
	if err := r.client.HSet(ctx, r.hashKey(itemID), key, encoded).Err(); err != nil {
		return fmt.Errorf("metastore: redis hset %s: %w", key, err)
	}
	return nil
}

// Delete implements platform.MetaStore.
func (r *Redis) Delete(ctx context.Context, itemID int, key string) error {
	if err := r.client.HDel(ctx, r.hashKey(itemID), key).Err(); err != nil {
		return fmt.Errorf("metastore: redis hdel %s: %w", key, err)
	}
	return nil
}

// Snapshot returns every key stored for itemID.
func (r *Redis) Snapshot(ctx context.Context, itemID int) (map[string]string, error) {
	values, err := r.client.HGetAll(ctx, r.hashKey(itemID)).Result()
	if err != nil {
		return nil, fmt.Errorf("metastore: redis hgetall: %w", err)
	}
	return values, nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// Normalize implements platform.Normalizer: values read back as the string
// they were encoded to. nil stays nil.
func (r *Redis) Normalize(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	return encodeValue(value)
}

func (r *Redis) hashKey(itemID int) string {
	return r.prefix + strconv.Itoa(itemID)
}

func encodeValue(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		if v {
			return "1", nil
		}
		return "0", nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
