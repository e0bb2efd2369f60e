package chainsource

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding the shared chains.
const DefaultRedisKey = "mobileview:fallback_chains"

// HashClient is the part of the go-redis client the Redis source needs.
type HashClient interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

// Redis returns a source reading a hash whose fields are formats and whose
// values are comma separated chains:
//
//	HSET mobileview:fallback_chains iphone "iphone,mobile,html" mobile "mobile,html"
func Redis(client HashClient, key string) Source {
	if key == "" {
		key = DefaultRedisKey
	}
	return SourceFunc(func(ctx context.Context) (map[string][]string, error) {
		if client == nil {
			return nil, ErrNilSource
		}
		fields, err := client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: redis %s: %w", ErrLoadFailed, key, err)
		}
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: redis %s", ErrEmptySource, key)
		}

		chains := make(map[string][]string, len(fields))
		for format, chain := range fields {
			chains[format] = ParseChain(chain)
		}
		return chains, nil
	})
}

// PublishRedis replaces the hash with chains in a single MULTI/EXEC, so every
// watcher of key picks them up on its next poll and never sees it half written.
func PublishRedis(ctx context.Context, client HashClient, key string, chains map[string][]string) error {
	if client == nil {
		return ErrNilSource
	}
	if len(chains) == 0 {
		return ErrEmptySource
	}
	if key == "" {
		key = DefaultRedisKey
	}

	values := make([]any, 0, len(chains)*2)
	for format, chain := range chains {
		values = append(values, format, FormatChain(chain))
	}

	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, values...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis %s: %w", key, err)
	}
	return nil
}
