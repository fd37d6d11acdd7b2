package lock

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"league-ladder/internal/config"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Guard keeps two runs of the same key from overlapping. Acquire reports
// false when the key is already held.
type Guard interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// LocalGuard guards keys within one process.
type LocalGuard struct {
	held *xsync.Map[string, lease]
	seq  atomic.Uint64
}

type lease struct {
	token   uint64
	expires time.Time
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{held: xsync.NewMap[string, lease]()}
}

// Acquire takes key for ttl. The returned release only drops the key while
// it still holds this lease, so a holder that outlived its ttl cannot free a
// key someone else has since taken.
func (g *LocalGuard) Acquire(_ context.Context, key string, ttl time.Duration) (func(), bool, error) {
	now := time.Now()
	mine := lease{token: g.seq.Add(1), expires: now.Add(ttl)}
	acquired := false
	g.held.Compute(key, func(cur lease, loaded bool) (lease, xsync.ComputeOp) {
		if loaded && now.Before(cur.expires) {
			return cur, xsync.CancelOp
		}
		acquired = true
		return mine, xsync.UpdateOp
	})
	if !acquired {
		return nil, false, nil
	}
	return func() { g.release(key, mine.token) }, true, nil
}

func (g *LocalGuard) release(key string, token uint64) {
	g.held.Compute(key, func(cur lease, loaded bool) (lease, xsync.ComputeOp) {
		if loaded && cur.token == token {
			return cur, xsync.DeleteOp
		}
		return cur, xsync.CancelOp
	})
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard guards keys across processes sharing one Redis.
type RedisGuard struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

func NewRedisGuard(client *redis.Client, logger zerolog.Logger) *RedisGuard {
	return &RedisGuard{client: client, prefix: "ladder:run:", logger: logger}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token, err := gonanoid.New()
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate lock token: %w", err)
	}

	full := g.prefix + key
	ok, err := g.client.SetNX(ctx, full, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire %s: %w", full, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, g.client, []string{full}, token).Err(); err != nil {
			g.logger.Warn().Err(err).Str("key", full).Msg("failed to release run lock")
		}
	}
	return release, true, nil
}

// New picks the Redis guard when REDIS_ADDR is set and the local guard
// otherwise.
func New(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (Guard, error) {
	if cfg.RedisAddr == "" {
		logger.Info().Msg("using in-process run guard")
		return NewLocalGuard(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	logger.Info().Str("addr", cfg.RedisAddr).Msg("using redis run guard")
	return NewRedisGuard(client, logger), nil
}

var Module = fx.Provide(New)
