package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/planweaver/planweaver-backend/internal/logger"
)

const (
	CatalogOpUpsert = "upsert"
	CatalogOpDelete = "delete"
)

// CatalogMessage announces one catalog mutation to other instances so their
// in-memory stores re-read or drop the row.
type CatalogMessage struct {
	Op string `json:"op"`
	ID string `json:"id"`
}

type CatalogBus interface {
	Publish(ctx context.Context, msg CatalogMessage) error
	StartForwarder(ctx context.Context, onMsg func(m CatalogMessage)) error
	Close() error
}

type catalogBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewCatalogBus connects to redis when REDIS_ADDR is set; deployments without
// redis simply run without cross-instance invalidation.
func NewCatalogBus(log *logger.Logger) (CatalogBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("CATALOG_CHANNEL"))
	if ch == "" {
		ch = "catalog"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &catalogBus{
		log:     log.With("service", "RedisCatalogBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *catalogBus) Publish(ctx context.Context, msg CatalogMessage) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis catalog bus not initialized")
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *catalogBus) StartForwarder(ctx context.Context, onMsg func(m CatalogMessage)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis catalog bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var msg CatalogMessage
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					b.log.Warn("bad redis catalog payload", "error", err)
					continue
				}
				onMsg(msg)
			}
		}
	}()

	return nil
}

func (b *catalogBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
