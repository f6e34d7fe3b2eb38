package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

const DefaultLotEventsChannel = "lot-events"

type Config struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// LotEventBus publishes lot lifecycle events on a redis pub/sub channel.
type LotEventBus interface {
	Publish(ctx context.Context, evt types.LotEvent) error
	Subscribe(ctx context.Context, onEvent func(evt types.LotEvent)) error
	Channel() string
	Close() error
}

type lotEventBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewLotEventBus(log *logger.Logger, cfg Config) (LotEventBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(cfg.Channel)
	if ch == "" {
		ch = DefaultLotEventsChannel
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &lotEventBus{
		log:     log.With("service", "RedisLotEventBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *lotEventBus) Channel() string { return b.channel }

func (b *lotEventBus) Publish(ctx context.Context, evt types.LotEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis lot event bus not initialized")
	}
	raw, err := EncodeLotEvent(evt)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// Subscribe forwards decoded events to onEvent until ctx is cancelled.
func (b *lotEventBus) Subscribe(ctx context.Context, onEvent func(evt types.LotEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis lot event bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				evt, err := DecodeLotEvent([]byte(m.Payload))
				if err != nil {
					b.log.Warn("bad redis lot event payload", "error", err)
					continue
				}
				onEvent(evt)
			}
		}
	}()
	return nil
}

func (b *lotEventBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

func EncodeLotEvent(evt types.LotEvent) ([]byte, error) {
	if evt.Type == "" {
		return nil, fmt.Errorf("lot event type required")
	}
	return json.Marshal(evt)
}

func DecodeLotEvent(raw []byte) (types.LotEvent, error) {
	var evt types.LotEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return types.LotEvent{}, err
	}
	if evt.Type == "" {
		return types.LotEvent{}, fmt.Errorf("lot event type missing")
	}
	return evt, nil
}
