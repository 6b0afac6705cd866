package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/locvowork/employee_records/internal/domain"
)

// redisPublisher publishes employee events as JSON on a Redis channel.
type redisPublisher struct {
	rdb     *redis.Client
	channel string
}

// NewRedisPublisher creates a publisher on channel.
func NewRedisPublisher(rdb *redis.Client, channel string) domain.EventPublisher {
	return &redisPublisher{rdb: rdb, channel: channel}
}

func (p *redisPublisher) Publish(ctx context.Context, event domain.EmployeeEvent) error {
	raw, err := encodeEvent(event)
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, p.channel, raw).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

func encodeEvent(event domain.EmployeeEvent) ([]byte, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", event.Type, err)
	}
	return raw, nil
}

// Noop discards every event. It is used when no Redis address is configured.
type Noop struct{}

func (Noop) Publish(context.Context, domain.EmployeeEvent) error {
	return nil
}
