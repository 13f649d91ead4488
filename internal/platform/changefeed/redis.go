package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Canal pub/sub por tabla: changefeed:{table}
const keyChannel = "changefeed:%s"

// RedisBus publica/consume eventos vía Redis pub/sub.
// Multi-instancia: cada API ve los writes de las demás.
type RedisBus struct {
	rdb *redis.Client
}

func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb}
}

func (b *RedisBus) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("changefeed marshal: %w", err)
	}
	if err := b.rdb.Publish(ctx, fmt.Sprintf(keyChannel, e.Table), payload).Err(); err != nil {
		return fmt.Errorf("changefeed publish: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, table string) (<-chan Event, error) {
	sub := b.rdb.Subscribe(ctx, fmt.Sprintf(keyChannel, table))

	// Confirmar la suscripción antes de devolver el canal,
	// para no perder eventos publicados justo después del Subscribe.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("changefeed subscribe: %w", err)
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(m.Payload), &e); err != nil {
					continue // payload ajeno en el canal; ignorar
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
