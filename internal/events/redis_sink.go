package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StreamAdder is the go-redis command used by the sink.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// NewRedisStreamSink returns a handler that appends each event to a Redis stream.
func NewRedisStreamSink(client StreamAdder, stream string) EventHandler {
	return func(ctx context.Context, event Event) error {
		args, err := streamArgs(stream, event)
		if err != nil {
			return err
		}
		if err := client.XAdd(ctx, args).Err(); err != nil {
			return fmt.Errorf("xadd %s: %w", stream, err)
		}
		return nil
	}
}

func streamArgs(stream string, event Event) (*redis.XAddArgs, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event.Type, err)
	}
	return &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"id":        event.ID,
			"type":      string(event.Type),
			"user_id":   event.UserID,
			"timestamp": event.Timestamp.Format(time.RFC3339Nano),
			"payload":   string(payload),
		},
	}, nil
}
