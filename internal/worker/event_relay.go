package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/events"
	"github.com/spec-kit/user-service/internal/persistence"
)

// StartEventRelay subscribes the Redis stream sink to user events. It does
// nothing when Redis is not configured.
func StartEventRelay(dispatcher events.Dispatcher, rdb *persistence.Redis, stream string, logger *zap.Logger) bool {
	if dispatcher == nil || !rdb.Enabled() {
		return false
	}

	sink := events.NewRedisStreamSink(rdb.Client, stream)
	dispatcher.Subscribe(events.EventUserCreated, func(ctx context.Context, event events.Event) error {
		if err := sink(ctx, event); err != nil {
			return err
		}
		logger.Debug("event relayed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("stream", stream))
		return nil
	})

	logger.Info("event relay started", zap.String("stream", stream))
	return true
}
