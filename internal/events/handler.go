package events

import (
	"context"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-storage-samples/internal/kafka"
)

// LogHandler logs each received message and its decoded form. Malformed
// payloads are logged and skipped; it never returns an error.
func LogHandler(log *slog.Logger) kafkax.Handler {
	return func(ctx context.Context, m kafkago.Message) error {
		log.InfoContext(ctx, "user event received",
			"topic", m.Topic, "partition", m.Partition, "offset", m.Offset,
			"key", string(m.Key), "raw", string(m.Value))

		ev, err := kafkax.Decode[UserEventMessage](m.Value)
		if err != nil {
			log.ErrorContext(ctx, "user event malformed", "offset", m.Offset, "err", err)
			return nil
		}
		log.InfoContext(ctx, "user event decoded",
			"userId", ev.UserID, "action", ev.Action, "timestamp", ev.Timestamp)
		return nil
	}
}
