package events

import (
	"context"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-storage-samples/internal/apperr"
	kafkax "github.com/ariefcatur/go-storage-samples/internal/kafka"
)

// Acknowledgment is returned to HTTP callers once a message is queued.
const Acknowledgment = "Message published"

// Enqueuer is satisfied by *kafka.Producer.
type Enqueuer interface {
	Publish(key, value []byte, headers ...kafkago.Header) bool
}

type Publisher struct {
	q   Enqueuer
	log *slog.Logger
	now func() time.Time
}

func NewPublisher(q Enqueuer, log *slog.Logger) *Publisher {
	return &Publisher{q: q, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Publish hands the event to the producer and returns without waiting for the
// broker. A dropped message is logged by the producer, not reported here.
func (p *Publisher) Publish(ctx context.Context, userID int64, action string) error {
	if action == "" {
		return apperr.NewBadRequest("action is required")
	}
	msg := UserEventMessage{UserID: userID, Action: action, Timestamp: p.now()}
	b, err := kafkax.Encode(msg)
	if err != nil {
		return apperr.NewInternal("encode event", err)
	}
	queued := p.q.Publish(PartitionKey(userID), b,
		kafkago.Header{Key: HeaderAction, Value: []byte(action)},
		kafkago.Header{Key: HeaderVersion, Value: []byte("1")},
	)
	p.log.DebugContext(ctx, "user event accepted", "userId", userID, "action", action, "queued", queued)
	return nil
}
