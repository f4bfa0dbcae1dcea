package kafka

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storage-samples/internal/logging"
)

type recordingWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *recordingWriter) snapshot() ([]kafka.Message, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.msgs...), w.closed
}

func TestProducer_FlushesOnClose(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, 16, logging.Discard())
	p.Start(context.Background())

	for _, k := range []string{"1", "2", "3"} {
		require.True(t, p.Publish([]byte(k), []byte(`{}`)))
	}
	p.Close()
	p.WaitClosed()

	msgs, closed := w.snapshot()
	require.Len(t, msgs, 3)
	assert.Equal(t, "1", string(msgs[0].Key))
	assert.Equal(t, "3", string(msgs[2].Key))
	assert.True(t, closed)
}

func TestProducer_ContextCancelStopsLoop(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, 4, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	require.True(t, p.Publish([]byte("k"), []byte("v")))
	cancel()

	select {
	case <-p.closeCh:
	case <-time.After(2 * time.Second):
		t.Fatal("producer did not stop after cancel")
	}
	msgs, closed := w.snapshot()
	assert.Len(t, msgs, 1)
	assert.True(t, closed)
	assert.False(t, p.Publish([]byte("k"), []byte("v")))
}

func TestProducer_DropsWhenInboxFull(t *testing.T) {
	p := NewProducerWithWriter(&recordingWriter{}, 1, logging.Discard())

	assert.True(t, p.Publish([]byte("a"), nil))
	assert.False(t, p.Publish([]byte("b"), nil))
}

func TestProducer_CloseTwice(t *testing.T) {
	p := NewProducerWithWriter(&recordingWriter{}, 1, logging.Discard())
	p.Start(context.Background())
	p.Close()
	p.Close()
	p.WaitClosed()
}

func TestEncodeDecode(t *testing.T) {
	type msg struct {
		A int `json:"a"`
	}
	b, err := Encode(msg{A: 7})
	require.NoError(t, err)

	got, err := Decode[msg](b)
	require.NoError(t, err)
	assert.Equal(t, 7, got.A)

	_, err = Decode[msg]([]byte("nope"))
	assert.Error(t, err)
}

func TestHeaderValue(t *testing.T) {
	m := kafka.Message{Headers: []kafka.Header{{Key: "x-event-action", Value: []byte("login")}}}

	v, ok := HeaderValue(m, "x-event-action")
	assert.True(t, ok)
	assert.Equal(t, "login", v)

	_, ok = HeaderValue(m, "missing")
	assert.False(t, ok)
}
