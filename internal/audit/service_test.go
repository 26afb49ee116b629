package audit

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPubSub(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	// Persistent so events published before the consumer subscribes are replayed.
	ps := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16, Persistent: true}, watermill.NopLogger{})
	t.Cleanup(func() { _ = ps.Close() })
	return ps
}

func TestService_AppendRequiresTypeAndRecord(t *testing.T) {
	svc := NewService(newTestPubSub(t))

	assert.ErrorIs(t, svc.Append(context.Background(), Event{RecordID: 1}), ErrInvalidEvent)
	assert.ErrorIs(t, svc.Append(context.Background(), Event{Type: EventTypeRecordCreated}), ErrInvalidEvent)
}

func TestService_AppendWithoutPublisher(t *testing.T) {
	svc := NewService(nil)
	assert.ErrorIs(t, svc.LogRecordCreated(context.Background(), 1), ErrNoPublisher)
}

func TestService_PublishesAndConsumes(t *testing.T) {
	ps := newTestPubSub(t)
	svc := NewService(ps)
	fixed := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	svc.clock = func() time.Time { return fixed }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, svc.LogRecordCreated(ctx, 7))
	require.NoError(t, svc.LogRecordDeleted(ctx, 7))

	got := make(chan Event, 2)
	done := make(chan error, 1)
	go func() {
		done <- Consume(ctx, ps, func(_ context.Context, e Event) { got <- e })
	}()

	var events []Event
	for len(events) < 2 {
		select {
		case e := <-got:
			events = append(events, e)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for events, got %d", len(events))
		}
	}

	// Persisted messages are replayed concurrently, so delivery order is not fixed.
	assert.ElementsMatch(t,
		[]EventType{EventTypeRecordCreated, EventTypeRecordDeleted},
		[]EventType{events[0].Type, events[1].Type})
	for _, e := range events {
		assert.EqualValues(t, 7, e.RecordID)
		assert.NotEmpty(t, e.ID)
		assert.True(t, fixed.Equal(e.CreatedAt))
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("consumer did not stop")
	}
}

func TestConsume_DropsUndecodablePayloads(t *testing.T) {
	ps := newTestPubSub(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, ps.Publish(Topic, message.NewMessage(watermill.NewUUID(), []byte("not json"))))
	require.NoError(t, NewService(ps).LogRecordCreated(ctx, 3))

	got := make(chan Event, 1)
	go func() { _ = Consume(ctx, ps, func(_ context.Context, e Event) { got <- e }) }()

	select {
	case e := <-got:
		assert.EqualValues(t, 3, e.RecordID)
	case <-time.After(2 * time.Second):
		t.Fatalf("valid event after a bad one was not delivered")
	}
}
