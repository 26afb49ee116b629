package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"call-tracker/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

var (
	ErrInvalidEvent = errors.New("audit: invalid event")
	ErrNoPublisher  = errors.New("audit: publisher not configured")
)

// Service publishes record lifecycle events.
//
// Callers should treat publication as best-effort.
type Service struct {
	pub   message.Publisher
	clock func() time.Time
}

func NewService(pub message.Publisher) *Service {
	return &Service{pub: pub, clock: time.Now}
}

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.pub == nil {
		return ErrNoPublisher
	}
	if e.Type == "" || e.RecordID <= 0 {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("audit: encode event: %w", err)
	}
	msg := message.NewMessage(e.ID, payload)
	msg.Metadata.Set("type", string(e.Type))
	msg.SetContext(ctx)
	return s.pub.Publish(Topic, msg)
}

// LogRecordCreated records that a call record was stored.
func (s *Service) LogRecordCreated(ctx context.Context, recordID int64) error {
	return s.Append(ctx, Event{Type: EventTypeRecordCreated, RecordID: recordID, Message: "record created"})
}

// LogRecordDeleted records that a call record was removed.
func (s *Service) LogRecordDeleted(ctx context.Context, recordID int64) error {
	return s.Append(ctx, Event{Type: EventTypeRecordDeleted, RecordID: recordID, Message: "record deleted"})
}

// Consume subscribes to Topic and passes each decoded event to fn until ctx is done
// or the subscriber closes. Undecodable messages are logged, acked and dropped.
func Consume(ctx context.Context, sub message.Subscriber, fn func(context.Context, Event)) error {
	msgs, err := sub.Subscribe(ctx, Topic)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var e Event
			if err := json.Unmarshal(msg.Payload, &e); err != nil {
				logger.From(ctx).Warn("audit event dropped", "message_id", msg.UUID, "err", err)
				msg.Ack()
				continue
			}
			fn(ctx, e)
			msg.Ack()
		}
	}
}
