package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
)

// HandlerFunc processes one decoded event
type HandlerFunc func(ctx context.Context, event *Event) error

// Listener consumes the evaluation topic and dispatches events by type
type Listener struct {
	subscriber message.Subscriber
	topicName  string
	handlers   map[EventType][]HandlerFunc
	logger     *slog.Logger
}

func NewListener(subscriber message.Subscriber, topicName string, logger *slog.Logger) *Listener {
	return &Listener{
		subscriber: subscriber,
		topicName:  topicName,
		handlers:   make(map[EventType][]HandlerFunc),
		logger:     logger,
	}
}

// On registers a handler for the given event types
func (l *Listener) On(handler HandlerFunc, types ...EventType) {
	for _, t := range types {
		l.handlers[t] = append(l.handlers[t], handler)
	}
}

// Run consumes messages until ctx is cancelled or the subscription closes.
// Every message is acked: malformed payloads and handler failures are logged, not redelivered.
func (l *Listener) Run(ctx context.Context) error {
	messages, err := l.subscriber.Subscribe(ctx, l.topicName)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", l.topicName, err)
	}

	l.logger.Info("Event listener started", "topic", l.topicName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			l.handle(ctx, msg)
			msg.Ack()
		}
	}
}

func (l *Listener) handle(ctx context.Context, msg *message.Message) {
	event, err := DecodeEvent(msg.Payload)
	if err != nil {
		l.logger.Warn("Dropping malformed event", "message_id", msg.UUID, "error", err)
		return
	}

	handlers := l.handlers[event.Type]
	if len(handlers) == 0 {
		l.logger.Debug("No handler for event", "event_type", event.Type)
		return
	}

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			l.logger.Error("Event handler failed",
				"event_id", event.ID,
				"event_type", event.Type,
				"error", err)
		}
	}
}

// DecodeEvent parses an event envelope; the type and id are mandatory
func DecodeEvent(payload []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("invalid event payload: %w", err)
	}
	if event.Type == "" || event.ID == "" {
		return nil, errors.New("event is missing id or type")
	}
	return &event, nil
}
