package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	wrap "github.com/distordia/nexgo/pkg/logger/wrapper"
	"github.com/distordia/nexgo/pkg/rabbit"
	"github.com/rabbitmq/amqp091-go"
)

const boardExchange = "nexgo_board"

// BoardProducer publishes board lifecycle events and diagnostics to a topic
// exchange. Everything here is best-effort: the board works without a
// broker, consumers are observers, never dependencies.
type BoardProducer struct {
	client *rabbit.RabbitMQ
}

func NewBoardProducer(client *rabbit.RabbitMQ) *BoardProducer {
	p := &BoardProducer{
		client: client,
	}

	if client != nil && !client.IsConnectionClosed() {
		// Declaration is idempotent, consumers may have raced us to it.
		_ = client.Channel.ExchangeDeclare(boardExchange, "topic", true, false, false, false, nil)
	}

	return p
}

// BoardEvent is the published message shape
type BoardEvent struct {
	Kind      string    `json:"kind"`
	Genesis   string    `json:"genesis,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PublishEvent publishes a board event under routing key board.event.<kind>
func (r *BoardProducer) PublishEvent(ctx context.Context, event BoardEvent) error {
	const op = "BoardProducer.PublishEvent"

	if r == nil || r.client == nil || r.client.IsConnectionClosed() {
		return nil
	}

	event.Timestamp = time.Now().UTC()

	body, err := json.Marshal(event)
	if err != nil {
		ctx = wrap.WithAction(ctx, "marshal_board_event")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal event: %w", op, err))
	}

	key := fmt.Sprintf("board.event.%s", event.Kind)

	if err := r.client.Channel.PublishWithContext(
		ctx,
		boardExchange, // exchange
		key,           // routing key
		false,         // mandatory
		false,         // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	); err != nil {
		ctx = wrap.WithAction(ctx, "publish_board_event")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to publish: %w", op, err))
	}

	return nil
}

// PublishDiagnostic reports a background failure that was deliberately not
// surfaced to the user, e.g. the trailing offline write after stopping a
// broadcast. Routing key board.diagnostic.
func (r *BoardProducer) PublishDiagnostic(ctx context.Context, genesis, detail string) error {
	const op = "BoardProducer.PublishDiagnostic"

	if r == nil || r.client == nil || r.client.IsConnectionClosed() {
		return nil
	}

	body, err := json.Marshal(BoardEvent{
		Kind:      "diagnostic",
		Genesis:   genesis,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal diagnostic: %w", op, err))
	}

	if err := r.client.Channel.PublishWithContext(
		ctx,
		boardExchange,
		"board.diagnostic",
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to publish: %w", op, err))
	}

	return nil
}
