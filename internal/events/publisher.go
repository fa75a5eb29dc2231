package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type EventMeta struct {
	CorrelationID string
	CausationID   string
	PartitionKey  string
}

type Publisher struct {
	mu       sync.Mutex
	ch       *amqp.Channel
	seqRepo  SequenceRepository
	producer string
	log      *zap.Logger
}

type PublisherOptions struct {
	Producer string
	Logger   *zap.Logger
}

func NewPublisher(conn *amqp.Connection, seqRepo SequenceRepository, opts PublisherOptions) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	if opts.Producer == "" {
		opts.Producer = DefaultProducer
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Publisher{
		ch:       ch,
		seqRepo:  seqRepo,
		producer: opts.Producer,
		log:      opts.Logger.Named("events"),
	}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishCartCheckedOut(ctx context.Context, meta EventMeta, payload CartCheckedOutPayload) error {
	partition := meta.PartitionKey
	if partition == "" {
		partition = payload.CartID
	}

	seq, err := p.seqRepo.NextSequence(ctx, partition)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	env := BuildCartCheckedOutEvent(payload, EnvelopeOptions{
		PartitionKey:  partition,
		Sequence:      seq,
		Producer:      p.producer,
		CorrelationID: meta.CorrelationID,
		CausationID:   meta.CausationID,
	})
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal CartCheckedOut envelope: %w", err)
	}

	if err := p.publishJSON(ctx, CartCheckedOutRoutingKey, env.EventID, body); err != nil {
		return err
	}
	p.log.Info("published",
		zap.String("event", env.EventName),
		zap.String("eventId", env.EventID),
		zap.String("partitionKey", partition),
		zap.Int64("sequence", seq),
	)
	return nil
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey, messageID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishCartCheckedOut(context.Context, EventMeta, CartCheckedOutPayload) error {
	return nil
}
