// Package kafka publishes product mutations to a Kafka topic as JSON.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/mrops-br/coder-ecommerce-api/internal/app/dto"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
)

// ProducerClient is the subset of *kgo.Client the publisher needs.
type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type productEvent struct {
	Type       domain.ProductEventType `json:"type"`
	Product    *dto.ProductResponse    `json:"product"`
	OccurredAt time.Time               `json:"occurred_at"`
}

// Publisher writes one record per product event, keyed by product id so
// events of one product stay ordered within a partition.
type Publisher struct {
	cl     ProducerClient
	topic  string
	logger *slog.Logger
}

// NewPublisher connects to the seed brokers and verifies the cluster is
// reachable.
func NewPublisher(ctx context.Context, brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	const op = "kafka.NewPublisher"

	cl, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cl.Ping(ctx); err != nil {
		cl.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	logger.Info("Kafka publisher ready", slog.String("topic", topic))
	return NewPublisherWithClient(cl, topic, logger), nil
}

// NewPublisherWithClient creates a publisher on an existing producer client
func NewPublisherWithClient(cl ProducerClient, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{cl: cl, topic: topic, logger: logger}
}

// PublishProductEvent produces evt to the topic keyed by product ID
func (p *Publisher) PublishProductEvent(ctx context.Context, evt domain.ProductEvent) error {
	const op = "kafka.Publisher.PublishProductEvent"

	value, err := json.Marshal(productEvent{
		Type:       evt.Type,
		Product:    dto.ToProductResponse(evt.Product),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rec := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(evt.Product.ID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event-type", Value: []byte(evt.Type)},
		},
	}
	if err := p.cl.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.logger.DebugContext(ctx, "Product event published",
		slog.String("event", string(evt.Type)),
		slog.String("product_id", evt.Product.ID),
	)
	return nil
}

// Close shuts down the underlying client
func (p *Publisher) Close() {
	p.logger.Info("Closing kafka publisher")
	p.cl.Close()
}
