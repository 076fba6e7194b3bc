// Package event publishes catalog domain events.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/EcoTrail/internal/domain"
	pkgkafka "github.com/utafrali/EcoTrail/pkg/kafka"
	"github.com/utafrali/EcoTrail/pkg/logger"
)

// Aggregate types.
const (
	AggregateTypeProduct = "product"
	AggregateTypeReview  = "review"
)

// Topics.
var (
	TopicProductCreated = pkgkafka.Topic(AggregateTypeProduct, "created")
	TopicReviewCreated  = pkgkafka.Topic(AggregateTypeReview, "created")
)

// Source identifies this service in event envelopes.
const Source = "ecotrail-api"

// Publisher emits events after successful writes.
type Publisher interface {
	ProductCreated(ctx context.Context, p *domain.Product) error
	ReviewCreated(ctx context.Context, r *domain.Review) error
}

// ProductCreatedData is the payload of a product created event.
type ProductCreatedData struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"sale_price,omitempty"`
	Currency  string   `json:"currency"`
	EcoBadge  *string  `json:"eco_badge,omitempty"`
}

// ReviewCreatedData is the payload of a review created event.
type ReviewCreatedData struct {
	ID               string         `json:"id"`
	ProductID        string         `json:"product_id"`
	Title            string         `json:"title"`
	VerifiedPurchase bool           `json:"verified_purchase"`
	Ratings          map[string]int `json:"ratings"`
}

// Producer publishes catalog events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

var _ Publisher = (*Producer)(nil)

// NewProducer creates a Kafka-backed Publisher.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// ProductCreated publishes a product created event.
func (p *Producer) ProductCreated(ctx context.Context, product *domain.Product) error {
	data := ProductCreatedData{
		ID:        product.ID,
		Title:     product.Title,
		Category:  product.Category,
		Price:     product.Price,
		SalePrice: product.SalePrice,
		Currency:  product.Currency,
		EcoBadge:  product.EcoBadge,
	}
	return p.publish(ctx, TopicProductCreated, product.ID, AggregateTypeProduct, data)
}

// ReviewCreated publishes a review created event.
func (p *Producer) ReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ID:               review.ID,
		ProductID:        review.ProductID,
		Title:            review.Title,
		VerifiedPurchase: review.VerifiedPurchase,
		Ratings:          review.Ratings,
	}
	return p.publish(ctx, TopicReviewCreated, review.ID, AggregateTypeReview, data)
}

func (p *Producer) publish(ctx context.Context, topic, id, aggregate string, data any) error {
	evt, err := pkgkafka.NewEvent(topic, id, aggregate, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	evt.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}

// Noop discards events. It is used when Kafka is disabled.
type Noop struct{}

var _ Publisher = Noop{}

// ProductCreated implements Publisher.
func (Noop) ProductCreated(context.Context, *domain.Product) error { return nil }

// ReviewCreated implements Publisher.
func (Noop) ReviewCreated(context.Context, *domain.Review) error { return nil }
