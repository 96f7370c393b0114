package domain

import "context"

// ProductEventType names a catalog mutation.
type ProductEventType string

const (
	ProductCreated ProductEventType = "productAdded"
	ProductUpdated ProductEventType = "productUpdated"
	ProductDeleted ProductEventType = "productDeleted"
)

// ProductEvent is emitted after a catalog mutation has been persisted.
type ProductEvent struct {
	Type    ProductEventType
	Product *Product
}

// ProductEventPublisher receives catalog mutations.
type ProductEventPublisher interface {
	PublishProductEvent(ctx context.Context, evt ProductEvent) error
}
