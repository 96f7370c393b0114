// Package events distributes product mutations to every registered sink.
package events

import (
	"context"
	"errors"
	"sync"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
)

// Fanout forwards each event to all subscribers in registration order.
// Subscribers may be added after the publishing service is built.
type Fanout struct {
	mu   sync.RWMutex
	subs []domain.ProductEventPublisher
}

// NewFanout creates a fanout over subs
func NewFanout(subs ...domain.ProductEventPublisher) *Fanout {
	return &Fanout{subs: subs}
}

// Add registers another subscriber
func (f *Fanout) Add(sub domain.ProductEventPublisher) {
	f.mu.Lock()
	f.subs = append(f.subs, sub)
	f.mu.Unlock()
}

// PublishProductEvent delivers evt to every subscriber and joins their
// errors. A failing subscriber does not stop delivery to the others.
func (f *Fanout) PublishProductEvent(ctx context.Context, evt domain.ProductEvent) error {
	f.mu.RLock()
	subs := append([]domain.ProductEventPublisher(nil), f.subs...)
	f.mu.RUnlock()

	var errs []error
	for _, sub := range subs {
		if err := sub.PublishProductEvent(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
