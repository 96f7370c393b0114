package filestore

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
)

// CartRepository is a flat-file implementation of domain.CartRepository
type CartRepository struct {
	carts  *Collection[cartRecord]
	tracer trace.Tracer
	logger *slog.Logger
}

// NewCartRepository opens the cart collection stored at path
func NewCartRepository(path string, tracer trace.Tracer, logger *slog.Logger) (*CartRepository, error) {
	carts, err := OpenCollection(path,
		func(r *cartRecord) string { return r.ID },
		func(r *cartRecord, id string) { r.ID = id },
	)
	if err != nil {
		return nil, err
	}
	return &CartRepository{carts: carts, tracer: tracer, logger: logger}, nil
}

// Create stores a new cart and assigns its ID
func (r *CartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	ctx, span := r.tracer.Start(ctx, "CartRepository.Create")
	defer span.End()

	rec := toCartRecord(cart)
	if err := r.carts.Insert(&rec, nil); err != nil {
		recordError(span, err, "Failed to store cart")
		return err
	}
	cart.ID = rec.ID

	r.logger.InfoContext(ctx, "Cart created in repository", slog.String("cart_id", cart.ID))
	span.SetAttributes(attribute.String("cart.id", cart.ID))
	span.SetStatus(codes.Ok, "Cart created successfully")
	return nil
}

// FindByID retrieves a cart by ID
func (r *CartRepository) FindByID(ctx context.Context, id string) (*domain.Cart, error) {
	_, span := r.tracer.Start(ctx, "CartRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("cart.id", id))

	rec, ok, err := r.carts.Find(id)
	if err != nil {
		recordError(span, err, "Failed to read carts")
		return nil, err
	}
	if !ok {
		recordError(span, domain.ErrCartNotFound, "Cart not found")
		return nil, domain.ErrCartNotFound
	}
	span.SetStatus(codes.Ok, "Cart found")
	return rec.toDomain(), nil
}

// FindAll retrieves all carts in insertion order
func (r *CartRepository) FindAll(ctx context.Context) ([]*domain.Cart, error) {
	_, span := r.tracer.Start(ctx, "CartRepository.FindAll")
	defer span.End()

	recs, err := r.carts.All()
	if err != nil {
		recordError(span, err, "Failed to read carts")
		return nil, err
	}
	carts := make([]*domain.Cart, len(recs))
	for i := range recs {
		carts[i] = recs[i].toDomain()
	}
	span.SetAttributes(attribute.Int("cart.count", len(carts)))
	span.SetStatus(codes.Ok, "Carts retrieved successfully")
	return carts, nil
}

// Save overwrites the stored item list of an existing cart.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	ctx, span := r.tracer.Start(ctx, "CartRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("cart.id", cart.ID),
		attribute.Int("cart.items", len(cart.Items)),
	)

	found, err := r.carts.Replace(toCartRecord(cart), nil)
	if err != nil {
		recordError(span, err, "Failed to save cart")
		return err
	}
	if !found {
		recordError(span, domain.ErrCartNotFound, "Cart not found")
		return domain.ErrCartNotFound
	}

	r.logger.DebugContext(ctx, "Cart saved in repository",
		slog.String("cart_id", cart.ID),
		slog.Int("items", len(cart.Items)),
	)
	span.SetStatus(codes.Ok, "Cart saved successfully")
	return nil
}
