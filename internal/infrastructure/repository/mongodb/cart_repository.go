package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
)

// CartRepository is a MongoDB implementation of domain.CartRepository
type CartRepository struct {
	coll   *mongo.Collection
	tracer trace.Tracer
	logger *slog.Logger
}

// NewCartRepository creates a cart repository backed by the carts collection
func NewCartRepository(db *mongo.Database, tracer trace.Tracer, logger *slog.Logger) *CartRepository {
	return &CartRepository{coll: db.Collection(cartsCollection), tracer: tracer, logger: logger}
}

func (r *CartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	const op = "mongodb.CartRepository.Create"

	ctx, span := r.tracer.Start(ctx, "CartRepository.Create")
	defer span.End()

	items, err := lineItemDocuments(cart.Items)
	if err != nil {
		recordError(span, err, "Invalid product reference")
		return err
	}
	res, err := r.coll.InsertOne(ctx, cartDocument{
		Products:  items,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	})
	if err != nil {
		recordError(span, err, "Failed to store cart")
		return fmt.Errorf("%s: %w", op, err)
	}
	cart.ID = objectIDHex(res.InsertedID)

	r.logger.InfoContext(ctx, "Cart created in repository", slog.String("cart_id", cart.ID))
	span.SetAttributes(attribute.String("cart.id", cart.ID))
	span.SetStatus(codes.Ok, "Cart created successfully")
	return nil
}

func (r *CartRepository) FindByID(ctx context.Context, id string) (*domain.Cart, error) {
	const op = "mongodb.CartRepository.FindByID"

	ctx, span := r.tracer.Start(ctx, "CartRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("cart.id", id))

	oid, err := parseID(id)
	if err != nil {
		recordError(span, err, "Invalid cart id")
		return nil, err
	}

	var doc cartDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		recordError(span, domain.ErrCartNotFound, "Cart not found")
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		recordError(span, err, "Failed to read cart")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	span.SetStatus(codes.Ok, "Cart found")
	return doc.toDomain(), nil
}

func (r *CartRepository) FindAll(ctx context.Context) ([]*domain.Cart, error) {
	const op = "mongodb.CartRepository.FindAll"

	ctx, span := r.tracer.Start(ctx, "CartRepository.FindAll")
	defer span.End()

	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		recordError(span, err, "Failed to read carts")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []cartDocument
	if err := cur.All(ctx, &docs); err != nil {
		recordError(span, err, "Failed to decode carts")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	carts := make([]*domain.Cart, len(docs))
	for i := range docs {
		carts[i] = docs[i].toDomain()
	}
	span.SetAttributes(attribute.Int("cart.count", len(carts)))
	span.SetStatus(codes.Ok, "Carts retrieved successfully")
	return carts, nil
}

// Save replaces the stored item list of an existing cart.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	const op = "mongodb.CartRepository.Save"

	ctx, span := r.tracer.Start(ctx, "CartRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("cart.id", cart.ID),
		attribute.Int("cart.items", len(cart.Items)),
	)

	oid, err := parseID(cart.ID)
	if err != nil {
		recordError(span, err, "Invalid cart id")
		return err
	}
	items, err := lineItemDocuments(cart.Items)
	if err != nil {
		recordError(span, err, "Invalid product reference")
		return err
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "products", Value: items},
			{Key: "updatedAt", Value: cart.UpdatedAt},
		}}},
	)
	if err != nil {
		recordError(span, err, "Failed to save cart")
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
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
