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
	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
)

// ProductRepository is a MongoDB implementation of domain.ProductRepository
type ProductRepository struct {
	coll   *mongo.Collection
	tracer trace.Tracer
	logger *slog.Logger
}

// NewProductRepository creates a product repository backed by the products collection
func NewProductRepository(db *mongo.Database, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{coll: db.Collection(productsCollection), tracer: tracer, logger: logger}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	const op = "mongodb.ProductRepository.Create"

	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	res, err := r.coll.InsertOne(ctx, newProductDocument(product))
	if err != nil {
		err = productWriteError(err, product.Code)
		recordError(span, err, "Failed to store product")
		return fmt.Errorf("%s: %w", op, err)
	}
	product.ID = objectIDHex(res.InsertedID)

	r.logger.InfoContext(ctx, "Product created in repository",
		slog.String("product_id", product.ID),
		slog.String("product_code", product.Code),
	)
	span.SetAttributes(attribute.String("product.id", product.ID))
	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	const op = "mongodb.ProductRepository.FindByID"

	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	oid, err := parseID(id)
	if err != nil {
		recordError(span, err, "Invalid product id")
		return nil, err
	}

	var doc productDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		recordError(span, domain.ErrProductNotFound, "Product not found")
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		recordError(span, err, "Failed to read product")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	span.SetStatus(codes.Ok, "Product found")
	return doc.toDomain(), nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	const op = "mongodb.ProductRepository.FindAll"

	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		recordError(span, err, "Failed to read products")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		recordError(span, err, "Failed to decode products")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	span.SetAttributes(attribute.Int("product.count", len(docs)))
	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return productsToDomain(docs), nil
}

func (r *ProductRepository) List(ctx context.Context, plan query.Plan) ([]*domain.Product, int64, error) {
	const op = "mongodb.ProductRepository.List"

	ctx, span := r.tracer.Start(ctx, "ProductRepository.List")
	defer span.End()

	docs, total, err := aggregatePage[productDocument](ctx, r.coll, plan)
	if err != nil {
		recordError(span, err, "Failed to list products")
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	span.SetAttributes(attribute.Int64("product.total", total))
	span.SetStatus(codes.Ok, "Products listed successfully")
	return productsToDomain(docs), total, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	const op = "mongodb.ProductRepository.Update"

	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", product.ID))

	oid, err := parseID(product.ID)
	if err != nil {
		recordError(span, err, "Invalid product id")
		return err
	}

	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, newProductDocument(product))
	if err != nil {
		err = productWriteError(err, product.Code)
		recordError(span, err, "Failed to update product")
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		recordError(span, domain.ErrProductNotFound, "Product not found")
		return domain.ErrProductNotFound
	}

	r.logger.InfoContext(ctx, "Product updated in repository", slog.String("product_id", product.ID))
	span.SetStatus(codes.Ok, "Product updated successfully")
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (*domain.Product, error) {
	const op = "mongodb.ProductRepository.Delete"

	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	oid, err := parseID(id)
	if err != nil {
		recordError(span, err, "Invalid product id")
		return nil, err
	}

	var doc productDocument
	err = r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		recordError(span, domain.ErrProductNotFound, "Product not found")
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		recordError(span, err, "Failed to delete product")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.logger.InfoContext(ctx, "Product deleted from repository", slog.String("product_id", id))
	span.SetStatus(codes.Ok, "Product deleted successfully")
	return doc.toDomain(), nil
}

func productsToDomain(docs []productDocument) []*domain.Product {
	out := make([]*domain.Product, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out
}

// productWriteError maps unique index violations on code.
func productWriteError(err error, code string) error {
	if mongo.IsDuplicateKeyError(err) {
		return &domain.DuplicateKeyError{Field: domain.ProductFieldCode, Value: code}
	}
	return err
}
