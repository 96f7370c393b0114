package filestore

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
)

// ProductRepository is a flat-file implementation of domain.ProductRepository
type ProductRepository struct {
	products *Collection[productRecord]
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewProductRepository opens the product collection stored at path
func NewProductRepository(path string, tracer trace.Tracer, logger *slog.Logger) (*ProductRepository, error) {
	products, err := OpenCollection(path,
		func(r *productRecord) string { return r.ID },
		func(r *productRecord, id string) { r.ID = id },
	)
	if err != nil {
		return nil, err
	}
	return &ProductRepository{products: products, tracer: tracer, logger: logger}, nil
}

// Create stores a new product and assigns its ID
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("product.code", product.Code))

	rec := toProductRecord(product)
	err := r.products.Insert(&rec, func(existing []productRecord) error {
		return checkCode(existing, product.Code, "")
	})
	if err != nil {
		recordError(span, err, "Failed to store product")
		return err
	}
	product.ID = rec.ID

	r.logger.InfoContext(ctx, "Product created in repository",
		slog.String("product_id", product.ID),
		slog.String("product_code", product.Code),
	)

	span.SetAttributes(attribute.String("product.id", product.ID))
	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	rec, ok, err := r.products.Find(id)
	if err != nil {
		recordError(span, err, "Failed to read products")
		return nil, err
	}
	if !ok {
		recordError(span, domain.ErrProductNotFound, "Product not found")
		r.logger.WarnContext(ctx, "Product not found",
			slog.String("product_id", id),
		)
		return nil, domain.ErrProductNotFound
	}

	span.SetStatus(codes.Ok, "Product found")
	return rec.toDomain(), nil
}

// FindAll retrieves all products in insertion order
func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	recs, err := r.products.All()
	if err != nil {
		recordError(span, err, "Failed to read products")
		return nil, err
	}

	products := make([]*domain.Product, len(recs))
	for i := range recs {
		products[i] = recs[i].toDomain()
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// List evaluates plan against the stored products in memory
func (r *ProductRepository) List(ctx context.Context, plan query.Plan) ([]*domain.Product, int64, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.List")
	defer span.End()

	all, err := r.FindAll(ctx)
	if err != nil {
		recordError(span, err, "Failed to list products")
		return nil, 0, err
	}

	page, total := query.Execute(all, plan)
	span.SetAttributes(
		attribute.Int("product.count", len(page)),
		attribute.Int("product.total", total),
	)
	span.SetStatus(codes.Ok, "Products listed successfully")
	return page, int64(total), nil
}

// Update replaces a stored product
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", product.ID))

	found, err := r.products.Replace(toProductRecord(product), func(existing []productRecord, _ int) error {
		return checkCode(existing, product.Code, product.ID)
	})
	if err != nil {
		recordError(span, err, "Failed to update product")
		return err
	}
	if !found {
		recordError(span, domain.ErrProductNotFound, "Product not found")
		return domain.ErrProductNotFound
	}

	r.logger.InfoContext(ctx, "Product updated in repository",
		slog.String("product_id", product.ID),
	)
	span.SetStatus(codes.Ok, "Product updated successfully")
	return nil
}

// Delete removes a product and returns it
func (r *ProductRepository) Delete(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	rec, found, err := r.products.Remove(id)
	if err != nil {
		recordError(span, err, "Failed to delete product")
		return nil, err
	}
	if !found {
		recordError(span, domain.ErrProductNotFound, "Product not found")
		return nil, domain.ErrProductNotFound
	}

	r.logger.InfoContext(ctx, "Product deleted from repository",
		slog.String("product_id", id),
	)
	span.SetStatus(codes.Ok, "Product deleted successfully")
	return rec.toDomain(), nil
}

// checkCode rejects code when any product other than selfID holds it.
func checkCode(existing []productRecord, code, selfID string) error {
	norm := domain.NormalizeCode(code)
	for _, rec := range existing {
		if rec.ID != selfID && domain.NormalizeCode(rec.Code) == norm {
			return &domain.DuplicateKeyError{Field: domain.ProductFieldCode, Value: norm}
		}
	}
	return nil
}
