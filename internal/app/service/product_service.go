package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/coder-ecommerce-api/internal/app/dto"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
)

// ProductService handles product use cases
type ProductService struct {
	repo                  domain.ProductRepository
	events                domain.ProductEventPublisher
	obs                   instrument
	productCreatedCounter metric.Int64Counter
}

// NewProductService creates a new product service. events may be nil.
func NewProductService(
	repo domain.ProductRepository,
	events domain.ProductEventPublisher,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductService {
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	return &ProductService{
		repo:                  repo,
		events:                events,
		obs:                   newInstrument("products", tracer, meter, logger),
		productCreatedCounter: productCreatedCounter,
	}
}

// CreateProduct validates and stores a new product
func (s *ProductService) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	const op = "create"

	ctx, span := s.obs.tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.code", req.Code),
		attribute.Float64("product.price", req.Price),
	)

	s.obs.logger.InfoContext(ctx, "Creating product",
		slog.String("code", req.Code),
		slog.Float64("price", req.Price),
	)

	if err := dto.Validate(req); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Validation failed", err)
	}
	product, err := domain.NewProduct(req.Attrs())
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Validation failed", err)
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to store product", err)
	}

	span.SetAttributes(attribute.String("product.id", product.ID))
	s.productCreatedCounter.Add(ctx, 1)
	s.publish(ctx, domain.ProductCreated, product)

	s.obs.succeed(ctx, span, op, "Product created successfully",
		slog.String("product_id", product.ID),
	)
	return dto.ToProductResponse(product), nil
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	const op = "read"

	ctx, span := s.obs.tracer.Start(ctx, "ProductService.GetProductByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Product not found", err,
			slog.String("product_id", id),
		)
	}

	s.obs.succeed(ctx, span, op, "Product retrieved successfully",
		slog.String("product_id", id),
	)
	return dto.ToProductResponse(product), nil
}

// ListProducts returns one page of products matching params
func (s *ProductService) ListProducts(ctx context.Context, params query.Params) (*dto.ListResult[*dto.ProductResponse], error) {
	const op = "list"

	ctx, span := s.obs.tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()

	span.SetAttributes(
		attribute.Int("query.page", params.Page),
		attribute.Int("query.limit", params.Limit),
		attribute.String("query.sort", params.Sort),
		attribute.String("query.filter", params.Query),
	)

	plan, err := query.Compile(params, domain.ProductQuery)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Invalid product query", err)
	}

	products, total, err := s.repo.List(ctx, plan)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to list products", err)
	}

	span.SetAttributes(attribute.Int64("product.total", total))
	s.obs.succeed(ctx, span, op, "Products listed successfully",
		slog.Int("count", len(products)),
		slog.Int64("total", total),
	)
	return &dto.ListResult[*dto.ProductResponse]{
		Items: dto.ToProductResponseList(products),
		Page:  query.NewPage(plan, total),
	}, nil
}

// Snapshot returns the whole catalog in natural order
func (s *ProductService) Snapshot(ctx context.Context) ([]*dto.ProductResponse, error) {
	const op = "snapshot"

	ctx, span := s.obs.tracer.Start(ctx, "ProductService.Snapshot")
	defer span.End()

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to retrieve products", err)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.obs.count(ctx, op, resultSuccess)
	return dto.ToProductResponseList(products), nil
}

// UpdateProduct merges the provided fields into a stored product
func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	const op = "update"

	ctx, span := s.obs.tracer.Start(ctx, "ProductService.UpdateProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	if err := dto.Validate(req); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Validation failed", err)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Product not found", err,
			slog.String("product_id", id),
		)
	}

	updated, err := current.Apply(req.Patch())
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Validation failed", err)
	}
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to update product", err,
			slog.String("product_id", id),
		)
	}

	s.publish(ctx, domain.ProductUpdated, updated)
	s.obs.succeed(ctx, span, op, "Product updated successfully",
		slog.String("product_id", id),
	)
	return dto.ToProductResponse(updated), nil
}

// DeleteProduct removes a product and returns its last state
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	const op = "delete"

	ctx, span := s.obs.tracer.Start(ctx, "ProductService.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	product, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to delete product", err,
			slog.String("product_id", id),
		)
	}

	s.publish(ctx, domain.ProductDeleted, product)
	s.obs.succeed(ctx, span, op, "Product deleted successfully",
		slog.String("product_id", id),
	)
	return dto.ToProductResponse(product), nil
}

// publish notifies subscribers of a persisted mutation. Delivery failures
// are logged and never undo the mutation.
func (s *ProductService) publish(ctx context.Context, typ domain.ProductEventType, product *domain.Product) {
	if s.events == nil {
		return
	}
	evt := domain.ProductEvent{Type: typ, Product: product}
	if err := s.events.PublishProductEvent(ctx, evt); err != nil {
		s.obs.logger.WarnContext(ctx, "Failed to publish product event",
			slog.String("event", string(typ)),
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}
}
