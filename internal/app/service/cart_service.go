package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/coder-ecommerce-api/internal/app/dto"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
)

// CartService handles cart use cases. Every mutation loads the stored cart,
// applies the change to that copy and hands it to persist, so a failed
// operation leaves the stored cart as it was.
type CartService struct {
	carts           domain.CartRepository
	products        domain.ProductRepository
	checkStock      bool
	obs             instrument
	itemsAddedTotal metric.Int64Counter
}

// NewCartService creates a new cart service. When checkStock is set,
// requested quantities are validated against product stock.
func NewCartService(
	carts domain.CartRepository,
	products domain.ProductRepository,
	checkStock bool,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CartService {
	itemsAddedTotal, _ := meter.Int64Counter(
		"carts.items.added.total",
		metric.WithDescription("Total number of units added to carts"),
	)

	return &CartService{
		carts:           carts,
		products:        products,
		checkStock:      checkStock,
		obs:             newInstrument("carts", tracer, meter, logger),
		itemsAddedTotal: itemsAddedTotal,
	}
}

// CreateCart stores a new empty cart
func (s *CartService) CreateCart(ctx context.Context) (*dto.CartResponse, error) {
	const op = "create"

	ctx, span := s.obs.tracer.Start(ctx, "CartService.CreateCart")
	defer span.End()

	cart := domain.NewCart()
	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to store cart", err)
	}

	span.SetAttributes(attribute.String("cart.id", cart.ID))
	s.obs.succeed(ctx, span, op, "Cart created successfully",
		slog.String("cart_id", cart.ID),
	)
	return dto.ToCartResponse(cart, nil), nil
}

// GetCart returns a cart with its line items populated
func (s *CartService) GetCart(ctx context.Context, id string) (*dto.CartResponse, error) {
	const op = "read"

	ctx, span := s.obs.tracer.Start(ctx, "CartService.GetCart")
	defer span.End()

	span.SetAttributes(attribute.String("cart.id", id))

	cart, err := s.carts.FindByID(ctx, id)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Cart not found", err, slog.String("cart_id", id))
	}
	resp, err := s.populate(ctx, cart)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to populate cart", err, slog.String("cart_id", id))
	}

	s.obs.succeed(ctx, span, op, "Cart retrieved successfully", slog.String("cart_id", id))
	return resp, nil
}

// ListCarts returns every cart, populated
func (s *CartService) ListCarts(ctx context.Context) ([]*dto.CartResponse, error) {
	const op = "list"

	ctx, span := s.obs.tracer.Start(ctx, "CartService.ListCarts")
	defer span.End()

	carts, err := s.carts.FindAll(ctx)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to list carts", err)
	}

	out := make([]*dto.CartResponse, len(carts))
	for i, cart := range carts {
		if out[i], err = s.populate(ctx, cart); err != nil {
			return nil, s.obs.fail(ctx, span, op, "Failed to populate cart", err,
				slog.String("cart_id", cart.ID),
			)
		}
	}

	span.SetAttributes(attribute.Int("cart.count", len(out)))
	s.obs.succeed(ctx, span, op, "Carts listed successfully", slog.Int("count", len(out)))
	return out, nil
}

// AddItem adds qty units of a product, merging with an existing line item.
// The stock check covers the merged quantity.
func (s *CartService) AddItem(ctx context.Context, cartID, productID string, req *dto.AddItemRequest) (*dto.CartResponse, error) {
	const op = "add_item"

	ctx, span := s.obs.tracer.Start(ctx, "CartService.AddItem")
	defer span.End()

	attrs := []slog.Attr{slog.String("cart_id", cartID), slog.String("product_id", productID)}
	span.SetAttributes(attribute.String("cart.id", cartID), attribute.String("product.id", productID))

	if req != nil {
		if err := dto.Validate(req); err != nil {
			return nil, s.obs.fail(ctx, span, op, "Validation failed", err, attrs...)
		}
	}
	qty := req.Qty()
	span.SetAttributes(attribute.Int("cart.item.quantity", qty))

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Product not found", err, attrs...)
	}

	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Cart not found", err, attrs...)
	}
	if err := s.ensureStock(product, cart.Quantity(product.ID)+qty); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Insufficient stock", err, attrs...)
	}
	if err := cart.AddItem(product.ID, qty); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Validation failed", err, attrs...)
	}
	if err := s.persist(ctx, cart); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to save cart", err, attrs...)
	}

	s.itemsAddedTotal.Add(ctx, int64(qty))
	return s.respond(ctx, span, op, cart, "Product added to cart", attrs...)
}

// SetItemQuantity overwrites the quantity of a product already in the cart
func (s *CartService) SetItemQuantity(ctx context.Context, cartID, productID string, req *dto.SetQuantityRequest) (*dto.CartResponse, error) {
	const op = "set_quantity"

	ctx, span := s.obs.tracer.Start(ctx, "CartService.SetItemQuantity")
	defer span.End()

	attrs := []slog.Attr{slog.String("cart_id", cartID), slog.String("product_id", productID)}
	span.SetAttributes(attribute.String("cart.id", cartID), attribute.String("product.id", productID))

	if err := dto.Validate(req); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Validation failed", err, attrs...)
	}
	qty := *req.Quantity

	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Cart not found", err, attrs...)
	}
	if err := cart.SetItemQuantity(productID, qty); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to set item quantity", err, attrs...)
	}

	if s.checkStock {
		product, err := s.products.FindByID(ctx, productID)
		switch {
		case err == nil:
			if err := s.ensureStock(product, qty); err != nil {
				return nil, s.obs.fail(ctx, span, op, "Insufficient stock", err, attrs...)
			}
		case !isDangling(err):
			return nil, s.obs.fail(ctx, span, op, "Failed to check stock", err, attrs...)
		}
	}

	if err := s.persist(ctx, cart); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to save cart", err, attrs...)
	}
	return s.respond(ctx, span, op, cart, "Item quantity updated", attrs...)
}

// RemoveItem drops a product from the cart
func (s *CartService) RemoveItem(ctx context.Context, cartID, productID string) (*dto.CartResponse, error) {
	const op = "remove_item"

	ctx, span := s.obs.tracer.Start(ctx, "CartService.RemoveItem")
	defer span.End()

	attrs := []slog.Attr{slog.String("cart_id", cartID), slog.String("product_id", productID)}
	span.SetAttributes(attribute.String("cart.id", cartID), attribute.String("product.id", productID))

	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Cart not found", err, attrs...)
	}
	if err := cart.RemoveItem(productID); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Product not in cart", err, attrs...)
	}
	if err := s.persist(ctx, cart); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to save cart", err, attrs...)
	}
	return s.respond(ctx, span, op, cart, "Product removed from cart", attrs...)
}

// ReplaceItems swaps the cart's whole item list after checking that every
// referenced product exists
func (s *CartService) ReplaceItems(ctx context.Context, cartID string, req *dto.ReplaceItemsRequest) (*dto.CartResponse, error) {
	const op = "replace_items"

	ctx, span := s.obs.tracer.Start(ctx, "CartService.ReplaceItems")
	defer span.End()

	attrs := []slog.Attr{slog.String("cart_id", cartID)}
	span.SetAttributes(attribute.String("cart.id", cartID))

	if err := dto.Validate(req); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Validation failed", err, attrs...)
	}

	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Cart not found", err, attrs...)
	}
	if err := cart.ReplaceItems(req.Items()); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Validation failed", err, attrs...)
	}

	for _, item := range domain.Consolidate(cart.Items) {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, s.obs.fail(ctx, span, op, "Product not found", err,
				append(attrs, slog.String("product_id", item.ProductID))...)
		}
		if err := s.ensureStock(product, item.Quantity); err != nil {
			return nil, s.obs.fail(ctx, span, op, "Insufficient stock", err,
				append(attrs, slog.String("product_id", item.ProductID))...)
		}
	}

	if err := s.persist(ctx, cart); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to save cart", err, attrs...)
	}
	span.SetAttributes(attribute.Int("cart.items", len(cart.Items)))
	return s.respond(ctx, span, op, cart, "Cart items replaced", attrs...)
}

// ClearCart empties the cart
func (s *CartService) ClearCart(ctx context.Context, cartID string) (*dto.CartResponse, error) {
	const op = "clear"

	ctx, span := s.obs.tracer.Start(ctx, "CartService.ClearCart")
	defer span.End()

	span.SetAttributes(attribute.String("cart.id", cartID))

	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Cart not found", err, slog.String("cart_id", cartID))
	}
	cart.Clear()
	if err := s.persist(ctx, cart); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to save cart", err, slog.String("cart_id", cartID))
	}
	return s.respond(ctx, span, op, cart, "Cart cleared", slog.String("cart_id", cartID))
}

// persist is the only path to CartRepository.Save. It consolidates line
// items so no stored cart references a product twice.
func (s *CartService) persist(ctx context.Context, cart *domain.Cart) error {
	cart.Items = domain.Consolidate(cart.Items)
	cart.UpdatedAt = time.Now().UTC()
	return s.carts.Save(ctx, cart)
}

func (s *CartService) respond(ctx context.Context, span trace.Span, op string, cart *domain.Cart, msg string, attrs ...slog.Attr) (*dto.CartResponse, error) {
	resp, err := s.populate(ctx, cart)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to populate cart", err, attrs...)
	}
	s.obs.succeed(ctx, span, op, msg, attrs...)
	return resp, nil
}

func (s *CartService) ensureStock(product *domain.Product, qty int) error {
	if !s.checkStock || qty <= product.Stock {
		return nil
	}
	return &domain.InsufficientStockError{
		ProductID: product.ID,
		Title:     product.Title,
		Available: product.Stock,
	}
}

// populate resolves line item references. Products that no longer exist
// are reported as stale rather than dropped.
func (s *CartService) populate(ctx context.Context, cart *domain.Cart) (*dto.CartResponse, error) {
	products := make(map[string]*domain.Product, len(cart.Items))
	for _, item := range cart.Items {
		if _, seen := products[item.ProductID]; seen {
			continue
		}
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if isDangling(err) {
				continue
			}
			return nil, err
		}
		products[item.ProductID] = product
	}
	return dto.ToCartResponse(cart, products), nil
}

// isDangling reports whether a product lookup failed because the
// reference points at nothing.
func isDangling(err error) bool {
	return domain.IsNotFound(err) || errors.Is(err, domain.ErrInvalidID)
}
