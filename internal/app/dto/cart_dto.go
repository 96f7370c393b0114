package dto

import (
	"time"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
)

// AddItemRequest is the optional body of an add-to-cart call.
type AddItemRequest struct {
	Quantity *int `json:"quantity" validate:"omitempty,gte=1"`
}

// Qty returns the requested quantity, 1 when omitted.
func (r *AddItemRequest) Qty() int {
	if r == nil || r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=1"`
}

type LineItemRequest struct {
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

// ReplaceItemsRequest swaps a cart's whole item list.
type ReplaceItemsRequest struct {
	Products []LineItemRequest `json:"products" validate:"required,dive"`
}

func (r *ReplaceItemsRequest) Items() []domain.LineItem {
	items := make([]domain.LineItem, len(r.Products))
	for i, p := range r.Products {
		items[i] = domain.LineItem{ProductID: p.Product, Quantity: p.Quantity}
	}
	return items
}

// CartItemResponse is a line item populated with product data. Product is
// nil and Stale is set when the referenced product no longer exists.
type CartItemResponse struct {
	ProductID string           `json:"product_id"`
	Product   *ProductResponse `json:"product"`
	Quantity  int              `json:"quantity"`
	Stale     bool             `json:"stale,omitempty"`
}

type CartResponse struct {
	ID        string              `json:"id"`
	Products  []*CartItemResponse `json:"products"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ToCartResponse populates cart items from products, keyed by id.
func ToCartResponse(c *domain.Cart, products map[string]*domain.Product) *CartResponse {
	items := make([]*CartItemResponse, len(c.Items))
	for i, it := range c.Items {
		item := &CartItemResponse{ProductID: it.ProductID, Quantity: it.Quantity}
		if p, ok := products[it.ProductID]; ok {
			item.Product = ToProductResponse(p)
		} else {
			item.Stale = true
		}
		items[i] = item
	}
	return &CartResponse{
		ID:        c.ID,
		Products:  items,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
