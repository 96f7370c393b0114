package domain

import (
	"slices"
	"time"
)

// LineItem is a product reference with a quantity inside a cart.
type LineItem struct {
	ProductID string
	Quantity  int
}

// Cart holds line items referencing products by id. References are weak:
// the product may have been deleted since it was added.
type Cart struct {
	ID        string
	Items     []LineItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	now := time.Now().UTC()
	return &Cart{
		Items:     []LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Consolidate merges line items referencing the same product, summing their
// quantities. Output order follows the first occurrence of each product.
func Consolidate(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(out)
		out = append(out, item)
	}
	return out
}

// Quantity returns the quantity held for productID, zero when absent.
func (c *Cart) Quantity(productID string) int {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// Contains reports whether the cart references productID.
func (c *Cart) Contains(productID string) bool {
	return slices.IndexFunc(c.Items, func(it LineItem) bool {
		return it.ProductID == productID
	}) >= 0
}

// AddItem appends qty units of productID.
func (c *Cart) AddItem(productID string, qty int) error {
	if err := validateLineItem(LineItem{ProductID: productID, Quantity: qty}); err != nil {
		return err
	}
	c.Items = append(slices.Clone(c.Items), LineItem{ProductID: productID, Quantity: qty})
	return nil
}

// SetItemQuantity overwrites the quantity held for productID.
func (c *Cart) SetItemQuantity(productID string, qty int) error {
	if qty < 1 {
		return NewValidationError("quantity must be greater than 0")
	}
	i := slices.IndexFunc(c.Items, func(it LineItem) bool {
		return it.ProductID == productID
	})
	if i < 0 {
		return ErrCartItemNotFound
	}
	items := slices.Clone(c.Items)
	items[i].Quantity = qty
	c.Items = items
	return nil
}

// RemoveItem drops every line item referencing productID.
func (c *Cart) RemoveItem(productID string) error {
	items := slices.DeleteFunc(slices.Clone(c.Items), func(it LineItem) bool {
		return it.ProductID == productID
	})
	if len(items) == len(c.Items) {
		return ErrCartItemNotFound
	}
	c.Items = items
	return nil
}

// ReplaceItems swaps the whole item list. Nothing changes if any item is
// malformed.
func (c *Cart) ReplaceItems(items []LineItem) error {
	var errs []string
	for _, item := range items {
		if err := validateLineItem(item); err != nil {
			errs = append(errs, err.(*ValidationError).Errors...)
		}
	}
	if len(errs) > 0 {
		return NewValidationError(errs...)
	}
	c.Items = slices.Clone(items)
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
}

func validateLineItem(item LineItem) error {
	var errs []string
	if item.ProductID == "" {
		errs = append(errs, "each item must reference a product")
	}
	if item.Quantity < 1 {
		errs = append(errs, "quantity must be greater than 0")
	}
	if len(errs) > 0 {
		return NewValidationError(errs...)
	}
	return nil
}
