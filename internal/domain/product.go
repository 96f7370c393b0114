package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
)

const (
	MinProductPrice = 0.01
	MaxProductPrice = 999999.99

	maxTitleLen       = 100
	minDescriptionLen = 10
	maxDescriptionLen = 500
)

// Categories lists the accepted product categories.
var Categories = []string{
	"Smartphones", "Computadoras", "Tablets", "Accesorios",
	"Audio", "Gaming", "Televisores", "Otros",
}

// Product field names shared by query schemas and storage adapters.
const (
	ProductFieldTitle       = "title"
	ProductFieldDescription = "description"
	ProductFieldCode        = "code"
	ProductFieldPrice       = "price"
	ProductFieldStatus      = "status"
	ProductFieldStock       = "stock"
	ProductFieldCategory    = "category"
)

// Product represents a catalog entry
type Product struct {
	ID          string
	Title       string
	Description string
	Code        string
	Price       float64
	Status      bool
	Stock       int
	Category    string
	Thumbnails  []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductAttrs holds the caller-supplied values of a new product.
type ProductAttrs struct {
	Title       string
	Description string
	Code        string
	Price       float64
	Stock       int
	Category    string
	Status      *bool
	Thumbnails  []string
}

// ProductPatch holds the fields of a partial update; nil means unchanged.
type ProductPatch struct {
	Title       *string
	Description *string
	Code        *string
	Price       *float64
	Stock       *int
	Category    *string
	Status      *bool
	Thumbnails  []string
}

// NewProduct creates a new product with validation. The ID is assigned by
// the repository on insert.
func NewProduct(attrs ProductAttrs) (*Product, error) {
	now := time.Now().UTC()
	product := &Product{
		Title:       attrs.Title,
		Description: attrs.Description,
		Code:        attrs.Code,
		Price:       attrs.Price,
		Status:      true,
		Stock:       attrs.Stock,
		Category:    attrs.Category,
		Thumbnails:  attrs.Thumbnails,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if attrs.Status != nil {
		product.Status = *attrs.Status
	}
	if product.Thumbnails == nil {
		product.Thumbnails = []string{}
	}

	product.normalize()
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Apply merges the provided fields into a copy of p and validates the result.
// p is left untouched when the merged product is invalid.
func (p *Product) Apply(patch ProductPatch) (*Product, error) {
	next := *p
	next.Thumbnails = slices.Clone(p.Thumbnails)

	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Code != nil {
		next.Code = *patch.Code
	}
	if patch.Price != nil {
		next.Price = *patch.Price
	}
	if patch.Stock != nil {
		next.Stock = *patch.Stock
	}
	if patch.Category != nil {
		next.Category = *patch.Category
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.Thumbnails != nil {
		next.Thumbnails = slices.Clone(patch.Thumbnails)
	}

	next.normalize()
	if err := next.Validate(); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()
	return &next, nil
}

func (p *Product) normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.Code = NormalizeCode(p.Code)
	p.Category = strings.TrimSpace(p.Category)
}

// NormalizeCode returns the canonical form used for uniqueness checks.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate performs business validation on the product
func (p *Product) Validate() error {
	var errs []string

	switch {
	case p.Title == "":
		errs = append(errs, "title is required")
	case len([]rune(p.Title)) > maxTitleLen:
		errs = append(errs, fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}

	if n := len([]rune(p.Description)); n == 0 {
		errs = append(errs, "description is required")
	} else if n < minDescriptionLen || n > maxDescriptionLen {
		errs = append(errs, fmt.Sprintf("description must be between %d and %d characters",
			minDescriptionLen, maxDescriptionLen))
	}

	if p.Code == "" {
		errs = append(errs, "code is required")
	}
	if p.Price < MinProductPrice || p.Price > MaxProductPrice {
		errs = append(errs, fmt.Sprintf("price must be between %.2f and %.2f", MinProductPrice, MaxProductPrice))
	}
	if p.Stock < 0 {
		errs = append(errs, "stock cannot be negative")
	}
	if !slices.Contains(Categories, p.Category) {
		errs = append(errs, "category must be one of: "+strings.Join(Categories, ", "))
	}

	if len(errs) > 0 {
		return NewValidationError(errs...)
	}
	return nil
}

// Field returns the value of a named field for in-memory query evaluation.
func (p *Product) Field(name string) any {
	switch name {
	case ProductFieldTitle:
		return p.Title
	case ProductFieldDescription:
		return p.Description
	case ProductFieldCode:
		return p.Code
	case ProductFieldPrice:
		return p.Price
	case ProductFieldStatus:
		return p.Status
	case ProductFieldStock:
		return p.Stock
	case ProductFieldCategory:
		return p.Category
	}
	return nil
}

// ProductQuery is the listing schema for products: category matches
// case-insensitively, price is an upper bound and free text searches the
// title.
var ProductQuery = query.Schema{
	Fields: map[string]query.FieldRule{
		"category": {Field: ProductFieldCategory, Op: query.OpContains, Kind: query.KindString},
		"price":    {Field: ProductFieldPrice, Op: query.OpLessOrEqual, Kind: query.KindNumber},
		"status":   {Field: ProductFieldStatus, Op: query.OpEqual, Kind: query.KindBool},
	},
	TextFields:  []string{ProductFieldTitle},
	NumericSort: ProductFieldPrice,
	NameSort:    ProductFieldTitle,
}
