package dto

import (
	"time"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
)

// CreateProductRequest represents the request to create a product
type CreateProductRequest struct {
	Title       string   `json:"title" validate:"required,max=100"`
	Description string   `json:"description" validate:"required,min=10,max=500"`
	Code        string   `json:"code" validate:"required"`
	Price       float64  `json:"price" validate:"required,gte=0.01,lte=999999.99"`
	Stock       *int     `json:"stock" validate:"required,gte=0"`
	Category    string   `json:"category" validate:"required,oneof=Smartphones Computadoras Tablets Accesorios Audio Gaming Televisores Otros"`
	Status      *bool    `json:"status"`
	Thumbnails  []string `json:"thumbnails" validate:"omitempty,dive,required"`
}

// Attrs converts the request into domain construction input.
func (r *CreateProductRequest) Attrs() domain.ProductAttrs {
	attrs := domain.ProductAttrs{
		Title:       r.Title,
		Description: r.Description,
		Code:        r.Code,
		Price:       r.Price,
		Category:    r.Category,
		Status:      r.Status,
		Thumbnails:  r.Thumbnails,
	}
	if r.Stock != nil {
		attrs.Stock = *r.Stock
	}
	return attrs
}

// UpdateProductRequest is a partial update. Absent fields keep their
// stored value; an "id" in the body is ignored.
type UpdateProductRequest struct {
	Title       *string  `json:"title" validate:"omitempty,max=100"`
	Description *string  `json:"description" validate:"omitempty,min=10,max=500"`
	Code        *string  `json:"code"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0.01,lte=999999.99"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Category    *string  `json:"category" validate:"omitempty,oneof=Smartphones Computadoras Tablets Accesorios Audio Gaming Televisores Otros"`
	Status      *bool    `json:"status"`
	Thumbnails  []string `json:"thumbnails" validate:"omitempty,dive,required"`
}

func (r *UpdateProductRequest) Patch() domain.ProductPatch {
	return domain.ProductPatch{
		Title:       r.Title,
		Description: r.Description,
		Code:        r.Code,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    r.Category,
		Status:      r.Status,
		Thumbnails:  r.Thumbnails,
	}
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Price       float64   `json:"price"`
	Status      bool      `json:"status"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Thumbnails  []string  `json:"thumbnails"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *domain.Product) *ProductResponse {
	thumbnails := p.Thumbnails
	if thumbnails == nil {
		thumbnails = []string{}
	}
	return &ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Code:        p.Code,
		Price:       p.Price,
		Status:      p.Status,
		Stock:       p.Stock,
		Category:    p.Category,
		Thumbnails:  thumbnails,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []*domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}
