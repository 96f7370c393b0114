package filestore

import (
	"time"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
)

// On-disk shapes. Keeping them apart from the domain types pins the file
// format independently of the entities.

type productRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Price       float64   `json:"price"`
	Status      bool      `json:"status"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Thumbnails  []string  `json:"thumbnails"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toProductRecord(p *domain.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Code:        p.Code,
		Price:       p.Price,
		Status:      p.Status,
		Stock:       p.Stock,
		Category:    p.Category,
		Thumbnails:  p.Thumbnails,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *productRecord) toDomain() *domain.Product {
	thumbnails := r.Thumbnails
	if thumbnails == nil {
		thumbnails = []string{}
	}
	return &domain.Product{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Code:        r.Code,
		Price:       r.Price,
		Status:      r.Status,
		Stock:       r.Stock,
		Category:    r.Category,
		Thumbnails:  thumbnails,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type lineItemRecord struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type cartRecord struct {
	ID        string           `json:"id"`
	Products  []lineItemRecord `json:"products"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func toCartRecord(c *domain.Cart) cartRecord {
	items := make([]lineItemRecord, len(c.Items))
	for i, it := range c.Items {
		items[i] = lineItemRecord{Product: it.ProductID, Quantity: it.Quantity}
	}
	return cartRecord{ID: c.ID, Products: items, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func (r *cartRecord) toDomain() *domain.Cart {
	items := make([]domain.LineItem, len(r.Products))
	for i, it := range r.Products {
		items[i] = domain.LineItem{ProductID: it.Product, Quantity: it.Quantity}
	}
	return &domain.Cart{ID: r.ID, Items: items, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

type studentRecord struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Age        int       `json:"age"`
	Course     string    `json:"course"`
	Email      string    `json:"email"`
	EnrolledAt time.Time `json:"enrolled_at"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toStudentRecord(s *domain.Student) studentRecord {
	return studentRecord{
		ID:         s.ID,
		FirstName:  s.FirstName,
		LastName:   s.LastName,
		Age:        s.Age,
		Course:     s.Course,
		Email:      s.Email,
		EnrolledAt: s.EnrolledAt,
		Active:     s.Active,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func (r *studentRecord) toDomain() *domain.Student {
	return &domain.Student{
		ID:         r.ID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Age:        r.Age,
		Course:     r.Course,
		Email:      r.Email,
		EnrolledAt: r.EnrolledAt,
		Active:     r.Active,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type userRecord struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserRecord(u *domain.User) userRecord {
	return userRecord{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (r *userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
