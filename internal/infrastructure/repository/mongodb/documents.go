package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
)

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Code        string             `bson:"code"`
	Price       float64            `bson:"price"`
	Status      bool               `bson:"status"`
	Stock       int                `bson:"stock"`
	Category    string             `bson:"category"`
	Thumbnails  []string           `bson:"thumbnails"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func newProductDocument(p *domain.Product) productDocument {
	thumbnails := p.Thumbnails
	if thumbnails == nil {
		thumbnails = []string{}
	}
	return productDocument{
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

func (d *productDocument) toDomain() *domain.Product {
	thumbnails := d.Thumbnails
	if thumbnails == nil {
		thumbnails = []string{}
	}
	return &domain.Product{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Code:        d.Code,
		Price:       d.Price,
		Status:      d.Status,
		Stock:       d.Stock,
		Category:    d.Category,
		Thumbnails:  thumbnails,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type lineItemDocument struct {
	Product  primitive.ObjectID `bson:"product"`
	Quantity int                `bson:"quantity"`
}

type cartDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Products  []lineItemDocument `bson:"products"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func lineItemDocuments(items []domain.LineItem) ([]lineItemDocument, error) {
	out := make([]lineItemDocument, len(items))
	for i, it := range items {
		oid, err := parseID(it.ProductID)
		if err != nil {
			return nil, err
		}
		out[i] = lineItemDocument{Product: oid, Quantity: it.Quantity}
	}
	return out, nil
}

func (d *cartDocument) toDomain() *domain.Cart {
	items := make([]domain.LineItem, len(d.Products))
	for i, it := range d.Products {
		items[i] = domain.LineItem{ProductID: it.Product.Hex(), Quantity: it.Quantity}
	}
	return &domain.Cart{ID: d.ID.Hex(), Items: items, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

type studentDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	FirstName  string             `bson:"first_name"`
	LastName   string             `bson:"last_name"`
	Age        int                `bson:"age"`
	Course     string             `bson:"course"`
	Email      string             `bson:"email"`
	EnrolledAt time.Time          `bson:"enrolled_at"`
	Active     bool               `bson:"active"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func newStudentDocument(s *domain.Student) studentDocument {
	return studentDocument{
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

func (d *studentDocument) toDomain() *domain.Student {
	return &domain.Student{
		ID:         d.ID.Hex(),
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Age:        d.Age,
		Course:     d.Course,
		Email:      d.Email,
		EnrolledAt: d.EnrolledAt,
		Active:     d.Active,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"first_name"`
	LastName  string             `bson:"last_name"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func newUserDocument(u *domain.User) userDocument {
	return userDocument{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:        d.ID.Hex(),
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
