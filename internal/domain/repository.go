package domain

import (
	"context"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
)

// ProductRepository defines the contract for product storage. Create and
// Update fail with *DuplicateKeyError when the code is taken.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
	List(ctx context.Context, plan query.Plan) ([]*Product, int64, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) (*Product, error)
}

// CartRepository defines the contract for cart storage. Save replaces the
// stored item list wholesale.
type CartRepository interface {
	Create(ctx context.Context, cart *Cart) error
	FindByID(ctx context.Context, id string) (*Cart, error)
	FindAll(ctx context.Context) ([]*Cart, error)
	Save(ctx context.Context, cart *Cart) error
}

// StudentRepository defines the contract for student storage. Create fails
// with *DuplicateKeyError when the email is taken.
type StudentRepository interface {
	Create(ctx context.Context, student *Student) error
	FindByID(ctx context.Context, id string) (*Student, error)
	List(ctx context.Context, plan query.Plan) ([]*Student, int64, error)
}

// UserRepository defines the contract for user storage. Create and Update
// fail with *DuplicateKeyError when the email is taken.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, plan query.Plan) ([]*User, int64, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) (*User, error)
}
