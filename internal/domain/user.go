package domain

import (
	"strings"
	"time"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
)

// User field names shared by query schemas and storage adapters.
const (
	UserFieldFirstName = "first_name"
	UserFieldLastName  = "last_name"
	UserFieldEmail     = "email"
)

// User represents a registered user
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserPatch holds the fields of a partial update; nil means unchanged.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// NewUser builds a validated user; the repository assigns its ID.
func NewUser(firstName, lastName, email string) (*User, error) {
	now := time.Now().UTC()
	u := &User{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     NormalizeEmail(email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Apply returns a validated copy of u with the patch merged in.
func (u *User) Apply(patch UserPatch) (*User, error) {
	next := *u
	if patch.FirstName != nil {
		next.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		next.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Email != nil {
		next.Email = NormalizeEmail(*patch.Email)
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()
	return &next, nil
}

// Validate performs business validation on the user
func (u *User) Validate() error {
	var errs []string
	if u.FirstName == "" {
		errs = append(errs, "first_name is required")
	}
	if u.LastName == "" {
		errs = append(errs, "last_name is required")
	}
	errs = append(errs, validateEmail(u.Email)...)
	if len(errs) > 0 {
		return NewValidationError(errs...)
	}
	return nil
}

// Field returns the value of a named field for in-memory query evaluation.
func (u *User) Field(name string) any {
	switch name {
	case UserFieldFirstName:
		return u.FirstName
	case UserFieldLastName:
		return u.LastName
	case UserFieldEmail:
		return u.Email
	}
	return nil
}

// UserQuery lists the user fields accepted by list queries.
var UserQuery = query.Schema{
	Fields: map[string]query.FieldRule{
		"email": {Field: UserFieldEmail, Op: query.OpContains, Kind: query.KindString, Normalize: strings.ToLower},
	},
	TextFields:  []string{UserFieldFirstName, UserFieldLastName},
	NumericSort: UserFieldLastName,
	NameSort:    UserFieldFirstName,
}
