package filestore

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
)

// UserRepository is a flat-file implementation of domain.UserRepository
type UserRepository struct {
	users  *Collection[userRecord]
	tracer trace.Tracer
	logger *slog.Logger
}

// NewUserRepository opens the user collection stored at path
func NewUserRepository(path string, tracer trace.Tracer, logger *slog.Logger) (*UserRepository, error) {
	users, err := OpenCollection(path,
		func(r *userRecord) string { return r.ID },
		func(r *userRecord, id string) { r.ID = id },
	)
	if err != nil {
		return nil, err
	}
	return &UserRepository{users: users, tracer: tracer, logger: logger}, nil
}

// Create stores a new user and assigns its ID
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	rec := toUserRecord(user)
	err := r.users.Insert(&rec, func(existing []userRecord) error {
		return checkEmail(existing, user.Email, "")
	})
	if err != nil {
		recordError(span, err, "Failed to store user")
		return err
	}
	user.ID = rec.ID

	r.logger.InfoContext(ctx, "User created in repository", slog.String("user_id", user.ID))
	span.SetAttributes(attribute.String("user.id", user.ID))
	span.SetStatus(codes.Ok, "User created successfully")
	return nil
}

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	_, span := r.tracer.Start(ctx, "UserRepository.FindByID")
	defer span.End()

	rec, ok, err := r.users.Find(id)
	if err != nil {
		recordError(span, err, "Failed to read users")
		return nil, err
	}
	if !ok {
		recordError(span, domain.ErrUserNotFound, "User not found")
		return nil, domain.ErrUserNotFound
	}
	span.SetStatus(codes.Ok, "User found")
	return rec.toDomain(), nil
}

// List evaluates plan against the stored users in memory
func (r *UserRepository) List(ctx context.Context, plan query.Plan) ([]*domain.User, int64, error) {
	_, span := r.tracer.Start(ctx, "UserRepository.List")
	defer span.End()

	recs, err := r.users.All()
	if err != nil {
		recordError(span, err, "Failed to read users")
		return nil, 0, err
	}
	all := make([]*domain.User, len(recs))
	for i := range recs {
		all[i] = recs[i].toDomain()
	}

	page, total := query.Execute(all, plan)
	span.SetAttributes(attribute.Int("user.total", total))
	span.SetStatus(codes.Ok, "Users listed successfully")
	return page, int64(total), nil
}

// Update replaces a stored user
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Update")
	defer span.End()

	found, err := r.users.Replace(toUserRecord(user), func(existing []userRecord, _ int) error {
		return checkEmail(existing, user.Email, user.ID)
	})
	if err != nil {
		recordError(span, err, "Failed to update user")
		return err
	}
	if !found {
		recordError(span, domain.ErrUserNotFound, "User not found")
		return domain.ErrUserNotFound
	}
	r.logger.InfoContext(ctx, "User updated in repository", slog.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "User updated successfully")
	return nil
}

// Delete removes a user and returns it
func (r *UserRepository) Delete(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Delete")
	defer span.End()

	rec, found, err := r.users.Remove(id)
	if err != nil {
		recordError(span, err, "Failed to delete user")
		return nil, err
	}
	if !found {
		recordError(span, domain.ErrUserNotFound, "User not found")
		return nil, domain.ErrUserNotFound
	}
	r.logger.InfoContext(ctx, "User deleted from repository", slog.String("user_id", id))
	span.SetStatus(codes.Ok, "User deleted successfully")
	return rec.toDomain(), nil
}

func checkEmail(existing []userRecord, email, selfID string) error {
	for _, u := range existing {
		if u.ID != selfID && domain.NormalizeEmail(u.Email) == email {
			return &domain.DuplicateKeyError{Field: domain.UserFieldEmail, Value: email}
		}
	}
	return nil
}
