package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
)

// UserRepository is a MongoDB implementation of domain.UserRepository
type UserRepository struct {
	coll   *mongo.Collection
	tracer trace.Tracer
	logger *slog.Logger
}

// NewUserRepository creates a user repository backed by the users collection
func NewUserRepository(db *mongo.Database, tracer trace.Tracer, logger *slog.Logger) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection), tracer: tracer, logger: logger}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	const op = "mongodb.UserRepository.Create"

	ctx, span := r.tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	res, err := r.coll.InsertOne(ctx, newUserDocument(user))
	if err != nil {
		err = userWriteError(err, user.Email)
		recordError(span, err, "Failed to store user")
		return fmt.Errorf("%s: %w", op, err)
	}
	user.ID = objectIDHex(res.InsertedID)

	r.logger.InfoContext(ctx, "User created in repository", slog.String("user_id", user.ID))
	span.SetAttributes(attribute.String("user.id", user.ID))
	span.SetStatus(codes.Ok, "User created successfully")
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const op = "mongodb.UserRepository.FindByID"

	ctx, span := r.tracer.Start(ctx, "UserRepository.FindByID")
	defer span.End()

	oid, err := parseID(id)
	if err != nil {
		recordError(span, err, "Invalid user id")
		return nil, err
	}

	var doc userDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		recordError(span, domain.ErrUserNotFound, "User not found")
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		recordError(span, err, "Failed to read user")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	span.SetStatus(codes.Ok, "User found")
	return doc.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context, plan query.Plan) ([]*domain.User, int64, error) {
	const op = "mongodb.UserRepository.List"

	ctx, span := r.tracer.Start(ctx, "UserRepository.List")
	defer span.End()

	docs, total, err := aggregatePage[userDocument](ctx, r.coll, plan)
	if err != nil {
		recordError(span, err, "Failed to list users")
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	users := make([]*domain.User, len(docs))
	for i := range docs {
		users[i] = docs[i].toDomain()
	}
	span.SetStatus(codes.Ok, "Users listed successfully")
	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	const op = "mongodb.UserRepository.Update"

	ctx, span := r.tracer.Start(ctx, "UserRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", user.ID))

	oid, err := parseID(user.ID)
	if err != nil {
		recordError(span, err, "Invalid user id")
		return err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, newUserDocument(user))
	if err != nil {
		err = userWriteError(err, user.Email)
		recordError(span, err, "Failed to update user")
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		recordError(span, domain.ErrUserNotFound, "User not found")
		return domain.ErrUserNotFound
	}

	r.logger.InfoContext(ctx, "User updated in repository", slog.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "User updated successfully")
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*domain.User, error) {
	const op = "mongodb.UserRepository.Delete"

	ctx, span := r.tracer.Start(ctx, "UserRepository.Delete")
	defer span.End()

	oid, err := parseID(id)
	if err != nil {
		recordError(span, err, "Invalid user id")
		return nil, err
	}

	var doc userDocument
	err = r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		recordError(span, domain.ErrUserNotFound, "User not found")
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		recordError(span, err, "Failed to delete user")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.logger.InfoContext(ctx, "User deleted from repository", slog.String("user_id", id))
	span.SetStatus(codes.Ok, "User deleted successfully")
	return doc.toDomain(), nil
}

func userWriteError(err error, email string) error {
	if mongo.IsDuplicateKeyError(err) {
		return &domain.DuplicateKeyError{Field: domain.UserFieldEmail, Value: email}
	}
	return err
}
