package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/coder-ecommerce-api/internal/app/dto"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
)

// UserService handles user CRUD
type UserService struct {
	repo domain.UserRepository
	obs  instrument
}

func NewUserService(repo domain.UserRepository, tracer trace.Tracer, meter metric.Meter, logger *slog.Logger) *UserService {
	return &UserService{repo: repo, obs: newInstrument("users", tracer, meter, logger)}
}

func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	const op = "create"

	ctx, span := s.obs.tracer.Start(ctx, "UserService.CreateUser")
	defer span.End()

	if err := dto.Validate(req); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Validation failed", err)
	}
	user, err := domain.NewUser(req.FirstName, req.LastName, req.Email)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Validation failed", err)
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to store user", err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	s.obs.succeed(ctx, span, op, "User created successfully", slog.String("user_id", user.ID))
	return dto.ToUserResponse(user), nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	const op = "read"

	ctx, span := s.obs.tracer.Start(ctx, "UserService.GetUserByID")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", id))

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "User not found", err, slog.String("user_id", id))
	}
	s.obs.succeed(ctx, span, op, "User retrieved successfully", slog.String("user_id", id))
	return dto.ToUserResponse(user), nil
}

func (s *UserService) ListUsers(ctx context.Context, params query.Params) (*dto.ListResult[*dto.UserResponse], error) {
	const op = "list"

	ctx, span := s.obs.tracer.Start(ctx, "UserService.ListUsers")
	defer span.End()

	plan, err := query.Compile(params, domain.UserQuery)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Invalid user query", err)
	}
	users, total, err := s.repo.List(ctx, plan)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to list users", err)
	}

	s.obs.succeed(ctx, span, op, "Users listed successfully", slog.Int64("total", total))
	return &dto.ListResult[*dto.UserResponse]{
		Items: dto.ToUserResponseList(users),
		Page:  query.NewPage(plan, total),
	}, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	const op = "update"

	ctx, span := s.obs.tracer.Start(ctx, "UserService.UpdateUser")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", id))

	if err := dto.Validate(req); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Validation failed", err)
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "User not found", err, slog.String("user_id", id))
	}
	updated, err := current.Apply(req.Patch())
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Validation failed", err)
	}
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to update user", err, slog.String("user_id", id))
	}

	s.obs.succeed(ctx, span, op, "User updated successfully", slog.String("user_id", id))
	return dto.ToUserResponse(updated), nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	const op = "delete"

	ctx, span := s.obs.tracer.Start(ctx, "UserService.DeleteUser")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", id))

	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to delete user", err, slog.String("user_id", id))
	}
	s.obs.succeed(ctx, span, op, "User deleted successfully", slog.String("user_id", id))
	return dto.ToUserResponse(user), nil
}
