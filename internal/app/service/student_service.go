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

// StudentService handles student enrollment and listing
type StudentService struct {
	repo domain.StudentRepository
	obs  instrument
}

func NewStudentService(repo domain.StudentRepository, tracer trace.Tracer, meter metric.Meter, logger *slog.Logger) *StudentService {
	return &StudentService{repo: repo, obs: newInstrument("students", tracer, meter, logger)}
}

func (s *StudentService) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	const op = "create"

	ctx, span := s.obs.tracer.Start(ctx, "StudentService.CreateStudent")
	defer span.End()

	if err := dto.Validate(req); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Validation failed", err)
	}
	student, err := domain.NewStudent(req.Attrs())
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Validation failed", err)
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to store student", err)
	}

	span.SetAttributes(attribute.String("student.id", student.ID))
	s.obs.succeed(ctx, span, op, "Student created successfully",
		slog.String("student_id", student.ID),
	)
	return dto.ToStudentResponse(student), nil
}

func (s *StudentService) GetStudentByID(ctx context.Context, id string) (*dto.StudentResponse, error) {
	const op = "read"

	ctx, span := s.obs.tracer.Start(ctx, "StudentService.GetStudentByID")
	defer span.End()

	span.SetAttributes(attribute.String("student.id", id))

	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Student not found", err, slog.String("student_id", id))
	}
	s.obs.succeed(ctx, span, op, "Student retrieved successfully", slog.String("student_id", id))
	return dto.ToStudentResponse(student), nil
}

func (s *StudentService) ListStudents(ctx context.Context, params query.Params) (*dto.ListResult[*dto.StudentResponse], error) {
	const op = "list"

	ctx, span := s.obs.tracer.Start(ctx, "StudentService.ListStudents")
	defer span.End()

	plan, err := query.Compile(params, domain.StudentQuery)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Invalid student query", err)
	}
	students, total, err := s.repo.List(ctx, plan)
	if err != nil {
		return nil, s.obs.fail(ctx, span, op, "Failed to list students", err)
	}

	span.SetAttributes(attribute.Int64("student.total", total))
	s.obs.succeed(ctx, span, op, "Students listed successfully", slog.Int64("total", total))
	return &dto.ListResult[*dto.StudentResponse]{
		Items: dto.ToStudentResponseList(students),
		Page:  query.NewPage(plan, total),
	}, nil
}
