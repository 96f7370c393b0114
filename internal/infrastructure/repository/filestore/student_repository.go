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

// StudentRepository is a flat-file implementation of domain.StudentRepository
type StudentRepository struct {
	students *Collection[studentRecord]
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewStudentRepository opens the student collection stored at path
func NewStudentRepository(path string, tracer trace.Tracer, logger *slog.Logger) (*StudentRepository, error) {
	students, err := OpenCollection(path,
		func(r *studentRecord) string { return r.ID },
		func(r *studentRecord, id string) { r.ID = id },
	)
	if err != nil {
		return nil, err
	}
	return &StudentRepository{students: students, tracer: tracer, logger: logger}, nil
}

// Create stores a new student and assigns its ID
func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) error {
	ctx, span := r.tracer.Start(ctx, "StudentRepository.Create")
	defer span.End()

	rec := toStudentRecord(student)
	err := r.students.Insert(&rec, func(existing []studentRecord) error {
		for _, s := range existing {
			if domain.NormalizeEmail(s.Email) == student.Email {
				return &domain.DuplicateKeyError{Field: domain.StudentFieldEmail, Value: student.Email}
			}
		}
		return nil
	})
	if err != nil {
		recordError(span, err, "Failed to store student")
		return err
	}
	student.ID = rec.ID

	r.logger.InfoContext(ctx, "Student created in repository", slog.String("student_id", student.ID))
	span.SetAttributes(attribute.String("student.id", student.ID))
	span.SetStatus(codes.Ok, "Student created successfully")
	return nil
}

// FindByID retrieves a student by ID
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*domain.Student, error) {
	_, span := r.tracer.Start(ctx, "StudentRepository.FindByID")
	defer span.End()

	rec, ok, err := r.students.Find(id)
	if err != nil {
		recordError(span, err, "Failed to read students")
		return nil, err
	}
	if !ok {
		recordError(span, domain.ErrStudentNotFound, "Student not found")
		return nil, domain.ErrStudentNotFound
	}
	span.SetStatus(codes.Ok, "Student found")
	return rec.toDomain(), nil
}

// List evaluates plan against the stored students in memory
func (r *StudentRepository) List(ctx context.Context, plan query.Plan) ([]*domain.Student, int64, error) {
	_, span := r.tracer.Start(ctx, "StudentRepository.List")
	defer span.End()

	recs, err := r.students.All()
	if err != nil {
		recordError(span, err, "Failed to read students")
		return nil, 0, err
	}
	all := make([]*domain.Student, len(recs))
	for i := range recs {
		all[i] = recs[i].toDomain()
	}

	page, total := query.Execute(all, plan)
	span.SetAttributes(attribute.Int("student.total", total))
	span.SetStatus(codes.Ok, "Students listed successfully")
	return page, int64(total), nil
}
