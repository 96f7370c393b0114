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

// StudentRepository is a MongoDB implementation of domain.StudentRepository
type StudentRepository struct {
	coll   *mongo.Collection
	tracer trace.Tracer
	logger *slog.Logger
}

// NewStudentRepository creates a student repository backed by the students collection
func NewStudentRepository(db *mongo.Database, tracer trace.Tracer, logger *slog.Logger) *StudentRepository {
	return &StudentRepository{coll: db.Collection(studentsCollection), tracer: tracer, logger: logger}
}

func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) error {
	const op = "mongodb.StudentRepository.Create"

	ctx, span := r.tracer.Start(ctx, "StudentRepository.Create")
	defer span.End()

	res, err := r.coll.InsertOne(ctx, newStudentDocument(student))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			err = &domain.DuplicateKeyError{Field: domain.StudentFieldEmail, Value: student.Email}
		}
		recordError(span, err, "Failed to store student")
		return fmt.Errorf("%s: %w", op, err)
	}
	student.ID = objectIDHex(res.InsertedID)

	r.logger.InfoContext(ctx, "Student created in repository", slog.String("student_id", student.ID))
	span.SetAttributes(attribute.String("student.id", student.ID))
	span.SetStatus(codes.Ok, "Student created successfully")
	return nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (*domain.Student, error) {
	const op = "mongodb.StudentRepository.FindByID"

	ctx, span := r.tracer.Start(ctx, "StudentRepository.FindByID")
	defer span.End()

	oid, err := parseID(id)
	if err != nil {
		recordError(span, err, "Invalid student id")
		return nil, err
	}

	var doc studentDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		recordError(span, domain.ErrStudentNotFound, "Student not found")
		return nil, domain.ErrStudentNotFound
	}
	if err != nil {
		recordError(span, err, "Failed to read student")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	span.SetStatus(codes.Ok, "Student found")
	return doc.toDomain(), nil
}

func (r *StudentRepository) List(ctx context.Context, plan query.Plan) ([]*domain.Student, int64, error) {
	const op = "mongodb.StudentRepository.List"

	ctx, span := r.tracer.Start(ctx, "StudentRepository.List")
	defer span.End()

	docs, total, err := aggregatePage[studentDocument](ctx, r.coll, plan)
	if err != nil {
		recordError(span, err, "Failed to list students")
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	students := make([]*domain.Student, len(docs))
	for i := range docs {
		students[i] = docs[i].toDomain()
	}
	span.SetAttributes(attribute.Int64("student.total", total))
	span.SetStatus(codes.Ok, "Students listed successfully")
	return students, total, nil
}
