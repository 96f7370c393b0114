package domain

import (
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
)

const (
	MinStudentAge = 16
	MaxStudentAge = 80
)

// Courses lists the accepted course levels.
var Courses = []string{"inicial", "medio", "avanzado"}

// Student field names shared by query schemas and storage adapters.
const (
	StudentFieldFirstName = "first_name"
	StudentFieldLastName  = "last_name"
	StudentFieldAge       = "age"
	StudentFieldCourse    = "course"
	StudentFieldEmail     = "email"
	StudentFieldActive    = "active"
)

// Student represents an enrolled student
type Student struct {
	ID         string
	FirstName  string
	LastName   string
	Age        int
	Course     string
	Email      string
	EnrolledAt time.Time
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StudentAttrs holds the caller-supplied values of a new student.
type StudentAttrs struct {
	FirstName  string
	LastName   string
	Age        int
	Course     string
	Email      string
	EnrolledAt *time.Time
	Active     *bool
}

// NewStudent builds a validated student. Enrollment defaults to now and
// students start active.
func NewStudent(attrs StudentAttrs) (*Student, error) {
	now := time.Now().UTC()
	s := &Student{
		FirstName:  strings.TrimSpace(attrs.FirstName),
		LastName:   strings.TrimSpace(attrs.LastName),
		Age:        attrs.Age,
		Course:     strings.ToLower(strings.TrimSpace(attrs.Course)),
		Email:      NormalizeEmail(attrs.Email),
		EnrolledAt: now,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if attrs.EnrolledAt != nil {
		s.EnrolledAt = attrs.EnrolledAt.UTC()
	}
	if attrs.Active != nil {
		s.Active = *attrs.Active
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate performs business validation on the student
func (s *Student) Validate() error {
	var errs []string
	if s.FirstName == "" {
		errs = append(errs, "first_name is required")
	}
	if s.LastName == "" {
		errs = append(errs, "last_name is required")
	}
	if s.Age < MinStudentAge || s.Age > MaxStudentAge {
		errs = append(errs, "age must be between 16 and 80")
	}
	if !slices.Contains(Courses, s.Course) {
		errs = append(errs, "course must be one of: "+strings.Join(Courses, ", "))
	}
	errs = append(errs, validateEmail(s.Email)...)

	if len(errs) > 0 {
		return NewValidationError(errs...)
	}
	return nil
}

// Field returns the value of a named field for in-memory query evaluation.
func (s *Student) Field(name string) any {
	switch name {
	case StudentFieldFirstName:
		return s.FirstName
	case StudentFieldLastName:
		return s.LastName
	case StudentFieldAge:
		return s.Age
	case StudentFieldCourse:
		return s.Course
	case StudentFieldEmail:
		return s.Email
	case StudentFieldActive:
		return s.Active
	}
	return nil
}

// NormalizeEmail returns the canonical form used for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) []string {
	if email == "" {
		return []string{"email is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return []string{"email must be a valid address"}
	}
	return nil
}

// StudentQuery is the listing schema for students. Spanish prefixes are
// accepted as aliases.
var StudentQuery = func() query.Schema {
	course := query.FieldRule{Field: StudentFieldCourse, Op: query.OpEqual, Kind: query.KindString, Normalize: strings.ToLower}
	age := query.FieldRule{Field: StudentFieldAge, Op: query.OpGreaterOrEqual, Kind: query.KindNumber}
	active := query.FieldRule{Field: StudentFieldActive, Op: query.OpEqual, Kind: query.KindBool}
	return query.Schema{
		Fields: map[string]query.FieldRule{
			"course": course, "curso": course,
			"age": age, "edad": age,
			"active": active, "activo": active,
		},
		TextFields:  []string{StudentFieldFirstName, StudentFieldLastName},
		NumericSort: StudentFieldAge,
		NameSort:    StudentFieldFirstName,
	}
}()
