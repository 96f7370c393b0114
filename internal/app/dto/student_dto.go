package dto

import (
	"time"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
)

type CreateStudentRequest struct {
	FirstName  string     `json:"first_name" validate:"required"`
	LastName   string     `json:"last_name" validate:"required"`
	Age        int        `json:"age" validate:"required,gte=16,lte=80"`
	Course     string     `json:"course" validate:"required"`
	Email      string     `json:"email" validate:"required,email"`
	EnrolledAt *time.Time `json:"enrolled_at"`
	Active     *bool      `json:"active"`
}

func (r *CreateStudentRequest) Attrs() domain.StudentAttrs {
	return domain.StudentAttrs{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Age:        r.Age,
		Course:     r.Course,
		Email:      r.Email,
		EnrolledAt: r.EnrolledAt,
		Active:     r.Active,
	}
}

type StudentResponse struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Age        int       `json:"age"`
	Course     string    `json:"course"`
	Email      string    `json:"email"`
	EnrolledAt time.Time `json:"enrolled_at"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToStudentResponse(s *domain.Student) *StudentResponse {
	return &StudentResponse{
		ID:         s.ID,
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

func ToStudentResponseList(students []*domain.Student) []*StudentResponse {
	out := make([]*StudentResponse, len(students))
	for i, s := range students {
		out[i] = ToStudentResponse(s)
	}
	return out
}
