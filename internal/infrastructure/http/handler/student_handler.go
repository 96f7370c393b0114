package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrops-br/coder-ecommerce-api/internal/app/dto"
	"github.com/mrops-br/coder-ecommerce-api/internal/app/service"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/http/response"
)

// StudentHandler handles HTTP requests for students
type StudentHandler struct {
	service  *service.StudentService
	maxLimit int
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(service *service.StudentService, maxLimit int) *StudentHandler {
	return &StudentHandler{service: service, maxLimit: maxLimit}
}

// Routes mounts the student endpoints
func (h *StudentHandler) Routes(r chi.Router) {
	r.Get("/", h.ListStudents)
	r.Post("/", h.CreateStudent)
	r.Get("/{sid}", h.GetStudent)
}

// CreateStudent handles POST /api/students
func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateStudentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	student, err := h.service.CreateStudent(r.Context(), &req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusCreated, student, "Student created successfully")
}

// GetStudent handles GET /api/students/{sid}
func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	student, err := h.service.GetStudentByID(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, student, "")
}

// ListStudents handles GET /api/students
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	params, err := query.ParseParams(r.URL.Query(), h.maxLimit)
	if err != nil {
		response.Error(w, err)
		return
	}

	result, err := h.service.ListStudents(r.Context(), params)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.List(w, r, result.Items, result.Page, params)
}
