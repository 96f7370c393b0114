package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrops-br/coder-ecommerce-api/internal/app/dto"
	"github.com/mrops-br/coder-ecommerce-api/internal/app/service"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/http/response"
)

// UserHandler handles HTTP requests for users
type UserHandler struct {
	service  *service.UserService
	maxLimit int
}

// NewUserHandler creates a new user handler
func NewUserHandler(service *service.UserService, maxLimit int) *UserHandler {
	return &UserHandler{service: service, maxLimit: maxLimit}
}

// Routes mounts the user endpoints
func (h *UserHandler) Routes(r chi.Router) {
	r.Get("/", h.ListUsers)
	r.Post("/", h.CreateUser)
	r.Get("/{uid}", h.GetUser)
	r.Put("/{uid}", h.UpdateUser)
	r.Delete("/{uid}", h.DeleteUser)
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), &req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusCreated, user, "User created successfully")
}

// GetUser handles GET /api/users/{uid}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUserByID(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, user, "")
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params, err := query.ParseParams(r.URL.Query(), h.maxLimit)
	if err != nil {
		response.Error(w, err)
		return
	}

	result, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.List(w, r, result.Items, result.Page, params)
}

// UpdateUser handles PUT /api/users/{uid}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), chi.URLParam(r, "uid"), &req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, user, "User updated successfully")
}

// DeleteUser handles DELETE /api/users/{uid}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, user, "User deleted successfully")
}
