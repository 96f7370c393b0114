package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrops-br/coder-ecommerce-api/internal/app/dto"
	"github.com/mrops-br/coder-ecommerce-api/internal/app/service"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/http/response"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service  *service.ProductService
	logger   *slog.Logger
	maxLimit int
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, maxLimit int, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		logger:   logger,
		maxLimit: maxLimit,
	}
}

// Routes mounts the product endpoints
func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/", h.ListProducts)
	r.Post("/", h.CreateProduct)
	r.Get("/{pid}", h.GetProduct)
	r.Put("/{pid}", h.UpdateProduct)
	r.Delete("/{pid}", h.DeleteProduct)
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Success(w, http.StatusCreated, product, "Product created successfully")
}

// GetProduct handles GET /api/products/{pid}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProductByID(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Success(w, http.StatusOK, product, "")
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params, err := query.ParseParams(r.URL.Query(), h.maxLimit)
	if err != nil {
		response.Error(w, err)
		return
	}

	result, err := h.service.ListProducts(r.Context(), params)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.List(w, r, result.Items, result.Page, params)
}

// UpdateProduct handles PUT /api/products/{pid}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "pid"), &req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Success(w, http.StatusOK, product, "Product updated successfully")
}

// DeleteProduct handles DELETE /api/products/{pid}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Success(w, http.StatusOK, product, "Product deleted successfully")
}
