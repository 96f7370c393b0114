package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrops-br/coder-ecommerce-api/internal/app/dto"
	"github.com/mrops-br/coder-ecommerce-api/internal/app/service"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/http/response"
)

// CartHandler handles HTTP requests for carts
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{service: service, logger: logger}
}

// Routes mounts the cart endpoints
func (h *CartHandler) Routes(r chi.Router) {
	r.Get("/", h.ListCarts)
	r.Post("/", h.CreateCart)
	r.Get("/{cid}", h.GetCart)
	r.Put("/{cid}", h.ReplaceItems)
	r.Delete("/{cid}", h.ClearCart)
	r.Post("/{cid}/products/{pid}", h.AddItem)
	r.Put("/{cid}/products/{pid}", h.SetItemQuantity)
	r.Delete("/{cid}/products/{pid}", h.RemoveItem)
}

// CreateCart handles POST /api/carts
func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.CreateCart(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusCreated, cart, "Cart created successfully")
}

// ListCarts handles GET /api/carts
func (h *CartHandler) ListCarts(w http.ResponseWriter, r *http.Request) {
	carts, err := h.service.ListCarts(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, carts, "")
}

// GetCart handles GET /api/carts/{cid}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.GetCart(r.Context(), chi.URLParam(r, "cid"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, cart, "")
}

// AddItem handles POST /api/carts/{cid}/products/{pid}. The body is optional
// and the quantity defaults to one.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req *dto.AddItemRequest
	var body dto.AddItemRequest
	switch err := decodeJSON(w, r, &body); {
	case err == nil:
		req = &body
	case errors.Is(err, errEmptyBody):
	default:
		h.logger.WarnContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, err)
		return
	}

	cart, err := h.service.AddItem(r.Context(), chi.URLParam(r, "cid"), chi.URLParam(r, "pid"), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, cart, "Product added to cart")
}

// SetItemQuantity handles PUT /api/carts/{cid}/products/{pid}
func (h *CartHandler) SetItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req dto.SetQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	cart, err := h.service.SetItemQuantity(r.Context(), chi.URLParam(r, "cid"), chi.URLParam(r, "pid"), &req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, cart, "Quantity updated")
}

// RemoveItem handles DELETE /api/carts/{cid}/products/{pid}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.RemoveItem(r.Context(), chi.URLParam(r, "cid"), chi.URLParam(r, "pid"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, cart, "Product removed from cart")
}

// ReplaceItems handles PUT /api/carts/{cid}
func (h *CartHandler) ReplaceItems(w http.ResponseWriter, r *http.Request) {
	var req dto.ReplaceItemsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	cart, err := h.service.ReplaceItems(r.Context(), chi.URLParam(r, "cid"), &req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, cart, "Cart updated")
}

// ClearCart handles DELETE /api/carts/{cid}
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.ClearCart(r.Context(), chi.URLParam(r, "cid"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, cart, "Cart cleared")
}
