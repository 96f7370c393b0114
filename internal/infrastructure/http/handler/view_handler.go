package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/mrops-br/coder-ecommerce-api/internal/app/dto"
	"github.com/mrops-br/coder-ecommerce-api/internal/app/service"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/http/response"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type homeView struct {
	Title    string
	Products []*dto.ProductResponse
	Params   query.Params
	Page     query.Page
	PrevLink string
	NextLink string
	Error    string
}

type realtimeView struct {
	Title      string
	Products   []*dto.ProductResponse
	Categories []string
}

// ViewHandler renders the server-side product pages
type ViewHandler struct {
	products *service.ProductService
	logger   *slog.Logger
	maxLimit int
}

func NewViewHandler(products *service.ProductService, maxLimit int, logger *slog.Logger) *ViewHandler {
	return &ViewHandler{products: products, logger: logger, maxLimit: maxLimit}
}

// Home handles GET /. Bad listing parameters are shown on the page instead
// of failing the request.
func (h *ViewHandler) Home(w http.ResponseWriter, r *http.Request) {
	view := homeView{Title: "Productos"}

	params, err := query.ParseParams(r.URL.Query(), h.maxLimit)
	if err == nil {
		var result *dto.ListResult[*dto.ProductResponse]
		if result, err = h.products.ListProducts(r.Context(), params); err == nil {
			view.Products = result.Items
			view.Page = result.Page
			if result.Page.PrevPage != nil {
				view.PrevLink = response.PageLink(r.URL.Path, *result.Page.PrevPage, result.Page.Limit, params)
			}
			if result.Page.NextPage != nil {
				view.NextLink = response.PageLink(r.URL.Path, *result.Page.NextPage, result.Page.Limit, params)
			}
		}
	}
	view.Params = params

	status := http.StatusOK
	if err != nil {
		var body response.ErrorResponse
		if status, body = response.Describe(err); status >= http.StatusInternalServerError {
			response.Error(w, err)
			return
		}
		view.Error = body.Message
	}

	h.render(w, r, status, "home", view)
}

// RealTimeProducts handles GET /realtimeproducts
func (h *ViewHandler) RealTimeProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.Snapshot(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	h.render(w, r, http.StatusOK, "realtime", realtimeView{
		Title:      "Productos en tiempo real",
		Products:   products,
		Categories: domain.Categories,
	})
}

func (h *ViewHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render view",
			slog.String("view", name),
			slog.String("error", err.Error()),
		)
	}
}
