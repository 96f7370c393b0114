package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	internalErrorMessage = "Internal server error"
)

// Envelope wraps every successful single-entity response
type Envelope struct {
	Status  string `json:"status"`
	Payload any    `json:"payload"`
	Message string `json:"message,omitempty"`
}

// ListEnvelope wraps a paginated listing
type ListEnvelope struct {
	Status      string  `json:"status"`
	Payload     any     `json:"payload"`
	TotalDocs   int64   `json:"totalDocs"`
	Limit       int     `json:"limit"`
	TotalPages  int     `json:"totalPages"`
	Page        int     `json:"page"`
	PrevPage    *int    `json:"prevPage"`
	NextPage    *int    `json:"nextPage"`
	HasPrevPage bool    `json:"hasPrevPage"`
	HasNextPage bool    `json:"hasNextPage"`
	PrevLink    *string `json:"prevLink"`
	NextLink    *string `json:"nextLink"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Success sends payload inside the success envelope
func Success(w http.ResponseWriter, status int, payload any, message string) {
	JSON(w, status, Envelope{
		Status:  statusSuccess,
		Payload: payload,
		Message: message,
	})
}

// List sends one page of items with pagination metadata. Links point at the
// request path and keep the caller's limit, sort and query.
func List(w http.ResponseWriter, r *http.Request, items any, page query.Page, params query.Params) {
	env := ListEnvelope{
		Status:      statusSuccess,
		Payload:     items,
		TotalDocs:   page.TotalDocs,
		Limit:       page.Limit,
		TotalPages:  page.TotalPages,
		Page:        page.Page,
		PrevPage:    page.PrevPage,
		NextPage:    page.NextPage,
		HasPrevPage: page.HasPrevPage,
		HasNextPage: page.HasNextPage,
	}
	if page.PrevPage != nil {
		link := PageLink(r.URL.Path, *page.PrevPage, page.Limit, params)
		env.PrevLink = &link
	}
	if page.NextPage != nil {
		link := PageLink(r.URL.Path, *page.NextPage, page.Limit, params)
		env.NextLink = &link
	}
	JSON(w, http.StatusOK, env)
}

// PageLink builds the URL of another page of the same listing
func PageLink(path string, page, limit int, params query.Params) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(limit))
	if params.Sort != "" {
		v.Set("sort", params.Sort)
	}
	if params.Query != "" {
		v.Set("query", params.Query)
	}
	return path + "?" + v.Encode()
}

// Error translates err into a status code and error envelope
func Error(w http.ResponseWriter, err error) {
	status, body := Describe(err)
	JSON(w, status, body)
}

// Describe maps an error to its HTTP status and response body. Unknown
// errors never leak their text.
func Describe(err error) (int, ErrorResponse) {
	body := ErrorResponse{Status: statusError}

	var (
		validationErr *domain.ValidationError
		queryErr      *query.Error
		duplicateErr  *domain.DuplicateKeyError
		stockErr      *domain.InsufficientStockError
	)

	switch {
	case errors.As(err, &validationErr):
		body.Message = "Validation failed"
		body.Errors = validationErr.Errors
		return http.StatusBadRequest, body
	case errors.As(err, &queryErr):
		body.Message = "Invalid query parameters"
		body.Errors = queryErr.Errors
		return http.StatusBadRequest, body
	case errors.As(err, &duplicateErr):
		body.Message = duplicateErr.Error()
		body.Errors = []string{duplicateErr.Field + " must be unique"}
		return http.StatusBadRequest, body
	case errors.As(err, &stockErr):
		body.Message = stockErr.Error()
		return http.StatusBadRequest, body
	case errors.Is(err, domain.ErrInvalidID):
		body.Message = "Invalid identifier"
		return http.StatusBadRequest, body
	case domain.IsNotFound(err):
		body.Message = notFoundMessage(err)
		return http.StatusNotFound, body
	default:
		body.Message = internalErrorMessage
		return http.StatusInternalServerError, body
	}
}

var notFoundErrors = []error{
	domain.ErrCartItemNotFound,
	domain.ErrProductNotFound,
	domain.ErrCartNotFound,
	domain.ErrStudentNotFound,
	domain.ErrUserNotFound,
}

// notFoundMessage reports the sentinel text without adapter prefixes
func notFoundMessage(err error) string {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return capitalize(target.Error())
		}
	}
	return "Resource not found"
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
