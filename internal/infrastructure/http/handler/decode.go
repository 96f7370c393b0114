package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = domain.NewValidationError("request body is required")

// decodeJSON reads the request body into dst. Malformed bodies surface as
// validation errors so they map to 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return domain.NewValidationError("request body must be valid JSON: " + err.Error())
	}
	return nil
}
