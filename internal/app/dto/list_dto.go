package dto

import "github.com/mrops-br/coder-ecommerce-api/internal/domain/query"

// ListResult is one page of a listing plus its pagination metadata.
type ListResult[T any] struct {
	Items []T
	Page  query.Page
}
