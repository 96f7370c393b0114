package query

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	DefaultSort  = SortAsc
	MaxLimit     = 100
)

// Params are the raw listing parameters of a request.
type Params struct {
	Page  int
	Limit int
	Sort  string
	Query string
}

// ParseParams reads page, limit, sort and query from request values.
// Missing, zero or non-numeric page/limit fall back to their defaults;
// negative values and limits above maxLimit are rejected.
func ParseParams(values url.Values, maxLimit int) (Params, error) {
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}

	page, pageOK := parsePositive(values.Get("page"), DefaultPage)
	limit, limitOK := parsePositive(values.Get("limit"), DefaultLimit)
	p := Params{
		Page:  page,
		Limit: limit,
		Sort:  strings.TrimSpace(values.Get("sort")),
		Query: strings.TrimSpace(values.Get("query")),
	}
	if p.Sort == "" {
		p.Sort = DefaultSort
	}

	var errs []string
	limitValid := limitOK && p.Limit >= 1 && p.Limit <= maxLimit
	if !limitValid {
		errs = append(errs, fmt.Sprintf("limit must be between 1 and %d", maxLimit))
	}
	switch {
	case !pageOK:
		errs = append(errs, "page is out of range")
	case p.Page < 1:
		errs = append(errs, "page must be greater than 0")
	case limitValid && !skipFits(p.Page, p.Limit):
		errs = append(errs, "page is out of range")
	}
	if len(errs) > 0 {
		return Params{}, &Error{Errors: errs}
	}
	return p, nil
}

// parsePositive returns def for unparseable and zero values, anything else
// is returned as is. ok is false when raw is an integer that does not fit
// in an int.
func parsePositive(raw string, def int) (n int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if err != nil || n == 0 {
		return def, true
	}
	return n, true
}

// skipFits reports whether (page-1)*limit is representable as an int.
func skipFits(page, limit int) bool {
	return page >= 1 && limit >= 1 && page-1 <= math.MaxInt/limit
}
