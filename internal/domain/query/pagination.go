package query

// Page describes where a result window sits within the filtered set.
type Page struct {
	TotalDocs   int64
	TotalPages  int
	Page        int
	Limit       int
	HasPrevPage bool
	HasNextPage bool
	PrevPage    *int
	NextPage    *int
}

// NewPage derives pagination metadata from a plan and the total number of
// documents matching its filter.
func NewPage(plan Plan, total int64) Page {
	limit := plan.Limit
	if limit < 1 {
		limit = DefaultLimit
	}

	p := Page{
		TotalDocs:  total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		Page:       plan.Page,
		Limit:      limit,
	}
	p.HasPrevPage = p.Page > 1
	p.HasNextPage = p.Page < p.TotalPages

	if p.HasPrevPage {
		prev := p.Page - 1
		p.PrevPage = &prev
	}
	if p.HasNextPage {
		next := p.Page + 1
		p.NextPage = &next
	}
	return p
}
