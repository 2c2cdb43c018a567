package pagination

// DefaultLimit is the page size used when the caller does not supply one.
const DefaultLimit = 10

// Params carries the list-query inputs shared by customer and transaction
// listings: a free-text substring filter plus page/limit.
type Params struct {
	Query string
	Page  int
	Limit int
}

// Normalize clamps page and limit to sane values (page >= 1, limit > 0).
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	return p
}

// Offset returns the number of rows to skip for the requested page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta describes the position of a page within the filtered result set.
type Meta struct {
	Count       int64 `json:"count"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// NewMeta computes pagination metadata from the total filtered count and the
// normalized request parameters.
func NewMeta(count int64, p Params) Meta {
	offset := int64(p.Offset())
	totalPages := int(count / int64(p.Limit))
	if count%int64(p.Limit) != 0 {
		totalPages++
	}
	return Meta{
		Count:       count,
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		HasNext:     count > offset+int64(p.Limit),
		HasPrev:     offset > 0,
	}
}
