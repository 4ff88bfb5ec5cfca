package pagination

// Offset pagination shared by every list endpoint: 1-based `page` and a
// capped `limit`, with a meta block echoed back to the client.

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta is the pagination block included in list responses.
type Meta struct {
	TotalPages   int   `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// Normalize clamps page and limit into their allowed ranges.
func (p Params) Normalize() Params {
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// MetaFor builds the response meta block for a total row count.
func (p Params) MetaFor(totalItems int64) Meta {
	n := p.Normalize()
	totalPages := int(totalItems) / n.Limit
	if int(totalItems)%n.Limit != 0 {
		totalPages++
	}
	return Meta{
		TotalPages:   totalPages,
		CurrentPage:  n.Page,
		TotalItems:   totalItems,
		ItemsPerPage: n.Limit,
	}
}
