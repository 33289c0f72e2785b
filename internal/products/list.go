package products

const (
	// DefaultPerPage is the admin page size when per_page is not provided.
	DefaultPerPage = 20
	// MaxPerPage caps one admin catalog page.
	MaxPerPage = 500
)

// ListFilters are the admin catalog filter knobs.
type ListFilters struct {
	IsActive *bool
	Search   string
}

// ListInput is one page request of the admin catalog. Page is 1-based.
type ListInput struct {
	Filters ListFilters
	Page    int
	PerPage int
}

// ProductList is an offset-paginated admin catalog page.
type ProductList struct {
	Items   []ProductDTO `json:"items"`
	Total   int64        `json:"total"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
}

func (in ListInput) normalized() ListInput {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PerPage < 1 {
		in.PerPage = DefaultPerPage
	}
	if in.PerPage > MaxPerPage {
		in.PerPage = MaxPerPage
	}
	return in
}
