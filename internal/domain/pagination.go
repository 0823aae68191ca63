package domain

// PaginationParams is the listing request as it arrives from the presentation
// layer. Zero ints and empty strings mean "not supplied".
type PaginationParams struct {
	Page     int
	Limit    int
	Search   string
	Status   string
	Campaign string
	// CampaignID restricts lead listings to a single campaign.
	CampaignID string
}

// PaginationOptions is the clamped window derived from PaginationParams.
// Offset is always (Page-1)*Limit.
type PaginationOptions struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationMeta describes where a page sits within the full filtered set.
type PaginationMeta struct {
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	Total           int64 `json:"total"`
	TotalPages      int   `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

// Page is one window of a listing together with its metadata.
type Page[T any] struct {
	Items []T
	Meta  PaginationMeta
}

// PaginatedResponse is the listing envelope handed to the presentation layer.
// Data is never nil and Meta is always populated, including on failure.
type PaginatedResponse[T any] struct {
	Success bool           `json:"success"`
	Data    []T            `json:"data"`
	Meta    PaginationMeta `json:"meta"`
	Error   string         `json:"error,omitempty"`
}

// Predicate operators.
const (
	OpEq           = "eq"
	OpIn           = "in"
	OpContainsFold = "contains_fold"
)

// Predicate is a single filter condition on a column. A listing's predicates
// are combined with AND; an empty list matches every row.
type Predicate struct {
	Column string
	Op     string
	Values []any
}

// Eq matches rows where column equals v.
func Eq(column string, v any) Predicate {
	return Predicate{Column: column, Op: OpEq, Values: []any{v}}
}

// In matches rows where column equals any of vs.
func In(column string, vs ...any) Predicate {
	return Predicate{Column: column, Op: OpIn, Values: vs}
}

// ContainsFold matches rows where column contains s, ignoring case.
func ContainsFold(column, s string) Predicate {
	return Predicate{Column: column, Op: OpContainsFold, Values: []any{s}}
}
