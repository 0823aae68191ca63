package pkg

import "github.com/simp-lee/leadboard/internal/domain"

// PackagePage wraps the outcome of a listing into the response envelope.
// On failure the envelope still carries an empty data slice and metadata for
// page 1 with the requested limit, and err's caller-safe message.
func PackagePage[T any](page *domain.Page[T], err error, limit int) domain.PaginatedResponse[T] {
	if err != nil || page == nil {
		return domain.PaginatedResponse[T]{
			Success: false,
			Data:    []T{},
			Meta:    NewPaginationMeta(1, limit, 0),
			Error:   domain.SafeMessage(err, "internal error"),
		}
	}

	items := page.Items
	if items == nil {
		items = []T{}
	}
	return domain.PaginatedResponse[T]{
		Success: true,
		Data:    items,
		Meta:    page.Meta,
	}
}
