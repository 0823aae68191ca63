package pkg

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/leadboard/internal/domain"
)

const (
	DefaultPage       = 1
	DefaultPageSize   = 10
	MaxPageSize       = 100
	defaultMaxVisible = 5

	// MaxPage keeps (page-1)*limit within int for every allowed limit.
	MaxPage = math.MaxInt / MaxPageSize
)

// PageSizeOptions are the page sizes offered by listing controls.
var PageSizeOptions = []int{5, 10, 20, 50}

// CalculatePagination clamps the requested page and limit and derives the
// zero-based offset. It never fails: missing, zero or negative values clamp,
// and so do pages too large for the offset to be represented.
func CalculatePagination(p domain.PaginationParams) domain.PaginationOptions {
	page := p.Page
	switch {
	case page < 1:
		page = DefaultPage
	case page > MaxPage:
		page = MaxPage
	}

	limit := p.Limit
	switch {
	case limit == 0:
		limit = DefaultPageSize
	case limit < 1:
		limit = 1
	case limit > MaxPageSize:
		limit = MaxPageSize
	}

	return domain.PaginationOptions{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// NewPaginationMeta builds navigation metadata for a page of a result set
// holding total rows.
func NewPaginationMeta(page, limit int, total int64) domain.PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return domain.PaginationMeta{
		Page:            page,
		Limit:           limit,
		Total:           total,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// PageNumbers returns the window of page numbers shown around current.
// The window keeps a fixed width of maxVisible once totalPages exceeds it,
// so controls do not jitter while paging.
func PageNumbers(current, totalPages, maxVisible int) []int {
	if maxVisible <= 0 {
		maxVisible = defaultMaxVisible
	}
	if totalPages <= 0 {
		return []int{}
	}
	if totalPages <= maxVisible {
		return pageRange(1, totalPages)
	}

	start := max(1, current-maxVisible/2)
	end := min(totalPages, start+maxVisible-1)
	if end-start+1 < maxVisible {
		start = max(1, end-maxVisible+1)
	}
	return pageRange(start, end)
}

func pageRange(start, end int) []int {
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ParsePaginationParams extracts listing parameters from the query string.
// Integers that fail to parse are treated as absent.
func ParsePaginationParams(c *gin.Context) domain.PaginationParams {
	q := c.Request.URL.Query()
	return domain.PaginationParams{
		Page:       atoiOrZero(q.Get("page")),
		Limit:      atoiOrZero(q.Get("limit")),
		Search:     strings.TrimSpace(q.Get("search")),
		Status:     strings.TrimSpace(q.Get("status")),
		Campaign:   strings.TrimSpace(q.Get("campaign")),
		CampaignID: strings.TrimSpace(q.Get("campaign_id")),
	}
}

// ParsePrefixedPaginationParams reads page and limit from custom keys, which
// lets several listings on one page paginate independently.
func ParsePrefixedPaginationParams(c *gin.Context, pageKey, limitKey string) domain.PaginationParams {
	q := c.Request.URL.Query()
	return domain.PaginationParams{
		Page:  atoiOrZero(q.Get(pageKey)),
		Limit: atoiOrZero(q.Get(limitKey)),
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// PaginationQuery encodes p back into query parameters, leaving out values
// that equal their defaults so generated links stay short.
func PaginationQuery(p domain.PaginationParams) url.Values {
	q := url.Values{}
	if p.Page > 1 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 && p.Limit != DefaultPageSize {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Status != "" && p.Status != "all" {
		q.Set("status", p.Status)
	}
	if p.Campaign != "" {
		q.Set("campaign", p.Campaign)
	}
	if p.CampaignID != "" {
		q.Set("campaign_id", p.CampaignID)
	}
	return q
}

// PageURL returns path with p encoded as its query string, with page
// replaced by the given page number.
func PageURL(path string, p domain.PaginationParams, page int) string {
	p.Page = page
	q := PaginationQuery(p)
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET.
func Paginate(opts domain.PaginationOptions) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(opts.Offset).Limit(opts.Limit)
	}
}
