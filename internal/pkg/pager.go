package pkg

import (
	"net/url"
	"strconv"

	"github.com/simp-lee/leadboard/internal/domain"
)

// Pager is the view model behind the pagination partial.
type Pager struct {
	Meta      domain.PaginationMeta
	Pages     []int
	PageSizes []int

	path   string
	params domain.PaginationParams

	// Set for listings paginated by custom query keys.
	query    url.Values
	pageKey  string
	limitKey string
}

// NewPager builds a pager for a listing driven by the standard query
// parameters; links keep the active filters.
func NewPager(path string, params domain.PaginationParams, meta domain.PaginationMeta, window int) Pager {
	params.Limit = meta.Limit
	return Pager{
		Meta:      meta,
		Pages:     PageNumbers(meta.Page, meta.TotalPages, window),
		PageSizes: PageSizeOptions,
		path:      path,
		params:    params,
	}
}

// NewPrefixedPager builds a pager for one of several listings on a page.
// Links rewrite pageKey and limitKey and keep every other value of query.
func NewPrefixedPager(path string, query url.Values, pageKey, limitKey string, meta domain.PaginationMeta, window int) Pager {
	q := url.Values{}
	for k, vs := range query {
		if k != pageKey {
			q[k] = append([]string(nil), vs...)
		}
	}
	if meta.Limit != DefaultPageSize {
		q.Set(limitKey, strconv.Itoa(meta.Limit))
	} else {
		q.Del(limitKey)
	}
	return Pager{
		Meta:      meta,
		Pages:     PageNumbers(meta.Page, meta.TotalPages, window),
		PageSizes: PageSizeOptions,
		path:      path,
		query:     q,
		pageKey:   pageKey,
		limitKey:  limitKey,
	}
}

// URL links to page n of the listing.
func (p Pager) URL(n int) string {
	if p.pageKey == "" {
		return PageURL(p.path, p.params, n)
	}
	q := cloneValues(p.query)
	if n > 1 {
		q.Set(p.pageKey, strconv.Itoa(n))
	}
	return encodeURL(p.path, q)
}

// LimitURL links to the first page of the listing with a different page size.
func (p Pager) LimitURL(limit int) string {
	if p.pageKey == "" {
		params := p.params
		params.Limit = limit
		return PageURL(p.path, params, 1)
	}
	q := cloneValues(p.query)
	q.Del(p.limitKey)
	if limit != DefaultPageSize {
		q.Set(p.limitKey, strconv.Itoa(limit))
	}
	return encodeURL(p.path, q)
}

// LimitKey is the query key that carries the page size.
func (p Pager) LimitKey() string {
	if p.limitKey == "" {
		return "limit"
	}
	return p.limitKey
}

// ShowFirst reports whether page 1 lies outside the visible window.
func (p Pager) ShowFirst() bool {
	return len(p.Pages) > 0 && p.Pages[0] > 1
}

// ShowLast reports whether the last page lies outside the visible window.
func (p Pager) ShowLast() bool {
	return len(p.Pages) > 0 && p.Pages[len(p.Pages)-1] < p.Meta.TotalPages
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

func encodeURL(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
