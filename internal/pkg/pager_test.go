package pkg

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/simp-lee/leadboard/internal/domain"
)

func TestNewPager_KeepsFilters(t *testing.T) {
	params := domain.PaginationParams{Page: 3, Limit: 20, Search: "acme", Status: "inactive"}
	p := NewPager("/campaigns", params, NewPaginationMeta(3, 20, 200), 5)

	if want := []int{1, 2, 3, 4, 5}; !reflect.DeepEqual(p.Pages, want) {
		t.Errorf("Pages = %v, want %v", p.Pages, want)
	}
	if got, want := p.URL(4), "/campaigns?limit=20&page=4&search=acme&status=inactive"; got != want {
		t.Errorf("URL(4) = %q, want %q", got, want)
	}
	if got, want := p.URL(1), "/campaigns?limit=20&search=acme&status=inactive"; got != want {
		t.Errorf("URL(1) = %q, want %q", got, want)
	}
	if got, want := p.LimitURL(10), "/campaigns?search=acme&status=inactive"; got != want {
		t.Errorf("LimitURL(10) = %q, want %q", got, want)
	}
	if p.LimitKey() != "limit" {
		t.Errorf("LimitKey = %q", p.LimitKey())
	}
}

func TestNewPager_UsesClampedLimit(t *testing.T) {
	p := NewPager("/leads", domain.PaginationParams{Limit: 500}, NewPaginationMeta(1, 100, 150), 5)
	if got, want := p.URL(2), "/leads?limit=100&page=2"; got != want {
		t.Errorf("URL(2) = %q, want %q", got, want)
	}
}

func TestNewPrefixedPager_IndependentKeys(t *testing.T) {
	query := url.Values{"cp": {"2"}, "cl": {"5"}, "ap": {"3"}}
	campaigns := NewPrefixedPager("/", query, "cp", "cl", NewPaginationMeta(2, 5, 30), 5)

	if got, want := campaigns.URL(3), "/?ap=3&cl=5&cp=3"; got != want {
		t.Errorf("URL(3) = %q, want %q", got, want)
	}
	if got, want := campaigns.URL(1), "/?ap=3&cl=5"; got != want {
		t.Errorf("URL(1) = %q, want %q", got, want)
	}
	if got, want := campaigns.LimitURL(20), "/?ap=3&cl=20"; got != want {
		t.Errorf("LimitURL(20) = %q, want %q", got, want)
	}
	if got, want := campaigns.LimitURL(DefaultPageSize), "/?ap=3"; got != want {
		t.Errorf("LimitURL(default) = %q, want %q", got, want)
	}
	if campaigns.LimitKey() != "cl" {
		t.Errorf("LimitKey = %q", campaigns.LimitKey())
	}
	if query.Get("cp") != "2" {
		t.Error("request query must not be mutated")
	}
}

func TestPager_Ellipses(t *testing.T) {
	tests := []struct {
		name                string
		current, totalPages int
		first, last         bool
	}{
		{"few pages", 1, 3, false, false},
		{"at start", 1, 10, false, true},
		{"middle", 5, 10, true, true},
		{"at end", 10, 10, true, false},
		{"empty", 1, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := domain.PaginationMeta{Page: tt.current, Limit: 10, TotalPages: tt.totalPages}
			p := NewPager("/leads", domain.PaginationParams{}, meta, 5)
			if p.ShowFirst() != tt.first || p.ShowLast() != tt.last {
				t.Errorf("ShowFirst/ShowLast = %v/%v, want %v/%v (pages %v)",
					p.ShowFirst(), p.ShowLast(), tt.first, tt.last, p.Pages)
			}
		})
	}
}
