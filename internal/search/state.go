// Package search turns storefront URL parameters into catalog queries and
// paginated result pages.
package search

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// SortMode selects the single ordering applied to results.
type SortMode string

const (
	SortNewest    SortMode = "newest"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortPopular   SortMode = "popular"
	SortRating    SortMode = "rating"
)

// URL query parameter names.
const (
	ParamQuery    = "q"
	ParamCategory = "category"
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"
	ParamInStock  = "inStock"
	ParamRating   = "rating"
	ParamSort     = "sort"
	ParamPage     = "page"
)

// ParseSortMode returns the mode named by s, falling back to newest.
func ParseSortMode(s string) SortMode {
	switch m := SortMode(s); m {
	case SortNewest, SortPriceAsc, SortPriceDesc, SortPopular, SortRating:
		return m
	}
	return SortNewest
}

// State is the set of active search selections. It is a value: the With
// methods return modified copies.
type State struct {
	Query       string
	Categories  []string
	MinPrice    *float64
	MaxPrice    *float64
	InStockOnly bool
	MinRating   *int
	Sort        SortMode
	Page        int
}

// NewState returns the default state: no constraints, newest first, page 1.
func NewState() State {
	return State{Sort: SortNewest, Page: 1}
}

func (s State) normalize() State {
	if s.Page < 1 {
		s.Page = 1
	}
	if s.Page > MaxPage {
		s.Page = MaxPage
	}
	if s.Sort == "" {
		s.Sort = SortNewest
	}
	s.Query = strings.TrimSpace(s.Query)
	if len(s.Categories) > 0 {
		cats := make([]string, 0, len(s.Categories))
		for _, c := range s.Categories {
			if c = strings.TrimSpace(c); c != "" {
				cats = append(cats, c)
			}
		}
		slices.Sort(cats)
		s.Categories = slices.Compact(cats)
	}
	if len(s.Categories) == 0 {
		s.Categories = nil
	}
	if s.MinPrice != nil && s.MaxPrice != nil && *s.MinPrice > *s.MaxPrice {
		s.MinPrice, s.MaxPrice = s.MaxPrice, s.MinPrice
	}
	if s.MinRating != nil && (*s.MinRating < 1 || *s.MinRating > 5) {
		s.MinRating = nil
	}
	return s
}

// WithQuery sets the free-text query and resets to page 1.
func (s State) WithQuery(q string) State {
	s.Query = q
	s.Page = 1
	return s.normalize()
}

// WithCategories replaces the category set and resets to page 1.
func (s State) WithCategories(cats ...string) State {
	s.Categories = slices.Clone(cats)
	s.Page = 1
	return s.normalize()
}

// WithPriceRange sets either bound; nil clears it.
func (s State) WithPriceRange(lo, hi *float64) State {
	s.MinPrice, s.MaxPrice = lo, hi
	s.Page = 1
	return s.normalize()
}

func (s State) WithInStockOnly(v bool) State {
	s.InStockOnly = v
	s.Page = 1
	return s.normalize()
}

func (s State) WithMinRating(r *int) State {
	s.MinRating = r
	s.Page = 1
	return s.normalize()
}

func (s State) WithSort(m SortMode) State {
	s.Sort = ParseSortMode(string(m))
	s.Page = 1
	return s.normalize()
}

func (s State) WithPage(n int) State {
	s.Page = n
	return s.normalize()
}

// IsDefault reports whether no selection differs from NewState.
func (s State) IsDefault() bool {
	return len(s.Values()) == 0
}

// Values serializes the non-default fields.
func (s State) Values() url.Values {
	s = s.normalize()
	v := url.Values{}
	if s.Query != "" {
		v.Set(ParamQuery, s.Query)
	}
	for _, c := range s.Categories {
		v.Add(ParamCategory, c)
	}
	if s.MinPrice != nil {
		v.Set(ParamMinPrice, strconv.FormatFloat(*s.MinPrice, 'f', -1, 64))
	}
	if s.MaxPrice != nil {
		v.Set(ParamMaxPrice, strconv.FormatFloat(*s.MaxPrice, 'f', -1, 64))
	}
	if s.InStockOnly {
		v.Set(ParamInStock, "true")
	}
	if s.MinRating != nil {
		v.Set(ParamRating, strconv.Itoa(*s.MinRating))
	}
	if s.Sort != SortNewest {
		v.Set(ParamSort, string(s.Sort))
	}
	if s.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(s.Page))
	}
	return v
}

// Encode returns the query string without a leading "?".
func (s State) Encode() string { return s.Values().Encode() }

// Apply returns the navigation target for this state under path.
func (s State) Apply(path string) string {
	q := s.Encode()
	if q == "" {
		return path
	}
	return path + "?" + q
}

// ParseValues is the inverse of Values. Malformed numbers are dropped
// rather than rejected.
func ParseValues(v url.Values) State {
	s := NewState()
	s.Query = v.Get(ParamQuery)
	s.Categories = v[ParamCategory]
	s.MinPrice = parseFloat(v.Get(ParamMinPrice))
	s.MaxPrice = parseFloat(v.Get(ParamMaxPrice))
	s.InStockOnly = v.Get(ParamInStock) == "true"
	if r, err := strconv.Atoi(strings.TrimSpace(v.Get(ParamRating))); err == nil {
		s.MinRating = &r
	}
	s.Sort = ParseSortMode(v.Get(ParamSort))
	if p, err := strconv.Atoi(strings.TrimSpace(v.Get(ParamPage))); err == nil {
		s.Page = p
	}
	return s.normalize()
}

// ParseQuery parses a raw query string; a malformed string yields the
// default state.
func ParseQuery(raw string) State {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return NewState()
	}
	return ParseValues(v)
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
