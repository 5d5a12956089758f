package search

import (
	"math"

	"github.com/nambininasafidison/AgriHub-sub001/internal/catalog"
)

// PageSize is the fixed number of products per result page.
const PageSize = 12

// MaxPage bounds page numbers so the skip offset cannot overflow on any
// platform. Larger page numbers are clamped to it.
const MaxPage = math.MaxInt32

var sortKeys = map[SortMode]catalog.SortKey{
	SortNewest:    {Field: catalog.FieldCreatedAt, Desc: true},
	SortPriceAsc:  {Field: catalog.FieldPrice},
	SortPriceDesc: {Field: catalog.FieldPrice, Desc: true},
	SortPopular:   {Field: catalog.FieldPopularity, Desc: true},
	SortRating:    {Field: catalog.FieldRating, Desc: true},
}

// Translate maps a state onto a catalog query. Equal sort keys are broken
// by product id ascending inside the store.
func Translate(s State) catalog.Query {
	s = s.normalize()
	key, ok := sortKeys[s.Sort]
	if !ok {
		key = sortKeys[SortNewest]
	}
	return catalog.Query{
		Criteria: catalog.Criteria{
			Text:        s.Query,
			Categories:  s.Categories,
			MinPrice:    s.MinPrice,
			MaxPrice:    s.MaxPrice,
			InStockOnly: s.InStockOnly,
			MinRating:   s.MinRating,
		},
		Sort:  key,
		Skip:  int64(s.Page-1) * PageSize,
		Limit: PageSize,
	}
}
