package catalog

import (
	"cmp"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sortable document fields.
const (
	FieldID         = "_id"
	FieldCreatedAt  = "created_at"
	FieldPrice      = "price"
	FieldPopularity = "popularity"
	FieldRating     = "rating"
)

// Criteria is a conjunction of product constraints. Zero values mean
// "no constraint".
type Criteria struct {
	Text        string
	Categories  []string
	MinPrice    *float64
	MaxPrice    *float64
	InStockOnly bool
	MinRating   *int
}

// SortKey orders results by a single field.
type SortKey struct {
	Field string
	Desc  bool
}

// Query is a page request against the catalog.
type Query struct {
	Criteria Criteria
	Sort     SortKey
	Skip     int64
	Limit    int64
}

// BSON renders the criteria as a MongoDB filter document.
func (c Criteria) BSON() bson.D {
	filter := bson.D{}
	if text := strings.TrimSpace(c.Text); text != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: re}},
			bson.D{{Key: "description", Value: re}},
			bson.D{{Key: "tags", Value: re}},
		}})
	}
	if len(c.Categories) > 0 {
		filter = append(filter, bson.E{Key: "category", Value: bson.D{{Key: "$in", Value: c.Categories}}})
	}
	if c.MinPrice != nil || c.MaxPrice != nil {
		price := bson.D{}
		if c.MinPrice != nil {
			price = append(price, bson.E{Key: "$gte", Value: *c.MinPrice})
		}
		if c.MaxPrice != nil {
			price = append(price, bson.E{Key: "$lte", Value: *c.MaxPrice})
		}
		filter = append(filter, bson.E{Key: FieldPrice, Value: price})
	}
	if c.InStockOnly {
		filter = append(filter, bson.E{Key: "stock", Value: bson.D{{Key: "$gt", Value: 0}}})
	}
	if c.MinRating != nil {
		filter = append(filter, bson.E{Key: FieldRating, Value: bson.D{{Key: "$gte", Value: *c.MinRating}}})
	}
	return filter
}

// Matches evaluates the criteria against p in memory with the same
// semantics as BSON.
func (c Criteria) Matches(p Product) bool {
	if text := strings.ToLower(strings.TrimSpace(c.Text)); text != "" {
		hit := strings.Contains(strings.ToLower(p.Name), text) ||
			strings.Contains(strings.ToLower(p.Description), text)
		for _, tag := range p.Tags {
			if hit {
				break
			}
			hit = strings.Contains(strings.ToLower(tag), text)
		}
		if !hit {
			return false
		}
	}
	if len(c.Categories) > 0 {
		found := false
		for _, cat := range c.Categories {
			if cat == p.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	if c.InStockOnly && !p.InStock() {
		return false
	}
	if c.MinRating != nil && p.Rating < float64(*c.MinRating) {
		return false
	}
	return true
}

// BSON renders the sort key with the _id tie-break appended.
func (s SortKey) BSON() bson.D {
	field := s.Field
	if field == "" {
		field = FieldCreatedAt
	}
	dir := 1
	if s.Desc {
		dir = -1
	}
	if field == FieldID {
		return bson.D{{Key: FieldID, Value: dir}}
	}
	return bson.D{{Key: field, Value: dir}, {Key: FieldID, Value: 1}}
}

// Compare orders a before b the way BSON sorts them.
func (s SortKey) Compare(a, b Product) int {
	var c int
	switch s.Field {
	case FieldPrice:
		c = cmp.Compare(a.Price, b.Price)
	case FieldPopularity:
		c = cmp.Compare(a.Popularity, b.Popularity)
	case FieldRating:
		c = cmp.Compare(a.Rating, b.Rating)
	case FieldID:
		c = cmp.Compare(a.ID, b.ID)
	default:
		c = a.CreatedAt.Compare(b.CreatedAt)
	}
	if s.Desc {
		c = -c
	}
	if c != 0 || s.Field == FieldID {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
