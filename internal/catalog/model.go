package catalog

import "time"

// Product is a catalog document as stored in the products collection.
type Product struct {
	ID          string    `json:"id"                    bson:"_id"`
	Name        string    `json:"name"                  bson:"name"`
	Description string    `json:"description,omitempty" bson:"description"`
	Category    string    `json:"category"              bson:"category"`
	Price       float64   `json:"price"                 bson:"price"`
	Unit        string    `json:"unit,omitempty"        bson:"unit,omitempty"`
	Stock       int       `json:"stock"                 bson:"stock"`
	Rating      float64   `json:"rating"                bson:"rating"`
	Popularity  int       `json:"popularity"            bson:"popularity"`
	Image       string    `json:"image,omitempty"       bson:"image,omitempty"`
	Tags        []string  `json:"tags,omitempty"        bson:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"            bson:"created_at"`
}

// InStock reports whether at least one unit can be sold.
func (p Product) InStock() bool { return p.Stock > 0 }

// CategoryCount is one entry of the category facet.
type CategoryCount struct {
	Name  string `json:"name"  bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// PriceRange holds the lowest and highest catalog price.
type PriceRange struct {
	Min float64 `json:"min" bson:"min"`
	Max float64 `json:"max" bson:"max"`
}

// Availability counts products with and without stock.
type Availability struct {
	InStock    int64 `json:"inStock"`
	OutOfStock int64 `json:"outOfStock"`
}

// Facets is the filter metadata shown next to search results.
// swagger:model
type Facets struct {
	Categories   []CategoryCount `json:"categories"`
	PriceRange   PriceRange      `json:"priceRange"`
	Availability Availability    `json:"availability"`
}
