// Package storefront registers the OpenAPI document served under /swagger
// by the storefront binary. It is maintained by hand alongside the godoc
// annotations on the handlers in cmd/storefront; update both together.
package storefront

import "github.com/swaggo/swag"

// InstanceName is the swag registry name for this document.
const InstanceName = "storefront"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/store/products": {
            "get": {
                "description": "Free-text search with category, price, stock and rating filters. Store failures yield an empty page flagged with X-Search-Degraded.",
                "produces": ["application/json"],
                "tags": ["Storefront - Products"],
                "summary": "Search storefront products",
                "parameters": [
                    {"type": "string", "description": "Search text (name, description or tag)", "name": "q", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Categories (repeatable)", "name": "category", "in": "query"},
                    {"type": "number", "description": "Minimum price (inclusive)", "name": "minPrice", "in": "query"},
                    {"type": "number", "description": "Maximum price (inclusive)", "name": "maxPrice", "in": "query"},
                    {"enum": ["true"], "type": "string", "description": "Only products in stock", "name": "inStock", "in": "query"},
                    {"type": "integer", "description": "Minimum rating (1-5)", "name": "rating", "in": "query"},
                    {"enum": ["newest", "price-asc", "price-desc", "popular", "rating"], "type": "string", "default": "newest", "description": "Sort mode", "name": "sort", "in": "query"},
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/store/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Storefront - Products"],
                "summary": "Get a product",
                "parameters": [{"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/store/filters/metadata": {
            "get": {
                "description": "Category counts, price range and availability counts for the filter sidebar.",
                "produces": ["application/json"],
                "tags": ["Storefront - Filters"],
                "summary": "Filter metadata",
                "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/store/coupons/quote": {
            "post": {
                "description": "Prices a subtotal with a coupon without consuming a use.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Storefront - Coupons"],
                "summary": "Preview a coupon",
                "parameters": [{"description": "Code and subtotal", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/coupon.QuoteRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/coupon.QuoteResponse"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        }
    },
    "definitions": {
        "coupon.QuoteRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "HARVEST10"},
                "subtotal": {"type": "string", "example": "42.50"}
            }
        },
        "coupon.QuoteResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "subtotal": {"type": "string"},
                "discount": {"type": "string"},
                "total": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "AgriHub Storefront API",
	Description:      "Product search, filter metadata and coupon previews for the AgriHub storefront.",
	InfoInstanceName: InstanceName,
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
