// Package dashboard registers the OpenAPI document served under /swagger
// by the dashboard binary. It is maintained by hand alongside the godoc
// annotations on the handlers in cmd/dashboard; update both together.
package dashboard

import "github.com/swaggo/swag"

// InstanceName is the swag registry name for this document.
const InstanceName = "dashboard"

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
        "/admin/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Dashboard - Auth"],
                "summary": "Admin login",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/admin.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/admin.LoginResponse"}},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/admin/coupons": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Dashboard - Coupons"],
                "summary": "List coupons",
                "parameters": [
                    {"type": "integer", "default": 20, "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Dashboard - Coupons"],
                "summary": "Create a coupon",
                "parameters": [{"description": "Coupon definition", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/coupon.CreateCouponRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/coupon.Coupon"}},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/admin/coupons/{code}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Dashboard - Coupons"],
                "summary": "Get a coupon",
                "parameters": [{"type": "string", "description": "Coupon code", "name": "code", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/coupon.Coupon"}},
                    "404": {"description": "Not Found"}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["Dashboard - Coupons"],
                "summary": "Activate or deactivate a coupon",
                "parameters": [
                    {"type": "string", "description": "Coupon code", "name": "code", "in": "path", "required": true},
                    {"description": "New active flag", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/coupon.UpdateCouponRequest"}}
                ],
                "responses": {"204": {"description": "No Content"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dashboard - Coupons"],
                "summary": "Delete a coupon",
                "parameters": [{"type": "string", "description": "Coupon code", "name": "code", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/admin/coupons/{code}/quote": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Dashboard - Coupons"],
                "summary": "Preview a coupon discount",
                "parameters": [
                    {"type": "string", "description": "Coupon code", "name": "code", "in": "path", "required": true},
                    {"description": "Subtotal (code is taken from the path)", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/coupon.QuoteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/coupon.QuoteResponse"}},
                    "404": {"description": "Not Found"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/admin/coupons/{code}/redeem": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Prices the subtotal and consumes one use of the coupon atomically.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Dashboard - Coupons"],
                "summary": "Redeem a coupon",
                "parameters": [
                    {"type": "string", "description": "Coupon code", "name": "code", "in": "path", "required": true},
                    {"description": "Subtotal (code is taken from the path)", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/coupon.QuoteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/coupon.QuoteResponse"}},
                    "404": {"description": "Not Found"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/admin/activity": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Dashboard - Activity"],
                "summary": "List admin activity",
                "parameters": [
                    {"type": "integer", "default": 20, "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/catalog/facets": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dashboard - Catalog"],
                "summary": "Drop cached filter metadata",
                "responses": {"204": {"description": "No Content"}}
            }
        }
    },
    "definitions": {
        "admin.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "ops@agrihub.test"},
                "password": {"type": "string", "example": "s3cret-pass"}
            }
        },
        "admin.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_at": {"type": "string", "format": "date-time"},
                "admin": {"type": "object"}
            }
        },
        "coupon.CreateCouponRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "HARVEST10"},
                "kind": {"type": "string", "enum": ["percent", "fixed"], "example": "percent"},
                "value": {"type": "string", "example": "10"},
                "min_subtotal": {"type": "string", "example": "25.00"},
                "max_uses": {"type": "integer", "example": 100},
                "starts_at": {"type": "string", "format": "date-time"},
                "expires_at": {"type": "string", "format": "date-time"}
            }
        },
        "coupon.UpdateCouponRequest": {
            "type": "object",
            "properties": {
                "active": {"type": "boolean"}
            }
        },
        "coupon.Coupon": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "code": {"type": "string"},
                "kind": {"type": "string"},
                "value": {"type": "string"},
                "min_subtotal": {"type": "string"},
                "max_uses": {"type": "integer"},
                "used_count": {"type": "integer"},
                "starts_at": {"type": "string", "format": "date-time"},
                "expires_at": {"type": "string", "format": "date-time"},
                "active": {"type": "boolean"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
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
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "AgriHub Dashboard API",
	Description:      "Admin login, coupon management and the activity log for AgriHub.",
	InfoInstanceName: InstanceName,
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
