package coupon

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCouponRequest payload of creation.
// swagger:model CreateCouponRequest
type CreateCouponRequest struct {
	Code        string          `json:"code"         example:"HARVEST10"`
	Kind        Kind            `json:"kind"         example:"percent"`
	Value       decimal.Decimal `json:"value"        swaggertype:"string" example:"10"`
	MinSubtotal decimal.Decimal `json:"min_subtotal" swaggertype:"string" example:"25.00"`
	MaxUses     int             `json:"max_uses"     example:"100"`
	StartsAt    *time.Time      `json:"starts_at"`
	ExpiresAt   *time.Time      `json:"expires_at"`
}

// UpdateCouponRequest toggles a coupon on or off.
// swagger:model UpdateCouponRequest
type UpdateCouponRequest struct {
	Active *bool `json:"active"`
}

// QuoteRequest asks what a coupon takes off a subtotal.
// swagger:model QuoteRequest
type QuoteRequest struct {
	Code     string          `json:"code"     example:"HARVEST10"`
	Subtotal decimal.Decimal `json:"subtotal" swaggertype:"string" example:"42.50"`
}

// QuoteResponse is the priced result of a QuoteRequest.
// swagger:model QuoteResponse
type QuoteResponse struct {
	Code     string          `json:"code"`
	Subtotal decimal.Decimal `json:"subtotal" swaggertype:"string"`
	Discount decimal.Decimal `json:"discount" swaggertype:"string"`
	Total    decimal.Decimal `json:"total"    swaggertype:"string"`
}

// NewQuote builds the response for a computed discount.
func NewQuote(code string, subtotal, discount decimal.Decimal) QuoteResponse {
	return QuoteResponse{
		Code:     code,
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount),
	}
}
