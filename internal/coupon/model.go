package coupon

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindPercent Kind = "percent"
	KindFixed   Kind = "fixed"
)

var (
	ErrInvalid      = errors.New("invalid coupon")
	ErrInactive     = errors.New("coupon is not active")
	ErrNotStarted   = errors.New("coupon is not yet valid")
	ErrExpired      = errors.New("coupon has expired")
	ErrExhausted    = errors.New("coupon usage limit reached")
	ErrBelowMinimum = errors.New("subtotal below coupon minimum")
)

var hundred = decimal.NewFromInt(100)

type Coupon struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Kind        Kind            `json:"kind"`
	Value       decimal.Decimal `json:"value"`
	MinSubtotal decimal.Decimal `json:"min_subtotal"`
	// MaxUses of 0 means unlimited.
	MaxUses   int        `json:"max_uses"`
	UsedCount int        `json:"used_count"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NormalizeCode upper-cases and trims a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks the coupon definition itself, not its usability.
func (c *Coupon) Validate() error {
	switch {
	case c.Code == "":
		return errors.Join(ErrInvalid, errors.New("code is required"))
	case c.Kind != KindPercent && c.Kind != KindFixed:
		return errors.Join(ErrInvalid, errors.New("kind must be percent or fixed"))
	case !c.Value.IsPositive():
		return errors.Join(ErrInvalid, errors.New("value must be positive"))
	case c.Kind == KindPercent && c.Value.GreaterThan(hundred):
		return errors.Join(ErrInvalid, errors.New("percent value must be at most 100"))
	case c.MinSubtotal.IsNegative():
		return errors.Join(ErrInvalid, errors.New("min_subtotal must not be negative"))
	case c.MaxUses < 0:
		return errors.Join(ErrInvalid, errors.New("max_uses must not be negative"))
	case c.StartsAt != nil && c.ExpiresAt != nil && !c.ExpiresAt.After(*c.StartsAt):
		return errors.Join(ErrInvalid, errors.New("expires_at must be after starts_at"))
	}
	return nil
}

// Discount returns the amount taken off subtotal at time now.
func (c *Coupon) Discount(subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	switch {
	case !c.Active:
		return decimal.Zero, ErrInactive
	case c.StartsAt != nil && now.Before(*c.StartsAt):
		return decimal.Zero, ErrNotStarted
	case c.ExpiresAt != nil && !now.Before(*c.ExpiresAt):
		return decimal.Zero, ErrExpired
	case c.MaxUses > 0 && c.UsedCount >= c.MaxUses:
		return decimal.Zero, ErrExhausted
	case subtotal.LessThan(c.MinSubtotal):
		return decimal.Zero, ErrBelowMinimum
	}

	if c.Kind == KindPercent {
		return subtotal.Mul(c.Value).Div(hundred).Round(2), nil
	}
	return decimal.Min(c.Value, subtotal), nil
}
