package coupon

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestValidate(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Hour)
	cases := []struct {
		name string
		c    Coupon
		ok   bool
	}{
		{"percent ok", Coupon{Code: "A", Kind: KindPercent, Value: dec("10")}, true},
		{"fixed ok", Coupon{Code: "B", Kind: KindFixed, Value: dec("5.00")}, true},
		{"missing code", Coupon{Kind: KindFixed, Value: dec("5")}, false},
		{"bad kind", Coupon{Code: "C", Kind: "bogo", Value: dec("5")}, false},
		{"zero value", Coupon{Code: "D", Kind: KindFixed}, false},
		{"percent over 100", Coupon{Code: "E", Kind: KindPercent, Value: dec("101")}, false},
		{"window reversed", Coupon{Code: "F", Kind: KindFixed, Value: dec("1"), StartsAt: &later, ExpiresAt: &now}, false},
	}
	for _, tc := range cases {
		err := tc.c.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", tc.name, err)
		}
	}
}

func TestDiscount(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	pct := Coupon{Code: "P", Kind: KindPercent, Value: dec("15"), Active: true}
	got, err := pct.Discount(dec("19.99"), now)
	if err != nil || !got.Equal(dec("3")) {
		t.Fatalf("percent discount=%s err=%v", got, err)
	}

	fixed := Coupon{Code: "F", Kind: KindFixed, Value: dec("10"), Active: true}
	got, _ = fixed.Discount(dec("7.50"), now)
	if !got.Equal(dec("7.50")) {
		t.Fatalf("fixed discount should cap at subtotal, got %s", got)
	}

	cases := []struct {
		name string
		c    Coupon
		want error
	}{
		{"inactive", Coupon{Kind: KindFixed, Value: dec("1")}, ErrInactive},
		{"not started", Coupon{Kind: KindFixed, Value: dec("1"), Active: true, StartsAt: &future}, ErrNotStarted},
		{"expired", Coupon{Kind: KindFixed, Value: dec("1"), Active: true, ExpiresAt: &past}, ErrExpired},
		{"exhausted", Coupon{Kind: KindFixed, Value: dec("1"), Active: true, MaxUses: 2, UsedCount: 2}, ErrExhausted},
		{"below minimum", Coupon{Kind: KindFixed, Value: dec("1"), Active: true, MinSubtotal: dec("50")}, ErrBelowMinimum},
	}
	for _, tc := range cases {
		if _, err := tc.c.Discount(dec("20"), now); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err=%v want %v", tc.name, err, tc.want)
		}
	}
}

func TestNewQuote(t *testing.T) {
	q := NewQuote("HARVEST10", dec("40"), dec("4"))
	if !q.Total.Equal(dec("36")) {
		t.Fatalf("total=%s", q.Total)
	}
	if NormalizeCode("  harvest10 ") != "HARVEST10" {
		t.Fatal("code not normalized")
	}
}
