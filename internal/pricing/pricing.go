// Package pricing computes item and cart totals and decides whether a coupon
// can be applied. Every function here is pure.
package pricing

import (
	"time"

	"pos_core/internal/pos"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals is the breakdown shown on the cart and stored on a sale.
type Totals struct {
	Subtotal          float64 `json:"subtotal"`
	ItemDiscountTotal float64 `json:"itemDiscountTotal"`
	CouponDiscount    float64 `json:"couponDiscount"`
	Total             float64 `json:"total"`
}

// Discount is the combined item and coupon discount, as stored on a sale.
func (t Totals) Discount() float64 {
	return decimal.NewFromFloat(t.ItemDiscountTotal).Add(decimal.NewFromFloat(t.CouponDiscount)).InexactFloat64()
}

func gross(item pos.CartItem) decimal.Decimal {
	return decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

func itemDiscount(item pos.CartItem) decimal.Decimal {
	if item.Discount <= 0 {
		return decimal.Zero
	}
	discount := decimal.NewFromFloat(item.Discount)
	if item.DiscountType == pos.DiscountAmount {
		return discount
	}
	return gross(item).Mul(discount).Div(hundred)
}

// ItemDiscount is the amount taken off a line: a percentage of price*quantity
// or the flat value. It is not capped at the line value.
func ItemDiscount(item pos.CartItem) float64 {
	return itemDiscount(item).InexactFloat64()
}

// ItemTotal is price*quantity minus the line discount, floored at zero.
func ItemTotal(item pos.CartItem) float64 {
	total := gross(item).Sub(itemDiscount(item))
	if total.IsNegative() {
		return 0
	}
	return total.InexactFloat64()
}

// CartTotals sums the cart and applies the coupon, if any, to the amount left
// after item discounts. A flat coupon is not capped, so Total can be negative.
func CartTotals(cart []pos.CartItem, coupon *pos.Coupon) Totals {
	subtotal := decimal.Zero
	discounts := decimal.Zero
	for _, item := range cart {
		subtotal = subtotal.Add(gross(item))
		discounts = discounts.Add(itemDiscount(item))
	}

	couponDiscount := decimal.Zero
	if coupon != nil {
		couponDiscount = couponAmount(*coupon, subtotal.Sub(discounts))
	}

	return Totals{
		Subtotal:          subtotal.InexactFloat64(),
		ItemDiscountTotal: discounts.InexactFloat64(),
		CouponDiscount:    couponDiscount.InexactFloat64(),
		Total:             subtotal.Sub(discounts).Sub(couponDiscount).InexactFloat64(),
	}
}

func couponAmount(coupon pos.Coupon, base decimal.Decimal) decimal.Decimal {
	value := decimal.NewFromFloat(coupon.Value)
	if coupon.Type == pos.DiscountPercent {
		return base.Mul(value).Div(hundred)
	}
	return value
}

// Change is the amount handed back for a cash payment. Negative means the
// customer still owes money.
func Change(received, total float64) float64 {
	return decimal.NewFromFloat(received).Sub(decimal.NewFromFloat(total)).InexactFloat64()
}

// CouponStatus is the outcome of ValidateCoupon.
type CouponStatus string

const (
	CouponAccepted      CouponStatus = "accepted"
	CouponNotFound      CouponStatus = "not_found"
	CouponInactive      CouponStatus = "inactive"
	CouponNotYetValid   CouponStatus = "not_yet_valid"
	CouponExpired       CouponStatus = "expired"
	CouponUsesExhausted CouponStatus = "uses_exhausted"
	CouponBelowMinimum  CouponStatus = "below_minimum"
)

// Message is the user-facing reason for a status.
func (s CouponStatus) Message() string {
	switch s {
	case CouponAccepted:
		return "coupon applied"
	case CouponNotFound:
		return "coupon not found"
	case CouponInactive:
		return "coupon is inactive"
	case CouponNotYetValid:
		return "coupon is not valid yet"
	case CouponExpired:
		return "coupon expired"
	case CouponUsesExhausted:
		return "coupon usage limit reached"
	case CouponBelowMinimum:
		return "cart is below the coupon minimum purchase"
	}
	return string(s)
}

// ValidateCoupon checks, in order: existence, end date, active flag, start
// date, usage cap and minimum purchase. A coupon past its end date is Expired
// even when disabled. subtotal is the cart amount after item discounts.
func ValidateCoupon(coupon *pos.Coupon, subtotal float64, now time.Time) CouponStatus {
	switch {
	case coupon == nil:
		return CouponNotFound
	case now.After(coupon.EndDate):
		return CouponExpired
	case !coupon.Active:
		return CouponInactive
	case now.Before(coupon.StartDate):
		return CouponNotYetValid
	case coupon.Exhausted():
		return CouponUsesExhausted
	case coupon.MinPurchase > 0 && subtotal < coupon.MinPurchase:
		return CouponBelowMinimum
	}
	return CouponAccepted
}

// SubtotalAfterItemDiscounts is the base used for coupon minimums.
func SubtotalAfterItemDiscounts(cart []pos.CartItem) float64 {
	t := CartTotals(cart, nil)
	return decimal.NewFromFloat(t.Subtotal).Sub(decimal.NewFromFloat(t.ItemDiscountTotal)).InexactFloat64()
}
