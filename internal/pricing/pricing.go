// Package pricing derives cart amounts from line items and an optional coupon.
// Every function is pure and cheap enough to call on each read of the cart.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/rahul4902/blood-sub001/internal/model"
)

// TaxRate is applied to the discounted subtotal.
var TaxRate = decimal.RequireFromString("0.18")

var hundred = decimal.NewFromInt(100)

// Breakdown holds the amounts shown for a cart.
type Breakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Round returns the breakdown with every amount rounded half away from zero.
func (b Breakdown) Round(places int32) Breakdown {
	return Breakdown{
		Subtotal: b.Subtotal.Round(places),
		Discount: b.Discount.Round(places),
		Tax:      b.Tax.Round(places),
		Total:    b.Total.Round(places),
	}
}

// Calculate prices items with the optional coupon applied.
func Calculate(items []model.LineItem, coupon *model.Coupon) Breakdown {
	subtotal := Subtotal(items)
	discount := Discount(subtotal, coupon)
	tax := Tax(subtotal, discount)
	return Breakdown{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    Total(subtotal, discount, tax),
	}
}

// Subtotal sums price times quantity over items.
func Subtotal(items []model.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// Discount returns the coupon discount for subtotal. The result is always
// within [0, subtotal]: percentage coupons are capped by MaxDiscount, fixed
// coupons by the subtotal itself.
func Discount(subtotal decimal.Decimal, coupon *model.Coupon) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}

	value := decimal.NewFromFloat(coupon.Value)
	var discount decimal.Decimal
	switch coupon.Type {
	case model.CouponPercentage:
		discount = subtotal.Mul(value).Div(hundred)
		if coupon.MaxDiscount != nil {
			discount = decimal.Min(discount, decimal.NewFromFloat(*coupon.MaxDiscount))
		}
	case model.CouponFixed:
		discount = value
	default:
		return decimal.Zero
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return discount
}

// Tax applies TaxRate to the discounted subtotal.
func Tax(subtotal, discount decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Mul(TaxRate)
}

// Total is the discounted subtotal plus tax.
func Total(subtotal, discount, tax decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Add(tax)
}
