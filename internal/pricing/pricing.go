// Package pricing turns catalog prices and discounts into order line amounts.
// All arithmetic is decimal; amounts are rounded to the currency minor unit
// when a line is priced.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
)

// MinorUnits is the number of decimal places kept on unit and line totals.
const MinorUnits = 2

var hundred = decimal.NewFromInt(100)

// Discount is the single discount source applied to a line: a quantity tier
// at checkout or an upsell offer after purchase.
type Discount struct {
	Type  enums.DiscountType
	Value decimal.Decimal
}

// Line is a priced order line.
type Line struct {
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	Discounted bool
}

// FromTier returns the discount carried by a quantity offer tier.
func FromTier(tier *models.QuantityOfferTier) *Discount {
	if tier == nil {
		return nil
	}
	return &Discount{Type: tier.DiscountType, Value: tier.DiscountValue}
}

// FromUpsell returns the discount carried by an upsell offer.
func FromUpsell(upsell *models.Upsell) *Discount {
	if upsell == nil {
		return nil
	}
	return &Discount{Type: upsell.DiscountType, Value: upsell.DiscountValue}
}

// BaseUnitPrice is the variant override when the variant has one, else the product price.
func BaseUnitPrice(product *models.Product, variant *models.ProductVariant) decimal.Decimal {
	if variant != nil && variant.PriceOverride.Valid {
		return variant.PriceOverride.Decimal
	}
	if product == nil {
		return decimal.Zero
	}
	return product.Price
}

// ApplyDiscount returns the discounted unit price. A missing discount, type
// none, or a non-positive value leaves the price unchanged. The result never
// drops below zero.
func ApplyDiscount(unit decimal.Decimal, discount *Discount) decimal.Decimal {
	if discount == nil || !discount.Value.IsPositive() {
		return unit
	}

	var out decimal.Decimal
	switch discount.Type {
	case enums.DiscountTypePercentage:
		out = unit.Mul(decimal.NewFromInt(1).Sub(discount.Value.Div(hundred)))
	case enums.DiscountTypeFixed:
		out = unit.Sub(discount.Value)
	default:
		return unit
	}

	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// PriceLine prices quantity units of base with at most one discount.
func PriceLine(base decimal.Decimal, quantity int, discount *Discount) Line {
	unit := ApplyDiscount(base, discount).Round(MinorUnits)
	return Line{
		UnitPrice:  unit,
		TotalPrice: unit.Mul(decimal.NewFromInt(int64(quantity))).Round(MinorUnits),
		Discounted: !unit.Equal(base.Round(MinorUnits)),
	}
}

// Sum adds up the totals of the given lines.
func Sum(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.TotalPrice)
	}
	return total
}
