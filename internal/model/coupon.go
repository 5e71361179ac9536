package model

import "time"

// Coupon models a row in the `coupons` table. A coupon carries either
// a percentage discount or a fixed amount off in cents, never both.
// Validity is bounded by IsActive and ExpiresAt; MinSubtotalCents sets
// the smallest cart the code applies to.
type Coupon struct {
	ID               uint64     // coupons.id
	Code             string     // coupons.code (unique, upper-case)
	PercentOff       uint8      // coupons.percent_off (0 when amount-based)
	AmountOffCents   uint32     // coupons.amount_off_cents (0 when percent-based)
	MinSubtotalCents uint32     // coupons.min_subtotal_cents
	ExpiresAt        *time.Time // coupons.expires_at (nullable, never expires)
	IsActive         bool       // coupons.is_active
	CreatedAt        time.Time  // coupons.created_at
}

// Usable reports whether the coupon may be applied to a cart with the
// given subtotal at the given time.
func (c *Coupon) Usable(subtotalCents uint32, now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return false
	}
	return subtotalCents >= c.MinSubtotalCents
}

// Discount returns the discount in cents for the given subtotal. The
// result never exceeds the subtotal.
func (c *Coupon) Discount(subtotalCents uint32) uint32 {
	var d uint32
	if c.PercentOff > 0 {
		d = subtotalCents * uint32(c.PercentOff) / 100
	} else {
		d = c.AmountOffCents
	}
	if d > subtotalCents {
		d = subtotalCents
	}
	return d
}
