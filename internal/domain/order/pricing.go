package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pricing holds the totals computed for one order.
type Pricing struct {
	Subtotal  decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
	HappyHour bool
}

// Pricer computes order totals using the happy-hour policy and an injected
// clock. The clock is read exactly once per Price call so the stored
// happy-hour flag and the discount amount can never disagree across a window
// boundary.
type Pricer struct {
	policy HappyHour
	now    func() time.Time
}

// NewPricer creates a Pricer. A nil clock defaults to time.Now.
func NewPricer(policy HappyHour, now func() time.Time) *Pricer {
	if now == nil {
		now = time.Now
	}
	return &Pricer{policy: policy, now: now}
}

// Price sums the line totals in input order with exact decimal addition,
// evaluates the happy-hour policy against a single clock reading, and returns
// subtotal, discount and total.
func (p *Pricer) Price(items []LineItem) Pricing {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.TotalPrice)
	}

	now := p.now()
	active := p.policy.IsActive(now)
	discount := p.policy.Discount(subtotal, active)

	return Pricing{
		Subtotal:  subtotal,
		Discount:  discount,
		Total:     subtotal.Sub(discount),
		HappyHour: active,
	}
}
