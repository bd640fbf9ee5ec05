package order

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Window is a half-open [start, end) time-of-day interval. Both bounds are
// minutes since midnight; a window never spans midnight.
type Window struct {
	start int
	end   int
}

// NewWindow parses start and end times in "15:04" format.
func NewWindow(start, end string) (Window, error) {
	s, err := parseMinutes(start)
	if err != nil {
		return Window{}, errors.Wrap(err, "parse window start")
	}
	e, err := parseMinutes(end)
	if err != nil {
		return Window{}, errors.Wrap(err, "parse window end")
	}
	if e <= s {
		return Window{}, errors.Errorf("window end %s must be after start %s", end, start)
	}
	return Window{start: s, end: e}, nil
}

func parseMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Contains reports whether the time of day of t falls inside the window.
// The start is inclusive, the end exclusive.
func (w Window) Contains(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= w.start && m < w.end
}

// HappyHour applies a fixed percentage discount to orders placed inside a
// configured time-of-day window.
type HappyHour struct {
	window Window
	rate   decimal.Decimal
}

// NewHappyHour creates a policy with the given window and discount rate.
// The rate is a fraction, e.g. 0.10 for a 10% discount.
func NewHappyHour(window Window, rate decimal.Decimal) HappyHour {
	return HappyHour{window: window, rate: rate}
}

// IsActive reports whether now falls inside the happy-hour window.
func (h HappyHour) IsActive(now time.Time) bool {
	return h.window.Contains(now)
}

// Discount returns subtotal * rate rounded to two fraction digits when active,
// and exact zero otherwise.
func (h HappyHour) Discount(subtotal decimal.Decimal, active bool) decimal.Decimal {
	if !active {
		return decimal.Zero
	}
	return subtotal.Mul(h.rate).Round(2)
}

// Rate returns the configured discount rate.
func (h HappyHour) Rate() decimal.Decimal {
	return h.rate
}
