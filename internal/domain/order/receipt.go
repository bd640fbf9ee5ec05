package order

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const receiptDivider = "-------------------------"

// ReceiptFormat controls how monetary values are rendered on a receipt.
type ReceiptFormat struct {
	// DecimalComma renders money with a comma as the decimal separator,
	// matching the German-style tickets the bistro prints on site.
	DecimalComma bool
}

// FormatReceipt renders a stored order as a fixed-layout plain-text receipt.
// It is deterministic: the same order always yields the same text. Line items
// appear in the order's stored item order; the discount line is emitted only
// for happy-hour orders.
func FormatReceipt(o *Order, format ReceiptFormat) string {
	var sb strings.Builder

	sb.WriteString(receiptDivider + "\n")
	fmt.Fprintf(&sb, "Table Nr. %d\n", o.TableNumber)
	sb.WriteString(receiptDivider + "\n")

	for _, item := range o.Items {
		fmt.Fprintf(&sb, "%d x %s @ %s = %s\n",
			item.Quantity,
			item.ProductName,
			formatMoney(item.UnitPrice, format),
			formatMoney(item.TotalPrice, format),
		)
	}

	sb.WriteString(receiptDivider + "\n")
	fmt.Fprintf(&sb, "Subtotal: %s\n", formatMoney(o.Subtotal, format))
	if o.HappyHour {
		// The printed percentage is fixed display text, kept verbatim from the
		// tickets in production even though the policy rate is configurable.
		sb.WriteString("Discount: 10%\n")
	}
	fmt.Fprintf(&sb, "Total: %s\n", formatMoney(o.Total, format))

	return sb.String()
}

func formatMoney(d decimal.Decimal, format ReceiptFormat) string {
	s := d.StringFixed(2)
	if format.DecimalComma {
		s = strings.Replace(s, ".", ",", 1)
	}
	return s
}
