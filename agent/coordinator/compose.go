package coordinator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	contractx "github.com/beaverschoice/paperdesk/agent/contract"
	"github.com/beaverschoice/paperdesk/quote"
	"github.com/beaverschoice/paperdesk/supplier"
)

var hundred = decimal.NewFromInt(100)

// composeResponse writes the customer-facing reply. It reports only what the
// ledger confirms: committed sales, the computed quote, and a delivery
// estimate for the units actually sold.
func composeResponse(date string, report contractx.InventoryReport, q quote.Quote, explanation string, result Result) string {
	var b strings.Builder
	b.WriteString("Thank you for your request.\n\n")

	if len(result.Fulfilled) > 0 {
		b.WriteString("We can confirm the following order:\n")
		var soldUnits int64
		for _, c := range result.Fulfilled {
			fmt.Fprintf(&b, "- %d units of %s for $%s\n", c.Quantity, c.ItemName, c.Amount.StringFixed(2))
			soldUnits += c.Quantity
		}
		fmt.Fprintf(&b, "Total charge: $%s\n", result.TotalCharged.StringFixed(2))

		if q.DiscountRate.IsPositive() {
			fmt.Fprintf(&b, "This includes a %s%% bulk discount for %d total requested units.\n",
				q.DiscountRate.Mul(hundred).String(), q.TotalUnits)
		}

		est := supplier.DeliveryDate(date, soldUnits)
		fmt.Fprintf(&b, "Estimated delivery: %s.\n", est.Date)
	} else {
		b.WriteString("Unfortunately we cannot fulfill your order at this time.\n")
	}

	if len(result.Unfulfilled) > 0 {
		b.WriteString("\nWe were unable to supply:\n")
		for _, line := range result.Unfulfilled {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("We apologize for the inconvenience.\n")
	}

	if notes := strings.TrimSpace(report.Notes); notes != "" {
		fmt.Fprintf(&b, "\n%s\n", notes)
	}
	if explanation != "" && len(result.Fulfilled) > 0 {
		fmt.Fprintf(&b, "\n%s\n", explanation)
	}

	b.WriteString("\nBest regards,\nBeaver's Choice Paper Company")
	return b.String()
}

func apologyResponse(reason string) string {
	return fmt.Sprintf(
		"Thank you for your request. Unfortunately %s, so we cannot provide a quote today. "+
			"Please reach out again and we will be glad to help.\n\nBest regards,\nBeaver's Choice Paper Company",
		reason)
}
