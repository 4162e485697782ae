// Package quote prices customer requests: deterministic quote calculation
// with tiered bulk discounts, and lookups over the read-only historical
// quote corpus.
package quote

import (
	"github.com/shopspring/decimal"

	"github.com/beaverschoice/paperdesk/catalog"
)

// ItemRequest is one requested line before resolution.
type ItemRequest struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// LineItem is one priced (or unpriceable) line of a quote.
type LineItem struct {
	RequestedName string
	MatchedName   string
	Quantity      int64
	UnitPrice     decimal.Decimal
	LineTotal     decimal.Decimal
	Resolved      bool
}

// Quote is a transient pricing result; it is computed fresh per request and
// never persisted.
type Quote struct {
	Lines          []LineItem
	TotalUnits     int64
	Subtotal       decimal.Decimal
	DiscountRate   decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// Engine computes quotes against the catalog.
type Engine struct {
	matcher *catalog.Matcher
}

func NewEngine(matcher *catalog.Matcher) *Engine {
	return &Engine{matcher: matcher}
}

// Calculate resolves each requested name, prices resolved lines, and applies
// the bulk discount tier. Unresolved lines are listed but excluded from the
// subtotal; their quantities still count toward the discount tier, which is
// keyed on requested volume, not fulfillable volume. Only the final total is
// rounded.
func (e *Engine) Calculate(items []ItemRequest) Quote {
	q := Quote{
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		Total:          decimal.Zero,
	}

	for _, req := range items {
		q.TotalUnits += req.Quantity

		line := LineItem{RequestedName: req.Name, Quantity: req.Quantity}
		if matched, ok := e.matcher.Resolve(req.Name); ok {
			if price, found := catalog.UnitPrice(matched); found {
				line.MatchedName = matched
				line.UnitPrice = price
				line.LineTotal = price.Mul(decimal.NewFromInt(req.Quantity))
				line.Resolved = true
				q.Subtotal = q.Subtotal.Add(line.LineTotal)
			}
		}
		q.Lines = append(q.Lines, line)
	}

	q.DiscountRate = discountRate(q.TotalUnits)
	q.DiscountAmount = q.Subtotal.Mul(q.DiscountRate)
	q.Total = q.Subtotal.Sub(q.DiscountAmount).Round(2)
	return q
}

// discountRate maps total requested units to a bulk discount tier.
func discountRate(totalUnits int64) decimal.Decimal {
	switch {
	case totalUnits > 5000:
		return decimal.RequireFromString("0.15")
	case totalUnits > 1000:
		return decimal.RequireFromString("0.10")
	case totalUnits > 500:
		return decimal.RequireFromString("0.05")
	default:
		return decimal.Zero
	}
}
