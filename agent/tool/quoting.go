package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2/shared"
	"github.com/shopspring/decimal"

	contractx "github.com/beaverschoice/paperdesk/agent/contract"
	"github.com/beaverschoice/paperdesk/quote"
)

var hundred = decimal.NewFromInt(100)

var defSearchQuotes = Definition{
	Name:        ToolSearchQuotes,
	Description: "Search past quotes for similar jobs. Every term must appear in the request text or the quote explanation.",
	Parameters: shared.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"search_terms": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Keywords such as event type or paper kind",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Max records to return, default 5",
			},
		},
		"required": []string{"search_terms"},
	},
}

var defCalculateQuote = Definition{
	Name:        ToolCalculateQuote,
	Description: "Price a set of requested items with catalog prices and the bulk discount tier. Does not sell anything.",
	Parameters: shared.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":     map[string]any{"type": "string"},
						"quantity": map[string]any{"type": "integer"},
					},
					"required": []string{"name", "quantity"},
				},
				"description": "Requested lines as the customer wrote them",
			},
		},
		"required": []string{"items"},
	},
}

func (d Deps) searchQuotes(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	terms, err := stringSliceArg(args, "search_terms")
	if err != nil {
		return errResult(ToolSearchQuotes, "%v", err)
	}
	limit := 0
	if n, ok := intArg(args, "limit"); ok {
		limit = int(n)
	}

	records, err := d.History.Search(ctx, terms, limit)
	if err != nil {
		return errResult(ToolSearchQuotes, "history search failed: %v", err)
	}
	if len(records) == 0 {
		return okResult(ToolSearchQuotes, "No past quotes matched terms %v.", terms)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d past quotes:\n", len(records))
	for i, r := range records {
		fmt.Fprintf(&b, "%d. [%s] $%.2f - %s\n   Request: %s\n",
			i+1, r.OrderDate, r.TotalAmount, r.Explanation, truncate(r.OriginalRequest, 160))
	}
	return okResult(ToolSearchQuotes, "%s", strings.TrimRight(b.String(), "\n"))
}

func (d Deps) calculateQuote(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	items, err := itemsArg(args, "items")
	if err != nil {
		return errResult(ToolCalculateQuote, "%v", err)
	}
	if len(items) == 0 {
		return errResult(ToolCalculateQuote, "items must not be empty")
	}

	q := d.Quoter.Calculate(items)
	d.Tracker.RecordQuote(q)

	var b strings.Builder
	b.WriteString("Quote breakdown:\n")
	for _, line := range q.Lines {
		if line.Resolved {
			fmt.Fprintf(&b, "- %s (as %s): %d x $%s = $%s\n",
				line.RequestedName, line.MatchedName, line.Quantity,
				line.UnitPrice.String(), line.LineTotal.StringFixed(2))
		} else {
			fmt.Fprintf(&b, "- %s: %d units, not in catalog, excluded from pricing\n",
				line.RequestedName, line.Quantity)
		}
	}
	fmt.Fprintf(&b, "Subtotal: $%s\n", q.Subtotal.StringFixed(2))
	if q.DiscountRate.IsPositive() {
		fmt.Fprintf(&b, "Bulk discount (%s%% for %d total units): -$%s\n",
			q.DiscountRate.Mul(hundred).String(), q.TotalUnits, q.DiscountAmount.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: $%s", q.Total.StringFixed(2))
	return okResult(ToolCalculateQuote, "%s", b.String())
}

func stringSliceArg(args map[string]any, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("%s is required", key)
	}
	switch v := raw.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be an array of strings", key)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		// Models sometimes send a comma-joined string instead of an array.
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be an array of strings", key)
	}
}

func itemsArg(args map[string]any, key string) ([]quote.ItemRequest, error) {
	raw, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("%s is required", key)
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%s is not decodable: %w", key, err)
	}
	var items []quote.ItemRequest
	if err := json.Unmarshal(encoded, &items); err != nil {
		return nil, fmt.Errorf("%s must be an array of {name, quantity}: %w", key, err)
	}
	return items, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
