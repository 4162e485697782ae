package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2/shared"
	"github.com/shopspring/decimal"

	contractx "github.com/beaverschoice/paperdesk/agent/contract"
)

var defFinalizeSale = Definition{
	Name:        ToolFinalizeSale,
	Description: "Commit a sale to the ledger: stock down, cash up. total_price is for the whole quantity. Rejected when stock is insufficient.",
	Parameters: shared.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"item_name": map[string]any{
				"type":        "string",
				"description": "Item being sold",
			},
			"quantity": map[string]any{
				"type":        "integer",
				"description": "Units to sell",
			},
			"total_price": map[string]any{
				"type":        "number",
				"description": "Total charge for this line, after any discount",
			},
			"date": map[string]any{
				"type":        "string",
				"description": "Sale date, ISO YYYY-MM-DD; defaults to the request date",
			},
		},
		"required": []string{"item_name", "quantity", "total_price"},
	},
}

var defFinancialReport = Definition{
	Name:        ToolFinancialReport,
	Description: "Summarize cash, inventory value, total assets, and top sellers as of a date.",
	Parameters: shared.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"as_of_date": map[string]any{
				"type":        "string",
				"description": "ISO date YYYY-MM-DD; defaults to the request date",
			},
		},
	},
}

func (d Deps) finalizeSale(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	name, ok := stringArg(args, "item_name")
	if !ok {
		return errResult(ToolFinalizeSale, "item_name is required")
	}
	quantity, ok := intArg(args, "quantity")
	if !ok || quantity <= 0 {
		return errResult(ToolFinalizeSale, "quantity must be a positive integer")
	}
	price, ok := floatArg(args, "total_price")
	if !ok || price < 0 {
		return errResult(ToolFinalizeSale, "total_price must be a non-negative number")
	}
	date := d.dateArg(args, "date")

	matched, ok := d.Matcher.Resolve(name)
	if !ok {
		return errResult(ToolFinalizeSale, "no catalog match for %q", name)
	}

	amount := decimal.NewFromFloat(price).Round(2)
	id, err := d.Commands.FinalizeSale(ctx, matched, quantity, amount, date)
	if err != nil {
		return errResult(ToolFinalizeSale, "sale rejected: %v", err)
	}

	d.Tracker.RecordSale(SaleCommit{
		TransactionID: id,
		ItemName:      matched,
		Quantity:      quantity,
		Amount:        amount,
		Date:          date,
	})
	return okResult(ToolFinalizeSale,
		"Sold %d units of %s for $%s, transaction #%d.",
		quantity, matched, amount.StringFixed(2), id)
}

func (d Deps) financialReport(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	asOf := d.dateArg(args, "as_of_date")
	report, err := d.Engine.FinancialReport(ctx, asOf)
	if err != nil {
		return errResult(ToolFinancialReport, "report failed: %v", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Financial position as of %s:\n", report.AsOf)
	fmt.Fprintf(&b, "Cash: $%s\n", report.Cash.StringFixed(2))
	fmt.Fprintf(&b, "Inventory value: $%s\n", report.InventoryValue.StringFixed(2))
	fmt.Fprintf(&b, "Total assets: $%s\n", report.TotalAssets.StringFixed(2))
	if len(report.TopSellers) > 0 {
		b.WriteString("Top sellers:\n")
		for i, s := range report.TopSellers {
			fmt.Fprintf(&b, "%d. %s: %d units, $%s revenue\n",
				i+1, s.ItemName, s.TotalUnits, s.TotalRevenue.StringFixed(2))
		}
	}
	return okResult(ToolFinancialReport, "%s", strings.TrimRight(b.String(), "\n"))
}
