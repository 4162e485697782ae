package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2/shared"
	"github.com/shopspring/decimal"

	contractx "github.com/beaverschoice/paperdesk/agent/contract"
	"github.com/beaverschoice/paperdesk/catalog"
	"github.com/beaverschoice/paperdesk/supplier"
)

var defCheckInventory = Definition{
	Name:        ToolCheckInventory,
	Description: "List every item currently in stock with its unit count, as of a date.",
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

var defCheckItemStock = Definition{
	Name:        ToolCheckItemStock,
	Description: "Look up the stock level of one item by name. Fuzzy names are resolved against the catalog.",
	Parameters: shared.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"item_name": map[string]any{
				"type":        "string",
				"description": "Item name as the customer wrote it",
			},
			"as_of_date": map[string]any{
				"type":        "string",
				"description": "ISO date YYYY-MM-DD; defaults to the request date",
			},
		},
		"required": []string{"item_name"},
	},
}

var defCheckDeliveryDate = Definition{
	Name:        ToolCheckDeliveryDate,
	Description: "Estimate the supplier delivery date for a quantity ordered on a start date.",
	Parameters: shared.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"start_date": map[string]any{
				"type":        "string",
				"description": "Order date, ISO YYYY-MM-DD; defaults to the request date",
			},
			"quantity": map[string]any{
				"type":        "integer",
				"description": "Units being ordered",
			},
		},
		"required": []string{"quantity"},
	},
}

var defReorderStock = Definition{
	Name:        ToolReorderStock,
	Description: "Order units from the supplier: stock goes up, cash goes down. Rejected when cash is insufficient.",
	Parameters: shared.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"item_name": map[string]any{
				"type":        "string",
				"description": "Catalog item to restock",
			},
			"quantity": map[string]any{
				"type":        "integer",
				"description": "Units to order",
			},
			"date": map[string]any{
				"type":        "string",
				"description": "Order date, ISO YYYY-MM-DD; defaults to the request date",
			},
		},
		"required": []string{"item_name", "quantity"},
	},
}

var defCheckCashBalance = Definition{
	Name:        ToolCheckCashBalance,
	Description: "Report the company cash balance as of a date.",
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

func (d Deps) checkInventory(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	asOf := d.dateArg(args, "as_of_date")
	stocks, err := d.Engine.AllInventoryAsOf(ctx, asOf)
	if err != nil {
		return errResult(ToolCheckInventory, "inventory lookup failed: %v", err)
	}
	if len(stocks) == 0 {
		return okResult(ToolCheckInventory, "No items in stock as of %s.", asOf)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Inventory as of %s:\n", asOf)
	for _, it := range catalog.Items() {
		if units, ok := stocks[it.Name]; ok {
			fmt.Fprintf(&b, "- %s: %d units\n", it.Name, units)
		}
	}
	return okResult(ToolCheckInventory, "%s", strings.TrimRight(b.String(), "\n"))
}

func (d Deps) checkItemStock(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	name, ok := stringArg(args, "item_name")
	if !ok {
		return errResult(ToolCheckItemStock, "item_name is required")
	}
	matched, ok := d.Matcher.Resolve(name)
	if !ok {
		return errResult(ToolCheckItemStock, "no catalog match for %q", name)
	}
	asOf := d.dateArg(args, "as_of_date")
	units, err := d.Engine.StockAsOf(ctx, matched, asOf)
	if err != nil {
		return errResult(ToolCheckItemStock, "stock lookup failed: %v", err)
	}
	return okResult(ToolCheckItemStock, "%s: %d units in stock as of %s", matched, units, asOf)
}

func (d Deps) checkDeliveryDate(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	quantity, ok := intArg(args, "quantity")
	if !ok || quantity <= 0 {
		return errResult(ToolCheckDeliveryDate, "quantity must be a positive integer")
	}
	start := d.dateArg(args, "start_date")
	est := supplier.DeliveryDate(start, quantity)
	out := fmt.Sprintf("Estimated delivery for %d units ordered %s: %s (%d day lead)",
		quantity, start, est.Date, est.LeadDays)
	if est.UsedFallback {
		out += " [start date unparsable, estimated from today]"
	}
	return okResult(ToolCheckDeliveryDate, "%s", out)
}

func (d Deps) reorderStock(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	name, ok := stringArg(args, "item_name")
	if !ok {
		return errResult(ToolReorderStock, "item_name is required")
	}
	quantity, ok := intArg(args, "quantity")
	if !ok || quantity <= 0 {
		return errResult(ToolReorderStock, "quantity must be a positive integer")
	}
	date := d.dateArg(args, "date")

	matched, ok := d.Matcher.Resolve(name)
	if !ok {
		return errResult(ToolReorderStock, "no catalog match for %q", name)
	}
	unitPrice, _ := catalog.UnitPrice(matched)

	id, err := d.Commands.ReorderStock(ctx, matched, quantity, unitPrice, date)
	if err != nil {
		return errResult(ToolReorderStock, "reorder rejected: %v", err)
	}

	cost := unitPrice.Mul(decimal.NewFromInt(quantity))
	d.Tracker.RecordReorder(ReorderCommit{
		TransactionID: id,
		ItemName:      matched,
		Quantity:      quantity,
		Cost:          cost,
		Date:          date,
	})
	return okResult(ToolReorderStock,
		"Ordered %d units of %s for $%s, transaction #%d. Stock arrives per supplier lead time.",
		quantity, matched, cost.StringFixed(2), id)
}

func (d Deps) checkCashBalance(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	asOf := d.dateArg(args, "as_of_date")
	cash, err := d.Engine.CashAsOf(ctx, asOf)
	if err != nil {
		return errResult(ToolCheckCashBalance, "cash lookup failed: %v", err)
	}
	return okResult(ToolCheckCashBalance, "Cash balance as of %s: $%s", asOf, cash.StringFixed(2))
}
