// Package tool defines the typed tool surface each role can call, and the
// executors that carry the calls into the ledger, quoting, and supplier
// packages.
package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v2/shared"

	contractx "github.com/beaverschoice/paperdesk/agent/contract"
	"github.com/beaverschoice/paperdesk/catalog"
	"github.com/beaverschoice/paperdesk/ledger"
	"github.com/beaverschoice/paperdesk/quote"
)

const (
	ToolCheckInventory    = "check_inventory"
	ToolCheckItemStock    = "check_item_stock"
	ToolCheckDeliveryDate = "check_delivery_date"
	ToolReorderStock      = "reorder_stock"
	ToolSearchQuotes      = "search_quotes"
	ToolCalculateQuote    = "calculate_quote"
	ToolFinalizeSale      = "finalize_sale"
	ToolCheckCashBalance  = "check_cash_balance"
	ToolFinancialReport   = "get_financial_report"
)

// Definition describes one callable tool in the shape the chat API expects.
type Definition struct {
	Name        string
	Description string
	Parameters  shared.FunctionParameters
}

// Deps wires tool handlers to the domain. Tracker and RequestDate are
// request-scoped; everything else is shared process state.
type Deps struct {
	Engine      *ledger.Engine
	Commands    *ledger.Commands
	Matcher     *catalog.Matcher
	History     *quote.History
	Quoter      *quote.Engine
	Tracker     *Tracker
	RequestDate string
}

type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

type handler func(ctx context.Context, args map[string]any) (contractx.ToolResult, error)

// BuildForRole returns the tool definitions a role may see and the executor
// that serves them. Roles never share executors; each gets its own closure
// over deps.
func BuildForRole(role contractx.Role, deps Deps) ([]Definition, Executor) {
	return definitionsForRole(role), NewExecutor(role, deps)
}

func NewExecutor(role contractx.Role, deps Deps) Executor {
	handlers := handlersForRole(role, deps)
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		h, ok := handlers[tool]
		if !ok {
			return contractx.ToolResult{
				Tool:  tool,
				Error: fmt.Sprintf("tool=%s is unavailable for role=%s", tool, role),
			}, nil
		}
		return h(ctx, args)
	}
}

func handlersForRole(role contractx.Role, deps Deps) map[string]handler {
	switch role {
	case contractx.RoleInventory:
		return map[string]handler{
			ToolCheckInventory:    deps.checkInventory,
			ToolCheckItemStock:    deps.checkItemStock,
			ToolCheckDeliveryDate: deps.checkDeliveryDate,
			ToolReorderStock:      deps.reorderStock,
			ToolCheckCashBalance:  deps.checkCashBalance,
		}
	case contractx.RoleQuoting:
		return map[string]handler{
			ToolSearchQuotes:   deps.searchQuotes,
			ToolCalculateQuote: deps.calculateQuote,
			ToolMathEvaluate:   deps.mathEvaluate,
		}
	case contractx.RoleSales:
		return map[string]handler{
			ToolCheckItemStock:    deps.checkItemStock,
			ToolCheckDeliveryDate: deps.checkDeliveryDate,
			ToolFinalizeSale:      deps.finalizeSale,
			ToolCheckCashBalance:  deps.checkCashBalance,
			ToolFinancialReport:   deps.financialReport,
			ToolMathEvaluate:      deps.mathEvaluate,
		}
	default:
		return nil
	}
}

func definitionsForRole(role contractx.Role) []Definition {
	switch role {
	case contractx.RoleInventory:
		return []Definition{
			defCheckInventory, defCheckItemStock, defCheckDeliveryDate,
			defReorderStock, defCheckCashBalance,
		}
	case contractx.RoleQuoting:
		return []Definition{defSearchQuotes, defCalculateQuote, defMathEvaluate}
	case contractx.RoleSales:
		return []Definition{
			defCheckItemStock, defCheckDeliveryDate, defFinalizeSale,
			defCheckCashBalance, defFinancialReport, defMathEvaluate,
		}
	default:
		return nil
	}
}

/* ----------------------------- arg decoding ----------------------------- */

func errResult(tool, format string, a ...any) (contractx.ToolResult, error) {
	return contractx.ToolResult{Tool: tool, Error: fmt.Sprintf(format, a...)}, nil
}

func okResult(tool, format string, a ...any) (contractx.ToolResult, error) {
	return contractx.ToolResult{Tool: tool, Output: fmt.Sprintf(format, a...)}, nil
}

func stringArg(args map[string]any, key string) (string, bool) {
	raw, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok && s != ""
}

// intArg accepts JSON numbers (float64 after unmarshal) and strings, since
// models are sloppy about numeric types.
func intArg(args map[string]any, key string) (int64, bool) {
	switch v := args[key].(type) {
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		var n int64
		_, err := fmt.Sscan(v, &n)
		return n, err == nil
	default:
		return 0, false
	}
}

func floatArg(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		var f float64
		_, err := fmt.Sscan(v, &f)
		return f, err == nil
	default:
		return 0, false
	}
}

// dateArg returns the named date argument, or the request date when absent.
func (d Deps) dateArg(args map[string]any, key string) string {
	if s, ok := stringArg(args, key); ok {
		return s
	}
	return d.RequestDate
}
