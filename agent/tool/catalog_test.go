package tool

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	contractx "github.com/beaverschoice/paperdesk/agent/contract"
	"github.com/beaverschoice/paperdesk/catalog"
	"github.com/beaverschoice/paperdesk/ledger"
	"github.com/beaverschoice/paperdesk/quote"
)

func newTestDeps(t *testing.T) Deps {
	t.Helper()

	store, err := ledger.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init store: %v", err)
	}

	// Opening cash plus some stock of A4 paper.
	if _, err := store.Append(ctx, &ledger.Transaction{
		Kind:   ledger.KindSale,
		Amount: decimal.RequireFromString("1000.00"),
		Date:   "2025-01-01",
	}); err != nil {
		t.Fatalf("seed cash: %v", err)
	}
	tx := &ledger.Transaction{
		Kind:   ledger.KindStockOrder,
		Amount: decimal.RequireFromString("25.00"),
		Date:   "2025-01-02",
	}
	tx.ItemName.String, tx.ItemName.Valid = "A4 paper", true
	tx.Units.Int64, tx.Units.Valid = 500, true
	if _, err := store.Append(ctx, tx); err != nil {
		t.Fatalf("seed stock: %v", err)
	}

	matcher := catalog.NewMatcher()
	return Deps{
		Engine:      ledger.NewEngine(store),
		Commands:    ledger.NewCommands(store, matcher),
		Matcher:     matcher,
		History:     quote.NewHistory(store.DB()),
		Quoter:      quote.NewEngine(matcher),
		Tracker:     NewTracker(),
		RequestDate: "2025-04-01",
	}
}

func TestBuildForRoleToolsets(t *testing.T) {
	deps := newTestDeps(t)

	defs, executor := BuildForRole(contractx.RoleInventory, deps)
	if len(defs) != 5 {
		t.Fatalf("expected 5 inventory tools, got %d", len(defs))
	}
	if defs[0].Name != ToolCheckInventory {
		t.Fatalf("unexpected first tool: %s", defs[0].Name)
	}
	if executor == nil {
		t.Fatal("executor must not be nil")
	}
}

func TestExecutorRejectsForeignTool(t *testing.T) {
	deps := newTestDeps(t)
	exec := NewExecutor(contractx.RoleQuoting, deps)

	res, err := exec(context.Background(), ToolFinalizeSale, map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Error == "" {
		t.Fatal("expected an unavailable-tool error")
	}
}

func TestFinalizeSaleRecordsCommit(t *testing.T) {
	deps := newTestDeps(t)
	exec := NewExecutor(contractx.RoleSales, deps)

	res, err := exec(context.Background(), ToolFinalizeSale, map[string]any{
		"item_name":   "a4 paper",
		"quantity":    float64(100),
		"total_price": 5.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Error != "" {
		t.Fatalf("sale rejected: %s", res.Error)
	}

	commit, ok := deps.Tracker.SaleFor("A4 paper")
	if !ok {
		t.Fatal("sale commit not recorded")
	}
	if commit.Quantity != 100 || commit.TransactionID == 0 {
		t.Fatalf("unexpected commit: %+v", commit)
	}
}

func TestFinalizeSaleInsufficientStockLeavesTrackerEmpty(t *testing.T) {
	deps := newTestDeps(t)
	exec := NewExecutor(contractx.RoleSales, deps)

	res, err := exec(context.Background(), ToolFinalizeSale, map[string]any{
		"item_name":   "A4 paper",
		"quantity":    float64(9999),
		"total_price": 1.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Error, "sale rejected") {
		t.Fatalf("expected rejection, got %+v", res)
	}
	if len(deps.Tracker.Sales()) != 0 {
		t.Fatal("rejected sale must not be tracked")
	}
}

func TestReorderStockInsufficientCash(t *testing.T) {
	deps := newTestDeps(t)
	exec := NewExecutor(contractx.RoleInventory, deps)

	// 10000 notepads at $2.00 is far beyond the $975 on hand.
	res, err := exec(context.Background(), ToolReorderStock, map[string]any{
		"item_name": "Notepads",
		"quantity":  float64(10000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Error, "reorder rejected") {
		t.Fatalf("expected rejection, got %+v", res)
	}
	if len(deps.Tracker.Reorders()) != 0 {
		t.Fatal("rejected reorder must not be tracked")
	}
}

func TestCalculateQuoteRecordsArtifact(t *testing.T) {
	deps := newTestDeps(t)
	exec := NewExecutor(contractx.RoleQuoting, deps)

	res, err := exec(context.Background(), ToolCalculateQuote, map[string]any{
		"items": []any{
			map[string]any{"name": "A4 paper", "quantity": float64(600)},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Error != "" {
		t.Fatalf("quote failed: %s", res.Error)
	}

	q, ok := deps.Tracker.Quote()
	if !ok {
		t.Fatal("quote artifact not recorded")
	}
	if q.TotalUnits != 600 || q.DiscountRate.String() != "0.05" {
		t.Fatalf("unexpected quote: %+v", q)
	}
	if !strings.Contains(res.Output, "Total: $28.50") {
		t.Fatalf("unexpected output: %s", res.Output)
	}
}

func TestCheckItemStockResolvesFuzzyName(t *testing.T) {
	deps := newTestDeps(t)
	exec := NewExecutor(contractx.RoleInventory, deps)

	res, err := exec(context.Background(), ToolCheckItemStock, map[string]any{
		"item_name": "A4 PAPER",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Output, "A4 paper: 500 units") {
		t.Fatalf("unexpected output: %+v", res)
	}
}

func TestMathEvaluate(t *testing.T) {
	deps := newTestDeps(t)
	exec := NewExecutor(contractx.RoleQuoting, deps)

	res, err := exec(context.Background(), ToolMathEvaluate, map[string]any{
		"expression": "500 * 0.05 * (1 - 0.05)",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Output, "= 23.75") {
		t.Fatalf("unexpected output: %+v", res)
	}

	res, err = exec(context.Background(), ToolMathEvaluate, map[string]any{
		"expression": "1/0",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Error == "" {
		t.Fatal("expected division-by-zero error")
	}
}
