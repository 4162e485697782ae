package ledger

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/beaverschoice/paperdesk/catalog"
)

// Engine derives stock, cash, and reports from the ledger. Every method is a
// pure fold over transactions with occurred_at <= asOf; none of them mutate.
// Monetary folds use decimals in insertion order; rounding happens only when
// a result is formatted, never mid-fold.
type Engine struct {
	store *Store
}

func NewEngine(store *Store) *Engine {
	return &Engine{store: store}
}

// StockAsOf returns the net units of one item. Unknown-but-valid names fold
// to 0, they do not fail.
func (e *Engine) StockAsOf(ctx context.Context, itemName, asOf string) (int64, error) {
	date, err := NormalizeDate(asOf)
	if err != nil {
		return 0, err
	}
	e.store.mu.RLock()
	defer e.store.mu.RUnlock()
	return e.store.stockAsOf(ctx, itemName, date)
}

// AllInventoryAsOf returns net units per item, restricted to strictly
// positive balances. Items with no records are omitted, not zeroed.
func (e *Engine) AllInventoryAsOf(ctx context.Context, asOf string) (map[string]int64, error) {
	date, err := NormalizeDate(asOf)
	if err != nil {
		return nil, err
	}
	e.store.mu.RLock()
	defer e.store.mu.RUnlock()
	return e.store.allInventory(ctx, date)
}

// CashAsOf returns sales minus stock-order spend through asOf. An empty
// ledger yields zero.
func (e *Engine) CashAsOf(ctx context.Context, asOf string) (decimal.Decimal, error) {
	date, err := NormalizeDate(asOf)
	if err != nil {
		return decimal.Decimal{}, err
	}
	e.store.mu.RLock()
	defer e.store.mu.RUnlock()
	return e.cashAsOf(ctx, date)
}

func (e *Engine) cashAsOf(ctx context.Context, date string) (decimal.Decimal, error) {
	rows, err := e.store.transactionsThrough(ctx, date)
	if err != nil {
		return decimal.Decimal{}, err
	}
	cash := decimal.Zero
	for _, tx := range rows {
		switch tx.Kind {
		case KindSale:
			cash = cash.Add(tx.Amount)
		case KindStockOrder:
			cash = cash.Sub(tx.Amount)
		}
	}
	return cash, nil
}

// ReportLine is one catalog item's position in a financial report.
type ReportLine struct {
	ItemName  string
	Units     int64
	UnitPrice decimal.Decimal
	Value     decimal.Decimal
}

// TopSeller is a sales-revenue aggregate for one item.
type TopSeller struct {
	ItemName     string
	TotalUnits   int64
	TotalRevenue decimal.Decimal
}

// Report is the company position as of one date.
type Report struct {
	AsOf           string
	Cash           decimal.Decimal
	InventoryValue decimal.Decimal
	TotalAssets    decimal.Decimal
	Inventory      []ReportLine
	TopSellers     []TopSeller
}

// FinancialReport values stock at catalog unit prices across the whole
// catalog and ranks the top five products by sales revenue, ties broken by
// item name ascending.
func (e *Engine) FinancialReport(ctx context.Context, asOf string) (*Report, error) {
	date, err := NormalizeDate(asOf)
	if err != nil {
		return nil, err
	}

	e.store.mu.RLock()
	defer e.store.mu.RUnlock()

	cash, err := e.cashAsOf(ctx, date)
	if err != nil {
		return nil, err
	}

	stocks, err := e.store.allInventory(ctx, date)
	if err != nil {
		return nil, err
	}

	report := &Report{AsOf: date, Cash: cash, InventoryValue: decimal.Zero}
	for _, it := range catalog.Items() {
		units := stocks[it.Name]
		if units <= 0 {
			continue
		}
		value := it.UnitPrice.Mul(decimal.NewFromInt(units))
		report.InventoryValue = report.InventoryValue.Add(value)
		report.Inventory = append(report.Inventory, ReportLine{
			ItemName:  it.Name,
			Units:     units,
			UnitPrice: it.UnitPrice,
			Value:     value,
		})
	}
	report.TotalAssets = report.Cash.Add(report.InventoryValue)

	top, err := e.topSellers(ctx, date, 5)
	if err != nil {
		return nil, err
	}
	report.TopSellers = top
	return report, nil
}

func (e *Engine) topSellers(ctx context.Context, date string, limit int) ([]TopSeller, error) {
	rows, err := e.store.transactionsThrough(ctx, date)
	if err != nil {
		return nil, err
	}

	byItem := make(map[string]*TopSeller)
	order := make([]string, 0)
	for _, tx := range rows {
		if tx.Kind != KindSale || !tx.ItemName.Valid {
			continue
		}
		name := tx.ItemName.String
		agg, ok := byItem[name]
		if !ok {
			agg = &TopSeller{ItemName: name, TotalRevenue: decimal.Zero}
			byItem[name] = agg
			order = append(order, name)
		}
		agg.TotalUnits += tx.Units.Int64
		agg.TotalRevenue = agg.TotalRevenue.Add(tx.Amount)
	}

	out := make([]TopSeller, 0, len(order))
	for _, name := range order {
		out = append(out, *byItem[name])
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalRevenue.Equal(out[j].TotalRevenue) {
			return out[i].TotalRevenue.GreaterThan(out[j].TotalRevenue)
		}
		return out[i].ItemName < out[j].ItemName
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
