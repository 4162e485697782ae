package ledger

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Init(context.Background()))
	return store
}

func seedOpeningCash(t *testing.T, store *Store, amount, date string) {
	t.Helper()

	_, err := store.Append(context.Background(), &Transaction{
		Kind:   KindSale,
		Amount: decimal.RequireFromString(amount),
		Date:   date,
	})
	require.NoError(t, err)
}

func appendItem(t *testing.T, store *Store, kind Kind, item string, units int64, amount, date string) int64 {
	t.Helper()

	id, err := store.Append(context.Background(), &Transaction{
		ItemName: sql.NullString{String: item, Valid: true},
		Kind:     kind,
		Units:    sql.NullInt64{Int64: units, Valid: true},
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
	})
	require.NoError(t, err)
	return id
}

func TestCashAsOfEmptyLedger(t *testing.T) {
	t.Parallel()

	engine := NewEngine(newTestStore(t))
	cash, err := engine.CashAsOf(context.Background(), "2025-06-01")
	require.NoError(t, err)
	assert.True(t, cash.IsZero())
}

func TestCashAsOfOpeningSeed(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedOpeningCash(t, store, "50000", "2025-01-01")

	engine := NewEngine(store)
	for _, date := range []string{"2025-01-01", "2025-03-15", "2026-01-01"} {
		cash, err := engine.CashAsOf(context.Background(), date)
		require.NoError(t, err)
		assert.Equal(t, "50000.00", cash.StringFixed(2), "as of %s", date)
	}

	// Before the seed there is no cash at all.
	cash, err := engine.CashAsOf(context.Background(), "2024-12-31")
	require.NoError(t, err)
	assert.True(t, cash.IsZero())
}

// cashAsOf(d2) - cashAsOf(d1) must equal the signed sum of transactions in
// (d1, d2] for every d1 <= d2.
func TestCashDifferenceMatchesWindowSum(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedOpeningCash(t, store, "50000", "2025-01-01")
	appendItem(t, store, KindStockOrder, "A4 paper", 400, "20.00", "2025-02-01")
	appendItem(t, store, KindSale, "A4 paper", 100, "5.00", "2025-03-01")
	appendItem(t, store, KindStockOrder, "Cardstock", 200, "30.00", "2025-03-01")
	appendItem(t, store, KindSale, "Cardstock", 50, "7.50", "2025-04-01")

	engine := NewEngine(store)
	ctx := context.Background()

	d1Cash, err := engine.CashAsOf(ctx, "2025-02-01")
	require.NoError(t, err)
	d2Cash, err := engine.CashAsOf(ctx, "2025-04-01")
	require.NoError(t, err)

	// Window (2025-02-01, 2025-04-01]: +5.00 - 30.00 + 7.50
	window := decimal.RequireFromString("-17.5")
	assert.True(t, d2Cash.Sub(d1Cash).Equal(window),
		"got %s, want %s", d2Cash.Sub(d1Cash), window)
}

func TestStockAsOfUnknownItemIsZero(t *testing.T) {
	t.Parallel()

	engine := NewEngine(newTestStore(t))
	stock, err := engine.StockAsOf(context.Background(), "Photo paper", "2025-05-01")
	require.NoError(t, err)
	assert.Zero(t, stock)
}

func TestStockAsOfFoldsOrdersAndSales(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	appendItem(t, store, KindStockOrder, "Glossy paper", 300, "60.00", "2025-01-01")
	appendItem(t, store, KindSale, "Glossy paper", 120, "24.00", "2025-02-10")
	appendItem(t, store, KindStockOrder, "Glossy paper", 50, "10.00", "2025-03-01")

	engine := NewEngine(store)
	ctx := context.Background()

	cases := []struct {
		date string
		want int64
	}{
		{"2024-12-31", 0},
		{"2025-01-01", 300},
		{"2025-02-10", 180},
		{"2025-03-01", 230},
	}
	for _, tc := range cases {
		stock, err := engine.StockAsOf(ctx, "Glossy paper", tc.date)
		require.NoError(t, err)
		assert.Equal(t, tc.want, stock, "as of %s", tc.date)
	}
}

func TestAllInventoryOmitsNonPositive(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	appendItem(t, store, KindStockOrder, "Cardstock", 100, "15.00", "2025-01-01")
	appendItem(t, store, KindSale, "Cardstock", 100, "20.00", "2025-01-15")
	appendItem(t, store, KindStockOrder, "Envelopes", 500, "25.00", "2025-01-01")

	engine := NewEngine(store)
	inv, err := engine.AllInventoryAsOf(context.Background(), "2025-02-01")
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"Envelopes": 500}, inv)
}

func TestFinancialReportValuesAndTopSellers(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedOpeningCash(t, store, "50000", "2025-01-01")
	appendItem(t, store, KindStockOrder, "A4 paper", 1000, "50.00", "2025-01-01")
	appendItem(t, store, KindStockOrder, "Notepads", 100, "200.00", "2025-01-01")
	appendItem(t, store, KindSale, "A4 paper", 200, "10.00", "2025-02-01")
	appendItem(t, store, KindSale, "Notepads", 5, "10.00", "2025-02-02")

	engine := NewEngine(store)
	report, err := engine.FinancialReport(context.Background(), "2025-03-01")
	require.NoError(t, err)

	// cash = 50000 + 10 + 10 - 50 - 200
	assert.Equal(t, "49770.00", report.Cash.StringFixed(2))
	// A4 paper: 800 * 0.05 = 40; Notepads: 95 * 2.00 = 190
	assert.Equal(t, "230.00", report.InventoryValue.StringFixed(2))
	assert.Equal(t, "50000.00", report.TotalAssets.StringFixed(2))
	require.Len(t, report.Inventory, 2)

	// Equal revenue (10.00 each): tie breaks by item name ascending.
	require.Len(t, report.TopSellers, 2)
	assert.Equal(t, "A4 paper", report.TopSellers[0].ItemName)
	assert.Equal(t, "Notepads", report.TopSellers[1].ItemName)
	assert.Equal(t, int64(200), report.TopSellers[0].TotalUnits)
}

func TestFinancialReportIdempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedOpeningCash(t, store, "50000", "2025-01-01")
	appendItem(t, store, KindStockOrder, "Flyers", 400, "60.00", "2025-01-02")

	engine := NewEngine(store)
	first, err := engine.FinancialReport(context.Background(), "2025-02-01")
	require.NoError(t, err)
	second, err := engine.FinancialReport(context.Background(), "2025-02-01")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAppendRejectsMalformedRecords(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Append(ctx, &Transaction{Kind: "refund", Amount: decimal.Zero, Date: "2025-01-01"})
	assert.ErrorIs(t, err, ErrBadKind)

	_, err = store.Append(ctx, &Transaction{
		ItemName: sql.NullString{String: "A4 paper", Valid: true},
		Kind:     KindSale,
		Amount:   decimal.Zero,
		Date:     "2025-01-01",
	})
	assert.ErrorIs(t, err, ErrBadQuantity)

	_, err = store.Append(ctx, &Transaction{Kind: KindSale, Amount: decimal.Zero, Date: "January 1st"})
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestNormalizeDateStripsTimeComponent(t *testing.T) {
	t.Parallel()

	got, err := NormalizeDate("2025-01-01T00:00:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", got)
}
