package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/beaverschoice/paperdesk/catalog"
)

// Commands holds the only two ledger-mutating operations. Each one resolves
// the item name, re-checks the business constraint, and appends — all under
// the store's write lock, so two concurrent commands can never both pass a
// check against a balance neither has spent yet.
type Commands struct {
	store   *Store
	engine  *Engine
	matcher *catalog.Matcher
}

func NewCommands(store *Store, matcher *catalog.Matcher) *Commands {
	return &Commands{
		store:   store,
		engine:  NewEngine(store),
		matcher: matcher,
	}
}

// ReorderStock records a supplier purchase: stock up, cash down. amount is
// quantity times unitPrice. Fails with ErrNotInCatalog when the name cannot
// be resolved and ErrInsufficientCash when the cost exceeds cash as of date;
// in either case the ledger is untouched.
func (c *Commands) ReorderStock(ctx context.Context, itemName string, quantity int64, unitPrice decimal.Decimal, date string) (int64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadQuantity, quantity)
	}
	if unitPrice.IsNegative() {
		return 0, fmt.Errorf("%w: unit price %s", ErrBadAmount, unitPrice)
	}
	day, err := NormalizeDate(date)
	if err != nil {
		return 0, err
	}
	matched, ok := c.matcher.Resolve(itemName)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotInCatalog, itemName)
	}

	cost := unitPrice.Mul(decimal.NewFromInt(quantity))

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	cash, err := c.engine.cashAsOf(ctx, day)
	if err != nil {
		return 0, err
	}
	if cost.GreaterThan(cash) {
		return 0, fmt.Errorf("%w: need $%s, have $%s",
			ErrInsufficientCash, cost.StringFixed(2), cash.StringFixed(2))
	}

	return c.store.appendLocked(ctx, &Transaction{
		ItemName: sql.NullString{String: matched, Valid: true},
		Kind:     KindStockOrder,
		Units:    sql.NullInt64{Int64: quantity, Valid: true},
		Amount:   cost,
		Date:     day,
	})
}

// FinalizeSale records a customer sale: stock down, cash up. salePrice is the
// total for the whole quantity, not per unit. Fails with ErrNotInCatalog or
// ErrInsufficientStock, leaving the ledger untouched.
func (c *Commands) FinalizeSale(ctx context.Context, itemName string, quantity int64, salePrice decimal.Decimal, date string) (int64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadQuantity, quantity)
	}
	if salePrice.IsNegative() {
		return 0, fmt.Errorf("%w: sale price %s", ErrBadAmount, salePrice)
	}
	day, err := NormalizeDate(date)
	if err != nil {
		return 0, err
	}
	matched, ok := c.matcher.Resolve(itemName)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotInCatalog, itemName)
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	stock, err := c.store.stockAsOf(ctx, matched, day)
	if err != nil {
		return 0, err
	}
	if quantity > stock {
		return 0, fmt.Errorf("%w: %s has %d units, need %d",
			ErrInsufficientStock, matched, stock, quantity)
	}

	return c.store.appendLocked(ctx, &Transaction{
		ItemName: sql.NullString{String: matched, Valid: true},
		Kind:     KindSale,
		Units:    sql.NullInt64{Int64: quantity, Valid: true},
		Amount:   salePrice,
		Date:     day,
	})
}
