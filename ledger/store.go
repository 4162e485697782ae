package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"
)

var (
	ErrBadDate           = errors.New("invalid transaction date")
	ErrBadKind           = errors.New("invalid transaction type")
	ErrBadQuantity       = errors.New("quantity must be positive")
	ErrBadAmount         = errors.New("amount must not be negative")
	ErrNotInCatalog      = errors.New("item not in catalog")
	ErrInsufficientCash  = errors.New("insufficient cash")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Store owns the transactions table. All writes go through Append (or the
// Commands type in this package); nothing ever updates or deletes a row.
//
// A single RWMutex serializes command check-then-append sequences against
// each other and gives accounting reads a tear-free snapshot. SQLite is
// single-writer anyway, so finer-grained locking buys nothing here.
type Store struct {
	db *bun.DB
	mu sync.RWMutex
}

// Open opens (creating if necessary) the SQLite ledger database at path.
// Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	// modernc sqlite misbehaves with concurrent writers on one file; a
	// single pooled connection also keeps :memory: databases coherent.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	return &Store{db: db}, nil
}

// Init creates the ledger schema. The inventory table is reference/seed data
// only; live stock is always derived from transactions.
func (s *Store) Init(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_name TEXT,
			transaction_type TEXT NOT NULL CHECK (transaction_type IN ('stock_orders','sales')),
			units INTEGER,
			price REAL NOT NULL,
			transaction_date TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inventory (
			item_name TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			unit_price REAL NOT NULL,
			current_stock INTEGER NOT NULL,
			min_stock_level INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS quote_requests (
			id INTEGER PRIMARY KEY,
			response TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS quotes (
			request_id INTEGER NOT NULL,
			total_amount REAL NOT NULL,
			quote_explanation TEXT NOT NULL,
			order_date TEXT NOT NULL,
			job_type TEXT,
			order_size TEXT,
			event_type TEXT
		)`,
	}
	for _, stmt := range ddl {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create ledger schema: %w", err)
		}
	}
	return nil
}

// Append validates and inserts one transaction, returning its assigned id.
func (s *Store) Append(ctx context.Context, tx *Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(ctx, tx)
}

func (s *Store) appendLocked(ctx context.Context, tx *Transaction) (int64, error) {
	if tx == nil {
		return 0, errors.New("nil transaction")
	}
	if !tx.Kind.valid() {
		return 0, fmt.Errorf("%w: %q", ErrBadKind, tx.Kind)
	}
	if tx.ItemName.Valid && !tx.Units.Valid {
		return 0, fmt.Errorf("%w: units required when item_name is set", ErrBadQuantity)
	}
	if tx.Amount.IsNegative() {
		return 0, fmt.Errorf("%w: %s", ErrBadAmount, tx.Amount)
	}
	date, err := NormalizeDate(tx.Date)
	if err != nil {
		return 0, err
	}
	tx.Date = date

	res, err := s.db.NewInsert().Model(tx).ExcludeColumn("id").Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("append transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}
	tx.ID = id
	return id, nil
}

// DB exposes the underlying bun handle for read-only collaborators (history
// search, bootstrap seeding). Ledger writes must not bypass the store.
func (s *Store) DB() *bun.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

/* ------------------------ unlocked query helpers ------------------------ */
/* Callers hold s.mu (read or write) as appropriate.                        */

func (s *Store) stockAsOf(ctx context.Context, itemName, date string) (int64, error) {
	var stock sql.NullInt64
	err := s.db.NewRaw(
		`SELECT COALESCE(SUM(CASE
			WHEN transaction_type = 'stock_orders' THEN units
			WHEN transaction_type = 'sales' THEN -units
			ELSE 0
		END), 0)
		FROM transactions
		WHERE item_name = ? AND transaction_date <= ?`,
		itemName, date,
	).Scan(ctx, &stock)
	if err != nil {
		return 0, fmt.Errorf("stock as of %s: %w", date, err)
	}
	return stock.Int64, nil
}

type inventoryRow struct {
	ItemName string `bun:"item_name"`
	Stock    int64  `bun:"stock"`
}

func (s *Store) allInventory(ctx context.Context, date string) (map[string]int64, error) {
	var rows []inventoryRow
	err := s.db.NewRaw(
		`SELECT item_name, SUM(CASE
			WHEN transaction_type = 'stock_orders' THEN units
			WHEN transaction_type = 'sales' THEN -units
			ELSE 0
		END) AS stock
		FROM transactions
		WHERE item_name IS NOT NULL AND transaction_date <= ?
		GROUP BY item_name
		HAVING stock > 0`,
		date,
	).Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("inventory as of %s: %w", date, err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.ItemName] = r.Stock
	}
	return out, nil
}

func (s *Store) transactionsThrough(ctx context.Context, date string) ([]Transaction, error) {
	var rows []Transaction
	err := s.db.NewSelect().
		Model(&rows).
		Where("transaction_date <= ?", date).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("transactions through %s: %w", date, err)
	}
	return rows, nil
}
