// Package bootstrap prepares a fresh ledger database: schema, opening cash,
// a deterministic starting inventory, and the historical quote corpus used
// for search.
package bootstrap

import (
	"context"
	_ "embed"
	"encoding/csv"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/beaverschoice/paperdesk/catalog"
	"github.com/beaverschoice/paperdesk/ledger"
)

const (
	// OpeningDate is the ledger's first business day.
	OpeningDate = "2025-01-01"

	// openingCash is booked as a sale with no item, the one row allowed to
	// carry a NULL item_name.
	openingCash = "50000.00"

	// inventorySeed fixes the starting inventory so every fresh database
	// begins from the same stock position.
	inventorySeed     = 137
	inventoryCoverage = 0.4
)

//go:embed data/quote_requests.csv
var quoteRequestsCSV string

//go:embed data/quotes.csv
var quotesCSV string

type inventoryRecord struct {
	bun.BaseModel `bun:"table:inventory"`

	ItemName      string          `bun:"item_name,pk"`
	Category      string          `bun:"category,notnull"`
	UnitPrice     decimal.Decimal `bun:"unit_price,notnull"`
	CurrentStock  int64           `bun:"current_stock,notnull"`
	MinStockLevel int64           `bun:"min_stock_level,notnull"`
}

// Seed initializes the database behind store. It is idempotent: a ledger
// that already has transactions is left untouched.
func Seed(ctx context.Context, store *ledger.Store) error {
	if err := store.Init(ctx); err != nil {
		return err
	}

	db := store.DB()
	var existing int64
	if err := db.NewRaw(`SELECT COUNT(*) FROM transactions`).Scan(ctx, &existing); err != nil {
		return fmt.Errorf("check existing ledger: %w", err)
	}
	if existing > 0 {
		log.Debug().Int64("transactions", existing).Msg("ledger already seeded, skipping")
		return nil
	}

	if _, err := store.Append(ctx, &ledger.Transaction{
		Kind:   ledger.KindSale,
		Amount: decimal.RequireFromString(openingCash),
		Date:   OpeningDate,
	}); err != nil {
		return fmt.Errorf("seed opening cash: %w", err)
	}

	seeded, err := seedInventory(ctx, store)
	if err != nil {
		return err
	}

	requests, quotes, err := seedQuoteCorpus(ctx, db)
	if err != nil {
		return err
	}

	log.Info().
		Int("inventory_items", seeded).
		Int("quote_requests", requests).
		Int("quotes", quotes).
		Str("opening_date", OpeningDate).
		Msg("database seeded")
	return nil
}

// seedInventory picks a fixed-seed subset of the catalog, records its target
// levels in the inventory table, and books the purchase of each starting
// stock as an opening stock order.
func seedInventory(ctx context.Context, store *ledger.Store) (int, error) {
	rng := rand.New(rand.NewSource(inventorySeed))
	db := store.DB()

	seeded := 0
	for _, it := range catalog.Items() {
		if rng.Float64() >= inventoryCoverage {
			continue
		}
		stock := 200 + rng.Int63n(601)
		minLevel := 50 + rng.Int63n(101)

		rec := &inventoryRecord{
			ItemName:      it.Name,
			Category:      it.Category,
			UnitPrice:     it.UnitPrice,
			CurrentStock:  stock,
			MinStockLevel: minLevel,
		}
		if _, err := db.NewInsert().Model(rec).Exec(ctx); err != nil {
			return 0, fmt.Errorf("seed inventory %q: %w", it.Name, err)
		}

		tx := &ledger.Transaction{
			Kind:   ledger.KindStockOrder,
			Amount: it.UnitPrice.Mul(decimal.NewFromInt(stock)),
			Date:   OpeningDate,
		}
		tx.ItemName.String, tx.ItemName.Valid = it.Name, true
		tx.Units.Int64, tx.Units.Valid = stock, true
		if _, err := store.Append(ctx, tx); err != nil {
			return 0, fmt.Errorf("seed opening stock %q: %w", it.Name, err)
		}
		seeded++
	}
	return seeded, nil
}

// seedQuoteCorpus loads the embedded historical request/quote pairs. The
// corpus is read-only after seeding; nothing in the system ever adds to it.
func seedQuoteCorpus(ctx context.Context, db *bun.DB) (int, int, error) {
	requests, err := parseCSV(quoteRequestsCSV)
	if err != nil {
		return 0, 0, fmt.Errorf("parse quote requests corpus: %w", err)
	}
	for _, row := range requests {
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return 0, 0, fmt.Errorf("quote request id %q: %w", row[0], err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO quote_requests (id, response) VALUES (?, ?)`,
			id, row[1]); err != nil {
			return 0, 0, fmt.Errorf("seed quote request %d: %w", id, err)
		}
	}

	quotes, err := parseCSV(quotesCSV)
	if err != nil {
		return 0, 0, fmt.Errorf("parse quotes corpus: %w", err)
	}
	for i, row := range quotes {
		requestID, err := strconv.Atoi(row[0])
		if err != nil {
			return 0, 0, fmt.Errorf("quote request_id %q: %w", row[0], err)
		}
		amount, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return 0, 0, fmt.Errorf("quote amount %q: %w", row[1], err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO quotes
				(request_id, total_amount, quote_explanation, order_date, job_type, order_size, event_type)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			requestID, amount, row[2], row[3], row[4], row[5], row[6]); err != nil {
			return 0, 0, fmt.Errorf("seed quote row %d: %w", i, err)
		}
	}
	return len(requests), len(quotes), nil
}

// parseCSV reads an embedded corpus file, dropping the header row.
func parseCSV(raw string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(raw))
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}
