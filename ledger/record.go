package ledger

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Kind discriminates the two transaction directions. The string values are
// the on-disk enum and must not change.
type Kind string

const (
	KindStockOrder Kind = "stock_orders"
	KindSale       Kind = "sales"
)

// Transaction is one append-only ledger row. ItemName is NULL only for the
// opening cash seed; Units is NULL whenever ItemName is. Amount is the signed
// magnitude of the transaction: its direction comes from Kind, never from the
// sign of the stored value.
type Transaction struct {
	bun.BaseModel `bun:"table:transactions"`

	ID       int64           `bun:"id,pk,autoincrement"`
	ItemName sql.NullString  `bun:"item_name"`
	Kind     Kind            `bun:"transaction_type,notnull"`
	Units    sql.NullInt64   `bun:"units"`
	Amount   decimal.Decimal `bun:"price,notnull"`
	Date     string          `bun:"transaction_date,notnull"`
}

const dateLayout = "2006-01-02"

// NormalizeDate validates a calendar date and strips any time component.
// Ledger comparisons are date-only.
func NormalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadDate, raw)
	}
	return t.Format(dateLayout), nil
}

func (k Kind) valid() bool {
	return k == KindStockOrder || k == KindSale
}
