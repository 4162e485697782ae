package tool

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/beaverschoice/paperdesk/quote"
)

// SaleCommit is proof that finalize_sale appended a ledger row. The
// coordinator confirms fulfillment only against these records, never against
// what a model says it did.
type SaleCommit struct {
	TransactionID int64
	ItemName      string
	Quantity      int64
	Amount        decimal.Decimal
	Date          string
}

// ReorderCommit is the recorded side effect of a reorder_stock call.
type ReorderCommit struct {
	TransactionID int64
	ItemName      string
	Quantity      int64
	Cost          decimal.Decimal
	Date          string
}

// Tracker collects the side effects of one customer request. Tool executors
// write to it; the coordinator reads it. A fresh Tracker is created per
// request and discarded afterwards.
type Tracker struct {
	mu       sync.Mutex
	sales    []SaleCommit
	reorders []ReorderCommit
	quote    *quote.Quote
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) RecordSale(c SaleCommit) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sales = append(t.sales, c)
}

func (t *Tracker) Sales() []SaleCommit {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]SaleCommit, len(t.sales))
	copy(out, t.sales)
	return out
}

// SaleFor returns the first recorded commit for the given canonical item
// name.
func (t *Tracker) SaleFor(itemName string) (SaleCommit, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.sales {
		if c.ItemName == itemName {
			return c, true
		}
	}
	return SaleCommit{}, false
}

// TakeSaleFor returns the first commit for the item and removes it, so one
// ledger row can confirm at most one order line. Two lines resolving to the
// same item each need their own commit.
func (t *Tracker) TakeSaleFor(itemName string) (SaleCommit, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, c := range t.sales {
		if c.ItemName == itemName {
			t.sales = append(t.sales[:i], t.sales[i+1:]...)
			return c, true
		}
	}
	return SaleCommit{}, false
}

func (t *Tracker) RecordReorder(c ReorderCommit) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reorders = append(t.reorders, c)
}

func (t *Tracker) Reorders() []ReorderCommit {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ReorderCommit, len(t.reorders))
	copy(out, t.reorders)
	return out
}

// RecordQuote keeps the most recent priced quote for this request.
func (t *Tracker) RecordQuote(q quote.Quote) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.quote = &q
}

func (t *Tracker) Quote() (quote.Quote, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.quote == nil {
		return quote.Quote{}, false
	}
	return *t.quote, true
}
