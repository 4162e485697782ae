package quote

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

// DefaultHistoryLimit caps Search results when the caller passes limit <= 0.
const DefaultHistoryLimit = 5

// HistoryRecord is one row of the read-only historical corpus: a past
// customer request joined with the quote it received.
type HistoryRecord struct {
	OriginalRequest string  `bun:"original_request" json:"original_request"`
	TotalAmount     float64 `bun:"total_amount" json:"total_amount"`
	Explanation     string  `bun:"quote_explanation" json:"quote_explanation"`
	JobType         string  `bun:"job_type" json:"job_type"`
	OrderSize       string  `bun:"order_size" json:"order_size"`
	EventType       string  `bun:"event_type" json:"event_type"`
	OrderDate       string  `bun:"order_date" json:"order_date"`
}

// History searches past quotes. It never writes.
type History struct {
	db *bun.DB
}

func NewHistory(db *bun.DB) *History {
	return &History{db: db}
}

// Search returns records where EVERY term appears (case-insensitive
// substring) in the original request text or the quote explanation. Each
// term may match either field independently; the per-term OR combined with
// the cross-term AND is deliberate and kept as-is. Results come back newest
// order_date first, truncated to limit.
func (h *History) Search(ctx context.Context, terms []string, limit int) ([]HistoryRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	var conditions []string
	var args []any
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		pattern := "%" + strings.ToLower(term) + "%"
		conditions = append(conditions,
			"(LOWER(qr.response) LIKE ? OR LOWER(q.quote_explanation) LIKE ?)")
		args = append(args, pattern, pattern)
	}

	where := "1=1"
	if len(conditions) > 0 {
		where = strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT
			qr.response AS original_request,
			q.total_amount,
			q.quote_explanation,
			q.job_type,
			q.order_size,
			q.event_type,
			q.order_date
		FROM quotes q
		JOIN quote_requests qr ON q.request_id = qr.id
		WHERE %s
		ORDER BY q.order_date DESC
		LIMIT %d`, where, limit)

	var records []HistoryRecord
	if err := h.db.NewRaw(query, args...).Scan(ctx, &records); err != nil {
		return nil, fmt.Errorf("search quote history: %w", err)
	}
	return records, nil
}
