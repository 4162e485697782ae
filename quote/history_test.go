package quote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/beaverschoice/paperdesk/ledger"
)

func newHistoryDB(t *testing.T) *bun.DB {
	t.Helper()

	store, err := ledger.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Init(context.Background()))

	db := store.DB()
	ctx := context.Background()

	requests := []struct {
		id   int
		text string
	}{
		{1, "We need cardstock and glossy paper for a wedding ceremony"},
		{2, "Large order of paper plates for the company picnic"},
		{3, "Flyers and poster paper for a charity gala"},
	}
	for _, r := range requests {
		_, err := db.ExecContext(ctx,
			"INSERT INTO quote_requests (id, response) VALUES (?, ?)", r.id, r.text)
		require.NoError(t, err)
	}

	quotes := []struct {
		requestID   int
		amount      float64
		explanation string
		date        string
	}{
		{1, 320.50, "Bulk discount applied for the large ceremony order", "2025-01-01"},
		{2, 89.00, "Standard pricing, no discount", "2025-02-01"},
		{3, 150.75, "Event pricing with cardstock substitution", "2025-03-01"},
	}
	for _, q := range quotes {
		_, err := db.ExecContext(ctx,
			`INSERT INTO quotes (request_id, total_amount, quote_explanation, order_date, job_type, order_size, event_type)
			 VALUES (?, ?, ?, ?, '', '', '')`,
			q.requestID, q.amount, q.explanation, q.date)
		require.NoError(t, err)
	}

	return db
}

func TestSearchSingleTermMatchesEitherField(t *testing.T) {
	t.Parallel()

	history := NewHistory(newHistoryDB(t))
	ctx := context.Background()

	// "cardstock" appears in request 1's text and in quote 3's explanation.
	records, err := history.Search(ctx, []string{"cardstock"}, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest order_date first.
	assert.Equal(t, "2025-03-01", records[0].OrderDate)
	assert.Equal(t, "2025-01-01", records[1].OrderDate)
}

func TestSearchRequiresEveryTerm(t *testing.T) {
	t.Parallel()

	history := NewHistory(newHistoryDB(t))
	ctx := context.Background()

	// "cardstock" matches records 1 and 3, "wedding" only record 1: the AND
	// across terms keeps just record 1.
	records, err := history.Search(ctx, []string{"cardstock", "wedding"}, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].OriginalRequest, "wedding")
	assert.InDelta(t, 320.50, records[0].TotalAmount, 0.001)
}

func TestSearchTermMayMatchAcrossFields(t *testing.T) {
	t.Parallel()

	history := NewHistory(newHistoryDB(t))
	ctx := context.Background()

	// "gala" is only in the request text, "substitution" only in the
	// explanation; each term may satisfy itself in either field.
	records, err := history.Search(ctx, []string{"gala", "substitution"}, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2025-03-01", records[0].OrderDate)
}

func TestSearchCaseInsensitiveAndLimited(t *testing.T) {
	t.Parallel()

	history := NewHistory(newHistoryDB(t))
	ctx := context.Background()

	records, err := history.Search(ctx, []string{"PAPER"}, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestSearchNoMatch(t *testing.T) {
	t.Parallel()

	history := NewHistory(newHistoryDB(t))
	records, err := history.Search(context.Background(), []string{"submarine"}, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}
