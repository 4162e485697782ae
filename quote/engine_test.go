package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beaverschoice/paperdesk/catalog"
)

func TestCalculateDiscountTierBoundaries(t *testing.T) {
	t.Parallel()

	engine := NewEngine(catalog.NewMatcher())
	cases := []struct {
		units int64
		rate  string
	}{
		{500, "0"},
		{501, "0.05"},
		{1000, "0.05"},
		{1001, "0.1"},
		{5000, "0.1"},
		{5001, "0.15"},
	}
	for _, tc := range cases {
		q := engine.Calculate([]ItemRequest{{Name: "A4 paper", Quantity: tc.units}})
		assert.Equal(t, tc.rate, q.DiscountRate.String(), "units=%d", tc.units)
	}
}

func TestCalculatePricesResolvedLines(t *testing.T) {
	t.Parallel()

	engine := NewEngine(catalog.NewMatcher())
	q := engine.Calculate([]ItemRequest{
		{Name: "A4 paper", Quantity: 500},
		{Name: "cardstock", Quantity: 300},
	})

	// 500*0.05 + 300*0.15 = 70; 800 units -> 5% tier.
	assert.Equal(t, int64(800), q.TotalUnits)
	assert.Equal(t, "70.00", q.Subtotal.StringFixed(2))
	assert.Equal(t, "3.50", q.DiscountAmount.StringFixed(2))
	assert.Equal(t, "66.50", q.Total.StringFixed(2))
	assert.Len(t, q.Lines, 2)
	assert.Equal(t, "Cardstock", q.Lines[1].MatchedName)
}

func TestCalculateUnresolvedCountsTowardTierNotSubtotal(t *testing.T) {
	t.Parallel()

	engine := NewEngine(catalog.NewMatcher())
	q := engine.Calculate([]ItemRequest{
		{Name: "A4 paper", Quantity: 100},
		{Name: "titanium widgets", Quantity: 600},
	})

	// Unresolved 600 units push total over the 5% threshold even though the
	// line contributes nothing to the subtotal.
	assert.Equal(t, int64(700), q.TotalUnits)
	assert.Equal(t, "0.05", q.DiscountRate.String())
	assert.Equal(t, "5.00", q.Subtotal.StringFixed(2))
	assert.Equal(t, "4.75", q.Total.StringFixed(2))

	assert.True(t, q.Lines[0].Resolved)
	assert.False(t, q.Lines[1].Resolved)
	assert.Empty(t, q.Lines[1].MatchedName)
}

func TestCalculateEmptyRequest(t *testing.T) {
	t.Parallel()

	engine := NewEngine(catalog.NewMatcher())
	q := engine.Calculate(nil)
	assert.Zero(t, q.TotalUnits)
	assert.True(t, q.Total.IsZero())
	assert.True(t, q.DiscountRate.IsZero())
}
